package service

import (
	"bytes"
	"embed"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/aussiebroadwan/peertutor/internal/peertutor/domain"
	"github.com/aussiebroadwan/peertutor/pkg/mailx"
)

// ResetSubject is the subject line of the password reset email.
const ResetSubject = "Password Reset Notification"

//go:embed templates/*
var assets embed.FS

var (
	resetText = texttemplate.Must(texttemplate.ParseFS(assets, "templates/reset_password_email.txt"))
	resetHTML = htmltemplate.Must(htmltemplate.ParseFS(assets, "templates/reset_password_email.html"))
)

type resetMailData struct {
	User     domain.User
	Password string
	LoginURL string
}

func renderResetMail(user domain.User, password, loginURL string) (mailx.Message, error) {
	data := resetMailData{User: user, Password: password, LoginURL: loginURL}

	var text, html bytes.Buffer
	if err := resetText.Execute(&text, data); err != nil {
		return mailx.Message{}, err
	}
	if err := resetHTML.Execute(&html, data); err != nil {
		return mailx.Message{}, err
	}

	return mailx.Message{
		Subject:  ResetSubject,
		To:       []string{user.Email},
		TextBody: text.String(),
		HTMLBody: html.String(),
	}, nil
}
