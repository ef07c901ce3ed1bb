package peersdk

import (
	"context"
	"net/url"
	"strconv"
)

// LoginForm is the /login form.
type LoginForm struct {
	Email    string
	Password string
	Remember bool
	// Next is passed as the ?next= query parameter.
	Next string
}

// SignupForm is the /signup form. Tutor and Learn hold subject names; they
// are all submitted under the science group since the server merges the
// three groups anyway.
type SignupForm struct {
	EmailLocal string
	Password   string
	FirstName  string
	LastName   string
	Grade      int
	Tutor      []string
	Learn      []string
}

// Login submits the login form.
func (c *Client) Login(ctx context.Context, f LoginForm) (*Page, error) {
	form := url.Values{
		"email":    {f.Email},
		"password": {f.Password},
	}
	if f.Remember {
		form.Set("remember-me", "on")
	}

	path := "/login"
	if f.Next != "" {
		path += "?" + url.Values{"next": {f.Next}}.Encode()
	}
	return c.PostForm(ctx, path, form)
}

// Signup submits the signup form.
func (c *Client) Signup(ctx context.Context, f SignupForm) (*Page, error) {
	form := url.Values{
		"email":      {f.EmailLocal},
		"password":   {f.Password},
		"first_name": {f.FirstName},
		"last_name":  {f.LastName},
		"grade":      {strconv.Itoa(f.Grade)},
	}
	for _, s := range f.Tutor {
		form.Add("tutor_science", s)
	}
	for _, s := range f.Learn {
		form.Add("learn_science", s)
	}
	return c.PostForm(ctx, "/signup", form)
}

// ResetPassword asks the site to email a new password to email.
func (c *Client) ResetPassword(ctx context.Context, email string) (*Page, error) {
	return c.PostForm(ctx, "/reset_password", url.Values{"email": {email}})
}

// Logout clears the session.
func (c *Client) Logout(ctx context.Context) (*Page, error) {
	return c.Get(ctx, "/logout")
}
