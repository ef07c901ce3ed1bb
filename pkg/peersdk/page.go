package peersdk

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	"golang.org/x/net/html"
)

// Page is the HTML page a request finally landed on.
type Page struct {
	StatusCode int
	// Path of the final URL after redirects.
	Path string
	// Title is the text of the <title> element.
	Title string
	// Flashes are the flash messages rendered on the page, in order.
	Flashes []string
	// UserID is the signed in user, read from the peertutor-user meta tag.
	UserID string
	// SetCookies collects every Set-Cookie header seen along the redirect chain.
	SetCookies []string
	Body       string
}

// HasFlash reports whether any flash message contains substr.
func (p *Page) HasFlash(substr string) bool {
	return slices.ContainsFunc(p.Flashes, func(f string) bool {
		return strings.Contains(f, substr)
	})
}

func readPage(resp *http.Response) (*Page, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	page := &Page{
		StatusCode: resp.StatusCode,
		Path:       resp.Request.URL.Path,
		Body:       string(body),
	}

	if strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		parsePage(body, page)
	}
	return page, nil
}

// parsePage walks the token stream picking out the title, the flash list
// items and the peertutor-user meta tag.
func parsePage(body []byte, page *Page) {
	z := html.NewTokenizer(bytes.NewReader(body))

	var capture string // "title", "flash" or empty
	var text strings.Builder

	for {
		switch z.Next() {
		case html.ErrorToken:
			return

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			switch {
			case tok.Data == "title":
				capture = "title"
				text.Reset()
			case tok.Data == "li" && hasClass(tok, "flash"):
				capture = "flash"
				text.Reset()
			case tok.Data == "meta" && attr(tok, "name") == "peertutor-user":
				page.UserID = attr(tok, "content")
			}

		case html.TextToken:
			if capture != "" {
				text.Write(z.Text())
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			switch {
			case capture == "title" && string(name) == "title":
				page.Title = strings.TrimSpace(text.String())
				capture = ""
			case capture == "flash" && string(name) == "li":
				page.Flashes = append(page.Flashes, strings.TrimSpace(text.String()))
				capture = ""
			}
		}
	}
}

func attr(tok html.Token, key string) string {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(tok html.Token, class string) bool {
	return slices.Contains(strings.Fields(attr(tok, "class")), class)
}
