package peersdk

import (
	"context"
	"net/url"
)

// LearnForm is the /learn help request form.
type LearnForm struct {
	SubjectTitle string
	Issue        string // hw, proj, test or other
	Elaboration  string
	Title        string
	Challenge    string
	Requests     string
	Availability string
	Additional   string
}

// Me fetches the signed in user's profile.
func (c *Client) Me(ctx context.Context) (*Page, error) {
	return c.Get(ctx, "/me")
}

// Learn files a help request.
func (c *Client) Learn(ctx context.Context, f LearnForm) (*Page, error) {
	return c.PostForm(ctx, "/learn", url.Values{
		"subj_title":          {f.SubjectTitle},
		"issue":               {f.Issue},
		"elaboration":         {f.Elaboration},
		"title":               {f.Title},
		"challenge":           {f.Challenge},
		"requests":            {f.Requests},
		"availability":        {f.Availability},
		"additional_comments": {f.Additional},
	})
}

// ManageUsers fetches the role management page.
func (c *Client) ManageUsers(ctx context.Context) (*Page, error) {
	return c.Get(ctx, "/manage_users")
}

// SetRole changes another user's role. role is "user" or "admin".
func (c *Client) SetRole(ctx context.Context, userID, role string) (*Page, error) {
	return c.PostForm(ctx, "/manage_users", url.Values{
		"user_id": {userID},
		"role":    {role},
	})
}
