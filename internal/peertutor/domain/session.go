package domain

import "time"

// Session is the server side record behind a session cookie. Deleting it
// invalidates the cookie even before the token expires.
type Session struct {
	ID         string
	UserID     string
	Persistent bool // "remember me"
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Principal is the identity attached to a request. The zero value is the
// anonymous principal.
type Principal struct {
	User      User
	SessionID string
}

// Anonymous is the principal of a request without a valid session.
var Anonymous = Principal{}

func (p Principal) IsAuthenticated() bool {
	return p.User.ID != "" && p.SessionID != ""
}

// Can reports whether the principal is signed in with at least min.
func (p Principal) Can(min Role) bool {
	return p.IsAuthenticated() && p.User.Role.AtLeast(min)
}
