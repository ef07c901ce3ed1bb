package http

import (
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/peertutor/pkg/slogx"
	"github.com/gorilla/sessions"
)

const flashCookieName = "peertutor_flash"

// FlashStore keeps one-shot messages in a signed and encrypted cookie so
// they survive the redirect after a form POST.
type FlashStore struct {
	store *sessions.CookieStore
}

// NewFlashStore builds the store. authKey signs the cookie and encKey (16,
// 24 or 32 bytes) encrypts it.
func NewFlashStore(authKey, encKey []byte, secure bool) *FlashStore {
	store := sessions.NewCookieStore(authKey, encKey)
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &FlashStore{store: store}
}

// Add queues messages for the next rendered page. It must run before the
// response header is written.
func (f *FlashStore) Add(w http.ResponseWriter, r *http.Request, msgs ...string) {
	sess, err := f.store.Get(r, flashCookieName)
	if err != nil {
		// A cookie we cannot decode is replaced by a fresh one.
		slogx.FromContext(r.Context()).Debug("discarding unreadable flash cookie", "error", err)
	}

	for _, msg := range msgs {
		sess.AddFlash(msg)
	}
	if err := sess.Save(r, w); err != nil {
		slogx.FromContext(r.Context()).Warn("failed to save flash cookie", "error", err)
	}
}

// Addf queues a single formatted message.
func (f *FlashStore) Addf(w http.ResponseWriter, r *http.Request, format string, args ...any) {
	f.Add(w, r, fmt.Sprintf(format, args...))
}

// Keep stores a form value for the next page, such as the address typed
// into a failed login.
func (f *FlashStore) Keep(w http.ResponseWriter, r *http.Request, key, value string) {
	sess, err := f.store.Get(r, flashCookieName)
	if err != nil {
		slogx.FromContext(r.Context()).Debug("discarding unreadable flash cookie", "error", err)
	}

	sess.Values[key] = value
	if err := sess.Save(r, w); err != nil {
		slogx.FromContext(r.Context()).Warn("failed to save flash cookie", "error", err)
	}
}

// Take returns and clears a value stored with Keep.
func (f *FlashStore) Take(w http.ResponseWriter, r *http.Request, key string) string {
	sess, err := f.store.Get(r, flashCookieName)
	if err != nil {
		return ""
	}

	value, ok := sess.Values[key].(string)
	if !ok {
		return ""
	}
	delete(sess.Values, key)
	if err := sess.Save(r, w); err != nil {
		slogx.FromContext(r.Context()).Warn("failed to clear flash cookie", "error", err)
	}
	return value
}

// Pop returns and clears the queued messages.
func (f *FlashStore) Pop(w http.ResponseWriter, r *http.Request) []string {
	sess, err := f.store.Get(r, flashCookieName)
	if err != nil {
		return nil
	}

	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := sess.Save(r, w); err != nil {
		slogx.FromContext(r.Context()).Warn("failed to clear flash cookie", "error", err)
	}

	msgs := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			msgs = append(msgs, s)
		}
	}
	return msgs
}
