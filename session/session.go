// Package session is the identity boundary: signing users in or up and
// answering who the current user is.
package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("the email or password is incorrect")
	ErrEmailTaken         = errors.New("the email address is already in use by another account")
	ErrAccountDisabled    = errors.New("the user account has been disabled")
)

type Session struct {
	UserID      string
	Email       string
	AccessToken string
	ExpiresAt   time.Time
}

// AuthError wraps a sign in/up failure. Its message is the provider's,
// unchanged, so it can be shown to the user as is.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string { return e.Err.Error() }
func (e *AuthError) Unwrap() error { return e.Err }

// Authenticator exchanges email and password for a session. One attempt
// per call, no retries.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignUp(ctx context.Context, email, password string) (Session, error)
}

// Current reports the signed-in user, if any.
type Current interface {
	CurrentUserID() (string, bool)
}

// Static is a fixed identity, typically taken from a verified bearer token.
// The empty string means nobody is signed in.
type Static string

func (s Static) CurrentUserID() (string, bool) {
	return string(s), s != ""
}

// Holder keeps the session established by the auth flow.
type Holder struct {
	mu      sync.RWMutex
	session *Session
}

func (h *Holder) Set(s Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.session = &s
}

func (h *Holder) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.session = nil
}

func (h *Holder) Session() (Session, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.session == nil {
		return Session{}, false
	}
	return *h.session, true
}

func (h *Holder) CurrentUserID() (string, bool) {
	s, ok := h.Session()
	if !ok || s.UserID == "" {
		return "", false
	}
	return s.UserID, true
}
