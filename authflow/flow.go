// Package authflow drives the login and signup screens and the navigation
// that follows a successful sign in.
package authflow

import (
	"context"
	"errors"
	"strings"

	"taskmanager/session"
)

var ErrMissingFields = errors.New("Please fill all fields")

type Screen string

const (
	Login    Screen = "login"
	Signup   Screen = "signup"
	TaskList Screen = "tasks"
)

// Navigator is a history stack of screens. The last entry is the one shown.
type Navigator struct {
	history []Screen
}

func NewNavigator(start Screen) *Navigator {
	return &Navigator{history: []Screen{start}}
}

func (n *Navigator) Current() Screen {
	if len(n.history) == 0 {
		return Login
	}
	return n.history[len(n.history)-1]
}

func (n *Navigator) Push(s Screen) {
	n.history = append(n.history, s)
}

// Back pops one screen. At the root it does nothing.
func (n *Navigator) Back() Screen {
	if len(n.history) > 1 {
		n.history = n.history[:len(n.history)-1]
	}
	return n.Current()
}

// Reset clears the history and shows s as the only screen.
func (n *Navigator) Reset(s Screen) {
	n.history = []Screen{s}
}

func (n *Navigator) Depth() int { return len(n.history) }

type Flow struct {
	Auth   session.Authenticator
	Holder *session.Holder
	Nav    *Navigator
}

func New(auth session.Authenticator, holder *session.Holder) *Flow {
	return &Flow{Auth: auth, Holder: holder, Nav: NewNavigator(Login)}
}

func (f *Flow) GoToSignup() { f.Nav.Push(Signup) }

// GoToLogin returns to the login screen, popping back when it is the
// previous one.
func (f *Flow) GoToLogin() {
	if n := len(f.Nav.history); n > 1 && f.Nav.history[n-2] == Login {
		f.Nav.Back()
		return
	}
	f.Nav.Push(Login)
}

func (f *Flow) Login(ctx context.Context, email, password string) (session.Session, error) {
	return f.attempt(ctx, email, password, f.Auth.SignIn)
}

func (f *Flow) Signup(ctx context.Context, email, password string) (session.Session, error) {
	return f.attempt(ctx, email, password, f.Auth.SignUp)
}

type attemptFunc func(ctx context.Context, email, password string) (session.Session, error)

func (f *Flow) attempt(ctx context.Context, email, password string, call attemptFunc) (session.Session, error) {
	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		return session.Session{}, ErrMissingFields
	}

	s, err := call(ctx, email, password)
	if err != nil {
		return session.Session{}, err
	}
	f.Holder.Set(s)
	f.Nav.Reset(TaskList)
	return s, nil
}
