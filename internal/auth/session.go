// Package auth is the client-only login gate. Credentials are compared with
// configured mock values and the result lives in memory for the session.
package auth

import (
	"crypto/subtle"
	"errors"
	"strings"
	"sync"
)

var (
	ErrEmptyCredentials   = errors.New("username and password are required")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type Credentials struct {
	Username string
	Password string
}

type Session struct {
	mu       sync.RWMutex
	required bool
	creds    Credentials
	user     string
}

// NewSession returns a logged-out session. When required is false every
// caller counts as logged in.
func NewSession(required bool, creds Credentials) *Session {
	return &Session{required: required, creds: creds}
}

func (s *Session) Required() bool { return s.required }

func (s *Session) Login(username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return ErrEmptyCredentials
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.creds.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.creds.Password)) == 1
	if !userOK || !passOK {
		return ErrInvalidCredentials
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = username
	return nil
}

func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = ""
}

func (s *Session) LoggedIn() bool {
	if !s.required {
		return true
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != ""
}

// User is the logged-in username, or "".
func (s *Session) User() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}
