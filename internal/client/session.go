package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session owns the bearer token a Client sends. It is safe for concurrent use.
type Session struct {
	mu    sync.RWMutex
	token string
	now   func() time.Time
}

type sessionFile struct {
	Token string `json:"token"`
}

func NewSession() *Session {
	return &Session{now: time.Now}
}

// LoadSession reads a session saved with SaveFile. A missing file yields an
// empty session.
func LoadSession(path string) (*Session, error) {
	s := NewSession()

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var f sessionFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	s.token = f.Token
	return s, nil
}

// SaveFile writes the current token to path, readable only by the owner.
func (s *Session) SaveFile(path string) error {
	s.mu.RLock()
	raw, err := json.Marshal(sessionFile{Token: s.token})
	s.mu.RUnlock()
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}

// Set stores a freshly issued token.
func (s *Session) Set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Clear forgets the token.
func (s *Session) Clear() {
	s.Set("")
}

// Token returns the stored token if there is one and it has not expired.
// The signature is not checked; that is the server's job.
func (s *Session) Token() string {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	if token == "" {
		return ""
	}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return ""
	}
	if claims.ExpiresAt == nil || !s.now().Before(claims.ExpiresAt.Time) {
		return ""
	}
	return token
}

// Authenticated reports whether Token would return a usable token.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}
