package client

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)
	return token
}

func TestSession_Token(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	valid := signed(t, jwt.RegisteredClaims{Subject: "u1", ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))})
	expired := signed(t, jwt.RegisteredClaims{Subject: "u1", ExpiresAt: jwt.NewNumericDate(now.Add(-time.Second))})
	noExpiry := signed(t, jwt.RegisteredClaims{Subject: "u1"})

	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"empty", "", ""},
		{"valid", valid, valid},
		{"expired", expired, ""},
		{"no expiry", noExpiry, ""},
		{"malformed", "not.a.jwt", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession()
			s.now = func() time.Time { return now }
			s.Set(tt.token)
			assert.Equal(t, tt.want, s.Token())
		})
	}
}

func TestSession_Clear(t *testing.T) {
	s := NewSession()
	s.Set(signed(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}))
	require.True(t, s.Authenticated())

	s.Clear()
	assert.False(t, s.Authenticated())
}

func TestSession_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	token := signed(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))})

	s := NewSession()
	s.Set(token)
	require.NoError(t, s.SaveFile(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := LoadSession(path)
	require.NoError(t, err)
	assert.Equal(t, token, loaded.Token())
}

func TestLoadSession_MissingFile(t *testing.T) {
	s, err := LoadSession(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.False(t, s.Authenticated())
}

func TestSession_ConcurrentUse(t *testing.T) {
	s := NewSession()
	token := signed(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Set(token)
		}()
		go func() {
			defer wg.Done()
			_ = s.Token()
		}()
	}
	wg.Wait()
	assert.Equal(t, token, s.Token())
}
