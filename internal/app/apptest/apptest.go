// Package apptest builds a fully wired router over an in-memory database.
package apptest

import (
	"context"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/sujalbistaa/inkpost/internal/app"
	"github.com/sujalbistaa/inkpost/internal/config"
	"github.com/sujalbistaa/inkpost/internal/db/dbtest"
)

// Config returns settings suitable for tests: generous rate limits and a
// private upload directory.
func Config(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Port:           "0",
		JWTSecret:      "test-secret",
		JWTExpiresIn:   time.Hour,
		CORSOrigin:     "*",
		AppEnv:         "test",
		UploadDir:      t.TempDir(),
		PublicURL:      "http://localhost",
		MaxUploadBytes: 1 << 20,
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
	}
}

// NewRouter wires the application against cfg, or Config(t) when cfg is nil.
func NewRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if cfg == nil {
		cfg = Config(t)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	router, err := app.New(ctx, cfg, dbtest.New(t))
	require.NoError(t, err)
	return router
}
