// Package app wires stores, services and the HTTP router together.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sujalbistaa/inkpost/internal/config"
	"github.com/sujalbistaa/inkpost/internal/core/auth"
	"github.com/sujalbistaa/inkpost/internal/core/comments"
	"github.com/sujalbistaa/inkpost/internal/core/images"
	"github.com/sujalbistaa/inkpost/internal/core/posts"
	"github.com/sujalbistaa/inkpost/internal/core/users"
	"github.com/sujalbistaa/inkpost/internal/db"
	routes "github.com/sujalbistaa/inkpost/internal/http"
	"github.com/sujalbistaa/inkpost/internal/metrics"
	"github.com/sujalbistaa/inkpost/internal/ws"
)

// New builds the router on top of a migrated database. The websocket hub and
// the rate limiter janitor run until ctx is cancelled.
func New(ctx context.Context, cfg *config.Config, database *gorm.DB) (*gin.Engine, error) {
	userRepo := db.NewCachedUserRepository(db.NewUserRepository(database), 1024, time.Minute)
	postRepo := db.NewPostRepository(database)
	commentRepo := db.NewCommentRepository(database)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiresIn)

	store, err := images.NewDiskStore(cfg.UploadDir, cfg.PublicURL)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare image store: %w", err)
	}

	hub := ws.NewHub()
	go hub.Run(ctx)

	env := &routes.Env{
		Config:   cfg,
		Tokens:   tokens,
		Users:    users.NewUserService(userRepo, tokens),
		Posts:    posts.NewPostService(postRepo, commentRepo, userRepo),
		Comments: comments.NewCommentService(commentRepo, postRepo, userRepo),
		Images:   store,
		Hub:      hub,
	}

	router := gin.New()
	router.MaxMultipartMemory = cfg.MaxUploadBytes
	routes.SetupRoutes(ctx, router, env, metrics.NewRegistry())
	return router, nil
}
