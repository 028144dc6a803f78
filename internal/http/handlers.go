package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sujalbistaa/inkpost/internal/config"
	"github.com/sujalbistaa/inkpost/internal/core/comments"
	"github.com/sujalbistaa/inkpost/internal/core/images"
	"github.com/sujalbistaa/inkpost/internal/core/posts"
	"github.com/sujalbistaa/inkpost/internal/core/users"
	"github.com/sujalbistaa/inkpost/internal/ws"
)

// Feed event types pushed over /ws.
const (
	EventPostCreated    = "post_created"
	EventPostUpdated    = "post_updated"
	EventPostDeleted    = "post_deleted"
	EventPostLiked      = "post_liked"
	EventCommentCreated = "comment_created"
	EventCommentDeleted = "comment_deleted"
)

// Env carries the handlers' dependencies.
type Env struct {
	Config   *config.Config
	Tokens   TokenVerifier
	Users    users.Service
	Posts    posts.Service
	Comments comments.Service
	Images   images.Store
	Hub      *ws.Hub
}

func (e *Env) publish(eventType string, data interface{}) {
	if e.Hub == nil {
		return
	}
	e.Hub.Publish(eventType, data)
}

func (e *Env) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func listResponse(c *gin.Context, data interface{}, count int) {
	c.JSON(http.StatusOK, gin.H{"success": true, "count": count, "data": data})
}
