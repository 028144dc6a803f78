package http

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sujalbistaa/inkpost/internal/core/auth"
	"github.com/sujalbistaa/inkpost/internal/core/users"
	"github.com/sujalbistaa/inkpost/internal/metrics"
)

const (
	ctxUserID = "userID"
	ctxUser   = "user"
)

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// RequireAuth rejects requests without a valid bearer token for an existing
// user. The user id and record are stored on the gin context and the user id
// on the request context.
func RequireAuth(tokens TokenVerifier, userService users.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			respondError(c, http.StatusUnauthorized, "Not authorized, no token", nil)
			return
		}

		userID, err := tokens.Verify(strings.TrimSpace(token))
		if err != nil {
			log.Printf("[AUTH_FAILURE] ip=%s path=%s error=%v", c.ClientIP(), c.Request.URL.Path, err)
			respondError(c, http.StatusUnauthorized, "Not authorized, token failed", nil)
			return
		}

		user, err := userService.GetUser(c.Request.Context(), userID)
		if err != nil {
			if users.IsNotFound(err) {
				log.Printf("[AUTH_FAILURE] ip=%s user=%s error=user no longer exists", c.ClientIP(), userID)
				respondError(c, http.StatusUnauthorized, "Not authorized, user not found", nil)
				return
			}
			log.Printf("[AUTH] failed to load user=%s error=%v", userID, err)
			respondError(c, http.StatusInternalServerError, "Internal server error", nil)
			return
		}

		c.Set(ctxUserID, user.ID)
		c.Set(ctxUser, user)
		c.Request = c.Request.WithContext(auth.WithUserID(c.Request.Context(), user.ID))
		c.Next()
	}
}

func currentUserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

// MetricsMiddleware records request counts and latency by route template.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}

// SecurityHeadersMiddleware adds basic, sensible security headers.
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Prevents clickjacking
		c.Header("X-Frame-Options", "DENY")
		// Prevents MIME-type sniffing
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "no-referrer")

		// JSON API plus uploaded images; nothing here should run scripts.
		c.Header("Content-Security-Policy", "default-src 'none'; img-src 'self'; frame-ancestors 'none'")

		c.Next()
	}
}
