package http

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/sujalbistaa/inkpost/internal/ws"
)

// SetupRoutes configures all application routes and middleware. Background
// work started here stops when ctx is cancelled.
func SetupRoutes(ctx context.Context, router *gin.Engine, env *Env, registry *prometheus.Registry) {
	useJSONFieldNames()

	// --- Middleware ---
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(SecurityHeadersMiddleware())
	router.Use(MetricsMiddleware())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{env.Config.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: env.Config.CORSOrigin != "*",
	}))

	// --- Rate Limiter Setup ---
	limiter := NewRateLimiter(rate.Limit(env.Config.RateLimitRPS), env.Config.RateLimitBurst)
	go limiter.Cleanup(ctx, 10*time.Minute)
	limited := RateLimitMiddleware(limiter)

	requireAuth := RequireAuth(env.Tokens, env.Users)

	// --- API Routes ---
	api := router.Group("/api")
	{
		authRoutes := api.Group("/auth")
		authRoutes.POST("/register", limited, env.Register)
		authRoutes.POST("/login", limited, env.Login)
		authRoutes.GET("/me", requireAuth, env.Me)
		authRoutes.PUT("/me", requireAuth, env.UpdateMe)
		authRoutes.PUT("/change-password", requireAuth, env.ChangePassword)

		api.GET("/posts", env.GetPosts)
		api.POST("/posts", requireAuth, limited, env.CreatePost)
		api.GET("/posts/:id", env.GetPost)
		api.PUT("/posts/:id", requireAuth, env.UpdatePost)
		api.DELETE("/posts/:id", requireAuth, env.DeletePost)
		api.PUT("/posts/:id/like", requireAuth, env.LikePost)

		api.GET("/users/:id/posts", env.GetUserPosts)

		// :id is the post for GET and POST, the comment for DELETE.
		api.GET("/comments/:id", env.GetComments)
		api.POST("/comments/:id", requireAuth, limited, env.CreateComment)
		api.DELETE("/comments/:id", requireAuth, env.DeleteComment)
	}

	// --- Uploaded images ---
	router.Static("/uploads", env.Config.UploadDir)

	// --- WebSocket Route ---
	router.GET("/ws", func(c *gin.Context) {
		ws.ServeWs(env.Hub, c.Writer, c.Request)
	})

	// --- Operational ---
	router.GET("/healthz", env.Health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
}
