package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/naimatofficial/linkmood-app/config"
	"github.com/naimatofficial/linkmood-app/handlers"
	"github.com/naimatofficial/linkmood-app/middleware"
	"github.com/naimatofficial/linkmood-app/websocket"
)

// Setup wires the full route surface: auth, posts, likes, saves,
// profiles, push, and the invalidation event socket.
func Setup(h *handlers.Handler, hub *websocket.Hub, cfg *config.Config) *gin.Engine {
	handlers.RegisterValidators()

	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	limiter := middleware.NewIPRateLimiter(60, time.Minute)
	router.Use(middleware.RateLimit(limiter))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "time": time.Now().Unix()})
	})

	// Public routes.
	router.POST("/api/signup", h.SignUp)
	router.POST("/api/signin", h.SignIn)
	router.GET("/api/vapid-public-key", h.GetVAPIDPublicKey)

	// Everything else requires a session token.
	protected := router.Group("/api")
	protected.Use(middleware.JWTAuth(cfg.JWTSecret))

	protected.POST("/signout", h.SignOut)
	protected.GET("/me", h.Me)
	protected.PUT("/me", h.UpdateProfile)

	protected.GET("/users", h.GetUsers)
	protected.GET("/users/:id", h.GetUser)
	protected.GET("/users/:id/posts", h.GetUserPosts)

	protected.POST("/posts", h.CreatePost)
	protected.GET("/posts", h.GetRecentPosts)
	protected.GET("/posts/search", h.SearchPosts)
	protected.GET("/posts/liked", h.GetLikedPosts)
	protected.GET("/posts/:id", h.GetPostByID)
	protected.PUT("/posts/:id", h.UpdatePost)
	protected.DELETE("/posts/:id", h.DeletePost)
	protected.POST("/posts/:id/like", h.LikePost)

	protected.POST("/saves", h.SavePost)
	protected.DELETE("/saves/:id", h.DeleteSavedPost)
	protected.GET("/saves", h.GetSavedPosts)

	protected.POST("/subscribe", h.SubscribePush)

	// Invalidation events. Browsers pass the JWT as ?token=.
	protected.GET("/events", func(c *gin.Context) {
		websocket.Handler(hub)(c.Writer, c.Request)
	})

	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"error": "endpoint not found", "path": c.Request.URL.Path})
	})

	return router
}
