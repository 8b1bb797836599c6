package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mirrelia/community-feed/backend/internal/config"
	"github.com/mirrelia/community-feed/backend/internal/database"
	"github.com/mirrelia/community-feed/backend/internal/handlers"
	"github.com/mirrelia/community-feed/backend/internal/metrics"
	"github.com/mirrelia/community-feed/backend/internal/middleware"
)

type Server struct {
	cfg        *config.Config
	db         database.Service
	handler    *handlers.Handler
	demoUserID int
}

// New wires the handler stack on top of an already-connected database.
// demoUserID is the seeded guest identity unauthenticated requests act as.
func New(cfg *config.Config, db database.Service, demoUserID int) *Server {
	return &Server{
		cfg:        cfg,
		db:         db,
		handler:    handlers.NewHandler(db.GetDB(), cfg),
		demoUserID: demoUserID,
	}
}

// HTTPServer builds the configured http.Server.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         "0.0.0.0:" + s.cfg.Server.Port,
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	gin.SetMode(ginMode(s.cfg.Server.Mode))

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(metrics.RequestCounter())

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.db.Health())
	})
	r.GET("/metrics", metrics.Handler())

	// Every /api request carries a resolved identity: a Bearer token when
	// the caller has one, the demo user otherwise.
	api := r.Group("/api")
	api.Use(middleware.Identity(s.cfg.Auth.Secret, s.demoUserID))
	{
		api.GET("/posts", s.handler.Post.GetPosts)
		api.POST("/posts", s.handler.Post.CreatePost)
		api.GET("/posts/:id", s.handler.Post.GetPost)

		api.GET("/posts/:id/comments", s.handler.Post.GetComments)
		api.POST("/posts/:id/comments", s.handler.Comment.CreateComment)

		api.POST("/posts/:id/like", s.handler.Like.LikePost)
		api.DELETE("/posts/:id/like", s.handler.Like.UnlikePost)
		api.POST("/comments/:commentId/like", s.handler.Like.LikeComment)
		api.DELETE("/comments/:commentId/like", s.handler.Like.UnlikeComment)

		api.GET("/leaderboard", s.handler.Leaderboard.GetLeaderboard)
	}

	return r
}

func ginMode(mode string) string {
	switch mode {
	case "release":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
