package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/climalab/clima-chat/internal/domain/auth"
	"github.com/climalab/clima-chat/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, authSvc auth.Service, logger *slog.Logger) *http.Server {
	if !cfg.HTTP.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		rateLimitMiddleware(cfg.HTTP.RateLimit, logger),
		errorHandlingMiddleware(logger, cfg.HTTP.Debug),
	)

	api := router.Group("/api/v1")
	{
		api.POST("/auth/register", handler.Register)
		api.POST("/auth/login", handler.Login)
		api.POST("/auth/refresh", handler.Refresh)

		protected := api.Group("")
		protected.Use(authMiddleware(authSvc))
		{
			protected.GET("/auth/profile", handler.Profile)
			protected.GET("/chats", handler.ListChats)
			protected.POST("/chats", handler.CreateChat)
			protected.GET("/chats/:id", handler.GetChat)
			protected.DELETE("/chats/:id", handler.DeleteChat)
			protected.POST("/chats/:id/messages", handler.SendMessage)
		}
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        withRetry(router, cfg.HTTP.Retry, logger),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
