package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/creatorlinkhq/creatorlink-backend/internal/http/handlers"
	httpMW "github.com/creatorlinkhq/creatorlink-backend/internal/http/middleware"
	"github.com/creatorlinkhq/creatorlink-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	AuthMiddleware *httpMW.AuthMiddleware

	InboxHandler     *httpH.InboxHandler
	PortfolioHandler *httpH.PortfolioHandler
	RatingHandler    *httpH.RatingHandler
	HealthHandler    *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("creatorlink-backend"))
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Inbox
		if cfg.InboxHandler != nil {
			protected.GET("/inbox/projects", cfg.InboxHandler.ListProjectThreads)
			protected.POST("/inbox/conversations/:id/read", cfg.InboxHandler.MarkConversationRead)
		}

		// Portfolio
		if cfg.PortfolioHandler != nil {
			protected.GET("/portfolio/images", cfg.PortfolioHandler.ListImages)
			protected.PUT("/portfolio/images/order", cfg.PortfolioHandler.ReorderImages)
		}

		// Ratings
		if cfg.RatingHandler != nil {
			protected.POST("/applications/:id/rating", cfg.RatingHandler.RateApplication)
		}
	}

	return r
}
