package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/creatorlinkhq/creatorlink-backend/internal/data/repos"
	"github.com/creatorlinkhq/creatorlink-backend/internal/db"
	httpx "github.com/creatorlinkhq/creatorlink-backend/internal/http"
	"github.com/creatorlinkhq/creatorlink-backend/internal/http/handlers"
	"github.com/creatorlinkhq/creatorlink-backend/internal/http/middleware"
	"github.com/creatorlinkhq/creatorlink-backend/internal/observability"
	"github.com/creatorlinkhq/creatorlink-backend/internal/pkg/envutil"
	"github.com/creatorlinkhq/creatorlink-backend/internal/pkg/logger"
	"github.com/creatorlinkhq/creatorlink-backend/internal/services"
)

func main() {
	// Logger
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Tracing
	shutdownOTel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "creatorlink-backend",
		Environment: envutil.String("DEPLOY_ENV", "development"),
		Version:     envutil.String("SERVICE_VERSION", "dev"),
	})

	// Postgres
	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	gdb := pg.DB()

	// Repos
	log.Info("Setting up repos...")
	conversationRepo := repos.NewConversationRepo(gdb, log)
	messageRepo := repos.NewMessageRepo(gdb, log)
	brandRepo := repos.NewBrandProfileRepo(gdb, log)
	userRepo := repos.NewUserRepo(gdb, log)
	applicationRepo := repos.NewApplicationRepo(gdb, log)
	campaignRepo := repos.NewCampaignRepo(gdb, log)
	portfolioRepo := repos.NewPortfolioImageRepo(gdb, log)
	ratingRepo := repos.NewRatingRepo(gdb, log)

	// Services
	log.Info("Setting up services...")
	bucketService, err := services.NewBucketService(log)
	if err != nil {
		// URLs degrade to raw object keys without a bucket client.
		log.Warn("Could not init BucketService", "error", err)
	}
	var urls services.ObjectURLResolver
	if bucketService != nil {
		urls = bucketService
	}
	inboxService := services.NewInboxService(gdb, log, conversationRepo, messageRepo, brandRepo, userRepo, applicationRepo, campaignRepo, urls)
	portfolioService := services.NewPortfolioService(gdb, log, portfolioRepo, urls)
	ratingService := services.NewRatingService(gdb, log, ratingRepo, applicationRepo)

	// Handlers + middleware
	log.Info("Setting up handlers...")
	inboxHandler := handlers.NewInboxHandler(inboxService)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
	ratingHandler := handlers.NewRatingHandler(ratingService)
	healthHandler := handlers.NewHealthHandler()
	authMiddleware := middleware.NewAuthMiddleware(log, envutil.String("JWT_SECRET_KEY", "defaultsecret"))

	// Router
	server := httpx.NewServer(httpx.RouterConfig{
		Log:              log,
		AuthMiddleware:   authMiddleware,
		InboxHandler:     inboxHandler,
		PortfolioHandler: portfolioHandler,
		RatingHandler:    ratingHandler,
		HealthHandler:    healthHandler,
	})

	port := envutil.String("PORT", "8080")
	log.Info("Server listening", "port", port)
	if err := server.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}

	if shutdownOTel != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownOTel(ctx)
	}
}
