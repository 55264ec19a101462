package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mercadito-pe/mercadito-api/internal/application/service"
	"github.com/mercadito-pe/mercadito-api/internal/config"
	"github.com/mercadito-pe/mercadito-api/internal/infrastructure/database"
	"github.com/mercadito-pe/mercadito-api/internal/infrastructure/repository"
	"github.com/mercadito-pe/mercadito-api/internal/presentation/http/handler"
	"github.com/mercadito-pe/mercadito-api/internal/presentation/http/routes"
	"github.com/mercadito-pe/mercadito-api/pkg/events"
	"github.com/mercadito-pe/mercadito-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	presentationRepo := repository.NewPresentationRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	orderItemRepo := repository.NewOrderItemRepository(db)
	historyRepo := repository.NewOrderStatusHistoryRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	txManager := repository.NewTxManager(db)

	// Purge expired idempotency keys in the background
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if _, err := idempotencyRepo.DeleteExpired(context.Background()); err != nil {
				log.Printf("Warning: failed to purge expired idempotency keys: %v", err)
			}
		}
	}()

	// Event bus; logging is the only consumer for now
	bus := events.NewLoggingBus()

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	productService := service.NewProductService(productRepo, presentationRepo, categoryRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	pricingService := service.NewPricingService(productRepo)
	orderService := service.NewOrderService(orderRepo, orderItemRepo, historyRepo, pricingService, txManager, bus)
	paymentService := service.NewPaymentService(paymentRepo, orderRepo, historyRepo, txManager, bus)
	dashboardService := service.NewDashboardService(analyticsRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Product:   handler.NewProductHandler(productService),
		Category:  handler.NewCategoryHandler(categoryService),
		Order:     handler.NewOrderHandler(orderService),
		Payment:   handler.NewPaymentHandler(paymentService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
