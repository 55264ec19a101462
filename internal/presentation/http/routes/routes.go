package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mercadito-pe/mercadito-api/internal/config"
	domainRepo "github.com/mercadito-pe/mercadito-api/internal/domain/repository"
	"github.com/mercadito-pe/mercadito-api/internal/presentation/http/handler"
	"github.com/mercadito-pe/mercadito-api/internal/presentation/http/middleware"
	"github.com/mercadito-pe/mercadito-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Product   *handler.ProductHandler
	Category  *handler.CategoryHandler
	Order     *handler.OrderHandler
	Payment   *handler.PaymentHandler
	Dashboard *handler.DashboardHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
		BurstSize:         deps.Cfg.RateLimit.Requests,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(rateLimiter.Middleware())
	{
		registerAuthRoutes(v1, h)
		registerPublicRoutes(v1, h, deps)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		registerProtectedRoutes(protected, h)

		admin := v1.Group("")
		admin.Use(middleware.AuthMiddleware(deps.JWTManager))
		admin.Use(middleware.RequireRole("admin"))
		registerAdminRoutes(admin, h)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}
}

// registerPublicRoutes covers storefront browsing and the guest order flow.
// Optional auth links orders to logged-in customers and enables idempotent
// retries on order creation.
func registerPublicRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	public := v1.Group("")
	public.Use(middleware.OptionalAuthMiddleware(deps.JWTManager))
	{
		public.GET("/categories", h.Category.List)
		public.GET("/categories/:slug", h.Category.Get)
		public.GET("/products", h.Product.List)
		public.GET("/products/:slug", h.Product.Get)

		public.POST("/orders", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Order.Create)
		public.GET("/orders/:number", h.Order.Get)
		public.GET("/orders/:number/payment", h.Payment.GetForOrder)

		public.POST("/payments", h.Payment.Create)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers) {
	protected.GET("/profile", h.Auth.Me)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	protected.GET("/orders", h.Order.List)
}

func registerAdminRoutes(admin *gin.RouterGroup, h *Handlers) {
	admin.GET("/dashboard", h.Dashboard.Stats)

	// Catalog management
	admin.POST("/products", h.Product.Create)
	admin.PUT("/products/:slug", h.Product.Update)
	admin.DELETE("/products/:slug", h.Product.Delete)
	admin.POST("/products/:slug/presentations", h.Product.CreatePresentation)
	admin.PUT("/presentations/:id", h.Product.UpdatePresentation)
	admin.DELETE("/presentations/:id", h.Product.DeletePresentation)

	admin.POST("/categories", h.Category.Create)
	admin.PUT("/categories/:slug", h.Category.Update)
	admin.DELETE("/categories/:id", h.Category.Delete)

	// Order workflow
	admin.PUT("/orders/:number/status", h.Order.UpdateStatus)
	admin.POST("/orders/:number/cancel", h.Order.Cancel)
	admin.POST("/orders/:number/confirm", h.Payment.Confirm)

	// Payment verification
	admin.GET("/payments/:number", h.Payment.Get)
	admin.POST("/payments/:number/verify", h.Payment.Verify)
}
