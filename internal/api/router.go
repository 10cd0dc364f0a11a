package api

import (
	"log/slog"
	"os"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/medimarkt/medimarkt-backend/internal/api/handlers"
	"github.com/medimarkt/medimarkt-backend/internal/api/middleware"
	"github.com/medimarkt/medimarkt-backend/internal/logger"
	"github.com/medimarkt/medimarkt-backend/internal/notify"
	"github.com/medimarkt/medimarkt-backend/internal/repository"
	"github.com/medimarkt/medimarkt-backend/internal/services"
	"gorm.io/gorm"
)

// RouterConfig holds dependencies for the router
type RouterConfig struct {
	DB     *gorm.DB
	Hub    *notify.Hub
	Logger *slog.Logger
	// Security configuration
	APIKey         string   // API key for authentication (empty = disabled)
	AllowedOrigins []string // Allowed CORS origins
	RateLimit      int      // Requests per second (0 = use env default)
	RateBurst      int      // Burst size for rate limiter
	EnableAuth     bool     // Enable API key authentication
}

// NewRouter creates and configures the Echo router with all routes
func NewRouter(cfg *RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Security Middleware (applied in correct order)
	// 1. Recover from panics
	e.Use(middleware.Recover())

	// 2. Security headers (applied to all responses)
	e.Use(middleware.SecureHeaders())

	// 3. CORS - Set environment variable if origins provided in config
	if len(cfg.AllowedOrigins) > 0 {
		os.Setenv("ALLOWED_ORIGINS", strings.Join(cfg.AllowedOrigins, ","))
	}
	e.Use(middleware.SecureCORS())

	// 4. Rate limiting - use RateLimiterWithConfig if custom values provided
	if cfg.RateLimit > 0 {
		e.Use(middleware.RateLimiterWithConfig(float64(cfg.RateLimit), cfg.RateBurst, cfg.Logger))
	} else {
		e.Use(middleware.RateLimiter(cfg.Logger))
	}

	// 5. Request logging
	if cfg.Logger != nil {
		e.Use(middleware.RequestLogger(cfg.Logger))
	}

	// Initialize repositories and transaction manager
	repos := repository.NewRepositories(cfg.DB)
	txManager := repository.NewTxManager(cfg.DB)
	secLog := logger.NewSecurityLogger()

	// The hub is optional; without one, notifications are discarded
	var dispatcher services.NotificationDispatcher = services.NopDispatcher{}
	if cfg.Hub != nil {
		dispatcher = cfg.Hub
	}

	// Initialize services
	blockService := services.NewBlockService(repos.Blocks, repos.Users)
	quotaService := services.NewQuotaService(repos.Subscriptions)
	connectionService := services.NewConnectionService(repos, txManager, dispatcher, secLog)
	messageService := services.NewMessageService(repos, txManager, dispatcher, secLog)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB)
	connectionHandler := handlers.NewConnectionHandler(connectionService)
	messageHandler := handlers.NewMessageHandler(messageService)
	blockHandler := handlers.NewBlockHandler(blockService)
	subscriptionHandler := handlers.NewSubscriptionHandler(quotaService)

	// Health routes (no auth required)
	e.GET("/health", healthHandler.Health)
	e.GET("/ready", healthHandler.Ready)

	// WebSocket notification stream
	if cfg.Hub != nil {
		upgrader := notify.NewSecureUpgrader(cfg.Logger)
		wsHandler := handlers.NewWSHandler(cfg.Hub, upgrader, cfg.Logger)
		e.GET("/ws", wsHandler.Serve)
	}

	// API routes
	api := e.Group("/api")

	// Apply API key authentication if enabled
	// Set API_KEY env var if provided in config
	if cfg.EnableAuth && cfg.APIKey != "" {
		os.Setenv("API_KEY", cfg.APIKey)
	}
	api.Use(middleware.APIKeyAuth(cfg.Logger))

	// Connection routes
	connections := api.Group("/connections")
	connections.POST("", connectionHandler.Request)
	connections.GET("", connectionHandler.List)
	connections.GET("/status", connectionHandler.Status)
	connections.GET("/:id", connectionHandler.Get)
	connections.PUT("/:id/respond", connectionHandler.Respond)
	connections.PUT("/:id/block", connectionHandler.Block)

	// Message routes (nested under connections)
	connections.POST("/:id/messages", messageHandler.Send)
	connections.GET("/:id/messages", messageHandler.List)

	// Message routes (standalone)
	messages := api.Group("/messages")
	messages.PATCH("/:id/read", messageHandler.MarkRead)

	// Block routes
	blocks := api.Group("/blocks")
	blocks.POST("", blockHandler.Create)
	blocks.GET("", blockHandler.List)
	blocks.GET("/:user_id/status", blockHandler.Status)
	blocks.DELETE("/:user_id", blockHandler.Remove)

	// Subscription routes
	subscriptions := api.Group("/subscriptions")
	subscriptions.GET("/quota", subscriptionHandler.Quota)

	return e
}
