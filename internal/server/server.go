package server

import (
	"fmt"
	"net/http"
	"time"

	"balcao/internal/backend"
	"balcao/internal/config"
	custommiddleware "balcao/internal/middleware"
	"balcao/internal/repository"
	"balcao/internal/service"
	"balcao/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config      *config.Config
	logger      *zap.Logger
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, redisClient *redis.Client) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.Server.Env == "development"))

	if redisClient != nil {
		router.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.RequestsPerWindow,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         "balcao:ratelimit",
		}, logger))
	}

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Upstream client and in-memory stores
	backendClient := backend.New(cfg.Backend.BaseURL, logger)
	cartRepo := repository.NewMemoryCartRepository()

	// Initialize services
	catalogService := service.NewCatalogService(backendClient, logger)
	cartService := service.NewCartService(cartRepo, catalogService, logger)
	saleService := service.NewSaleService(backendClient, cartRepo, catalogService, logger)
	reportService := service.NewReportService(backendClient, logger)

	// Initialize handlers
	catalogHandler := transport.NewCatalogHandler(catalogService, logger)
	cartHandler := transport.NewCartHandler(cartService, saleService, logger)
	saleHandler := transport.NewSaleHandler(saleService, logger)
	reportHandler := transport.NewReportHandler(reportService, logger)

	// Create auth middleware
	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)
	adminMiddleware := custommiddleware.RequireAdmin(logger)

	// Register routes
	catalogHandler.RegisterRoutes(router, authMiddleware)
	cartHandler.RegisterRoutes(router, authMiddleware)
	saleHandler.RegisterRoutes(router, authMiddleware)
	reportHandler.RegisterRoutes(router, authMiddleware, adminMiddleware)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config:      cfg,
		logger:      logger,
		redisClient: redisClient,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
