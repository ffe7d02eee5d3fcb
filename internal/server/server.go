// file: internal/server/server.go
// version: 2.0.0
// guid: 4c5d6e7f-8a9b-0c1d-2e3f-4a5b6c7d8e9f

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/jdfalk/asset-store/internal/aggregator"
	"github.com/jdfalk/asset-store/internal/config"
	"github.com/jdfalk/asset-store/internal/metrics"
	"github.com/jdfalk/asset-store/internal/models"
	"github.com/jdfalk/asset-store/internal/server/middleware"
)

// Version is reported by the health endpoint. Overridden at build time.
var Version = "dev"

// shutdownTimeout gives outstanding requests a deadline for completion.
const shutdownTimeout = 30 * time.Second

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	agg        *aggregator.Aggregator
	cfg        config.Config
	log        zerolog.Logger
	started    time.Time
}

// NewServer creates a new server instance around agg.
func NewServer(agg *aggregator.Aggregator, cfg config.Config, log zerolog.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(RequestLogger(log))
	router.Use(corsMiddleware())

	// Register metrics (idempotent)
	metrics.Register()

	s := &Server{
		router:  router,
		agg:     agg,
		cfg:     cfg,
		log:     log.With().Str("component", "server").Logger(),
		started: time.Now(),
	}
	s.setupRoutes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:           s.cfg.Addr(),
		Handler:        s.router,
		ReadTimeout:    s.cfg.ReadTimeout,
		WriteTimeout:   s.cfg.WriteTimeout,
		IdleTimeout:    s.cfg.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.httpServer.Addr).Msg("starting server")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	s.log.Info().Msg("server exited")
	return nil
}

// setupRoutes configures all the routes
func (s *Server) setupRoutes() {
	// Prometheus metrics endpoint (standard path)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check endpoint (both paths for compatibility)
	s.router.GET("/api/health", s.healthCheck)
	s.router.GET("/api/v1/health", s.healthCheck)

	api := s.router.Group("/api/v1/assets")
	api.Use(middleware.NewIPRateLimiter(s.cfg.RateLimitPerMinute, rateBurst(s.cfg.RateLimitPerMinute)).Middleware())
	api.Use(middleware.MaxRequestBodySize(middleware.DefaultBodyLimit))
	api.Use(s.requireAggregator)
	{
		api.GET("/search", s.searchAssets)
		api.GET("/featured", s.featuredAssets)
		api.GET("/categories", s.listCategories)

		admin := api.Group("", middleware.BasicAuth(s.cfg.BasicAuthUser, s.cfg.BasicAuthHash))
		admin.POST("/validate", s.validateKeys)
		admin.GET("/config", s.getConfig)
		admin.PUT("/config", s.updateConfig)
	}
}

// rateBurst lets a client spend a tenth of its minute at once.
func rateBurst(perMinute int) int {
	if b := perMinute / 10; b > 1 {
		return b
	}
	return 1
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		c.Header("Access-Control-Expose-Headers", "X-Request-ID, Retry-After")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (s *Server) requireAggregator(c *gin.Context) {
	if s.agg == nil {
		RespondWithServiceUnavailable(c, "asset store not initialized")
		return
	}
	c.Next()
}

func (s *Server) healthCheck(c *gin.Context) {
	resp := HealthResponse{
		Status:           "ok",
		Timestamp:        time.Now().Unix(),
		Version:          Version,
		Uptime:           time.Since(s.started).Round(time.Second).String(),
		DatabaseType:     s.cfg.DatabaseType,
		EnabledProviders: []models.ProviderName{},
	}
	if s.agg == nil {
		resp.Status = "degraded"
	} else {
		resp.AssetStore = s.agg.GetConfig().Enabled
		resp.EnabledProviders = s.agg.EnabledProviders()
	}
	c.JSON(http.StatusOK, resp)
}
