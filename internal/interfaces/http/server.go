// Package http exposes the desk services as a JSON gateway for the view layer.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/default-desk/internal/container"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         "127.0.0.1",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
}

// Application is the started desk the gateway serves
type Application interface {
	Services() *container.ServiceBundle
	Health(ctx context.Context) *container.HealthStatus
}

// Server is the desk gateway
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	app        Application
	logger     Logger
}

// NewServer creates a new gateway over a started application
func NewServer(config ServerConfig, app Application, logger Logger) *Server {
	if config.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	server := &Server{
		config:   config,
		router:   gin.New(),
		app:      app,
		logger:   logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		kv := []interface{}{
			"method", method,
			"path", path,
			"status", status,
			"latency", latency.String(),
			"client_ip", c.ClientIP(),
		}
		if status >= http.StatusInternalServerError {
			s.logger.Warn("HTTP request", kv...)
			return
		}
		s.logger.Info("HTTP request", kv...)
	}
}

func (s *Server) setupRoutes() {
	h := NewHandlers(s.app.Services(), s.app.Health, s.logger)

	s.router.GET("/health", h.HealthCheck)

	desk := s.router.Group("/desk")
	{
		desk.POST("/login", h.Login)
		desk.POST("/logout", h.Logout)
		desk.POST("/register", h.Register)
		desk.GET("/session", h.CurrentSession)

		desk.GET("/customers", h.ListCustomers)
		desk.GET("/customers/defaulted", h.ListDefaultedCustomers)

		desk.GET("/reasons/:kind", h.ListReasons)
		desk.GET("/reasons/:kind/:id", h.GetReason)
		desk.PUT("/reasons/:kind/:id/enable", h.ToggleReason)

		desk.GET("/forms/default", h.DefaultForm)
		desk.GET("/forms/recovery", h.RecoveryForm)

		desk.POST("/default-applications", h.CreateDefaultApplication)
		desk.GET("/default-applications", h.ListDefaultApplications)
		desk.GET("/default-applications/pending", h.PendingDefaultApplications)
		desk.GET("/default-applications/export", h.ExportDefaultApplications)
		desk.POST("/default-applications/:id/audit", h.AuditDefaultApplication)

		desk.POST("/recovery-applications", h.CreateRecoveryApplication)
		desk.GET("/recovery-applications", h.ListRecoveryApplications)
		desk.GET("/recovery-applications/pending", h.PendingRecoveryApplications)
		desk.GET("/recovery-applications/export", h.ExportRecoveryApplications)
		desk.POST("/recovery-applications/:id/audit", h.AuditRecoveryApplication)

		desk.GET("/statistics", h.GetStatistics)
		desk.GET("/statistics/export", h.ExportStatistics)
	}
}

// Start serves until ctx is cancelled or the listener fails
func (s *Server) Start(ctx context.Context) error {
	addr := s.Address()

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
