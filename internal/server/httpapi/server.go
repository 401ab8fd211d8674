// Package httpapi is the HTTP transport of the account service. It exposes
// the user lifecycle under /api/v1/users using the gin router and wraps all
// replies in a uniform response envelope.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clipstream/accounts/internal/logging"
	"github.com/clipstream/accounts/internal/server/config"
)

// Server is the HTTP front of the account service.
type Server struct {
	address string
	engine  *gin.Engine
	logger  logging.Logger
}

// NewServer wires the router, handlers and middleware from configuration.
func NewServer(cfg *config.Config, service UserLifecycle, logger logging.Logger) *Server {
	cookies := newCookieWriter(cfg.CookieSecure, cfg.AccessTokenValidityDuration, cfg.RefreshTokenValidityDuration)
	handler := NewUserHandler(service, cookies, cfg.TempUploadDir, logger)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	users := engine.Group("/api/v1/users")
	{
		users.POST("/register", handler.Register)
		users.POST("/login", handler.Login)
		users.POST("/logout", requireAuth(service), handler.Logout)
		users.POST("/refresh-token", handler.Refresh)
	}

	return &Server{
		address: cfg.EndpointAddr,
		engine:  engine,
		logger:  logger.With("module", "http_server"),
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.engine,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
