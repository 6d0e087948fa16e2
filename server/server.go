// Package server wires the HTTP transport: chat, authorization and health
// routes over echo, with CORS open as in a single-tenant local deployment.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/semaphore"

	"github.com/hrygo/bookwise/internal/profile"
	"github.com/hrygo/bookwise/plugin/ai/agent"
	"github.com/hrygo/bookwise/server/auth"
	"github.com/hrygo/bookwise/internal/observability"
)

// maxConcurrentChats caps in-flight inference calls so a burst of chat
// requests cannot exhaust the model quota at once.
const maxConcurrentChats = 8

// Server hosts the HTTP API.
type Server struct {
	echo    *echo.Echo
	profile *profile.Profile
	agent   *agent.BookingAgent
	flow    *auth.Flow
	tokens  *auth.TokenStore
	logger  *slog.Logger
	metrics *observability.Metrics

	location      *time.Location
	chatSemaphore *semaphore.Weighted
}

// NewServer creates the server and registers all routes.
func NewServer(p *profile.Profile, bookingAgent *agent.BookingAgent, flow *auth.Flow, tokens *auth.TokenStore, logger *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}))

	s := &Server{
		echo:          e,
		profile:       p,
		agent:         bookingAgent,
		flow:          flow,
		tokens:        tokens,
		logger:        logger,
		metrics:       observability.NewMetrics(0),
		location:      p.Location(),
		chatSemaphore: semaphore.NewWeighted(maxConcurrentChats),
	}

	e.GET("/", s.handleRoot)
	e.GET("/stats", s.handleStats)
	e.GET("/authorize", s.handleAuthorize)
	e.GET("/callback", s.handleCallback)
	e.POST("/chat", s.handleChat)
	e.POST("/chat/token", s.handleSaveToken)

	return s
}

// Start begins serving and blocks until the listener fails or is shut down.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.profile.Addr, s.profile.Port)
	s.logger.Info("server started", "address", addr, "timezone", s.profile.Timezone)
	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Echo exposes the router for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
