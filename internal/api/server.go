// Package api assembles the HTTP server and wires the services together.
package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/posterwall/posterwall/internal/config"
	"github.com/posterwall/posterwall/internal/resolver"
	"github.com/posterwall/posterwall/internal/search"
	"github.com/posterwall/posterwall/internal/tmdb"
	"github.com/posterwall/posterwall/internal/websocket"
)

// Server handles HTTP requests for the posterwall API.
type Server struct {
	echo   *echo.Echo
	hub    *websocket.Hub
	logger zerolog.Logger
	cfg    *config.Config

	tmdbClient       *tmdb.Client
	resolverService  *resolver.Service
	searchController *search.Controller
	searchHandlers   *search.Handlers
}

// NewServer creates a new API server instance.
func NewServer(cfg *config.Config, hub *websocket.Hub, logger zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:   e,
		hub:    hub,
		logger: logger,
		cfg:    cfg,
	}

	s.tmdbClient = tmdb.NewClient(cfg.TMDB, logger)
	s.resolverService = resolver.NewService(s.tmdbClient, logger)
	s.searchController = search.NewController(s.resolverService, s.tmdbClient, logger)
	s.searchController.SetBroadcaster(hub)
	s.searchHandlers = search.NewHandlers(s.searchController)

	// New clients start from the current state instead of waiting for
	// the next transition.
	hub.SetConnectHandler(func() (string, interface{}) {
		return "search:state", s.searchController.State()
	})

	s.registerRoutes()

	return s
}

func (s *Server) registerRoutes() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.CORS())

	api := s.echo.Group("/api/v1")
	api.GET("/health", s.health)
	s.searchHandlers.RegisterRoutes(api)

	s.echo.GET("/ws", s.hub.HandleWebSocket)
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Start begins listening on the given address. Blocks until shutdown.
func (s *Server) Start(address string) error {
	s.logger.Info().Str("address", address).Msg("Starting HTTP server")
	return s.echo.Start(address)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Echo exposes the underlying echo instance for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
