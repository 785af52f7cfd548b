package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/parwely/brands-intelligence-platform/internal/analysis"
	"github.com/parwely/brands-intelligence-platform/internal/config"
	apperrors "github.com/parwely/brands-intelligence-platform/internal/errors"
)

// cachePinger is the optional readiness dependency; nil when the result
// cache has no external backend to check.
type cachePinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	echo      *echo.Echo
	config    *config.Config
	engine    *analysis.Engine
	cacheping cachePinger
	rateLimit *RequestRateLimiter
	startTime time.Time
	clock     clockwork.Clock
}

func NewServer(cfg *config.Config, engine *analysis.Engine, cacheping cachePinger, clock clockwork.Clock) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:      e,
		config:    cfg,
		engine:    engine,
		cacheping: cacheping,
		rateLimit: NewRequestRateLimiter(defaultRequestsPerSecond, defaultBurst),
		startTime: clock.Now(),
		clock:     clock,
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	log.Printf("Starting server on port %s", s.config.Port)
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
