package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/cors"

	"github.com/scythe504/typerace-backend/internal"
	"github.com/scythe504/typerace-backend/internal/websockets"
)

// StatsSource reports live matchmaking state.
type StatsSource interface {
	Stats() internal.MatchStats
}

// HealthChecker reports the status of a backing service.
type HealthChecker interface {
	Health(ctx context.Context) map[string]string
}

type Server struct {
	port     int
	stats    StatsSource
	hub      *websockets.Hub
	db       HealthChecker
	cors     *cors.Cors
	gatherer prometheus.Gatherer
}

type Option func(*Server)

// WithDatabase adds the database to the health report.
func WithDatabase(db HealthChecker) Option {
	return func(s *Server) { s.db = db }
}

func WithGatherer(gatherer prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = gatherer }
}

func NewServer(port int, stats StatsSource, hub *websockets.Hub, c *cors.Cors, opts ...Option) *http.Server {
	s := &Server{
		port:     port,
		stats:    stats,
		hub:      hub,
		cors:     c,
		gatherer: prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(s)
	}

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.RegisterRoutes(),
		IdleTimeout:       time.Minute,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
}

// NewCORS builds the CORS policy shared by the HTTP routes and the websocket
// origin check.
func NewCORS(origins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})
}

// OriginChecker adapts c for the websocket upgrader. Requests without an
// Origin header do not come from a browser and are accepted.
func OriginChecker(c *cors.Cors) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		if r.Header.Get("Origin") == "" {
			return true
		}
		return c.OriginAllowed(r)
	}
}
