package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/banachtech/sdepricer/config"
	"github.com/banachtech/sdepricer/mc"
	"github.com/banachtech/sdepricer/runner"
	"github.com/gin-gonic/gin"
)

// Config holds the service limits.
type Config struct {
	// Requests per second allowed per client
	Rate float64
	// Burst size of the per client token bucket
	Burst int
	// Largest steps*paths accepted for a single request
	MaxWork int64
	// bcrypt hashes of accepted API keys by key prefix; empty disables authentication
	KeyHashes map[string]string
}

// DefaultConfig returns the limits used when none are configured.
func DefaultConfig() Config {
	return Config{Rate: 1, Burst: 2, MaxWork: 50_000_000}
}

// Server serves HTTP requests for our Monte Carlo pricer service.
type Server struct {
	config    Config
	runner    *runner.Runner
	scenarios []config.Scenario
	metrics   *Metrics
	logger    *slog.Logger
	router    *gin.Engine

	addrLimiters *clientLimiters
	keyLimiters  *clientLimiters
}

// NewServer creates a new HTTP server and set up routing.
// scenarios are the named runs exposed under /v1/scenarios.
func NewServer(cfg Config, scenarios []config.Scenario, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	server := &Server{
		config:    cfg,
		runner:    runner.New(logger, 1),
		scenarios: scenarios,
		metrics:   NewMetrics(),
		logger:    logger,

		addrLimiters: newClientLimiters(cfg.Rate, cfg.Burst),
		keyLimiters:  newClientLimiters(cfg.Rate, cfg.Burst),
	}

	server.setupRouter()
	return server
}

func (server *Server) setupRouter() {
	router := gin.New()
	router.Use(gin.Recovery())
	if gin.Mode() == gin.DebugMode {
		router.Use(gin.Logger())
	}

	router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	router.GET("/metrics", gin.WrapH(server.metrics.Handler()))

	v1 := router.Group("/v1").Use(server.instrument, server.limitByAddress, server.authentication, server.limitByKey)
	v1.POST("/price", server.price)
	v1.GET("/scenarios", server.listScenarios)
	v1.POST("/scenarios/:name", server.runScenario)
	server.router = router
}

// Start runs the HTTP server on a specific address.
func (server *Server) Start(address string) error {
	return server.router.Run(address)
}

// Handler exposes the router for embedding in an http.Server.
func (server *Server) Handler() http.Handler {
	return server.router
}

func errorResponse(err error) gin.H {
	return gin.H{"error": err.Error()}
}

// statusFor maps pricing errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, config.ErrInvalidScenario), errors.Is(err, mc.ErrConstruction):
		return http.StatusBadRequest
	case errors.Is(err, mc.ErrNegativeAssetPrice),
		errors.Is(err, mc.ErrInvalidStepSize),
		errors.Is(err, mc.ErrInvalidConfiguration):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
