package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/aescanero/bluegreen/pkg/adapters/metrics/prometheus"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server represents the HTTP API server
type Server struct {
	router     *gin.Engine
	server     *http.Server
	listener   net.Listener
	appVersion string
	metrics    *prometheus.Collector
	now        func() time.Time
	logger     *zap.Logger
}

// Config holds HTTP server configuration
type Config struct {
	// Addr is the listen address, e.g. ":3000".
	Addr       string
	AppVersion string
	// Metrics is optional; nil disables request metrics and /metrics.
	Metrics *prometheus.Collector
	// Clock defaults to time.Now.
	Clock  func() time.Time
	Logger *zap.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *Config) *Server {
	gin.SetMode(gin.ReleaseMode)

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	router := gin.New()
	// /health/ is served directly instead of redirecting to /health.
	router.RedirectTrailingSlash = false
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(requestLogger(logger))
	if cfg.Metrics != nil {
		router.Use(requestMetrics(cfg.Metrics))
	}

	s := &Server{
		router:     router,
		appVersion: cfg.AppVersion,
		metrics:    cfg.Metrics,
		now:        clock,
		logger:     logger,
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// setupRoutes configures API routes. GET routes also answer HEAD.
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleRoot)
	s.router.HEAD("/", s.handleRoot)

	for _, path := range []string{"/health", "/health/"} {
		s.router.GET(path, s.handleHealth)
		s.router.HEAD(path, s.handleHealth)
	}

	if s.metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
}

// Handler returns the routed handler without binding a socket
func (s *Server) Handler() http.Handler {
	return s.router
}

// Listen binds the listening socket. The startup line is logged once the bind
// has succeeded.
func (s *Server) Listen() error {
	listener, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.server.Addr, err)
	}
	s.listener = listener

	port := 0
	if tcpAddr, ok := listener.Addr().(*net.TCPAddr); ok {
		port = tcpAddr.Port
	}
	s.logger.Info("app running",
		zap.Int("port", port),
		zap.String("version", s.appVersion))

	return nil
}

// Addr returns the bound address, or the configured one before Listen
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.server.Addr
}

// Serve accepts connections on the socket bound by Listen
func (s *Server) Serve() error {
	if s.listener == nil {
		return errors.New("http server is not listening")
	}

	if err := s.server.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve HTTP: %w", err)
	}

	return nil
}

// Start binds and serves until Shutdown is called
func (s *Server) Start() error {
	if err := s.Listen(); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return s.Serve()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info("HTTP server shut down complete")
	return nil
}
