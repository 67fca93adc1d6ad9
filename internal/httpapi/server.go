package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"horse.fit/headline-dedup/internal/dedup"
)

const (
	defaultHost          = "0.0.0.0"
	defaultPort          = 8090
	defaultMaxBatchItems = 5000
	defaultMaxTitleBytes = 4096
	maxBodyBytes         = "8M"
)

type Options struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	Threshold       float64
	UpdateThreshold float64
	MaxBatchItems   int
	MaxTitleBytes   int
	DetectLanguage  bool
	AllowOrigins    []string
}

type Server struct {
	svc    *dedup.Service
	logger zerolog.Logger
	opts   Options
}

func NewServer(svc *dedup.Service, logger zerolog.Logger, opts Options) *Server {
	return &Server{
		svc:    svc,
		logger: logger,
		opts:   opts.withDefaults(),
	}
}

// withDefaults fills unset transport settings and input bounds. Thresholds
// are taken as given; zero is a valid threshold.
func (o Options) withDefaults() Options {
	o.Host = strings.TrimSpace(o.Host)
	if o.Host == "" {
		o.Host = defaultHost
	}
	if o.Port <= 0 {
		o.Port = defaultPort
	}
	o.ReadTimeout = durationOr(o.ReadTimeout, 10*time.Second)
	o.WriteTimeout = durationOr(o.WriteTimeout, 30*time.Second)
	o.ShutdownTimeout = durationOr(o.ShutdownTimeout, 10*time.Second)
	if o.MaxBatchItems <= 0 {
		o.MaxBatchItems = defaultMaxBatchItems
	}
	if o.MaxTitleBytes <= 0 {
		o.MaxTitleBytes = defaultMaxTitleBytes
	}
	if len(o.AllowOrigins) == 0 {
		o.AllowOrigins = []string{"*"}
	}
	return o
}

func durationOr(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}

// Handler builds the Echo router with middleware and API routes.
func (s *Server) Handler() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.httpErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.BodyLimit(maxBodyBytes))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.opts.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       3600,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:     true,
		LogURI:        true,
		LogMethod:     true,
		LogLatency:    true,
		LogRemoteIP:   true,
		LogRequestID:  true,
		LogError:      true,
		LogValuesFunc: s.logRequest,
	}))

	api := e.Group("/api/v1")
	api.GET("/health", s.handleHealth)
	api.POST("/normalize", s.handleNormalize)
	api.POST("/similarity", s.handleSimilarity)
	api.POST("/cluster", s.handleCluster)
	api.POST("/match", s.handleMatch)

	return e
}

func (s *Server) logRequest(_ echo.Context, v middleware.RequestLoggerValues) error {
	event := s.logger.Info()
	msg := "http request"
	if v.Error != nil {
		event = s.logger.Error().Err(v.Error)
		msg = "http request failed"
	}
	event.
		Str("method", v.Method).
		Str("uri", v.URI).
		Int("status", v.Status).
		Dur("latency", v.Latency).
		Str("remote_ip", v.RemoteIP).
		Str("request_id", v.RequestID).
		Msg(msg)
	return nil
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	if s == nil || s.svc == nil {
		return fmt.Errorf("server is not initialized")
	}

	e := s.Handler()

	addr := fmt.Sprintf("%s:%d", s.opts.Host, s.opts.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      e,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		if shutdownErr := e.Shutdown(shutdownCtx); shutdownErr != nil {
			s.logger.Error().Err(shutdownErr).Msg("server shutdown failed")
		}
	}()

	s.logger.Info().
		Str("addr", addr).
		Float64("threshold", s.opts.Threshold).
		Int("max_batch_items", s.opts.MaxBatchItems).
		Msg("headline-dedup server started")

	if err := e.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("start server: %w", err)
	}
	s.logger.Info().Msg("headline-dedup server stopped")
	return nil
}

// httpErrorHandler maps Echo errors onto JSend: 4xx become fail envelopes,
// everything else an opaque error envelope.
func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code >= http.StatusInternalServerError {
		s.logger.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("request failed")
		_ = respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	message := http.StatusText(he.Code)
	if text, ok := he.Message.(string); ok && strings.TrimSpace(text) != "" {
		message = text
	}
	_ = respondFail(c, he.Code, message, nil)
}
