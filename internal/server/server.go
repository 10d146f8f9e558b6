package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rezonia/invoice-generator/internal/builder"
	money "github.com/rezonia/invoice-generator/internal/decimal"
	"github.com/rezonia/invoice-generator/internal/layout"
	"github.com/rezonia/invoice-generator/internal/processor"
	"github.com/rezonia/invoice-generator/internal/render"
)

// Defaults applied by NewServer for zero config values
const (
	DefaultMaxBodyBytes   = 8 << 20
	DefaultRequestTimeout = 30 * time.Second
	shutdownTimeout       = 10 * time.Second
)

// Config holds server configuration
type Config struct {
	Address        string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RequestTimeout time.Duration
	Debug          bool

	// CORSOrigins lists origins allowed to call the API from a browser
	CORSOrigins []string
	// MaxBodyBytes caps request bodies; images travel inline as data URIs
	MaxBodyBytes int64
	// MaxImageBytes caps each decoded signature or stamp image
	MaxImageBytes int
	// RateLimit is requests per second per client; zero disables limiting
	RateLimit float64
	RateBurst int

	// Font is an optional TrueType font embedded in generated documents
	Font []byte

	Logger *zap.Logger
}

// Server represents the HTTP API server
type Server struct {
	config   *Config
	router   *gin.Engine
	pipeline *processor.Pipeline
	metrics  *Metrics
	logger   *zap.Logger
}

// NewServer creates a new API server
func NewServer(config *Config) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	if config.MaxBodyBytes == 0 {
		config.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if config.RequestTimeout == 0 {
		config.RequestTimeout = DefaultRequestTimeout
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	builderOpts := []builder.Option{}
	if config.MaxImageBytes != 0 {
		builderOpts = append(builderOpts, builder.WithMaxImageBytes(config.MaxImageBytes))
	}
	renderOpts := []render.Option{render.WithLogger(logger)}
	if len(config.Font) > 0 {
		renderOpts = append(renderOpts, render.WithFont(config.Font))
	}

	pipeline := processor.NewPipeline(
		processor.WithBuilder(builder.New(builderOpts...)),
		processor.WithRenderer(render.New(renderOpts...)),
		processor.WithLogger(logger),
	)

	metrics := NewMetrics()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(accessLog(logger))
	router.Use(metrics.Middleware())
	if len(config.CORSOrigins) > 0 {
		router.Use(corsMiddleware(config.CORSOrigins))
	}

	s := &Server{
		config:   config,
		router:   router,
		pipeline: pipeline,
		metrics:  metrics,
		logger:   logger,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Health check and metrics
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/metrics", s.metrics.Handler())

	var limiter *RateLimiter
	if s.config.RateLimit > 0 {
		limiter = NewRateLimiter(s.config.RateLimit, s.config.RateBurst)
	}
	post := func(h gin.HandlerFunc) []gin.HandlerFunc {
		chain := []gin.HandlerFunc{allowMethods(http.MethodPost), bodyLimit(s.config.MaxBodyBytes)}
		if limiter != nil {
			chain = append(chain, limiter.Middleware())
		}
		return append(chain, h)
	}

	// Path used by the browser form
	s.router.Any("/api/generate", post(s.handleGenerate)...)

	// API v1
	v1 := s.router.Group("/api/v1")
	{
		v1.Any("/invoices", post(s.handleGenerate)...)
		v1.Any("/validate", post(s.handleValidate)...)
	}
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", zap.String("address", s.config.Address))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleGenerate(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.config.RequestTimeout)
	defer cancel()

	result := s.pipeline.GenerateFrom(ctx, c.Request.Body)

	switch {
	case result.Error != nil && errors.Is(result.Error, processor.ErrMalformedRequest):
		s.metrics.observeInvoice(outcomeMalformed)
		s.abortMalformed(c, result.Error)

	case len(result.Errors) > 0:
		s.metrics.observeInvoice(outcomeInvalid)
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:     "validation failed",
			Fields:    result.Errors,
			RequestID: GetRequestID(c),
		})

	case result.Error != nil:
		s.metrics.observeInvoice(outcomeFailed)
		_ = c.Error(result.Error)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:     "failed to generate invoice",
			RequestID: GetRequestID(c),
		})

	default:
		s.metrics.observeInvoice(outcomeGenerated)
		s.metrics.observeDocument(result.Duration, len(result.Output.Data))
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Output.Filename))
		c.Data(http.StatusOK, result.Output.ContentType, result.Output.Data)
	}
}

func (s *Server) handleValidate(c *gin.Context) {
	result := s.pipeline.ValidateFrom(c.Request.Body)
	if result.Error != nil {
		s.abortMalformed(c, result.Error)
		return
	}

	resp := ValidationResponse{
		Valid:    result.OK(),
		Errors:   result.Errors,
		Warnings: result.Warnings,
	}
	if result.Record != nil {
		resp.Total = money.Format(result.Record.Total)
		resp.TaxIDKind = result.Record.Header.TaxIDKind
		resp.Lines = layout.Build(result.Record).Lines()
	}
	c.JSON(http.StatusOK, resp)
}

// abortMalformed answers 413 for oversized bodies and 400 otherwise
func (s *Server) abortMalformed(c *gin.Context, err error) {
	status := http.StatusBadRequest
	message := err.Error()

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		status = http.StatusRequestEntityTooLarge
		message = fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     message,
		RequestID: GetRequestID(c),
	})
}
