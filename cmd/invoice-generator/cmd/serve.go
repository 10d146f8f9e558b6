package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rezonia/invoice-generator/internal/server"
)

var (
	serverAddr     string
	serverDebug    bool
	readTimeout    time.Duration
	writeTimeout   time.Duration
	requestTimeout time.Duration
	corsOrigins    []string
	maxBodyBytes   int64
	maxImageBytes  int
	rateLimit      float64
	rateBurst      int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP API server for generating invoices.

The API provides endpoints for:
  - POST /api/generate        - Render an invoice (used by the browser form)
  - POST /api/v1/invoices     - Render an invoice
  - POST /api/v1/validate     - Validate an invoice without rendering
  - GET  /health              - Health check
  - GET  /metrics             - Prometheus metrics

Examples:
  # Start server on default port
  invoice-generator serve

  # Allow a browser form served from another origin
  invoice-generator serve --cors-origin http://localhost:3000

  # Start in debug mode with a Cyrillic font
  invoice-generator serve --debug --font DejaVuSans.ttf`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverAddr, "address", ":8080", "Server listen address (env: INVOICE_ADDRESS)")
	serveCmd.Flags().BoolVar(&serverDebug, "debug", false, "Enable debug mode")
	serveCmd.Flags().DurationVar(&readTimeout, "read-timeout", 30*time.Second, "HTTP read timeout")
	serveCmd.Flags().DurationVar(&writeTimeout, "write-timeout", time.Minute, "HTTP write timeout")
	serveCmd.Flags().DurationVar(&requestTimeout, "request-timeout", server.DefaultRequestTimeout, "Time allowed to render one invoice")
	serveCmd.Flags().StringSliceVar(&corsOrigins, "cors-origin", nil, "Allowed CORS origin, repeatable; * allows any (env: INVOICE_CORS_ORIGINS)")
	serveCmd.Flags().Int64Var(&maxBodyBytes, "max-body", server.DefaultMaxBodyBytes, "Maximum request body size in bytes")
	serveCmd.Flags().IntVar(&maxImageBytes, "max-image", 0, "Maximum decoded size of each image in bytes (default 2 MiB)")
	serveCmd.Flags().Float64Var(&rateLimit, "rate-limit", 0, "Requests per second per client, 0 disables limiting")
	serveCmd.Flags().IntVar(&rateBurst, "rate-burst", 10, "Burst size for rate limiting")
}

func runServe(cmd *cobra.Command, args []string) error {
	if !cmd.Flags().Changed("address") {
		if addr := os.Getenv("INVOICE_ADDRESS"); addr != "" {
			serverAddr = addr
		}
	}
	if len(corsOrigins) == 0 {
		if origins := os.Getenv("INVOICE_CORS_ORIGINS"); origins != "" {
			corsOrigins = strings.Split(origins, ",")
		}
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	font, err := loadFont()
	if err != nil {
		return err
	}

	config := &server.Config{
		Address:        serverAddr,
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,
		RequestTimeout: requestTimeout,
		Debug:          serverDebug,
		CORSOrigins:    corsOrigins,
		MaxBodyBytes:   maxBodyBytes,
		MaxImageBytes:  maxImageBytes,
		RateLimit:      rateLimit,
		RateBurst:      rateBurst,
		Font:           font,
		Logger:         log,
	}

	srv := server.NewServer(config)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("starting server",
		zap.String("address", serverAddr),
		zap.Bool("custom_font", font != nil),
		zap.Float64("rate_limit", rateLimit),
	)
	if font == nil {
		log.Warn("no --font configured, Cyrillic text will not render")
	}

	return srv.Run(ctx)
}
