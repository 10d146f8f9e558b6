package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rezonia/invoice-generator/internal/builder"
	"github.com/rezonia/invoice-generator/internal/logger"
	"github.com/rezonia/invoice-generator/internal/processor"
	"github.com/rezonia/invoice-generator/internal/render"
)

var (
	version = "1.0.0"

	// Global flags
	verbose      bool
	outputFormat string
	logLevel     string
	logJSON      bool
	fontPath     string
	envFile      string
)

var rootCmd = &cobra.Command{
	Use:   "invoice-generator",
	Short: "Generate Ukrainian invoices as PDF documents",
	Long: `Invoice Generator validates Ukrainian invoice data and renders it as a PDF.

Checks:
  - IBAN (UA, 29 characters, ISO 7064 mod 97)
  - Business code (8 digits) or individual tax ID (10 digits) check digits
  - Invoice number in DDDD/YY form

Examples:
  # Render an invoice from a JSON file
  invoice-generator generate invoice.json -o invoice.pdf

  # Validate several files without rendering
  invoice-generator validate invoices/*.json -f table

  # Start the HTTP API
  invoice-generator serve --address :8080`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "json", "Output format (json, table)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (env: INVOICE_LOG_LEVEL)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Write logs as JSON (env: INVOICE_LOG_JSON)")
	rootCmd.PersistentFlags().StringVar(&fontPath, "font", "", "TrueType font for documents, needed for Cyrillic text (env: INVOICE_FONT)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Load environment variables from this file if it exists")

	// Load from environment variables if not set via flags
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: reading %s: %v\n", envFile, err)
		}
	}

	if logLevel == "" {
		logLevel = os.Getenv("INVOICE_LOG_LEVEL")
	}
	if logLevel == "" {
		logLevel = "warn"
		if verbose {
			logLevel = "debug"
		}
	}
	if !logJSON {
		logJSON = os.Getenv("INVOICE_LOG_JSON") == "true"
	}
	if fontPath == "" {
		fontPath = os.Getenv("INVOICE_FONT")
	}
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

func newLogger() (*zap.Logger, error) {
	return logger.New(logger.Config{
		Level: logLevel,
		JSON:  logJSON,
		Color: !logJSON && isatty.IsTerminal(os.Stderr.Fd()),
	})
}

// loadFont reads the --font file, if any
func loadFont() ([]byte, error) {
	if fontPath == "" {
		return nil, nil
	}
	data, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read font: %w", err)
	}
	printVerbose("Using font %s (%d bytes)\n", fontPath, len(data))
	return data, nil
}

func newPipeline(log *zap.Logger) (*processor.Pipeline, error) {
	font, err := loadFont()
	if err != nil {
		return nil, err
	}

	renderOpts := []render.Option{
		render.WithLogger(log),
		render.WithCompression(!uncompressed),
	}
	if font != nil {
		renderOpts = append(renderOpts, render.WithFont(font))
	}

	return processor.NewPipeline(
		processor.WithBuilder(builder.New()),
		processor.WithRenderer(render.New(renderOpts...)),
		processor.WithLogger(log),
	), nil
}
