// Package processor wires validation, record building and rendering into a
// single stateless pipeline.
package processor

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rezonia/invoice-generator/internal/builder"
	money "github.com/rezonia/invoice-generator/internal/decimal"
	"github.com/rezonia/invoice-generator/internal/model"
	"github.com/rezonia/invoice-generator/internal/render"
)

// Result contains the outcome of one pipeline run. Exactly one of Errors
// (validation failed) or Error (anything else) is set on failure.
type Result struct {
	Record   *model.InvoiceRecord
	Output   *render.Output
	Errors   model.FieldErrors
	Warnings []string
	Error    error
	Duration time.Duration
}

// OK reports whether the run succeeded
func (r *Result) OK() bool {
	return len(r.Errors) == 0 && r.Error == nil
}

// Pipeline turns raw invoice input into a rendered document
type Pipeline struct {
	builder  *builder.Builder
	renderer *render.Renderer
	logger   *zap.Logger
}

// PipelineOption configures the pipeline
type PipelineOption func(*Pipeline)

// WithBuilder sets the record builder
func WithBuilder(b *builder.Builder) PipelineOption {
	return func(p *Pipeline) {
		p.builder = b
	}
}

// WithRenderer sets the document renderer
func WithRenderer(r *render.Renderer) PipelineOption {
	return func(p *Pipeline) {
		p.renderer = r
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// NewPipeline creates a new processing pipeline
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{}
	for _, opt := range opts {
		opt(p)
	}
	if p.builder == nil {
		p.builder = builder.New()
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	if p.renderer == nil {
		p.renderer = render.New(render.WithLogger(p.logger))
	}
	return p
}

// Validate builds the record without rendering it
func (p *Pipeline) Validate(raw builder.RawInvoice) *Result {
	start := time.Now()
	result := &Result{}

	rec, errs := p.builder.Build(raw)
	result.Duration = time.Since(start)
	if errs != nil {
		result.Errors = errs
		p.logger.Debug("invoice rejected",
			zap.String("invoice_number", raw.InvoiceNumber),
			zap.Strings("fields", errs.Fields()),
		)
		return result
	}

	result.Record = rec
	result.Warnings = totalWarnings(raw.Total, rec)
	return result
}

// Generate validates raw and renders the invoice
func (p *Pipeline) Generate(ctx context.Context, raw builder.RawInvoice) *Result {
	start := time.Now()

	result := p.Validate(raw)
	if !result.OK() {
		return result
	}

	out, err := p.renderer.Render(ctx, result.Record)
	result.Duration = time.Since(start)
	if err != nil {
		result.Error = err
		p.logger.Error("invoice rendering failed",
			zap.String("invoice_number", result.Record.Header.InvoiceNumber),
			zap.Error(err),
		)
		return result
	}

	result.Output = out
	p.logger.Debug("invoice generated",
		zap.String("invoice_number", result.Record.Header.InvoiceNumber),
		zap.Int("items", len(result.Record.Items)),
		zap.String("total", money.Format(result.Record.Total)),
		zap.Int("bytes", len(out.Data)),
		zap.Duration("duration", result.Duration),
	)
	return result
}

// ValidateFrom decodes a JSON request from r and validates it
func (p *Pipeline) ValidateFrom(r io.Reader) *Result {
	req, err := DecodeRequest(r)
	if err != nil {
		return &Result{Error: err}
	}
	return p.Validate(req.Raw())
}

// GenerateFrom decodes a JSON request from r and renders it
func (p *Pipeline) GenerateFrom(ctx context.Context, r io.Reader) *Result {
	req, err := DecodeRequest(r)
	if err != nil {
		return &Result{Error: err}
	}
	return p.Generate(ctx, req.Raw())
}

// totalWarnings notes a caller-supplied total that disagrees with the items.
// The submitted value is never used.
func totalWarnings(submitted string, rec *model.InvoiceRecord) []string {
	if strings.TrimSpace(submitted) == "" {
		return nil
	}
	d, err := money.FromString(submitted)
	if err != nil {
		return []string{fmt.Sprintf("submitted total %q could not be read and was ignored", submitted)}
	}
	if !d.Equal(rec.Total) {
		return []string{fmt.Sprintf("submitted total %s differs from computed total %s",
			money.Format(d), money.Format(rec.Total))}
	}
	return nil
}
