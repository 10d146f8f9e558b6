package invoicelib

import (
	"context"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rezonia/invoice-generator/internal/builder"
	"github.com/rezonia/invoice-generator/internal/processor"
	"github.com/rezonia/invoice-generator/internal/render"
)

// Options configures a Generator. The zero value renders A4 documents
// with the built-in font.
type Options struct {
	// Font is a TrueType font; without it Cyrillic text cannot be drawn
	Font []byte
	// PageSize is a gofpdf size name such as "A4" or "Letter"
	PageSize string
	// MaxImageBytes caps each decoded signature or stamp image
	MaxImageBytes int
	// Concurrency bounds GenerateBatch; zero means GOMAXPROCS
	Concurrency int
	Logger      *zap.Logger
}

// Generator validates and renders invoices
type Generator struct {
	pipeline    *processor.Pipeline
	concurrency int
}

// NewGenerator creates a generator with the given options
func NewGenerator(opts Options) *Generator {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	renderOpts := []render.Option{render.WithLogger(logger)}
	if len(opts.Font) > 0 {
		renderOpts = append(renderOpts, render.WithFont(opts.Font))
	}
	if opts.PageSize != "" {
		renderOpts = append(renderOpts, render.WithPageSize(opts.PageSize))
	}
	var builderOpts []builder.Option
	if opts.MaxImageBytes > 0 {
		builderOpts = append(builderOpts, builder.WithMaxImageBytes(opts.MaxImageBytes))
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	return &Generator{
		pipeline: processor.NewPipeline(
			processor.WithBuilder(builder.New(builderOpts...)),
			processor.WithRenderer(render.New(renderOpts...)),
			processor.WithLogger(logger),
		),
		concurrency: concurrency,
	}
}

// Validate builds a record without rendering it. Invalid input returns a
// FieldErrors error listing every failing field. Warnings are advisory,
// such as a submitted total that differs from the computed one.
func (g *Generator) Validate(raw RawInvoice) (*InvoiceRecord, []string, error) {
	result := g.pipeline.Validate(raw)
	if len(result.Errors) > 0 {
		return nil, result.Warnings, result.Errors
	}
	return result.Record, result.Warnings, nil
}

// Generate validates raw and renders it. The error is a FieldErrors when
// the input is invalid and a *RenderError when rendering failed.
func (g *Generator) Generate(ctx context.Context, raw RawInvoice) (*Document, error) {
	result := g.pipeline.Generate(ctx, raw)
	if len(result.Errors) > 0 {
		return nil, result.Errors
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return result.Output, nil
}

// GenerateBatch renders several invoices concurrently. Documents are
// returned in input order; the first failure cancels the rest.
func (g *Generator) GenerateBatch(ctx context.Context, raws []RawInvoice) ([]*Document, error) {
	docs := make([]*Document, len(raws))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency)
	for i := range raws {
		eg.Go(func() error {
			doc, err := g.Generate(ctx, raws[i])
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}
