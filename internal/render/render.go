// Package render turns an invoice layout into a PDF document using gofpdf.
//
// Output is deterministic: the document dates are pinned to the invoice date,
// catalog entries are sorted and every call starts from a fresh writer, so the
// same record always yields the same bytes.
package render

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"github.com/rezonia/invoice-generator/internal/layout"
	"github.com/rezonia/invoice-generator/internal/model"
)

const (
	// ContentType of every rendered document
	ContentType = "application/pdf"
	// DefaultFilename is suggested to clients downloading the document
	DefaultFilename = "invoice.pdf"
	// DefaultPageSize is ISO A4 portrait
	DefaultPageSize = "A4"
)

// Page geometry in millimetres
const (
	margin      = 20.0
	lineHeight  = 7.0
	sectionGap  = 4.0
	imageWidth  = 50.0
	imageHeight = 25.0
	imageGap    = 10.0
)

const (
	coreFamily = "Helvetica"
	ttfFamily  = "InvoiceSans"
	creator    = "invoice-generator"
)

// Output is a rendered document
type Output struct {
	Data        []byte
	ContentType string
	Filename    string
}

// Renderer writes invoice documents. It holds only configuration and is safe
// for concurrent use.
type Renderer struct {
	pageSize string
	compress bool
	font     []byte
	logger   *zap.Logger
}

// Option configures a Renderer
type Option func(*Renderer)

// WithFont embeds a TrueType font for all text, which is required for
// Cyrillic output. Without it the core Helvetica font (cp1252) is used.
func WithFont(ttf []byte) Option {
	return func(r *Renderer) {
		r.font = ttf
	}
}

// WithCompression toggles content stream compression
func WithCompression(compress bool) Option {
	return func(r *Renderer) {
		r.compress = compress
	}
}

// WithPageSize sets the gofpdf page size name (A4, Letter, ...)
func WithPageSize(size string) Option {
	return func(r *Renderer) {
		r.pageSize = size
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(r *Renderer) {
		r.logger = logger
	}
}

// New creates a Renderer
func New(opts ...Option) *Renderer {
	r := &Renderer{
		pageSize: DefaultPageSize,
		compress: true,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	return r
}

// Render lays out rec and writes it as a PDF
func (r *Renderer) Render(ctx context.Context, rec *model.InvoiceRecord) (*Output, error) {
	if rec == nil {
		return nil, model.NewRenderError(model.StageLayout, "no invoice record", nil)
	}
	return r.RenderDocument(ctx, layout.Build(rec), rec.Header.Date)
}

// RenderDocument writes an already built layout. date pins the document
// metadata timestamps.
func (r *Renderer) RenderDocument(ctx context.Context, doc layout.Document, date model.Date) (*Output, error) {
	images, err := r.prepare(ctx, doc)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", r.pageSize, "")
	if err := pdf.Error(); err != nil {
		return nil, model.NewRenderError(model.StageLayout, "invalid page setup", err)
	}
	pdf.SetCompression(r.compress)
	pdf.SetCatalogSort(true)

	stamp := time.Unix(0, 0).UTC()
	if !date.IsZero() {
		stamp = date.Time()
	}
	pdf.SetCreationDate(stamp)
	pdf.SetModificationDate(stamp)
	pdf.SetCreator(creator, false)
	pdf.SetTitle(doc.Title, true)

	w := &writer{pdf: pdf, images: images}
	if err := r.setupFonts(w); err != nil {
		return nil, err
	}

	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.AddPage()

	w.title(doc.Title)
	for _, section := range doc.Sections {
		if section.Name == layout.SectionFooter {
			w.rule()
		}
		for _, el := range section.Elements {
			switch el.Kind {
			case layout.KindText:
				w.text(el)
			case layout.KindImages:
				w.imageRow(el.Images)
			}
		}
		pdf.Ln(sectionGap)
	}

	if err := pdf.Error(); err != nil {
		return nil, model.NewRenderError(model.StageLayout, "failed to lay out document", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, model.NewRenderError(model.StageOutput, "failed to write document", err)
	}

	r.logger.Debug("document rendered",
		zap.Int("bytes", buf.Len()),
		zap.Int("pages", pdf.PageNo()),
		zap.Int("images", len(images)),
	)

	return &Output{
		Data:        buf.Bytes(),
		ContentType: ContentType,
		Filename:    DefaultFilename,
	}, nil
}

// prepare normalizes every image referenced by doc, keyed by slot name
func (r *Renderer) prepare(ctx context.Context, doc layout.Document) (map[string]preparedImage, error) {
	images := make(map[string]preparedImage)
	for _, section := range doc.Sections {
		for _, el := range section.Elements {
			if el.Kind != layout.KindImages || len(el.Images) == 0 {
				continue
			}
			prepared, err := prepareImages(ctx, el.Images)
			if err != nil {
				return nil, model.NewRenderError(model.StageImages, "failed to prepare images", err)
			}
			for _, img := range prepared {
				images[img.name] = img
			}
		}
	}
	return images, nil
}

func (r *Renderer) setupFonts(w *writer) (err error) {
	if len(r.font) == 0 {
		w.family = coreFamily
		w.translate = w.pdf.UnicodeTranslatorFromDescriptor("")
		w.onLossy = func(s string) {
			r.logger.Warn("text has characters outside cp1252, configure a TTF font to keep them",
				zap.String("text", s))
		}
		return nil
	}

	if !mimetype.Detect(r.font).Is("font/ttf") {
		return model.NewRenderError(model.StageFont, "font is not a TrueType file", nil)
	}

	// gofpdf panics on some truncated font tables
	defer func() {
		if p := recover(); p != nil {
			err = model.NewRenderError(model.StageFont, "failed to parse font", fmt.Errorf("%v", p))
		}
	}()

	w.family = ttfFamily
	w.translate = func(s string) string { return s }
	w.pdf.AddUTF8FontFromBytes(ttfFamily, "", r.font)
	w.pdf.AddUTF8FontFromBytes(ttfFamily, "B", r.font)
	// an unparseable font is silently skipped, so try it once
	w.pdf.SetFont(ttfFamily, "", 11)
	if err := w.pdf.Error(); err != nil {
		return model.NewRenderError(model.StageFont, "failed to load font", err)
	}
	return nil
}
