// Package invoicelib provides a public API for generating Ukrainian invoices.
//
// This package exposes the core types, the identifier validators and a
// Generator that validates invoice input and renders it as a PDF document.
//
// Example usage:
//
//	gen := invoicelib.NewGenerator(invoicelib.Options{})
//	doc, err := gen.Generate(ctx, raw)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("invoice.pdf", doc.Data, 0o644)
package invoicelib

import (
	"github.com/rezonia/invoice-generator/internal/builder"
	"github.com/rezonia/invoice-generator/internal/model"
	"github.com/rezonia/invoice-generator/internal/render"
	"github.com/rezonia/invoice-generator/internal/translit"
	"github.com/rezonia/invoice-generator/internal/validate"
)

// Re-export core types for public API
type (
	RawInvoice    = builder.RawInvoice
	RawLineItem   = builder.RawLineItem
	InvoiceRecord = model.InvoiceRecord
	InvoiceHeader = model.InvoiceHeader
	LineItem      = model.LineItem
	Image         = model.Image
	Date          = model.Date
	TaxIDKind     = model.TaxIDKind
	Document      = render.Output
)

// Re-export tax ID kinds
const (
	TaxIDNone       = model.TaxIDNone
	TaxIDBusiness   = model.TaxIDBusiness
	TaxIDIndividual = model.TaxIDIndividual
)

// Re-export error types
type (
	FieldErrors = model.FieldErrors
	RenderError = model.RenderError
)

// Re-export validators
var (
	ValidIBAN            = validate.IBAN
	ValidBusinessCode    = validate.BusinessCode
	ValidIndividualTaxID = validate.IndividualTaxID
	ValidDocumentNumber  = validate.DocumentNumber
	ClassifyTaxID        = validate.TaxID
	FormatDate           = validate.FormatISODate
	Transliterate        = translit.Latin
)
