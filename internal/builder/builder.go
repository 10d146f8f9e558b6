// Package builder turns raw form input into a validated InvoiceRecord.
package builder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rezonia/invoice-generator/internal/datauri"
	money "github.com/rezonia/invoice-generator/internal/decimal"
	"github.com/rezonia/invoice-generator/internal/model"
	"github.com/rezonia/invoice-generator/internal/validate"
)

// Field names used as keys in model.FieldErrors
const (
	FieldInvoiceNumber  = "invoiceNumber"
	FieldDate           = "date"
	FieldClientName     = "clientName"
	FieldTaxID          = "taxId"
	FieldIBAN           = "iban"
	FieldEmail          = "email"
	FieldItems          = "items"
	FieldSignatureImage = "signatureImage"
	FieldStampImage     = "stampImage"
)

// RawLineItem is one item row exactly as submitted
type RawLineItem struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	Unit        string `json:"unit"`
	Price       string `json:"price"`
}

// RawInvoice is the unvalidated form submission
type RawInvoice struct {
	InvoiceNumber string        `json:"invoiceNumber"`
	Date          string        `json:"date"` // YYYY-MM-DD
	ClientName    string        `json:"clientName"`
	Address       string        `json:"address"`
	TaxID         string        `json:"taxId"`
	IBAN          string        `json:"iban"`
	Contact       string        `json:"contact"`
	Email         string        `json:"email"`
	Items         []RawLineItem `json:"items"`

	// Total is accepted for compatibility with the form and never used
	Total string `json:"total,omitempty"`

	SignatureImage string `json:"signatureImage,omitempty"` // data URI
	StampImage     string `json:"stampImage,omitempty"`     // data URI
	SignerName     string `json:"signerName,omitempty"`
	Transliterate  bool   `json:"transliterate,omitempty"`
}

// Builder validates raw input and assembles records
type Builder struct {
	maxImageBytes int
}

// Option configures a Builder
type Option func(*Builder)

// WithMaxImageBytes caps each decoded image; n <= 0 disables the cap
func WithMaxImageBytes(n int) Option {
	return func(b *Builder) {
		b.maxImageBytes = n
	}
}

// New creates a Builder
func New(opts ...Option) *Builder {
	b := &Builder{
		maxImageBytes: datauri.DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build validates raw with the default options
func Build(raw RawInvoice) (*model.InvoiceRecord, model.FieldErrors) {
	return New().Build(raw)
}

// Build validates every field and returns either a complete record or the
// full set of field errors. A partial record is never returned.
func (b *Builder) Build(raw RawInvoice) (*model.InvoiceRecord, model.FieldErrors) {
	errs := model.FieldErrors{}
	rec := &model.InvoiceRecord{
		SignerName:    strings.TrimSpace(raw.SignerName),
		Transliterate: raw.Transliterate,
	}

	b.buildHeader(raw, &rec.Header, errs)
	rec.Items = buildItems(raw.Items, errs)
	rec.Signature = b.decodeImage(FieldSignatureImage, raw.SignatureImage, errs)
	rec.Stamp = b.decodeImage(FieldStampImage, raw.StampImage, errs)

	if len(errs) > 0 {
		return nil, errs
	}

	rec.Total = model.SumItems(rec.Items)
	return rec, nil
}

func (b *Builder) buildHeader(raw RawInvoice, h *model.InvoiceHeader, errs model.FieldErrors) {
	h.InvoiceNumber = strings.TrimSpace(raw.InvoiceNumber)
	switch {
	case h.InvoiceNumber == "":
		errs.Add(FieldInvoiceNumber, "invoice number is required")
	case !validate.DocumentNumber(h.InvoiceNumber):
		errs.Add(FieldInvoiceNumber, "invoice number must look like 12/24 (1-4 digits, slash, 2 digits)")
	}

	date := strings.TrimSpace(raw.Date)
	if date == "" {
		errs.Add(FieldDate, "date is required")
	} else if d, err := model.ParseDate(date); err != nil {
		errs.Add(FieldDate, "date must be in YYYY-MM-DD format")
	} else {
		h.Date = d
	}

	h.ClientName = strings.TrimSpace(raw.ClientName)
	if h.ClientName == "" {
		errs.Add(FieldClientName, "client name is required")
	}

	h.Address = strings.TrimSpace(raw.Address)
	h.Contact = strings.TrimSpace(raw.Contact)

	if taxID := strings.TrimSpace(raw.TaxID); taxID != "" {
		kind := validate.TaxID(taxID)
		if kind == model.TaxIDNone {
			errs.Add(FieldTaxID, "tax ID must be a valid 8-digit business code or 10-digit individual tax number")
		}
		h.TaxID = taxID
		h.TaxIDKind = kind
	}

	if strings.TrimSpace(raw.IBAN) != "" {
		if !validate.IBAN(raw.IBAN) {
			errs.Add(FieldIBAN, "IBAN must be UA followed by 27 digits with a valid checksum")
		}
		h.IBAN = validate.NormalizeIBAN(raw.IBAN)
	}

	if email := strings.TrimSpace(raw.Email); email != "" {
		if !validate.Email(email) {
			errs.Add(FieldEmail, "email address is not valid")
		}
		h.Email = email
	}
}

func buildItems(raw []RawLineItem, errs model.FieldErrors) []model.LineItem {
	if len(raw) == 0 {
		errs.Add(FieldItems, "at least one line item is required")
		return nil
	}

	items := make([]model.LineItem, 0, len(raw))
	for i, r := range raw {
		item := model.LineItem{
			Description: strings.TrimSpace(r.Description),
			Unit:        strings.TrimSpace(r.Unit),
		}
		if item.Description == "" {
			errs.Add(itemField(i, "description"), "description is required")
		}
		if item.Unit == "" {
			item.Unit = model.DefaultUnit
		}

		if q, msg := parseAmount(r.Quantity, true); msg != "" {
			errs.Add(itemField(i, "quantity"), "quantity "+msg)
		} else {
			item.Quantity = q
		}

		if p, msg := parseAmount(r.Price, false); msg != "" {
			errs.Add(itemField(i, "price"), "price "+msg)
		} else {
			item.UnitPrice = p
		}

		items = append(items, item)
	}
	return items
}

// parseAmount normalizes a numeric field. Negative values are always rejected;
// strict also rejects zero.
func parseAmount(s string, strict bool) (decimal.Decimal, string) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, "is required"
	}
	d, err := money.FromString(s)
	if errors.Is(err, money.ErrOutOfRange) {
		return decimal.Zero, "is out of range"
	}
	if err != nil {
		return decimal.Zero, "must be a number"
	}
	if strict && !money.IsPositive(d) {
		return decimal.Zero, "must be greater than zero"
	}
	if !money.IsNonNegative(d) {
		return decimal.Zero, "must not be negative"
	}
	return d, ""
}

func (b *Builder) decodeImage(field, uri string, errs model.FieldErrors) *model.Image {
	img, err := datauri.Decode(uri, b.maxImageBytes)
	switch {
	case err == nil:
		return img
	case errors.Is(err, datauri.ErrTooLarge):
		errs.Add(field, fmt.Sprintf("image must not exceed %d bytes", b.maxImageBytes))
	case errors.Is(err, datauri.ErrNotImage):
		errs.Add(field, "file is not an image")
	default:
		errs.Add(field, "image data is malformed")
	}
	return nil
}

func itemField(i int, name string) string {
	return fmt.Sprintf("%s[%d].%s", FieldItems, i, name)
}
