package model

import (
	"github.com/shopspring/decimal"

	money "github.com/rezonia/invoice-generator/internal/decimal"
)

// DefaultUnit is the unit used when a line item does not name one
const DefaultUnit = "послуга"

// TaxIDKind tells which checksum scheme a tax identifier satisfied
type TaxIDKind string

const (
	TaxIDNone       TaxIDKind = ""
	TaxIDBusiness   TaxIDKind = "business"   // 8-digit registration code
	TaxIDIndividual TaxIDKind = "individual" // 10-digit personal tax number
)

// InvoiceHeader holds the document-level fields of an invoice
type InvoiceHeader struct {
	InvoiceNumber string    `json:"invoice_number"` // DDDD/YY
	Date          Date      `json:"date"`
	ClientName    string    `json:"client_name"`
	Address       string    `json:"address,omitempty"`
	TaxID         string    `json:"tax_id,omitempty"`
	TaxIDKind     TaxIDKind `json:"tax_id_kind,omitempty"`
	IBAN          string    `json:"iban,omitempty"` // normalized, UA + 27 digits
	Contact       string    `json:"contact,omitempty"`
	Email         string    `json:"email,omitempty"`
}

// LineItem represents one billable row
type LineItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// Total returns quantity * unit price without rounding
func (li LineItem) Total() decimal.Decimal {
	return money.Mul(li.Quantity, li.UnitPrice)
}

// Image is an opaque decoded image supplied by the client
type Image struct {
	Data        []byte `json:"-"`
	ContentType string `json:"content_type"`
}

// Empty reports whether the image carries no bytes
func (img *Image) Empty() bool {
	return img == nil || len(img.Data) == 0
}

// InvoiceRecord is a validated, normalized invoice ready for rendering.
// Records are only produced by the builder; Total is always recomputed there.
type InvoiceRecord struct {
	Header        InvoiceHeader   `json:"header"`
	Items         []LineItem      `json:"items"`
	Signature     *Image          `json:"signature,omitempty"`
	Stamp         *Image          `json:"stamp,omitempty"`
	SignerName    string          `json:"signer_name,omitempty"`
	Transliterate bool            `json:"transliterate"`
	Total         decimal.Decimal `json:"total"`
}

// HasImages reports whether a signature or stamp image is attached
func (r *InvoiceRecord) HasImages() bool {
	return !r.Signature.Empty() || !r.Stamp.Empty()
}

// HasSignatureBlock reports whether the signature section should be rendered
func (r *InvoiceRecord) HasSignatureBlock() bool {
	return r.HasImages() || r.SignerName != ""
}

// SumItems computes the invoice total from its line items
func SumItems(items []LineItem) decimal.Decimal {
	totals := make([]decimal.Decimal, len(items))
	for i, item := range items {
		totals[i] = item.Total()
	}
	return money.Sum(totals)
}
