package processor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rezonia/invoice-generator/internal/builder"
)

// ErrMalformedRequest is returned when the request body is not valid JSON
// of the expected shape
var ErrMalformedRequest = errors.New("malformed request")

// Number accepts either a JSON number or a JSON string and keeps the
// literal text, so amounts are never routed through float64.
type Number string

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*n = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Number(s)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("expected number or string, got %s", data)
	}
	*n = Number(num.String())
	return nil
}

func (n Number) String() string {
	return string(n)
}

// RequestItem is one line item of a Request
type RequestItem struct {
	Description string `json:"description"`
	Quantity    Number `json:"quantity"`
	Unit        string `json:"unit,omitempty"`
	Price       Number `json:"price"`
	UnitPrice   Number `json:"unitPrice,omitempty"` // alias for price
}

// Request is the JSON body accepted by the HTTP API and the CLI.
// Field names match case-insensitively, so both taxId and taxID work.
type Request struct {
	InvoiceNumber  string        `json:"invoiceNumber"`
	Date           string        `json:"date"`
	ClientName     string        `json:"clientName"`
	Address        string        `json:"address,omitempty"`
	TaxID          string        `json:"taxId,omitempty"`
	IBAN           string        `json:"iban,omitempty"`
	Contact        string        `json:"contact,omitempty"`
	Email          string        `json:"email,omitempty"`
	Items          []RequestItem `json:"items"`
	Total          Number        `json:"total,omitempty"`
	SignatureImage string        `json:"signatureImage,omitempty"`
	StampImage     string        `json:"stampImage,omitempty"`
	SignerName     string        `json:"signerName,omitempty"`
	Transliterate  bool          `json:"transliterate,omitempty"`
}

// DecodeRequest reads one JSON Request from r
func DecodeRequest(r io.Reader) (*Request, error) {
	var req Request
	dec := json.NewDecoder(r)
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty body", ErrMalformedRequest)
		}
		return nil, fmt.Errorf("%w: %w", ErrMalformedRequest, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: unexpected data after JSON object", ErrMalformedRequest)
	}
	return &req, nil
}

// Raw converts the request into builder input
func (r *Request) Raw() builder.RawInvoice {
	items := make([]builder.RawLineItem, 0, len(r.Items))
	for _, item := range r.Items {
		price := item.Price
		if strings.TrimSpace(price.String()) == "" {
			price = item.UnitPrice
		}
		items = append(items, builder.RawLineItem{
			Description: item.Description,
			Quantity:    item.Quantity.String(),
			Unit:        item.Unit,
			Price:       price.String(),
		})
	}

	return builder.RawInvoice{
		InvoiceNumber:  r.InvoiceNumber,
		Date:           r.Date,
		ClientName:     r.ClientName,
		Address:        r.Address,
		TaxID:          r.TaxID,
		IBAN:           r.IBAN,
		Contact:        r.Contact,
		Email:          r.Email,
		Items:          items,
		Total:          r.Total.String(),
		SignatureImage: r.SignatureImage,
		StampImage:     r.StampImage,
		SignerName:     r.SignerName,
		Transliterate:  r.Transliterate,
	}
}
