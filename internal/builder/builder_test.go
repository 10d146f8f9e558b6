package builder_test

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/invoice-generator/internal/builder"
	"github.com/rezonia/invoice-generator/internal/model"
)

func validRaw() builder.RawInvoice {
	return builder.RawInvoice{
		InvoiceNumber: "12/24",
		Date:          "2024-03-05",
		ClientName:    "Acme",
		Items: []builder.RawLineItem{
			{Description: "Consulting", Quantity: "2", Unit: "hrs", Price: "500"},
		},
	}
}

func pngDataURI(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestBuild_EndToEndScenario(t *testing.T) {
	rec, errs := builder.Build(validRaw())
	require.Nil(t, errs)
	require.NotNil(t, rec)

	assert.Equal(t, "12/24", rec.Header.InvoiceNumber)
	assert.Equal(t, model.NewDate(2024, time.March, 5), rec.Header.Date)
	assert.Equal(t, "Acme", rec.Header.ClientName)
	require.Len(t, rec.Items, 1)
	assert.Equal(t, "Consulting", rec.Items[0].Description)
	assert.Equal(t, "hrs", rec.Items[0].Unit)
	assert.True(t, rec.Total.Equal(decimal.NewFromInt(1000)), "total %s", rec.Total)
}

func TestBuild_TotalIsRecomputed(t *testing.T) {
	raw := validRaw()
	raw.Total = "999999"
	raw.Items = append(raw.Items,
		builder.RawLineItem{Description: "Travel", Quantity: "1.5", Unit: "days", Price: "120.10"},
		builder.RawLineItem{Description: "Free review", Quantity: "1", Price: "0"},
	)

	rec, errs := builder.Build(raw)
	require.Nil(t, errs)

	expected := model.SumItems(rec.Items)
	assert.True(t, rec.Total.Equal(expected))
	assert.Equal(t, "1180.15", rec.Total.String())
}

func TestBuild_PreservesItemOrder(t *testing.T) {
	raw := validRaw()
	raw.Items = []builder.RawLineItem{
		{Description: "C", Quantity: "1", Price: "1"},
		{Description: "A", Quantity: "1", Price: "1"},
		{Description: "B", Quantity: "1", Price: "1"},
	}

	rec, errs := builder.Build(raw)
	require.Nil(t, errs)
	assert.Equal(t, "C", rec.Items[0].Description)
	assert.Equal(t, "A", rec.Items[1].Description)
	assert.Equal(t, "B", rec.Items[2].Description)
}

func TestBuild_DefaultUnit(t *testing.T) {
	raw := validRaw()
	raw.Items[0].Unit = "  "

	rec, errs := builder.Build(raw)
	require.Nil(t, errs)
	assert.Equal(t, model.DefaultUnit, rec.Items[0].Unit)
}

func TestBuild_CollectsAllErrors(t *testing.T) {
	raw := builder.RawInvoice{
		InvoiceNumber: "12345/24",
		Date:          "05.03.2024",
		TaxID:         "1234567890",
		IBAN:          "UA0000000000000000000000000",
		Email:         "nope",
		Items: []builder.RawLineItem{
			{Description: "", Quantity: "-1", Price: "abc"},
			{Description: "ok", Quantity: "0", Price: "-5"},
			{Description: "ok", Quantity: "", Price: ""},
		},
	}

	rec, errs := builder.Build(raw)
	assert.Nil(t, rec)
	require.NotNil(t, errs)

	for _, field := range []string{
		builder.FieldInvoiceNumber,
		builder.FieldDate,
		builder.FieldClientName,
		builder.FieldTaxID,
		builder.FieldIBAN,
		builder.FieldEmail,
		"items[0].description",
		"items[0].quantity",
		"items[0].price",
		"items[1].quantity",
		"items[1].price",
		"items[2].quantity",
		"items[2].price",
	} {
		assert.Contains(t, errs, field)
	}
	assert.Len(t, errs, 13)
	assert.Equal(t, "price must be a number", errs["items[0].price"])
	assert.Equal(t, "quantity must be greater than zero", errs["items[1].quantity"])
	assert.Equal(t, "price must not be negative", errs["items[1].price"])
	assert.Equal(t, "quantity is required", errs["items[2].quantity"])
}

func TestBuild_AmountsOutOfRange(t *testing.T) {
	raw := validRaw()
	raw.Items = []builder.RawLineItem{
		{Description: "Huge", Quantity: "1e50000000", Price: "1"},
		{Description: "Tiny", Quantity: "1", Price: "1e-50000000"},
		{Description: "Long", Quantity: "1234567890123456", Price: "0.0000001"},
	}

	rec, errs := builder.Build(raw)
	assert.Nil(t, rec)
	assert.Equal(t, model.FieldErrors{
		"items[0].quantity": "quantity is out of range",
		"items[1].price":    "price is out of range",
		"items[2].quantity": "quantity is out of range",
		"items[2].price":    "price is out of range",
	}, errs)
}

func TestBuild_AmountsAtLimits(t *testing.T) {
	raw := validRaw()
	raw.Items = []builder.RawLineItem{
		{Description: "Max", Quantity: "0.000001", Price: "999999999999999"},
	}

	rec, errs := builder.Build(raw)
	require.Nil(t, errs)
	assert.Equal(t, "999999999.999999", rec.Total.String())
}

func TestBuild_RequiredFields(t *testing.T) {
	rec, errs := builder.Build(builder.RawInvoice{})
	assert.Nil(t, rec)
	assert.Equal(t, "invoice number is required", errs[builder.FieldInvoiceNumber])
	assert.Equal(t, "date is required", errs[builder.FieldDate])
	assert.Equal(t, "client name is required", errs[builder.FieldClientName])
	assert.Equal(t, "at least one line item is required", errs[builder.FieldItems])
}

func TestBuild_MalformedIBANProducesNoRecord(t *testing.T) {
	raw := validRaw()
	raw.IBAN = "UA0000000000000000000000000"

	rec, errs := builder.Build(raw)
	assert.Nil(t, rec)
	assert.Len(t, errs, 1)
	assert.Contains(t, errs, builder.FieldIBAN)
}

func TestBuild_NormalizesIBAN(t *testing.T) {
	raw := validRaw()
	raw.IBAN = "ua21 3223 1300 0002 6007 2335 6600 1"

	rec, errs := builder.Build(raw)
	require.Nil(t, errs)
	assert.Equal(t, "UA213223130000026007233566001", rec.Header.IBAN)
}

func TestBuild_TaxIDEitherScheme(t *testing.T) {
	tests := []struct {
		taxID string
		kind  model.TaxIDKind
	}{
		{"30392012", model.TaxIDBusiness},
		{"00000035", model.TaxIDBusiness},
		{"1234567899", model.TaxIDIndividual},
		{" 1234567899 ", model.TaxIDIndividual},
	}

	for _, tt := range tests {
		t.Run(tt.taxID, func(t *testing.T) {
			raw := validRaw()
			raw.TaxID = tt.taxID

			rec, errs := builder.Build(raw)
			require.Nil(t, errs)
			assert.Equal(t, tt.kind, rec.Header.TaxIDKind)
		})
	}
}

func TestBuild_OptionalFieldsEmpty(t *testing.T) {
	rec, errs := builder.Build(validRaw())
	require.Nil(t, errs)
	assert.Empty(t, rec.Header.TaxID)
	assert.Equal(t, model.TaxIDNone, rec.Header.TaxIDKind)
	assert.Empty(t, rec.Header.IBAN)
	assert.Nil(t, rec.Signature)
	assert.Nil(t, rec.Stamp)
}

func TestBuild_Images(t *testing.T) {
	raw := validRaw()
	raw.SignatureImage = pngDataURI(t)
	raw.StampImage = pngDataURI(t)
	raw.SignerName = "  Тарас Шевченко "
	raw.Transliterate = true

	rec, errs := builder.Build(raw)
	require.Nil(t, errs)
	require.NotNil(t, rec.Signature)
	require.NotNil(t, rec.Stamp)
	assert.Equal(t, "image/png", rec.Signature.ContentType)
	assert.Equal(t, "Тарас Шевченко", rec.SignerName)
	assert.True(t, rec.Transliterate)
}

func TestBuild_ImageErrors(t *testing.T) {
	raw := validRaw()
	raw.SignatureImage = "data:image/png;base64,%%%"
	raw.StampImage = "data:text/plain;base64," + base64.StdEncoding.EncodeToString([]byte("plain text"))

	rec, errs := builder.Build(raw)
	assert.Nil(t, rec)
	assert.Equal(t, "image data is malformed", errs[builder.FieldSignatureImage])
	assert.Equal(t, "file is not an image", errs[builder.FieldStampImage])
}

func TestBuild_ImageTooLarge(t *testing.T) {
	raw := validRaw()
	raw.SignatureImage = pngDataURI(t)

	rec, errs := builder.New(builder.WithMaxImageBytes(10)).Build(raw)
	assert.Nil(t, rec)
	assert.Equal(t, "image must not exceed 10 bytes", errs[builder.FieldSignatureImage])
}
