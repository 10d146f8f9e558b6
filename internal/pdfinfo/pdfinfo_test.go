package pdfinfo_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/invoice-generator/internal/model"
	"github.com/rezonia/invoice-generator/internal/pdfinfo"
	"github.com/rezonia/invoice-generator/internal/render"
)

func renderRecord(t *testing.T, itemCount int) []byte {
	t.Helper()
	items := make([]model.LineItem, 0, itemCount)
	for i := 0; i < itemCount; i++ {
		items = append(items, model.LineItem{
			Description: fmt.Sprintf("Service %d", i+1),
			Quantity:    decimal.NewFromInt(1),
			Unit:        "pcs",
			UnitPrice:   decimal.RequireFromString("9.99"),
		})
	}
	rec := &model.InvoiceRecord{
		Header: model.InvoiceHeader{
			InvoiceNumber: "7/25",
			Date:          model.NewDate(2025, time.January, 31),
			ClientName:    "Acme",
		},
		Items: items,
		Total: model.SumItems(items),
	}

	out, err := render.New().Render(context.Background(), rec)
	require.NoError(t, err)
	return out.Data
}

func TestInspect_RenderedInvoice(t *testing.T) {
	data := renderRecord(t, 1)

	info, err := pdfinfo.Inspect(data)
	require.NoError(t, err)
	assert.True(t, info.Valid, info.Problem)
	assert.Equal(t, 1, info.Pages)
	assert.Equal(t, len(data), info.Size)
	assert.NoError(t, pdfinfo.Verify(data))
}

func TestInspect_LongInvoiceSpansPages(t *testing.T) {
	info, err := pdfinfo.Inspect(renderRecord(t, 80))
	require.NoError(t, err)
	assert.True(t, info.Valid, info.Problem)
	assert.Greater(t, info.Pages, 1)
}

func TestInspect_NotPDF(t *testing.T) {
	_, err := pdfinfo.Inspect([]byte("hello"))
	assert.ErrorIs(t, err, pdfinfo.ErrNotPDF)

	assert.ErrorIs(t, pdfinfo.Verify(nil), pdfinfo.ErrNotPDF)
}

func TestInspect_Broken(t *testing.T) {
	data := []byte("%PDF-1.4\nthis is not a document body\n%%EOF\n")

	info, err := pdfinfo.Inspect(data)
	require.NoError(t, err)
	assert.False(t, info.Valid)
	assert.NotEmpty(t, info.Problem)
	assert.Error(t, pdfinfo.Verify(data))
}
