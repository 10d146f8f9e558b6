package layout_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/invoice-generator/internal/layout"
	"github.com/rezonia/invoice-generator/internal/model"
)

func scenarioRecord() *model.InvoiceRecord {
	items := []model.LineItem{
		{
			Description: "Consulting",
			Quantity:    decimal.RequireFromString("2"),
			Unit:        "hrs",
			UnitPrice:   decimal.RequireFromString("500"),
		},
	}
	return &model.InvoiceRecord{
		Header: model.InvoiceHeader{
			InvoiceNumber: "12/24",
			Date:          model.NewDate(2024, time.March, 5),
			ClientName:    "Acme",
		},
		Items: items,
		Total: model.SumItems(items),
	}
}

func TestBuild_Scenario(t *testing.T) {
	doc := layout.Build(scenarioRecord())

	assert.Equal(t, layout.Title, doc.Title)
	assert.Equal(t, []string{
		"Invoice Number: 12/24",
		"Date: 05.03.2024",
		"Client: Acme",
		"Consulting: 2 hrs x 500 = 1000",
		"Total: 1000",
	}, doc.Lines())
}

func TestBuild_SectionOrder(t *testing.T) {
	rec := scenarioRecord()
	rec.Header.IBAN = "UA213223130000026007233566001"
	rec.SignerName = "Ivan"

	doc := layout.Build(rec)

	names := make([]string, 0, len(doc.Sections))
	for _, s := range doc.Sections {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{
		layout.SectionHeader,
		layout.SectionDetails,
		layout.SectionItems,
		layout.SectionFooter,
		layout.SectionSignature,
	}, names)
}

func TestBuild_NoOptionalSections(t *testing.T) {
	doc := layout.Build(scenarioRecord())

	_, ok := doc.Section(layout.SectionDetails)
	assert.False(t, ok)
	_, ok = doc.Section(layout.SectionSignature)
	assert.False(t, ok)
}

func TestBuild_Details(t *testing.T) {
	rec := scenarioRecord()
	rec.Header.Address = "Kyiv, Khreshchatyk 1"
	rec.Header.TaxID = "30392012"
	rec.Header.Email = "billing@acme.test"

	details, ok := layout.Build(rec).Section(layout.SectionDetails)
	require.True(t, ok)
	assert.Equal(t, []string{
		"Address: Kyiv, Khreshchatyk 1",
		"Tax ID: 30392012",
		"Email: billing@acme.test",
	}, details.Lines())
}

func TestBuild_ItemsKeepInputOrder(t *testing.T) {
	rec := scenarioRecord()
	rec.Items = []model.LineItem{
		{Description: "B", Quantity: decimal.NewFromInt(1), Unit: "pcs", UnitPrice: decimal.RequireFromString("10.50")},
		{Description: "A", Quantity: decimal.RequireFromString("0.5"), Unit: model.DefaultUnit, UnitPrice: decimal.NewFromInt(3)},
	}
	rec.Total = model.SumItems(rec.Items)

	items, ok := layout.Build(rec).Section(layout.SectionItems)
	require.True(t, ok)
	assert.Equal(t, []string{
		"B: 1 pcs x 10.5 = 10.5",
		"A: 0.5 послуга x 3 = 1.5",
	}, items.Lines())

	footer, _ := layout.Build(rec).Section(layout.SectionFooter)
	assert.Equal(t, []string{"Total: 12"}, footer.Lines())
}

func TestBuild_SignatureSection(t *testing.T) {
	sig := &model.Image{Data: []byte{1}, ContentType: "image/png"}
	stamp := &model.Image{Data: []byte{2}, ContentType: "image/png"}

	rec := scenarioRecord()
	rec.Signature = sig
	rec.Stamp = stamp
	rec.SignerName = "Олександра Щербак"
	rec.Transliterate = true

	section, ok := layout.Build(rec).Section(layout.SectionSignature)
	require.True(t, ok)
	require.Len(t, section.Elements, 2)

	row := section.Elements[0]
	assert.Equal(t, layout.KindImages, row.Kind)
	require.Len(t, row.Images, 2)
	assert.Equal(t, layout.SlotSignature, row.Images[0].Name)
	assert.Same(t, sig, row.Images[0].Image)
	assert.Equal(t, layout.SlotStamp, row.Images[1].Name)
	assert.Same(t, stamp, row.Images[1].Image)

	assert.Equal(t, []string{"Oleksandra Shcherbak"}, section.Lines())
}

func TestBuild_SignerNameWithoutTransliteration(t *testing.T) {
	rec := scenarioRecord()
	rec.SignerName = "Олександра Щербак"

	section, ok := layout.Build(rec).Section(layout.SectionSignature)
	require.True(t, ok)
	require.Len(t, section.Elements, 1)
	assert.Equal(t, []string{"Олександра Щербак"}, section.Lines())
}

func TestBuild_StampOnly(t *testing.T) {
	rec := scenarioRecord()
	rec.Stamp = &model.Image{Data: []byte{2}, ContentType: "image/jpeg"}

	section, ok := layout.Build(rec).Section(layout.SectionSignature)
	require.True(t, ok)
	require.Len(t, section.Elements, 1)
	require.Len(t, section.Elements[0].Images, 1)
	assert.Equal(t, layout.SlotStamp, section.Elements[0].Images[0].Name)
	assert.Empty(t, section.Lines())
}

func TestBuild_Pure(t *testing.T) {
	rec := scenarioRecord()
	assert.Equal(t, layout.Build(rec), layout.Build(rec))
}

func TestElementKind_String(t *testing.T) {
	assert.Equal(t, "text", layout.KindText.String())
	assert.Equal(t, "images", layout.KindImages.String())
}
