package render

import (
	"bytes"

	"github.com/jung-kurt/gofpdf"

	"github.com/rezonia/invoice-generator/internal/layout"
)

// writer draws layout elements onto a single gofpdf document
type writer struct {
	pdf       *gofpdf.Fpdf
	family    string
	translate func(string) string
	onLossy   func(string)
	images    map[string]preparedImage
}

func (w *writer) title(s string) {
	w.pdf.SetFont(w.family, "B", 18)
	w.pdf.CellFormat(0, 12, w.tr(s), "", 1, "C", false, 0, "")
	w.pdf.Ln(sectionGap)
}

func (w *writer) text(el layout.Element) {
	switch el.Style {
	case layout.StyleBold:
		w.pdf.SetFont(w.family, "B", 12)
	default:
		w.pdf.SetFont(w.family, "", 11)
	}
	w.pdf.MultiCell(0, lineHeight, w.tr(el.Text), "", "L", false)
}

// rule draws a horizontal line across the writable width
func (w *writer) rule() {
	pageWidth, _ := w.pdf.GetPageSize()
	y := w.pdf.GetY()
	w.pdf.SetLineWidth(0.3)
	w.pdf.Line(margin, y, pageWidth-margin, y)
	w.pdf.Ln(2)
}

// imageRow places images side by side at a fixed size, in slot order
func (w *writer) imageRow(slots []layout.ImageSlot) {
	_, pageHeight := w.pdf.GetPageSize()
	if w.pdf.GetY()+imageHeight > pageHeight-margin {
		w.pdf.AddPage()
	}

	x, y := margin, w.pdf.GetY()
	for _, slot := range slots {
		img, ok := w.images[slot.Name]
		if !ok {
			continue
		}
		opts := gofpdf.ImageOptions{ImageType: img.imageType}
		w.pdf.RegisterImageOptionsReader(slot.Name, opts, bytes.NewReader(img.data))
		w.pdf.ImageOptions(slot.Name, x, y, imageWidth, imageHeight, false, opts, 0, "")
		x += imageWidth + imageGap
	}
	w.pdf.SetY(y + imageHeight + 2)
}

// tr maps s into the active font encoding and reports text that lost characters
func (w *writer) tr(s string) string {
	out := w.translate(s)
	if w.onLossy != nil && lossy(s, out) {
		w.onLossy(s)
	}
	return out
}

// lossy reports whether a single-byte translation replaced any rune with '.'
func lossy(in, out string) bool {
	i := 0
	for _, r := range in {
		if i >= len(out) {
			return false
		}
		if out[i] == '.' && r != '.' {
			return true
		}
		i++
	}
	return false
}
