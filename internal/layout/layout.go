// Package layout describes the invoice document as data: an ordered list of
// sections, each holding text lines or an image row. The renderer walks the
// Document; nothing here knows about PDF.
package layout

import (
	"fmt"

	money "github.com/rezonia/invoice-generator/internal/decimal"
	"github.com/rezonia/invoice-generator/internal/model"
	"github.com/rezonia/invoice-generator/internal/translit"
	"github.com/rezonia/invoice-generator/internal/validate"
)

// Section names, in document order
const (
	SectionHeader    = "header"
	SectionDetails   = "details"
	SectionItems     = "items"
	SectionFooter    = "footer"
	SectionSignature = "signature"
)

// Image slot names
const (
	SlotSignature = "signature"
	SlotStamp     = "stamp"
)

// Title is printed at the top of every document
const Title = "INVOICE"

// ElementKind distinguishes text lines from image rows
type ElementKind int

const (
	KindText ElementKind = iota
	KindImages
)

func (k ElementKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImages:
		return "images"
	default:
		return "unknown"
	}
}

// Style selects the font treatment of a text element
type Style int

const (
	StyleNormal Style = iota
	StyleBold
)

// ImageSlot is one position in an image row
type ImageSlot struct {
	Name  string
	Image *model.Image
}

// Element is a single renderable unit
type Element struct {
	Kind   ElementKind
	Text   string
	Style  Style
	Images []ImageSlot
}

// Section groups elements under a name
type Section struct {
	Name     string
	Elements []Element
}

// Document is the full data-driven description of one invoice
type Document struct {
	Title    string
	Sections []Section
}

// Section returns the named section and whether it exists
func (d Document) Section(name string) (Section, bool) {
	for _, s := range d.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

// Lines flattens every text element in document order
func (d Document) Lines() []string {
	var lines []string
	for _, s := range d.Sections {
		lines = append(lines, s.Lines()...)
	}
	return lines
}

// Lines returns the text elements of the section
func (s Section) Lines() []string {
	var lines []string
	for _, e := range s.Elements {
		if e.Kind == KindText {
			lines = append(lines, e.Text)
		}
	}
	return lines
}

// Build lays out a validated record. It is pure: the same record always
// produces the same Document.
func Build(rec *model.InvoiceRecord) Document {
	doc := Document{Title: Title}

	doc.Sections = append(doc.Sections, Section{
		Name: SectionHeader,
		Elements: []Element{
			text(StyleBold, "Invoice Number: "+rec.Header.InvoiceNumber),
			text(StyleNormal, "Date: "+validate.FormatLocalDate(rec.Header.Date)),
			text(StyleNormal, "Client: "+rec.Header.ClientName),
		},
	})

	if details := detailLines(rec.Header); len(details) > 0 {
		doc.Sections = append(doc.Sections, Section{Name: SectionDetails, Elements: details})
	}

	items := make([]Element, 0, len(rec.Items))
	for _, item := range rec.Items {
		items = append(items, text(StyleNormal, ItemLine(item)))
	}
	doc.Sections = append(doc.Sections, Section{Name: SectionItems, Elements: items})

	doc.Sections = append(doc.Sections, Section{
		Name:     SectionFooter,
		Elements: []Element{text(StyleBold, "Total: "+money.Format(rec.Total))},
	})

	if rec.HasSignatureBlock() {
		doc.Sections = append(doc.Sections, signatureSection(rec))
	}

	return doc
}

// ItemLine formats one line item as "<description>: <qty> <unit> x <price> = <total>"
func ItemLine(item model.LineItem) string {
	return fmt.Sprintf("%s: %s %s x %s = %s",
		item.Description,
		money.Format(item.Quantity),
		item.Unit,
		money.Format(item.UnitPrice),
		money.Format(item.Total()),
	)
}

func detailLines(h model.InvoiceHeader) []Element {
	var elements []Element
	add := func(label, value string) {
		if value != "" {
			elements = append(elements, text(StyleNormal, label+": "+value))
		}
	}
	add("Address", h.Address)
	add("Tax ID", h.TaxID)
	add("IBAN", h.IBAN)
	add("Contact", h.Contact)
	add("Email", h.Email)
	return elements
}

func signatureSection(rec *model.InvoiceRecord) Section {
	s := Section{Name: SectionSignature}

	if rec.HasImages() {
		var slots []ImageSlot
		if !rec.Signature.Empty() {
			slots = append(slots, ImageSlot{Name: SlotSignature, Image: rec.Signature})
		}
		if !rec.Stamp.Empty() {
			slots = append(slots, ImageSlot{Name: SlotStamp, Image: rec.Stamp})
		}
		s.Elements = append(s.Elements, Element{Kind: KindImages, Images: slots})
	}

	if rec.SignerName != "" {
		name := rec.SignerName
		if rec.Transliterate {
			name = translit.Latin(name)
		}
		s.Elements = append(s.Elements, text(StyleNormal, name))
	}

	return s
}

func text(style Style, s string) Element {
	return Element{Kind: KindText, Text: s, Style: style}
}
