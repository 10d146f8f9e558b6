// Package pdfinfo checks rendered documents with pdfcpu.
package pdfinfo

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrNotPDF is returned when the data has no PDF header
var ErrNotPDF = errors.New("not a PDF document")

func init() {
	// pdfcpu would otherwise create a config dir under the user's home
	api.DisableConfigDir()
}

// Info summarizes a PDF document
type Info struct {
	Size    int    `json:"size"`
	Pages   int    `json:"pages"`
	Valid   bool   `json:"valid"`
	Problem string `json:"problem,omitempty"`
}

func newConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Inspect validates data and counts its pages. A document that fails
// validation is reported through Info.Valid and Info.Problem; only input
// that is not a PDF at all returns an error.
func Inspect(data []byte) (*Info, error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return nil, ErrNotPDF
	}

	info := &Info{Size: len(data)}

	if err := api.Validate(bytes.NewReader(data), newConfig()); err != nil {
		info.Problem = err.Error()
		return info, nil
	}
	info.Valid = true

	pages, err := api.PageCount(bytes.NewReader(data), newConfig())
	if err != nil {
		return nil, fmt.Errorf("counting pages: %w", err)
	}
	info.Pages = pages

	return info, nil
}

// Verify returns an error unless data is a valid PDF with at least one page
func Verify(data []byte) error {
	info, err := Inspect(data)
	if err != nil {
		return err
	}
	if !info.Valid {
		return fmt.Errorf("invalid PDF: %s", info.Problem)
	}
	if info.Pages == 0 {
		return fmt.Errorf("invalid PDF: no pages")
	}
	return nil
}
