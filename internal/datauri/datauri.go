// Package datauri decodes the inline images (data: URIs) that the invoice
// form produces when a signature or stamp file is picked.
package datauri

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/vincent-petithory/dataurl"

	"github.com/rezonia/invoice-generator/internal/model"
)

// DefaultMaxBytes caps a single decoded image
const DefaultMaxBytes = 2 << 20

var (
	ErrMalformed = errors.New("malformed data URI")
	ErrNotImage  = errors.New("data URI is not an image")
	ErrTooLarge  = errors.New("image is too large")
)

// Decode parses a data URI into an image. An empty string yields a nil image.
// maxBytes <= 0 disables the size check.
func Decode(s string, maxBytes int) (*model.Image, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	du, err := dataurl.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if maxBytes > 0 && len(du.Data) > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrTooLarge, len(du.Data), maxBytes)
	}
	if len(du.Data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrMalformed)
	}

	// The declared type comes from the browser; trust the bytes when they disagree
	declared := du.MediaType.ContentType()
	detected := mimetype.Detect(du.Data)
	contentType := declared
	if !strings.HasPrefix(declared, "image/") || !detected.Is(declared) {
		contentType = detected.String()
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: %s", ErrNotImage, contentType)
	}

	return &model.Image{
		Data:        du.Data,
		ContentType: contentType,
	}, nil
}

// Encode builds a base64 data URI for raw image bytes, sniffing the media type
func Encode(data []byte) string {
	return dataurl.New(data, mimetype.Detect(data).String()).String()
}
