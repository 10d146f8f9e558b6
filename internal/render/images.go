package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gen2brain/heic"
	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"github.com/rezonia/invoice-generator/internal/layout"
	"github.com/rezonia/invoice-generator/internal/model"
)

// Errors returned while preparing images
var (
	ErrUnsupportedImage = errors.New("unsupported image format")
	ErrImageTooLarge    = errors.New("image dimensions too large")
)

// MaxImageDimension bounds the width and height of a decoded image, so a
// small compressed payload cannot expand into a huge bitmap.
const MaxImageDimension = 4096

// gofpdf image types
const (
	imageTypePNG = "PNG"
	imageTypeJPG = "JPG"
)

// preparedImage is an image in a form gofpdf can embed directly
type preparedImage struct {
	name      string
	imageType string
	data      []byte
}

// codec pairs a decoder with its header-only config reader
type codec struct {
	decode func(io.Reader) (image.Image, error)
	config func(io.Reader) (image.Config, error)
}

var (
	jpegCodec = codec{jpeg.Decode, jpeg.DecodeConfig}
	heicCodec = codec{heic.Decode, heic.DecodeConfig}
)

var codecs = map[string]codec{
	"image/png":  {png.Decode, png.DecodeConfig},
	"image/gif":  {gif.Decode, gif.DecodeConfig},
	"image/webp": {webp.Decode, webp.DecodeConfig},
	"image/bmp":  {bmp.Decode, bmp.DecodeConfig},
	"image/heic": heicCodec,
	"image/heif": heicCodec,
}

// decodeBounded reads the image header first and refuses to decode
// anything wider or taller than MaxImageDimension
func (c codec) decodeBounded(data []byte) (image.Image, error) {
	cfg, err := c.config(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if cfg.Width > MaxImageDimension || cfg.Height > MaxImageDimension {
		return nil, fmt.Errorf("%w: %dx%d exceeds %dx%d", ErrImageTooLarge,
			cfg.Width, cfg.Height, MaxImageDimension, MaxImageDimension)
	}
	return c.decode(bytes.NewReader(data))
}

// prepareImages normalizes every slot of an image row concurrently.
// The result keeps slot order.
func prepareImages(ctx context.Context, slots []layout.ImageSlot) ([]preparedImage, error) {
	prepared := make([]preparedImage, len(slots))

	g, ctx := errgroup.WithContext(ctx)
	for i, slot := range slots {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := prepareImage(slot.Image)
			if err != nil {
				return fmt.Errorf("%s image: %w", slot.Name, err)
			}
			img.name = slot.Name
			prepared[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return prepared, nil
}

// prepareImage detects the real type of img from its bytes. JPEG is embedded
// as is once it decodes cleanly; everything else is decoded and re-encoded
// as 8-bit PNG, which gofpdf always accepts.
func prepareImage(img *model.Image) (preparedImage, error) {
	if img.Empty() {
		return preparedImage{}, fmt.Errorf("empty image")
	}

	detected := mimetype.Detect(img.Data)

	if matches(detected, "image/jpeg") {
		if _, err := jpegCodec.decodeBounded(img.Data); err != nil {
			return preparedImage{}, fmt.Errorf("decoding JPEG: %w", err)
		}
		return preparedImage{imageType: imageTypeJPG, data: img.Data}, nil
	}

	c, ok := codecFor(detected)
	if !ok {
		return preparedImage{}, fmt.Errorf("%w: %s", ErrUnsupportedImage, detected.String())
	}

	decoded, err := c.decodeBounded(img.Data)
	if err != nil {
		return preparedImage{}, fmt.Errorf("decoding %s: %w", detected.String(), err)
	}

	data, err := encodePNG(decoded)
	if err != nil {
		return preparedImage{}, fmt.Errorf("encoding PNG: %w", err)
	}
	return preparedImage{imageType: imageTypePNG, data: data}, nil
}

func codecFor(m *mimetype.MIME) (codec, bool) {
	for ; m != nil; m = m.Parent() {
		if c, ok := codecs[m.String()]; ok {
			return c, true
		}
	}
	return codec{}, false
}

func matches(m *mimetype.MIME, contentType string) bool {
	for ; m != nil; m = m.Parent() {
		if m.Is(contentType) {
			return true
		}
	}
	return false
}

// encodePNG flattens img to 8-bit NRGBA so interlaced and 16-bit sources
// come out in a layout gofpdf can parse.
func encodePNG(img image.Image) ([]byte, error) {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.DefaultCompression}
	if err := enc.Encode(&buf, dst); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
