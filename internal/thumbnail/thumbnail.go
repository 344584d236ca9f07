// Package thumbnail derives small preview images from uploaded image bytes.
package thumbnail

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/ericpauley/go-quantize/quantize"
)

const (
	// MaxWidth is the widest a derivative may be. Narrower sources keep their size.
	MaxWidth = 200

	jpegQuality = 70
	paletteSize = 256
	pngLevel    = png.BestCompression
	mimeJPEG    = "image/jpeg"
	mimeJPG     = "image/jpg"
	mimePNG     = "image/png"
)

// ErrUndecodable is returned when the bytes are not an image this package can read.
var ErrUndecodable = errors.New("image cannot be decoded")

// Derive shrinks raw to at most MaxWidth pixels wide and re-encodes it according
// to mimeType. JPEG sources become quality 70 JPEG, PNG sources become a
// palette-reduced PNG, and other formats keep their own encoder defaults.
func Derive(raw []byte, mimeType string) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}

	img = shrink(img)

	var buf bytes.Buffer
	switch strings.ToLower(strings.TrimSpace(mimeType)) {
	case mimeJPEG, mimeJPG:
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality))
	case mimePNG:
		enc := png.Encoder{CompressionLevel: pngLevel}
		err = enc.Encode(&buf, paletted(img))
	default:
		var format imaging.Format
		format, err = sourceFormat(raw)
		if err == nil {
			err = imaging.Encode(&buf, img, format)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("encode derivative: %w", err)
	}
	return buf.Bytes(), nil
}

func shrink(img image.Image) image.Image {
	if img.Bounds().Dx() <= MaxWidth {
		return img
	}
	return imaging.Resize(img, MaxWidth, 0, imaging.Lanczos)
}

// paletted reduces img to at most 256 colors with Floyd-Steinberg dithering.
func paletted(img image.Image) *image.Paletted {
	q := quantize.MedianCutQuantizer{Aggregation: quantize.Mean, AddTransparent: hasAlpha(img)}
	pal := q.Quantize(make(color.Palette, 0, paletteSize), img)

	b := img.Bounds()
	out := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), pal)
	draw.FloydSteinberg.Draw(out, out.Bounds(), img, b.Min)
	return out
}

func hasAlpha(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	return true
}

func sourceFormat(raw []byte) (imaging.Format, error) {
	_, name, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return 0, err
	}
	return imaging.FormatFromExtension(name)
}
