// Package imaging converts uploaded images to PNG for captioning.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	"image/png"

	_ "golang.org/x/image/bmp" // register BMP decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.ImageNormaliser = (*Normaliser)(nil)

// DefaultMaxDimension caps the longest side sent to the vision model.
const DefaultMaxDimension = 2048

// Normaliser decodes PNG, JPEG, GIF, BMP, TIFF and WebP and re-encodes as PNG.
type Normaliser struct {
	maxDimension int
}

// New creates a normaliser. A maxDimension of 0 uses DefaultMaxDimension.
func New(maxDimension int) *Normaliser {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	return &Normaliser{maxDimension: maxDimension}
}

// ToPNG decodes data and returns it as PNG, downscaled to fit maxDimension.
// PNG input that already fits is returned unchanged.
func (n *Normaliser) ToPNG(data []byte) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode image: %w", domain.ErrUnsupportedType, err)
	}

	scaled := n.fit(img)
	if format == "png" && scaled == img {
		return data, nil
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// fit returns img unchanged if it is within bounds, otherwise a scaled copy
// that keeps the aspect ratio.
func (n *Normaliser) fit(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	longest := max(w, h)
	if longest <= n.maxDimension {
		return img
	}

	nw := max(w*n.maxDimension/longest, 1)
	nh := max(h*n.maxDimension/longest, 1)
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
