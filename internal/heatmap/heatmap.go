// Package heatmap renders the decorative "forensic" overlay shown next to uploads. The
// image is seeded from the input digest so it is stable per file, but it carries no
// information about the verdict.
package heatmap

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"deepfake-defender/backend/internal/prng"
)

const (
	DefaultWidth     = 512
	DefaultHeight    = 320
	DefaultBlurSigma = 6.0

	maxDimension = 4096
	minBlobs     = 3
	blobSpread   = 4
)

// ErrInvalidSize is returned when the configured dimensions are unusable.
var ErrInvalidSize = errors.New("heatmap: invalid dimensions")

// Renderer produces heatmap overlays. Zero fields fall back to the defaults.
type Renderer struct {
	Width     int
	Height    int
	BlurSigma float64
}

type blob struct {
	cx, cy float64
	rx, ry float64
	weight float64
}

func (r Renderer) withDefaults() Renderer {
	if r.Width == 0 {
		r.Width = DefaultWidth
	}
	if r.Height == 0 {
		r.Height = DefaultHeight
	}
	if r.BlurSigma == 0 {
		r.BlurSigma = DefaultBlurSigma
	}
	return r
}

// Validate checks the renderer dimensions.
func (r Renderer) Validate() error {
	r = r.withDefaults()
	if r.Width < 0 || r.Height < 0 || r.Width > maxDimension || r.Height > maxDimension {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, r.Width, r.Height)
	}
	if r.BlurSigma < 0 {
		return fmt.Errorf("%w: negative blur %.2f", ErrInvalidSize, r.BlurSigma)
	}
	return nil
}

// Render builds the blurred RGBA overlay for the input bytes.
func (r Renderer) Render(data []byte) (*image.NRGBA, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	r = r.withDefaults()

	field := r.intensity(r.blobs(data))
	img := image.NewNRGBA(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			img.SetNRGBA(x, y, colorize(field[y*r.Width+x]))
		}
	}
	return imaging.Blur(img, r.BlurSigma), nil
}

// RenderPNG renders the overlay and encodes it as PNG.
func (r Renderer) RenderPNG(data []byte) ([]byte, error) {
	img, err := r.Render(data)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode heatmap: %w", err)
	}
	return buf.Bytes(), nil
}

func (r Renderer) blobs(data []byte) []blob {
	sum := sha256.Sum256(data)
	rng := prng.NewMT19937(binary.BigEndian.Uint32(sum[:4]))

	w, h := float64(r.Width), float64(r.Height)
	count := minBlobs + int(rng.Float64()*blobSpread)
	out := make([]blob, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, blob{
			cx:     rng.Float64() * w,
			cy:     rng.Float64() * h,
			rx:     30 + rng.Float64()*w/4,
			ry:     30 + rng.Float64()*h/4,
			weight: 0.5 + rng.Float64()*0.5,
		})
	}
	return out
}

// intensity sums the Gaussian blobs and normalizes the field to [0, 255].
func (r Renderer) intensity(blobs []blob) []float64 {
	field := make([]float64, r.Width*r.Height)
	var peak float64
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			var v float64
			for _, b := range blobs {
				dx := (float64(x) - b.cx) / b.rx
				dy := (float64(y) - b.cy) / b.ry
				v += b.weight * math.Exp(-(dx*dx+dy*dy)/2)
			}
			field[y*r.Width+x] = v
			if v > peak {
				peak = v
			}
		}
	}
	if peak == 0 {
		return field
	}
	for i := range field {
		field[i] = field[i] / peak * 255
	}
	return field
}

func colorize(v float64) color.NRGBA {
	return color.NRGBA{
		R: clampByte(v * 1.5),
		G: clampByte(v),
		B: clampByte(255 - v/2),
		A: clampByte(100 + v*0.6),
	}
}

func clampByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
