// Package rimage holds the minimal imaging types the pipeline needs:
// a flat RGBA buffer captured from the render target, sampled by flat
// offset.
package rimage

import "image/color"

// Sentinel is the color given to points whose projection falls
// outside the captured image: black and fully opaque.
var Sentinel = color.NRGBA{R: 0, G: 0, B: 0, A: 255}

// ColorImage is a read-only row-major RGBA buffer captured from the
// render output at a fixed resolution. Pixels holds Width*Height
// samples.
type ColorImage struct {
	Width  int
	Height int
	Pixels []color.NRGBA
}

// NewColorImage allocates an all-black image at the given resolution.
func NewColorImage(width, height int) *ColorImage {
	return &ColorImage{
		Width:  width,
		Height: height,
		Pixels: make([]color.NRGBA, width*height),
	}
}

// AtFlat samples the pixel at a flat row-major offset with no 2D
// bounds math. Offsets outside [0, Width*Height) yield Sentinel; an
// off-image projection is expected, not exceptional.
func (ci *ColorImage) AtFlat(offset int) color.NRGBA {
	if offset < 0 || offset >= ci.Width*ci.Height {
		return Sentinel
	}
	return ci.Pixels[offset]
}

// SetXY writes a pixel by 2D coordinate. Test and demo helper; the
// hot path only reads flat offsets.
func (ci *ColorImage) SetXY(x, y int, c color.NRGBA) {
	ci.Pixels[y*ci.Width+x] = c
}

// FrameCapturer is the render collaborator the pipeline samples
// colors from.
type FrameCapturer interface {
	// CaptureCurrentFrame returns the most recently rendered color
	// frame. The pipeline only reads the result.
	CaptureCurrentFrame() *ColorImage
}
