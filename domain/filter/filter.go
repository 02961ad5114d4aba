// Package filter implements the booth's per-pixel RGBA transforms.
//
// Every transform mutates the slice it is handed in place and keeps no
// reference to it after returning, so callers may pass a copy or a surface's
// live Pix buffer interchangeably.
package filter

import (
	"image"
	"math"
)

// DefaultPosterizeLevels is the number of discrete values each channel is
// quantized to by the Posterize kind.
const DefaultPosterizeLevels = 3

const dramaticContrast = 2.5

// Apply runs the transform for kind over an RGBA byte buffer laid out as
// consecutive r,g,b,a quadruplets. Alpha is never modified. A trailing
// partial pixel is ignored.
func Apply(kind Kind, pix []uint8) {
	n := len(pix) - len(pix)%4
	if n == 0 {
		return
	}
	switch kind {
	case None:
	case Sepia:
		applySepia(pix[:n])
	case Posterize:
		ApplyPosterize(pix[:n], DefaultPosterizeLevels)
	case Invert:
		applyInvert(pix[:n])
	case Dramatic:
		applyDramatic(pix[:n])
	}
}

// ApplyImage applies kind to every pixel inside img's bounds, honouring
// Stride so sub-images are handled correctly.
func ApplyImage(kind Kind, img *image.RGBA) {
	if img == nil || kind.Identity() {
		return
	}
	b := img.Bounds()
	w := b.Dx()
	if w <= 0 || b.Dy() <= 0 {
		return
	}
	// contiguous fast path
	if img.Stride == w*4 {
		start := img.PixOffset(b.Min.X, b.Min.Y)
		Apply(kind, img.Pix[start:start+w*4*b.Dy()])
		return
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		start := img.PixOffset(b.Min.X, y)
		Apply(kind, img.Pix[start:start+w*4])
	}
}

func applySepia(pix []uint8) {
	for i := 0; i < len(pix); i += 4 {
		r := float64(pix[i])
		g := float64(pix[i+1])
		b := float64(pix[i+2])
		pix[i] = clampByte(math.Min(255, r*0.393+g*0.769+b*0.189))
		pix[i+1] = clampByte(math.Min(255, r*0.349+g*0.686+b*0.168))
		pix[i+2] = clampByte(math.Min(255, r*0.272+g*0.534+b*0.131))
	}
}

// ApplyPosterize quantizes each colour channel to levels evenly spaced values.
// levels below 2 leave the buffer untouched.
func ApplyPosterize(pix []uint8, levels int) {
	if levels < 2 {
		return
	}
	step := 255.0 / float64(levels-1)
	var lut [256]uint8
	for c := range lut {
		lut[c] = clampByte(math.Round(float64(c)/step) * step)
	}
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i] = lut[pix[i]]
		pix[i+1] = lut[pix[i+1]]
		pix[i+2] = lut[pix[i+2]]
	}
}

func applyInvert(pix []uint8) {
	for i := 0; i < len(pix); i += 4 {
		pix[i] = 255 - pix[i]
		pix[i+1] = 255 - pix[i+1]
		pix[i+2] = 255 - pix[i+2]
	}
}

// applyDramatic converts to grayscale, boosts contrast around mid-grey and
// darkens slightly.
func applyDramatic(pix []uint8) {
	factor := (259 * (dramaticContrast + 255)) / (255 * (259 - dramaticContrast))
	for i := 0; i < len(pix); i += 4 {
		gray := float64(pix[i])*0.299 + float64(pix[i+1])*0.587 + float64(pix[i+2])*0.114
		adjusted := (factor*(gray-128) + 128) * 0.9
		v := clampByte(adjusted)
		pix[i], pix[i+1], pix[i+2] = v, v, v
	}
}

// clampByte stores v the way a clamped canvas byte array does: clamp to
// [0,255] then round half to even.
func clampByte(v float64) uint8 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.RoundToEven(v))
}
