package raster

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/draw"

	"github.com/disintegration/imaging"

	"github.com/soocke/selfie-booth-go/domain/filter"
)

// MIMEJPEG is the only still format the booth produces.
const MIMEJPEG = "image/jpeg"

// DefaultJPEGQuality is the encoder quality used for stills (0.8 on a 0-1 scale).
const DefaultJPEGQuality = 80

// Still is an encoded image with its filter already baked in. The zero value
// is an empty still. A Still is immutable once created.
type Still struct {
	data   []byte
	mime   string
	width  int
	height int
}

// Empty reports whether the still holds no data.
func (s Still) Empty() bool { return len(s.data) == 0 }

// MIME returns the content type of the encoded data.
func (s Still) MIME() string { return s.mime }

// Bounds returns the pixel dimensions of the encoded image.
func (s Still) Bounds() (int, int) { return s.width, s.height }

// Len returns the encoded byte length.
func (s Still) Len() int { return len(s.data) }

// Bytes returns a copy of the encoded data.
func (s Still) Bytes() []byte { return append([]byte(nil), s.data...) }

// Base64 returns the standard base64 encoding of the data.
func (s Still) Base64() string { return base64.StdEncoding.EncodeToString(s.data) }

// DataURI renders the still as data:<mime>;base64,<payload>.
func (s Still) DataURI() string {
	if s.Empty() {
		return ""
	}
	return "data:" + s.mime + ";base64," + s.Base64()
}

// Decode decodes the still back into pixels.
func (s Still) Decode() (*image.RGBA, error) {
	if s.Empty() {
		return nil, errors.New("raster: empty still")
	}
	img, err := imaging.Decode(bytes.NewReader(s.data))
	if err != nil {
		return nil, fmt.Errorf("raster: decode still: %w", err)
	}
	return toRGBA(img), nil
}

// EncodeJPEG encodes img into a Still at the given quality (1-100).
func EncodeJPEG(img image.Image, quality int) (Still, error) {
	if img == nil {
		return Still{}, errors.New("raster: nil image")
	}
	if quality < 1 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return Still{}, fmt.Errorf("raster: encode jpeg: %w", err)
	}
	b := img.Bounds()
	return Still{data: buf.Bytes(), mime: MIMEJPEG, width: b.Dx(), height: b.Dy()}, nil
}

// BakeOptions controls Bake.
type BakeOptions struct {
	MaxEdge int
	Quality int
}

// Bake centre-crops frame to a square, scales it to at most MaxEdge, applies
// kind and encodes the result. scratch is reused as the drawing target and
// may be nil.
func Bake(scratch *Surface, frame image.Image, kind filter.Kind, opts BakeOptions) (Still, error) {
	if frame == nil {
		return Still{}, errors.New("raster: nil frame")
	}
	b := frame.Bounds()
	crop := CenterSquare(b.Dx(), b.Dy())
	if crop.Empty() {
		return Still{}, fmt.Errorf("raster: frame has no area (%dx%d)", b.Dx(), b.Dy())
	}
	if scratch == nil {
		scratch = &Surface{}
	}
	edge := CaptureEdge(crop.Size, opts.MaxEdge)
	scratch.DrawCropped(frame, crop.Rect(b.Min), edge, edge)
	scratch.ApplyFilter(kind)
	return EncodeJPEG(scratch.Image(), opts.Quality)
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
