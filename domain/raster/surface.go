// Package raster provides the pixel surfaces the booth draws camera frames
// into, the square-crop geometry shared by preview and capture, and the
// encoded still image produced by a capture.
package raster

import (
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/soocke/selfie-booth-go/domain/filter"
)

// Surface is a resizable RGBA scratch target. Each draw overwrites the whole
// surface; nothing is merged across draws. A Surface is not safe for
// concurrent use; give each goroutine its own.
type Surface struct {
	img *image.RGBA
}

// NewSurface returns a surface sized w x h.
func NewSurface(w, h int) *Surface {
	s := &Surface{}
	s.Resize(w, h)
	return s
}

// Resize changes the surface dimensions, reusing the backing slice when its
// capacity allows. Pixel contents are unspecified after a resize.
func (s *Surface) Resize(w, h int) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	rect := image.Rect(0, 0, w, h)
	if s.img != nil && s.img.Rect.Eq(rect) {
		return
	}
	needed := w * h * 4
	if s.img == nil || cap(s.img.Pix) < needed {
		s.img = &image.RGBA{Pix: make([]uint8, needed), Stride: w * 4, Rect: rect}
		return
	}
	s.img.Pix = s.img.Pix[:needed]
	s.img.Stride = w * 4
	s.img.Rect = rect
}

// Size returns the current width and height.
func (s *Surface) Size() (int, int) {
	if s == nil || s.img == nil {
		return 0, 0
	}
	return s.img.Rect.Dx(), s.img.Rect.Dy()
}

// Image exposes the underlying buffer. It is overwritten by the next draw.
func (s *Surface) Image() *image.RGBA {
	if s == nil {
		return nil
	}
	return s.img
}

// Snapshot returns an independent copy of the current contents.
func (s *Surface) Snapshot() *image.RGBA {
	if s == nil || s.img == nil {
		return nil
	}
	out := &image.RGBA{Pix: make([]uint8, len(s.img.Pix)), Stride: s.img.Stride, Rect: s.img.Rect}
	copy(out.Pix, s.img.Pix)
	return out
}

// DrawCropped resizes the surface to w x h and draws the crop region of src
// scaled to fill it.
func (s *Surface) DrawCropped(src image.Image, crop image.Rectangle, w, h int) {
	s.Resize(w, h)
	if src == nil || crop.Empty() || w == 0 || h == 0 {
		return
	}
	dst := s.img.Bounds()
	if crop.Dx() == w && crop.Dy() == h {
		xdraw.Copy(s.img, image.Point{}, src, crop, xdraw.Src, nil)
		return
	}
	xdraw.ApproxBiLinear.Scale(s.img, dst, src, crop, xdraw.Src, nil)
}

// ApplyFilter runs kind over the surface pixels in place.
func (s *Surface) ApplyFilter(kind filter.Kind) {
	if s == nil || s.img == nil || kind.Identity() {
		return
	}
	filter.Apply(kind, s.img.Pix)
}
