// Package preview paints the live filtered preview and the per-filter
// thumbnails from the latest stream frame.
package preview

import (
	"errors"
	"image"
	"log/slog"

	"github.com/soocke/selfie-booth-go/domain/filter"
	"github.com/soocke/selfie-booth-go/domain/media"
	"github.com/soocke/selfie-booth-go/domain/raster"
)

const (
	DefaultPreviewSize   = 400
	DefaultThumbnailSize = 64
)

// ErrSkipped is returned by RenderOnce when there is nothing to draw yet.
var ErrSkipped = errors.New("preview: tick skipped")

// Sink receives rendered images. Images are copies owned by the sink.
type Sink interface {
	PresentPreview(img *image.RGBA)
	PresentThumbnail(kind filter.Kind, img *image.RGBA)
}

type thumbnail struct {
	kind    filter.Kind
	surface *raster.Surface
}

// Renderer owns one main surface and one thumbnail surface per filter.
// It is not safe for concurrent use; the Ticker is its only caller.
type Renderer struct {
	Sink   Sink
	Logger *slog.Logger

	main   *raster.Surface
	thumbs []thumbnail
	last   uint64
}

// NewRenderer builds the surfaces. Non-positive sizes select the defaults.
func NewRenderer(sink Sink, previewSize, thumbSize int, logger *slog.Logger) *Renderer {
	if previewSize <= 0 {
		previewSize = DefaultPreviewSize
	}
	if thumbSize <= 0 {
		thumbSize = DefaultThumbnailSize
	}
	defs := filter.All()
	r := &Renderer{
		Sink:   sink,
		Logger: logger,
		main:   raster.NewSurface(previewSize, previewSize),
		thumbs: make([]thumbnail, 0, len(defs)),
	}
	for _, d := range defs {
		r.thumbs = append(r.thumbs, thumbnail{kind: d.Kind, surface: raster.NewSurface(thumbSize, thumbSize)})
	}
	return r
}

// RenderOnce draws the centre square of the latest frame into every
// surface, filters each one and hands copies to the sink. A frame already
// rendered is drawn again, so a filter change shows on the next tick.
func (r *Renderer) RenderOnce(stream media.Stream, selected filter.Kind) error {
	if r == nil || stream == nil || !stream.Active() {
		return ErrSkipped
	}
	w, h, ok := stream.Size()
	if !ok {
		return ErrSkipped
	}
	frame := stream.Latest()
	if frame.Empty() {
		return ErrSkipped
	}
	crop := raster.CenterSquare(w, h)
	if crop.Empty() {
		return ErrSkipped
	}
	rect := crop.Rect(frame.Image.Bounds().Min)

	mw, mh := r.main.Size()
	r.main.DrawCropped(frame.Image, rect, mw, mh)
	r.main.ApplyFilter(selected)
	if r.Sink != nil {
		r.Sink.PresentPreview(r.main.Snapshot())
	}

	for _, t := range r.thumbs {
		tw, th := t.surface.Size()
		t.surface.DrawCropped(frame.Image, rect, tw, th)
		t.surface.ApplyFilter(t.kind)
		if r.Sink != nil {
			r.Sink.PresentThumbnail(t.kind, t.surface.Snapshot())
		}
	}
	if r.Logger != nil && frame.Sequence != r.last && frame.Sequence%100 == 0 {
		r.Logger.Debug("preview rendered", "sequence", frame.Sequence, "filter", selected.String())
	}
	r.last = frame.Sequence
	return nil
}
