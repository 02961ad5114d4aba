package presenter

import (
	"image"

	"github.com/soocke/selfie-booth-go/domain/filter"
)

// PreviewSource yields images rendered since the last call.
type PreviewSource interface {
	Take() (*image.RGBA, map[filter.Kind]*image.RGBA)
}

// PreviewView shows the live preview and the thumbnail strip.
type PreviewView interface {
	UpdatePreview(img image.Image)
	UpdateThumbnail(kind filter.Kind, img image.Image)
}

// PreviewPresenter moves rendered images to the view on the Tk thread.
type PreviewPresenter struct {
	src  PreviewSource
	view PreviewView
	live func() bool
}

// NewPreviewPresenter returns a presenter. live reports whether the main
// preview may be painted; a nil live always paints.
func NewPreviewPresenter(src PreviewSource, view PreviewView, live func() bool) *PreviewPresenter {
	return &PreviewPresenter{src: src, view: view, live: live}
}

// ProcessFrame pushes pending images. A main preview rendered just before
// the booth left Ready is dropped so it cannot cover the still.
func (p *PreviewPresenter) ProcessFrame() {
	if p == nil || p.src == nil || p.view == nil {
		return
	}
	preview, thumbs := p.src.Take()
	if preview != nil && (p.live == nil || p.live()) {
		p.view.UpdatePreview(preview)
	}
	for _, d := range filter.All() {
		if img, ok := thumbs[d.Kind]; ok && img != nil {
			p.view.UpdateThumbnail(d.Kind, img)
		}
	}
}
