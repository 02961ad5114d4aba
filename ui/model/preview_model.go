package model

import (
	"image"
	"sync"

	"github.com/soocke/selfie-booth-go/domain/filter"
)

// PreviewModel hands rendered previews from the preview goroutine to the Tk
// thread. Only the newest image per slot is kept; Take clears the slots so
// an unchanged frame is not re-encoded. The zero value is usable.
type PreviewModel struct {
	mu      sync.Mutex
	preview *image.RGBA
	thumbs  map[filter.Kind]*image.RGBA
}

// NewPreviewModel returns an empty model.
func NewPreviewModel() *PreviewModel { return &PreviewModel{} }

// PresentPreview stores the main preview image.
func (m *PreviewModel) PresentPreview(img *image.RGBA) {
	if m == nil || img == nil {
		return
	}
	m.mu.Lock()
	m.preview = img
	m.mu.Unlock()
}

// PresentThumbnail stores the thumbnail for kind.
func (m *PreviewModel) PresentThumbnail(kind filter.Kind, img *image.RGBA) {
	if m == nil || img == nil {
		return
	}
	m.mu.Lock()
	if m.thumbs == nil {
		m.thumbs = make(map[filter.Kind]*image.RGBA)
	}
	m.thumbs[kind] = img
	m.mu.Unlock()
}

// Take returns images stored since the previous Take. Either may be empty.
func (m *PreviewModel) Take() (preview *image.RGBA, thumbs map[filter.Kind]*image.RGBA) {
	if m == nil {
		return nil, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	preview, thumbs = m.preview, m.thumbs
	m.preview, m.thumbs = nil, nil
	return preview, thumbs
}

// Clear drops pending images, e.g. when the preview stops.
func (m *PreviewModel) Clear() {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.preview, m.thumbs = nil, nil
	m.mu.Unlock()
}
