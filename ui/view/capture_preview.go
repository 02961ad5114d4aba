package view

import (
	"image"

	"github.com/soocke/selfie-booth-go/domain/filter"
	"github.com/soocke/selfie-booth-go/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// CapturePreview shows the live preview (or the captured still) and one
// clickable thumbnail per filter.
type CapturePreview interface {
	UpdatePreview(img image.Image)
	UpdateThumbnail(kind filter.Kind, img image.Image)
	ShowStill(img image.Image)
	ShowLive()
	SetSelected(kind filter.Kind)
	SetThumbnailsEnabled(enabled bool)
}

type thumbCell struct {
	kind  filter.Kind
	label *LabelWidget
	photo *Img
}

type capturePreview struct {
	mainLabel *LabelWidget
	mainPhoto *Img
	size      int
	thumbSize int
	showing   bool // a still covers the live preview
	enabled   bool
	thumbs    []*thumbCell
	onSelect  func(filter.Kind)
}

// Old photos are deleted before being replaced so off-screen pixel data
// does not accumulate in the Tk interpreter.

// NewCapturePreview grids the main preview at row (columns 0-3) and the
// thumbnail strip on the row below. onSelect fires when a thumbnail is clicked.
func NewCapturePreview(row, size, thumbSize int, onSelect func(filter.Kind)) CapturePreview {
	v := &capturePreview{size: size, thumbSize: thumbSize, enabled: true, onSelect: onSelect}
	v.mainPhoto = NewPhoto(Data(images.Placeholder(size, size)))
	v.mainLabel = Label(Image(v.mainPhoto), Borderwidth(1), Relief("sunken"))
	Grid(v.mainLabel, Row(row), Column(0), Columnspan(4), Padx("0.4m"), Pady("0.4m"))

	strip := Frame()
	Grid(strip, Row(row+1), Column(0), Columnspan(4), Sticky("we"), Padx("0.4m"), Pady("0.4m"))
	placeholder := images.Placeholder(thumbSize, thumbSize)
	for i, d := range filter.All() {
		cell := &thumbCell{kind: d.Kind, photo: NewPhoto(Data(placeholder))}
		cell.label = Label(Image(cell.photo), Borderwidth(2), Relief("flat"))
		Grid(cell.label, In(strip), Row(0), Column(i), Padx("0.6m"), Pady("0.2m"))
		name := Label(Txt(d.DisplayName), Anchor("center"))
		Grid(name, In(strip), Row(1), Column(i), Padx("0.6m"))
		kind := d.Kind
		click := Command(func() {
			if v.enabled && v.onSelect != nil {
				v.onSelect(kind)
			}
		})
		Bind(cell.label, "<Button-1>", click)
		Bind(name, "<Button-1>", click)
		v.thumbs = append(v.thumbs, cell)
	}
	return v
}

func (v *capturePreview) setMain(img image.Image) {
	pngBytes := images.EncodePNG(images.ScaleToFit(img, v.size, v.size))
	if v.mainPhoto != nil {
		v.mainPhoto.Delete()
	}
	v.mainPhoto = NewPhoto(Data(pngBytes))
	v.mainLabel.Configure(Image(v.mainPhoto))
}

func (v *capturePreview) UpdatePreview(img image.Image) {
	if v.mainLabel == nil || img == nil || v.showing {
		return
	}
	v.setMain(img)
}

func (v *capturePreview) UpdateThumbnail(kind filter.Kind, img image.Image) {
	if img == nil {
		return
	}
	for _, c := range v.thumbs {
		if c.kind != kind {
			continue
		}
		pngBytes := images.EncodePNG(images.ScaleToFit(img, v.thumbSize, v.thumbSize))
		if c.photo != nil {
			c.photo.Delete()
		}
		c.photo = NewPhoto(Data(pngBytes))
		c.label.Configure(Image(c.photo))
		return
	}
}

func (v *capturePreview) ShowStill(img image.Image) {
	if v.mainLabel == nil || img == nil {
		return
	}
	v.showing = true
	v.setMain(img)
}

// ShowLive lets the next preview frame replace the still.
func (v *capturePreview) ShowLive() { v.showing = false }

func (v *capturePreview) SetSelected(kind filter.Kind) {
	for _, c := range v.thumbs {
		if c.kind == kind {
			c.label.Configure(Relief("solid"))
		} else {
			c.label.Configure(Relief("flat"))
		}
	}
}

func (v *capturePreview) SetThumbnailsEnabled(enabled bool) { v.enabled = enabled }
