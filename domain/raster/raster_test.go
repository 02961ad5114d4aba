package raster

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soocke/selfie-booth-go/domain/filter"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestCenterSquare_Landscape(t *testing.T) {
	c := CenterSquare(1280, 720)
	assert.Equal(t, Crop{Size: 720, SX: 280, SY: 0}, c)
	assert.Equal(t, image.Rect(280, 0, 1000, 720), c.Rect(image.Point{}))
}

func TestCenterSquare_Portrait(t *testing.T) {
	c := CenterSquare(600, 800)
	assert.Equal(t, Crop{Size: 600, SX: 0, SY: 100}, c)
}

func TestCenterSquare_Degenerate(t *testing.T) {
	assert.True(t, CenterSquare(0, 720).Empty())
	assert.True(t, CenterSquare(640, -1).Empty())
}

func TestCaptureEdge_ClampsToMax(t *testing.T) {
	assert.Equal(t, 1200, CaptureEdge(2000, 1200))
	assert.Equal(t, 1200, CaptureEdge(2000, 0))
	assert.Equal(t, 600, CaptureEdge(600, 1200))
}

func TestSurface_ResizeReusesBuffer(t *testing.T) {
	s := NewSurface(64, 64)
	first := &s.Image().Pix[0]
	s.Resize(32, 32)
	w, h := s.Size()
	assert.Equal(t, 32, w)
	assert.Equal(t, 32, h)
	assert.Len(t, s.Image().Pix, 32*32*4)
	assert.Same(t, first, &s.Image().Pix[0])
	s.Resize(128, 128)
	assert.Len(t, s.Image().Pix, 128*128*4)
}

func TestSurface_DrawCroppedOverwrites(t *testing.T) {
	s := NewSurface(4, 4)
	src := solid(8, 4, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	s.DrawCropped(src, CenterSquare(8, 4).Rect(image.Point{}), 2, 2)
	w, h := s.Size()
	require.Equal(t, 2, w)
	require.Equal(t, 2, h)
	assert.Equal(t, color.RGBA{R: 10, G: 20, B: 30, A: 255}, s.Image().RGBAAt(1, 1))

	s.ApplyFilter(filter.Invert)
	assert.Equal(t, color.RGBA{R: 245, G: 235, B: 225, A: 255}, s.Image().RGBAAt(0, 0))
}

func TestSurface_SnapshotIsIndependent(t *testing.T) {
	s := NewSurface(2, 2)
	s.DrawCropped(solid(2, 2, color.RGBA{R: 1, A: 255}), image.Rect(0, 0, 2, 2), 2, 2)
	snap := s.Snapshot()
	s.ApplyFilter(filter.Invert)
	assert.Equal(t, uint8(1), snap.Pix[0])
	assert.Equal(t, uint8(254), s.Image().Pix[0])
}

func TestBake_CropsAndClampsEdge(t *testing.T) {
	frame := solid(2000, 2000, color.RGBA{R: 200, G: 200, B: 200, A: 255})
	still, err := Bake(nil, frame, filter.None, BakeOptions{MaxEdge: 1200, Quality: 80})
	require.NoError(t, err)
	w, h := still.Bounds()
	assert.Equal(t, 1200, w)
	assert.Equal(t, 1200, h)
	assert.Equal(t, MIMEJPEG, still.MIME())
}

func TestBake_InvertOn800x600(t *testing.T) {
	frame := solid(800, 600, color.RGBA{R: 0, G: 0, B: 0, A: 255})
	still, err := Bake(NewSurface(1, 1), frame, filter.Invert, BakeOptions{MaxEdge: 1200, Quality: 90})
	require.NoError(t, err)
	w, h := still.Bounds()
	assert.Equal(t, 600, w)
	assert.Equal(t, 600, h)

	img, err := still.Decode()
	require.NoError(t, err)
	px := img.RGBAAt(300, 300)
	// JPEG is lossy; black inverted must land near white.
	assert.GreaterOrEqual(t, px.R, uint8(245))
	assert.GreaterOrEqual(t, px.G, uint8(245))
	assert.GreaterOrEqual(t, px.B, uint8(245))
}

func TestStill_DataURI(t *testing.T) {
	still, err := EncodeJPEG(solid(8, 8, color.RGBA{A: 255}), 80)
	require.NoError(t, err)
	uri := still.DataURI()
	assert.True(t, strings.HasPrefix(uri, "data:image/jpeg;base64,"))
	assert.Equal(t, still.Base64(), strings.TrimPrefix(uri, "data:image/jpeg;base64,"))
	assert.Equal(t, "", Still{}.DataURI())
	assert.True(t, Still{}.Empty())

	b := still.Bytes()
	b[0] = 0
	assert.NotEqual(t, byte(0), still.Bytes()[0], "Bytes must return a copy")
}

func TestBake_RejectsEmptyFrame(t *testing.T) {
	_, err := Bake(nil, image.NewRGBA(image.Rect(0, 0, 0, 0)), filter.None, BakeOptions{})
	assert.Error(t, err)
	_, err = Bake(nil, nil, filter.None, BakeOptions{})
	assert.Error(t, err)
}
