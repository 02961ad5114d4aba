package raster

import "image"

// DefaultMaxEdge caps the edge length of a captured still.
const DefaultMaxEdge = 1200

// Crop is a centred square region of a frame.
type Crop struct {
	Size int
	SX   int
	SY   int
}

// CenterSquare returns the largest square centred in a w x h frame.
func CenterSquare(w, h int) Crop {
	if w <= 0 || h <= 0 {
		return Crop{}
	}
	size := min(w, h)
	return Crop{Size: size, SX: (w - size) / 2, SY: (h - size) / 2}
}

// Rect returns the crop as a rectangle relative to a frame whose origin is
// at origin.
func (c Crop) Rect(origin image.Point) image.Rectangle {
	r := image.Rect(c.SX, c.SY, c.SX+c.Size, c.SY+c.Size)
	return r.Add(origin)
}

// Empty reports whether the crop has no area.
func (c Crop) Empty() bool { return c.Size <= 0 }

// CaptureEdge returns the output edge for a capture of crop size, limited to
// maxEdge. A non-positive maxEdge means DefaultMaxEdge.
func CaptureEdge(size, maxEdge int) int {
	if maxEdge <= 0 {
		maxEdge = DefaultMaxEdge
	}
	return min(size, maxEdge)
}
