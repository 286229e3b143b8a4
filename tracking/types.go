package tracking

import (
	"image"
)

// Moments holds the zeroth and first order moments of a region boundary
type Moments struct {
	M00 float64
	M10 float64
	M01 float64
}

// Region represents a connected foreground component found in a mask
type Region struct {
	Boundary []image.Point // Closed boundary, in scan order
	Area     float64       // Enclosed area (always >= 0)
	Moments  Moments       // First order moments of the enclosed area
}

// TrackPoint represents the point the crop window is centered on
type TrackPoint struct {
	image.Point
	Fallback bool // True when the frame center was used instead of a region centroid
}

// FrameCenter returns the geometric center of a frame of the given size
func FrameCenter(size image.Point) image.Point {
	return image.Pt(size.X/2, size.Y/2)
}

// NewRegion builds a Region from a boundary. Area is the magnitude of the
// boundary's zeroth moment, the same value contour area measures.
func NewRegion(boundary []image.Point) Region {
	m := PolygonMoments(boundary)
	area := m.M00
	if area < 0 {
		area = -area
	}
	return Region{
		Boundary: boundary,
		Area:     area,
		Moments:  m,
	}
}
