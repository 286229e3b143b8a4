package tracking

import (
	"image"
)

// PolygonMoments computes the spatial moments of the area enclosed by a closed
// boundary using Green's theorem over its edges. The result is normalized so
// M00 is never negative regardless of the boundary orientation.
func PolygonMoments(boundary []image.Point) Moments {
	n := len(boundary)
	if n == 0 {
		return Moments{}
	}

	var a00, a10, a01 float64
	prev := boundary[n-1]
	for _, p := range boundary {
		xp, yp := float64(prev.X), float64(prev.Y)
		xc, yc := float64(p.X), float64(p.Y)

		dxy := xp*yc - xc*yp
		a00 += dxy
		a10 += dxy * (xp + xc)
		a01 += dxy * (yp + yc)

		prev = p
	}

	m := Moments{
		M00: a00 / 2,
		M10: a10 / 6,
		M01: a01 / 6,
	}
	if m.M00 < 0 {
		m.M00, m.M10, m.M01 = -m.M00, -m.M10, -m.M01
	}
	return m
}

// DominantIndex returns the index of the region with the strictly greatest
// area, or -1 when no region has a positive area. Ties keep the region seen
// first.
func DominantIndex(regions []Region) int {
	best := -1
	bestArea := 0.0
	for i, r := range regions {
		if r.Area > bestArea {
			bestArea = r.Area
			best = i
		}
	}
	return best
}

// Centroid derives the track point for a frame. A dominant index of -1 or a
// dominant region with exactly zero area yields the frame center.
func Centroid(regions []Region, dominant int, frameSize image.Point) TrackPoint {
	center := TrackPoint{Point: FrameCenter(frameSize), Fallback: true}

	if dominant < 0 || dominant >= len(regions) {
		return center
	}

	m := regions[dominant].Moments
	if m.M00 == 0 {
		return center
	}

	return TrackPoint{
		Point: image.Pt(int(m.M10/m.M00), int(m.M01/m.M00)),
	}
}
