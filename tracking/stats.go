package tracking

import (
	"image"
	"math"

	"gonum.org/v1/gonum/stat"
)

// TrackStats summarizes how much the track point moved between consecutive
// frames. It is observational only and never feeds back into tracking.
type TrackStats struct {
	Frames       int
	Fallbacks    int     // Frames that used the frame-center fallback
	MeanStep     float64 // Mean distance between consecutive points (pixels)
	StdDevStep   float64
	MaxStep      float64
	MeanPosition image.Point
}

// Track accumulates the track points of one file
type Track struct {
	Points []TrackPoint
}

// Add appends a point to the track
func (t *Track) Add(p TrackPoint) {
	t.Points = append(t.Points, p)
}

// Stats computes the step statistics for the recorded points
func (t *Track) Stats() TrackStats {
	s := TrackStats{Frames: len(t.Points)}
	if len(t.Points) == 0 {
		return s
	}

	xs := make([]float64, len(t.Points))
	ys := make([]float64, len(t.Points))
	for i, p := range t.Points {
		xs[i] = float64(p.X)
		ys[i] = float64(p.Y)
		if p.Fallback {
			s.Fallbacks++
		}
	}
	s.MeanPosition = image.Pt(int(math.Round(stat.Mean(xs, nil))), int(math.Round(stat.Mean(ys, nil))))

	if len(t.Points) < 2 {
		return s
	}

	steps := make([]float64, 0, len(t.Points)-1)
	for i := 1; i < len(t.Points); i++ {
		d := math.Hypot(xs[i]-xs[i-1], ys[i]-ys[i-1])
		steps = append(steps, d)
		if d > s.MaxStep {
			s.MaxStep = d
		}
	}
	s.MeanStep, s.StdDevStep = stat.MeanStdDev(steps, nil)
	if math.IsNaN(s.StdDevStep) {
		s.StdDevStep = 0
	}

	return s
}
