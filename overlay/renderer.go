package overlay

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"motioncrop/tracking"
)

// Renderer draws region and track point diagnostics onto a display copy of
// a frame. It never touches the frames used for cropping.
type Renderer struct {
	verbose        bool
	candidateColor color.RGBA
	dominantColor  color.RGBA
	pointColor     color.RGBA
	textColor      color.RGBA
	pointRadius    int
}

// Diagnostics is the per-frame data the renderer visualizes
type Diagnostics struct {
	FrameIndex int
	Regions    []tracking.Region
	Dominant   int
	Point      tracking.TrackPoint
	Otsu       float64
}

// NewRenderer creates a renderer. Candidate boundaries are only drawn when
// verbose is set.
func NewRenderer(verbose bool) *Renderer {
	return &Renderer{
		verbose:        verbose,
		candidateColor: color.RGBA{0, 128, 0, 255}, // Dim green for every boundary
		dominantColor:  color.RGBA{0, 255, 0, 255}, // Bright green for the selected region
		pointColor:     color.RGBA{255, 0, 0, 255}, // Red track point
		textColor:      color.RGBA{255, 255, 0, 255},
		pointRadius:    9,
	}
}

// Draw renders the diagnostics onto img
func (r *Renderer) Draw(img *gocv.Mat, d Diagnostics) {
	if len(d.Regions) > 0 {
		boundaries := make([][]image.Point, len(d.Regions))
		for i, region := range d.Regions {
			boundaries[i] = region.Boundary
		}
		contours := gocv.NewPointsVectorFromPoints(boundaries)
		defer contours.Close()

		if r.verbose {
			gocv.DrawContours(img, contours, -1, r.candidateColor, 1)
		}
		if d.Dominant >= 0 && d.Dominant < len(d.Regions) {
			gocv.DrawContours(img, contours, d.Dominant, r.dominantColor, 2)
			gocv.Circle(img, d.Point.Point, r.pointRadius, r.pointColor, 3)
		}
	}

	if r.verbose {
		r.drawStatus(img, d)
	}
}

// drawStatus prints a one-line summary in the upper-left corner
func (r *Renderer) drawStatus(img *gocv.Mat, d Diagnostics) {
	mode := "TRACK"
	if d.Point.Fallback {
		mode = "CENTER"
	}
	status := fmt.Sprintf("#%d %s (%d,%d) regions=%d otsu=%.0f",
		d.FrameIndex, mode, d.Point.X, d.Point.Y, len(d.Regions), d.Otsu)
	gocv.PutText(img, status, image.Pt(10, 20), gocv.FontHersheySimplex, 0.5, r.textColor, 1)
}
