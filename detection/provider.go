package detection

import (
	"gocv.io/x/gocv"

	"github.com/sirupsen/logrus"

	"motioncrop/tracking"
)

// Stage names reported to a StageObserver, in pipeline order
const (
	StageValue    = "FrameGray"
	StageOtsu     = "Otsu"
	StageEdges    = "Edges"
	StageDilation = "Dilation"
)

// debugMsg logs a component-tagged debug message
func debugMsg(component, message string) {
	logrus.WithField("component", component).Debug(message)
}

// StageObserver receives the intermediate images of a segmentation pass.
// Implementations must not modify the images.
type StageObserver interface {
	ShowStage(name string, img gocv.Mat)
}

// SegmentInfo describes the thresholds chosen for one frame
type SegmentInfo struct {
	Otsu float64 // Adaptive threshold on the value channel
	High float64 // Canny high threshold
	Low  float64 // Canny low threshold
}

// FrameSegmenter turns a color frame into a binary foreground mask
type FrameSegmenter interface {
	Segment(frame gocv.Mat) (gocv.Mat, SegmentInfo)
	Close() error
}

// Selection is the outcome of region selection for one mask
type Selection struct {
	Regions  []tracking.Region
	Dominant int // Index into Regions, or -1 when there is no usable region
}

// HasDominant reports whether a dominant region was selected
func (s Selection) HasDominant() bool {
	return s.Dominant >= 0
}

// DominantRegion returns the selected region, if any
func (s Selection) DominantRegion() (tracking.Region, bool) {
	if !s.HasDominant() {
		return tracking.Region{}, false
	}
	return s.Regions[s.Dominant], true
}
