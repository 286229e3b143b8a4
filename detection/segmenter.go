package detection

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

const (
	// Canny low threshold as a fraction of the high threshold
	cannyLowRatio = 0.5
	// Edge length of the square dilation kernel
	dilationKernelSize = 5
)

var _ FrameSegmenter = (*EdgeSegmenter)(nil)

// EdgeSegmenter segments a frame by running Canny on its HSV value channel,
// with thresholds derived from Otsu's method, then dilating the edges until
// broken contours close into solid regions.
type EdgeSegmenter struct {
	thresholdScalar float64
	iterations      int
	observer        StageObserver

	kernel  gocv.Mat
	hsv     gocv.Mat
	value   gocv.Mat
	binary  gocv.Mat
	edges   gocv.Mat
	dilated gocv.Mat
}

// NewEdgeSegmenter creates a segmenter. The observer may be nil.
func NewEdgeSegmenter(thresholdScalar float64, iterations int, observer StageObserver) *EdgeSegmenter {
	return &EdgeSegmenter{
		thresholdScalar: thresholdScalar,
		iterations:      iterations,
		observer:        observer,
		kernel:          gocv.GetStructuringElement(gocv.MorphRect, image.Pt(dilationKernelSize, dilationKernelSize)),
		hsv:             gocv.NewMat(),
		value:           gocv.NewMat(),
		binary:          gocv.NewMat(),
		edges:           gocv.NewMat(),
		dilated:         gocv.NewMat(),
	}
}

// Segment returns the dilated edge mask for frame. The mask is owned by the
// segmenter and is overwritten by the next call.
func (s *EdgeSegmenter) Segment(frame gocv.Mat) (gocv.Mat, SegmentInfo) {
	s.extractValue(frame)
	s.show(StageValue, s.value)

	otsu := float64(gocv.Threshold(s.value, &s.binary, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu))
	s.show(StageOtsu, s.binary)

	info := SegmentInfo{Otsu: otsu}
	info.High = otsu * s.thresholdScalar
	info.Low = info.High * cannyLowRatio

	gocv.Canny(s.value, &s.edges, float32(info.Low), float32(info.High))
	s.show(StageEdges, s.edges)

	s.edges.CopyTo(&s.dilated)
	for i := 0; i < s.iterations; i++ {
		gocv.Dilate(s.dilated, &s.dilated, s.kernel)
	}
	s.show(StageDilation, s.dilated)

	debugMsg("SEGMENT", fmt.Sprintf("otsu=%.1f canny=%.1f/%.1f iterations=%d", info.Otsu, info.Low, info.High, s.iterations))

	return s.dilated, info
}

// extractValue fills s.value with the brightness channel of frame
func (s *EdgeSegmenter) extractValue(frame gocv.Mat) {
	if frame.Channels() == 1 {
		frame.CopyTo(&s.value)
		return
	}

	gocv.CvtColor(frame, &s.hsv, gocv.ColorBGRToHSV)
	channels := gocv.Split(s.hsv)
	channels[2].CopyTo(&s.value)
	for _, ch := range channels {
		ch.Close()
	}
}

func (s *EdgeSegmenter) show(stage string, img gocv.Mat) {
	if s.observer != nil {
		s.observer.ShowStage(stage, img)
	}
}

// Close releases the segmenter's buffers
func (s *EdgeSegmenter) Close() error {
	s.kernel.Close()
	s.hsv.Close()
	s.value.Close()
	s.binary.Close()
	s.edges.Close()
	s.dilated.Close()
	return nil
}
