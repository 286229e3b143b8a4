package detection

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"motioncrop/tracking"
)

func skyFrame(w, h int) gocv.Mat {
	m := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)
	m.SetTo(gocv.NewScalar(200, 160, 120, 0))
	return m
}

type recordingObserver struct {
	stages []string
}

func (r *recordingObserver) ShowStage(name string, img gocv.Mat) {
	r.stages = append(r.stages, name)
}

func TestSegmentUniformFrameHasNoForeground(t *testing.T) {
	frame := skyFrame(160, 120)
	defer frame.Close()

	seg := NewEdgeSegmenter(1.0, 2, nil)
	defer seg.Close()

	mask, _ := seg.Segment(frame)
	require.Equal(t, 120, mask.Rows())
	require.Equal(t, 160, mask.Cols())
	assert.Equal(t, 1, mask.Channels())
	assert.Zero(t, gocv.CountNonZero(mask))

	sel := SelectRegions(mask)
	assert.Empty(t, sel.Regions)
	assert.False(t, sel.HasDominant())
	_, ok := sel.DominantRegion()
	assert.False(t, ok)
}

func TestSegmentFindsFilledCircle(t *testing.T) {
	frame := skyFrame(320, 240)
	defer frame.Close()
	gocv.Circle(&frame, image.Pt(100, 140), 20, color.RGBA{R: 20, G: 20, B: 20}, -1)

	obs := &recordingObserver{}
	seg := NewEdgeSegmenter(1.0, 2, obs)
	defer seg.Close()

	mask, info := seg.Segment(frame)
	assert.Greater(t, info.Otsu, 0.0)
	assert.InDelta(t, info.High*0.5, info.Low, 1e-9)
	assert.Equal(t, []string{StageValue, StageOtsu, StageEdges, StageDilation}, obs.stages)
	assert.Positive(t, gocv.CountNonZero(mask))

	sel := SelectRegions(mask)
	require.True(t, sel.HasDominant())

	region, ok := sel.DominantRegion()
	require.True(t, ok)
	for _, r := range sel.Regions {
		assert.LessOrEqual(t, r.Area, region.Area)
	}

	p := tracking.Centroid(sel.Regions, sel.Dominant, image.Pt(320, 240))
	assert.False(t, p.Fallback)
	assert.InDelta(t, 100, p.X, 2)
	assert.InDelta(t, 140, p.Y, 2)
}

func TestSelectRegionsKeepsScanOrderForEqualAreas(t *testing.T) {
	mask := gocv.NewMatWithSize(100, 200, gocv.MatTypeCV8U)
	defer mask.Close()
	mask.SetTo(gocv.NewScalar(0, 0, 0, 0))

	white := color.RGBA{R: 255, G: 255, B: 255}
	gocv.Rectangle(&mask, image.Rect(20, 30, 40, 50), white, -1)
	gocv.Rectangle(&mask, image.Rect(120, 30, 140, 50), white, -1)

	sel := SelectRegions(mask)
	require.Len(t, sel.Regions, 2)
	require.Equal(t, sel.Regions[0].Area, sel.Regions[1].Area)
	assert.Equal(t, 0, sel.Dominant)
}

func TestSelectRegionsAreaMatchesContourArea(t *testing.T) {
	mask := gocv.NewMatWithSize(120, 160, gocv.MatTypeCV8U)
	defer mask.Close()
	mask.SetTo(gocv.NewScalar(0, 0, 0, 0))
	gocv.Rectangle(&mask, image.Rect(30, 20, 90, 70), color.RGBA{R: 255, G: 255, B: 255}, -1)

	sel := SelectRegions(mask)
	require.True(t, sel.HasDominant())

	contours := gocv.FindContours(mask, gocv.RetrievalTree, gocv.ChainApproxSimple)
	defer contours.Close()
	require.Equal(t, len(sel.Regions), contours.Size())

	for i, r := range sel.Regions {
		assert.InDelta(t, gocv.ContourArea(contours.At(i)), r.Area, 1e-9, "region %d", i)
		assert.InDelta(t, r.Area, abs(r.Moments.M00), 1e-9, "region %d", i)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
