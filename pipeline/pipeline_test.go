package pipeline

import (
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"motioncrop/tracking"
)

const (
	frameWidth   = 320
	frameHeight  = 240
	circleRadius = 20
	circleY      = 120
)

// memorySource replays a fixed list of frames
type memorySource struct {
	frames []gocv.Mat
	next   int
}

func (s *memorySource) Read(dst *gocv.Mat) bool {
	if s.next >= len(s.frames) {
		return false
	}
	s.frames[s.next].CopyTo(dst)
	s.next++
	return true
}

func (s *memorySource) FrameCount() int { return len(s.frames) }
func (s *memorySource) FPS() float64    { return 25 }
func (s *memorySource) Close() error    { return nil }

// memorySink records the size of each written frame
type memorySink struct {
	sizes   []image.Point
	failAt  int
	written int
}

func (s *memorySink) Write(frame gocv.Mat) error {
	s.written++
	if s.failAt > 0 && s.written == s.failAt {
		return errors.New("disk full")
	}
	s.sizes = append(s.sizes, image.Pt(frame.Cols(), frame.Rows()))
	return nil
}

func (s *memorySink) Close() error { return nil }

// fakePreview cancels after a given number of frames
type fakePreview struct {
	cancelAfter int
	shown       int
	stages      map[string]int
}

func (p *fakePreview) ShowStage(name string, img gocv.Mat) {
	if p.stages == nil {
		p.stages = make(map[string]int)
	}
	p.stages[name]++
}

func (p *fakePreview) Show(annotated, crop gocv.Mat) bool {
	p.shown++
	return p.cancelAfter > 0 && p.shown >= p.cancelAfter
}

func blankFrame() gocv.Mat {
	m := gocv.NewMatWithSize(frameHeight, frameWidth, gocv.MatTypeCV8UC3)
	m.SetTo(gocv.NewScalar(40, 40, 40, 0))
	return m
}

func movingCircleFrames(n int) []gocv.Mat {
	frames := make([]gocv.Mat, n)
	for i := range frames {
		frames[i] = blankFrame()
		center := image.Pt(40+20*i, circleY)
		gocv.Circle(&frames[i], center, circleRadius, color.RGBA{R: 255, G: 255, B: 255}, -1)
	}
	return frames
}

func uniformFrames(n int) []gocv.Mat {
	frames := make([]gocv.Mat, n)
	for i := range frames {
		frames[i] = blankFrame()
	}
	return frames
}

func closeAll(frames []gocv.Mat) {
	for _, f := range frames {
		f.Close()
	}
}

func testConfig(window int) Config {
	cfg := DefaultConfig()
	cfg.WindowSize = window
	cfg.NoGUI = true
	return cfg
}

// runFrames processes frames and returns the per-frame geometry
func runFrames(t *testing.T, cfg Config, frames []gocv.Mat, opts ...Option) ([]FrameResult, *Result, *memorySink) {
	t.Helper()

	var results []FrameResult
	opts = append(opts, WithObserver(func(r FrameResult) { results = append(results, r) }))

	sink := &memorySink{}
	res, err := New(cfg, opts...).Run(&memorySource{frames: frames}, sink)
	require.NoError(t, err)
	return results, res, sink
}

func TestMovingCircleIsTracked(t *testing.T) {
	frames := movingCircleFrames(10)
	defer closeAll(frames)

	results, res, sink := runFrames(t, testConfig(100), frames)
	require.Len(t, results, 10)
	assert.Equal(t, 10, res.Frames)
	assert.False(t, res.Cancelled)

	for i, r := range results {
		assert.Equal(t, i+1, r.Index)
		assert.False(t, r.Point.Fallback, "frame %d", i)
		assert.GreaterOrEqual(t, r.Point.Y, circleY-circleRadius, "frame %d", i)
		assert.LessOrEqual(t, r.Point.Y, circleY+circleRadius, "frame %d", i)
		if i > 0 {
			assert.GreaterOrEqual(t, r.Point.X, results[i-1].Point.X, "frame %d", i)
		}
	}

	for _, size := range sink.sizes {
		assert.Equal(t, image.Pt(100, 100), size)
	}
}

func TestUniformFramesUseFrameCenter(t *testing.T) {
	frames := uniformFrames(5)
	defer closeAll(frames)

	cfg := testConfig(80)
	results, res, sink := runFrames(t, cfg, frames)
	require.Len(t, results, 5)

	center := image.Pt(frameWidth/2, frameHeight/2)
	for _, r := range results {
		assert.Equal(t, center, r.Point.Point)
		assert.True(t, r.Point.Fallback)
		assert.Equal(t, -1, r.Dominant)
		assert.Equal(t, tracking.CropRectFor(80, center), r.Rect)
	}
	assert.Equal(t, 5, res.Track.Stats().Fallbacks)
	assert.Len(t, sink.sizes, 5)
}

func TestGeometryIsRepeatable(t *testing.T) {
	frames := movingCircleFrames(6)
	defer closeAll(frames)

	cfg := testConfig(120)
	first, _, _ := runFrames(t, cfg, frames)
	second, _, _ := runFrames(t, cfg, frames)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("geometry differs between runs (-first +second):\n%s", diff)
	}
}

func TestPreviewDoesNotChangeGeometry(t *testing.T) {
	frames := movingCircleFrames(4)
	defer closeAll(frames)

	cfg := testConfig(100)
	headless, _, _ := runFrames(t, cfg, frames)

	cfg.Verbose = true
	cfg.NoGUI = false
	preview := &fakePreview{}
	withPreview, _, _ := runFrames(t, cfg, frames, WithPreview(preview))

	if diff := cmp.Diff(headless, withPreview); diff != "" {
		t.Errorf("preview changed geometry (-headless +preview):\n%s", diff)
	}
	assert.Equal(t, 4, preview.shown)
	assert.Equal(t, 4, preview.stages["Dilation"])
}

func TestPreviewCancelStopsFile(t *testing.T) {
	frames := uniformFrames(6)
	defer closeAll(frames)

	preview := &fakePreview{cancelAfter: 3}
	results, res, sink := runFrames(t, testConfig(60), frames, WithPreview(preview))

	assert.True(t, res.Cancelled)
	assert.Equal(t, 3, res.Frames)
	assert.Len(t, results, 3)
	assert.Len(t, sink.sizes, 3)
	assert.Empty(t, preview.stages, "stage windows are only shown when verbose")
}

func TestWindowSizeLimits(t *testing.T) {
	frames := movingCircleFrames(2)
	defer closeAll(frames)

	for _, w := range []int{50, 1000, 5000} {
		results, _, sink := runFrames(t, testConfig(w), frames)
		require.Len(t, sink.sizes, 2)
		for i, size := range sink.sizes {
			assert.Equal(t, image.Pt(w, w), size)
			padded := tracking.PaddedBounds(image.Pt(frameWidth, frameHeight), w)
			assert.True(t, results[i].Rect.In(padded))
		}
	}
}

func TestWriteFailureIsReported(t *testing.T) {
	frames := uniformFrames(3)
	defer closeAll(frames)

	sink := &memorySink{failAt: 2}
	res, err := New(testConfig(50)).Run(&memorySource{frames: frames}, sink)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write frame 2")
	assert.Equal(t, 2, res.Frames)
}

func TestProcessMissingInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.mov")

	_, err := New(testConfig(50)).ProcessFile(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInputOpen)
	assert.Contains(t, err.Error(), path)

	assert.False(t, Process(path, testConfig(50)))
}
