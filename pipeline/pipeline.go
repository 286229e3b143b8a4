package pipeline

import (
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"motioncrop/detection"
	"motioncrop/overlay"
	"motioncrop/report"
	"motioncrop/tracking"
)

// OutputSuffix is appended to the input base name to form the output name
const OutputSuffix = "_mcrop"

// debugMsg logs a component-tagged debug message
func debugMsg(component, message string) {
	logrus.WithField("component", component).Debug(message)
}

// Preview is an optional interactive display. The pipeline produces the same
// output whether or not one is attached.
type Preview interface {
	detection.StageObserver
	// Show displays the annotated frame and its crop. It returns true when
	// the user asked to cancel the current file.
	Show(annotated, crop gocv.Mat) bool
}

// FrameResult describes the geometry computed for one frame
type FrameResult struct {
	Index    int // 1-based frame number
	Point    tracking.TrackPoint
	Rect     image.Rectangle // Crop rectangle inside the padded buffer
	Regions  int
	Dominant int
	Segment  detection.SegmentInfo
}

// Observer is called once per frame after the crop has been written
type Observer func(FrameResult)

// FrameCounter estimates the number of frames in a file when the decoder
// cannot report it
type FrameCounter func(path string) (int, error)

// Result summarizes the processing of one file
type Result struct {
	Input     string
	Output    string
	Frames    int
	Total     int // Expected frame count, 0 when unknown
	Cancelled bool
	Track     tracking.Track
	Stats     *Stats
}

// Pipeline crops each frame of a video around its dominant foreground region
type Pipeline struct {
	cfg          Config
	preview      Preview
	progress     io.Writer
	observer     Observer
	frameCounter FrameCounter
	renderer     *overlay.Renderer
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithPreview attaches an interactive preview
func WithPreview(p Preview) Option {
	return func(pl *Pipeline) { pl.preview = p }
}

// WithProgress sets where the progress line is written
func WithProgress(w io.Writer) Option {
	return func(pl *Pipeline) { pl.progress = w }
}

// WithObserver registers a per-frame observer
func WithObserver(fn Observer) Option {
	return func(pl *Pipeline) { pl.observer = fn }
}

// WithFrameCounter sets the fallback used when the decoder reports no frame count
func WithFrameCounter(fn FrameCounter) Option {
	return func(pl *Pipeline) { pl.frameCounter = fn }
}

// New creates a pipeline for cfg
func New(cfg Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:      cfg,
		renderer: overlay.NewRenderer(cfg.Verbose),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// OutputPath derives the output file name for input
func OutputPath(input, format string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + OutputSuffix + "." + format
}

// Process crops one file and reports whether it succeeded. Errors are logged
// with the file path and never escape.
func Process(path string, cfg Config, opts ...Option) bool {
	if _, err := New(cfg, opts...).ProcessFile(path); err != nil {
		logrus.WithFields(logrus.Fields{
			"component": "PIPELINE",
			"file":      path,
		}).Error(err)
		return false
	}
	return true
}

// ProcessFile decodes path, crops every frame and encodes the result next to
// the input. The decoder and encoder are released before it returns.
func (p *Pipeline) ProcessFile(path string) (*Result, error) {
	src, err := OpenSource(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	total := src.FrameCount()
	if total <= 0 && p.frameCounter != nil {
		if n, err := p.frameCounter(path); err == nil {
			total = n
		} else {
			debugMsg("PIPELINE", fmt.Sprintf("frame count unavailable for %s: %v", path, err))
		}
	}
	p.printf("Processing: %s (%d frames)\n", path, total)

	output := OutputPath(path, p.cfg.Format)
	sink, err := OpenSink(output, p.cfg.Codec, src.FPS(), p.cfg.WindowSize)
	if err != nil {
		return nil, err
	}
	defer sink.Close()

	res, err := p.run(src, sink, total)
	res.Input = path
	res.Output = output
	if err != nil {
		return res, fmt.Errorf("%s: %w", path, err)
	}

	NewProgress(p.progress, total).Done(res.Frames, output)
	p.logSummary(res)

	if p.cfg.PlotTrack {
		plotPath := strings.TrimSuffix(output, filepath.Ext(output)) + "_track.png"
		if err := report.SaveTrackPlot(plotPath, filepath.Base(path), res.Track); err != nil {
			logrus.WithFields(logrus.Fields{"component": "REPORT", "file": plotPath}).Warn(err)
		}
	}

	return res, nil
}

// Run processes frames from src into sink until the stream ends or the
// preview cancels
func (p *Pipeline) Run(src FrameSource, sink FrameSink) (*Result, error) {
	return p.run(src, sink, src.FrameCount())
}

func (p *Pipeline) run(src FrameSource, sink FrameSink, total int) (*Result, error) {
	res := &Result{Total: total, Stats: newStats()}
	defer res.Stats.finish()

	var stages detection.StageObserver
	if p.cfg.Verbose && p.preview != nil {
		stages = p.preview
	}

	var segmenter detection.FrameSegmenter = detection.NewEdgeSegmenter(p.cfg.ThresholdScalar, p.cfg.Iterations, stages)
	defer segmenter.Close()

	extractor := tracking.NewCropExtractor(p.cfg.WindowSize)
	defer extractor.Close()

	frame := gocv.NewMat()
	defer frame.Close()

	display := gocv.NewMat()
	defer display.Close()

	progress := NewProgress(p.progress, total)

	for {
		start := time.Now()
		if !src.Read(&frame) {
			break
		}
		res.Stats.readTotal += time.Since(start)

		res.Frames++
		progress.Update(res.Frames)

		// Pad before anything draws on the frame
		start = time.Now()
		extractor.Pad(frame)
		padTime := time.Since(start)

		start = time.Now()
		mask, info := segmenter.Segment(frame)
		res.Stats.segmentTotal += time.Since(start)

		start = time.Now()
		sel := detection.SelectRegions(mask)
		point := tracking.Centroid(sel.Regions, sel.Dominant, image.Pt(frame.Cols(), frame.Rows()))
		res.Stats.selectTotal += time.Since(start)

		start = time.Now()
		crop, rect := extractor.Extract(point.Point)
		res.Stats.cropTotal += padTime + time.Since(start)

		start = time.Now()
		if err := sink.Write(crop); err != nil {
			return res, fmt.Errorf("write frame %d: %w", res.Frames, err)
		}
		res.Stats.writeTotal += time.Since(start)
		res.Stats.Frames++

		res.Track.Add(point)
		if p.observer != nil {
			p.observer(FrameResult{
				Index:    res.Frames,
				Point:    point,
				Rect:     rect,
				Regions:  len(sel.Regions),
				Dominant: sel.Dominant,
				Segment:  info,
			})
		}

		if p.preview != nil {
			frame.CopyTo(&display)
			p.renderer.Draw(&display, overlay.Diagnostics{
				FrameIndex: res.Frames,
				Regions:    sel.Regions,
				Dominant:   sel.Dominant,
				Point:      point,
				Otsu:       info.Otsu,
			})
			if p.preview.Show(display, crop) {
				debugMsg("PIPELINE", fmt.Sprintf("cancelled at frame %d", res.Frames))
				res.Cancelled = true
				break
			}
		}
	}

	return res, nil
}

func (p *Pipeline) logSummary(res *Result) {
	ts := res.Track.Stats()
	avg := res.Stats.Averages()
	logrus.WithFields(logrus.Fields{
		"component": "PIPELINE",
		"file":      res.Input,
		"frames":    res.Frames,
		"cancelled": res.Cancelled,
		"fallbacks": ts.Fallbacks,
		"mean_step": fmt.Sprintf("%.2f", ts.MeanStep),
		"std_step":  fmt.Sprintf("%.2f", ts.StdDevStep),
		"max_step":  fmt.Sprintf("%.2f", ts.MaxStep),
		"fps":       fmt.Sprintf("%.1f", res.Stats.FPS()),
	}).Info("File processed")

	debugMsg("TIMING", fmt.Sprintf("read=%v segment=%v select=%v crop=%v write=%v",
		avg.Read, avg.Segment, avg.Select, avg.Crop, avg.Write))
}

func (p *Pipeline) printf(format string, args ...interface{}) {
	if p.progress != nil {
		fmt.Fprintf(p.progress, format, args...)
	}
}
