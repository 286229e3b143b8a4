package pipeline

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

// Resource acquisition errors, fatal for the file they occur on
var (
	ErrInputOpen  = errors.New("cannot open video file")
	ErrOutputOpen = errors.New("cannot open output file")
)

// FrameSource delivers decoded frames in arrival order
type FrameSource interface {
	// Read decodes the next frame into dst, returning false at end of stream
	Read(dst *gocv.Mat) bool
	// FrameCount is the expected number of frames, or 0 when unknown
	FrameCount() int
	FPS() float64
	Close() error
}

// FrameSink receives output frames
type FrameSink interface {
	Write(frame gocv.Mat) error
	Close() error
}

// captureSource adapts a gocv.VideoCapture to FrameSource
type captureSource struct {
	vc *gocv.VideoCapture
}

// OpenSource opens a video file for decoding
func OpenSource(path string) (FrameSource, error) {
	vc, err := gocv.VideoCaptureFile(path)
	if err != nil {
		if vc != nil {
			vc.Close()
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrInputOpen, path, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("%w: %s", ErrInputOpen, path)
	}
	return &captureSource{vc: vc}, nil
}

func (s *captureSource) Read(dst *gocv.Mat) bool {
	if !s.vc.Read(dst) {
		return false
	}
	return !dst.Empty()
}

func (s *captureSource) FrameCount() int {
	return int(s.vc.Get(gocv.VideoCaptureFrameCount))
}

func (s *captureSource) FPS() float64 {
	return s.vc.Get(gocv.VideoCaptureFPS)
}

func (s *captureSource) Close() error {
	return s.vc.Close()
}

// OpenSink opens a video encoder producing size x size frames
func OpenSink(path string, codec Codec, fps float64, size int) (FrameSink, error) {
	w, err := gocv.VideoWriterFile(path, codec.FourCC, fps, size, size, true)
	if err != nil {
		if w != nil {
			w.Close()
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrOutputOpen, path, err)
	}
	if !w.IsOpened() {
		w.Close()
		return nil, fmt.Errorf("%w: %s", ErrOutputOpen, path)
	}
	return w, nil
}
