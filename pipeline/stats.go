package pipeline

import (
	"time"
)

// Stats accumulates per-stage timings for one file
type Stats struct {
	Frames int

	readTotal    time.Duration
	segmentTotal time.Duration
	selectTotal  time.Duration
	cropTotal    time.Duration
	writeTotal   time.Duration
	started      time.Time
	finished     time.Time
}

// StageTimings holds per-frame average durations
type StageTimings struct {
	Read    time.Duration
	Segment time.Duration
	Select  time.Duration
	Crop    time.Duration
	Write   time.Duration
}

func newStats() *Stats {
	return &Stats{started: time.Now()}
}

func (s *Stats) finish() {
	s.finished = time.Now()
}

// Elapsed returns the wall time spent on the file
func (s *Stats) Elapsed() time.Duration {
	if s.finished.IsZero() {
		return time.Since(s.started)
	}
	return s.finished.Sub(s.started)
}

// FPS returns processed frames per second of wall time
func (s *Stats) FPS() float64 {
	secs := s.Elapsed().Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(s.Frames) / secs
}

// Averages returns the mean time each stage took per frame
func (s *Stats) Averages() StageTimings {
	if s.Frames == 0 {
		return StageTimings{}
	}
	n := time.Duration(s.Frames)
	return StageTimings{
		Read:    s.readTotal / n,
		Segment: s.segmentTotal / n,
		Select:  s.selectTotal / n,
		Crop:    s.cropTotal / n,
		Write:   s.writeTotal / n,
	}
}
