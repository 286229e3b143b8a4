package pipeline

import (
	"fmt"
	"io"
)

// Progress writes a single overwritten "percent% (frame/total)" line
type Progress struct {
	out         io.Writer
	total       int
	lastPercent int
}

// NewProgress creates a progress line for total frames. A nil writer
// disables output.
func NewProgress(out io.Writer, total int) *Progress {
	return &Progress{out: out, total: total, lastPercent: -1}
}

// Percent returns the completion percentage after frame frames
func (p *Progress) Percent(frame int) int {
	if p.total <= 0 {
		return 0
	}
	return frame * 100 / p.total
}

// Update redraws the line when the percentage changes
func (p *Progress) Update(frame int) {
	percent := p.Percent(frame)
	if percent == p.lastPercent {
		return
	}
	p.lastPercent = percent
	if p.out != nil {
		fmt.Fprintf(p.out, "\r  %d%% (%d/%d)   ", percent, frame, p.total)
	}
}

// Done prints the final line naming the output file
func (p *Progress) Done(frames int, output string) {
	if p.out != nil {
		fmt.Fprintf(p.out, "\r  100%% (%d/%d) -> %s\n", frames, p.total, output)
	}
}
