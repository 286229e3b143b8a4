package ffmpeg

import (
	"strings"
)

// OutputBuffer keeps the most recent lines written by an external tool so
// they can be quoted in error messages
type OutputBuffer struct {
	lines    []string
	maxLines int
	index    int
	full     bool
	partial  string
}

// NewOutputBuffer creates a circular buffer holding up to maxLines lines
func NewOutputBuffer(maxLines int) *OutputBuffer {
	if maxLines < 1 {
		maxLines = 1
	}
	return &OutputBuffer{
		lines:    make([]string, maxLines),
		maxLines: maxLines,
	}
}

// Write implements io.Writer, splitting input into lines
func (ob *OutputBuffer) Write(p []byte) (int, error) {
	data := ob.partial + string(p)
	parts := strings.Split(data, "\n")
	ob.partial = parts[len(parts)-1]
	for _, line := range parts[:len(parts)-1] {
		ob.Add(strings.TrimRight(line, "\r"))
	}
	return len(p), nil
}

// Add stores a line, overwriting the oldest one when full
func (ob *OutputBuffer) Add(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	ob.lines[ob.index] = line
	ob.index = (ob.index + 1) % ob.maxLines
	if ob.index == 0 {
		ob.full = true
	}
}

// GetRecent returns the stored lines, oldest first
func (ob *OutputBuffer) GetRecent() []string {
	var result []string
	if ob.full {
		for i := 0; i < ob.maxLines; i++ {
			result = append(result, ob.lines[(ob.index+i)%ob.maxLines])
		}
	} else {
		result = append(result, ob.lines[:ob.index]...)
	}
	if strings.TrimSpace(ob.partial) != "" {
		result = append(result, ob.partial)
	}
	return result
}

// String joins the recent lines with "; "
func (ob *OutputBuffer) String() string {
	return strings.Join(ob.GetRecent(), "; ")
}
