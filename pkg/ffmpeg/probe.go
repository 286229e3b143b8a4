package ffmpeg

import (
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoFrameCount is returned when ffprobe output carries no usable count
var ErrNoFrameCount = errors.New("ffprobe reported no frame count")

// ProbeBinary is the ffprobe executable used by CountFrames
var ProbeBinary = "ffprobe"

var countRegex = regexp.MustCompile(`(?m)^\s*(\d+)\s*,?\s*$`)

// CountFrames asks ffprobe how many video packets the first video stream of
// path holds. Decoders report zero frames for some containers; this is the
// fallback used for the progress line.
func CountFrames(path string) (int, error) {
	stderr := NewOutputBuffer(5)
	cmd := exec.Command(ProbeBinary,
		"-v", "error",
		"-select_streams", "v:0",
		"-count_packets",
		"-show_entries", "stream=nb_read_packets",
		"-of", "csv=p=0",
		path,
	)
	cmd.Stderr = stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := stderr.String(); msg != "" {
			return 0, fmt.Errorf("ffprobe %s: %v: %s", path, err, msg)
		}
		return 0, fmt.Errorf("ffprobe %s: %v", path, err)
	}
	return ParseFrameCount(string(out))
}

// ParseFrameCount extracts the packet count from ffprobe csv output
func ParseFrameCount(output string) (int, error) {
	m := countRegex.FindStringSubmatch(strings.TrimSpace(output))
	if m == nil {
		return 0, ErrNoFrameCount
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNoFrameCount, err)
	}
	if n <= 0 {
		return 0, ErrNoFrameCount
	}
	return n, nil
}
