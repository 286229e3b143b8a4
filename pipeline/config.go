package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

// Configuration resolution errors. Both are fatal before any file is opened.
var (
	ErrUnknownCodec  = errors.New("unknown codec")
	ErrUnknownFormat = errors.New("unknown format")
)

// Codec is an output encoder selected by its four-character identifier
type Codec struct {
	Name   string // Name accepted on the command line
	FourCC string // Identifier handed to the encoder
}

// Codecs lists the supported output codecs; the first entry is the default
var Codecs = []Codec{
	{Name: "DIVX", FourCC: "DIVX"},
	{Name: "MJPG", FourCC: "MJPG"},
	{Name: "MPEG", FourCC: "MPEG"},
	{Name: "MP4V", FourCC: "MP4V"},
	{Name: "H264", FourCC: "H264"},
	{Name: "X264", FourCC: "X264"},
	{Name: "AVC1", FourCC: "avc1"},
	{Name: "WMV2", FourCC: "WMV2"},
}

// Formats lists the supported output containers; the first entry is the default
var Formats = []string{"avi", "mp4"}

// Default settings
const (
	DefaultWindowSize      = 400
	DefaultThresholdScalar = 1.0
	DefaultIterations      = 2
)

// Config holds the settings used to process one file. It is passed by value
// and never changes while a file is being processed.
type Config struct {
	WindowSize      int     // Crop edge length in pixels
	ThresholdScalar float64 // Multiplier applied to the Otsu threshold for Canny
	Iterations      int     // Dilation passes used to close edge contours
	Verbose         bool    // Draw every candidate region and log per-frame detail
	NoGUI           bool    // Never open preview windows
	PlotTrack       bool    // Write a PNG plot of the track next to the output
	Codec           Codec
	Format          string
}

// DefaultConfig returns the stock settings
func DefaultConfig() Config {
	return Config{
		WindowSize:      DefaultWindowSize,
		ThresholdScalar: DefaultThresholdScalar,
		Iterations:      DefaultIterations,
		Codec:           Codecs[0],
		Format:          Formats[0],
	}
}

// LookupCodec resolves a codec name, ignoring case
func LookupCodec(name string) (Codec, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for _, c := range Codecs {
		if c.Name == upper {
			return c, nil
		}
	}
	return Codec{}, fmt.Errorf("%w: %s", ErrUnknownCodec, name)
}

// LookupFormat resolves an output container name, ignoring case
func LookupFormat(name string) (string, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for _, f := range Formats {
		if f == lower {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %s (use avi or mp4)", ErrUnknownFormat, name)
}

// CodecNames returns the codec names, marking the default with an asterisk
func CodecNames() []string {
	names := make([]string, len(Codecs))
	for i, c := range Codecs {
		names[i] = c.Name
		if i == 0 {
			names[i] += "*"
		}
	}
	return names
}
