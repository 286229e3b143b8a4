package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"motioncrop/pipeline"
)

// Option ranges; values outside are clamped
const (
	minWindowSize = 50
	maxWindowSize = 5000
	minThreshold  = 0.05
	maxThreshold  = 2.0
	minIterations = 1
	maxIterations = 5
)

// errUsage means the usage text was printed and nothing should be processed
var errUsage = errors.New("usage requested")

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// atoi parses the leading integer of s, returning 0 when there is none
func atoi(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || end == 0 && (s[end] == '-' || s[end] == '+')) {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// atof parses s as a float, returning 0 when it is not a number
func atof(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

// settings applies command-line values to a Config, echoing each one
type settings struct {
	cfg *pipeline.Config
	out io.Writer
	err error // First configuration error, kept for errors.Is after flag parsing
}

func (s *settings) setWindowSize(v string) {
	s.cfg.WindowSize = clampInt(atoi(v), minWindowSize, maxWindowSize)
	fmt.Fprintf(s.out, "Window size set to %d.\n", s.cfg.WindowSize)
}

func (s *settings) setThreshold(v string) {
	s.cfg.ThresholdScalar = clampFloat(atof(v), minThreshold, maxThreshold)
	fmt.Fprintf(s.out, "Threshold set to %g.\n", s.cfg.ThresholdScalar)
}

func (s *settings) setIterations(v string) {
	s.cfg.Iterations = clampInt(atoi(v), minIterations, maxIterations)
	fmt.Fprintf(s.out, "Iterations set to %d.\n", s.cfg.Iterations)
}

func (s *settings) setVerbose(v string) {
	s.cfg.Verbose = clampInt(atoi(v), 0, 1) == 1
	fmt.Fprintf(s.out, "Verbose set to %d.\n", boolToInt(s.cfg.Verbose))
}

func (s *settings) setCodec(v string) error {
	c, err := pipeline.LookupCodec(v)
	if err != nil {
		s.fail(err)
		return err
	}
	s.cfg.Codec = c
	fmt.Fprintf(s.out, "Codec set to %s.\n", c.Name)
	return nil
}

func (s *settings) setFormat(v string) error {
	f, err := pipeline.LookupFormat(v)
	if err != nil {
		s.fail(err)
		return err
	}
	s.cfg.Format = f
	fmt.Fprintf(s.out, "Output format set to %s.\n", f)
	return nil
}

func (s *settings) fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// funcValue adapts a setter to flag.Value
type funcValue struct {
	set     func(string) error
	current func() string
	isBool  bool
}

func (f funcValue) Set(s string) error { return f.set(s) }
func (f funcValue) String() string {
	if f.current == nil {
		return ""
	}
	return f.current()
}
func (f funcValue) IsBoolFlag() bool { return f.isBool }

// hasFlags reports whether args use the flag form rather than the legacy
// positional form. The legacy form always starts with a file name and may
// only end in -nogui.
func hasFlags(args []string) bool {
	for i, a := range args {
		if strings.HasPrefix(a, "-") && (i == 0 || a != "-nogui") {
			return true
		}
	}
	return false
}

// parseArgs turns the command line into a Config and a list of input files
func parseArgs(prog string, args []string, out io.Writer) (pipeline.Config, []string, error) {
	cfg := pipeline.DefaultConfig()
	if len(args) == 0 {
		printUsage(prog, out, nil)
		return cfg, nil, errUsage
	}

	s := &settings{cfg: &cfg, out: out}
	if !hasFlags(args) {
		return parsePositional(s, args)
	}

	fs := newFlagSet(prog, s, out)

	var files []string
	rest := joinVerboseValue(args)
	for {
		if err := fs.Parse(rest); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return cfg, nil, errUsage
			}
			if s.err != nil {
				return cfg, nil, s.err
			}
			return cfg, nil, err
		}
		rest = fs.Args()
		if len(rest) == 0 {
			break
		}
		files = append(files, rest[0])
		rest = rest[1:]
	}

	if len(files) == 0 {
		printUsage(prog, out, fs)
		return cfg, nil, errUsage
	}
	return cfg, files, nil
}

// parsePositional handles "file [windowSize] [threshold] [iterations] [verbose] [-nogui]"
func parsePositional(s *settings, args []string) (pipeline.Config, []string, error) {
	files := []string{args[0]}
	opts := args[1:]
	if len(opts) > 0 && opts[len(opts)-1] == "-nogui" {
		s.cfg.NoGUI = true
		opts = opts[:len(opts)-1]
	}

	if len(opts) > 0 {
		s.setWindowSize(opts[0])
	}
	if len(opts) > 1 {
		s.setThreshold(opts[1])
	}
	if len(opts) > 2 {
		s.setIterations(opts[2])
	}
	if len(opts) > 3 {
		s.setVerbose(opts[3])
	}
	return *s.cfg, files, nil
}

// joinVerboseValue rewrites "-v N" as "-v=N" so the verbose flag can take an
// optional value
func joinVerboseValue(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		a := args[i]
		if (a == "-v" || a == "-verbose") && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") && isVerboseValue(args[i+1]) {
			out = append(out, a+"="+args[i+1])
			i++
			continue
		}
		out = append(out, a)
	}
	return out
}

func isVerboseValue(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

func newFlagSet(prog string, s *settings, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(prog, flag.ContinueOnError)
	fs.SetOutput(out)

	window := funcValue{
		set:     func(v string) error { s.setWindowSize(v); return nil },
		current: func() string { return strconv.Itoa(s.cfg.WindowSize) },
	}
	threshold := funcValue{
		set:     func(v string) error { s.setThreshold(v); return nil },
		current: func() string { return strconv.FormatFloat(s.cfg.ThresholdScalar, 'g', -1, 64) },
	}
	iterations := funcValue{
		set:     func(v string) error { s.setIterations(v); return nil },
		current: func() string { return strconv.Itoa(s.cfg.Iterations) },
	}
	verbose := funcValue{
		set: func(v string) error {
			if v == "true" {
				v = "1"
			} else if v == "false" {
				v = "0"
			}
			s.setVerbose(v)
			return nil
		},
		isBool: true,
	}
	codec := funcValue{set: s.setCodec}
	format := funcValue{set: s.setFormat}

	for _, name := range []string{"w", "window"} {
		fs.Var(window, name, fmt.Sprintf("Window size in pixels (default %d, %d-%d)", pipeline.DefaultWindowSize, minWindowSize, maxWindowSize))
	}
	for _, name := range []string{"t", "threshold"} {
		fs.Var(threshold, name, "Threshold scalar (default 1.0, try 0.5 if jittery)")
	}
	for _, name := range []string{"i", "iterations"} {
		fs.Var(iterations, name, "Dilation iterations (default 2, try 3-4 if jittery)")
	}
	for _, name := range []string{"v", "verbose"} {
		fs.Var(verbose, name, "Enable debug output (optionally -v 0|1)")
	}
	for _, name := range []string{"c", "codec"} {
		fs.Var(codec, name, "Video codec: "+strings.Join(pipeline.CodecNames(), ", "))
	}
	for _, name := range []string{"f", "format"} {
		fs.Var(format, name, "Output format: avi (default), mp4")
	}
	fs.BoolVar(&s.cfg.NoGUI, "nogui", false, "Disable GUI windows (batch mode)")
	fs.BoolVar(&s.cfg.PlotTrack, "plot", false, "Write a PNG plot of the tracked point next to each output")

	fs.Usage = func() { printUsage(prog, out, fs) }
	return fs
}

func printUsage(prog string, out io.Writer, fs *flag.FlagSet) {
	fmt.Fprintf(out, "%s:\n", prog)
	fmt.Fprintf(out, "\tStabilizes and crops videos of aircraft against reasonably cloud free skies.\n\n")
	fmt.Fprintf(out, "\tUsage: %s filename [windowSize] [threshold] [iterations] [verbose] [-nogui]\n", prog)
	fmt.Fprintf(out, "\t   or: %s [-w size] [-t thresh] [-i iter] [-v] [-c codec] [-f fmt] [-nogui] [-plot] files...\n\n", prog)
	if fs != nil {
		fmt.Fprintf(out, "\tOptions:\n")
		fs.PrintDefaults()
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "\tOutput: filename%s.{avi|mp4}\n", pipeline.OutputSuffix)
}
