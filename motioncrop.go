package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"motioncrop/pkg/ffmpeg"
	"motioncrop/pipeline"
	"motioncrop/preview"
)

// Exit codes
const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// run processes every file named on the command line and returns the exit code
func run(argv []string, stdout, stderr io.Writer) int {
	prog := filepath.Base(argv[0])

	cfg, files, err := parseArgs(prog, argv[1:], stdout)
	if err != nil {
		if errors.Is(err, errUsage) {
			return exitUsage
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	setupLogging(stderr, cfg.Verbose)

	fmt.Fprintf(stdout, "MotionCrop\nWindow Size: %dx%d\n", cfg.WindowSize, cfg.WindowSize)

	opts := []pipeline.Option{
		pipeline.WithProgress(stdout),
		pipeline.WithFrameCounter(ffmpeg.CountFrames),
	}
	if !cfg.NoGUI {
		win := preview.NewWindow()
		defer win.Close()
		opts = append(opts, pipeline.WithPreview(win))
	}

	succeeded, failed := processBatch(files, cfg, opts...)

	if len(files) > 1 {
		fmt.Fprintf(stdout, "\nCompleted: %d succeeded, %d failed.\n", succeeded, failed)
	}
	if failed > 0 {
		return exitFailed
	}
	return exitOK
}

// processBatch runs the pipeline on each file in turn. A failed file never
// stops the batch.
func processBatch(files []string, cfg pipeline.Config, opts ...pipeline.Option) (succeeded, failed int) {
	for _, file := range files {
		if pipeline.Process(file, cfg, opts...) {
			succeeded++
		} else {
			failed++
		}
	}
	return succeeded, failed
}

func setupLogging(out io.Writer, verbose bool) {
	logrus.SetOutput(out)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}
