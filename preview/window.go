package preview

import (
	"gocv.io/x/gocv"
)

const (
	// Window titles
	OriginalWindow = "Original"
	CropWindow     = "Motion Crop"

	escKey = 27
	// Delay per frame in milliseconds; also the cancel key poll
	frameDelay = 30
)

// Window shows the annotated source frame and the crop in desktop windows.
// Stage windows are created lazily the first time a stage is shown.
type Window struct {
	original *gocv.Window
	crop     *gocv.Window
	stages   map[string]*gocv.Window
	delay    int
}

// NewWindow opens the preview windows
func NewWindow() *Window {
	return &Window{
		original: gocv.NewWindow(OriginalWindow),
		crop:     gocv.NewWindow(CropWindow),
		stages:   make(map[string]*gocv.Window),
		delay:    frameDelay,
	}
}

// ShowStage displays an intermediate segmentation image
func (w *Window) ShowStage(name string, img gocv.Mat) {
	win, ok := w.stages[name]
	if !ok {
		win = gocv.NewWindow(name)
		w.stages[name] = win
	}
	win.IMShow(img)
}

// Show displays both frames and waits briefly for a key. ESC cancels.
func (w *Window) Show(annotated, crop gocv.Mat) bool {
	w.original.IMShow(annotated)
	w.crop.IMShow(crop)
	return IsCancelKey(w.crop.WaitKey(w.delay))
}

// IsCancelKey reports whether key is the cancel key
func IsCancelKey(key int) bool {
	return key == escKey
}

// Close destroys every window
func (w *Window) Close() error {
	for _, win := range w.stages {
		win.Close()
	}
	w.original.Close()
	w.crop.Close()
	return nil
}
