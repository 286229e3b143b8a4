package tracking

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// CropRectFor returns the window x window rectangle inside the padded buffer
// that is centered on p. The padding equals the window size, so for any p in
// the frame the rectangle stays inside the buffer.
func CropRectFor(window int, p image.Point) image.Rectangle {
	x := window + p.X - window/2
	y := window + p.Y - window/2
	return image.Rect(x, y, x+window, y+window)
}

// PaddedBounds returns the bounds of a frame of the given size once padded by
// window pixels on every side
func PaddedBounds(frameSize image.Point, window int) image.Rectangle {
	return image.Rect(0, 0, frameSize.X+2*window, frameSize.Y+2*window)
}

// CropExtractor cuts fixed size windows out of an edge-replicated copy of
// the frame. Its buffers are reused from frame to frame.
type CropExtractor struct {
	window int
	padded gocv.Mat
	crop   gocv.Mat
}

// NewCropExtractor creates an extractor for square windows of the given size
func NewCropExtractor(window int) *CropExtractor {
	return &CropExtractor{
		window: window,
		padded: gocv.NewMat(),
		crop:   gocv.NewMat(),
	}
}

// Pad replicates the frame's border pixels outward by the window size. It
// must be called once per frame before Extract.
func (c *CropExtractor) Pad(frame gocv.Mat) {
	w := c.window
	gocv.CopyMakeBorder(frame, &c.padded, w, w, w, w, gocv.BorderReplicate, color.RGBA{})
}

// Padded exposes the current padded buffer (owned by the extractor)
func (c *CropExtractor) Padded() gocv.Mat {
	return c.padded
}

// Extract copies the window centered on p out of the padded buffer. The
// returned Mat is owned by the extractor and is overwritten by the next call.
func (c *CropExtractor) Extract(p image.Point) (gocv.Mat, image.Rectangle) {
	rect := CropRectFor(c.window, p)

	roi := c.padded.Region(rect)
	defer roi.Close()
	roi.CopyTo(&c.crop)

	return c.crop, rect
}

// Close releases the extractor's buffers
func (c *CropExtractor) Close() error {
	c.padded.Close()
	c.crop.Close()
	return nil
}
