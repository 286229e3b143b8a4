package report

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"motioncrop/tracking"
)

var (
	xColor        = color.RGBA{R: 200, G: 30, B: 30, A: 255}
	yColor        = color.RGBA{R: 30, G: 30, B: 200, A: 255}
	fallbackColor = color.RGBA{R: 120, G: 120, B: 120, A: 255}
)

// TrackSeries converts a track into per-frame x and y series plus the
// frames where the center fallback was used
func TrackSeries(track tracking.Track) (xs, ys, fallbacks plotter.XYs) {
	xs = make(plotter.XYs, 0, len(track.Points))
	ys = make(plotter.XYs, 0, len(track.Points))
	for i, p := range track.Points {
		frame := float64(i + 1)
		xs = append(xs, plotter.XY{X: frame, Y: float64(p.X)})
		ys = append(ys, plotter.XY{X: frame, Y: float64(p.Y)})
		if p.Fallback {
			fallbacks = append(fallbacks, plotter.XY{X: frame, Y: float64(p.X)})
		}
	}
	return xs, ys, fallbacks
}

// SaveTrackPlot writes a PNG of the track point coordinates per frame
func SaveTrackPlot(path, title string, track tracking.Track) error {
	if len(track.Points) == 0 {
		return fmt.Errorf("no track points to plot")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s - Track Point", title)
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = "Position (px)"

	xs, ys, fallbacks := TrackSeries(track)

	xLine, err := plotter.NewLine(xs)
	if err != nil {
		return err
	}
	xLine.Color = xColor
	xLine.Width = vg.Points(1)
	p.Add(xLine)
	p.Legend.Add("x", xLine)

	yLine, err := plotter.NewLine(ys)
	if err != nil {
		return err
	}
	yLine.Color = yColor
	yLine.Width = vg.Points(1)
	p.Add(yLine)
	p.Legend.Add("y", yLine)

	if len(fallbacks) > 0 {
		marks, err := plotter.NewScatter(fallbacks)
		if err != nil {
			return err
		}
		marks.GlyphStyle.Color = fallbackColor
		p.Add(marks)
		p.Legend.Add("center fallback", marks)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	if err := p.Save(14*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save track plot %s: %w", path, err)
	}
	return nil
}
