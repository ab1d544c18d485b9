package plot

import (
	"fmt"

	"github.com/fogleman/gg"

	"github.com/samuelfneumann/valleycar/environment/classiccontrol/mountaincar"
)

const (
	width   = 600
	height  = 300
	margin  = 20.0
	samples = 200
)

// Landscape draws the Mountain Car hill and the positions of a
// trajectory on it, and saves the image as a PNG at path. The first
// position is drawn in blue, the last in red.
func Landscape(path string, positions []float64) error {
	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	// Hill profile
	dc.SetRGB(0.2, 0.2, 0.2)
	dc.SetLineWidth(3)
	for i := 0; i <= samples; i++ {
		p := mountaincar.MinPosition + float64(i)/samples*
			(mountaincar.MaxPosition-mountaincar.MinPosition)
		x, y := toPixel(p)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.Stroke()

	// Summit flag
	fx, fy := toPixel(mountaincar.MaxPosition)
	dc.SetRGB(0.1, 0.6, 0.1)
	dc.DrawLine(fx-5, fy, fx-5, fy-30)
	dc.Stroke()
	dc.DrawRectangle(fx-20, fy-30, 15, 10)
	dc.Fill()

	// Trajectory, fading from blue to red
	for i, p := range positions {
		if p < mountaincar.MinPosition || p > mountaincar.MaxPosition {
			return fmt.Errorf("landscape: position %v ∉ [%v, %v]", p,
				mountaincar.MinPosition, mountaincar.MaxPosition)
		}

		frac := 1.0
		if len(positions) > 1 {
			frac = float64(i) / float64(len(positions)-1)
		}
		x, y := toPixel(p)
		dc.SetRGBA(frac, 0, 1-frac, 0.6)
		dc.DrawCircle(x, y-6, 4)
		dc.Fill()
	}

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("landscape: could not save image: %v", err)
	}
	return nil
}

// toPixel returns the pixel coordinates of the hill at position p
func toPixel(p float64) (float64, float64) {
	span := mountaincar.MaxPosition - mountaincar.MinPosition
	x := margin + (p-mountaincar.MinPosition)/span*(width-2*margin)

	// Heights lie in [-1, 1] and the y axis points down
	h := mountaincar.Height(p)
	y := margin + (1-h)/2*(height-2*margin)
	return x, y
}
