package figure

import (
	"image/color"

	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var (
	unshadedColor = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	shadedColor   = color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff}
)

// IVCurves plots the uniform and partially shaded I-V curves of a cell
// against the same voltage sweep.
func IVCurves(volts, unshaded, shaded []float64) (*Figure, error) {
	fig := newFigure(10, 6, 1, 1)

	p := newPlot("I-V Characteristics of Solar Cell with and without Partial Shading", "Voltage (V)", "Current (I)")
	err := addLine(p, "Without Shading", volts, unshaded, func(l *plotter.Line) {
		l.LineStyle.Color = unshadedColor
	})
	if err != nil {
		return nil, err
	}
	err = addLine(p, "With Partial Shading", volts, shaded, func(l *plotter.Line) {
		l.LineStyle.Color = shadedColor
		l.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
	})
	if err != nil {
		return nil, err
	}

	fig.Plots[0][0] = p
	return fig, nil
}
