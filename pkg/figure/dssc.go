package figure

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
)

var (
	blue    = color.RGBA{B: 0xff, A: 0xff}
	red     = color.RGBA{R: 0xff, A: 0xff}
	green   = color.RGBA{G: 0x80, A: 0xff}
	magenta = color.RGBA{R: 0xbf, B: 0xbf, A: 0xff}
)

type panel struct {
	title, xLabel, yLabel, legend string
	xs, ys                        []float64
	color                         color.Color
}

// DSSCPanels lays out the DSSC traces as a 2x2 figure: current and voltage
// against time on top, current and power against voltage below.
func DSSCPanels(times, current, voltage, power []float64) (*Figure, error) {
	panels := [2][2]panel{
		{
			{"Current vs Time", "Time (s)", "Current (A)", "Current", times, current, blue},
			{"Voltage vs Time", "Time (s)", "Voltage (V)", "Voltage", times, voltage, red},
		},
		{
			{"Current vs Voltage", "Voltage (V)", "Current (A)", "I-V Curve", voltage, current, green},
			{"Power vs Voltage", "Voltage (V)", "Power (W)", "P-V Curve", voltage, power, magenta},
		},
	}

	fig := newFigure(12, 6, 2, 2)
	for j := range panels {
		for i, pn := range panels[j] {
			p, err := pn.plot()
			if err != nil {
				return nil, err
			}
			fig.Plots[j][i] = p
		}
	}
	return fig, nil
}

func (pn panel) plot() (*plot.Plot, error) {
	p := newPlot(pn.title, pn.xLabel, pn.yLabel)
	err := addLine(p, pn.legend, pn.xs, pn.ys, func(l *plotter.Line) {
		l.LineStyle.Color = pn.color
	})
	return p, err
}
