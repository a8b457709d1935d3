package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/edp1096/toy-pv/pkg/device"
)

// IVSweep evaluates a solar cell over a linear voltage sweep from 0 to Voc,
// once with uniform illumination and once with the upper half of the
// sweep shaded.
type IVSweep struct {
	BaseAnalysis
	cell      *device.SolarCell
	sweepVals []float64
}

func NewIVSweep() *IVSweep {
	return &IVSweep{BaseAnalysis: *NewBaseAnalysis()}
}

func (iv *IVSweep) Setup(dev device.Device) error {
	cell, ok := dev.(*device.SolarCell)
	if !ok {
		return fmt.Errorf("device %s (%s) is not a solar cell", dev.GetName(), dev.GetType())
	}
	if cell.Points < 2 {
		return fmt.Errorf("device %s: sweep needs at least 2 points, got %d", cell.GetName(), cell.Points)
	}

	iv.Device = dev
	iv.cell = cell
	iv.sweepVals = floats.Span(make([]float64, cell.Points), 0, cell.Voc)

	return nil
}

func (iv *IVSweep) Execute() error {
	if iv.cell == nil {
		return fmt.Errorf("device not set")
	}

	iv.resetResults()
	for i, v := range iv.sweepVals {
		iv.StoreSweepResult(v, map[string]float64{
			UnshadedKey: iv.cell.Current(v, iv.cell.Isc),
			ShadedKey:   iv.cell.Current(v, iv.cell.IscAt(i)),
		})
	}

	return nil
}
