package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/edp1096/toy-pv/pkg/device"
	"github.com/edp1096/toy-pv/pkg/ode"
	"github.com/edp1096/toy-pv/pkg/util"
)

// Transient integrates the DSSC transport equation on a uniform output grid
// and derives the load current, voltage and power at every grid point.
type Transient struct {
	BaseAnalysis
	op        *OperatingPoint
	cell      *device.DSSC
	startTime float64
	stopTime  float64
	points    int
	method    util.IntegrationMethod
	opts      ode.Options
	steady    float64
}

func NewTransient(tStart, tStop float64, points int, method util.IntegrationMethod) *Transient {
	return &Transient{
		BaseAnalysis: *NewBaseAnalysis(),
		op:           NewOP(),
		startTime:    tStart,
		stopTime:     tStop,
		points:       points,
		method:       method,
	}
}

// SetOptions overrides the integrator options. Zero fields keep the
// method's defaults.
func (tr *Transient) SetOptions(opts ode.Options) {
	tr.opts = opts
}

func (tr *Transient) Setup(dev device.Device) error {
	cell, ok := dev.(*device.DSSC)
	if !ok {
		return fmt.Errorf("device %s (%s) is not a DSSC", dev.GetName(), dev.GetType())
	}
	if tr.points < 2 {
		return fmt.Errorf("transient needs at least 2 time points, got %d", tr.points)
	}
	if !(tr.stopTime > tr.startTime) {
		return fmt.Errorf("stop time %g must be after start time %g", tr.stopTime, tr.startTime)
	}

	if err := tr.op.Setup(dev); err != nil {
		return fmt.Errorf("operating point setup error: %v", err)
	}
	if err := tr.op.Execute(); err != nil {
		return fmt.Errorf("operating point analysis error: %v", err)
	}
	tr.steady = tr.op.GetResults()[cell.StateNames()[0]][0]

	tr.Device = dev
	tr.cell = cell
	return nil
}

// SteadyState is the operating point found during Setup.
func (tr *Transient) SteadyState() float64 {
	return tr.steady
}

func (tr *Transient) Execute() error {
	if tr.cell == nil {
		return fmt.Errorf("device not set")
	}

	times := floats.Span(make([]float64, tr.points), tr.startTime, tr.stopTime)
	solver := ode.New(tr.method, tr.opts)

	states, err := solver.Solve(tr.cell, tr.cell.InitialState(), times)
	if err != nil {
		return fmt.Errorf("transient analysis failed: %w", err)
	}

	tr.resetResults()
	for i, t := range times {
		n := states[i][0]
		current, voltage, power := tr.cell.Readout(n)
		tr.StoreTimeResult(t, map[string]float64{
			StateKey:   n,
			CurrentKey: current,
			VoltageKey: voltage,
			PowerKey:   power,
		})
	}

	return nil
}
