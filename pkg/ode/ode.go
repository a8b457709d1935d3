// Package ode integrates initial value problems y' = f(t, y) and reports
// the state at caller-chosen output times.
package ode

import (
	"math"

	"github.com/edp1096/toy-pv/internal/consts"
	"github.com/edp1096/toy-pv/pkg/matrix"
	"github.com/edp1096/toy-pv/pkg/util"
)

// System is the right-hand side of a first-order ODE system.
type System interface {
	Dim() int
	// Derivative writes f(t, y) into dydt.
	Derivative(t float64, y, dydt []float64)
}

// JacobianStamper is implemented by systems that know their own df/dy.
// Entries are stamped 1-based: element (i, j) is d f_i / d y_j.
type JacobianStamper interface {
	StampJacobian(m matrix.DeviceMatrix, t float64, y []float64)
}

type Options struct {
	RelTol      float64
	AbsTol      float64
	InitialStep float64 // 0 picks one automatically
	MinStep     float64 // 0 means 1e-12 of the integration span
	MaxStep     float64 // 0 means unlimited
	MaxSteps    int     // per output interval
}

func DefaultOptions() Options {
	return Options{
		RelTol:   consts.RELTOL,
		AbsTol:   consts.ABSTOL,
		MaxSteps: 10000,
	}
}

// DefaultGearOptions loosens the tolerances: the BDF2 error estimate is
// first order in the predictor and would otherwise force tiny steps.
func DefaultGearOptions() Options {
	return Options{
		RelTol:   1e-7,
		AbsTol:   1e-7,
		MaxSteps: 100000,
	}
}

// Solver integrates sys from y0 at ts[0] and returns one state per ts entry.
type Solver interface {
	Solve(sys System, y0 []float64, ts []float64) ([][]float64, error)
}

func New(method util.IntegrationMethod, opts Options) Solver {
	switch method {
	case util.GearMethod:
		return NewGear(opts)
	default:
		return NewRungeKutta(opts)
	}
}

func (o Options) withDefaults(def Options, span float64) Options {
	if o.RelTol <= 0 {
		o.RelTol = def.RelTol
	}
	if o.AbsTol <= 0 {
		o.AbsTol = def.AbsTol
	}
	if o.MaxSteps <= 0 {
		o.MaxSteps = def.MaxSteps
	}
	if o.MinStep <= 0 {
		o.MinStep = 1e-12 * span
	}
	if o.MaxStep <= 0 {
		o.MaxStep = math.Inf(1)
	}
	return o
}

func checkProblem(sys System, y0, ts []float64) error {
	if sys.Dim() != len(y0) {
		return ErrDimension
	}
	if len(ts) == 0 {
		return ErrTimeGrid
	}
	for i := 1; i < len(ts); i++ {
		if !(ts[i] > ts[i-1]) {
			return ErrTimeGrid
		}
	}
	return nil
}

// errorNorm is the weighted RMS norm used for step acceptance, weighted by
// the state at the start of the step.
func errorNorm(errv, y []float64, o Options) float64 {
	sum := 0.0
	for i := range errv {
		sc := o.AbsTol + o.RelTol*math.Abs(y[i])
		r := errv[i] / sc
		sum += r * r
	}
	return math.Sqrt(sum / float64(len(errv)))
}

func allFinite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// StampJacobian loads df/dy at (t, y) into m. Systems that implement
// JacobianStamper supply it directly; otherwise it is approximated by
// forward differences.
func StampJacobian(sys System, m matrix.DeviceMatrix, t float64, y []float64) {
	if js, ok := sys.(JacobianStamper); ok {
		js.StampJacobian(m, t, y)
		return
	}

	n := sys.Dim()
	f0 := make([]float64, n)
	f1 := make([]float64, n)
	yp := make([]float64, n)
	sys.Derivative(t, y, f0)

	for j := 0; j < n; j++ {
		copy(yp, y)
		delta := math.Sqrt(2.220446049250313e-16) * math.Max(math.Abs(y[j]), 1)
		yp[j] += delta
		sys.Derivative(t, yp, f1)
		for i := 0; i < n; i++ {
			if d := (f1[i] - f0[i]) / delta; d != 0 {
				m.AddElement(i+1, j+1, d)
			}
		}
	}
}

// negated stamps -value, turning a Jacobian stamp into one for (cI - J).
type negated struct{ m matrix.DeviceMatrix }

func (n negated) AddElement(i, j int, value float64) { n.m.AddElement(i, j, -value) }
func (n negated) AddRHS(i int, value float64)        { n.m.AddRHS(i, -value) }
