package ode

import (
	"math"

	rk4 "github.com/ChristopherRabotin/ode"
	"gonum.org/v1/gonum/floats"
)

const (
	rkSafety    = 0.9
	rkMinFactor = 0.2
	rkMaxFactor = 5.0
)

// RungeKutta is an adaptive classical fourth order Runge-Kutta integrator.
// Every step is taken once with h and again as two steps of h/2; the
// difference between the two estimates the local error and the pair is
// combined by Richardson extrapolation. Steps are clipped so every output
// time is hit exactly.
type RungeKutta struct {
	opts Options
}

func NewRungeKutta(opts Options) *RungeKutta {
	return &RungeKutta{opts: opts}
}

// rkState feeds a System to the RK4 stepper and stops it after limit steps.
type rkState struct {
	sys   System
	y     []float64
	steps int
	limit int
}

func (s *rkState) GetState() []float64 { return s.y }

func (s *rkState) SetState(_ float64, y []float64) {
	s.y = y
	s.steps++
}

func (s *rkState) Stop(float64) bool { return s.steps >= s.limit }

func (s *rkState) Func(t float64, y []float64) []float64 {
	dydt := make([]float64, len(y))
	s.sys.Derivative(t, y, dydt)
	return dydt
}

// advance takes n RK4 steps of size h from (t, y). y is not modified.
func advance(sys System, t, h float64, y []float64, n int) ([]float64, error) {
	st := &rkState{sys: sys, y: y, limit: n}
	if _, _, err := rk4.NewRK4(t, h, st).Solve(); err != nil {
		return nil, err
	}
	return st.y, nil
}

func (r *RungeKutta) Solve(sys System, y0 []float64, ts []float64) ([][]float64, error) {
	if err := checkProblem(sys, y0, ts); err != nil {
		return nil, err
	}

	n := sys.Dim()
	o := r.opts.withDefaults(DefaultOptions(), ts[len(ts)-1]-ts[0])

	out := make([][]float64, len(ts))
	out[0] = append([]float64(nil), y0...)
	if len(ts) == 1 {
		return out, nil
	}

	y := append([]float64(nil), y0...)
	ynew := make([]float64, n)
	errv := make([]float64, n)

	t := ts[0]
	f0 := make([]float64, n)
	sys.Derivative(t, y, f0)
	if !allFinite(f0) {
		return nil, &StepError{Method: "rk4", Time: t, Err: ErrNonFinite}
	}

	h := o.InitialStep
	if h <= 0 {
		h = initialStep(sys, t, y, f0, o)
	}
	h = math.Min(h, o.MaxStep)

	for idx := 1; idx < len(ts); idx++ {
		tEnd := ts[idx]
		steps := 0

		for t < tEnd {
			if steps >= o.MaxSteps {
				return nil, &StepError{Method: "rk4", Time: t, Step: h, Err: ErrTooManySteps}
			}
			steps++

			hStep := h
			last := false
			if t+hStep >= tEnd {
				hStep = tEnd - t
				last = true
			}

			full, err := advance(sys, t, hStep, y, 1)
			if err != nil {
				return nil, &StepError{Method: "rk4", Time: t, Step: hStep, Err: err}
			}
			half, err := advance(sys, t, hStep/2, y, 2)
			if err != nil {
				return nil, &StepError{Method: "rk4", Time: t, Step: hStep, Err: err}
			}
			for i := range ynew {
				errv[i] = (half[i] - full[i]) / 15
				ynew[i] = half[i] + errv[i]
			}

			errNorm := errorNorm(errv, y, o)
			if !allFinite(ynew) || math.IsNaN(errNorm) || math.IsInf(errNorm, 0) {
				h = hStep * rkMinFactor
				if h < o.MinStep {
					return nil, &StepError{Method: "rk4", Time: t, Step: hStep, Err: ErrNonFinite}
				}
				continue
			}

			if errNorm <= 1 {
				if last {
					t = tEnd
				} else {
					t += hStep
				}
				copy(y, ynew)

				factor := rkMaxFactor
				if errNorm > 0 {
					factor = math.Min(rkMaxFactor, rkSafety*math.Pow(errNorm, -0.2))
				}
				next := hStep * factor
				if last {
					// a clipped step says nothing about the step the solution allows
					next = math.Max(next, h)
				}
				h = math.Min(next, o.MaxStep)
				continue
			}

			h = hStep * math.Max(rkMinFactor, rkSafety*math.Pow(errNorm, -0.2))
			if h < o.MinStep {
				return nil, &StepError{Method: "rk4", Time: t, Step: hStep, Err: ErrStepTooSmall}
			}
		}

		out[idx] = append([]float64(nil), y...)
	}

	return out, nil
}

// initialStep follows Hairer, Norsett & Wanner's starting step heuristic
// for a fourth order method.
func initialStep(sys System, t float64, y, f0 []float64, o Options) float64 {
	n := len(y)
	scaled := func(v []float64) float64 {
		sum := 0.0
		for i := range v {
			r := v[i] / (o.AbsTol + o.RelTol*math.Abs(y[i]))
			sum += r * r
		}
		return math.Sqrt(sum / float64(n))
	}

	d0, d1 := scaled(y), scaled(f0)
	h0 := 1e-6
	if d0 >= 1e-5 && d1 >= 1e-5 {
		h0 = 0.01 * d0 / d1
	}

	y1 := make([]float64, n)
	floats.AddScaledTo(y1, y, h0, f0)
	f1 := make([]float64, n)
	sys.Derivative(t+h0, y1, f1)
	floats.Sub(f1, f0)
	d2 := scaled(f1) / h0

	var h1 float64
	if maxD := math.Max(d1, d2); maxD <= 1e-15 {
		h1 = math.Max(1e-6, h0*1e-3)
	} else {
		h1 = math.Pow(0.01/maxD, 1.0/5)
	}

	return math.Min(100*h0, h1)
}
