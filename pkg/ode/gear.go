package ode

import (
	"fmt"
	"math"

	"github.com/edp1096/toy-pv/pkg/matrix"
	"github.com/edp1096/toy-pv/pkg/util"
)

const (
	gearMaxOrder   = 2
	gearMaxGrowth  = 2.0
	gearHold       = 4 // BDF2 steps accepted before the step may grow
	gearMaxNewton  = 100
	gearInitFactor = 0.01 // initial step as a fraction of the first output interval
)

// Gear is a variable step BDF integrator. It starts each run of equal steps
// with backward Euler and moves to BDF2 once a step of the same size has
// been accepted. The step only grows after gearHold BDF2 steps. Every
// corrector is solved by Newton iteration on a sparse (c0*I - J) system.
type Gear struct {
	opts Options
}

func NewGear(opts Options) *Gear {
	return &Gear{opts: opts}
}

func (g *Gear) Solve(sys System, y0 []float64, ts []float64) ([][]float64, error) {
	if err := checkProblem(sys, y0, ts); err != nil {
		return nil, err
	}

	n := sys.Dim()
	o := g.opts.withDefaults(DefaultGearOptions(), ts[len(ts)-1]-ts[0])

	out := make([][]float64, len(ts))
	out[0] = append([]float64(nil), y0...)
	if len(ts) == 1 {
		return out, nil
	}

	mat, err := matrix.NewMatrix(n)
	if err != nil {
		return nil, err
	}
	defer mat.Destroy()

	y := append([]float64(nil), y0...)
	yPrev := make([]float64, n)
	yPred := make([]float64, n)
	f := make([]float64, n)
	fNew := make([]float64, n)
	errv := make([]float64, n)

	t := ts[0]
	h := o.InitialStep
	if h <= 0 {
		h = (ts[1] - ts[0]) * gearInitFactor
	}
	h = math.Min(h, o.MaxStep)

	havePrev := false
	hPrev := 0.0
	run := 0

	for idx := 1; idx < len(ts); idx++ {
		tEnd := ts[idx]
		steps := 0

		for t < tEnd {
			if steps >= o.MaxSteps {
				return nil, &StepError{Method: "gear", Time: t, Step: h, Err: ErrTooManySteps}
			}
			steps++

			hStep := h
			last := false
			if t+hStep >= tEnd {
				hStep = tEnd - t
				last = true
			}

			order := 1
			if havePrev && math.Abs(hStep-hPrev) <= 1e-9*hStep {
				order = gearMaxOrder
			}

			// Predictor: linear extrapolation through the last two points,
			// forward Euler on the very first step.
			if order == 1 {
				sys.Derivative(t, y, f)
			}
			if havePrev {
				r := hStep / hPrev
				for i := range yPred {
					yPred[i] = y[i] + r*(y[i]-yPrev[i])
				}
			} else {
				for i := range yPred {
					yPred[i] = y[i] + hStep*f[i]
				}
			}

			history := [][]float64{y, yPrev}[:order]
			ynew, err := g.correct(sys, mat, t+hStep, util.GetBDFcoeffs(order, hStep), history, yPred, o)
			if err != nil {
				if hStep/2 < o.MinStep {
					return nil, &StepError{Method: "gear", Time: t, Step: hStep, Err: err}
				}
				h = hStep / 2
				continue
			}

			// Backward Euler: h^2/2 y'' from the change in f over the step.
			// BDF2: the predictor difference, which bounds its h^3 term.
			if order == 1 {
				sys.Derivative(t+hStep, ynew, fNew)
				for i := range errv {
					errv[i] = hStep / 2 * (fNew[i] - f[i])
				}
			} else {
				for i := range errv {
					errv[i] = (ynew[i] - yPred[i]) / float64(order+1)
				}
			}
			errNorm := errorNorm(errv, y, o)
			if math.IsNaN(errNorm) || math.IsInf(errNorm, 0) {
				errNorm = math.Inf(1)
			}
			if errNorm > 1 {
				if hStep/2 < o.MinStep {
					return nil, &StepError{Method: "gear", Time: t, Step: hStep, Err: ErrStepTooSmall}
				}
				h = hStep / 2
				continue
			}

			copy(yPrev, y)
			copy(y, ynew)
			hPrev = hStep
			havePrev = true
			if order == gearMaxOrder {
				run++
			} else {
				run = 0
			}
			if last {
				t = tEnd
				continue
			}
			t += hStep
			h = hStep

			if run >= gearHold && errNorm < 0.5 && h < o.MaxStep {
				factor := gearMaxGrowth
				if errNorm > 0 {
					factor = math.Min(gearMaxGrowth, 0.9*math.Pow(errNorm, -1.0/float64(order+1)))
				}
				if factor > 1 {
					h = math.Min(h*factor, o.MaxStep)
					run = 0
				}
			}
		}

		out[idx] = append([]float64(nil), y...)
	}

	return out, nil
}

// correct solves c0*y + sum(c[i]*history[i-1]) - f(t, y) = 0 for y.
func (g *Gear) correct(sys System, mat *matrix.SystemMatrix, t float64, coeffs []float64, history [][]float64, guess []float64, o Options) ([]float64, error) {
	n := len(guess)
	y := append([]float64(nil), guess...)
	f := make([]float64, n)

	for iter := 0; iter < gearMaxNewton; iter++ {
		sys.Derivative(t, y, f)
		if !allFinite(f) {
			return nil, ErrNonFinite
		}

		mat.Clear()
		for i := 0; i < n; i++ {
			mat.AddElement(i+1, i+1, coeffs[0])

			residual := coeffs[0]*y[i] - f[i]
			for k, past := range history {
				residual += coeffs[k+1] * past[i]
			}
			mat.AddRHS(i+1, -residual)
		}
		StampJacobian(sys, negated{mat}, t, y)

		if err := mat.Solve(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNewton, err)
		}

		delta := mat.Solution()
		converged := true
		for i := 0; i < n; i++ {
			y[i] += delta[i+1]
			tol := o.RelTol*math.Abs(y[i]) + o.AbsTol
			if math.Abs(delta[i+1]) > tol {
				converged = false
			}
		}
		if !allFinite(y) {
			return nil, ErrNonFinite
		}
		if converged {
			return y, nil
		}
	}

	return nil, fmt.Errorf("%w in %d iterations", ErrNewton, gearMaxNewton)
}
