package util

import (
	"fmt"
	"strings"
)

type IntegrationMethod int

const (
	RungeKuttaMethod IntegrationMethod = iota // adaptive explicit RK4 with step doubling
	GearMethod                                // variable step implicit BDF
)

func (m IntegrationMethod) String() string {
	switch m {
	case RungeKuttaMethod:
		return "rk4"
	case GearMethod:
		return "gear"
	default:
		return fmt.Sprintf("IntegrationMethod(%d)", int(m))
	}
}

func ParseIntegrationMethod(name string) (IntegrationMethod, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "rk4", "rk":
		return RungeKuttaMethod, nil
	case "gear", "bdf":
		return GearMethod, nil
	default:
		return 0, fmt.Errorf("unknown integration method %q (want rk4 or gear)", name)
	}
}

type BackwardDifferentialFormula struct {
	coefficients []float64
	beta         float64
}

// bdfCoefficients covers the orders Gear runs: backward Euler and BDF2.
var bdfCoefficients = [2]BackwardDifferentialFormula{
	{[]float64{1.0}, 1.0},
	{[]float64{4.0 / 3.0, -1.0 / 3.0}, 2.0 / 3.0},
}

// GetBDFcoeffs returns the derivative approximation for a constant step dt:
//
//	y'(n+1) ~= coeffs[0]*y(n+1) + coeffs[1]*y(n) + ... + coeffs[order]*y(n+1-order)
func GetBDFcoeffs(order int, dt float64) []float64 {
	if order < 1 || order > len(bdfCoefficients) {
		order = 1
	}

	bdf := bdfCoefficients[order-1]
	coeffs := make([]float64, order+1)
	scale := 1.0 / (bdf.beta * dt)
	coeffs[0] = scale

	for i := 1; i <= order; i++ {
		coeffs[i] = -bdf.coefficients[i-1] * scale
	}

	return coeffs
}
