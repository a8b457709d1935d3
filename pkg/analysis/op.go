package analysis

import (
	"fmt"

	"github.com/edp1096/toy-pv/pkg/device"
	"github.com/edp1096/toy-pv/pkg/matrix"
	"github.com/edp1096/toy-pv/pkg/ode"
)

// OperatingPoint finds the steady state f(y) = 0 of a dynamic device by
// Newton iteration, J*dy = -f, starting from the device's initial state.
type OperatingPoint struct {
	BaseAnalysis
	dyn device.Dynamic
}

func NewOP() *OperatingPoint {
	return &OperatingPoint{
		BaseAnalysis: *NewBaseAnalysis(),
	}
}

func (op *OperatingPoint) Setup(dev device.Device) error {
	dyn, ok := dev.(device.Dynamic)
	if !ok {
		return fmt.Errorf("device %s (%s) has no dynamic state", dev.GetName(), dev.GetType())
	}

	op.Device = dev
	op.dyn = dyn
	return nil
}

func (op *OperatingPoint) Execute() error {
	if op.dyn == nil {
		return fmt.Errorf("device not set")
	}

	solution, err := op.doNRiter(op.convergence.maxIter)
	if err != nil {
		return err
	}

	op.resetResults()
	op.storeResults(solution)
	return nil
}

func (op *OperatingPoint) doNRiter(maxIter int) ([]float64, error) {
	n := op.dyn.Dim()
	mat, err := matrix.NewMatrix(n)
	if err != nil {
		return nil, err
	}
	defer mat.Destroy()

	y := op.dyn.InitialState()
	f := make([]float64, n)
	oldSolution := make([]float64, n)

	for iter := range maxIter {
		mat.Clear()

		op.dyn.Derivative(0, y, f)
		ode.StampJacobian(op.dyn, mat, 0, y)
		for i := range f {
			mat.AddRHS(i+1, -f[i])
		}

		if err := mat.Solve(); err != nil {
			return nil, fmt.Errorf("matrix solve error: %v", err)
		}

		copy(oldSolution, y)
		delta := mat.Solution()
		for i := range y {
			y[i] += delta[i+1]
		}

		if iter > 0 && op.CheckConvergence(oldSolution, y) {
			return y, nil
		}
	}

	return nil, fmt.Errorf("failed to converge in %d iterations", maxIter)
}

func (op *OperatingPoint) storeResults(solution []float64) {
	for i, name := range op.dyn.StateNames() {
		op.results[name] = []float64{solution[i]}
	}
}
