package analysis

import (
	"math"

	"github.com/edp1096/toy-pv/pkg/device"
)

// Result keys shared by the analyses.
const (
	SweepKey    = "SWEEP"
	TimeKey     = "TIME"
	UnshadedKey = "I(unshaded)"
	ShadedKey   = "I(shaded)"
	StateKey    = "N(transported)"
	CurrentKey  = "I(load)"
	VoltageKey  = "V(load)"
	PowerKey    = "P(load)"
)

type Analysis interface {
	Setup(dev device.Device) error
	Execute() error
	GetResults() map[string][]float64
}

type BaseAnalysis struct {
	Device      device.Device
	results     map[string][]float64 // key: trace name, value: result by sweep point or time
	convergence struct {
		maxIter int
		abstol  float64
		reltol  float64
	}
}

func NewBaseAnalysis() *BaseAnalysis {
	ba := &BaseAnalysis{results: make(map[string][]float64)}

	ba.convergence.maxIter = 100
	ba.convergence.abstol = 1e-12
	ba.convergence.reltol = 1e-6

	return ba
}

func (a *BaseAnalysis) CheckConvergence(oldSol, newSol []float64) bool {
	if len(oldSol) != len(newSol) {
		return false
	}

	for i := range oldSol {
		diff := math.Abs(newSol[i] - oldSol[i])
		if diff > a.convergence.abstol &&
			diff > a.convergence.reltol*math.Abs(newSol[i]) {
			return false
		}
	}
	return true
}

func (a *BaseAnalysis) resetResults() {
	a.results = make(map[string][]float64)
}

func (a *BaseAnalysis) StoreTimeResult(time float64, solution map[string]float64) {
	// Ignore same time
	if times := a.results[TimeKey]; len(times) > 0 && times[len(times)-1] == time {
		return
	}
	a.store(TimeKey, time, solution)
}

func (a *BaseAnalysis) StoreSweepResult(sweepVal float64, solution map[string]float64) {
	a.store(SweepKey, sweepVal, solution)
}

func (a *BaseAnalysis) store(key string, x float64, solution map[string]float64) {
	a.results[key] = append(a.results[key], x)
	for name, value := range solution {
		a.results[name] = append(a.results[name], value)
	}
}

func (a *BaseAnalysis) GetResults() map[string][]float64 {
	return a.results
}
