package analysis

import (
	"fmt"
	"math"
)

// IVSummary holds the figures of merit of one I-V trace.
type IVSummary struct {
	Trace      string
	Vmp        float64 // Voltage at the maximum power point
	Imp        float64 // Current at the maximum power point
	Pmax       float64
	FillFactor float64 // Pmax / (Isc * Voc)
	NonFinite  int     // Samples that overflowed to Inf or NaN
}

// SummarizeIV scans the trace named by key against the SWEEP voltages.
// Non-finite samples are counted and skipped.
func SummarizeIV(results map[string][]float64, key string, isc, voc float64) (IVSummary, error) {
	volts, ok := results[SweepKey]
	if !ok {
		return IVSummary{}, fmt.Errorf("results have no %s trace", SweepKey)
	}
	amps, ok := results[key]
	if !ok {
		return IVSummary{}, fmt.Errorf("results have no %s trace", key)
	}
	if len(volts) != len(amps) {
		return IVSummary{}, fmt.Errorf("trace %s has %d points, sweep has %d", key, len(amps), len(volts))
	}

	s := IVSummary{Trace: key, Pmax: math.Inf(-1)}
	for i, v := range volts {
		if !isFinite(amps[i]) {
			s.NonFinite++
			continue
		}
		if p := v * amps[i]; p > s.Pmax {
			s.Vmp, s.Imp, s.Pmax = v, amps[i], p
		}
	}
	if math.IsInf(s.Pmax, -1) {
		return s, fmt.Errorf("trace %s has no finite samples", key)
	}
	if isc != 0 && voc != 0 {
		s.FillFactor = s.Pmax / (isc * voc)
	}

	return s, nil
}

// TransientSummary holds the figures of merit of a DSSC transient run.
type TransientSummary struct {
	Final        float64 // State at the last time point
	Steady       float64 // Asymptote the state is compared against
	PeakPower    float64
	PeakTime     float64
	SettlingTime float64 // First time after which the state stays within 1% of Steady
	Settled      bool
}

const settlingBand = 0.01

func SummarizeTransient(results map[string][]float64, steady float64) (TransientSummary, error) {
	times := results[TimeKey]
	states := results[StateKey]
	powers := results[PowerKey]
	if len(times) == 0 {
		return TransientSummary{}, fmt.Errorf("results have no %s trace", TimeKey)
	}
	if len(states) != len(times) || len(powers) != len(times) {
		return TransientSummary{}, fmt.Errorf("transient traces do not match the %d time points", len(times))
	}

	s := TransientSummary{
		Final:     states[len(states)-1],
		Steady:    steady,
		PeakPower: math.Inf(-1),
	}
	for i, p := range powers {
		if p > s.PeakPower {
			s.PeakPower, s.PeakTime = p, times[i]
		}
	}

	band := settlingBand * math.Abs(steady)
	for i := len(states) - 1; i >= 0; i-- {
		if math.Abs(states[i]-steady) > band {
			break
		}
		s.SettlingTime = times[i]
		s.Settled = true
	}

	return s, nil
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
