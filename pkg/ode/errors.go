package ode

import (
	"errors"
	"fmt"
)

var (
	// ErrStepTooSmall indicates the adaptive step fell below the minimum.
	ErrStepTooSmall = errors.New("ode: step size below minimum")

	// ErrTooManySteps indicates an output interval needed more than MaxSteps steps.
	ErrTooManySteps = errors.New("ode: too many steps for output interval")

	// ErrNonFinite indicates the state or its derivative became NaN or Inf.
	ErrNonFinite = errors.New("ode: non-finite state")

	// ErrNewton indicates the implicit corrector did not converge.
	ErrNewton = errors.New("ode: newton iteration failed to converge")

	// ErrDimension indicates a mismatch between the system and the initial state.
	ErrDimension = errors.New("ode: dimension mismatch")

	// ErrTimeGrid indicates output times that are empty or not increasing.
	ErrTimeGrid = errors.New("ode: output times must be non-empty and strictly increasing")
)

// StepError carries the integrator position at the time of failure.
type StepError struct {
	Method string
	Time   float64
	Step   float64
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: at t=%g (h=%g): %v", e.Method, e.Time, e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
