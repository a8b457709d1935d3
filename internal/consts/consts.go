package consts

const (
	CHARGE    = 1.6e-19  // Elementary charge (C), as used by the cell datasheet model
	BOLTZMANN = 1.38e-23 // Boltzmann constant (J/K)
	KELVIN    = 273.15   // Kelvin temperature (K)
)

// Default integrator tolerances, matching the classic LSODA defaults.
const (
	RELTOL = 1.49012e-8
	ABSTOL = 1.49012e-8
)
