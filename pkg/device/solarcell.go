package device

import (
	"fmt"
	"math"

	"github.com/edp1096/toy-pv/internal/consts"
)

type SolarCellParams struct {
	Isc           float64 // Short-circuit current (A)
	Voc           float64 // Open-circuit voltage (V)
	N             float64 // Ideality factor
	Temp          float64 // Cell temperature (K)
	Boltzmann     float64 // Boltzmann constant (J/K)
	Charge        float64 // Elementary charge (C)
	Points        int     // Voltage sweep points
	ShadingFactor float64 // Isc multiplier on the shaded half of the sweep
}

func DefaultSolarCellParams() SolarCellParams {
	return SolarCellParams{
		Isc:           5.0,
		Voc:           0.6,
		N:             1.3,
		Temp:          300,
		Boltzmann:     consts.BOLTZMANN,
		Charge:        consts.CHARGE,
		Points:        100,
		ShadingFactor: 0.5,
	}
}

// SolarCell evaluates I = Isc*(1 - exp(V/Vt - 1)) with Vt = n*k*T/q.
type SolarCell struct {
	BaseDevice
	SolarCellParams

	vt float64
}

func NewSolarCell(name string, params SolarCellParams) *SolarCell {
	if params.Charge == 0 {
		panic(fmt.Sprintf("solar cell %s: elementary charge must be non-zero", name))
	}

	c := &SolarCell{
		BaseDevice:      *NewBaseDevice(name),
		SolarCellParams: params,
	}
	c.vt = c.thermalVoltage()
	return c
}

func (c *SolarCell) GetType() string { return "PV" }

func (c *SolarCell) thermalVoltage() float64 {
	return c.N * c.Boltzmann * c.Temp / c.Charge
}

func (c *SolarCell) ThermalVoltage() float64 {
	return c.vt
}

// Current is the cell current at voltage v for a short-circuit current isc.
// Overflow of the exponential is returned as is.
func (c *SolarCell) Current(v, isc float64) float64 {
	return isc * (1 - math.Exp(v/c.vt-1))
}

// ShadingStart is the first sweep index on the shaded half.
func (c *SolarCell) ShadingStart() int {
	return c.Points / 2
}

// IscAt returns the short-circuit current seen by sweep sample idx.
func (c *SolarCell) IscAt(idx int) float64 {
	if idx >= c.ShadingStart() {
		return c.Isc * c.ShadingFactor
	}
	return c.Isc
}
