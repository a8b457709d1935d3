package device

import (
	"fmt"

	"github.com/edp1096/toy-pv/pkg/matrix"
)

type DSSCParams struct {
	LightIntensity    float64 // Incident light intensity (W/m^2)
	PhotonAbsorption  float64 // Photon absorption efficiency
	ElectronInjection float64 // Electron injection efficiency
	TransportTau      float64 // Electron transport time constant (s)
	Regeneration      float64 // Dye regeneration efficiency
	LoadResistance    float64 // Load resistance (ohm)
	Voc               float64 // Open-circuit voltage (V)
	TimeStop          float64 // Simulation horizon (s)
	TimePoints        int     // Output grid points
}

func DefaultDSSCParams() DSSCParams {
	return DSSCParams{
		LightIntensity:    1000,
		PhotonAbsorption:  0.8,
		ElectronInjection: 0.9,
		TransportTau:      0.01,
		Regeneration:      0.95,
		LoadResistance:    1,
		Voc:               0.7,
		TimeStop:          10,
		TimePoints:        1000,
	}
}

// DSSC models electron transport in a dye-sensitized cell with a single
// state n, the transported electron count:
//
//	dn/dt = (LI*eta_abs*eta_inj - n) / tau
type DSSC struct {
	BaseDevice
	DSSCParams
}

func NewDSSC(name string, params DSSCParams) *DSSC {
	if params.TransportTau == 0 {
		panic(fmt.Sprintf("dssc %s: transport time constant must be non-zero", name))
	}

	return &DSSC{
		BaseDevice: *NewBaseDevice(name),
		DSSCParams: params,
	}
}

func (d *DSSC) GetType() string { return "DSSC" }

// InjectedFlux is the electron generation term, and the steady-state value of n.
func (d *DSSC) InjectedFlux() float64 {
	return d.LightIntensity * d.PhotonAbsorption * d.ElectronInjection
}

func (d *DSSC) Dim() int { return 1 }

func (d *DSSC) InitialState() []float64 { return []float64{0} }

func (d *DSSC) StateNames() []string { return []string{"N(transported)"} }

func (d *DSSC) Derivative(_ float64, y, dydt []float64) {
	dydt[0] = (d.InjectedFlux() - y[0]) / d.TransportTau
}

func (d *DSSC) StampJacobian(m matrix.DeviceMatrix, _ float64, _ []float64) {
	m.AddElement(1, 1, -1/d.TransportTau)
}

// Readout converts a transported electron count into load current,
// terminal voltage and delivered power. The load does not feed back into n.
func (d *DSSC) Readout(n float64) (current, voltage, power float64) {
	current = n * d.Regeneration
	voltage = d.Voc - current*d.LoadResistance
	power = voltage * current
	return current, voltage, power
}
