package device

import (
	"github.com/edp1096/toy-pv/pkg/matrix"
)

type Device interface {
	GetName() string
	GetType() string
}

// Dynamic is a device whose internal state follows dy/dt = f(t, y).
type Dynamic interface {
	Device
	Dim() int
	Derivative(t float64, y, dydt []float64)
	StampJacobian(m matrix.DeviceMatrix, t float64, y []float64)
	InitialState() []float64
	StateNames() []string
}

type BaseDevice struct {
	Name string
}

func (d *BaseDevice) GetName() string {
	return d.Name
}

func NewBaseDevice(name string) *BaseDevice {
	return &BaseDevice{Name: name}
}
