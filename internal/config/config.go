package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/edp1096/toy-pv/internal/consts"
	"github.com/edp1096/toy-pv/pkg/device"
	"github.com/edp1096/toy-pv/pkg/ode"
	"github.com/edp1096/toy-pv/pkg/util"
)

// Config is the on-disk configuration shape (YAML). Fields left out of the
// file keep their defaults.
type Config struct {
	SolarCell SolarCellConfig `yaml:"solar_cell"`
	DSSC      DSSCConfig      `yaml:"dssc"`
	Method    string          `yaml:"method"`
	Solver    SolverConfig    `yaml:"solver,omitempty"`
}

type SolarCellConfig struct {
	Isc       Quantity `yaml:"isc"`
	Voc       Quantity `yaml:"voc"`
	Ideality  Quantity `yaml:"ideality"`
	Temp      Quantity `yaml:"temperature"`
	Boltzmann Quantity `yaml:"boltzmann"`
	Charge    Quantity `yaml:"charge"`
	Points    int      `yaml:"points"`
	Shading   Quantity `yaml:"shading_factor"`

	// Optional: temperature in Celsius. Overrides temperature when set.
	TempC *Quantity `yaml:"temperature_c,omitempty"`
}

type DSSCConfig struct {
	LightIntensity    Quantity `yaml:"light_intensity"`
	PhotonAbsorption  Quantity `yaml:"photon_absorption"`
	ElectronInjection Quantity `yaml:"electron_injection"`
	TransportTau      Quantity `yaml:"transport_tau"`
	Regeneration      Quantity `yaml:"regeneration"`
	LoadResistance    Quantity `yaml:"load_resistance"`
	Voc               Quantity `yaml:"voc"`
	TimeStop          Quantity `yaml:"time_stop"`
	TimePoints        int      `yaml:"time_points"`
}

// SolverConfig tunes the DSSC integrator. Zero fields keep the defaults of
// the selected method.
type SolverConfig struct {
	RelTol   Quantity `yaml:"rtol,omitempty"`
	AbsTol   Quantity `yaml:"atol,omitempty"`
	MaxSteps int      `yaml:"max_steps,omitempty"`
}

// Quantity is a float that also accepts SPICE scale suffixes in YAML,
// e.g. "600m", "10ms", "1k".
type Quantity float64

func (q *Quantity) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a number, got a %s", value.Line, nodeKind(value.Kind))
	}
	v, err := util.ParseValue(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*q = Quantity(v)
	return nil
}

func (q Quantity) MarshalYAML() (any, error) {
	return float64(q), nil
}

func nodeKind(k yaml.Kind) string {
	switch k {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.AliasNode:
		return "alias"
	default:
		return "document"
	}
}

func Default() *Config {
	sc := device.DefaultSolarCellParams()
	ds := device.DefaultDSSCParams()

	return &Config{
		SolarCell: SolarCellConfig{
			Isc:       Quantity(sc.Isc),
			Voc:       Quantity(sc.Voc),
			Ideality:  Quantity(sc.N),
			Temp:      Quantity(sc.Temp),
			Boltzmann: Quantity(sc.Boltzmann),
			Charge:    Quantity(sc.Charge),
			Points:    sc.Points,
			Shading:   Quantity(sc.ShadingFactor),
		},
		DSSC: DSSCConfig{
			LightIntensity:    Quantity(ds.LightIntensity),
			PhotonAbsorption:  Quantity(ds.PhotonAbsorption),
			ElectronInjection: Quantity(ds.ElectronInjection),
			TransportTau:      Quantity(ds.TransportTau),
			Regeneration:      Quantity(ds.Regeneration),
			LoadResistance:    Quantity(ds.LoadResistance),
			Voc:               Quantity(ds.Voc),
			TimeStop:          Quantity(ds.TimeStop),
			TimePoints:        ds.TimePoints,
		},
		Method: util.RungeKuttaMethod.String(),
	}
}

// Load reads path on top of the defaults and validates the result.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config %s invalid: %w", path, err)
	}
	return c, nil
}

// LoadUnchecked merges path onto the defaults but does not validate it.
func LoadUnchecked(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if c.SolarCell.TempC != nil {
		c.SolarCell.Temp = *c.SolarCell.TempC + consts.KELVIN
		c.SolarCell.TempC = nil
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	sc := c.SolarCell
	if sc.Points < 2 {
		return fmt.Errorf("solar_cell.points must be at least 2, got %d", sc.Points)
	}
	if sc.Charge <= 0 {
		return fmt.Errorf("solar_cell.charge must be positive, got %g", sc.Charge)
	}
	if sc.Shading < 0 || sc.Shading > 1 {
		return fmt.Errorf("solar_cell.shading_factor must be in [0, 1], got %g", sc.Shading)
	}

	ds := c.DSSC
	if ds.TimePoints < 2 {
		return fmt.Errorf("dssc.time_points must be at least 2, got %d", ds.TimePoints)
	}
	if ds.TimeStop <= 0 {
		return fmt.Errorf("dssc.time_stop must be positive, got %g", ds.TimeStop)
	}
	if ds.TransportTau == 0 {
		return errors.New("dssc.transport_tau must be non-zero")
	}

	if _, err := util.ParseIntegrationMethod(c.Method); err != nil {
		return err
	}

	sv := c.Solver
	if sv.RelTol < 0 || sv.AbsTol < 0 {
		return fmt.Errorf("solver tolerances must not be negative, got rtol=%g atol=%g", sv.RelTol, sv.AbsTol)
	}
	if sv.MaxSteps < 0 {
		return fmt.Errorf("solver.max_steps must not be negative, got %d", sv.MaxSteps)
	}
	return nil
}

func (c *Config) SolarCellParams() device.SolarCellParams {
	sc := c.SolarCell
	return device.SolarCellParams{
		Isc:           float64(sc.Isc),
		Voc:           float64(sc.Voc),
		N:             float64(sc.Ideality),
		Temp:          float64(sc.Temp),
		Boltzmann:     float64(sc.Boltzmann),
		Charge:        float64(sc.Charge),
		Points:        sc.Points,
		ShadingFactor: float64(sc.Shading),
	}
}

func (c *Config) DSSCParams() device.DSSCParams {
	ds := c.DSSC
	return device.DSSCParams{
		LightIntensity:    float64(ds.LightIntensity),
		PhotonAbsorption:  float64(ds.PhotonAbsorption),
		ElectronInjection: float64(ds.ElectronInjection),
		TransportTau:      float64(ds.TransportTau),
		Regeneration:      float64(ds.Regeneration),
		LoadResistance:    float64(ds.LoadResistance),
		Voc:               float64(ds.Voc),
		TimeStop:          float64(ds.TimeStop),
		TimePoints:        ds.TimePoints,
	}
}

func (c *Config) IntegrationMethod() util.IntegrationMethod {
	m, err := util.ParseIntegrationMethod(c.Method)
	if err != nil {
		return util.RungeKuttaMethod
	}
	return m
}

func (c *Config) SolverOptions() ode.Options {
	return ode.Options{
		RelTol:   float64(c.Solver.RelTol),
		AbsTol:   float64(c.Solver.AbsTol),
		MaxSteps: c.Solver.MaxSteps,
	}
}

// Write encodes the config as YAML.
func (c *Config) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}
