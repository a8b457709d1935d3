package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	configPath, outPath, viewer, dsscMethod = "", "", "", ""
	noShow, printTable = false, false

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestIVCommand(t *testing.T) {
	out, err := runCLI(t, "iv", "--no-show", "--print")
	if err != nil {
		t.Fatalf("iv failed: %v\n%s", err, out)
	}

	for _, want := range []string{
		"Thermal voltage",
		"I-V Sweep Results (100 points)",
		"I(unshaded)=",
		"I(shaded)=",
		"Maximum power point",
		"Fill factor",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestDSSCCommand(t *testing.T) {
	for _, method := range []string{"rk4", "gear"} {
		t.Run(method, func(t *testing.T) {
			out, err := runCLI(t, "dssc", "--no-show", "--method", method)
			if err != nil {
				t.Fatalf("dssc failed: %v\n%s", err, out)
			}
			if !strings.Contains(out, "method="+method) {
				t.Errorf("output does not report method %s", method)
			}
			if !strings.Contains(out, "Final state:") || !strings.Contains(out, "Settling (1%):") {
				t.Errorf("output missing transient summary:\n%s", out)
			}
		})
	}
}

func TestSaveFigure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dssc.svg")
	out, err := runCLI(t, "dssc", "--out", path)
	if err != nil {
		t.Fatalf("dssc failed: %v\n%s", err, out)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Fatalf("figure not written: %v", err)
	}
	if !strings.Contains(out, "Figure saved to "+path) {
		t.Errorf("output does not report the saved figure")
	}
}

func TestConfigOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cell.yaml")
	if err := os.WriteFile(path, []byte("solar_cell:\n  points: 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "iv", "--no-show", "--print", "--config", path)
	if err != nil {
		t.Fatalf("iv failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "I-V Sweep Results (10 points)") {
		t.Errorf("config override was not applied:\n%s", out)
	}
}

func TestDSSCSolverConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solver.yaml")
	if err := os.WriteFile(path, []byte("solver:\n  max_steps: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, method := range []string{"rk4", "gear"} {
		t.Run(method, func(t *testing.T) {
			out, err := runCLI(t, "dssc", "--no-show", "--method", method, "--config", path)
			if err == nil {
				t.Fatalf("expected the step budget to be exhausted:\n%s", out)
			}
			if !strings.Contains(err.Error(), "too many steps") {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestCommandErrors(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("dssc:\n  transport_tau: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
	}{
		{"invalid config", []string{"dssc", "--no-show", "--config", bad}},
		{"missing config", []string{"iv", "--no-show", "--config", bad + ".missing"}},
		{"unknown method", []string{"dssc", "--no-show", "--method", "euler"}},
		{"unexpected argument", []string{"iv", "extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCLI(t, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestDefaultsCommand(t *testing.T) {
	out, err := runCLI(t, "defaults")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"solar_cell:", "dssc:", "method: rk4", "points: 100", "time_points: 1000"} {
		if !strings.Contains(out, want) {
			t.Errorf("defaults output missing %q:\n%s", want, out)
		}
	}
}
