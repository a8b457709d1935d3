package figure

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"gonum.org/v1/gonum/floats"
)

func ivData() (volts, unshaded, shaded []float64) {
	volts = floats.Span(make([]float64, 100), 0, 0.6)
	unshaded = make([]float64, 100)
	shaded = make([]float64, 100)
	for i, v := range volts {
		unshaded[i] = 5 * (1 - math.Exp(v/0.0336-1))
		shaded[i] = unshaded[i]
		if i >= 50 {
			shaded[i] /= 2
		}
	}
	return volts, unshaded, shaded
}

func dsscData() (times, current, voltage, power []float64) {
	times = floats.Span(make([]float64, 200), 0, 1)
	current = make([]float64, len(times))
	voltage = make([]float64, len(times))
	power = make([]float64, len(times))
	for i, t := range times {
		current[i] = 684 * (1 - math.Exp(-t/0.01))
		voltage[i] = 0.7 - current[i]
		power[i] = voltage[i] * current[i]
	}
	return times, current, voltage, power
}

func TestIVCurvesLayout(t *testing.T) {
	fig, err := IVCurves(ivData())
	if err != nil {
		t.Fatal(err)
	}

	if len(fig.Plots) != 1 || len(fig.Plots[0]) != 1 {
		t.Fatalf("expected a single plot, got %dx%d", len(fig.Plots), len(fig.Plots[0]))
	}
	p := fig.Plots[0][0]
	if p.Title.Text != "I-V Characteristics of Solar Cell with and without Partial Shading" {
		t.Errorf("unexpected title %q", p.Title.Text)
	}
	if p.X.Label.Text != "Voltage (V)" || p.Y.Label.Text != "Current (I)" {
		t.Errorf("unexpected axis labels %q / %q", p.X.Label.Text, p.Y.Label.Text)
	}
	if fig.Width != 10*72 || fig.Height != 6*72 {
		t.Errorf("expected a 10x6 in figure, got %v x %v", fig.Width, fig.Height)
	}
}

func TestDSSCPanelsLayout(t *testing.T) {
	fig, err := DSSCPanels(dsscData())
	if err != nil {
		t.Fatal(err)
	}

	want := [2][2]string{
		{"Current vs Time", "Voltage vs Time"},
		{"Current vs Voltage", "Power vs Voltage"},
	}
	for j := range want {
		for i := range want[j] {
			if got := fig.Plots[j][i].Title.Text; got != want[j][i] {
				t.Errorf("panel (%d,%d): title %q, want %q", j, i, got, want[j][i])
			}
		}
	}
	if fig.Plots[1][1].Y.Label.Text != "Power (W)" {
		t.Errorf("unexpected power axis label %q", fig.Plots[1][1].Y.Label.Text)
	}
	if fig.Width != 12*72 || fig.Height != 6*72 {
		t.Errorf("expected a 12x6 in figure, got %v x %v", fig.Width, fig.Height)
	}
}

func TestRenderFormats(t *testing.T) {
	iv, err := IVCurves(ivData())
	if err != nil {
		t.Fatal(err)
	}
	panels, err := DSSCPanels(dsscData())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		fig    *Figure
		format string
		marker string
	}{
		{"iv/png", iv, "png", "\x89PNG"},
		{"iv/svg", iv, "svg", "<svg"},
		{"dssc/png", panels, "png", "\x89PNG"},
		{"dssc/pdf", panels, "PDF", "%PDF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tt.fig.Render(&buf, tt.format); err != nil {
				t.Fatalf("render: %v", err)
			}
			if !strings.Contains(buf.String()[:min(buf.Len(), 512)], tt.marker) {
				t.Errorf("output header has no %q", tt.marker)
			}
		})
	}

	if err := iv.Render(&bytes.Buffer{}, "bmp"); err == nil {
		t.Error("expected error for an unsupported format")
	}
}

func TestNonFiniteSamplesAreSkipped(t *testing.T) {
	volts, unshaded, shaded := ivData()
	unshaded[99] = math.Inf(-1)
	shaded[98] = math.NaN()

	fig, err := IVCurves(volts, unshaded, shaded)
	if err != nil {
		t.Fatalf("non-finite samples should not fail the plot: %v", err)
	}
	if err := fig.Render(&bytes.Buffer{}, "png"); err != nil {
		t.Fatal(err)
	}
}

func TestMismatchedLengths(t *testing.T) {
	volts, unshaded, shaded := ivData()
	if _, err := IVCurves(volts, unshaded[:10], shaded); err == nil {
		t.Error("expected error for mismatched I-V lengths")
	}

	times, current, voltage, power := dsscData()
	if _, err := DSSCPanels(times, current, voltage, power[:3]); err == nil {
		t.Error("expected error for mismatched DSSC lengths")
	}
}

func TestSave(t *testing.T) {
	fig, err := IVCurves(ivData())
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "out", "iv.svg")
	if err := Save(fig, path); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("saved file is empty")
	}

	if err := Save(fig, filepath.Join(t.TempDir(), "iv")); err == nil {
		t.Error("expected error for a path without extension")
	}
}

func TestShowWithViewer(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses unix true/false")
	}

	fig, err := IVCurves(ivData())
	if err != nil {
		t.Fatal(err)
	}

	if err := ShowWith(fig, "true"); err != nil {
		t.Errorf("viewer returning 0 should succeed: %v", err)
	}
	if err := ShowWith(fig, "false"); err == nil {
		t.Error("expected error from a failing viewer")
	}
	if err := ShowWith(fig, "pvsim-no-such-viewer"); err == nil {
		t.Error("expected error for a missing viewer")
	}
}

func TestShowWithRemovesImage(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses unix true/false")
	}

	fig, err := IVCurves(ivData())
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	t.Setenv("TMPDIR", dir)

	for _, viewer := range []string{"true", "false"} {
		_ = ShowWith(fig, viewer)
		left, err := filepath.Glob(filepath.Join(dir, "pvsim-*.png"))
		if err != nil {
			t.Fatal(err)
		}
		if len(left) != 0 {
			t.Errorf("viewer %q left %v behind", viewer, left)
		}
	}
}

func TestDefaultViewer(t *testing.T) {
	args, blocks := defaultViewer()
	if len(args) == 0 {
		t.Fatal("no default viewer")
	}
	if wantBlocks := runtime.GOOS == "windows" || runtime.GOOS == "darwin"; blocks != wantBlocks {
		t.Errorf("%s viewer %v: blocks=%v, want %v", runtime.GOOS, args, blocks, wantBlocks)
	}
}
