package figure

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Figure is a grid of plots drawn onto one canvas.
type Figure struct {
	Width  vg.Length
	Height vg.Length
	Plots  [][]*plot.Plot // [row][col]
}

func newFigure(widthIn, heightIn float64, rows, cols int) *Figure {
	plots := make([][]*plot.Plot, rows)
	for j := range plots {
		plots[j] = make([]*plot.Plot, cols)
	}
	return &Figure{
		Width:  vg.Length(widthIn) * vg.Inch,
		Height: vg.Length(heightIn) * vg.Inch,
		Plots:  plots,
	}
}

// Render draws the figure in the given format: png, svg, pdf, eps, jpg or tif.
func (f *Figure) Render(w io.Writer, format string) error {
	c, err := draw.NewFormattedCanvas(f.Width, f.Height, strings.ToLower(format))
	if err != nil {
		return err
	}
	dc := draw.New(c)

	if len(f.Plots) == 1 && len(f.Plots[0]) == 1 {
		f.Plots[0][0].Draw(dc)
	} else {
		tiles := draw.Tiles{
			Rows:      len(f.Plots),
			Cols:      len(f.Plots[0]),
			PadX:      vg.Millimeter * 4,
			PadY:      vg.Millimeter * 4,
			PadTop:    vg.Millimeter * 2,
			PadBottom: vg.Millimeter * 2,
			PadLeft:   vg.Millimeter * 2,
			PadRight:  vg.Millimeter * 2,
		}
		canvases := plot.Align(f.Plots, tiles, dc)
		for j := range f.Plots {
			for i, p := range f.Plots[j] {
				if p != nil {
					p.Draw(canvases[j][i])
				}
			}
		}
	}

	if _, err := c.WriteTo(w); err != nil {
		return fmt.Errorf("cannot write %s: %w", format, err)
	}
	return nil
}

// Save writes the figure to path in the format named by its extension.
func Save(fig *Figure, path string) error {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if format == "" {
		return fmt.Errorf("cannot infer image format from %q", path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cannot create directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", path, err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if err := fig.Render(bw, format); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("cannot write %s: %w", path, err)
	}
	return f.Close()
}

// Show renders the figure to a temporary PNG and opens it with the
// platform image viewer, blocking until the viewer command returns.
func Show(fig *Figure) error {
	return ShowWith(fig, "")
}

// ShowWith is Show with an explicit viewer command line. The image path is
// appended as the last argument. An empty viewer selects the platform default.
// The temporary image is removed once a blocking viewer exits; xdg-open
// returns before the image is read, so its file is left behind.
func ShowWith(fig *Figure, viewer string) error {
	args, blocks := strings.Fields(viewer), true
	if len(args) == 0 {
		args, blocks = defaultViewer()
	}
	if _, err := exec.LookPath(args[0]); err != nil {
		return fmt.Errorf("viewer %q not found: %w", args[0], err)
	}

	f, err := os.CreateTemp("", "pvsim-*.png")
	if err != nil {
		return fmt.Errorf("cannot create temporary image: %w", err)
	}
	if err := fig.Render(f, "png"); err != nil {
		f.Close()
		os.Remove(f.Name())
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return err
	}
	if blocks {
		defer os.Remove(f.Name())
	}

	cmd := exec.Command(args[0], append(args[1:], f.Name())...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("viewer %s failed: %w", args[0], err)
	}
	return nil
}

// defaultViewer reports the platform viewer and whether it waits for the
// window to close.
func defaultViewer() ([]string, bool) {
	switch runtime.GOOS {
	case "windows":
		return []string{"cmd", "/c", "start", "/wait", ""}, true
	case "darwin":
		return []string{"open", "-W"}, true
	default:
		return []string{"xdg-open"}, false
	}
}

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Legend.Top = true
	p.Add(plotter.NewGrid())
	return p
}

// addLine plots ys against xs. Samples where either coordinate is not
// finite are left out of the line.
func addLine(p *plot.Plot, label string, xs, ys []float64, style func(*plotter.Line)) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("%s: %d x values for %d y values", label, len(xs), len(ys))
	}

	pts := make(plotter.XYs, 0, len(xs))
	for i := range xs {
		if isFinite(xs[i]) && isFinite(ys[i]) {
			pts = append(pts, plotter.XY{X: xs[i], Y: ys[i]})
		}
	}
	if len(pts) == 0 {
		return nil
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}
	line.LineStyle.Width = vg.Points(1.5)
	if style != nil {
		style(line)
	}
	p.Add(line)
	p.Legend.Add(label, line)
	return nil
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
