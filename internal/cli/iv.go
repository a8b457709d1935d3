package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/edp1096/toy-pv/internal/config"
	"github.com/edp1096/toy-pv/pkg/analysis"
	"github.com/edp1096/toy-pv/pkg/device"
	"github.com/edp1096/toy-pv/pkg/figure"
	"github.com/edp1096/toy-pv/pkg/util"
)

var ivCmd = &cobra.Command{
	Use:   "iv",
	Short: "Solar cell I-V curves with and without partial shading",
	Long: `Sweep the cell voltage from 0 to Voc and evaluate

  I = Isc * (1 - exp(V/Vt - 1)),  Vt = n*k*T/q

once with full illumination and once with Isc scaled by the shading
factor on the upper half of the sweep.

Examples:
  pvsim iv
  pvsim iv --config cell.yaml --out iv.svg
  pvsim iv --no-show --print`,
	Args: cobra.NoArgs,
	RunE: runIV,
}

func runIV(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Setting up I-V sweep...")
	cell := device.NewSolarCell("PV1", cfg.SolarCellParams())
	fmt.Fprintf(w, "  Isc=%s  Voc=%s  n=%g  T=%gK  points=%d  shading=%g\n",
		util.FormatValueFactor(cell.Isc, "A"), util.FormatValueFactor(cell.Voc, "V"),
		cell.N, cell.Temp, cell.Points, cell.ShadingFactor)
	fmt.Fprintf(w, "  Thermal voltage: %s\n", util.FormatValueFactor(cell.ThermalVoltage(), "V"))

	sweep := analysis.NewIVSweep()
	if err := sweep.Setup(cell); err != nil {
		return fmt.Errorf("analysis setup failed: %w", err)
	}
	if err := sweep.Execute(); err != nil {
		return fmt.Errorf("analysis execution failed: %w", err)
	}

	results := sweep.GetResults()
	if printTable {
		printResults(w, results)
	}
	for _, key := range []string{analysis.UnshadedKey, analysis.ShadedKey} {
		s, err := analysis.SummarizeIV(results, key, cell.Isc, cell.Voc)
		if err != nil {
			fmt.Fprintf(w, "%s: %v\n", key, err)
			continue
		}
		printIVSummary(w, s)
	}

	fig, err := figure.IVCurves(results[analysis.SweepKey], results[analysis.UnshadedKey], results[analysis.ShadedKey])
	if err != nil {
		return fmt.Errorf("building figure: %w", err)
	}
	return present(w, fig)
}

func printIVSummary(w io.Writer, s analysis.IVSummary) {
	fmt.Fprintf(w, "\n%s:\n", s.Trace)
	fmt.Fprintf(w, "  Maximum power point: V=%s I=%s P=%s\n",
		util.FormatValueFactor(s.Vmp, "V"), util.FormatValueFactor(s.Imp, "A"), util.FormatValueFactor(s.Pmax, "W"))
	fmt.Fprintf(w, "  Fill factor: %s\n", util.FormatPercent(s.FillFactor))
	if s.NonFinite > 0 {
		fmt.Fprintf(w, "  Overflowed samples: %d\n", s.NonFinite)
	}
}

// present saves the figure when --out is set, otherwise shows it unless
// --no-show is set.
func present(w io.Writer, fig *figure.Figure) error {
	if outPath != "" {
		if err := figure.Save(fig, outPath); err != nil {
			return err
		}
		fmt.Fprintf(w, "\nFigure saved to %s\n", outPath)
		return nil
	}
	if noShow {
		return nil
	}
	return figure.ShowWith(fig, viewer)
}
