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

var dsscCmd = &cobra.Command{
	Use:   "dssc",
	Short: "Dye-sensitized solar cell transient",
	Long: `Integrate the transported electron count

  dn/dt = (LI * eta_abs * eta_inj - n) / tau,  n(0) = 0

on a uniform time grid and derive I = n*eta_reg, V = Voc - I*R and P = V*I.

Examples:
  pvsim dssc
  pvsim dssc --method gear --out dssc.png
  pvsim dssc --config dssc.yaml --no-show --print`,
	Args: cobra.NoArgs,
	RunE: runDSSC,
}

var dsscMethod string

func init() {
	dsscCmd.Flags().StringVarP(&dsscMethod, "method", "m", "", "Integrator: rk4 or gear (default: from config, rk4)")
}

func runDSSC(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	method := cfg.IntegrationMethod()
	if dsscMethod != "" {
		if method, err = util.ParseIntegrationMethod(dsscMethod); err != nil {
			return err
		}
	}

	fmt.Fprintln(w, "Setting up transient analysis...")
	params := cfg.DSSCParams()
	cell := device.NewDSSC("C1", params)
	fmt.Fprintf(w, "  flux=%s  tau=%s  stop=%s  points=%d  method=%v\n",
		util.FormatMagnitude(cell.InjectedFlux()), util.FormatValueFactor(params.TransportTau, "s"),
		util.FormatValueFactor(params.TimeStop, "s"), params.TimePoints, method)

	tran := analysis.NewTransient(0, params.TimeStop, params.TimePoints, method)
	tran.SetOptions(cfg.SolverOptions())
	if err := tran.Setup(cell); err != nil {
		return fmt.Errorf("analysis setup failed: %w", err)
	}
	if err := tran.Execute(); err != nil {
		return fmt.Errorf("analysis execution failed: %w", err)
	}

	results := tran.GetResults()
	if printTable {
		printResults(w, results)
	}
	s, err := analysis.SummarizeTransient(results, tran.SteadyState())
	if err != nil {
		return err
	}
	printTransientSummary(w, s)

	fig, err := figure.DSSCPanels(results[analysis.TimeKey], results[analysis.CurrentKey],
		results[analysis.VoltageKey], results[analysis.PowerKey])
	if err != nil {
		return fmt.Errorf("building figure: %w", err)
	}
	return present(w, fig)
}

func printTransientSummary(w io.Writer, s analysis.TransientSummary) {
	fmt.Fprintln(w, "\nTransient summary:")
	fmt.Fprintf(w, "  Operating point: %s\n", util.FormatMagnitude(s.Steady))
	fmt.Fprintf(w, "  Final state:     %s\n", util.FormatMagnitude(s.Final))
	fmt.Fprintf(w, "  Peak power:      %s at %s\n",
		util.FormatValueFactor(s.PeakPower, "W"), util.FormatValueFactor(s.PeakTime, "s"))
	if s.Settled {
		fmt.Fprintf(w, "  Settling (1%%):   %s\n", util.FormatValueFactor(s.SettlingTime, "s"))
	} else {
		fmt.Fprintf(w, "  Settling (1%%):   not settled\n")
	}
}
