package cli

import (
	"log"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pvsim",
	Short: "Photovoltaic I-V and DSSC transient simulator",
	Long: `pvsim characterizes photovoltaic devices with two independent pipelines.

  iv    sweeps a solar cell from 0 to Voc with and without partial shading
  dssc  integrates electron transport in a dye-sensitized solar cell and
        derives load current, voltage and power over time

Both end by showing the figure in an image viewer unless --out or
--no-show is given.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Flags
var (
	configPath string
	outPath    string
	noShow     bool
	printTable bool
	viewer     string
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

func init() {
	log.SetFlags(0)
	log.SetPrefix("pvsim: ")

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "YAML file overriding the default parameters")
	pf.StringVarP(&outPath, "out", "o", "", "Save the figure to this file (png, svg, pdf, eps) instead of showing it")
	pf.BoolVar(&noShow, "no-show", false, "Do not open the figure")
	pf.BoolVarP(&printTable, "print", "p", false, "Print the full result table")
	pf.StringVar(&viewer, "viewer", "", "Image viewer command (default: platform viewer)")

	rootCmd.AddCommand(ivCmd)
	rootCmd.AddCommand(dsscCmd)
	rootCmd.AddCommand(defaultsCmd)
}
