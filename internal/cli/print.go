package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/edp1096/toy-pv/pkg/analysis"
	"github.com/edp1096/toy-pv/pkg/util"
)

func getKeys(m map[string][]float64, skip string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		if k != skip {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func unitOf(name string) string {
	if len(name) < 2 || name[1] != '(' {
		return ""
	}
	switch name[0] {
	case 'V':
		return "V"
	case 'I':
		return "A"
	case 'P':
		return "W"
	default:
		return ""
	}
}

func formatTrace(name string, v float64) string {
	if unit := unitOf(name); unit != "" {
		return util.FormatValueFactor(v, unit)
	}
	return util.FormatMagnitude(v)
}

func printResults(w io.Writer, results map[string][]float64) {
	fmt.Fprintln(w, "\nAnalysis Results:")
	fmt.Fprintln(w, "================")

	// I-V sweep
	if sweep, isDC := results[analysis.SweepKey]; isDC {
		fmt.Fprintf(w, "\nI-V Sweep Results (%d points):\n", len(sweep))
		fmt.Fprintln(w, "Voltage      Currents")
		fmt.Fprintln(w, "------------------------------------------------")

		names := getKeys(results, analysis.SweepKey)
		for i, v := range sweep {
			fmt.Fprintf(w, "V=%-11s  ", util.FormatValueFactor(v, "V"))
			for _, name := range names {
				fmt.Fprintf(w, "%s=%s  ", name, formatTrace(name, results[name][i]))
			}
			fmt.Fprintln(w)
		}
		return
	}

	// Transient
	times := results[analysis.TimeKey]
	fmt.Fprintf(w, "\nTransient Analysis Results (%d time points):\n", len(times))
	fmt.Fprintln(w, "Time        State and Load")
	fmt.Fprintln(w, "------------------------------------------------")

	names := getKeys(results, analysis.TimeKey)
	for i, t := range times {
		fmt.Fprintf(w, "%11s  ", util.FormatValueFactor(t, "s"))
		for _, name := range names {
			fmt.Fprintf(w, "%s=%s  ", name, formatTrace(name, results[name][i]))
		}
		fmt.Fprintln(w)
	}
}
