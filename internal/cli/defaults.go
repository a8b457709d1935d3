package cli

import (
	"github.com/spf13/cobra"

	"github.com/edp1096/toy-pv/internal/config"
)

var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print the effective configuration as YAML",
	Long: `Print the parameters a run would use: the defaults, merged with
--config when given. The output is a valid --config file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		return cfg.Write(cmd.OutOrStdout())
	},
}
