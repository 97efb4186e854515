package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/coronalert/internal/config"
)

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List the regions the API reports on",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(config.ModeNetwork); err != nil {
			return err
		}
		regions, err := newService(cfg).FetchRegions(cmd.Context())
		if err != nil {
			return err
		}
		printRegionsTable(cmd.OutOrStdout(), regions)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(regionsCmd)
}
