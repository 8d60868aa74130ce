package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/gcp-ingest/internal/config"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration",
		Long: `Show the configuration gcp-ingest would run with, after merging
flags, GCP_INGEST_* environment variables, the config file and defaults.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), config.Display())
			return nil
		},
	}
}
