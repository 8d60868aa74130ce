package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "gcp-ingest version %s\n", cmd.Root().Version)
			fmt.Fprintln(out, "\nAPIs:")
			fmt.Fprintln(out, "  Uptycs:                 /public/api/customers/{id}/cloudAccounts, /query")
			fmt.Fprintln(out, "  Cloud Resource Manager: v3")
		},
	}
}
