// Package cli implements the gcp-ingest command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/blackwell-systems/gcp-ingest/internal/config"
)

const usageText = `Usage: gcp-ingest -k <api_key_file> -a enable|disable -o <org_id> -f <folder>
Or:    gcp-ingest --keyfile <api_key_file> --action enable|disable --org_id <org_id> --folder <folder>
`

// UsageError is a missing or invalid command line argument
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }

func (e *UsageError) Unwrap() error { return e.Err }

func newRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gcp-ingest",
		Short: "Enable or disable Uptycs ingestion for GCP projects in a folder",
		Long: `Enable or disable Uptycs ingestion for all GCP services of every
cloud account whose project sits directly under the given folder.

Accounts are updated one at a time. The first failed update stops the
run; accounts updated before it keep their new status.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          noArgs,
		RunE:          runIngest,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP("keyfile", "k", "", "Uptycs API key file (JSON or YAML)")
	flags.StringP("org_id", "o", "", "GCP organization id")
	flags.StringP("folder", "f", "", "display name of the folder holding the projects")
	flags.StringP("action", "a", "", "enable|disable")
	flags.String("resolver", config.ResolverUptycs, "project resolver (uptycs|crm)")
	flags.String("gcp-credentials", "", "service account key for the crm resolver (default: ADC)")
	flags.Bool("dry-run", false, "print the update payloads instead of applying them")
	flags.String("output", "json", "dry-run payload format (json|yaml)")
	flags.Duration("timeout", time.Minute, "timeout for each API call")
	flags.BoolP("verbose", "v", false, "enable debug logging")
	flags.StringSlice("extra-managed-fields", nil, "additional read-only fields to strip before update")
	flags.String("api-url", "", "override the Uptycs API base URL")
	_ = flags.MarkHidden("api-url")

	// Bind flags to viper
	for _, name := range []string{
		"keyfile", "org_id", "folder", "action", "resolver", "gcp-credentials",
		"dry-run", "output", "timeout", "verbose", "extra-managed-fields", "api-url",
	} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// noArgs is cobra.NoArgs reported as a usage error
func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return &UsageError{Err: err}
	}
	return nil
}

// Execute runs the CLI with os.Args and prints any error
func Execute(version string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return execute(ctx, newRootCmd(version), os.Args[1:], os.Stdout, os.Stderr)
}

func execute(ctx context.Context, rootCmd *cobra.Command, args []string, stdout, stderr io.Writer) error {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return nil
	}

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		fmt.Fprintf(stdout, "Error: %v\n", usageErr.Err)
		fmt.Fprint(stdout, usageText)
		return err
	}

	color.New(color.FgRed).Fprintf(stderr, "✗ %v\n", err)
	return err
}
