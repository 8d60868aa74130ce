package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"google.golang.org/api/option"

	"github.com/blackwell-systems/gcp-ingest/internal/account"
	"github.com/blackwell-systems/gcp-ingest/internal/config"
	"github.com/blackwell-systems/gcp-ingest/internal/ingest"
	"github.com/blackwell-systems/gcp-ingest/internal/keyfile"
	"github.com/blackwell-systems/gcp-ingest/internal/logs"
	"github.com/blackwell-systems/gcp-ingest/internal/projects"
	"github.com/blackwell-systems/gcp-ingest/internal/uptycs"
)

func runIngest(cmd *cobra.Command, args []string) error {
	// Load configuration (Viper resolves behind the scenes)
	cfg, err := config.Load()
	if err != nil {
		return &UsageError{Err: err}
	}

	action, err := account.ParseAction(cfg.Action)
	if err != nil {
		return &UsageError{Err: err}
	}
	output, err := ingest.ParseFormat(cfg.Output)
	if err != nil {
		return &UsageError{Err: err}
	}

	logger := logs.ConsoleLogger(cmd.ErrOrStderr(), cfg.Verbose)

	key, err := keyfile.Load(cfg.KeyFile)
	if err != nil {
		return err
	}

	var client *uptycs.Client
	if apiURL := viper.GetString("api-url"); apiURL != "" {
		client = uptycs.New(apiURL, key.Key, key.Secret, cfg.Timeout, logger)
	} else {
		client = uptycs.NewFromKey(key, cfg.Timeout, logger)
	}

	resolver, err := newResolver(cmd.Context(), cfg, client, logger)
	if err != nil {
		return err
	}

	runner := ingest.NewRunner(resolver, client, cmd.OutOrStdout(), logger)
	summary, err := runner.Run(cmd.Context(), ingest.Options{
		OrgID:              cfg.OrgID,
		Folder:             cfg.Folder,
		Action:             action,
		DryRun:             cfg.DryRun,
		Output:             output,
		ExtraManagedFields: cfg.ExtraManagedFields,
	})
	logger.Debug("run finished",
		slog.Int("projects", summary.Projects),
		slog.Int("matched", summary.Matched),
		slog.Int("updated", summary.Updated),
	)
	return err
}

func newResolver(ctx context.Context, cfg *config.Config, client *uptycs.Client, logger *slog.Logger) (projects.Resolver, error) {
	switch cfg.Resolver {
	case config.ResolverCRM:
		var opts []option.ClientOption
		if cfg.GCPCredentials != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.GCPCredentials))
		}
		return projects.NewCRMResolver(ctx, logger, opts...)
	case config.ResolverUptycs:
		return projects.NewQueryResolver(client), nil
	default:
		return nil, fmt.Errorf("unknown resolver %q", cfg.Resolver)
	}
}
