// Package ingest toggles ingestion for every GCP cloud account under a
// folder: resolve projects, list accounts, filter, rewrite, PUT.
//
// Updates run one account at a time and stop at the first failure. Accounts
// already updated when a failure happens stay updated.
package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"

	"github.com/blackwell-systems/gcp-ingest/internal/account"
	"github.com/blackwell-systems/gcp-ingest/internal/projects"
	"github.com/blackwell-systems/gcp-ingest/internal/uptycs"
)

// AccountAPI is the part of the Uptycs API the runner needs
type AccountAPI interface {
	ListCloudAccounts(ctx context.Context) ([]account.CloudAccount, error)
	UpdateCloudAccount(ctx context.Context, id string, payload account.CloudAccount) error
}

// Options describes one run
type Options struct {
	OrgID              string
	Folder             string
	Action             account.Action
	DryRun             bool
	Output             Format
	ExtraManagedFields []string
}

// Summary reports what a run did
type Summary struct {
	Projects int
	Matched  int
	Updated  int
}

// UpdateError is the first failed PUT of a run
type UpdateError struct {
	Path string
	Err  error
}

func (e *UpdateError) Error() string {
	return fmt.Sprintf("error calling API %s: %v", e.Path, e.Err)
}

func (e *UpdateError) Unwrap() error { return e.Err }

// Runner wires the collaborators of a run together
type Runner struct {
	resolver projects.Resolver
	api      AccountAPI
	out      io.Writer
	logger   *slog.Logger
}

// NewRunner creates a runner printing progress to out
func NewRunner(resolver projects.Resolver, api AccountAPI, out io.Writer, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		resolver: resolver,
		api:      api,
		out:      out,
		logger:   logger,
	}
}

// Run executes opts. On an update failure the returned Summary counts the
// accounts updated before it and the error is an *UpdateError.
func (r *Runner) Run(ctx context.Context, opts Options) (Summary, error) {
	var summary Summary

	if _, err := opts.Action.Status(); err != nil {
		return summary, err
	}

	cyan := color.New(color.FgCyan)
	cyan.Fprintf(r.out, "Processing GCP projects in org_id: %s and folder: %s\n", opts.OrgID, opts.Folder)

	set, err := r.resolver.Resolve(ctx, opts.OrgID, opts.Folder)
	if err != nil {
		return summary, err
	}
	summary.Projects = set.Len()
	r.logger.Debug("resolved projects", "count", set.Len(), "projects", set.Sorted())

	accounts, err := r.api.ListCloudAccounts(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to list cloud accounts: %w", err)
	}

	matched := account.Filter(accounts, set)
	summary.Matched = len(matched)
	r.logger.Debug("filtered cloud accounts", "total", len(accounts), "matched", len(matched))

	for _, ca := range matched {
		payload, err := account.PrepareUpdate(ca, opts.Action, opts.ExtraManagedFields...)
		if err != nil {
			return summary, fmt.Errorf("failed to prepare account %s: %w", ca.ID(), err)
		}

		cyan.Fprintf(r.out, "Running %s of services for Project: %s\n", opts.Action, ca.TenantName())

		if opts.DryRun {
			color.New(color.FgYellow).Fprintf(r.out, "→ dry run, would PUT %s\n", uptycs.CloudAccountPath(ca.ID()))
			if err := Render(r.out, payload, opts.Output); err != nil {
				return summary, err
			}
			continue
		}

		if err := r.api.UpdateCloudAccount(ctx, ca.ID(), payload); err != nil {
			return summary, &UpdateError{Path: uptycs.CloudAccountPath(ca.ID()), Err: err}
		}
		summary.Updated++
	}

	color.New(color.FgGreen).Fprintf(r.out, "✓ Processing complete (%d of %d accounts updated), have a nice day.\n", summary.Updated, summary.Matched)
	return summary, nil
}
