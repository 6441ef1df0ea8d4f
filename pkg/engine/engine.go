package engine

import (
	"context"
	"os"
	"path"

	"github.com/vcs2git/vcs2git/pkg/classify"
	"github.com/vcs2git/vcs2git/pkg/display"
	"github.com/vcs2git/vcs2git/pkg/errors"
	"github.com/vcs2git/vcs2git/pkg/gitx"
	"github.com/vcs2git/vcs2git/pkg/logging"
	"github.com/vcs2git/vcs2git/pkg/repos"
	"github.com/vcs2git/vcs2git/pkg/selector"
	"github.com/vcs2git/vcs2git/pkg/snapshot"
	"github.com/vcs2git/vcs2git/pkg/validate"
)

// Options are the run flags the engine consumes.
type Options struct {
	File   *repos.File
	Prefix string

	Only   []string
	Ignore []string

	NoCheckout    bool
	SkipExisting  bool
	SyncSelection bool
	DryRun        bool
}

// Run reconciles the declared repository list against the registered
// submodules of host. The pipeline is validate, select, classify,
// snapshot, execute; any execution failure triggers a full rollback and
// the run reports RolledBack. The whole run is sequential and
// deterministic: within each class operations happen in path order, and
// the classes run add, update, remove.
func Run(ctx context.Context, host *gitx.Host, opts Options) (Outcome, error) {
	logger := logging.GetLogger("engine")

	if err := repos.ValidatePrefix(opts.Prefix); err != nil {
		return OutcomeUnknown, err
	}
	if err := repos.Validate(opts.File, opts.Prefix); err != nil {
		return OutcomeUnknown, err
	}

	if err := validate.HostClean(host); err != nil {
		return OutcomeUnknown, err
	}
	logger.Info().Msg("Checking existing submodule states...")
	if err := validate.SubmoduleStates(host); err != nil {
		return OutcomeUnknown, err
	}
	logger.Info().Msg("All validation checks passed.")

	selected, err := selector.Select(opts.File.Paths(), opts.Only, opts.Ignore)
	if err != nil {
		return OutcomeUnknown, err
	}

	desired := make(map[string]repos.Spec, len(selected))
	for _, rel := range selected {
		spec, _ := opts.File.Get(rel)
		desired[path.Join(opts.Prefix, rel)] = spec
	}

	registered, err := host.Submodules()
	if err != nil {
		return OutcomeUnknown, err
	}
	registeredPaths := make(map[string]string, len(registered))
	for _, reg := range registered {
		registeredPaths[reg.Path] = reg.Name
	}

	result := classify.Classify(desired, registeredPaths, opts.Prefix)

	total := len(result.New)
	if !opts.SkipExisting {
		total += len(result.Updated)
	}
	if opts.SyncSelection {
		total += len(result.Removed)
	}
	if total == 0 {
		logger.Info().Msg("No operations to perform - all repositories are up to date")
		return successOutcome(opts.DryRun), nil
	}

	if !opts.DryRun {
		if err := os.MkdirAll(host.Abs(opts.Prefix), 0755); err != nil {
			return OutcomeUnknown, errors.Wrapf(err, errors.ErrVcsOperation,
				"cannot create prefix directory %s", opts.Prefix)
		}
	}

	// Captured before any mutation; consumed only by rollback.
	snap, err := snapshot.Capture(host)
	if err != nil {
		return OutcomeUnknown, err
	}

	exec := &executor{
		host:     host,
		opts:     opts,
		progress: display.NewProgress(total),
	}

	if runErr := exec.apply(ctx, result); runErr != nil {
		if opts.DryRun {
			// Dry runs never mutate, so there is nothing to roll back.
			return OutcomeUnknown, runErr
		}

		rbErr := rollback(ctx, host, snap, exec.completedNew)
		wrapped := errors.Wrap(runErr, errors.GetErrorCode(runErr),
			"operation failed and was rolled back")
		if rbErr != nil {
			wrapped = errors.Wrapf(runErr, errors.ErrRollback,
				"operation failed and rollback could not fully complete: %v", rbErr)
		}
		return RolledBack, wrapped
	}

	if !opts.SyncSelection {
		for _, entry := range result.Removed {
			logger.Info().Str("path", entry.Path).Msg("Found extra submodule")
		}
	}

	exec.progress.Finish("All operations completed successfully!")
	return successOutcome(opts.DryRun), nil
}

func successOutcome(dryRun bool) Outcome {
	if dryRun {
		return AppliedDryRun
	}
	return AppliedAndCommitted
}
