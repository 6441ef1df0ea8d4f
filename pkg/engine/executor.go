package engine

import (
	"context"
	"fmt"

	"github.com/vcs2git/vcs2git/pkg/classify"
	"github.com/vcs2git/vcs2git/pkg/display"
	"github.com/vcs2git/vcs2git/pkg/gitx"
	"github.com/vcs2git/vcs2git/pkg/logging"
)

// executor applies the classified operations in deterministic order:
// adds, then updates, then removals. It records every addition it started
// so the rollback coordinator can undo partially created entries.
type executor struct {
	host     *gitx.Host
	opts     Options
	progress *display.Progress

	// completedNew holds every addition whose registration was created
	// during this run, including the one that failed mid-way.
	completedNew []classify.NewEntry
}

// apply runs all three operation classes. The first failure stops the run
// and propagates; by then completedNew already includes the failing entry.
func (e *executor) apply(ctx context.Context, result classify.Result) error {
	logger := logging.GetLogger("engine.executor")

	for _, entry := range result.New {
		if e.opts.DryRun {
			e.progress.Println(fmt.Sprintf("[DRY RUN] Would add %s", entry.Path))
			e.progress.Increment()
			continue
		}

		e.progress.Describe(fmt.Sprintf("Adding %s", entry.Path))
		err := e.addOne(ctx, entry)
		// The registration is created before the clone, so even a failed
		// add must be undone by rollback.
		e.completedNew = append(e.completedNew, entry)
		if err != nil {
			logger.Error().Err(err).Str("path", entry.Path).Msg("Failed to add submodule")
			return err
		}
		e.progress.Increment()
	}

	if !e.opts.SkipExisting {
		for _, entry := range result.Updated {
			if e.opts.DryRun {
				e.progress.Println(fmt.Sprintf("[DRY RUN] Would update %s", entry.Path))
				e.progress.Increment()
				continue
			}

			e.progress.Describe(fmt.Sprintf("Updating %s", entry.Path))
			if err := e.updateOne(ctx, entry); err != nil {
				logger.Error().Err(err).Str("path", entry.Path).Msg("Failed to update submodule")
				return err
			}
			e.progress.Increment()
		}
	} else {
		for _, entry := range result.Updated {
			e.progress.Println(fmt.Sprintf("Skip existing %s", entry.Path))
		}
	}

	if e.opts.SyncSelection {
		for _, entry := range result.Removed {
			if e.opts.DryRun {
				e.progress.Println(fmt.Sprintf("[DRY RUN] Would remove %s", entry.Path))
			} else {
				e.progress.Describe(fmt.Sprintf("Removing %s", entry.Path))
				if err := e.host.RemoveSubmodule(entry.Name, entry.Path); err != nil {
					logger.Error().Err(err).Str("path", entry.Path).Msg("Failed to remove submodule")
					return err
				}
			}
			e.progress.Increment()
		}
	}

	return nil
}

// addOne registers, clones, synchronizes, and finalizes one new submodule.
// Submodules are named by their full path, the same key git uses when
// adding by path.
func (e *executor) addOne(ctx context.Context, entry classify.NewEntry) error {
	if err := e.host.AddSubmodule(ctx, entry.Path, entry.Path, entry.Spec.URL); err != nil {
		return err
	}

	sub, err := e.host.OpenSubmodule(entry.Path)
	if err != nil {
		return err
	}
	if err := gitx.Fetch(ctx, sub, entry.Spec.URL); err != nil {
		return err
	}
	if err := gitx.CheckoutVersion(sub, entry.Spec.Version, !e.opts.NoCheckout); err != nil {
		return err
	}

	return e.host.FinalizeSubmodule(entry.Path)
}

// updateOne rewrites the recorded URL, then synchronizes the existing
// submodule exactly like an add, without creating anything.
func (e *executor) updateOne(ctx context.Context, entry classify.UpdatedEntry) error {
	if err := e.host.SetSubmoduleURL(entry.Name, entry.Path, entry.Spec.URL); err != nil {
		return err
	}

	sub, err := e.host.OpenSubmodule(entry.Path)
	if err != nil {
		return err
	}
	if err := gitx.Fetch(ctx, sub, entry.Spec.URL); err != nil {
		return err
	}
	if err := gitx.CheckoutVersion(sub, entry.Spec.Version, !e.opts.NoCheckout); err != nil {
		return err
	}

	return e.host.FinalizeSubmodule(entry.Path)
}
