package engine

import (
	"context"
	"os"

	"github.com/vcs2git/vcs2git/pkg/classify"
	"github.com/vcs2git/vcs2git/pkg/errors"
	"github.com/vcs2git/vcs2git/pkg/gitx"
	"github.com/vcs2git/vcs2git/pkg/logging"
	"github.com/vcs2git/vcs2git/pkg/snapshot"
)

// rollback undoes a failed run: lenient teardown of every addition the
// run started, removal of a now-empty .gitmodules, and restoration of
// every pre-existing submodule to its snapshotted commit. It returns the
// aggregate restoration error, if any; the triggering error stays with
// the caller.
func rollback(ctx context.Context, host *gitx.Host, snap *snapshot.Snapshot, completed []classify.NewEntry) error {
	logger := logging.GetLogger("engine.rollback")
	logger.Error().Msg("Operation failed. Rolling back all changes...")

	for _, entry := range completed {
		logger.Info().Str("path", entry.Path).Msg("Removing partially added submodule")
		if errs := host.RemoveSubmoduleLenient(entry.Path, entry.Path); len(errs) > 0 {
			logger.Warn().
				Str("path", entry.Path).
				Int("failed_steps", len(errs)).
				Msg("Lenient removal left residue behind")
		}
	}

	if err := cleanEmptyGitmodules(host); err != nil {
		logger.Warn().Err(err).Msg("Cannot clean up empty .gitmodules")
	}

	if err := snap.Restore(ctx, host); err != nil {
		return err
	}

	logger.Info().Msg("Rollback complete. All submodules restored to original state.")
	return nil
}

// cleanEmptyGitmodules deletes .gitmodules when no submodules remain
// registered after the lenient removals.
func cleanEmptyGitmodules(host *gitx.Host) error {
	if !host.GitmodulesExists() {
		return nil
	}
	remaining, err := host.Submodules()
	if err != nil {
		return err
	}
	if len(remaining) > 0 {
		return nil
	}
	if err := os.Remove(host.GitmodulesPath()); err != nil {
		return errors.Wrap(err, errors.ErrVcsOperation, "cannot delete .gitmodules")
	}
	return host.UnstagePath(".gitmodules")
}
