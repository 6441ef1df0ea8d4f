package gitx

import (
	"github.com/vcs2git/vcs2git/pkg/errors"
	"github.com/vcs2git/vcs2git/pkg/logging"
)

// RemoveSubmodule tears a submodule down in a fixed order: host config
// keys, index entry, .gitmodules section, control data under
// .git/modules, working tree. Each step is independent; a later failure
// does not undo earlier steps, full recovery is the rollback
// coordinator's job.
func (h *Host) RemoveSubmodule(name, path string) error {
	if err := h.dropConfigEntries(name); err != nil {
		return err
	}
	if err := h.UnstagePath(path); err != nil {
		return err
	}
	if err := h.dropModuleEntry(name, path); err != nil {
		return err
	}
	if err := removeAll(h.modulesDir(name)); err != nil {
		return errors.Wrapf(err, errors.ErrVcsOperation, "cannot delete control data for %s", name)
	}
	if err := removeAll(h.Abs(path)); err != nil {
		return errors.Wrapf(err, errors.ErrVcsOperation, "cannot delete working tree at %s", path)
	}
	return nil
}

// RemoveSubmoduleLenient runs the same teardown but never aborts: every
// step is attempted, per-step errors are logged and collected. Used during
// rollback, where a partially created entry may exist in none, one, or
// several of config, index, .gitmodules, and the working tree.
func (h *Host) RemoveSubmoduleLenient(name, path string) []error {
	logger := logging.GetLogger("gitx.remove")
	var errs []error

	record := func(step string, err error) {
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Str("step", step).Msg("Lenient removal step failed")
			errs = append(errs, err)
		}
	}

	record("config", h.dropConfigEntries(name))
	record("index", h.UnstagePath(path))
	record("gitmodules", h.dropModuleEntry(name, path))
	record("modules-dir", removeAll(h.modulesDir(name)))
	record("worktree", removeAll(h.Abs(path)))

	return errs
}
