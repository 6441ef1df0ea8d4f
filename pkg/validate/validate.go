package validate

import (
	"github.com/go-git/go-git/v6"
	"github.com/vcs2git/vcs2git/pkg/errors"
	"github.com/vcs2git/vcs2git/pkg/gitx"
	"github.com/vcs2git/vcs2git/pkg/logging"
)

// HostClean refuses to run when the host index differs from HEAD. Staged
// changes would be committed together with whatever this run stages.
func HostClean(host *gitx.Host) error {
	staged, err := host.HasStagedChanges()
	if err != nil {
		return err
	}
	if staged {
		return errors.New(errors.ErrPrecondition,
			"the repository has staged changes, commit or reset them before running vcs2git")
	}
	return nil
}

// SubmoduleStates checks every registered submodule before the run:
// it must be initialized, openable, free of uncommitted changes, and
// checked out exactly at its recorded commit. Drift means some external
// actor moved the submodule and is rejected rather than overwritten.
func SubmoduleStates(host *gitx.Host) error {
	logger := logging.GetLogger("validate")

	registered, err := host.Submodules()
	if err != nil {
		return err
	}

	for _, reg := range registered {
		logger.Debug().Str("name", reg.Name).Str("path", reg.Path).Msg("Checking submodule state")

		if reg.IndexCommit.IsZero() {
			return errors.Newf(errors.ErrPrecondition,
				"submodule '%s' at %s is not initialized, run 'git submodule update --init' first",
				reg.Name, reg.Path)
		}

		sub, err := host.OpenSubmodule(reg.Path)
		if err != nil {
			return errors.Wrapf(err, errors.ErrPrecondition,
				"cannot open submodule '%s' at %s, it may be deinitialized or corrupted",
				reg.Name, reg.Path)
		}

		head, err := gitx.HeadCommit(sub)
		if err != nil {
			return errors.Wrapf(err, errors.ErrPrecondition,
				"submodule '%s' at %s has no resolved HEAD", reg.Name, reg.Path)
		}

		dirty, err := hasUncommittedChanges(sub)
		if err != nil {
			return errors.Wrapf(err, errors.ErrPrecondition,
				"cannot read status of submodule '%s'", reg.Name)
		}
		if dirty {
			return errors.Newf(errors.ErrPrecondition,
				"submodule '%s' at %s has uncommitted changes, commit or stash them before running vcs2git",
				reg.Name, reg.Path)
		}

		if head != reg.IndexCommit {
			return errors.Newf(errors.ErrPrecondition,
				"submodule '%s' at %s is checked out to a different commit than expected, expected %s actual %s, run 'git submodule update' to synchronize",
				reg.Name, reg.Path, reg.IndexCommit, head)
		}
	}

	return nil
}

func hasUncommittedChanges(repo *git.Repository) (bool, error) {
	wt, err := repo.Worktree()
	if err != nil {
		return false, err
	}
	status, err := wt.Status()
	if err != nil {
		return false, err
	}
	for _, fs := range status {
		if fs.Staging != git.Unmodified && fs.Staging != git.Untracked {
			return true, nil
		}
		if fs.Worktree != git.Unmodified {
			return true, nil
		}
	}
	return false, nil
}
