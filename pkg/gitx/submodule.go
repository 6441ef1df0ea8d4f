package gitx

import (
	"context"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/vcs2git/vcs2git/pkg/errors"
	"github.com/vcs2git/vcs2git/pkg/logging"
)

// AddSubmodule registers a new submodule at path pointing at url and clones
// the remote content into the working tree. The registration (the
// .gitmodules section and the host config key) is written before the clone
// starts, so a failed clone leaves a partially created entry that the
// caller must account for during rollback.
func (h *Host) AddSubmodule(ctx context.Context, name, path, url string) error {
	logger := logging.GetLogger("gitx.submodule")
	logger.Debug().Str("name", name).Str("path", path).Str("url", url).Msg("Registering submodule")

	if err := h.setModuleEntry(name, path, url); err != nil {
		return err
	}
	if err := h.setConfigURL(name, url); err != nil {
		return err
	}

	_, err := git.PlainCloneContext(ctx, h.Abs(path), &git.CloneOptions{
		URL:  url,
		Auth: authFor(url),
	})
	if err != nil {
		return errors.Wrapf(err, errors.ErrVcsOperation, "cannot clone %s into %s", url, path)
	}

	return nil
}

// SetSubmoduleURL rewrites the recorded URL of an existing submodule in
// both .gitmodules and the host config.
func (h *Host) SetSubmoduleURL(name, path, url string) error {
	if err := h.setModuleEntry(name, path, url); err != nil {
		return err
	}
	return h.setConfigURL(name, url)
}

// FinalizeSubmodule marks an added or updated submodule as fully
// registered: the submodule commit is recorded in the host index and
// .gitmodules is staged alongside it.
func (h *Host) FinalizeSubmodule(path string) error {
	sub, err := h.OpenSubmodule(path)
	if err != nil {
		return err
	}
	commit, err := HeadCommit(sub)
	if err != nil {
		return errors.Wrapf(err, errors.ErrVcsOperation, "submodule %s has no HEAD commit", path)
	}
	if err := h.StageGitlink(path, commit); err != nil {
		return err
	}
	return h.StageFile(gitmodulesFile)
}

// RecreateSubmodule rebuilds a submodule that a failed run removed:
// re-register, clone, check out the exact commit, and restage the gitlink.
// Leftovers of a partial removal in the working tree are cleared first.
func (h *Host) RecreateSubmodule(ctx context.Context, name, path, url string, commit plumbing.Hash) error {
	if err := removeAll(h.Abs(path)); err != nil {
		return errors.Wrapf(err, errors.ErrVcsOperation, "cannot clear leftovers at %s", path)
	}
	if err := h.AddSubmodule(ctx, name, path, url); err != nil {
		return err
	}
	sub, err := h.OpenSubmodule(path)
	if err != nil {
		return err
	}
	if err := CheckoutCommit(sub, commit); err != nil {
		return err
	}
	return h.FinalizeSubmodule(path)
}

// setConfigURL records submodule.<name>.url in the host config, the same
// key `git submodule init` writes.
func (h *Host) setConfigURL(name, url string) error {
	cfg, err := h.repo.Config()
	if err != nil {
		return errors.Wrap(err, errors.ErrVcsOperation, "cannot read repository config")
	}
	cfg.Raw.Section("submodule").Subsection(name).SetOption("url", url)
	if err := h.repo.SetConfig(cfg); err != nil {
		return errors.Wrap(err, errors.ErrVcsOperation, "cannot write repository config")
	}
	return nil
}

// submoduleConfigKeys is the namespace git writes for one submodule.
var submoduleConfigKeys = []string{"url", "update", "branch", "fetchRecurseSubmodules", "ignore"}

// dropConfigEntries strips every submodule.<name>.* key from the host
// config. Already-absent keys and sections are tolerated.
func (h *Host) dropConfigEntries(name string) error {
	cfg, err := h.repo.Config()
	if err != nil {
		return errors.Wrap(err, errors.ErrVcsOperation, "cannot read repository config")
	}

	section := cfg.Raw.Section("submodule")
	if !section.HasSubsection(name) {
		return nil
	}
	sub := section.Subsection(name)
	for _, key := range submoduleConfigKeys {
		sub.RemoveOption(key)
	}
	section.RemoveSubsection(name)

	if err := h.repo.SetConfig(cfg); err != nil {
		return errors.Wrap(err, errors.ErrVcsOperation, "cannot write repository config")
	}
	return nil
}
