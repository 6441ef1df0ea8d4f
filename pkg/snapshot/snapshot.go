package snapshot

import (
	"context"
	"sort"

	"github.com/go-git/go-git/v6/plumbing"
	"github.com/vcs2git/vcs2git/pkg/errors"
	"github.com/vcs2git/vcs2git/pkg/gitx"
	"github.com/vcs2git/vcs2git/pkg/logging"
)

// Entry is the recorded pre-run state of one registered submodule.
// Created once before any mutation, read-only afterwards, consumed only
// during rollback.
type Entry struct {
	Name   string
	Path   string
	URL    string
	Commit plumbing.Hash
}

// Snapshot holds the pre-run state of every registered submodule.
type Snapshot struct {
	Entries []Entry
}

// Capture records name, path, URL, and resolved working commit for every
// registered submodule. An entry missing any of those cannot be
// reconstructed during rollback, so capture fails up front.
func Capture(host *gitx.Host) (*Snapshot, error) {
	registered, err := host.Submodules()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrSnapshot, "cannot list submodules")
	}

	snap := &Snapshot{}
	for _, reg := range registered {
		if reg.Name == "" {
			return nil, errors.Newf(errors.ErrSnapshot, "submodule at %s has no name", reg.Path)
		}
		if reg.URL == "" {
			return nil, errors.Newf(errors.ErrSnapshot, "submodule %s has no URL", reg.Name)
		}

		sub, err := host.OpenSubmodule(reg.Path)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrSnapshot, "cannot open submodule %s", reg.Name)
		}
		commit, err := gitx.HeadCommit(sub)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrSnapshot, "submodule %s has no workdir commit", reg.Name)
		}

		snap.Entries = append(snap.Entries, Entry{
			Name:   reg.Name,
			Path:   reg.Path,
			URL:    reg.URL,
			Commit: commit,
		})
	}

	sort.Slice(snap.Entries, func(i, j int) bool { return snap.Entries[i].Path < snap.Entries[j].Path })
	return snap, nil
}

// Restore brings every snapshotted submodule back to its recorded commit.
// Submodules that still exist are reset in place and restaged; submodules
// the failed run removed are recreated from the snapshot. Every entry is
// attempted; failures are aggregated, never masking each other.
func (s *Snapshot) Restore(ctx context.Context, host *gitx.Host) error {
	logger := logging.GetLogger("snapshot")

	var failed []string
	for _, entry := range s.Entries {
		logger.Info().
			Str("name", entry.Name).
			Str("commit", entry.Commit.String()).
			Msg("Restoring submodule")

		if err := s.restoreOne(ctx, host, entry); err != nil {
			logger.Error().Err(err).Str("name", entry.Name).Msg("Failed to restore submodule")
			failed = append(failed, entry.Name)
		}
	}

	if len(failed) > 0 {
		return errors.Newf(errors.ErrRollback,
			"could not restore %d of %d submodules: %v", len(failed), len(s.Entries), failed)
	}
	return nil
}

func (s *Snapshot) restoreOne(ctx context.Context, host *gitx.Host, entry Entry) error {
	sub, err := host.OpenSubmodule(entry.Path)
	if err != nil {
		// The failed run removed this submodule; rebuild it wholesale.
		return host.RecreateSubmodule(ctx, entry.Name, entry.Path, entry.URL, entry.Commit)
	}

	if err := gitx.CheckoutCommit(sub, entry.Commit); err != nil {
		return err
	}
	return host.StageGitlink(entry.Path, entry.Commit)
}
