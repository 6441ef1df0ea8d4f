// Package testutil provides git fixture helpers for tests: throwaway host
// repositories and local remotes reachable over file:// URLs.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/object"
	"github.com/stretchr/testify/require"
)

// InitRepo initializes a non-bare repository with one initial commit and
// returns it together with the commit hash.
func InitRepo(t *testing.T, dir string) (*git.Repository, plumbing.Hash) {
	t.Helper()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	hash := CommitFile(t, repo, dir, "README.md", "initial\n", "Initial commit")
	return repo, hash
}

// CommitFile writes a file into the repository working tree, stages it,
// and commits it.
func CommitFile(t *testing.T, repo *git.Repository, dir, name, content, msg string) plumbing.Hash {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(dir, name)), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(name)
	require.NoError(t, err)

	hash, err := wt.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test User",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err)
	return hash
}

// CommitIndex commits whatever is currently staged.
func CommitIndex(t *testing.T, repo *git.Repository, msg string) plumbing.Hash {
	t.Helper()

	wt, err := repo.Worktree()
	require.NoError(t, err)

	hash, err := wt.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test User",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err)
	return hash
}

// InitRemote creates a repository suitable as a clone source and returns
// its file:// URL together with the head commit.
func InitRemote(t *testing.T, dir string) (string, plumbing.Hash) {
	t.Helper()

	_, hash := InitRepo(t, dir)
	return "file://" + filepath.ToSlash(dir), hash
}

// DefaultBranch reads the branch name HEAD points at.
func DefaultBranch(t *testing.T, repo *git.Repository) string {
	t.Helper()

	head, err := repo.Reference(plumbing.HEAD, false)
	require.NoError(t, err)
	return head.Target().Short()
}
