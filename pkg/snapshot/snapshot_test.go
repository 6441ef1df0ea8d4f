package snapshot_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vcs2git/vcs2git/pkg/errors"
	"github.com/vcs2git/vcs2git/pkg/gitx"
	"github.com/vcs2git/vcs2git/pkg/snapshot"
	"github.com/vcs2git/vcs2git/pkg/testutil"
)

func newHost(t *testing.T) *gitx.Host {
	t.Helper()
	dir := t.TempDir()
	testutil.InitRepo(t, dir)

	host, err := gitx.OpenHost(dir)
	require.NoError(t, err)
	return host
}

func addSubmodule(t *testing.T, host *gitx.Host, rel, url string) *git.Repository {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, host.AddSubmodule(ctx, rel, rel, url))
	require.NoError(t, host.FinalizeSubmodule(rel))

	sub, err := host.OpenSubmodule(rel)
	require.NoError(t, err)
	return sub
}

func TestCaptureEmptyHost(t *testing.T) {
	host := newHost(t)

	snap, err := snapshot.Capture(host)
	require.NoError(t, err)
	assert.Empty(t, snap.Entries)
}

func TestCaptureRecordsSubmoduleState(t *testing.T) {
	host := newHost(t)
	url, hash := testutil.InitRemote(t, filepath.Join(t.TempDir(), "remote"))
	addSubmodule(t, host, "src/repo1", url)

	snap, err := snapshot.Capture(host)
	require.NoError(t, err)

	require.Len(t, snap.Entries, 1)
	entry := snap.Entries[0]
	assert.Equal(t, "src/repo1", entry.Name)
	assert.Equal(t, "src/repo1", entry.Path)
	assert.Equal(t, url, entry.URL)
	assert.Equal(t, hash, entry.Commit)
}

func TestCaptureSortsEntriesByPath(t *testing.T) {
	host := newHost(t)
	urlA, _ := testutil.InitRemote(t, filepath.Join(t.TempDir(), "a"))
	urlB, _ := testutil.InitRemote(t, filepath.Join(t.TempDir(), "b"))

	addSubmodule(t, host, "src/zeta", urlB)
	addSubmodule(t, host, "src/alpha", urlA)

	snap, err := snapshot.Capture(host)
	require.NoError(t, err)

	require.Len(t, snap.Entries, 2)
	assert.Equal(t, "src/alpha", snap.Entries[0].Path)
	assert.Equal(t, "src/zeta", snap.Entries[1].Path)
}

func TestCaptureRejectsEntryWithoutURL(t *testing.T) {
	host := newHost(t)

	gitmodules := "[submodule \"src/ghost\"]\n\tpath = src/ghost\n"
	require.NoError(t, os.WriteFile(host.Abs(".gitmodules"), []byte(gitmodules), 0644))

	_, err := snapshot.Capture(host)
	require.Error(t, err)
	assert.Equal(t, errors.ErrSnapshot, errors.GetErrorCode(err))
}

func TestRestoreResetsMovedSubmodule(t *testing.T) {
	host := newHost(t)
	url, hash := testutil.InitRemote(t, filepath.Join(t.TempDir(), "remote"))
	sub := addSubmodule(t, host, "src/repo1", url)

	snap, err := snapshot.Capture(host)
	require.NoError(t, err)

	testutil.CommitFile(t, sub, host.Abs("src/repo1"), "drift.txt", "moved\n", "Drift commit")

	require.NoError(t, snap.Restore(context.Background(), host))

	head, err := gitx.HeadCommit(sub)
	require.NoError(t, err)
	assert.Equal(t, hash, head)

	registered, err := host.Submodules()
	require.NoError(t, err)
	require.Len(t, registered, 1)
	assert.Equal(t, hash, registered[0].IndexCommit)
}

func TestRestoreRecreatesRemovedSubmodule(t *testing.T) {
	host := newHost(t)
	url, hash := testutil.InitRemote(t, filepath.Join(t.TempDir(), "remote"))
	addSubmodule(t, host, "src/repo1", url)

	snap, err := snapshot.Capture(host)
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(host.Abs("src/repo1")))

	require.NoError(t, snap.Restore(context.Background(), host))

	sub, err := host.OpenSubmodule("src/repo1")
	require.NoError(t, err)
	head, err := gitx.HeadCommit(sub)
	require.NoError(t, err)
	assert.Equal(t, hash, head)

	_, statErr := os.Stat(host.Abs("src/repo1/README.md"))
	assert.NoError(t, statErr)
}
