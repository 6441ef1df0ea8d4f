package repos_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vcs2git/vcs2git/pkg/errors"
	"github.com/vcs2git/vcs2git/pkg/repos"
)

func writeReposFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.repos")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadKeepsDeclarationOrder(t *testing.T) {
	path := writeReposFile(t, `
repositories:
  zeta/repo:
    type: git
    url: https://example.com/zeta
    version: main
  alpha/repo:
    type: git
    url: https://example.com/alpha
    version: v1.0.0
`)

	file, err := repos.Load(path)
	require.NoError(t, err)

	require.Len(t, file.Repositories, 2)
	assert.Equal(t, []string{"zeta/repo", "alpha/repo"}, file.Paths())

	spec, ok := file.Get("alpha/repo")
	require.True(t, ok)
	assert.Equal(t, "git", spec.Kind)
	assert.Equal(t, "https://example.com/alpha", spec.URL)
	assert.Equal(t, "v1.0.0", spec.Version)
}

func TestLoadRejectsDuplicatePaths(t *testing.T) {
	path := writeReposFile(t, `
repositories:
  same/repo:
    type: git
    url: https://example.com/one
    version: main
  same/repo:
    type: git
    url: https://example.com/two
    version: main
`)

	_, err := repos.Load(path)
	require.Error(t, err)
	assert.Equal(t, errors.ErrConfigInvalid, errors.GetErrorCode(err))
}

func TestLoadMissingRepositoriesKey(t *testing.T) {
	path := writeReposFile(t, "something_else: true\n")

	_, err := repos.Load(path)
	require.Error(t, err)
	assert.Equal(t, errors.ErrConfigInvalid, errors.GetErrorCode(err))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := repos.Load(filepath.Join(t.TempDir(), "absent.repos"))
	require.Error(t, err)
	assert.Equal(t, errors.ErrConfigInvalid, errors.GetErrorCode(err))
}

func validFile(entries ...repos.Entry) *repos.File {
	return &repos.File{Repositories: entries}
}

func entry(path, kind, url, version string) repos.Entry {
	return repos.Entry{Path: path, Spec: repos.Spec{Kind: kind, URL: url, Version: version}}
}

func TestValidateAcceptsWellFormedEntries(t *testing.T) {
	file := validFile(
		entry("repo1", "git", "https://example.com/repo1", "main"),
		entry("repo2", "git", "ssh://git@example.com/repo2", "v2"),
		entry("repo3", "git", "git@example.com:org/repo3.git", "main"),
		entry("repo4", "git", "file:///srv/git/repo4", "abc123"),
	)
	assert.NoError(t, repos.Validate(file, "src"))
}

func TestValidateRejectsUnsupportedKind(t *testing.T) {
	file := validFile(entry("repo1", "mercurial", "https://example.com/repo1", "main"))

	err := repos.Validate(file, "src")
	require.Error(t, err)
	assert.Equal(t, errors.ErrConfigInvalid, errors.GetErrorCode(err))
	assert.Contains(t, err.Error(), "mercurial")
}

func TestValidateRejectsBadScheme(t *testing.T) {
	file := validFile(entry("repo1", "git", "ftp://example.com/repo1", "main"))

	err := repos.Validate(file, "src")
	require.Error(t, err)
	assert.Equal(t, errors.ErrConfigInvalid, errors.GetErrorCode(err))
}

func TestValidateRejectsAbsolutePath(t *testing.T) {
	file := validFile(entry("/absolute/path", "git", "https://example.com/repo", "main"))

	err := repos.Validate(file, "src")
	require.Error(t, err)
	assert.Equal(t, errors.ErrConfigInvalid, errors.GetErrorCode(err))
}

func TestValidateRejectsParentComponents(t *testing.T) {
	file := validFile(entry("../escape", "git", "https://example.com/repo", "main"))

	err := repos.Validate(file, "src")
	require.Error(t, err)
	assert.Equal(t, errors.ErrConfigInvalid, errors.GetErrorCode(err))
}

func TestValidatePrefix(t *testing.T) {
	assert.NoError(t, repos.ValidatePrefix("src"))
	assert.Error(t, repos.ValidatePrefix("/abs"))
}
