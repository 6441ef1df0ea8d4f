package gitx

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/filemode"
	"github.com/go-git/go-git/v6/plumbing/format/index"
	"github.com/vcs2git/vcs2git/pkg/errors"
)

// Host is the handle to the host repository. All reads of the registered
// submodule set go through this type so that every component observes a
// consistent view of the same working tree.
type Host struct {
	repo *git.Repository
	wt   *git.Worktree
	root string
}

// Registered is one submodule currently known to the host repository.
type Registered struct {
	Name string
	Path string
	URL  string
	// IndexCommit is the gitlink hash recorded in the host index,
	// zero when the path is not staged.
	IndexCommit plumbing.Hash
}

// OpenHost opens the host repository at root, which must be the top level
// of the working tree.
func OpenHost(root string) (*Host, error) {
	repo, err := git.PlainOpen(root)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrVcsOperation,
			"cannot open repository, run in the toplevel directory of the git repo")
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrVcsOperation, "cannot open worktree")
	}
	return &Host{repo: repo, wt: wt, root: root}, nil
}

// Root returns the host working tree root.
func (h *Host) Root() string {
	return h.root
}

// Repo exposes the underlying repository.
func (h *Host) Repo() *git.Repository {
	return h.repo
}

// Abs joins a repository-relative path onto the working tree root.
func (h *Host) Abs(rel string) string {
	return filepath.Join(h.root, filepath.FromSlash(rel))
}

// Submodules lists every submodule registered in .gitmodules together with
// the gitlink commit recorded in the host index. A missing .gitmodules
// means no submodules.
func (h *Host) Submodules() ([]Registered, error) {
	modules, err := h.readModules()
	if err != nil {
		return nil, err
	}

	idx, err := h.repo.Storer.Index()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrVcsOperation, "cannot read index")
	}

	var out []Registered
	for _, sub := range modules.Submodules {
		reg := Registered{Name: sub.Name, Path: sub.Path, URL: sub.URL}
		if entry, err := idx.Entry(sub.Path); err == nil && entry.Mode == filemode.Submodule {
			reg.IndexCommit = entry.Hash
		}
		out = append(out, reg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// OpenSubmodule opens the nested repository at a submodule path.
func (h *Host) OpenSubmodule(rel string) (*git.Repository, error) {
	repo, err := git.PlainOpen(h.Abs(rel))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrVcsOperation, "cannot open submodule at %s", rel)
	}
	return repo, nil
}

// HasStagedChanges reports whether the host index differs from HEAD.
func (h *Host) HasStagedChanges() (bool, error) {
	status, err := h.wt.Status()
	if err != nil {
		return false, errors.Wrap(err, errors.ErrVcsOperation, "cannot read repository status")
	}
	for _, fs := range status {
		switch fs.Staging {
		case git.Added, git.Modified, git.Deleted, git.Renamed, git.Copied:
			return true, nil
		}
	}
	return false, nil
}

// StageFile stages a file of the host working tree.
func (h *Host) StageFile(rel string) error {
	if _, err := h.wt.Add(rel); err != nil {
		return errors.Wrapf(err, errors.ErrVcsOperation, "cannot stage %s", rel)
	}
	return nil
}

// StageGitlink records a submodule commit at rel in the host index.
func (h *Host) StageGitlink(rel string, commit plumbing.Hash) error {
	idx, err := h.repo.Storer.Index()
	if err != nil {
		return errors.Wrap(err, errors.ErrVcsOperation, "cannot read index")
	}
	if _, err := idx.Remove(rel); err != nil && !stderrors.Is(err, index.ErrEntryNotFound) {
		return errors.Wrapf(err, errors.ErrVcsOperation, "cannot replace index entry for %s", rel)
	}
	entry := idx.Add(rel)
	entry.Mode = filemode.Submodule
	entry.Hash = commit
	if err := h.repo.Storer.SetIndex(idx); err != nil {
		return errors.Wrap(err, errors.ErrVcsOperation, "cannot write index")
	}
	return nil
}

// UnstagePath drops rel from the host index. Absent entries are tolerated.
func (h *Host) UnstagePath(rel string) error {
	idx, err := h.repo.Storer.Index()
	if err != nil {
		return errors.Wrap(err, errors.ErrVcsOperation, "cannot read index")
	}
	if _, err := idx.Remove(rel); err != nil {
		if stderrors.Is(err, index.ErrEntryNotFound) {
			return nil
		}
		return errors.Wrapf(err, errors.ErrVcsOperation, "cannot remove index entry for %s", rel)
	}
	if err := h.repo.Storer.SetIndex(idx); err != nil {
		return errors.Wrap(err, errors.ErrVcsOperation, "cannot write index")
	}
	return nil
}

// HeadCommit returns the commit a repository's HEAD points at.
func HeadCommit(repo *git.Repository) (plumbing.Hash, error) {
	head, err := repo.Head()
	if err != nil {
		return plumbing.ZeroHash, err
	}
	return head.Hash(), nil
}

// modulesDir is where git keeps submodule control data inside the host.
func (h *Host) modulesDir(name string) string {
	return filepath.Join(h.root, git.GitDirName, "modules", filepath.FromSlash(name))
}

// removeAll deletes a directory tree, tolerating absence.
func removeAll(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return os.RemoveAll(path)
}
