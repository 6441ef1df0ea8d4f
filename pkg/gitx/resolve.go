package gitx

import (
	stderrors "errors"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/vcs2git/vcs2git/pkg/errors"
	"github.com/vcs2git/vcs2git/pkg/logging"
)

// Resolution is the outcome of resolving a version string inside a
// submodule. Ref is non-empty when the version named a reference, in which
// case HEAD is attached to it; otherwise HEAD detaches at Hash.
type Resolution struct {
	Hash plumbing.Hash
	Ref  plumbing.ReferenceName
}

// ResolveVersion resolves a version (commit hash, branch, or tag) inside a
// submodule. When direct resolution fails with the narrow reference-not-found
// class, origin/<version> is tried instead; any other failure propagates
// unchanged. Exhausting both lookups is a resolution error.
func ResolveVersion(repo *git.Repository, version string) (Resolution, error) {
	res, err := resolveSpec(repo, version)
	if err == nil {
		return res, nil
	}
	if !stderrors.Is(err, plumbing.ErrReferenceNotFound) {
		return Resolution{}, errors.Wrapf(err, errors.ErrVcsOperation, "cannot resolve %s", version)
	}

	logger := logging.GetLogger("gitx.resolve")
	logger.Debug().
		Str("version", version).
		Msg("Reference not found locally, falling back to origin")

	fallback := "origin/" + version
	res, err = resolveSpec(repo, fallback)
	if err == nil {
		return res, nil
	}
	if stderrors.Is(err, plumbing.ErrReferenceNotFound) {
		return Resolution{}, errors.Newf(errors.ErrResolution,
			"version %q matches neither a local reference nor %s", version, fallback)
	}
	return Resolution{}, errors.Wrapf(err, errors.ErrVcsOperation, "cannot resolve %s", fallback)
}

// resolveSpec resolves one revision spec, reporting the reference name when
// the spec directly names a branch or remote branch.
func resolveSpec(repo *git.Repository, spec string) (Resolution, error) {
	for _, refName := range []plumbing.ReferenceName{
		plumbing.NewBranchReferenceName(spec),
		plumbing.ReferenceName("refs/remotes/" + spec),
	} {
		if ref, err := repo.Reference(refName, true); err == nil {
			return Resolution{Hash: ref.Hash(), Ref: refName}, nil
		}
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(spec))
	if err != nil {
		return Resolution{}, err
	}
	return Resolution{Hash: *hash}, nil
}

// CheckoutCommit force-checkouts an exact commit and detaches HEAD at it.
func CheckoutCommit(repo *git.Repository, hash plumbing.Hash) error {
	wt, err := repo.Worktree()
	if err != nil {
		return errors.Wrap(err, errors.ErrVcsOperation, "cannot open submodule worktree")
	}
	if err := wt.Checkout(&git.CheckoutOptions{Hash: hash, Force: true}); err != nil {
		return errors.Wrapf(err, errors.ErrVcsOperation, "cannot checkout %s", hash)
	}
	if err := repo.Storer.SetReference(plumbing.NewHashReference(plumbing.HEAD, hash)); err != nil {
		return errors.Wrapf(err, errors.ErrVcsOperation, "cannot detach HEAD at %s", hash)
	}
	return nil
}

// CheckoutVersion resolves version with the origin fallback, materializes
// the working tree when checkout is set, and always moves HEAD: attached
// when a reference was resolved, detached at the object id otherwise.
func CheckoutVersion(repo *git.Repository, version string, checkout bool) error {
	res, err := ResolveVersion(repo, version)
	if err != nil {
		return err
	}

	if checkout {
		wt, err := repo.Worktree()
		if err != nil {
			return errors.Wrap(err, errors.ErrVcsOperation, "cannot open submodule worktree")
		}
		if err := wt.Checkout(&git.CheckoutOptions{Hash: res.Hash}); err != nil {
			return errors.Wrapf(err, errors.ErrVcsOperation, "cannot checkout %s", version)
		}
	}

	var head *plumbing.Reference
	if res.Ref != "" {
		head = plumbing.NewSymbolicReference(plumbing.HEAD, res.Ref)
	} else {
		head = plumbing.NewHashReference(plumbing.HEAD, res.Hash)
	}
	if err := repo.Storer.SetReference(head); err != nil {
		return errors.Wrapf(err, errors.ErrVcsOperation, "cannot update HEAD for %s", version)
	}
	return nil
}
