package gitx

import (
	"context"
	stderrors "errors"
	"net/url"
	"strings"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing/transport"
	gitssh "github.com/go-git/go-git/v6/plumbing/transport/ssh"
	"github.com/vcs2git/vcs2git/pkg/errors"
	"github.com/vcs2git/vcs2git/pkg/logging"
)

// Fetch synchronizes a submodule with its origin remote: default branch
// refspecs plus all tags, so branch, tag, and reachable commit versions
// become resolvable. Already-up-to-date is not an error.
func Fetch(ctx context.Context, repo *git.Repository, remoteURL string) error {
	logger := logging.GetLogger("gitx.fetch")
	logger.Debug().Str("url", remoteURL).Msg("Fetching origin")

	err := repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: git.DefaultRemoteName,
		Auth:       authFor(remoteURL),
		Tags:       git.AllTags,
	})
	if err != nil && !stderrors.Is(err, git.NoErrAlreadyUpToDate) {
		return errors.Wrapf(err, errors.ErrVcsOperation, "cannot fetch %s", remoteURL)
	}
	return nil
}

// authFor resolves credentials opportunistically: ssh-style remotes try
// the local ssh agent, everything else (https, file) goes anonymous. A
// missing agent falls back to anonymous as well, matching public remotes.
func authFor(remoteURL string) transport.AuthMethod {
	user, ok := sshUser(remoteURL)
	if !ok {
		return nil
	}

	auth, err := gitssh.NewSSHAgentAuth(user)
	if err != nil {
		logger := logging.GetLogger("gitx.fetch")
		logger.Debug().
			Err(err).
			Str("url", remoteURL).
			Msg("No ssh agent available, fetching anonymously")
		return nil
	}
	return auth
}

// sshUser extracts the login for ssh-transport remotes, either
// ssh://user@host/... or the scp-style user@host:path form.
func sshUser(remoteURL string) (string, bool) {
	if strings.Contains(remoteURL, "://") {
		u, err := url.Parse(remoteURL)
		if err != nil || u.Scheme != "ssh" {
			return "", false
		}
		if u.User != nil && u.User.Username() != "" {
			return u.User.Username(), true
		}
		return "git", true
	}

	at := strings.Index(remoteURL, "@")
	colon := strings.Index(remoteURL, ":")
	if at > 0 && colon > at {
		return remoteURL[:at], true
	}
	return "", false
}
