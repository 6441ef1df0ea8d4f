package repos

import (
	"net/url"
	"path"
	"strings"

	"github.com/vcs2git/vcs2git/pkg/errors"
)

// allowedSchemes is the transport allow-list for repository URLs.
var allowedSchemes = map[string]bool{
	"git":   true,
	"ssh":   true,
	"https": true,
	"http":  true,
	"file":  true,
}

// Validate checks every declared entry before any mutation happens.
// Violations are configuration errors: unsupported kind, malformed or
// disallowed URL, absolute or parent-escaping paths, duplicate
// destinations after joining with the prefix.
func Validate(file *File, prefix string) error {
	seenPaths := make(map[string]bool)

	for _, entry := range file.Repositories {
		if entry.Spec.Kind != KindGit {
			return errors.Newf(errors.ErrConfigInvalid,
				"repository type '%s' is not supported for %s, only 'git' repositories are supported",
				entry.Spec.Kind, entry.Path)
		}

		if err := validateURL(entry.Path, entry.Spec.URL); err != nil {
			return err
		}

		if path.IsAbs(entry.Path) {
			return errors.Newf(errors.ErrConfigInvalid,
				"repository path must be relative: %s", entry.Path)
		}
		if hasParentComponent(entry.Path) {
			return errors.Newf(errors.ErrConfigInvalid,
				"repository path cannot contain '..' components: %s", entry.Path)
		}

		full := path.Join(prefix, entry.Path)
		if seenPaths[full] {
			return errors.Newf(errors.ErrConfigInvalid,
				"duplicate submodule path: %s", full)
		}
		seenPaths[full] = true
	}

	return nil
}

// ValidatePrefix rejects absolute destination prefixes.
func ValidatePrefix(prefix string) error {
	if path.IsAbs(prefix) {
		return errors.Newf(errors.ErrConfigInvalid,
			"the prefix must be a relative path: %s", prefix)
	}
	return nil
}

func validateURL(entryPath, raw string) error {
	if raw == "" {
		return errors.Newf(errors.ErrConfigInvalid, "missing url for %s", entryPath)
	}

	// scp-style remotes (git@host:path) have no scheme but ride over ssh.
	if isScpStyle(raw) {
		return nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return errors.Wrapf(err, errors.ErrConfigInvalid, "invalid url for %s", entryPath)
	}
	if !allowedSchemes[u.Scheme] {
		return errors.Newf(errors.ErrConfigInvalid,
			"invalid repository URL scheme '%s' for %s, supported schemes: git, ssh, https, http, file",
			u.Scheme, raw)
	}
	return nil
}

func isScpStyle(raw string) bool {
	if strings.Contains(raw, "://") {
		return false
	}
	at := strings.Index(raw, "@")
	colon := strings.Index(raw, ":")
	return at > 0 && colon > at
}

func hasParentComponent(p string) bool {
	for _, part := range strings.Split(p, "/") {
		if part == ".." {
			return true
		}
	}
	return false
}
