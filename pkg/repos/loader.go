package repos

import (
	"os"

	"github.com/vcs2git/vcs2git/pkg/errors"
	"github.com/vcs2git/vcs2git/pkg/logging"
	"gopkg.in/yaml.v3"
)

// Load reads and parses a .repos file. The result is validated separately
// with Validate once the destination prefix is known.
func Load(path string) (*File, error) {
	logger := logging.GetLogger("repos.loader")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigInvalid, "cannot read repository list %s", path)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigInvalid, "cannot parse repository list %s", path)
	}

	logger.Debug().
		Str("path", path).
		Int("repositories", len(file.Repositories)).
		Msg("Repository list loaded")

	return &file, nil
}
