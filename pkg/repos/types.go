package repos

import (
	"fmt"

	"github.com/vcs2git/vcs2git/pkg/errors"
	"gopkg.in/yaml.v3"
)

// KindGit is the only repository kind vcs2git supports.
const KindGit = "git"

// Spec is one desired-state entry from a .repos file. Immutable once loaded.
type Spec struct {
	Kind    string `yaml:"type"`
	URL     string `yaml:"url"`
	Version string `yaml:"version"`
}

// Entry pairs a relative destination path with its Spec.
type Entry struct {
	Path string
	Spec Spec
}

// File is the parsed .repos file. Entries keep their declaration order;
// the path is the unique key.
type File struct {
	Repositories []Entry
}

// UnmarshalYAML decodes the top-level mapping while preserving key order
// and rejecting duplicate paths.
func (f *File) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Repositories yaml.Node `yaml:"repositories"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Repositories.Kind == 0 || raw.Repositories.Tag == "!!null" {
		return errors.New(errors.ErrConfigInvalid, "missing 'repositories' mapping")
	}
	if raw.Repositories.Kind != yaml.MappingNode {
		return errors.New(errors.ErrConfigInvalid, "'repositories' must be a mapping of path to repository")
	}

	seen := make(map[string]bool)
	// Mapping nodes alternate key, value.
	for i := 0; i+1 < len(raw.Repositories.Content); i += 2 {
		keyNode := raw.Repositories.Content[i]
		valNode := raw.Repositories.Content[i+1]

		var path string
		if err := keyNode.Decode(&path); err != nil {
			return errors.Wrap(err, errors.ErrConfigInvalid, "invalid repository path key")
		}
		if seen[path] {
			return errors.Newf(errors.ErrConfigInvalid, "duplicate repository path: %s", path)
		}
		seen[path] = true

		var spec Spec
		if err := valNode.Decode(&spec); err != nil {
			return errors.Wrapf(err, errors.ErrConfigInvalid, "invalid repository entry for %s", path)
		}

		f.Repositories = append(f.Repositories, Entry{Path: path, Spec: spec})
	}

	return nil
}

// Paths returns the declared paths in declaration order.
func (f *File) Paths() []string {
	paths := make([]string, 0, len(f.Repositories))
	for _, e := range f.Repositories {
		paths = append(paths, e.Path)
	}
	return paths
}

// Get returns the Spec declared for path.
func (f *File) Get(path string) (Spec, bool) {
	for _, e := range f.Repositories {
		if e.Path == path {
			return e.Spec, true
		}
	}
	return Spec{}, false
}

func (s Spec) String() string {
	return fmt.Sprintf("%s@%s", s.URL, s.Version)
}
