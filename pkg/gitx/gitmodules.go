package gitx

import (
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v6/config"
	"github.com/vcs2git/vcs2git/pkg/errors"
)

const gitmodulesFile = ".gitmodules"

// GitmodulesPath returns the absolute path of the host .gitmodules file.
func (h *Host) GitmodulesPath() string {
	return filepath.Join(h.root, gitmodulesFile)
}

// GitmodulesExists reports whether the host has a .gitmodules file.
func (h *Host) GitmodulesExists() bool {
	_, err := os.Stat(h.GitmodulesPath())
	return err == nil
}

// readModules parses .gitmodules. A missing file yields an empty module set.
func (h *Host) readModules() (*config.Modules, error) {
	data, err := os.ReadFile(h.GitmodulesPath())
	if os.IsNotExist(err) {
		return config.NewModules(), nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrVcsOperation, "cannot read .gitmodules")
	}

	modules := config.NewModules()
	if err := modules.Unmarshal(data); err != nil {
		return nil, errors.Wrap(err, errors.ErrVcsOperation, "cannot parse .gitmodules")
	}
	return modules, nil
}

// writeModules serializes the module set back to .gitmodules and restages
// it. Once no sections remain the file is deleted outright and dropped
// from the index.
func (h *Host) writeModules(modules *config.Modules) error {
	if len(modules.Submodules) == 0 {
		if err := removeAll(h.GitmodulesPath()); err != nil {
			return errors.Wrap(err, errors.ErrVcsOperation, "cannot delete empty .gitmodules")
		}
		return h.UnstagePath(gitmodulesFile)
	}

	data, err := modules.Marshal()
	if err != nil {
		return errors.Wrap(err, errors.ErrVcsOperation, "cannot serialize .gitmodules")
	}
	if err := os.WriteFile(h.GitmodulesPath(), data, 0644); err != nil {
		return errors.Wrap(err, errors.ErrVcsOperation, "cannot write .gitmodules")
	}
	return h.StageFile(gitmodulesFile)
}

// setModuleEntry adds or rewrites one [submodule "<name>"] section.
func (h *Host) setModuleEntry(name, path, url string) error {
	modules, err := h.readModules()
	if err != nil {
		return err
	}
	modules.Submodules[name] = &config.Submodule{
		Name: name,
		Path: path,
		URL:  url,
	}
	return h.writeModules(modules)
}

// dropModuleEntry removes the section registered under name. When no
// section carries that name the path is used as a fallback key, so that
// half-written registrations are still cleaned up.
func (h *Host) dropModuleEntry(name, path string) error {
	modules, err := h.readModules()
	if err != nil {
		return err
	}

	if _, ok := modules.Submodules[name]; ok {
		delete(modules.Submodules, name)
	} else {
		for key, sub := range modules.Submodules {
			if sub.Path == path {
				delete(modules.Submodules, key)
				break
			}
		}
	}

	return h.writeModules(modules)
}
