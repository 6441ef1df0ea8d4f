package classify

import (
	"path"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/vcs2git/vcs2git/pkg/repos"
)

// NewEntry is a desired repository with no registered submodule yet.
type NewEntry struct {
	Path string
	Spec repos.Spec
}

// UpdatedEntry is a desired repository that is already registered.
type UpdatedEntry struct {
	Path string
	Name string
	Spec repos.Spec
}

// RemovedEntry is a registered submodule with no matching desired entry.
type RemovedEntry struct {
	Path string
	Name string
}

// Result partitions the union of desired and registered paths (the latter
// restricted to the destination prefix) into three path-sorted classes.
type Result struct {
	New     []NewEntry
	Updated []UpdatedEntry
	Removed []RemovedEntry
}

// Total is the number of classified entries.
func (r Result) Total() int {
	return len(r.New) + len(r.Updated) + len(r.Removed)
}

// Classify diffs the desired set against the registered submodule set.
// Registered submodules outside prefix are never proposed for removal.
func Classify(desired map[string]repos.Spec, registered map[string]string, prefix string) Result {
	// A trailing slash ("src/") must match the same set as "src".
	prefix = path.Clean(prefix)

	desiredPaths := lo.Keys(desired)
	registeredPaths := lo.Keys(registered)

	newPaths := lo.Without(desiredPaths, registeredPaths...)
	updatedPaths := lo.Intersect(desiredPaths, registeredPaths)
	removedPaths := lo.Filter(lo.Without(registeredPaths, desiredPaths...), func(p string, _ int) bool {
		return underPrefix(p, prefix)
	})

	var result Result
	for _, p := range newPaths {
		result.New = append(result.New, NewEntry{Path: p, Spec: desired[p]})
	}
	for _, p := range updatedPaths {
		result.Updated = append(result.Updated, UpdatedEntry{Path: p, Name: registered[p], Spec: desired[p]})
	}
	for _, p := range removedPaths {
		result.Removed = append(result.Removed, RemovedEntry{Path: p, Name: registered[p]})
	}

	sort.Slice(result.New, func(i, j int) bool { return result.New[i].Path < result.New[j].Path })
	sort.Slice(result.Updated, func(i, j int) bool { return result.Updated[i].Path < result.Updated[j].Path })
	sort.Slice(result.Removed, func(i, j int) bool { return result.Removed[i].Path < result.Removed[j].Path })

	return result
}

func underPrefix(p, prefix string) bool {
	if prefix == "." {
		return true
	}
	return p == prefix || strings.HasPrefix(p, prefix+"/")
}
