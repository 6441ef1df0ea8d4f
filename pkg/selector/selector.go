package selector

import (
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/vcs2git/vcs2git/pkg/errors"
)

// Select resolves the final desired path set from the declared paths and
// the optional --only / --ignore filters. The two filters are mutually
// exclusive; every filter entry must name a declared path.
func Select(declared []string, only, ignore []string) ([]string, error) {
	if len(only) > 0 && len(ignore) > 0 {
		return nil, errors.New(errors.ErrSelectionConflict,
			"--only and --ignore are mutually exclusive")
	}

	if unknown := lo.Without(ignore, declared...); len(unknown) > 0 {
		return nil, errors.Newf(errors.ErrSelectionUnknown,
			"repositories not found: %s", strings.Join(sorted(unknown), ", "))
	}
	if unknown := lo.Without(only, declared...); len(unknown) > 0 {
		return nil, errors.Newf(errors.ErrSelectionUnknown,
			"repositories not found: %s", strings.Join(sorted(unknown), ", "))
	}

	selected := declared
	if len(only) > 0 {
		selected = only
	}
	selected = lo.Without(selected, ignore...)

	return sorted(lo.Uniq(selected)), nil
}

func sorted(paths []string) []string {
	out := make([]string, len(paths))
	copy(out, paths)
	sort.Strings(out)
	return out
}
