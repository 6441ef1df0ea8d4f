package selector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vcs2git/vcs2git/pkg/errors"
	"github.com/vcs2git/vcs2git/pkg/selector"
)

var declared = []string{"repo1", "repo2", "repo3"}

func TestSelectAll(t *testing.T) {
	selected, err := selector.Select(declared, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"repo1", "repo2", "repo3"}, selected)
}

func TestSelectOnly(t *testing.T) {
	selected, err := selector.Select(declared, []string{"repo2"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"repo2"}, selected)
}

func TestSelectIgnore(t *testing.T) {
	selected, err := selector.Select(declared, nil, []string{"repo2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"repo1", "repo3"}, selected)
}

func TestSelectOnlyAndIgnoreAreMutuallyExclusive(t *testing.T) {
	_, err := selector.Select(declared, []string{"repo1"}, []string{"repo2"})
	require.Error(t, err)
	assert.Equal(t, errors.ErrSelectionConflict, errors.GetErrorCode(err))
}

func TestSelectUnknownOnly(t *testing.T) {
	_, err := selector.Select(declared, []string{"nope"}, nil)
	require.Error(t, err)
	assert.Equal(t, errors.ErrSelectionUnknown, errors.GetErrorCode(err))
	assert.Contains(t, err.Error(), "nope")
}

func TestSelectUnknownIgnore(t *testing.T) {
	_, err := selector.Select(declared, nil, []string{"nope"})
	require.Error(t, err)
	assert.Equal(t, errors.ErrSelectionUnknown, errors.GetErrorCode(err))
}

// Every unknown entry must be reported, not just the first.
func TestSelectReportsAllUnknownEntries(t *testing.T) {
	_, err := selector.Select(declared, nil, []string{"ghost1", "repo1", "ghost2"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost1")
	assert.Contains(t, err.Error(), "ghost2")
	assert.NotContains(t, err.Error(), "repo2")
}

func TestSelectResultIsSorted(t *testing.T) {
	selected, err := selector.Select([]string{"zeta", "alpha", "mid"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, selected)
}
