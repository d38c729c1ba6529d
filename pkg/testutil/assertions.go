package testutil

import (
	"testing"

	"github.com/arthur-debert/assetdeploy/pkg/errors"
	"github.com/arthur-debert/assetdeploy/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertFileContent checks that path holds exactly want
func AssertFileContent(t *testing.T, fsys types.FS, path, want string, msgAndArgs ...interface{}) {
	t.Helper()

	got, err := fsys.ReadFile(path)
	require.NoError(t, err, msgAndArgs...)
	assert.Equal(t, want, string(got), msgAndArgs...)
}

// AssertNotExists checks that nothing exists at path
func AssertNotExists(t *testing.T, fsys types.FS, path string, msgAndArgs ...interface{}) {
	t.Helper()

	_, err := fsys.Stat(path)
	assert.True(t, isNotExist(err), msgAndArgs...)
}

// AssertDir checks that path is an existing directory
func AssertDir(t *testing.T, fsys types.FS, path string, msgAndArgs ...interface{}) {
	t.Helper()

	info, err := fsys.Stat(path)
	require.NoError(t, err, msgAndArgs...)
	assert.True(t, info.IsDir(), msgAndArgs...)
}

// AssertErrorCode checks that err is, or aggregates, a structured error with code
func AssertErrorCode(t *testing.T, err error, code errors.ErrorCode, msgAndArgs ...interface{}) {
	t.Helper()

	require.Error(t, err, msgAndArgs...)
	assert.True(t, errors.IsErrorCode(err, code), "expected %s in %v", code, err)
}

// AssertDestFiles checks the full set of files under the destination root
func AssertDestFiles(t *testing.T, a *AssetTree, want ...string) {
	t.Helper()

	if len(want) == 0 {
		assert.Empty(t, a.DestFiles())
		return
	}
	assert.ElementsMatch(t, want, a.DestFiles())
}
