package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// UpdateEnv names the environment variable that rewrites golden files.
const UpdateEnv = "GOLDEN_UPDATE"

// GoldenPath returns the testdata path of the named golden file.
func GoldenPath(name string) string {
	return filepath.Join("testdata", name+".golden")
}

// Golden compares rendered CLI output against testdata/<name>.golden.
// With GOLDEN_UPDATE set the file is rewritten instead.
func Golden(t *testing.T, name string, got []byte) {
	t.Helper()
	path := GoldenPath(name)

	if os.Getenv(UpdateEnv) != "" {
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, got, 0o644))
		return
	}

	want, err := os.ReadFile(path)
	require.NoError(t, err, "golden file %s missing; rerun with %s=1", path, UpdateEnv)

	// Strings give a line diff on mismatch.
	assert.Equal(t, string(want), string(got), "output mismatch for %s", name)
}

// GoldenString is Golden for string output.
func GoldenString(t *testing.T, name, got string) {
	t.Helper()
	Golden(t, name, []byte(got))
}
