package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// UpdateGoldenEnv, when set, makes Golden rewrite the files instead of comparing.
const UpdateGoldenEnv = "TASKLIST_UPDATE_GOLDEN"

// Golden compares got against testdata/<name>.golden in the calling package.
func Golden(t *testing.T, name string, got []byte) {
	t.Helper()

	path := filepath.Join("testdata", name+".golden")

	if os.Getenv(UpdateGoldenEnv) != "" {
		require.NoError(t, os.MkdirAll("testdata", 0755))
		require.NoError(t, os.WriteFile(path, got, 0644))
		return
	}

	want, err := os.ReadFile(path)
	require.NoError(t, err, "golden file %s missing; rerun with %s=1\ngot:\n%s", path, UpdateGoldenEnv, got)

	// Compared as strings so a mismatch prints a line diff.
	assert.Equal(t, string(want), string(got), "output mismatch for %s", name)
}

// GoldenString is like Golden but takes a string.
func GoldenString(t *testing.T, name string, got string) {
	t.Helper()
	Golden(t, name, []byte(got))
}
