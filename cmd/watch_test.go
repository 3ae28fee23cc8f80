package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchRejectsNonDirectoryTarget(t *testing.T) {
	desc := filepath.Join(t.TempDir(), "ns.json")
	require.NoError(t, os.WriteFile(desc, []byte(`{"name":"m","kind":"module"}`), 0o644))

	cmd := watchCmd()
	cmd.SetArgs([]string{desc})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a package directory")
}

func TestWatchRejectsMissingTarget(t *testing.T) {
	cmd := watchCmd()
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "absent")})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	require.Error(t, cmd.Execute())
}
