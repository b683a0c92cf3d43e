package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := runCmd(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "myfishingdiary version dev")
}

func TestDBSeedAndDrop(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("MONGODB_URI", "")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "cli.db"))
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "error")

	out, err := runCmd(t, "db", "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved user: Administrator")

	// Seeding again inserts nothing new.
	out, err = runCmd(t, "db", "seed")
	require.NoError(t, err)
	assert.NotContains(t, out, "Saved user")

	out, err = runCmd(t, "db", "drop")
	require.NoError(t, err)
	assert.Contains(t, out, "'Users' successfully deleted.")
}

func TestUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "redis")

	_, err := runCmd(t, "db", "seed")
	assert.Error(t, err)
}
