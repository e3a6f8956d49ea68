package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammar-qazi/HisaabFlow-sub002/internal/config"
)

func TestRunInit(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runInit(dir, "Ammar Qazi"))

	for _, d := range []string{"import", "out"} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	cfg, err := config.Load(filepath.Join(dir, configFileName))
	require.NoError(t, err)
	assert.Equal(t, "Ammar Qazi", cfg.Identity.Name)
	assert.Equal(t, 24, cfg.Matching.DateToleranceHours)
	assert.NoError(t, cfg.Validate())
}

func TestRunInit_AlreadyInitialized(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runInit(dir, "Ammar Qazi"))

	err := runInit(dir, "Ammar Qazi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}
