package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "pigit.log")
	log, err := New(file, "debug")
	require.NoError(t, err)
	log.Debug("probe")
	log.Info("apply")
	_ = log.Sync()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"probe"`)
	assert.Contains(t, string(data), `"msg":"apply"`)
}

func TestNewLevelFilters(t *testing.T) {
	file := filepath.Join(t.TempDir(), "pigit.log")
	log, err := New(file, "warn")
	require.NoError(t, err)
	log.Info("hidden")
	log.Warn("shown")
	_ = log.Sync()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestNewWithoutFileIsNop(t *testing.T) {
	log, err := New("", "nonsense")
	require.NoError(t, err)
	assert.NotNil(t, log)
}

func TestNewBadLevel(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "x.log"), "loud")
	assert.ErrorContains(t, err, "log level")
}
