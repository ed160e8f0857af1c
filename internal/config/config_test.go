package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.CmdShowOriginal)
	assert.True(t, cfg.CmdRecommend)
	assert.Equal(t, 1500*time.Millisecond, cfg.HelpShowtime())
	assert.Equal(t, []string{"remote", "branch", "log"}, cfg.RepoInfoInclude)
	assert.Equal(t, 30*time.Second, cfg.GitTimeout)
	assert.Equal(t, time.Second, cfg.ProbeCacheTTL)
	assert.True(t, cfg.Watch)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Warnings)
}

func TestLoadSearchPathWithoutFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.File)
	assert.Equal(t, Default().RepoInfoInclude, cfg.RepoInfoInclude)
}

func TestLoadFromXDG(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Chdir(t.TempDir())
	dir := filepath.Join(xdg, "pigit")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("tui_help_showtime: 0\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.HelpShowtime())
	assert.Equal(t, filepath.Join(dir, "config.yaml"), cfg.File)
}

func TestLoadExplicitFile(t *testing.T) {
	path := writeConfig(t, `
cmd_recommend: false
tui_help_showtime: 3
repo_info_include: [path, summary]
git_timeout: 5s
log_file: /tmp/pigit.log
log_level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.CmdRecommend)
	assert.Equal(t, 3*time.Second, cfg.HelpShowtime())
	assert.Equal(t, []string{"path", "summary"}, cfg.RepoInfoInclude)
	assert.True(t, cfg.Includes("summary"))
	assert.False(t, cfg.Includes("log"))
	assert.Equal(t, 5*time.Second, cfg.GitTimeout)
	assert.Equal(t, "/tmp/pigit.log", cfg.LogFile)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoadNormalizes(t *testing.T) {
	path := writeConfig(t, `
tui_help_showtime: -2
repo_info_include: [remote, bogus, log]
git_timeout: 0s
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.HelpShowtime())
	assert.Equal(t, []string{"remote", "log"}, cfg.RepoInfoInclude)
	assert.Equal(t, defaultGitTimeout, cfg.GitTimeout)
	assert.Len(t, cfg.Warnings, 3)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PIGIT_CMD_SHOW_ORIGINAL", "false")
	t.Setenv("PIGIT_LOG_LEVEL", "warn")
	cfg, err := Load(writeConfig(t, "log_level: debug\n"))
	require.NoError(t, err)
	assert.False(t, cfg.CmdShowOriginal)
	assert.Equal(t, "warn", cfg.LogLevel)
}
