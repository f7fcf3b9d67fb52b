package appconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("USERPROFILE", "")
	t.Setenv("HOME", filepath.FromSlash("/home/tester"))
	Init()
}

func TestLoadDefaults(t *testing.T) {
	setup(t)
	viper.SetConfigName("chanmgr-test-nonexistent")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(filepath.FromSlash("/home/tester"), ".claude"), cfg.ConfigDir)
	assert.Equal(t, filepath.FromSlash("/home/tester"), cfg.TerminalDir)
	assert.Equal(t, "claude", cfg.ClaudeCommand)
	assert.Equal(t, "droid", cfg.DroidCommand)
	assert.Equal(t, 10*time.Second, cfg.BalanceTimeout)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Empty(t, cfg.Terminal)
}

func TestLoadFile(t *testing.T) {
	setup(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "config_dir: /tmp/claude\nterminal: pwsh\nbalance_timeout: 3s\nlog_level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/claude", cfg.ConfigDir)
	assert.Equal(t, "pwsh", cfg.Terminal)
	assert.Equal(t, 3*time.Second, cfg.BalanceTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "claude", cfg.ClaudeCommand, "unset keys keep defaults")
	assert.Equal(t, path, ConfigFileUsed())
}

func TestLoadEnvOverride(t *testing.T) {
	setup(t)
	viper.SetConfigName("chanmgr-test-nonexistent")
	t.Setenv("CHANMGR_CLAUDE_COMMAND", "claude --verbose")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "claude --verbose", cfg.ClaudeCommand)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	setup(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "config file not found")
}

func TestLoadMalformedFile(t *testing.T) {
	setup(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("terminal: [unclosed\n"), 0600))

	_, err := Load(path)
	assert.ErrorContains(t, err, "reading config file")
}

func TestYAML(t *testing.T) {
	cfg := &Config{ConfigDir: "/c", BalanceTimeout: 5 * time.Second, LogLevel: "info"}

	data, err := cfg.YAML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "config_dir: /c")
	assert.Contains(t, string(data), "balance_timeout: 5s")
}
