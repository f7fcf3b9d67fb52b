// Package appconfig loads chanmgr's own settings with Viper.
//
// Values come from, in increasing precedence: built-in defaults,
// $XDG_CONFIG_HOME/chanmgr/config.yaml (or the file given with --config),
// CHANMGR_* environment variables, and bound command-line flags.
package appconfig

import (
	"io/fs"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"chanmgr/internal/utils"
)

// AppName is used for the config directory and the env prefix
const AppName = "chanmgr"

// Config keys
const (
	KeyConfigDir      = "config_dir"
	KeyTerminal       = "terminal"
	KeyTerminalDir    = "terminal_dir"
	KeyClaudeCommand  = "claude_command"
	KeyDroidCommand   = "droid_command"
	KeyBalanceTimeout = "balance_timeout"
	KeyLogLevel       = "log_level"
)

// Config is the effective application configuration
type Config struct {
	ConfigDir      string        `mapstructure:"config_dir" yaml:"config_dir"`
	Terminal       string        `mapstructure:"terminal" yaml:"terminal"`
	TerminalDir    string        `mapstructure:"terminal_dir" yaml:"terminal_dir"`
	ClaudeCommand  string        `mapstructure:"claude_command" yaml:"claude_command"`
	DroidCommand   string        `mapstructure:"droid_command" yaml:"droid_command"`
	BalanceTimeout time.Duration `mapstructure:"balance_timeout" yaml:"balance_timeout"`
	LogLevel       string        `mapstructure:"log_level" yaml:"log_level"`
}

// Dir returns the directory holding config.yaml and active.env
func Dir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Init registers the config search path, env binding and defaults.
// Call it once before Load.
func Init() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(Dir())

	viper.SetEnvPrefix("CHANMGR")
	viper.AutomaticEnv()

	home := utils.HomeDir()
	viper.SetDefault(KeyConfigDir, filepath.Join(home, ".claude"))
	viper.SetDefault(KeyTerminal, "")
	viper.SetDefault(KeyTerminalDir, home)
	viper.SetDefault(KeyClaudeCommand, "claude")
	viper.SetDefault(KeyDroidCommand, "droid")
	viper.SetDefault(KeyBalanceTimeout, 10*time.Second)
	viper.SetDefault(KeyLogLevel, "warn")
}

// Load reads the config file. An explicit path must exist; without one a
// missing file just means defaults.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case path != "" && errors.Is(err, fs.ErrNotExist):
			return nil, errors.Wrapf(err, "config file not found at %s", path)
		case path == "" && errors.As(err, &notFound):
			// defaults only
		default:
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}
	if cfg.BalanceTimeout <= 0 {
		cfg.BalanceTimeout = 10 * time.Second
	}

	return &cfg, nil
}

// ConfigFileUsed returns the path of the file Load read, or ""
func ConfigFileUsed() string {
	return viper.ConfigFileUsed()
}

// YAML renders the effective configuration
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling config")
	}
	return data, nil
}
