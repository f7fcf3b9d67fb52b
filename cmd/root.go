package cmd

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"chanmgr/internal/api"
	"chanmgr/internal/appconfig"
	"chanmgr/internal/logging"
)

// Version information
var (
	version string
	commit  string
	date    string
)

// Persistent flags
var (
	configDir  string
	configFile string
	jsonOutput bool
	debugLog   bool
)

var (
	appCfg *appconfig.Config
	svc    *api.Service

	// newService builds the service for a command; replaced in tests
	newService = api.NewService
)

// errReported marks a failure whose message was already written
var errReported = errors.New("already reported")

// SetVersionInfo sets the version information
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

var rootCmd = &cobra.Command{
	Use:   "chanmgr",
	Short: "Manage Claude Code channels and Droid API keys",
	Long: `chanmgr keeps named Claude Code configurations ("channels") next to
settings.json, switches the active one without touching unrelated settings,
manages the Droid CLI's API keys and opens a terminal running either tool.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configDir, "config-dir", "", "Claude configuration directory (default ~/.claude)")
	flags.StringVar(&configFile, "config", "", "chanmgr config file (default $XDG_CONFIG_HOME/chanmgr/config.yaml)")
	flags.BoolVar(&jsonOutput, "json", false, "Print results as JSON")
	flags.BoolVar(&debugLog, "debug", false, "Enable debug logging")
}

// setup loads the application config, configures logging and builds the
// service every subcommand works through.
func setup(cmd *cobra.Command, args []string) error {
	appconfig.Init()
	if err := viper.BindPFlag(appconfig.KeyConfigDir, cmd.Root().PersistentFlags().Lookup("config-dir")); err != nil {
		return errors.Wrap(err, "binding --config-dir")
	}

	cfg, err := appconfig.Load(configFile)
	if err != nil {
		return err
	}
	logging.Setup(cfg.LogLevel, debugLog)

	appCfg = cfg
	svc = newService(cfg)
	return nil
}

// Execute executes the root command
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(`chanmgr {{.Version}}
Commit: ` + commit + `
Date: ` + date + `
`)

	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errReported) {
		printError(rootCmd, err.Error())
	}
	return err
}
