package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"chanmgr/internal/api"
	"chanmgr/internal/appconfig"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective chanmgr configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if jsonOutput {
			return render(cmd, api.OK(appCfg), nil)
		}

		data, err := appCfg.YAML()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if used := appconfig.ConfigFileUsed(); used != "" {
			fmt.Fprintln(out, dimStyle.Render("# "+used))
		} else {
			fmt.Fprintln(out, dimStyle.Render("# defaults (no config file in "+appconfig.Dir()+")"))
		}
		fmt.Fprint(out, string(data))
		return nil
	},
}
