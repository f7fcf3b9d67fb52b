package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"chanmgr/internal/api"
	"chanmgr/internal/launcher"
	"chanmgr/internal/providers"
)

func init() {
	rootCmd.AddCommand(launchCmd)
	launchCmd.Flags().String("tool", "claude", fmt.Sprintf("Tool to run %v", providers.List()))
	launchCmd.Flags().StringP("dir", "d", "", "Working directory (default from config, falls back to home)")
	launchCmd.Flags().String("terminal", "", "Terminal or shell: wt, pwsh, powershell, cmd, or a Unix shell")
	launchCmd.Flags().BoolP("wait", "w", false, "Run in the current terminal and wait (not on Windows)")

	rootCmd.AddCommand(terminalCheckCmd)
}

var launchCmd = &cobra.Command{
	Use:   "launch",
	Short: "Open a terminal running Claude Code or Droid",
	Long: `Open a new terminal in a working directory and start the tool in it.

On Windows, Windows Terminal is used when available, falling back to a
PowerShell or cmd console. Elsewhere a login shell is started.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		tool, _ := flags.GetString("tool")
		dir, _ := flags.GetString("dir")
		terminal, _ := flags.GetString("terminal")
		wait, _ := flags.GetBool("wait")

		resp := svc.Launch(cmd.Context(), api.LaunchRequest{
			Tool:     tool,
			Dir:      dir,
			Terminal: terminal,
			Wait:     wait,
		})
		return render(cmd, resp, func(data any) {
			if wait {
				return
			}
			res := data.(*launcher.Result)
			printSuccess(cmd, fmt.Sprintf("Started %s in %s (%s)", tool, res.Dir, res.Step))
		})
	},
}

var terminalCheckCmd = &cobra.Command{
	Use:   "terminal-check <terminal>",
	Short: "Check whether a terminal can be used",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return render(cmd, svc.CheckTerminal(args[0]), func(data any) {
			if data.(map[string]any)["available"] == true {
				printSuccess(cmd, args[0]+" is available")
				return
			}
			printWarning(cmd, args[0]+" was not found on PATH")
		})
	},
}
