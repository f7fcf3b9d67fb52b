package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"chanmgr/internal/shell"
)

func init() {
	rootCmd.AddCommand(loadActiveCmd)
}

var loadActiveCmd = &cobra.Command{
	Use:   "load-active",
	Short: "Print export lines for activated keys (for shell initialization)",
	Long:  "Used by the shell integration to load variables persisted by 'chanmgr key use'. Use: eval \"$(chanmgr load-active)\"",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resp := svc.LoadActive()
		if !resp.Success && !jsonOutput {
			// a broken env file must not break shell startup
			printWarning(cmd, resp.Error)
			return nil
		}
		return render(cmd, resp, func(data any) {
			fmt.Fprint(cmd.OutOrStdout(), shell.ExportLines(data.(map[string]string)))
		})
	},
}
