package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(restoreCmd)
}

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore settings.json from its latest backup",
	Long:  "Replace settings.json with the most recent backup taken by 'chanmgr switch'. Up to three backups are kept.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return render(cmd, svc.RestoreActive(), func(data any) {
			backup := data.(map[string]string)["backup"]
			printSuccess(cmd, "Restored settings.json from "+filepath.Base(backup))
		})
	},
}
