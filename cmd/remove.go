package cmd

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(removeCmd)
}

var removeCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Delete a channel",
	Long:    "Delete a channel. The file is renamed to settings-<name>.json.del and can be restored by hand.",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return render(cmd, svc.DeleteChannel(args[0]), func(any) {
			printSuccess(cmd, "Deleted channel "+args[0])
		})
	},
}
