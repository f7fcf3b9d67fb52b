package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"chanmgr/internal/tui"
)

// Picker hooks; replaced in tests
var (
	interactive = tui.IsTerminal
	pickChannel = func() (string, error) {
		return tui.Pick(svc)
	}
)

func init() {
	rootCmd.AddCommand(switchCmd)
}

var switchCmd = &cobra.Command{
	Use:     "switch [name]",
	Aliases: []string{"use"},
	Short:   "Activate a channel",
	Long: `Activate a channel by merging it into settings.json.

Only env and balanceApi are taken from the channel; every other key in
settings.json is kept where it is. The previous settings.json is backed up
first (see 'chanmgr restore').

Without a name an interactive picker is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var name string
		if len(args) == 1 {
			name = args[0]
		} else {
			if jsonOutput || !interactive() {
				return fmt.Errorf("a channel name is required when not running in a terminal")
			}
			chosen, err := pickChannel()
			if err != nil {
				return err
			}
			if chosen == "" {
				fmt.Fprintln(cmd.ErrOrStderr(), "No channel selected")
				return nil
			}
			name = chosen
		}

		return render(cmd, svc.SwitchChannel(name), func(any) {
			printSuccess(cmd, "Switched to channel "+name)
			fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("Restart Claude Code for the change to take effect"))
		})
	},
}
