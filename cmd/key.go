package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"chanmgr/config/models"
	"chanmgr/internal/api"
	"chanmgr/internal/shell"
)

func init() {
	rootCmd.AddCommand(keyCmd)
	keyCmd.AddCommand(keyListCmd, keyAddCmd, keyRemoveCmd, keyUseCmd)
	keyAddCmd.Flags().String("old-name", "", "Existing profile to rename or edit")
}

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage Droid API keys",
	Long:  "Manage the named FACTORY_API_KEY profiles stored in key.txt",
}

var keyListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List key profiles",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return render(cmd, svc.ListKeys(), func(data any) {
			keys := data.([]api.KeyInfo)
			out := cmd.OutOrStdout()
			if len(keys) == 0 {
				fmt.Fprintln(out, "No keys available")
				return
			}
			for _, k := range keys {
				if k.Active {
					fmt.Fprintf(out, "* %s %s\n", activeStyle.Render(k.Name), dimStyle.Render(k.Key))
				} else {
					fmt.Fprintf(out, "  %s %s\n", k.Name, dimStyle.Render(k.Key))
				}
			}
		})
	},
}

var keyAddCmd = &cobra.Command{
	Use:   "add <name> [key]",
	Short: "Add or update a key profile",
	Long: `Add or update a key profile. New profiles are listed first.

The key is read from a hidden prompt when it is not given.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		oldName, _ := cmd.Flags().GetString("old-name")

		var key string
		if len(args) == 2 {
			key = args[1]
		}
		if strings.TrimSpace(key) == "" {
			var err error
			if key, err = promptSecret(cmd, "API key"); err != nil {
				return err
			}
		}

		return render(cmd, svc.SaveKey(args[0], key, oldName), func(any) {
			printSuccess(cmd, "Saved key "+args[0])
		})
	},
}

var keyRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Delete a key profile",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return render(cmd, svc.DeleteKey(args[0]), func(any) {
			printSuccess(cmd, "Deleted key "+args[0])
		})
	},
}

var keyUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Activate a key profile",
	Long: `Activate a key profile. The key is persisted for new shells and an
export line is printed so the current shell can pick it up:

  eval "$(chanmgr key use <name>)"

With the shell integration installed ('chanmgr install') this happens
automatically.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return render(cmd, svc.UseKey(args[0]), func(data any) {
			result := data.(*models.ActivationResult)
			fmt.Fprint(cmd.OutOrStdout(), shell.ExportLines(map[string]string{result.Variable: result.Value}))
			fmt.Fprintln(cmd.ErrOrStderr(), successStyle.Render("✓ Activated key "+result.Profile))
		})
	},
}
