package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"chanmgr/internal/api"
	"chanmgr/internal/utils"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all channels",
	Long:    "List all saved channels, most recently modified first. The active channel is marked with *.",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return render(cmd, svc.ListChannels(), func(data any) {
			list := data.(api.ChannelList)
			out := cmd.OutOrStdout()

			if len(list.Channels) == 0 {
				fmt.Fprintln(out, "No channels available")
				return
			}

			for _, c := range list.Channels {
				marker := " "
				name := c.Name
				if c.Active {
					marker = "*"
					name = activeStyle.Render(c.Name)
				}

				details := "Token: " + c.Token
				if c.BaseURL != "" {
					details += ", URL: " + c.BaseURL
				}
				if c.Model != "" {
					details += ", Model: " + c.Model
				}
				if c.BalanceAPI != nil {
					details += ", Balance: " + utils.ExtractHost(c.BalanceAPI.URL)
				}
				fmt.Fprintf(out, "%s %s %s\n", marker, name, dimStyle.Render("("+details+")"))
			}

			if list.Active != "" {
				fmt.Fprintln(out, "\n* indicates the currently active channel")
			}
		})
	},
}
