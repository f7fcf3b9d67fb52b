package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"chanmgr/config/models"
	"chanmgr/internal/api"
	"chanmgr/internal/utils"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active settings",
	Long:  "Show the credentials and endpoint currently in settings.json and which channel they belong to",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resp := svc.GetActive()
		return render(cmd, resp, func(data any) {
			active := data.(*models.Channel)
			out := cmd.OutOrStdout()

			name := "(no matching channel)"
			if list := svc.ListChannels(); list.Success {
				if n := list.Data.(api.ChannelList).Active; n != "" {
					name = n
				}
			}

			fmt.Fprintf(out, "Channel:   %s\n", activeStyle.Render(name))
			fmt.Fprintf(out, "Settings:  %s\n", svc.Channels.ActivePath())
			fmt.Fprintf(out, "Token:     %s\n", utils.MaskSecret(active.AuthToken()))
			if url := active.BaseURL(); url != "" {
				fmt.Fprintf(out, "Base URL:  %s\n", url)
			} else {
				fmt.Fprintf(out, "Base URL:  %s\n", dimStyle.Render("(default)"))
			}
			if active.Model != "" {
				fmt.Fprintf(out, "Model:     %s\n", active.Model)
			}
			if active.BalanceAPI != nil {
				fmt.Fprintf(out, "Balance:   %s %s\n", active.BalanceAPI.Method, active.BalanceAPI.URL)
			}
		})
	},
}
