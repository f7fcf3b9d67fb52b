package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"chanmgr/internal/balance"
)

func init() {
	rootCmd.AddCommand(balanceCmd)
}

var balanceCmd = &cobra.Command{
	Use:   "balance <name>",
	Short: "Query a channel's remaining balance",
	Long:  "Send one request to the channel's balance API with its token and print the configured field",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return render(cmd, svc.Balance(cmd.Context(), args[0]), func(data any) {
			res := data.(*balance.Result)
			if res.Field != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", res.Field, res.Value)
				return
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Value)
		})
	},
}
