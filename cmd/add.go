package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"chanmgr/config"
	"chanmgr/internal/api"
)

// readSecret is how hidden values are read from a terminal; replaced in tests
var readSecret = func(fd int) ([]byte, error) {
	return term.ReadPassword(fd)
}

// stdinIsTerminal reports whether stdin is an interactive terminal
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// promptSecret asks for a value without echoing it. Without a terminal the
// first line of stdin is used.
func promptSecret(cmd *cobra.Command, label string) (string, error) {
	if !stdinIsTerminal() {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", errors.Wrap(err, "reading "+label)
		}
		return strings.TrimSpace(line), nil
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%s: ", label)
	value, err := readSecret(int(os.Stdin.Fd()))
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", errors.Wrap(err, "reading "+label)
	}
	return strings.TrimSpace(string(value)), nil
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringP("token", "t", "", "Auth token (prompted when omitted)")
	addCmd.Flags().StringP("url", "u", "", "API base URL")
	addCmd.Flags().StringP("model", "m", "", "Model override")
	addCmd.Flags().String("balance-url", "", "Balance query URL")
	addCmd.Flags().String("balance-method", "", "Balance query method (GET or POST, default POST)")
	addCmd.Flags().String("balance-field", "", "Path of the balance in the response, e.g. data.balance")
	addCmd.Flags().String("old-name", "", "Existing channel to rename or edit")
	addCmd.Flags().BoolP("force", "f", false, "Overwrite an existing channel")
}

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add or update a channel",
	Long: `Add or update a channel

Create a channel:
  chanmgr add work --token sk-xxx --url https://api.example.com

Edit or rename one:
  chanmgr add work-eu --old-name work --token sk-xxx

The token is read from a hidden prompt when --token is omitted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		token, _ := flags.GetString("token")
		url, _ := flags.GetString("url")
		model, _ := flags.GetString("model")
		balanceURL, _ := flags.GetString("balance-url")
		balanceMethod, _ := flags.GetString("balance-method")
		balanceField, _ := flags.GetString("balance-field")
		oldName, _ := flags.GetString("old-name")
		force, _ := flags.GetBool("force")

		if strings.TrimSpace(token) == "" {
			var err error
			if token, err = promptSecret(cmd, "Auth token"); err != nil {
				return err
			}
		}

		req := api.SaveChannelRequest{
			SaveRequest: config.SaveRequest{
				Name:          args[0],
				Token:         token,
				BaseURL:       url,
				Model:         model,
				OldName:       oldName,
				BalanceURL:    balanceURL,
				BalanceMethod: balanceMethod,
				BalanceField:  balanceField,
			},
			Overwrite: force,
		}

		return render(cmd, svc.SaveChannel(req), func(any) {
			if oldName != "" && oldName != args[0] {
				printSuccess(cmd, fmt.Sprintf("Renamed channel %s to %s", oldName, args[0]))
				return
			}
			printSuccess(cmd, "Saved channel "+args[0])
		})
	},
}
