package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"chanmgr/internal/api"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	activeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// render prints resp. With --json the whole response is printed as is;
// otherwise human is called with the data of a successful response. A
// failed response becomes the command's error.
func render(cmd *cobra.Command, resp api.Response, human func(data any)) error {
	if jsonOutput {
		data, err := json.Marshal(resp)
		if err != nil {
			return err
		}
		cmd.OutOrStdout().Write(pretty.Pretty(data))
		if !resp.Success {
			return errReported
		}
		return nil
	}

	if !resp.Success {
		printError(cmd, fmt.Sprintf("%s (%s)", resp.Error, resp.Kind))
		return errReported
	}
	if human != nil {
		human(resp.Data)
	}
	return nil
}

func printSuccess(cmd *cobra.Command, msg string) {
	fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✓ "+msg))
}

func printWarning(cmd *cobra.Command, msg string) {
	fmt.Fprintln(cmd.ErrOrStderr(), warningStyle.Render("Warning: "+msg))
}

func printError(cmd *cobra.Command, msg string) {
	fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render("Error: "+msg))
}
