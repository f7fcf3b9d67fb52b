package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"chanmgr/internal/shell"
	"chanmgr/internal/utils"
)

func init() {
	rootCmd.AddCommand(installCmd)
	installCmd.Flags().BoolP("force", "f", false, "Replace an existing installation")
	installCmd.Flags().String("rc-file", "", "Shell rc file to modify (default from $SHELL)")
}

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the shell integration",
	Long: `Add the chanmgr block to ~/.zshrc or ~/.bashrc so new shells load keys
activated with 'chanmgr key use', and 'chanmgr key use' updates the current
shell directly.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		rcFile, _ := cmd.Flags().GetString("rc-file")
		gen := shell.NewGenerator()

		if rcFile == "" {
			var err error
			rcFile, err = shell.RCFile(os.Getenv("SHELL"), utils.HomeDir())
			if err != nil {
				snippet, _ := gen.Generate()
				fmt.Fprintln(cmd.ErrOrStderr(), "Please add the following to your shell configuration file:")
				fmt.Fprintf(cmd.ErrOrStderr(), "\n%s\n", snippet)
				return err
			}
		}

		state, err := gen.Install(rcFile, force)
		if err != nil {
			return err
		}

		switch state {
		case shell.AlreadyInstalled:
			printSuccess(cmd, "Already installed in "+rcFile)
			fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("Use --force to reinstall"))
			return nil
		case shell.Updated:
			printSuccess(cmd, "Updated shell integration in "+rcFile)
		default:
			printSuccess(cmd, "Installed shell integration in "+rcFile)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nRun 'source %s' or open a new terminal to take effect\n", rcFile)
		return nil
	},
}
