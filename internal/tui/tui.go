package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// Pick runs the channel picker and returns the chosen channel name, or ""
// when the user quit without choosing.
func Pick(backend Backend) (string, error) {
	if !IsTerminal() {
		return "", fmt.Errorf("the channel picker requires a terminal; pass a channel name instead")
	}

	p := tea.NewProgram(NewModel(backend), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	if m, ok := final.(Model); ok {
		return m.Chosen(), nil
	}
	return "", nil
}

// IsTerminal reports whether stdin and stdout are both terminals
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
