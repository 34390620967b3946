// Package tui hosts a desktop session in the terminal. Windows are drawn
// as boxes on a character grid; each cell covers CellWidth x CellHeight
// host units.
package tui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/termdesk/internal/app"
)

// Run drives sess from the terminal until the user quits. The session's
// loop must already be running.
func Run(sess *app.Session) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("termdesk requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	p := tea.NewProgram(newModel(sess),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("terminal host: %w", err)
	}
	return nil
}
