// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program for the inspector UI
package ui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the TUI and blocks until the user quits or ctx is cancelled
func Run(ctx context.Context, config Config) error {
	p := tea.NewProgram(NewModel(config),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}
