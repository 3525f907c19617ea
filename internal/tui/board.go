package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/brenotorrezani-space/quest-supremacy-irl/internal/engine"
)

// RunBoard shows the interactive quest board until the user quits.
func RunBoard(ctx context.Context, svc *engine.Service, out io.Writer) error {
	if svc == nil {
		return errNoService
	}
	m := newBoardModel(ctx, svc)
	p := tea.NewProgram(m, tea.WithOutput(out), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
