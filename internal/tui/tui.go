// Package tui renders the interactive session timer.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/balkashynov/tempo/internal/clock"
	"github.com/balkashynov/tempo/internal/models"
)

// SessionEnder ends a running session. *db.Store implements it.
type SessionEnder interface {
	EndSession(ctx context.Context, sessionID uint) (*models.Session, error)
}

// RunTimer shows the timer until the user leaves it. It returns the ended
// session when the user stopped it, or nil when it was left running.
func RunTimer(ctx context.Context, ender SessionEnder, session *models.Session, project *models.ProjectSummary, clk clock.Clock, opts ...tea.ProgramOption) (*models.Session, error) {
	model := NewTimerModel(session, project, clk)

	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	finalModel, err := tea.NewProgram(model, opts...).Run()
	if err != nil {
		return nil, err
	}

	return finish(ctx, ender, finalModel, session)
}

func finish(ctx context.Context, ender SessionEnder, finalModel tea.Model, session *models.Session) (*models.Session, error) {
	m, ok := finalModel.(TimerModel)
	if !ok || !m.Stopping() {
		return nil, nil
	}

	ended, err := ender.EndSession(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to stop session: %w", err)
	}
	return ended, nil
}
