package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/lelesmart/internal/model"
	"github.com/Veraticus/lelesmart/internal/tui/themes"
)

// ErrAborted is returned when the user quits the form.
var ErrAborted = errors.New("analysis form aborted")

// Run shows the form and returns the confirmed answers. Extra options are
// passed to the bubbletea program, e.g. tea.WithInput in tests.
func Run(ctx context.Context, theme themes.Theme, opts ...tea.ProgramOption) (model.AnalysisInput, error) {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(NewForm(theme), opts...)

	final, err := p.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return model.AnalysisInput{}, ctxErr
		}
		return model.AnalysisInput{}, fmt.Errorf("form failed: %w", err)
	}

	form, ok := final.(Form)
	if !ok || !form.Done() {
		return model.AnalysisInput{}, ErrAborted
	}
	return form.Input(), nil
}
