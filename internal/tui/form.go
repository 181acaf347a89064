package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/lelesmart/internal/engine"
	"github.com/Veraticus/lelesmart/internal/expert"
	"github.com/Veraticus/lelesmart/internal/model"
	"github.com/Veraticus/lelesmart/internal/tui/themes"
)

const defaultTemperature = 28.0

// Form is the bubbletea model of the assessment form. After the last question
// a review screen previews the outcome; confirming it completes the form.
type Form struct {
	theme       themes.Theme
	keymap      KeyMap
	help        help.Model
	temperature textinput.Model
	err         string
	steps       []step
	input       model.AnalysisInput
	current     int
	width       int
	done        bool
	aborted     bool
}

// NewForm creates a form holding the default answers.
func NewForm(theme themes.Theme) Form {
	ti := textinput.New()
	ti.SetValue(strconv.FormatFloat(defaultTemperature, 'f', -1, 64))
	ti.CharLimit = 6
	ti.Width = 8
	ti.Prompt = "› "

	return Form{
		theme:       theme,
		keymap:      DefaultKeyMap(),
		help:        help.New(),
		temperature: ti,
		steps:       newSteps(),
		input:       DefaultInput(),
	}
}

// Init implements tea.Model.
func (f Form) Init() tea.Cmd {
	return nil
}

// Input returns the answers collected so far.
func (f Form) Input() model.AnalysisInput { return f.input }

// Done reports whether the user confirmed the review screen.
func (f Form) Done() bool { return f.done }

// Aborted reports whether the user quit before confirming.
func (f Form) Aborted() bool { return f.aborted }

func (f Form) reviewing() bool { return f.current == len(f.steps) }

// Update implements tea.Model.
func (f Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		f.width = msg.Width
		f.help.Width = msg.Width
		return f, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, f.keymap.Quit):
			f.aborted = true
			return f, tea.Quit
		case key.Matches(msg, f.keymap.Back):
			return f.back()
		case key.Matches(msg, f.keymap.Next):
			return f.next()
		}

		if !f.reviewing() && f.steps[f.current].isText() {
			var cmd tea.Cmd
			f.temperature, cmd = f.temperature.Update(msg)
			return f, cmd
		}

		switch {
		case key.Matches(msg, f.keymap.Toggle):
			f.help.ShowAll = !f.help.ShowAll
		case key.Matches(msg, f.keymap.Up):
			f.moveCursor(-1)
		case key.Matches(msg, f.keymap.Down):
			f.moveCursor(1)
		}
	}

	return f, nil
}

func (f *Form) moveCursor(delta int) {
	if f.reviewing() {
		return
	}
	s := &f.steps[f.current]
	if s.isText() {
		return
	}
	s.cursor = (s.cursor + delta + len(s.choices)) % len(s.choices)
}

func (f Form) next() (tea.Model, tea.Cmd) {
	if f.reviewing() {
		f.done = true
		return f, tea.Quit
	}

	s := f.steps[f.current]
	if s.isText() {
		temp, err := parseTemperature(f.temperature.Value())
		if err != nil {
			f.err = err.Error()
			return f, nil
		}
		f.input.Pond.Temperature = temp
		f.temperature.Blur()
	} else {
		s.choices[s.cursor].set(&f.input)
	}

	f.err = ""
	f.current++
	cmd := f.focus()
	return f, cmd
}

func (f Form) back() (tea.Model, tea.Cmd) {
	if f.current == 0 {
		return f, nil
	}
	f.err = ""
	f.temperature.Blur()
	f.current--
	cmd := f.focus()
	return f, cmd
}

func (f *Form) focus() tea.Cmd {
	if !f.reviewing() && f.steps[f.current].isText() {
		return f.temperature.Focus()
	}
	return nil
}

func (f Form) preview() expert.Outcome {
	return expert.Evaluate(f.input)
}

// parseTemperature accepts a decimal point or comma.
func parseTemperature(raw string) (float64, error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	temp, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("suhu harus berupa angka")
	}
	if temp < engine.MinTemperature || temp > engine.MaxTemperature {
		return 0, fmt.Errorf("suhu harus antara %.0f dan %.0f °C", engine.MinTemperature, engine.MaxTemperature)
	}
	return temp, nil
}
