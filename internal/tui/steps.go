package tui

import (
	"fmt"

	"github.com/Veraticus/lelesmart/internal/model"
)

type labeled interface {
	comparable
	fmt.Stringer
	Label() string
}

// choice is one selectable answer of a step.
type choice struct {
	set   func(*model.AnalysisInput)
	label string
	hint  string
}

// step is one question of the form. Steps without choices take free text.
type step struct {
	section string
	title   string
	choices []choice
	cursor  int
}

func (s step) isText() bool { return len(s.choices) == 0 }

// options builds a choice step over values, placing the cursor on def.
func options[T labeled](section, title string, values []T, def T, set func(*model.AnalysisInput, T)) step {
	s := step{section: section, title: title}
	for i, v := range values {
		s.choices = append(s.choices, choice{
			label: v.Label(),
			hint:  v.String(),
			set:   func(in *model.AnalysisInput) { set(in, v) },
		})
		if v == def {
			s.cursor = i
		}
	}
	return s
}

// confidence asks how sure the observer is of the preceding answer.
func confidence(title string, set func(*model.AnalysisInput, float64)) step {
	return options("Bibit", title, model.ConfidenceLevels(), model.Sure,
		func(in *model.AnalysisInput, c model.ConfidenceLevel) { set(in, c.Factor()) })
}

// newSteps lays out the form in the order of the original assessment form,
// each default matching DefaultInput.
func newSteps() []step {
	return []step{
		options("Bibit", "Bentuk Kepala", model.HeadShapes(), model.Pointed,
			func(in *model.AnalysisInput, v model.HeadShape) { in.Seed.HeadShape = v }),
		confidence("Keyakinan Bentuk Kepala",
			func(in *model.AnalysisInput, cf float64) { in.Seed.CFHeadShape = cf }),
		options("Bibit", "Kelincahan", model.Agilities(), model.Agile,
			func(in *model.AnalysisInput, v model.Agility) { in.Seed.Agility = v }),
		confidence("Keyakinan Kelincahan",
			func(in *model.AnalysisInput, cf float64) { in.Seed.CFAgility = cf }),
		options("Bibit", "Warna Kulit", model.SkinColors(), model.Shiny,
			func(in *model.AnalysisInput, v model.SkinColor) { in.Seed.SkinColor = v }),
		confidence("Keyakinan Warna Kulit",
			func(in *model.AnalysisInput, cf float64) { in.Seed.CFSkinColor = cf }),
		options("Bibit", "Cacat Fisik", model.Defects(), model.NoDefect,
			func(in *model.AnalysisInput, v model.Defect) { in.Seed.Defect = v }),
		confidence("Keyakinan Cacat Fisik",
			func(in *model.AnalysisInput, cf float64) { in.Seed.CFDefect = cf }),
		options("Kolam", "pH Air", model.WaterPHs(), model.PHNeutral,
			func(in *model.AnalysisInput, v model.WaterPH) { in.Pond.WaterPH = v }),
		{section: "Kolam", title: "Suhu Air (°C)"},
		options("Pakan", "Jenis Pakan", model.FeedTypes(), model.Pellets,
			func(in *model.AnalysisInput, v model.FeedType) { in.Feed = v }),
	}
}

// DefaultInput returns the answers the form starts with.
func DefaultInput() model.AnalysisInput {
	in := model.AnalysisInput{Pond: model.PondInputs{Temperature: defaultTemperature}}
	for _, s := range newSteps() {
		if !s.isText() {
			s.choices[s.cursor].set(&in)
		}
	}
	return in
}
