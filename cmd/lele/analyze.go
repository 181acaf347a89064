package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Veraticus/lelesmart/internal/cli"
	"github.com/Veraticus/lelesmart/internal/common"
	"github.com/Veraticus/lelesmart/internal/config"
	"github.com/Veraticus/lelesmart/internal/engine"
	"github.com/Veraticus/lelesmart/internal/expert"
	"github.com/Veraticus/lelesmart/internal/model"
	"github.com/Veraticus/lelesmart/internal/tui"
	"github.com/Veraticus/lelesmart/internal/tui/themes"
)

// seedFlags holds the raw seed observations given on the command line.
type seedFlags struct {
	head, agility, skin, defect         string
	cfHead, cfAgility, cfSkin, cfDefect string
}

func (f *seedFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.head, "head", "Pointed", "head shape: Pointed|Fat (or code, or Runcing|Gemuk)")
	fs.StringVar(&f.agility, "agility", "Agile", "agility: Agile|Slow")
	fs.StringVar(&f.skin, "skin", "Shiny", "skin color: Shiny|Dull")
	fs.StringVar(&f.defect, "defect", "None", "defect: RedFin|WhiteSnout|None")
	fs.StringVar(&f.cfHead, "cf-head", "Sure", "confidence in the head shape: Sure|LessSure|Unsure or 0..1")
	fs.StringVar(&f.cfAgility, "cf-agility", "Sure", "confidence in the agility")
	fs.StringVar(&f.cfSkin, "cf-skin", "Sure", "confidence in the skin color")
	fs.StringVar(&f.cfDefect, "cf-defect", "Sure", "confidence in the defect")
}

func (f *seedFlags) parse() (model.SeedInputs, error) {
	var (
		in  model.SeedInputs
		err error
	)
	p := flagParser{}
	in.HeadShape = parseFlag(&p, "head", f.head, model.ParseHeadShape)
	in.Agility = parseFlag(&p, "agility", f.agility, model.ParseAgility)
	in.SkinColor = parseFlag(&p, "skin", f.skin, model.ParseSkinColor)
	in.Defect = parseFlag(&p, "defect", f.defect, model.ParseDefect)
	in.CFHeadShape = parseFlag(&p, "cf-head", f.cfHead, model.ParseConfidence)
	in.CFAgility = parseFlag(&p, "cf-agility", f.cfAgility, model.ParseConfidence)
	in.CFSkinColor = parseFlag(&p, "cf-skin", f.cfSkin, model.ParseConfidence)
	in.CFDefect = parseFlag(&p, "cf-defect", f.cfDefect, model.ParseConfidence)
	if err = p.err(); err != nil {
		return model.SeedInputs{}, err
	}
	return in, nil
}

// pondFlags holds the raw pond observations.
type pondFlags struct {
	ph   string
	temp float64
}

func (f *pondFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.ph, "ph", "Neutral", "water pH: High|Neutral|Low")
	fs.Float64Var(&f.temp, "temp", 28, "water temperature in °C")
}

func (f *pondFlags) parse() (model.PondInputs, error) {
	p := flagParser{}
	ph := parseFlag(&p, "ph", f.ph, model.ParseWaterPH)
	if err := p.err(); err != nil {
		return model.PondInputs{}, err
	}
	return model.PondInputs{WaterPH: ph, Temperature: f.temp}, nil
}

// flagParser remembers the first bad flag.
type flagParser struct {
	first error
}

func (p *flagParser) err() error { return p.first }

func parseFlag[T any](p *flagParser, name, raw string, parse func(string) (T, error)) T {
	v, err := parse(raw)
	if err != nil && p.first == nil {
		p.first = common.NewUserError(fmt.Sprintf("invalid --%s %q", name, raw), err)
	}
	return v
}

func analyzeCmd() *cobra.Command {
	var (
		seed        seedFlags
		pond        pondFlags
		feed        string
		interactive bool
		save        bool
		explain     bool
		asJSON      bool
		theme       string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Grade seed and pond and recommend whether to raise the batch",
		Long: `Run the full expert system: seed condition, pond condition and the final
recommendation for the chosen feed.

Observations come from flags, or from an interactive form with --interactive.
Use --save to keep the analysis in the history.`,
		Example: `  lele analyze --head Fat --agility Slow --cf-head LessSure --ph High --temp 29 --feed Eggs
  lele analyze --interactive --save`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				in  model.AnalysisInput
				err error
			)
			if interactive {
				in, err = tui.Run(cmd.Context(), themes.ByName(theme))
				if errors.Is(err, tui.ErrAborted) {
					fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatWarning("Analysis cancelled"))
					return nil
				}
			} else {
				in, err = parseAnalysisFlags(&seed, &pond, feed)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !save {
				outcome, err := engine.New(nil).Preview(cmd.Context(), in)
				if err != nil {
					return inputError(err)
				}
				return printOutcome(out, *outcome, nil, explain, asJSON)
			}

			return withEngine(cmd.Context(), func(e *engine.Engine, _ *config.Config) error {
				analysis, err := e.Analyze(cmd.Context(), in)
				if err != nil {
					return inputError(err)
				}
				return printOutcome(out, expert.OutcomeOf(analysis), analysis, explain, asJSON)
			})
		},
	}

	seed.register(cmd.Flags())
	pond.register(cmd.Flags())
	cmd.Flags().StringVar(&feed, "feed", "Pellets", "feed type: Pellets|Eggs|Intestines|Worms")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "fill in a form instead of using flags")
	cmd.Flags().BoolVar(&save, "save", false, "store the analysis in the history")
	cmd.Flags().BoolVar(&explain, "explain", false, "show which rule fired in each stage")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of result cards")
	cmd.Flags().StringVar(&theme, "theme", "default", "form color theme (default, catppuccin)")

	return cmd
}

func parseAnalysisFlags(seed *seedFlags, pond *pondFlags, feed string) (model.AnalysisInput, error) {
	seedIn, err := seed.parse()
	if err != nil {
		return model.AnalysisInput{}, err
	}
	pondIn, err := pond.parse()
	if err != nil {
		return model.AnalysisInput{}, err
	}
	p := flagParser{}
	feedType := parseFlag(&p, "feed", feed, model.ParseFeedType)
	if err := p.err(); err != nil {
		return model.AnalysisInput{}, err
	}
	return model.AnalysisInput{Seed: seedIn, Pond: pondIn, Feed: feedType}, nil
}

// analyzeOutput is the JSON shape of `lele analyze --json`.
type analyzeOutput struct {
	expert.Outcome
	Analysis *model.Analysis `json:"analysis,omitempty"`
}

func printOutcome(w io.Writer, outcome expert.Outcome, saved *model.Analysis, explain, asJSON bool) error {
	if asJSON {
		if !explain {
			outcome.Trace = nil
			if saved != nil {
				stripped := *saved
				stripped.Trace = nil
				saved = &stripped
			}
		}
		return encode(w, formatJSON, analyzeOutput{Outcome: outcome, Analysis: saved})
	}

	fmt.Fprintln(w, cli.RenderOutcome(outcome, explain))
	if saved != nil {
		fmt.Fprintln(w, cli.FormatSuccess("Saved analysis "+saved.ID))
	}
	return nil
}

// inputError turns validation failures into a message listing every field.
func inputError(err error) error {
	var verr *engine.ValidationError
	if errors.As(err, &verr) {
		return common.NewUserError(verr.Error(), err)
	}
	return err
}
