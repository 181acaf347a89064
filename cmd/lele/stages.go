package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Veraticus/lelesmart/internal/cli"
	"github.com/Veraticus/lelesmart/internal/common"
	"github.com/Veraticus/lelesmart/internal/engine"
	"github.com/Veraticus/lelesmart/internal/expert"
	"github.com/Veraticus/lelesmart/internal/model"
)

// stageOutput is the JSON shape printed by the single-stage commands.
type stageOutput struct {
	Status     string  `json:"status"`
	Label      string  `json:"label"`
	Rule       string  `json:"rule"`
	Confidence float64 `json:"confidence"`
}

func printStage[S model.Status](w io.Writer, title string, result model.ConditionResult[S], rule string, asJSON bool) error {
	if asJSON {
		return encode(w, formatJSON, stageOutput{
			Status:     string(result.Status),
			Label:      result.Status.Label(),
			Rule:       rule,
			Confidence: result.Confidence,
		})
	}
	fmt.Fprintln(w, cli.RenderResultCard(title, result.Status.Label(), result.Confidence))
	fmt.Fprintln(w, cli.FormatInfo("rule: "+rule))
	return nil
}

func seedCmd() *cobra.Command {
	var (
		seed   seedFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Grade seed fish only",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := seed.parse()
			if err != nil {
				return err
			}
			if err := engine.ValidateSeed(in); err != nil {
				return inputError(err)
			}
			result, rule := expert.SeedRules.Evaluate(in)
			return printStage(cmd.OutOrStdout(), cli.SeedCardTitle, result, rule, asJSON)
		},
	}

	seed.register(cmd.Flags())
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func pondCmd() *cobra.Command {
	var (
		pond   pondFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "pond",
		Short: "Grade pond water only",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := pond.parse()
			if err != nil {
				return err
			}
			if err := engine.ValidatePond(in); err != nil {
				return inputError(err)
			}
			result, rule := expert.PondRules.Evaluate(in)
			return printStage(cmd.OutOrStdout(), cli.PondCardTitle, result, rule, asJSON)
		},
	}

	pond.register(cmd.Flags())
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func finalCmd() *cobra.Command {
	var (
		seedStatus, pondStatus string
		feed                   string
		cfSeed, cfPond         string
		asJSON                 bool
	)

	cmd := &cobra.Command{
		Use:   "final",
		Short: "Combine known seed and pond verdicts with a feed",
		Example: `  lele final --seed Healthy --cf-seed 0.9 --pond Fair --cf-pond 0.8 --feed Pellets
  lele final --seed "Tidak Sehat" --cf-seed 0.75 --pond Baik --cf-pond 1 --feed Telur`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := flagParser{}
			in := expert.FinalInputs{
				Seed:   parseFlag(&p, "seed", seedStatus, model.ParseSeedStatus),
				Pond:   parseFlag(&p, "pond", pondStatus, model.ParsePondStatus),
				Feed:   parseFlag(&p, "feed", feed, model.ParseFeedType),
				CFSeed: parseFlag(&p, "cf-seed", cfSeed, parseFactor),
				CFPond: parseFlag(&p, "cf-pond", cfPond, parseFactor),
			}
			if err := p.err(); err != nil {
				return err
			}
			if err := engine.ValidateFinal(in); err != nil {
				return inputError(err)
			}
			result, rule := expert.FinalRules.Evaluate(in)
			return printStage(cmd.OutOrStdout(), cli.FinalCardTitle, result, rule, asJSON)
		},
	}

	cmd.Flags().StringVar(&seedStatus, "seed", "", "seed condition: Healthy|Unhealthy|Invalid (or Indonesian label)")
	cmd.Flags().StringVar(&pondStatus, "pond", "", "pond condition: Good|Fair|Poor|Invalid")
	cmd.Flags().StringVar(&feed, "feed", "Pellets", "feed type: Pellets|Eggs|Intestines|Worms")
	cmd.Flags().StringVar(&cfSeed, "cf-seed", "1", "certainty of the seed verdict (0..1)")
	cmd.Flags().StringVar(&cfPond, "cf-pond", "1", "certainty of the pond verdict (0..1)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	_ = cmd.MarkFlagRequired("seed")
	_ = cmd.MarkFlagRequired("pond")
	return cmd
}

// parseFactor parses a raw certainty factor. Range checks are left to the
// engine so every bad field is reported at once.
func parseFactor(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", common.ErrInvalidInput, s)
	}
	return f, nil
}
