package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Veraticus/lelesmart/internal/cli"
	"github.com/Veraticus/lelesmart/internal/config"
	"github.com/Veraticus/lelesmart/internal/engine"
	"github.com/Veraticus/lelesmart/internal/expert"
	"github.com/Veraticus/lelesmart/internal/model"
	"github.com/Veraticus/lelesmart/internal/service"
)

func analysesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "analyses",
		Aliases: []string{"history"},
		Short:   "Browse stored analyses",
	}

	cmd.AddCommand(analysesListCmd())
	cmd.AddCommand(analysesShowCmd())
	return cmd
}

func analysesListCmd() *cobra.Command {
	var (
		page, limit      int
		final, seed, pnd string
		format           string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored analyses, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format, formatText, formatJSON, formatYAML); err != nil {
				return err
			}

			p := flagParser{}
			filter := service.AnalysisFilter{Page: page, Limit: limit}
			if final != "" {
				filter.FinalStatus = parseFlag(&p, "final", final, model.ParseFinalStatus)
			}
			if seed != "" {
				filter.SeedStatus = parseFlag(&p, "seed", seed, model.ParseSeedStatus)
			}
			if pnd != "" {
				filter.PondStatus = parseFlag(&p, "pond", pnd, model.ParsePondStatus)
			}
			if err := p.err(); err != nil {
				return err
			}

			return withEngine(cmd.Context(), func(e *engine.Engine, _ *config.Config) error {
				result, err := e.ListAnalyses(cmd.Context(), filter)
				if err != nil {
					return err
				}
				if format != formatText {
					return encode(cmd.OutOrStdout(), format, result)
				}
				printAnalysisTable(cmd.OutOrStdout(), result)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", 0, "analyses per page (default from config)")
	cmd.Flags().StringVar(&final, "final", "", "only show this final recommendation")
	cmd.Flags().StringVar(&seed, "seed", "", "only show this seed condition")
	cmd.Flags().StringVar(&pnd, "pond", "", "only show this pond condition")
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text, json or yaml")
	return cmd
}

func printAnalysisTable(w io.Writer, page *service.AnalysisPage) {
	if len(page.Data) == 0 {
		fmt.Fprintln(w, cli.FormatInfo("No analyses found"))
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tSEED\tPOND\tRECOMMENDATION\tCF")
	for _, a := range page.Data {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			a.ID,
			a.CreatedAt.Local().Format("2006-01-02 15:04"),
			a.Seed.Status.Label(),
			a.Pond.Status.Label(),
			a.Final.Status.Label(),
			cli.FormatCF(a.Final.Confidence))
	}
	_ = tw.Flush()

	fmt.Fprintf(w, "\nPage %d of %d (%d analyses)\n", page.Page, max(page.TotalPages, 1), page.Total)
}

func analysesShowCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one stored analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, formatText, formatJSON, formatYAML); err != nil {
				return err
			}

			return withEngine(cmd.Context(), func(e *engine.Engine, _ *config.Config) error {
				analysis, err := e.GetAnalysis(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if format != formatText {
					return encode(out, format, analysis)
				}

				fmt.Fprintln(out, cli.FormatTitle("Analysis "+analysis.ID))
				fmt.Fprintln(out, cli.FormatInfo("Created "+analysis.CreatedAt.Local().Format("2006-01-02 15:04:05")))
				fmt.Fprintln(out, describeInput(analysis.Input))
				fmt.Fprintln(out, cli.RenderOutcome(expert.Outcome{
					Seed:  analysis.Seed,
					Pond:  analysis.Pond,
					Final: analysis.Final,
				}, false))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text, json or yaml")
	return cmd
}

func describeInput(in model.AnalysisInput) string {
	return fmt.Sprintf(
		"Kepala %s (%s), %s (%s), kulit %s (%s), cacat %s (%s)\nAir pH %s, %.1f °C, pakan %s",
		in.Seed.HeadShape.Label(), cli.FormatCF(in.Seed.CFHeadShape),
		in.Seed.Agility.Label(), cli.FormatCF(in.Seed.CFAgility),
		in.Seed.SkinColor.Label(), cli.FormatCF(in.Seed.CFSkinColor),
		in.Seed.Defect.Label(), cli.FormatCF(in.Seed.CFDefect),
		in.Pond.WaterPH.Label(), in.Pond.Temperature, in.Feed.Label())
}
