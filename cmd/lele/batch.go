package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Veraticus/lelesmart/internal/batch"
	"github.com/Veraticus/lelesmart/internal/cli"
	"github.com/Veraticus/lelesmart/internal/config"
	"github.com/Veraticus/lelesmart/internal/engine"
	"github.com/Veraticus/lelesmart/internal/model"
	"github.com/Veraticus/lelesmart/internal/storage"
)

func batchCmd() *cobra.Command {
	var (
		save         bool
		workers      int
		noProgress   bool
		noCheckpoint bool
		format       string
	)

	cmd := &cobra.Command{
		Use:   "batch <file.csv>",
		Short: "Analyze every row of a CSV file",
		Long: `Analyze a CSV file with one observation per row. The header names the
columns (any order, case-insensitive):

  ` + strings.Join(batch.Columns, ", ") + `

Values may be codes, English names or Indonesian labels. Lines starting
with # are ignored. Use - to read from standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, formatText, formatJSON, formatYAML); err != nil {
				return err
			}

			rows, rowErrs, err := readBatchFile(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			errOut := cmd.ErrOrStderr()
			for _, rowErr := range rowErrs {
				fmt.Fprintln(errOut, cli.FormatWarning("Skipping "+rowErr.Error()))
			}

			opts := batch.Options{Workers: workers, Save: save}
			if !noProgress && format == formatText {
				opts.Progress = errOut
			}

			interrupts := cli.NewInterruptHandler(errOut)
			ctx := interrupts.HandleInterrupts(cmd.Context(), save)

			run := func(e *engine.Engine) error {
				summary, err := batch.NewRunner(e, opts).Run(ctx, rows)
				if summary != nil {
					if perr := printSummary(cmd.OutOrStdout(), format, summary, len(rowErrs)); perr != nil {
						return perr
					}
				}
				if interrupts.WasInterrupted() {
					return nil
				}
				return err
			}

			if !save {
				return run(engine.New(nil))
			}
			return withStorage(ctx, func(store *storage.SQLiteStorage, cfg *config.Config) error {
				if !noCheckpoint {
					cm, err := store.NewCheckpointManager()
					if err != nil {
						return err
					}
					cp, err := cm.AutoCheckpoint(ctx, "batch")
					if err != nil {
						return err
					}
					fmt.Fprintln(errOut, cli.FormatInfo("Checkpoint "+cp.ID+" created, restore it with `lele checkpoint restore`"))
				}
				return run(newEngine(cfg, store))
			})
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "store every valid row as an analysis")
	cmd.Flags().IntVarP(&workers, "workers", "w", batch.DefaultWorkers, "rows evaluated concurrently")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "hide the progress bar")
	cmd.Flags().BoolVar(&noCheckpoint, "no-checkpoint", false, "skip the automatic checkpoint taken before --save")
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text, json or yaml")
	return cmd
}

func readBatchFile(stdin io.Reader, path string) ([]batch.Row, []batch.RowError, error) {
	if path == "-" {
		return batch.ReadInputs(stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return batch.ReadInputs(f)
}

// batchRow is the serialized form of one batch result.
type batchRow struct {
	Outcome *batchOutcome `json:"outcome,omitempty"`
	ID      string        `json:"id,omitempty"`
	Error   string        `json:"error,omitempty"`
	Line    int           `json:"line"`
}

type batchOutcome struct {
	Seed  string  `json:"seedCondition"`
	Pond  string  `json:"pondCondition"`
	Final string  `json:"finalResult"`
	CF    float64 `json:"confidence"`
}

type batchReport struct {
	ByFinal   map[model.FinalStatus]int `json:"byFinal"`
	Rows      []batchRow                `json:"rows"`
	Processed int                       `json:"processed"`
	Failed    int                       `json:"failed"`
	Skipped   int                       `json:"skipped"`
}

func printSummary(w io.Writer, format string, s *batch.Summary, skipped int) error {
	if format != formatText {
		report := batchReport{
			ByFinal:   s.ByFinal,
			Processed: s.Processed,
			Failed:    s.Failed,
			Skipped:   skipped,
		}
		for _, res := range s.Results {
			row := batchRow{Line: res.Line, ID: res.ID}
			if res.Err != nil {
				row.Error = res.Err.Error()
			} else {
				row.Outcome = &batchOutcome{
					Seed:  string(res.Outcome.Seed.Status),
					Pond:  string(res.Outcome.Pond.Status),
					Final: string(res.Outcome.Final.Status),
					CF:    res.Outcome.Final.Confidence,
				}
			}
			report.Rows = append(report.Rows, row)
		}
		return encode(w, format, report)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LINE\tSEED\tPOND\tRECOMMENDATION\tCF\tID")
	for _, res := range s.Results {
		if res.Err != nil {
			fmt.Fprintf(tw, "%d\t%s\t\t\t\t\n", res.Line, res.Err)
			continue
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			res.Line,
			res.Outcome.Seed.Status.Label(),
			res.Outcome.Pond.Status.Label(),
			res.Outcome.Final.Status.Label(),
			cli.FormatCF(res.Outcome.Final.Confidence),
			res.ID)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, cli.FormatTitle("Summary"))
	for _, status := range model.FinalStatuses() {
		if n := s.ByFinal[status]; n > 0 {
			fmt.Fprintf(w, "  %-20s %d\n", status.Label(), n)
		}
	}
	fmt.Fprintf(w, "  %d analyzed, %d rejected, %d unreadable\n", s.Processed, s.Failed, skipped)
	return nil
}

var _ batch.Analyzer = (*engine.Engine)(nil)
