package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/lelesmart/internal/common"
	"github.com/Veraticus/lelesmart/internal/expert"
	"github.com/Veraticus/lelesmart/internal/model"
)

// DefaultWorkers is the number of rows evaluated concurrently.
const DefaultWorkers = 4

// Analyzer is the part of engine.Engine the runner depends on.
type Analyzer interface {
	Preview(ctx context.Context, in model.AnalysisInput) (*expert.Outcome, error)
	Analyze(ctx context.Context, in model.AnalysisInput) (*model.Analysis, error)
}

// Options configures a Runner.
type Options struct {
	// Progress receives the progress bar; nil disables it.
	Progress io.Writer
	Workers  int
	Save     bool
}

// Result is the outcome of one row. Err is set when the row was rejected.
type Result struct {
	Err     error
	ID      string
	Outcome expert.Outcome
	Line    int
}

// Summary aggregates a batch run. Results follow input order.
type Summary struct {
	ByFinal   map[model.FinalStatus]int
	Results   []Result
	Processed int
	Failed    int
}

// Runner evaluates or stores rows through an Analyzer.
type Runner struct {
	analyzer Analyzer
	opts     Options
}

// NewRunner creates a runner.
func NewRunner(analyzer Analyzer, opts Options) *Runner {
	if opts.Workers < 1 {
		opts.Workers = DefaultWorkers
	}
	return &Runner{analyzer: analyzer, opts: opts}
}

// Run processes rows. Rows failing validation are counted and skipped; any
// other error stops the run and is returned with the partial summary.
func (r *Runner) Run(ctx context.Context, rows []Row) (*Summary, error) {
	bar := r.newProgressBar(len(rows))
	results := make([]Result, len(rows))
	started := make([]bool, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)

	for i, row := range rows {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res, err := r.process(gctx, row)
			results[i], started[i] = res, true
			if err != nil {
				return fmt.Errorf("line %d: %w", row.Line, err)
			}
			if bar != nil {
				if err := bar.Add(1); err != nil {
					slog.Warn("Failed to update progress bar", "error", err)
				}
			}
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if bar != nil && err == nil {
		_ = bar.Finish()
	}

	summary := summarize(results, started)
	common.LogInfo(ctx, "Batch finished", common.Fields{
		"processed": summary.Processed,
		"failed":    summary.Failed,
		"saved":     r.opts.Save,
	})
	return summary, err
}

func (r *Runner) process(ctx context.Context, row Row) (Result, error) {
	res := Result{Line: row.Line}

	var err error
	if r.opts.Save {
		var analysis *model.Analysis
		if analysis, err = r.analyzer.Analyze(ctx, row.Input); err == nil {
			res.ID = analysis.ID
			res.Outcome = expert.OutcomeOf(analysis)
		}
	} else {
		var outcome *expert.Outcome
		if outcome, err = r.analyzer.Preview(ctx, row.Input); err == nil {
			res.Outcome = *outcome
		}
	}

	switch {
	case err == nil:
		return res, nil
	case errors.Is(err, common.ErrInvalidInput):
		res.Err = err
		return res, nil
	default:
		res.Err = err
		return res, err
	}
}

func summarize(results []Result, started []bool) *Summary {
	s := &Summary{ByFinal: make(map[model.FinalStatus]int)}
	for i, res := range results {
		if !started[i] {
			continue
		}
		s.Results = append(s.Results, res)
		if res.Err != nil {
			s.Failed++
			continue
		}
		s.Processed++
		s.ByFinal[res.Outcome.Final.Status]++
	}
	return s
}

func (r *Runner) newProgressBar(total int) *progressbar.ProgressBar {
	if r.opts.Progress == nil || total == 0 {
		return nil
	}
	description := "[cyan][bold]Evaluating rows...[reset]"
	if r.opts.Save {
		description = "[cyan][bold]Analyzing and saving rows...[reset]"
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.opts.Progress),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(r.opts.Progress)
		}),
	)
}
