package batch

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Veraticus/lelesmart/internal/common"
	"github.com/Veraticus/lelesmart/internal/engine"
	"github.com/Veraticus/lelesmart/internal/expert"
	"github.com/Veraticus/lelesmart/internal/model"
	"github.com/Veraticus/lelesmart/internal/testutil"
)

func sampleRows(t *testing.T) []Row {
	t.Helper()
	rows, _, err := ReadInputs(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	return rows
}

func TestRunner_Preview(t *testing.T) {
	runner := NewRunner(engine.New(nil), Options{})

	summary, err := runner.Run(context.Background(), sampleRows(t))
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Processed)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, map[model.FinalStatus]int{
		model.VeryGood: 1,
		model.Good:     1,
		model.Poor:     1,
	}, summary.ByFinal)

	require.Len(t, summary.Results, 4)
	assert.Equal(t, 2, summary.Results[0].Line)
	assert.Equal(t, model.Poor, summary.Results[2].Outcome.Final.Status)
	assert.InDelta(t, 0.64*0.8, summary.Results[2].Outcome.Final.Confidence, 1e-9)
	assert.ErrorIs(t, summary.Results[3].Err, common.ErrInvalidInput)
	assert.Empty(t, summary.Results[0].ID)
}

// flakyAnalyzer fails with a non-validation error on one line.
type flakyAnalyzer struct {
	failLine float64
}

func (f flakyAnalyzer) Preview(_ context.Context, in model.AnalysisInput) (*expert.Outcome, error) {
	if in.Pond.Temperature == f.failLine {
		return nil, errors.New("disk full")
	}
	out := expert.Evaluate(in)
	return &out, nil
}

func (f flakyAnalyzer) Analyze(context.Context, model.AnalysisInput) (*model.Analysis, error) {
	return nil, errors.New("not used")
}

func TestRunner_StopsOnInfrastructureError(t *testing.T) {
	defer goleak.VerifyNone(t)

	rows := []Row{
		{Line: 2, Input: testutil.DefaultInput()},
		{Line: 3, Input: testutil.DefaultInput()},
	}
	rows[1].Input.Pond.Temperature = 13

	summary, err := NewRunner(flakyAnalyzer{failLine: 13}, Options{Workers: 1}).Run(context.Background(), rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3: disk full")
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.Failed)
}

func TestRunner_Cancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := NewRunner(engine.New(nil), Options{}).Run(ctx, sampleRows(t))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, summary.Processed)
}
