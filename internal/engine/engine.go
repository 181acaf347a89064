// Package engine implements the analysis service: it validates requests, runs
// the certainty-factor pipeline and persists results.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/lelesmart/internal/common"
	"github.com/Veraticus/lelesmart/internal/expert"
	"github.com/Veraticus/lelesmart/internal/model"
	"github.com/Veraticus/lelesmart/internal/service"
)

// Engine orchestrates validation, classification and persistence.
type Engine struct {
	storage service.Storage
	now     func() time.Time
	newID   func() string
	config  Config
}

// Config holds configuration options for the engine.
type Config struct {
	DefaultPageLimit int
	MaxPageLimit     int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		DefaultPageLimit: service.DefaultPageLimit,
		MaxPageLimit:     service.MaxPageLimit,
	}
}

// New creates an engine with the default configuration. storage may be nil
// when only evaluation is needed.
func New(storage service.Storage) *Engine {
	return NewWithConfig(storage, DefaultConfig())
}

// NewWithConfig creates an engine with custom configuration.
func NewWithConfig(storage service.Storage, config Config) *Engine {
	return &Engine{
		storage: storage,
		config:  config,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// EvaluateSeed validates and classifies seed inputs.
func (e *Engine) EvaluateSeed(ctx context.Context, in model.SeedInputs) (model.ConditionResult[model.SeedStatus], error) {
	if err := ValidateSeed(in); err != nil {
		return model.ConditionResult[model.SeedStatus]{}, err
	}

	result, rule := expert.SeedRules.Evaluate(in)
	common.LogDebug(ctx, "Classified seed", common.Fields{
		"status": result.Status,
		"cf":     result.Confidence,
		"rule":   rule,
	})
	return result, nil
}

// EvaluatePond validates and classifies pond inputs.
func (e *Engine) EvaluatePond(ctx context.Context, in model.PondInputs) (model.ConditionResult[model.PondStatus], error) {
	if err := ValidatePond(in); err != nil {
		return model.ConditionResult[model.PondStatus]{}, err
	}

	result, rule := expert.PondRules.Evaluate(in)
	common.LogDebug(ctx, "Classified pond", common.Fields{
		"status": result.Status,
		"cf":     result.Confidence,
		"rule":   rule,
	})
	return result, nil
}

// EvaluateFinal validates and classifies a final-stage request.
func (e *Engine) EvaluateFinal(ctx context.Context, in expert.FinalInputs) (model.ConditionResult[model.FinalStatus], error) {
	if err := ValidateFinal(in); err != nil {
		return model.ConditionResult[model.FinalStatus]{}, err
	}

	result, rule := expert.FinalRules.Evaluate(in)
	common.LogDebug(ctx, "Classified final result", common.Fields{
		"status": result.Status,
		"cf":     result.Confidence,
		"rule":   rule,
	})
	return result, nil
}

// Preview runs the full pipeline without persisting anything.
func (e *Engine) Preview(_ context.Context, in model.AnalysisInput) (*expert.Outcome, error) {
	if err := ValidateInput(in); err != nil {
		return nil, err
	}

	outcome := expert.Evaluate(in)
	return &outcome, nil
}

// Analyze runs the full pipeline and stores the result.
func (e *Engine) Analyze(ctx context.Context, in model.AnalysisInput) (*model.Analysis, error) {
	outcome, err := e.Preview(ctx, in)
	if err != nil {
		return nil, err
	}
	if e.storage == nil {
		return nil, fmt.Errorf("analyze: no storage configured")
	}

	analysis := &model.Analysis{
		ID:        e.newID(),
		CreatedAt: e.now().UTC(),
		Input:     in,
		Seed:      outcome.Seed,
		Pond:      outcome.Pond,
		Final:     outcome.Final,
		Trace:     outcome.Trace,
	}

	if err := e.storage.CreateAnalysis(ctx, analysis); err != nil {
		return nil, fmt.Errorf("failed to save analysis: %w", err)
	}

	slog.InfoContext(ctx, "Stored analysis",
		"id", analysis.ID,
		"seed", analysis.Seed.Status,
		"pond", analysis.Pond.Status,
		"final", analysis.Final.Status,
		"cf", analysis.Final.Confidence,
		"trace", analysis.Trace)

	return analysis, nil
}

// ListAnalyses returns a page of stored analyses.
func (e *Engine) ListAnalyses(ctx context.Context, filter service.AnalysisFilter) (*service.AnalysisPage, error) {
	if e.storage == nil {
		return nil, fmt.Errorf("list analyses: no storage configured")
	}

	page, err := e.storage.GetAnalyses(ctx, filter.Normalize(e.config.DefaultPageLimit, e.config.MaxPageLimit))
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	return page, nil
}

// GetAnalysis returns one stored analysis.
func (e *Engine) GetAnalysis(ctx context.Context, id string) (*model.Analysis, error) {
	if e.storage == nil {
		return nil, fmt.Errorf("get analysis: no storage configured")
	}

	analysis, err := e.storage.GetAnalysisByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return analysis, nil
}
