// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"math"

	"github.com/Veraticus/lelesmart/internal/model"
)

// Pagination defaults applied when a filter leaves them unset.
const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// AnalysisFilter selects a page of stored analyses. Empty status fields match
// every status.
type AnalysisFilter struct {
	FinalStatus model.FinalStatus
	SeedStatus  model.SeedStatus
	PondStatus  model.PondStatus
	Page        int
	Limit       int
}

// Normalize fills in defaults and caps the page size at max.
func (f AnalysisFilter) Normalize(defaultLimit, maxLimit int) AnalysisFilter {
	if defaultLimit <= 0 {
		defaultLimit = DefaultPageLimit
	}
	if maxLimit <= 0 {
		maxLimit = MaxPageLimit
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	return f
}

// Offset returns the number of rows skipped before this page. It saturates at
// math.MaxInt rather than overflowing.
func (f AnalysisFilter) Offset() int {
	if f.Page < 2 || f.Limit < 1 {
		return 0
	}
	if f.Page-1 > math.MaxInt/f.Limit {
		return math.MaxInt
	}
	return (f.Page - 1) * f.Limit
}

// AnalysisPage is one page of analyses, newest first.
type AnalysisPage struct {
	Data       []model.Analysis `json:"data"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"totalPages"`
}

// TotalPages computes ceil(total/limit).
func TotalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	CreateAnalysis(ctx context.Context, analysis *model.Analysis) error
	GetAnalyses(ctx context.Context, filter AnalysisFilter) (*AnalysisPage, error)
	GetAnalysisByID(ctx context.Context, id string) (*model.Analysis, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}
