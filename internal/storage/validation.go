// Package storage provides the data persistence layer for lelesmart.
package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Veraticus/lelesmart/internal/model"
)

// Validation errors.
var (
	ErrNilContext      = errors.New("context cannot be nil")
	ErrEmptyString     = errors.New("string parameter cannot be empty")
	ErrNilParameter    = errors.New("parameter cannot be nil")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidAnalysis = errors.New("invalid analysis")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateCF ensures a certainty factor is a finite number in [0,1].
func validateCF(cf float64, field string) error {
	if math.IsNaN(cf) || cf < 0 || cf > 1 {
		return fmt.Errorf("%w: %s must be between 0 and 1", ErrInvalidAnalysis, field)
	}
	return nil
}

// validateAnalysis validates an analysis before it is written.
func validateAnalysis(a *model.Analysis) error {
	if a == nil {
		return fmt.Errorf("%w: analysis", ErrNilParameter)
	}
	if strings.TrimSpace(a.ID) == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidAnalysis)
	}
	if a.CreatedAt.IsZero() {
		return fmt.Errorf("%w: missing creation time", ErrInvalidAnalysis)
	}

	in := a.Input
	if !in.Seed.HeadShape.Valid() || !in.Seed.Agility.Valid() || !in.Seed.SkinColor.Valid() ||
		!in.Seed.Defect.Valid() || !in.Pond.WaterPH.Valid() || !in.Feed.Valid() {
		return fmt.Errorf("%w: categorical input out of range", ErrInvalidAnalysis)
	}

	if !a.Seed.Status.Valid() {
		return fmt.Errorf("%w: seed %q", ErrInvalidStatus, a.Seed.Status)
	}
	if !a.Pond.Status.Valid() {
		return fmt.Errorf("%w: pond %q", ErrInvalidStatus, a.Pond.Status)
	}
	if !a.Final.Status.Valid() {
		return fmt.Errorf("%w: final %q", ErrInvalidStatus, a.Final.Status)
	}

	cfs := []struct {
		field string
		value float64
	}{
		{"cfHead", in.Seed.CFHeadShape},
		{"cfAgility", in.Seed.CFAgility},
		{"cfSkin", in.Seed.CFSkinColor},
		{"cfDefect", in.Seed.CFDefect},
		{"cfSeed", a.Seed.Confidence},
		{"cfPond", a.Pond.Confidence},
		{"cfFinal", a.Final.Confidence},
	}
	for _, cf := range cfs {
		if err := validateCF(cf.value, cf.field); err != nil {
			return err
		}
	}

	return nil
}
