package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/Veraticus/lelesmart/internal/common"
	"github.com/Veraticus/lelesmart/internal/expert"
	"github.com/Veraticus/lelesmart/internal/model"
)

// Accepted temperature range in degrees Celsius.
const (
	MinTemperature = 0.0
	MaxTemperature = 100.0
)

// Issue describes one rejected field.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every problem found in a request. It wraps
// common.ErrInvalidInput.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.Field + ": " + issue.Message
	}
	return fmt.Sprintf("%s: %s", common.ErrInvalidInput, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return common.ErrInvalidInput
}

type validator struct {
	issues []Issue
}

func (v *validator) check(ok bool, field, format string, args ...any) {
	if !ok {
		v.issues = append(v.issues, Issue{Field: field, Message: fmt.Sprintf(format, args...)})
	}
}

func (v *validator) cf(value float64, field string) {
	v.check(finite(value) && value >= 0 && value <= 1, field, "must be a number between 0 and 1")
}

func (v *validator) err() error {
	if len(v.issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: v.issues}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (v *validator) seed(in model.SeedInputs) {
	v.check(in.HeadShape.Valid(), "headShape", "must be 1 (Pointed) or 2 (Fat), got %d", in.HeadShape)
	v.check(in.Agility.Valid(), "agility", "must be 1 (Agile) or 2 (Slow), got %d", in.Agility)
	v.check(in.SkinColor.Valid(), "skinColor", "must be 1 (Shiny) or 2 (Dull), got %d", in.SkinColor)
	v.check(in.Defect.Valid(), "defect", "must be 1 (RedFin), 2 (WhiteSnout) or 3 (None), got %d", in.Defect)
	v.cf(in.CFHeadShape, "cfHead")
	v.cf(in.CFAgility, "cfAgility")
	v.cf(in.CFSkinColor, "cfSkin")
	v.cf(in.CFDefect, "cfDefect")
}

func (v *validator) pond(in model.PondInputs) {
	v.check(in.WaterPH.Valid(), "ph", "must be 1 (High), 2 (Neutral) or 3 (Low), got %d", in.WaterPH)
	v.check(finite(in.Temperature) && in.Temperature >= MinTemperature && in.Temperature <= MaxTemperature,
		"temperature", "must be between %.0f and %.0f", MinTemperature, MaxTemperature)
}

func (v *validator) feed(f model.FeedType) {
	v.check(f.Valid(), "feedType", "must be between 1 and 4, got %d", f)
}

// ValidateSeed checks seed inputs against their domains.
func ValidateSeed(in model.SeedInputs) error {
	var v validator
	v.seed(in)
	return v.err()
}

// ValidatePond checks pond inputs against their domains.
func ValidatePond(in model.PondInputs) error {
	var v validator
	v.pond(in)
	return v.err()
}

// ValidateFinal checks a standalone final-stage request.
func ValidateFinal(in expert.FinalInputs) error {
	var v validator
	v.check(in.Seed.Valid(), "seedCondition", "unknown seed condition %q", in.Seed)
	v.check(in.Pond.Valid(), "pondCondition", "unknown pond condition %q", in.Pond)
	v.feed(in.Feed)
	v.cf(in.CFSeed, "cfSeed")
	v.cf(in.CFPond, "cfPond")
	return v.err()
}

// ValidateInput checks a complete analysis request.
func ValidateInput(in model.AnalysisInput) error {
	var v validator
	v.seed(in.Seed)
	v.pond(in.Pond)
	v.feed(in.Feed)
	return v.err()
}
