package storage

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/lelesmart/internal/model"
)

func TestValidateContext(t *testing.T) {
	assert.NoError(t, validateContext(context.Background()))
	//nolint:staticcheck // testing nil context handling
	assert.ErrorIs(t, validateContext(nil), ErrNilContext)
}

func TestValidateString(t *testing.T) {
	assert.NoError(t, validateString("x", "param"))
	assert.ErrorIs(t, validateString("", "param"), ErrEmptyString)
	assert.ErrorIs(t, validateString(" \t", "param"), ErrEmptyString)
}

func TestValidateAnalysis(t *testing.T) {
	tests := []struct {
		mutate  func(*model.Analysis)
		wantErr error
		name    string
	}{
		{name: "valid", mutate: func(*model.Analysis) {}},
		{name: "missing id", mutate: func(a *model.Analysis) { a.ID = "" }, wantErr: ErrInvalidAnalysis},
		{name: "missing time", mutate: func(a *model.Analysis) { a.CreatedAt = time.Time{} }, wantErr: ErrInvalidAnalysis},
		{name: "bad head shape", mutate: func(a *model.Analysis) { a.Input.Seed.HeadShape = 5 }, wantErr: ErrInvalidAnalysis},
		{name: "bad feed", mutate: func(a *model.Analysis) { a.Input.Feed = 0 }, wantErr: ErrInvalidAnalysis},
		{name: "bad seed status", mutate: func(a *model.Analysis) { a.Seed.Status = "Sick" }, wantErr: ErrInvalidStatus},
		{name: "bad pond status", mutate: func(a *model.Analysis) { a.Pond.Status = "" }, wantErr: ErrInvalidStatus},
		{name: "cf above one", mutate: func(a *model.Analysis) { a.Final.Confidence = 1.01 }, wantErr: ErrInvalidAnalysis},
		{name: "negative input cf", mutate: func(a *model.Analysis) { a.Input.Seed.CFAgility = -0.1 }, wantErr: ErrInvalidAnalysis},
		{name: "nan cf", mutate: func(a *model.Analysis) { a.Pond.Confidence = math.NaN() }, wantErr: ErrInvalidAnalysis},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := createTestAnalysis(1, time.Now())
			tt.mutate(a)
			err := validateAnalysis(a)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.ErrorIs(t, validateAnalysis(nil), ErrNilParameter)
}
