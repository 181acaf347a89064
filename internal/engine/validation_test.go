package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/lelesmart/internal/common"
	"github.com/Veraticus/lelesmart/internal/expert"
	"github.com/Veraticus/lelesmart/internal/model"
	"github.com/Veraticus/lelesmart/internal/testutil"
)

func issueFields(t *testing.T, err error) []string {
	t.Helper()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	fields := make([]string, len(verr.Issues))
	for i, issue := range verr.Issues {
		fields[i] = issue.Field
	}
	return fields
}

func TestValidateInput(t *testing.T) {
	tests := []struct {
		mutate     func(*model.AnalysisInput)
		name       string
		wantFields []string
	}{
		{name: "form defaults are valid", mutate: func(*model.AnalysisInput) {}},
		{
			name:       "unknown head shape",
			mutate:     func(in *model.AnalysisInput) { in.Seed.HeadShape = 3 },
			wantFields: []string{"headShape"},
		},
		{
			name: "several bad fields reported together",
			mutate: func(in *model.AnalysisInput) {
				in.Seed.Defect = 0
				in.Seed.CFSkinColor = 1.2
				in.Pond.WaterPH = 4
				in.Feed = 9
			},
			wantFields: []string{"defect", "cfSkin", "ph", "feedType"},
		},
		{
			name:       "temperature above range",
			mutate:     func(in *model.AnalysisInput) { in.Pond.Temperature = 100.5 },
			wantFields: []string{"temperature"},
		},
		{
			name:       "negative temperature",
			mutate:     func(in *model.AnalysisInput) { in.Pond.Temperature = -1 },
			wantFields: []string{"temperature"},
		},
		{
			name:       "nan temperature",
			mutate:     func(in *model.AnalysisInput) { in.Pond.Temperature = math.NaN() },
			wantFields: []string{"temperature"},
		},
		{
			name:       "infinite cf",
			mutate:     func(in *model.AnalysisInput) { in.Seed.CFAgility = math.Inf(1) },
			wantFields: []string{"cfAgility"},
		},
		{
			name: "range bounds inclusive",
			mutate: func(in *model.AnalysisInput) {
				in.Pond.Temperature = 100
				in.Seed.CFDefect = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := testutil.DefaultInput()
			tt.mutate(&in)

			err := ValidateInput(in)
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, common.ErrInvalidInput)
			assert.Equal(t, tt.wantFields, issueFields(t, err))
		})
	}
}

func TestValidateFinal(t *testing.T) {
	valid := expert.FinalInputs{
		Seed: model.Healthy, Pond: model.PondFair, Feed: model.Eggs, CFSeed: 0.9, CFPond: 0.8,
	}
	assert.NoError(t, ValidateFinal(valid))

	// Invalid upstream statuses are legitimate inputs to the final stage.
	withInvalid := valid
	withInvalid.Seed = model.SeedInvalid
	assert.NoError(t, ValidateFinal(withInvalid))

	bad := expert.FinalInputs{Seed: "Sehat", Pond: "Great", Feed: 0, CFSeed: -1, CFPond: 2}
	assert.Equal(t,
		[]string{"seedCondition", "pondCondition", "feedType", "cfSeed", "cfPond"},
		issueFields(t, ValidateFinal(bad)))
}

func TestValidationError_Message(t *testing.T) {
	err := ValidatePond(model.PondInputs{WaterPH: 0, Temperature: 28})
	require.Error(t, err)
	assert.Equal(t, "invalid input: ph: must be 1 (High), 2 (Neutral) or 3 (Low), got 0", err.Error())
}
