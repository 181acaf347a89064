package expert

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/lelesmart/internal/model"
)

func TestClassifyPond(t *testing.T) {
	tests := []struct {
		name   string
		ph     model.WaterPH
		want   model.PondStatus
		temp   float64
		wantCF float64
	}{
		{name: "neutral optimal", ph: model.PHNeutral, temp: 28, want: model.PondGood, wantCF: 1.0},
		{name: "neutral lower bound inclusive", ph: model.PHNeutral, temp: 27, want: model.PondGood, wantCF: 1.0},
		{name: "neutral upper bound inclusive", ph: model.PHNeutral, temp: 30, want: model.PondGood, wantCF: 1.0},
		{name: "neutral just below band", ph: model.PHNeutral, temp: 26.9, want: model.PondFair, wantCF: 0.8},
		{name: "neutral just above band", ph: model.PHNeutral, temp: 30.1, want: model.PondFair, wantCF: 0.8},
		{name: "high optimal", ph: model.PHHigh, temp: 29, want: model.PondFair, wantCF: 0.9},
		{name: "high lower bound inclusive", ph: model.PHHigh, temp: 27, want: model.PondFair, wantCF: 0.9},
		{name: "low upper bound inclusive", ph: model.PHLow, temp: 30, want: model.PondFair, wantCF: 0.9},
		{name: "high hot", ph: model.PHHigh, temp: 35, want: model.PondPoor, wantCF: 0.6},
		{name: "low cold", ph: model.PHLow, temp: 0, want: model.PondPoor, wantCF: 0.6},
		{name: "unknown ph", ph: model.WaterPH(9), temp: 28, want: model.PondInvalid, wantCF: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyPond(model.PondInputs{WaterPH: tt.ph, Temperature: tt.temp})
			assert.Equal(t, tt.want, got.Status)
			assert.InDelta(t, tt.wantCF, got.Confidence, 1e-12)
		})
	}
}

func TestClassifyPond_RuleNames(t *testing.T) {
	_, rule := PondRules.Evaluate(model.PondInputs{WaterPH: model.PHLow, Temperature: 31})
	assert.Equal(t, "extreme-ph", rule)

	_, rule = PondRules.Evaluate(model.PondInputs{WaterPH: model.PHNeutral, Temperature: 27})
	assert.Equal(t, "neutral-ph-optimal-temp", rule)
}

func TestClassifyPond_ConfidenceRange(t *testing.T) {
	for _, ph := range []model.WaterPH{model.PHHigh, model.PHNeutral, model.PHLow} {
		for temp := 0.0; temp <= 100; temp += 0.5 {
			in := model.PondInputs{WaterPH: ph, Temperature: temp}
			got := ClassifyPond(in)
			assert.Equal(t, got, ClassifyPond(in))
			assert.GreaterOrEqual(t, got.Confidence, 0.0)
			assert.LessOrEqual(t, got.Confidence, 1.0)
			assert.NotEqual(t, model.PondInvalid, got.Status)
		}
	}
}
