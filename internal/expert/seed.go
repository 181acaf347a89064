package expert

import "github.com/Veraticus/lelesmart/internal/model"

// Certainty weights of the seed rules.
const (
	cfDefectVeto   = 0.9
	cfDullSkinVeto = 0.8
	cfFatIdeal     = 0.85
	cfPointedPrime = 0.9
	cfPointedSlow  = 0.75
)

// healthyBase holds for shiny skin without any defect, the precondition shared
// by every positive seed pattern.
func healthyBase(in model.SeedInputs) bool {
	return in.SkinColor == model.Shiny && in.Defect == model.NoDefect
}

// SeedRules classifies seed condition. The two vetoes come first so a visible
// defect or dull skin overrides every positive pattern.
var SeedRules = Table[model.SeedInputs, model.SeedStatus]{
	Rules: []Rule[model.SeedInputs, model.SeedStatus]{
		{
			Name: "defect-veto",
			When: func(in model.SeedInputs) bool { return in.Defect.Serious() },
			Then: model.Unhealthy,
			CF:   func(in model.SeedInputs) float64 { return cfDefectVeto * in.CFDefect },
		},
		{
			Name: "dull-skin-veto",
			When: func(in model.SeedInputs) bool { return in.SkinColor == model.Dull },
			Then: model.Unhealthy,
			CF:   func(in model.SeedInputs) float64 { return cfDullSkinVeto * in.CFSkinColor },
		},
		{
			Name: "fat-head-ideal",
			When: func(in model.SeedInputs) bool {
				return in.HeadShape == model.Fat && healthyBase(in)
			},
			Then: model.Healthy,
			CF: func(in model.SeedInputs) float64 {
				return cfFatIdeal * MinCF(in.CFHeadShape, in.CFSkinColor, in.CFDefect)
			},
		},
		{
			Name: "pointed-agile-prime",
			When: func(in model.SeedInputs) bool {
				return in.HeadShape == model.Pointed && in.Agility == model.Agile && healthyBase(in)
			},
			Then: model.Healthy,
			CF: func(in model.SeedInputs) float64 {
				return cfPointedPrime * MinCF(in.CFHeadShape, in.CFAgility, in.CFSkinColor, in.CFDefect)
			},
		},
		{
			Name: "pointed-slow",
			When: func(in model.SeedInputs) bool {
				return in.HeadShape == model.Pointed && in.Agility == model.Slow && healthyBase(in)
			},
			Then: model.Unhealthy,
			CF: func(in model.SeedInputs) float64 {
				return cfPointedSlow * MinCF(in.CFHeadShape, in.CFAgility, in.CFSkinColor, in.CFDefect)
			},
		},
	},
	Fallback: model.SeedInvalid,
}

// ClassifySeed determines the health of a seed fish.
func ClassifySeed(in model.SeedInputs) model.ConditionResult[model.SeedStatus] {
	result, _ := SeedRules.Evaluate(in)
	return result
}
