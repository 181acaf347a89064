package model

// WaterPH is the coarse pH reading of the pond water.
type WaterPH int

// Water pH values.
const (
	PHHigh    WaterPH = 1
	PHNeutral WaterPH = 2
	PHLow     WaterPH = 3
)

var waterPHs = map[WaterPH]option{
	PHHigh:    {name: "High", label: "Tinggi"},
	PHNeutral: {name: "Neutral", label: "Netral"},
	PHLow:     {name: "Low", label: "Rendah"},
}

func (p WaterPH) String() string { return optionName(p, waterPHs) }

// Label returns the Indonesian form label.
func (p WaterPH) Label() string { return optionLabel(p, waterPHs) }

// Valid reports whether p is a known pH reading.
func (p WaterPH) Valid() bool {
	_, ok := waterPHs[p]
	return ok
}

// Extreme reports whether the pH is outside the neutral range.
func (p WaterPH) Extreme() bool { return p == PHHigh || p == PHLow }

// ParseWaterPH parses a code, name or label.
func ParseWaterPH(s string) (WaterPH, error) { return parseOption("water pH", s, waterPHs) }

// PondInputs holds the pond measurements. Temperature is in degrees Celsius.
type PondInputs struct {
	WaterPH     WaterPH `json:"ph"`
	Temperature float64 `json:"temperature"`
}
