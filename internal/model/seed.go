package model

// HeadShape is the observed head shape of a seed fish.
type HeadShape int

// Head shape values. The numeric codes match the original form values.
const (
	Pointed HeadShape = 1
	Fat     HeadShape = 2
)

var headShapes = map[HeadShape]option{
	Pointed: {name: "Pointed", label: "Runcing"},
	Fat:     {name: "Fat", label: "Gemuk"},
}

func (h HeadShape) String() string { return optionName(h, headShapes) }

// Label returns the Indonesian form label.
func (h HeadShape) Label() string { return optionLabel(h, headShapes) }

// Valid reports whether h is a known head shape.
func (h HeadShape) Valid() bool {
	_, ok := headShapes[h]
	return ok
}

// ParseHeadShape parses a code, name or label.
func ParseHeadShape(s string) (HeadShape, error) { return parseOption("head shape", s, headShapes) }

// Agility is how actively a seed fish swims.
type Agility int

// Agility values.
const (
	Agile Agility = 1
	Slow  Agility = 2
)

var agilities = map[Agility]option{
	Agile: {name: "Agile", label: "Lincah"},
	Slow:  {name: "Slow", label: "Lambat"},
}

func (a Agility) String() string { return optionName(a, agilities) }

// Label returns the Indonesian form label.
func (a Agility) Label() string { return optionLabel(a, agilities) }

// Valid reports whether a is a known agility.
func (a Agility) Valid() bool {
	_, ok := agilities[a]
	return ok
}

// ParseAgility parses a code, name or label.
func ParseAgility(s string) (Agility, error) { return parseOption("agility", s, agilities) }

// SkinColor is the observed skin finish.
type SkinColor int

// Skin color values.
const (
	Shiny SkinColor = 1
	Dull  SkinColor = 2
)

var skinColors = map[SkinColor]option{
	Shiny: {name: "Shiny", label: "Mengkilap"},
	Dull:  {name: "Dull", label: "Buram"},
}

func (c SkinColor) String() string { return optionName(c, skinColors) }

// Label returns the Indonesian form label.
func (c SkinColor) Label() string { return optionLabel(c, skinColors) }

// Valid reports whether c is a known skin color.
func (c SkinColor) Valid() bool {
	_, ok := skinColors[c]
	return ok
}

// ParseSkinColor parses a code, name or label.
func ParseSkinColor(s string) (SkinColor, error) { return parseOption("skin color", s, skinColors) }

// Defect is a visible physical defect.
type Defect int

// Defect values.
const (
	RedFin     Defect = 1
	WhiteSnout Defect = 2
	NoDefect   Defect = 3
)

var defects = map[Defect]option{
	RedFin:     {name: "RedFin", label: "Sirip Merah"},
	WhiteSnout: {name: "WhiteSnout", label: "Moncong Putih"},
	NoDefect:   {name: "None", label: "Tidak Ada"},
}

func (d Defect) String() string { return optionName(d, defects) }

// Label returns the Indonesian form label.
func (d Defect) Label() string { return optionLabel(d, defects) }

// Valid reports whether d is a known defect.
func (d Defect) Valid() bool {
	_, ok := defects[d]
	return ok
}

// Serious reports whether the defect alone marks a seed as unhealthy.
func (d Defect) Serious() bool { return d == RedFin || d == WhiteSnout }

// ParseDefect parses a code, name or label.
func ParseDefect(s string) (Defect, error) { return parseOption("defect", s, defects) }

// SeedInputs holds the observations of a seed fish and the confidence the
// observer has in each of them.
type SeedInputs struct {
	HeadShape   HeadShape `json:"headShape"`
	Agility     Agility   `json:"agility"`
	SkinColor   SkinColor `json:"skinColor"`
	Defect      Defect    `json:"defect"`
	CFHeadShape float64   `json:"cfHead"`
	CFAgility   float64   `json:"cfAgility"`
	CFSkinColor float64   `json:"cfSkin"`
	CFDefect    float64   `json:"cfDefect"`
}
