package model

// Value lists in form order. The first element is not necessarily the form
// default.

// HeadShapes lists every head shape.
func HeadShapes() []HeadShape { return []HeadShape{Pointed, Fat} }

// Agilities lists every agility value.
func Agilities() []Agility { return []Agility{Agile, Slow} }

// SkinColors lists every skin color.
func SkinColors() []SkinColor { return []SkinColor{Shiny, Dull} }

// Defects lists every defect value.
func Defects() []Defect { return []Defect{RedFin, WhiteSnout, NoDefect} }

// WaterPHs lists every pH reading.
func WaterPHs() []WaterPH { return []WaterPH{PHHigh, PHNeutral, PHLow} }

// FeedTypes lists every feed type.
func FeedTypes() []FeedType { return []FeedType{Pellets, Eggs, Intestines, Worms} }
