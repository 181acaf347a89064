package model

// FeedType is the feed given to the fish.
type FeedType int

// Feed types.
const (
	Pellets    FeedType = 1
	Eggs       FeedType = 2
	Intestines FeedType = 3
	Worms      FeedType = 4
)

var feedTypes = map[FeedType]option{
	Pellets:    {name: "Pellets", label: "Pelet"},
	Eggs:       {name: "Eggs", label: "Telur"},
	Intestines: {name: "Intestines", label: "Usus"},
	Worms:      {name: "Worms", label: "Cacing"},
}

func (f FeedType) String() string { return optionName(f, feedTypes) }

// Label returns the Indonesian form label.
func (f FeedType) Label() string { return optionLabel(f, feedTypes) }

// Valid reports whether f is a known feed type.
func (f FeedType) Valid() bool {
	_, ok := feedTypes[f]
	return ok
}

// ParseFeedType parses a code, name or label.
func ParseFeedType(s string) (FeedType, error) { return parseOption("feed type", s, feedTypes) }
