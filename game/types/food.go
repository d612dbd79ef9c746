package types

import "fmt"

// FoodType selects the effect applied when the player eats an item.
type FoodType int

const (
	FoodNormal     FoodType = iota // +1
	FoodSpeedUp                    // +1, halves the tick interval for a while
	FoodMultiplier                 // +5
	FoodMagnet                     // +1, pulls nearby food one cell closer
)

func (t FoodType) String() string {
	switch t {
	case FoodSpeedUp:
		return "speedup"
	case FoodMultiplier:
		return "multiplier"
	case FoodMagnet:
		return "magnet"
	default:
		return "normal"
	}
}

func (t FoodType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *FoodType) UnmarshalText(text []byte) error {
	for _, candidate := range []FoodType{FoodNormal, FoodSpeedUp, FoodMultiplier, FoodMagnet} {
		if candidate.String() == string(text) {
			*t = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown food type %q", text)
}

// Points is the score the player earns for this type.
func (t FoodType) Points() int {
	if t == FoodMultiplier {
		return 5
	}
	return 1
}

// FoodTypeFor maps a uniform draw in [0,1) to a type: 10% each special, 70% normal.
func FoodTypeFor(u float64) FoodType {
	switch {
	case u < 0.1:
		return FoodSpeedUp
	case u < 0.2:
		return FoodMultiplier
	case u < 0.3:
		return FoodMagnet
	default:
		return FoodNormal
	}
}

// Food is a single item on the board.
type Food struct {
	Pos  Point    `json:"pos"`
	Type FoodType `json:"type"`
}
