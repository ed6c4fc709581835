package schemas

import (
	"fmt"
	"strings"
)

// -- Direction Schemas --

// Direction is one of the six orientation buckets a multiplier table is keyed by.
type Direction int

const (
	Up Direction = iota
	Down
	Forward
	Back
	LeftRoll
	RightRoll

	// DirectionCount is the number of directions; arrays keyed by Direction use it as their length.
	DirectionCount = int(RightRoll) + 1
)

var directionNames = [DirectionCount]string{
	Up:        "up",
	Down:      "down",
	Forward:   "forward",
	Back:      "back",
	LeftRoll:  "left_roll",
	RightRoll: "right_roll",
}

// Directions lists every direction in declaration order.
func Directions() []Direction {
	return []Direction{Up, Down, Forward, Back, LeftRoll, RightRoll}
}

func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("direction(%d)", int(d))
	}
	return directionNames[d]
}

// Valid reports whether d is one of the declared directions.
func (d Direction) Valid() bool {
	return d >= Up && d <= RightRoll
}

// ParseDirection converts a configuration key (e.g. "left_roll") into a Direction.
func ParseDirection(s string) (Direction, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, name := range directionNames {
		if name == key {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// Side identifies the left or right member of a symmetric pair.
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Right {
		return "right"
	}
	return "left"
}

// -- Multiplier Schemas --

// Multiplier is an optional slider multiplier. The zero value is unset, which means
// the slider it belongs to is ignored for that direction.
type Multiplier struct {
	value float64
	set   bool
}

// Mul returns a set multiplier.
func Mul(v float64) Multiplier {
	return Multiplier{value: v, set: true}
}

// Unset returns the empty multiplier. It is equal to the zero value.
func Unset() Multiplier {
	return Multiplier{}
}

// Get returns the multiplier value and whether it is set.
func (m Multiplier) Get() (float64, bool) {
	return m.value, m.set
}

// IsSet reports whether the multiplier carries a value.
func (m Multiplier) IsSet() bool {
	return m.set
}

// MultiplierFromPtr adapts a nullable configuration field.
func MultiplierFromPtr(v *float64) Multiplier {
	if v == nil {
		return Unset()
	}
	return Mul(*v)
}

func (m Multiplier) String() string {
	if !m.set {
		return "unset"
	}
	return fmt.Sprintf("%g", m.value)
}

// MorphMultipliers is the per-direction multiplier triple of a morph config.
type MorphMultipliers struct {
	Base     float64
	Softness Multiplier
	Mass     Multiplier
}
