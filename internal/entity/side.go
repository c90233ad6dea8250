package entity

import (
	"errors"
	"fmt"
)

var ErrUnknownSide = errors.New("unknown side")

// Side is one of the two colours. First always opens a fresh game.
type Side int8

const (
	SideNone Side = iota
	First
	Second
)

const (
	firstColor  = "blue"
	secondColor = "green"
)

func (that Side) Opponent() Side {
	switch that {
	case First:
		return Second
	case Second:
		return First
	default:
		return SideNone
	}
}

func (that Side) Valid() bool {
	return that == First || that == Second
}

func (that Side) String() string {
	switch that {
	case First:
		return firstColor
	case Second:
		return secondColor
	default:
		return ""
	}
}

func (that Side) MarshalText() ([]byte, error) {
	if !that.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSide, that)
	}

	return []byte(that.String()), nil
}

func (that *Side) UnmarshalText(text []byte) error {
	side, err := ParseSide(string(text))
	if err != nil {
		return err
	}

	*that = side

	return nil
}

func ParseSide(color string) (Side, error) {
	switch color {
	case firstColor:
		return First, nil
	case secondColor:
		return Second, nil
	default:
		return SideNone, fmt.Errorf("%w: %q", ErrUnknownSide, color)
	}
}
