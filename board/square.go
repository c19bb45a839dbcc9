package board

import (
	"os"
)

var (
	ColorSupport = os.Getenv("GOMOKU_DISABLE_COLOR") != "on"
)

// A Side is the content of a single cell: empty, or the mark of one of the
// two players.
type Side uint8

const (
	Empty Side = iota
	// SideA moves first and plays X.
	SideA
	// SideB plays O.
	SideB
)

// Opponent returns the other player. The opponent of Empty is Empty.
func (s Side) Opponent() Side {
	switch s {
	case SideA:
		return SideB
	case SideB:
		return SideA
	}
	return Empty
}

// Valid is true for the two player sides only.
func (s Side) Valid() bool {
	return s == SideA || s == SideB
}

func (s Side) String() string {
	switch s {
	case SideA:
		return "X"
	case SideB:
		return "O"
	}
	return "."
}

// SideFromRune is the inverse of String.
func SideFromRune(r rune) (Side, bool) {
	switch r {
	case 'X', 'x':
		return SideA, true
	case 'O', 'o':
		return SideB, true
	case '.':
		return Empty, true
	}
	return Empty, false
}
