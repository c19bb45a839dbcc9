// Package heuristic scores non-terminal five-in-a-row positions by counting
// threat patterns along every line of the board.
package heuristic

import (
	"bytes"
	"fmt"

	"github.com/domino14/gomoku/board"
)

const (
	// WinScore is returned when a five is on the board.
	WinScore = 1_000_000
	// FourScore is the magnitude of a four threat that must be answered.
	FourScore = 100_000
	// ThreeScore scales open-three counts in the two middle rules.
	ThreeScore = 1_000
	// OpenThreeBonus and TwoScore make up the quiet score.
	OpenThreeBonus = 100
	TwoScore       = 10
)

// Line encodings, from the point of view of one side: own mark, opponent
// mark or board edge, empty.
const (
	own   = 'P'
	other = 'O'
	empty = '.'
)

var (
	patFive      = []byte("PPPPP")
	patOpenFour  = []byte(".PPPP.")
	patFourLeft  = []byte("OPPPP.")
	patFourRight = []byte(".PPPPO")
	patOpenThree = []byte(".PPP.")
	patOpenTwo   = []byte("..PP..")
)

// Tally holds the pattern counts for one side. It is recomputed from the
// whole board on every call.
type Tally struct {
	Fives      int
	Fours      int
	OpenFours  int
	OpenThrees int
	OpenTwos   int
}

func (t Tally) String() string {
	return fmt.Sprintf("<fives %d fours %d open4 %d open3 %d open2 %d>",
		t.Fives, t.Fours, t.OpenFours, t.OpenThrees, t.OpenTwos)
}

// TallyFor counts side's patterns over every line of pos.
func TallyFor(pos *board.Position, side board.Side) Tally {
	var t Tally
	var bufStack [board.MaxSize + 2]byte
	for _, line := range Lines(pos.Size()) {
		enc := encode(pos, line, side, bufStack[:0])
		t.Fives += bytes.Count(enc, patFive)
		t.OpenFours += bytes.Count(enc, patOpenFour)
		t.Fours += bytes.Count(enc, patFourLeft) + bytes.Count(enc, patFourRight)
		t.OpenThrees += bytes.Count(enc, patOpenThree)
		t.OpenTwos += bytes.Count(enc, patOpenTwo)
	}
	return t
}

// encode writes the line as seen by side, padded with an opponent mark at
// each end so the board edge blocks like a stone.
func encode(pos *board.Position, line []int, side board.Side, buf []byte) []byte {
	buf = append(buf, other)
	for _, idx := range line {
		switch pos.Cell(idx) {
		case board.Empty:
			buf = append(buf, empty)
		case side:
			buf = append(buf, own)
		default:
			buf = append(buf, other)
		}
	}
	return append(buf, other)
}

// Evaluate scores pos for toMove. Positive is good for toMove.
func Evaluate(pos *board.Position, toMove board.Side) int {
	mine, theirs := Tallies(pos, toMove)
	return Score(mine, theirs)
}

// Tallies returns the tallies of toMove and of its opponent.
func Tallies(pos *board.Position, toMove board.Side) (Tally, Tally) {
	return TallyFor(pos, toMove), TallyFor(pos, toMove.Opponent())
}

// Score applies the threat rules in order; the first one that holds
// decides the score and nothing is added from the others.
func Score(mine, theirs Tally) int {
	switch {
	case theirs.Fives > 0:
		return -WinScore
	case mine.Fives > 0:
		return WinScore
	case theirs.OpenFours > 0 || theirs.Fours > 0:
		return -FourScore
	case mine.OpenFours > 0:
		return FourScore
	case theirs.OpenThrees > 0 && mine.Fours == 0:
		return -threeTier(theirs.OpenThrees)
	case mine.OpenThrees+mine.Fours > 1:
		return threeTier(mine.OpenThrees + mine.Fours)
	}
	quiet := OpenThreeBonus*mine.OpenThrees + TwoScore*(mine.OpenTwos-theirs.OpenTwos)
	return clamp(quiet, -(ThreeScore - 1), ThreeScore-1)
}

// threeTier keeps scaled three scores between the quiet band and the four
// band, so counts never push one rule past another.
func threeTier(n int) int {
	return clamp(ThreeScore*n, ThreeScore, FourScore-ThreeScore)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
