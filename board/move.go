package board

import "fmt"

// A Move is a coordinate on the board. X is the column and Y the row.
type Move struct {
	X int
	Y int
}

// PassMove stands for "no move": the opponent's last move at the start of a
// game, or the move slot of a search leaf.
var PassMove = Move{X: -1, Y: -1}

func NewMove(x, y int) Move {
	return Move{X: x, Y: y}
}

func (m Move) IsPass() bool {
	return m == PassMove
}

func (m Move) String() string {
	if m.IsPass() {
		return "pass"
	}
	return fmt.Sprintf("%d,%d", m.X, m.Y)
}

// Chebyshev returns the king-move distance between two moves.
func (m Move) Chebyshev(o Move) int {
	return max(abs(m.X-o.X), abs(m.Y-o.Y))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
