package player

import (
	"context"

	"github.com/samber/lo"

	"github.com/domino14/gomoku/board"
)

var shallowDirections = [4][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}

// ShallowPlayer looks one ply ahead with a static score per empty cell:
// how many of its own marks and how many opponent marks line up through it.
type ShallowPlayer struct {
	NopCallbacks
	side board.Side
}

func NewShallowPlayer() *ShallowPlayer {
	return &ShallowPlayer{side: board.SideA}
}

func (s *ShallowPlayer) Name() string {
	return KindShallow
}

func (s *ShallowPlayer) SetSide(side board.Side) {
	s.side = side
}

type scoredMove struct {
	m     board.Move
	value int
}

// RequestMove returns the best scored empty cell. Ties go to the first
// cell in column-major order.
func (s *ShallowPlayer) RequestMove(ctx context.Context, pos *board.Position) (board.Move, error) {
	n := pos.Size()
	scored := make([]scoredMove, 0, n*n-pos.NumStones())
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			if !pos.IsEmpty(x, y) {
				continue
			}
			m := board.NewMove(x, y)
			scored = append(scored, scoredMove{m, s.evaluateMove(pos, m)})
		}
	}
	if len(scored) == 0 {
		return board.PassMove, nil
	}
	best := lo.MaxBy(scored, func(a, b scoredMove) bool {
		return a.value > b.value
	})
	return best.m, nil
}

// countMarks walks from m in direction (dx, dy) and counts mark, skipping
// empty cells and stopping at the edge or any other mark. A tight count
// also stops at once if the adjacent cell is not mark.
func countMarks(pos *board.Position, m board.Move, dx, dy int, mark board.Side, tight bool) int {
	count := 0
	x, y := m.X, m.Y
	for {
		x += dx
		y += dy
		if !pos.OnBoard(x, y) {
			break
		}
		c := pos.At(x, y)
		if c == mark {
			count++
		} else if tight && count == 0 {
			break
		} else if c != board.Empty {
			break
		}
	}
	return count
}

func (s *ShallowPlayer) evaluateMove(pos *board.Position, m board.Move) int {
	value := 0
	opp := s.side.Opponent()
	for _, d := range shallowDirections {
		dx, dy := d[0], d[1]
		mine := countMarks(pos, m, dx, dy, s.side, false) + countMarks(pos, m, -dx, -dy, s.side, false)
		mineTight := max(countMarks(pos, m, dx, dy, s.side, true), countMarks(pos, m, -dx, -dy, s.side, true))
		theirs := max(countMarks(pos, m, dx, dy, opp, true), countMarks(pos, m, -dx, -dy, opp, true))

		if theirs >= 2 {
			value += theirs * 10
		}
		if mineTight >= 2 {
			value += mine * 10
		}
		value += mine + theirs
	}
	return value
}
