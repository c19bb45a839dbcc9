package player

import (
	"context"

	"lukechampine.com/frand"

	"github.com/domino14/gomoku/board"
)

// RandomPlayer picks any coordinate on the board, taken or not, and the game
// asks again after an invalid move. Once less than a quarter of the board
// is free it picks among the empty cells only, so a nearly full board does
// not run the game out of retries.
type RandomPlayer struct {
	NopCallbacks
	side board.Side
}

func NewRandomPlayer() *RandomPlayer {
	return &RandomPlayer{}
}

func (r *RandomPlayer) Name() string {
	return KindRandom
}

func (r *RandomPlayer) SetSide(s board.Side) {
	r.side = s
}

func (r *RandomPlayer) RequestMove(ctx context.Context, pos *board.Position) (board.Move, error) {
	n := pos.Size()
	free := n*n - pos.NumStones()
	if free <= 0 || 4*free >= n*n {
		return board.NewMove(frand.Intn(n), frand.Intn(n)), nil
	}
	k := frand.Intn(free)
	for idx := 0; idx < n*n; idx++ {
		if pos.Cell(idx) != board.Empty {
			continue
		}
		if k == 0 {
			return board.NewMove(idx%n, idx/n), nil
		}
		k--
	}
	return board.PassMove, nil
}
