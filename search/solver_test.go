package search

import (
	"context"
	"errors"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/domino14/gomoku/board"
	"github.com/domino14/gomoku/config"
	"github.com/domino14/gomoku/heuristic"
	"github.com/domino14/gomoku/movegen"
)

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

type placement struct {
	x, y int
	side board.Side
}

func setUpPosition(t *testing.T, n int, stones []placement) *board.Position {
	t.Helper()
	pos, err := board.NewPosition(n)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range stones {
		if err := pos.Apply(board.NewMove(s.x, s.y), s.side); err != nil {
			t.Fatal(err)
		}
	}
	return pos
}

func openFourPosition(t *testing.T) *board.Position {
	stones := []placement{}
	for x := 4; x <= 7; x++ {
		stones = append(stones, placement{x, 7, board.SideA})
	}
	for _, c := range [][2]int{{0, 0}, {14, 0}, {0, 14}, {14, 14}} {
		stones = append(stones, placement{c[0], c[1], board.SideB})
	}
	return setUpPosition(t, 15, stones)
}

func TestEmptyBoardPlaysCenter(t *testing.T) {
	is := is.New(t)
	pos := setUpPosition(t, 15, nil)
	s := NewSolver(config.DefaultConfig())
	s.SetDepth(1)
	res, err := s.Search(context.Background(), pos, movegen.NewGenerator(pos), board.SideA, NewCache(0), nil)
	is.NoErr(err)
	is.Equal(res.Move, board.NewMove(7, 7))
	is.True(!res.Interrupted)
}

func TestCompletesOpenFour(t *testing.T) {
	is := is.New(t)
	for _, depth := range []int{1, 2, 3} {
		pos := openFourPosition(t)
		s := NewSolver(config.DefaultConfig())
		s.SetDepth(depth)
		res, err := s.Search(context.Background(), pos, movegen.NewGenerator(pos), board.SideA, NewCache(0), nil)
		is.NoErr(err)
		is.True(res.Move == board.NewMove(3, 7) || res.Move == board.NewMove(8, 7))
		// a win on the first ply keeps depth-1 plies of bonus.
		is.Equal(res.Score, heuristic.WinScore+depth-1)
	}
}

func TestBlocksClosedFour(t *testing.T) {
	is := is.New(t)
	stones := []placement{{3, 7, board.SideA}}
	for x := 4; x <= 7; x++ {
		stones = append(stones, placement{x, 7, board.SideB})
	}
	for _, c := range [][2]int{{0, 0}, {14, 14}, {0, 14}} {
		stones = append(stones, placement{c[0], c[1], board.SideA})
	}
	pos := setUpPosition(t, 15, stones)
	s := NewSolver(config.DefaultConfig())
	s.SetDepth(2)
	res, err := s.Search(context.Background(), pos, movegen.NewGenerator(pos), board.SideA, NewCache(0), nil)
	is.NoErr(err)
	is.Equal(res.Move, board.NewMove(8, 7))
	is.True(res.Score > -heuristic.WinScore)
}

// X's open four cannot be stopped, so every O reply loses equally deep.
// O must still answer next to the four.
func openFourAgainstPosition(t *testing.T) *board.Position {
	stones := []placement{}
	for x := 4; x <= 7; x++ {
		stones = append(stones, placement{x, 7, board.SideA})
	}
	for _, c := range [][2]int{{0, 0}, {14, 0}, {0, 14}} {
		stones = append(stones, placement{c[0], c[1], board.SideB})
	}
	return setUpPosition(t, 15, stones)
}

func TestBlocksOpenFour(t *testing.T) {
	is := is.New(t)
	for _, depth := range []int{1, 2, 3} {
		for _, prune := range []bool{true, false} {
			pos := openFourAgainstPosition(t)
			s := NewSolver(config.DefaultConfig())
			s.SetDepth(depth)
			s.SetPruningDisabled(!prune)
			res, err := s.Search(context.Background(), pos, movegen.NewGenerator(pos), board.SideB, NewCache(0), nil)
			is.NoErr(err)
			is.True(res.Move == board.NewMove(3, 7) || res.Move == board.NewMove(8, 7))
			if depth > 1 {
				is.Equal(res.Score, -(heuristic.WinScore + depth - 2))
			}
		}
	}
}

func TestSearchLeavesPositionAlone(t *testing.T) {
	is := is.New(t)
	pos := openFourPosition(t)
	key := pos.Key()
	nmoves := pos.NumMoves()
	gen := movegen.NewGenerator(pos)
	before := append([]board.Move(nil), gen.Candidates(pos)...)

	s := NewSolver(config.DefaultConfig())
	_, err := s.Search(context.Background(), pos, gen, board.SideA, NewCache(0), nil)
	is.NoErr(err)
	is.Equal(pos.Key(), key)
	is.Equal(pos.NumMoves(), nmoves)
	is.Equal(gen.Depth(), 0)
	is.Equal(gen.Candidates(pos), before)
}

func smallPositions(t *testing.T) []*board.Position {
	rows := [][]string{
		{
			".......",
			".......",
			"..XO...",
			"...X...",
			"..O....",
			".......",
			".......",
		},
		{
			".......",
			".X.....",
			"..XO...",
			"..OXO..",
			"....X..",
			".......",
			".......",
		},
		{
			"......",
			"..XX..",
			".OO...",
			"......",
			"......",
			"......",
		},
	}
	var out []*board.Position
	for _, r := range rows {
		pos, err := board.FromPlaintext(r...)
		if err != nil {
			t.Fatal(err)
		}
		out = append(out, pos)
	}
	return out
}

// Pruning and transpositions must not change the value of the root.
func TestPruningMatchesFullMinimax(t *testing.T) {
	is := is.New(t)
	for _, depth := range []int{1, 2, 3} {
		for _, pos := range smallPositions(t) {
			toMove := pos.SideToMove()

			full := NewSolver(nil)
			full.SetDepth(depth)
			full.SetPruningDisabled(true)
			full.SetTranspositionsDisabled(true)
			want, err := full.Search(context.Background(), pos, movegen.NewGenerator(pos), toMove, nil, nil)
			is.NoErr(err)

			for _, disableTT := range []bool{false, true} {
				s := NewSolver(nil)
				s.SetDepth(depth)
				s.SetTranspositionsDisabled(disableTT)
				got, err := s.Search(context.Background(), pos, movegen.NewGenerator(pos), toMove, NewCache(0), NewCache(0))
				is.NoErr(err)
				is.Equal(got.Score, want.Score)
				is.True(got.Stats.Nodes <= want.Stats.Nodes)

				// the chosen move must be worth the root value.
				is.NoErr(pos.Apply(got.Move, toMove))
				check := NewSolver(nil)
				check.SetPruningDisabled(true)
				check.SetTranspositionsDisabled(true)
				var v int
				if depth == 1 || pos.Winner() != board.Empty {
					// the opponent is to move at the leaf.
					mine, theirs := heuristic.Tallies(pos, toMove.Opponent())
					v = heuristic.Score(mine, theirs)
					if pos.Winner() != board.Empty {
						v -= depth - 1
					}
					v = -v
				} else {
					check.SetDepth(depth - 1)
					r, err := check.Search(context.Background(), pos, movegen.NewGenerator(pos), toMove.Opponent(), nil, nil)
					is.NoErr(err)
					v = -r.Score
				}
				_, err = pos.Undo()
				is.NoErr(err)
				is.Equal(v, want.Score)
			}
		}
	}
}

func TestPreviousCacheDoesNotChangeResult(t *testing.T) {
	is := is.New(t)
	pos := smallPositions(t)[1]
	toMove := pos.SideToMove()
	s := NewSolver(nil)
	prev := NewCache(0)
	first, err := s.Search(context.Background(), pos, movegen.NewGenerator(pos), toMove, prev, nil)
	is.NoErr(err)
	is.True(prev.Len() > 0)

	second, err := s.Search(context.Background(), pos, movegen.NewGenerator(pos), toMove, NewCache(0), prev)
	is.NoErr(err)
	is.Equal(second.Score, first.Score)
}

func TestCacheLimitDoesNotChangeResult(t *testing.T) {
	is := is.New(t)
	pos := smallPositions(t)[0]
	toMove := pos.SideToMove()
	s := NewSolver(nil)
	unlimited, err := s.Search(context.Background(), pos, movegen.NewGenerator(pos), toMove, NewCache(0), nil)
	is.NoErr(err)
	tiny := NewCache(3)
	limited, err := s.Search(context.Background(), pos, movegen.NewGenerator(pos), toMove, tiny, nil)
	is.NoErr(err)
	is.Equal(limited.Score, unlimited.Score)
	is.Equal(tiny.Len(), 3)
	_, _, dropped := tiny.Stats()
	is.True(dropped > 0)
}

func TestSearchDecidedPosition(t *testing.T) {
	is := is.New(t)
	pos := openFourPosition(t)
	is.NoErr(pos.Apply(board.NewMove(8, 7), board.SideA))
	s := NewSolver(nil)
	_, err := s.Search(context.Background(), pos, movegen.NewGenerator(pos), board.SideB, nil, nil)
	is.True(errors.Is(err, ErrGameOver))
}

func TestBadDepth(t *testing.T) {
	is := is.New(t)
	pos := openFourPosition(t)
	s := NewSolver(nil)
	s.SetDepth(0)
	_, err := s.Search(context.Background(), pos, movegen.NewGenerator(pos), board.SideA, nil, nil)
	is.True(errors.Is(err, ErrBadDepth))
}

type noMoves struct{}

func (noMoves) Candidates(*board.Position) []board.Move { return nil }
func (noMoves) Play(*board.Position, board.Move)        {}
func (noMoves) Unplay()                                 {}

func TestNoLegalMove(t *testing.T) {
	is := is.New(t)
	pos := openFourPosition(t)
	s := NewSolver(nil)
	res, err := s.Search(context.Background(), pos, noMoves{}, board.SideA, nil, nil)
	is.True(errors.Is(err, ErrNoLegalMove))
	is.True(res.Move.IsPass())
}

func TestCancelledBeforeAnyMove(t *testing.T) {
	is := is.New(t)
	pos := openFourPosition(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewSolver(nil)
	_, err := s.Search(ctx, pos, movegen.NewGenerator(pos), board.SideA, nil, nil)
	is.True(errors.Is(err, ErrSearchInterrupted))
	is.True(errors.Is(err, context.Canceled))
}

// countdownCtx reports DeadlineExceeded once Err has been called n times.
type countdownCtx struct {
	context.Context
	n int
}

func (c *countdownCtx) Err() error {
	c.n--
	if c.n < 0 {
		return context.DeadlineExceeded
	}
	return nil
}

func TestInterruptedKeepsBestSoFar(t *testing.T) {
	is := is.New(t)
	pos := openFourPosition(t)
	key := pos.Key()
	gen := movegen.NewGenerator(pos)
	s := NewSolver(nil)
	s.SetDepth(1)
	// the root and its first two children get searched.
	ctx := &countdownCtx{Context: context.Background(), n: 3}
	res, err := s.Search(ctx, pos, gen, board.SideA, NewCache(0), nil)
	is.NoErr(err)
	is.True(res.Interrupted)
	is.True(!res.Move.IsPass())
	is.True(pos.AtMove(res.Move) == board.Empty)
	is.Equal(pos.Key(), key)
	is.Equal(gen.Depth(), 0)
}

func BenchmarkSearchDepth3(b *testing.B) {
	pos, _ := board.NewPosition(15)
	side := board.SideA
	for _, m := range []board.Move{{X: 7, Y: 7}, {X: 8, Y: 8}, {X: 6, Y: 7}, {X: 8, Y: 7}} {
		pos.Apply(m, side)
		side = side.Opponent()
	}
	s := NewSolver(nil)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Search(context.Background(), pos, movegen.NewGenerator(pos), side, NewCache(0), nil)
	}
}
