// Package search chooses moves with a depth-limited minimax search with
// alpha-beta pruning and per-decision transposition caches.
package search

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/gomoku/board"
	"github.com/domino14/gomoku/config"
	"github.com/domino14/gomoku/heuristic"
	"github.com/domino14/gomoku/movegen"
)

// thanks Wikipedia:
/**function alphabeta(node, depth, α, β, maximizingPlayer) is
    if depth = 0 or node is a terminal node then
        return the heuristic value of node
    if maximizingPlayer then
        value := −∞
        for each child of node do
            value := max(value, alphabeta(child, depth − 1, α, β, FALSE))
            α := max(α, value)
            if α ≥ β then
                break (* β cut-off *)
        return value
    else
        value := +∞
        for each child of node do
            value := min(value, alphabeta(child, depth − 1, α, β, TRUE))
            β := min(β, value)
            if α ≥ β then
                break (* α cut-off *)
        return value
**/

const (
	// Infinity is larger than any score plus depth adjustment.
	Infinity = 10 * heuristic.WinScore
	// DefaultDepth is the search depth in plies when none is configured.
	DefaultDepth = 3
)

var (
	ErrNoLegalMove             = errors.New("no legal move in a non-terminal position")
	ErrEvaluationInconsistency = errors.New("evaluator and win detection disagree")
	ErrSearchInterrupted       = errors.New("search interrupted before any move was scored")
	ErrGameOver                = errors.New("position is already decided")
	ErrBadDepth                = errors.New("search depth must be at least 1")
)

// Stats are counters for one search.
type Stats struct {
	Nodes     int
	Leaves    int
	CacheHits int
	Cutoffs   int
	Elapsed   time.Duration
}

// Result is the outcome of one decision.
type Result struct {
	Move  board.Move
	Score int
	// Interrupted is set when the time limit or context ended the search
	// and Move is the best root move scored so far.
	Interrupted bool
	Stats       Stats
}

// Solver implements the minimax + alphabeta algorithm. A Solver may be
// reused across decisions but not shared between goroutines.
type Solver struct {
	depth                 int
	disablePruning        bool
	disableTranspositions bool
	timeLimit             time.Duration

	// per-search state
	pos      *board.Position
	gen      movegen.MoveGenerator
	rootSide board.Side
	cur      *Cache
	prev     *Cache
	ordered  [][]board.Move
	rootBest board.Move
	rootVal  int
	stats    Stats
}

// NewSolver reads search settings from cfg.
func NewSolver(cfg *config.Config) *Solver {
	s := &Solver{depth: DefaultDepth}
	if cfg != nil {
		if d := cfg.GetInt(config.ConfigSearchDepth); d > 0 {
			s.depth = d
		}
		s.disablePruning = cfg.GetBool(config.ConfigDisablePruning)
		s.disableTranspositions = cfg.GetBool(config.ConfigDisableTranspositions)
		s.timeLimit = cfg.GetDuration(config.ConfigSearchTimeLimit)
	}
	return s
}

func (s *Solver) SetDepth(d int) {
	s.depth = d
}

func (s *Solver) Depth() int {
	return s.depth
}

func (s *Solver) SetPruningDisabled(d bool) {
	s.disablePruning = d
}

func (s *Solver) SetTranspositionsDisabled(d bool) {
	s.disableTranspositions = d
}

func (s *Solver) SetTimeLimit(t time.Duration) {
	s.timeLimit = t
}

// Search picks a move for toMove in pos. cur receives this decision's
// results; prev, the previous decision's cache, only reorders moves.
// Either cache may be nil. pos and gen are left as they were found.
func (s *Solver) Search(ctx context.Context, pos *board.Position, gen movegen.MoveGenerator,
	toMove board.Side, cur, prev *Cache) (Result, error) {

	if s.depth < 1 {
		return Result{Move: board.PassMove}, ErrBadDepth
	}
	if pos.Winner() != board.Empty || pos.Full() {
		return Result{Move: board.PassMove}, ErrGameOver
	}
	if !toMove.Valid() {
		return Result{Move: board.PassMove}, fmt.Errorf("%w: no side to move", board.ErrInvalidMove)
	}

	s.pos = pos
	s.gen = gen
	s.rootSide = toMove
	s.cur, s.prev = cur, prev
	if s.disableTranspositions {
		s.cur, s.prev = nil, nil
	}
	s.rootBest = board.PassMove
	s.rootVal = -Infinity
	s.stats = Stats{}
	for len(s.ordered) <= s.depth {
		s.ordered = append(s.ordered, make([]board.Move, 0, pos.Size()*pos.Size()))
	}

	if s.timeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeLimit)
		defer cancel()
	}

	log.Debug().Int("depth", s.depth).
		Stringer("side", toMove).
		Int("stones", pos.NumStones()).
		Bool("pruning", !s.disablePruning).
		Bool("transpositions", s.cur != nil).
		Msg("search-start")

	tstart := time.Now()
	score, move, err := s.alphabeta(ctx, s.depth, -Infinity, Infinity, true)
	s.stats.Elapsed = time.Since(tstart)

	res := Result{Move: move, Score: score, Stats: s.stats}
	if err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			log.Err(err).Msg("search-failed")
			return Result{Move: board.PassMove, Stats: s.stats}, err
		}
		if s.rootBest.IsPass() {
			return Result{Move: board.PassMove, Stats: s.stats}, fmt.Errorf("%w: %w", ErrSearchInterrupted, err)
		}
		log.Warn().Err(err).Stringer("move", s.rootBest).Msg("search-interrupted-using-best-so-far")
		res = Result{Move: s.rootBest, Score: s.rootVal, Interrupted: true, Stats: s.stats}
	}

	log.Debug().Stringer("move", res.Move).
		Int("score", res.Score).
		Int("nodes", s.stats.Nodes).
		Int("leaves", s.stats.Leaves).
		Int("cache-hits", s.stats.CacheHits).
		Int("cutoffs", s.stats.Cutoffs).
		Float64("time-elapsed-sec", s.stats.Elapsed.Seconds()).
		Msg("search-done")

	s.pos, s.gen, s.cur, s.prev = nil, nil, nil, nil
	return res, nil
}

func (s *Solver) sideFor(maximizing bool) board.Side {
	if maximizing {
		return s.rootSide
	}
	return s.rootSide.Opponent()
}

// leafValue scores the current position for the side to move at this node
// and converts it to the root's point of view. Decided positions are
// shifted by the remaining depth so that quicker wins and slower losses
// are preferred.
func (s *Solver) leafValue(depth int, maximizing bool) (int, error) {
	s.stats.Leaves++
	toMove := s.sideFor(maximizing)
	mine, theirs := heuristic.Tallies(s.pos, toMove)
	evalSaysWon := mine.Fives > 0 || theirs.Fives > 0
	if evalSaysWon != (s.pos.Winner() != board.Empty) {
		return 0, fmt.Errorf("%w: fives %d/%d, winner %v, last move %v",
			ErrEvaluationInconsistency, mine.Fives, theirs.Fives, s.pos.Winner(), s.pos.LastMove())
	}
	var v int
	switch {
	case evalSaysWon:
		v = heuristic.Score(mine, theirs)
		if v > 0 {
			v += depth
		} else {
			v -= depth
		}
	case s.pos.Full():
		v = 0
	default:
		v = heuristic.Score(mine, theirs)
	}
	if !maximizing {
		v = -v
	}
	return v, nil
}

// rankRoot sorts the root moves by the static score of the position each
// one leaves, best first. Root moves with equal search scores then resolve
// to the one that looks best without lookahead, so a lost position is still
// answered by blocking.
func (s *Solver) rankRoot(plays []board.Move) error {
	static := make(map[board.Move]int, len(plays))
	for _, m := range plays {
		if err := s.pos.Apply(m, s.rootSide); err != nil {
			return fmt.Errorf("search tried %v: %w", m, err)
		}
		static[m] = -heuristic.Evaluate(s.pos, s.rootSide.Opponent())
		if _, err := s.pos.Undo(); err != nil {
			panic(err)
		}
	}
	slices.SortStableFunc(plays, func(a, b board.Move) int {
		return cmp.Compare(static[b], static[a])
	})
	return nil
}

func (s *Solver) alphabeta(ctx context.Context, depth int, α, β int, maximizing bool) (int, board.Move, error) {
	if err := ctx.Err(); err != nil {
		return 0, board.PassMove, err
	}
	s.stats.Nodes++

	if depth == 0 || s.pos.Winner() != board.Empty || s.pos.Full() {
		v, err := s.leafValue(depth, maximizing)
		return v, board.PassMove, err
	}

	key := s.pos.Key()
	hint, prevHint := board.PassMove, board.PassMove
	if s.cur != nil {
		if e, ok := s.cur.Lookup(key); ok && e.Depth == depth {
			switch {
			case e.Flag == FlagExact,
				e.Flag == FlagLower && e.Score >= β,
				e.Flag == FlagUpper && e.Score <= α:
				s.stats.CacheHits++
				if depth == s.depth {
					s.rootBest, s.rootVal = e.Move, e.Score
				}
				return e.Score, e.Move, nil
			}
			hint = e.Move
		}
	}
	if s.prev != nil {
		if e, ok := s.prev.Lookup(key); ok {
			prevHint = e.Move
		}
	}

	cands := s.gen.Candidates(s.pos)
	if len(cands) == 0 {
		return 0, board.PassMove, fmt.Errorf("%w: %d stones on the board", ErrNoLegalMove, s.pos.NumStones())
	}
	plays := movegen.MoveToFront(s.ordered[depth], cands, hint, prevHint)
	s.ordered[depth] = plays
	if depth == s.depth {
		if err := s.rankRoot(plays); err != nil {
			return 0, board.PassMove, err
		}
	}

	αOrig, βOrig := α, β
	side := s.sideFor(maximizing)
	best := board.PassMove
	var value int
	if maximizing {
		value = -Infinity
	} else {
		value = Infinity
	}

	for _, m := range plays {
		if err := s.pos.Apply(m, side); err != nil {
			return 0, board.PassMove, fmt.Errorf("search tried %v: %w", m, err)
		}
		s.gen.Play(s.pos, m)
		v, _, err := s.alphabeta(ctx, depth-1, α, β, !maximizing)
		s.gen.Unplay()
		if _, uerr := s.pos.Undo(); uerr != nil {
			// the stack cannot be empty right after an Apply.
			panic(uerr)
		}
		if err != nil {
			return 0, board.PassMove, err
		}

		if maximizing {
			if best.IsPass() || v > value {
				value, best = v, m
			}
			α = max(α, value)
		} else {
			if best.IsPass() || v < value {
				value, best = v, m
			}
			β = min(β, value)
		}
		if depth == s.depth {
			s.rootBest, s.rootVal = best, value
		}
		if !s.disablePruning && β <= α {
			s.stats.Cutoffs++
			break
		}
	}

	if !s.disablePruning {
		// fail-hard: the returned bound stays inside the window.
		if maximizing {
			value = min(α, βOrig)
		} else {
			value = max(β, αOrig)
		}
	}

	if s.cur != nil {
		flag := FlagExact
		if !s.disablePruning {
			if value <= αOrig {
				flag = FlagUpper
			} else if value >= βOrig {
				flag = FlagLower
			}
		}
		s.cur.Store(key, Entry{Score: value, Flag: flag, Depth: depth, Move: best})
	}
	return value, best, nil
}
