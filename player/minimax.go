package player

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/domino14/gomoku/board"
	"github.com/domino14/gomoku/config"
	"github.com/domino14/gomoku/movegen"
	"github.com/domino14/gomoku/search"
	"github.com/domino14/gomoku/stats"
)

// MinimaxPlayer searches its own copy of the game position. The copy is
// kept in step with the game by replaying the opponent's last move, and
// reseeded from the game's grid whenever the two disagree.
type MinimaxPlayer struct {
	NopCallbacks
	cfg    *config.Config
	side   board.Side
	solver *search.Solver

	pos *board.Position
	gen *movegen.Generator

	cur, prev  *search.Cache
	maxEntries int
	cacheSize  int

	lastResult search.Result
	// per-decision search counters for the current game.
	nodes   stats.Running
	seconds stats.Running
}

func NewMinimaxPlayer(cfg *config.Config) *MinimaxPlayer {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &MinimaxPlayer{
		cfg:    cfg,
		side:   board.SideA,
		solver: search.NewSolver(cfg),
	}
}

func (p *MinimaxPlayer) Name() string {
	return KindMinimax
}

func (p *MinimaxPlayer) SetSide(s board.Side) {
	p.side = s
}

// Solver exposes the search settings, mostly for tests and the shell.
func (p *MinimaxPlayer) Solver() *search.Solver {
	return p.solver
}

// LastResult is the result of the most recent search.
func (p *MinimaxPlayer) LastResult() search.Result {
	return p.lastResult
}

func (p *MinimaxPlayer) reseed(game *board.Position) error {
	pos, err := board.FromGrid(game.Grid())
	if err != nil {
		return err
	}
	if p.cur == nil || p.cacheSize != pos.Size() {
		p.maxEntries = p.cfg.GetInt(config.ConfigTTMaxEntries)
		if p.maxEntries <= 0 {
			p.maxEntries = search.MaxEntriesForMemory(cacheFraction(p.cfg), pos.Size())
		}
		p.cur = search.NewCache(p.maxEntries)
		p.prev = search.NewCache(p.maxEntries)
		p.cacheSize = pos.Size()
	} else {
		p.cur.Reset()
		p.prev.Reset()
	}
	p.pos = pos
	p.gen = movegen.NewGenerator(pos)
	return nil
}

// cacheFraction is the memory share of one cache. Every minimax player
// holds two, and tt-shared-by players split the configured fraction.
func cacheFraction(cfg *config.Config) float64 {
	sharers := max(1, cfg.GetInt(config.ConfigTTSharedBy))
	return cfg.GetFloat64(config.ConfigTTFractionOfMem) / float64(2*sharers)
}

// sync brings the mirror up to the game's position.
func (p *MinimaxPlayer) sync(game *board.Position) error {
	if p.pos == nil || p.pos.Size() != game.Size() {
		return p.reseed(game)
	}
	if p.pos.Key() == game.Key() {
		return nil
	}
	last := game.LastMove()
	if game.NumStones() == p.pos.NumStones()+1 && !last.IsPass() &&
		game.LastSide() == p.side.Opponent() && p.pos.IsEmpty(last.X, last.Y) {

		if err := p.pos.Apply(last, game.LastSide()); err == nil {
			p.gen.Commit(p.pos, last)
			if p.pos.Key() == game.Key() {
				return nil
			}
		}
	}
	log.Warn().Int("game-stones", game.NumStones()).
		Int("mirror-stones", p.pos.NumStones()).
		Msg("mirror-out-of-sync-reseeding")
	return p.reseed(game)
}

// RequestMove syncs the opponent's move, searches, and plays the result on
// the mirror before returning it.
func (p *MinimaxPlayer) RequestMove(ctx context.Context, game *board.Position) (board.Move, error) {
	if err := p.sync(game); err != nil {
		return board.PassMove, err
	}
	res, err := p.solver.Search(ctx, p.pos, p.gen, p.side, p.cur, p.prev)
	if err != nil {
		return board.PassMove, err
	}
	p.lastResult = res
	p.nodes.Push(float64(res.Stats.Nodes))
	p.seconds.Push(res.Stats.Elapsed.Seconds())
	m := res.Move
	if !p.pos.OnBoard(m.X, m.Y) {
		return board.PassMove, fmt.Errorf("%w: %v is not on the board", ErrEngineMove, m)
	}
	if !p.pos.IsEmpty(m.X, m.Y) {
		return board.PassMove, fmt.Errorf("%w: %v is not free", ErrEngineMove, m)
	}
	if err := p.pos.Apply(m, p.side); err != nil {
		return board.PassMove, fmt.Errorf("%w: %w", ErrEngineMove, err)
	}
	p.gen.Commit(p.pos, m)

	lookups, hits, dropped := p.cur.Stats()
	log.Debug().Stringer("move", m).
		Int("score", res.Score).
		Bool("interrupted", res.Interrupted).
		Int("cache-entries", p.cur.Len()).
		Uint64("cache-lookups", lookups).
		Uint64("cache-hits", hits).
		Uint64("cache-dropped", dropped).
		Msg("minimax-move")

	p.cur, p.prev = p.prev, p.cur
	p.cur.Reset()
	return m, nil
}

// SearchStats returns running node counts and times of this game's
// decisions.
func (p *MinimaxPlayer) SearchStats() (nodes, seconds stats.Running) {
	return p.nodes, p.seconds
}

// the mirror is dropped once a game ends so the player can start another.
func (p *MinimaxPlayer) endGame() {
	log.Debug().Int("decisions", p.nodes.N()).
		Float64("mean-nodes", p.nodes.Mean()).
		Float64("stdev-nodes", p.nodes.Stdev()).
		Float64("max-nodes", p.nodes.Max()).
		Float64("mean-sec", p.seconds.Mean()).
		Float64("max-sec", p.seconds.Max()).
		Msg("minimax-game-stats")
	p.pos = nil
	p.gen = nil
	p.nodes = stats.Running{}
	p.seconds = stats.Running{}
}

func (p *MinimaxPlayer) OnWin(*board.Position)  { p.endGame() }
func (p *MinimaxPlayer) OnLoss(*board.Position) { p.endGame() }
func (p *MinimaxPlayer) OnDraw(*board.Position) { p.endGame() }
