// Package game runs a game of five in a row between two players: it asks
// the player on turn for a move, checks it against the board, and tells
// both players how it went.
package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/domino14/gomoku/board"
	"github.com/domino14/gomoku/config"
	"github.com/domino14/gomoku/player"
)

var (
	ErrTooManyInvalidMoves = errors.New("too many invalid moves in a row")
	ErrGameOver            = errors.New("the game is over")
)

// PlayState is whether the game is still going.
type PlayState uint8

const (
	Playing PlayState = iota
	GameOver
)

func (p PlayState) String() string {
	if p == GameOver {
		return "game-over"
	}
	return "playing"
}

// Result describes a finished game.
type Result struct {
	ID     string
	Winner board.Side
	Draw   bool
	Turns  int
	Moves  []board.Move
	// InvalidMoves counts rejected moves per side, SideA first.
	InvalidMoves [2]int
}

// Game is the authoritative state of one game.
type Game struct {
	uid     string
	pos     *board.Position
	players [2]player.Player
	onturn  int
	playing PlayState
	turn    int

	maxInvalid   int
	invalidMoves [2]int
}

// NewGame sets up an empty board of the configured size. p1 plays X and
// moves first.
func NewGame(cfg *config.Config, p1, p2 player.Player) (*Game, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	pos, err := board.NewPosition(cfg.GetInt(config.ConfigBoardSize))
	if err != nil {
		return nil, err
	}
	p1.SetSide(board.SideA)
	p2.SetSide(board.SideB)
	g := &Game{
		uid:        newGameID(),
		pos:        pos,
		players:    [2]player.Player{p1, p2},
		maxInvalid: cfg.GetInt(config.ConfigMaxInvalidMoves),
	}
	log.Debug().Str("uid", g.uid).Int("size", pos.Size()).
		Str("p1", p1.Name()).Str("p2", p2.Name()).Msg("new-game")
	return g, nil
}

func (g *Game) Uid() string {
	return g.uid
}

// Board is the game's position. Callers must not modify it.
func (g *Game) Board() *board.Position {
	return g.pos
}

func (g *Game) Turn() int {
	return g.turn
}

func (g *Game) Playing() PlayState {
	return g.playing
}

func (g *Game) PlayerOnTurn() int {
	return g.onturn
}

func (g *Game) SideOnTurn() board.Side {
	if g.onturn == 0 {
		return board.SideA
	}
	return board.SideB
}

func (g *Game) Player(idx int) player.Player {
	return g.players[idx]
}

// Tick plays one turn. It returns false once the game is over.
func (g *Game) Tick(ctx context.Context) (bool, error) {
	if g.playing == GameOver {
		return false, ErrGameOver
	}
	p := g.players[g.onturn]
	side := g.SideOnTurn()

	var m board.Move
	invalid := 0
	for {
		var err error
		m, err = p.RequestMove(ctx, g.pos)
		if err != nil {
			g.playing = GameOver
			return false, fmt.Errorf("%v (%s) could not move: %w", side, p.Name(), err)
		}
		err = g.pos.Apply(m, side)
		if err == nil {
			break
		}
		if !errors.Is(err, board.ErrInvalidMove) {
			g.playing = GameOver
			return false, err
		}
		invalid++
		g.invalidMoves[g.onturn]++
		log.Debug().Err(err).Stringer("side", side).Int("attempt", invalid).Msg("invalid-move")
		p.OnInvalidMove(g.pos, m, err)
		if g.maxInvalid > 0 && invalid >= g.maxInvalid {
			g.playing = GameOver
			return false, fmt.Errorf("%w: %v (%s) made %d", ErrTooManyInvalidMoves, side, p.Name(), invalid)
		}
	}
	g.turn++
	log.Debug().Int("turn", g.turn).Stringer("side", side).Stringer("move", m).Msg("move-played")

	other := g.players[1-g.onturn]
	if g.pos.Winner() == side {
		g.playing = GameOver
		p.OnWin(g.pos)
		other.OnLoss(g.pos)
		return false, nil
	}
	if g.pos.Full() {
		g.playing = GameOver
		p.OnDraw(g.pos)
		other.OnDraw(g.pos)
		return false, nil
	}
	p.OnMoveOk(g.pos, m)
	g.onturn = 1 - g.onturn
	return true, nil
}

// Play ticks until the game ends or fails.
func (g *Game) Play(ctx context.Context) (Result, error) {
	for {
		more, err := g.Tick(ctx)
		if err != nil {
			return g.Result(), err
		}
		if !more {
			break
		}
	}
	res := g.Result()
	log.Debug().Str("uid", g.uid).Stringer("winner", res.Winner).
		Bool("draw", res.Draw).Int("turns", res.Turns).Msg("game-over")
	return res, nil
}

// Result summarizes the game so far.
func (g *Game) Result() Result {
	return Result{
		ID:           g.uid,
		Winner:       g.pos.Winner(),
		Draw:         g.playing == GameOver && g.pos.Winner() == board.Empty && g.pos.Full(),
		Turns:        g.turn,
		Moves:        g.pos.Moves(),
		InvalidMoves: g.invalidMoves,
	}
}
