// Package player has the participants of a game: a console human, and
// random, one-ply heuristic and minimax computer players.
package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/domino14/gomoku/board"
	"github.com/domino14/gomoku/config"
)

var (
	ErrUnknownPlayer = errors.New("unknown player kind")
	ErrNoConsole     = errors.New("a human player needs a console")
	ErrPlayerQuit    = errors.New("player quit")
	ErrEngineMove    = errors.New("engine chose an illegal move")
)

const (
	KindHuman   = "human"
	KindRandom  = "random"
	KindShallow = "shallow"
	KindMinimax = "minimax"
)

// Player is one side of a game. The position passed in is the game's own
// and must not be modified.
type Player interface {
	Name() string
	// SetSide is called once before the game starts.
	SetSide(s board.Side)
	RequestMove(ctx context.Context, pos *board.Position) (board.Move, error)

	OnInvalidMove(pos *board.Position, m board.Move, err error)
	OnWin(pos *board.Position)
	OnLoss(pos *board.Position)
	OnDraw(pos *board.Position)
	OnMoveOk(pos *board.Position, m board.Move)
}

// NopCallbacks ignores every notification. Computer players embed it.
type NopCallbacks struct{}

func (NopCallbacks) OnInvalidMove(*board.Position, board.Move, error) {}
func (NopCallbacks) OnWin(*board.Position)                            {}
func (NopCallbacks) OnLoss(*board.Position)                           {}
func (NopCallbacks) OnDraw(*board.Position)                           {}
func (NopCallbacks) OnMoveOk(*board.Position, board.Move)             {}

// Console is where a human player reads moves and sees the board.
type Console struct {
	In    LineReader
	Out   io.Writer
	Color bool
}

// New makes a player of the given kind. console is only used by humans.
func New(kind, name string, cfg *config.Config, console *Console) (Player, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindHuman:
		if console == nil || console.In == nil || console.Out == nil {
			return nil, ErrNoConsole
		}
		return NewHumanPlayer(name, console.In, console.Out, console.Color), nil
	case KindRandom:
		return NewRandomPlayer(), nil
	case KindShallow:
		return NewShallowPlayer(), nil
	case KindMinimax:
		return NewMinimaxPlayer(cfg), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPlayer, kind)
}
