package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/gomoku/board"
)

var ErrBadInput = errors.New("expected a move as x,y")

// LineReader is satisfied by *readline.Instance.
type LineReader interface {
	Readline() (string, error)
}

// HumanPlayer asks for moves on a console.
type HumanPlayer struct {
	name  string
	side  board.Side
	in    LineReader
	out   io.Writer
	color bool
}

func NewHumanPlayer(name string, in LineReader, out io.Writer, color bool) *HumanPlayer {
	if name == "" {
		name = "human"
	}
	return &HumanPlayer{name: name, in: in, out: out, color: color}
}

func (h *HumanPlayer) Name() string {
	return h.name
}

func (h *HumanPlayer) SetSide(s board.Side) {
	h.side = s
}

// ParseMove reads "x,y" or "x y".
func ParseMove(line string) (board.Move, error) {
	fields, err := shellquote.Split(strings.ReplaceAll(line, ",", " "))
	if err != nil {
		return board.PassMove, fmt.Errorf("%w: %v", ErrBadInput, err)
	}
	if len(fields) != 2 {
		return board.PassMove, fmt.Errorf("%w: got %d fields", ErrBadInput, len(fields))
	}
	x, err := strconv.Atoi(fields[0])
	if err != nil {
		return board.PassMove, fmt.Errorf("%w: %v", ErrBadInput, err)
	}
	y, err := strconv.Atoi(fields[1])
	if err != nil {
		return board.PassMove, fmt.Errorf("%w: %v", ErrBadInput, err)
	}
	return board.NewMove(x, y), nil
}

func (h *HumanPlayer) printBoard(pos *board.Position) {
	fmt.Fprintf(h.out, "\n\nTurn: %d\n", pos.NumMoves())
	if err := pos.Display(h.out, h.color); err != nil {
		log.Err(err).Msg("display-failed")
	}
	fmt.Fprintln(h.out)
}

// RequestMove prompts until a line parses. Whether the move is legal is
// up to the game.
func (h *HumanPlayer) RequestMove(ctx context.Context, pos *board.Position) (board.Move, error) {
	h.printBoard(pos)
	for {
		if err := ctx.Err(); err != nil {
			return board.PassMove, err
		}
		fmt.Fprintf(h.out, "Your turn %s (%v):\n", h.name, h.side)
		line, err := h.in.Readline()
		if err == readline.ErrInterrupt || err == io.EOF {
			return board.PassMove, ErrPlayerQuit
		} else if err != nil {
			return board.PassMove, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return board.PassMove, ErrPlayerQuit
		}
		m, err := ParseMove(line)
		if err != nil {
			fmt.Fprintln(h.out, err.Error())
			continue
		}
		return m, nil
	}
}

func (h *HumanPlayer) OnInvalidMove(pos *board.Position, m board.Move, err error) {
	h.printBoard(pos)
	fmt.Fprintf(h.out, "Invalid move %v!\n", m)
	log.Debug().Err(err).Msg("invalid-move")
}

func (h *HumanPlayer) OnWin(pos *board.Position) {
	h.printBoard(pos)
	fmt.Fprintf(h.out, "You win, %s!\n", h.name)
}

func (h *HumanPlayer) OnLoss(pos *board.Position) {
	h.printBoard(pos)
	fmt.Fprintf(h.out, "You lose, %s!\n", h.name)
}

func (h *HumanPlayer) OnDraw(pos *board.Position) {
	h.printBoard(pos)
	fmt.Fprintf(h.out, "It's a draw, %s!\n", h.name)
}

func (h *HumanPlayer) OnMoveOk(pos *board.Position, m board.Move) {
	h.printBoard(pos)
}
