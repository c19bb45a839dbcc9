// Package automatic plays computer vs computer games in bulk and keeps a
// turn-by-turn log of them.
package automatic

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/domino14/gomoku/board"
	"github.com/domino14/gomoku/config"
	"github.com/domino14/gomoku/game"
	"github.com/domino14/gomoku/player"
)

// CSV columns of the turn log. result is empty except on the last move of
// a game, where it is "win" or "draw".
const turnLogHeader = "gameID,turn,player,side,move,result\n"

// GameRunner is the master struct here for the automatic game logic.
type GameRunner struct {
	game     *game.Game
	config   *config.Config
	logchan  chan string
	gamechan chan string

	kinds   [2]string
	players [2]player.Player
}

// NewGameRunner makes a runner with two minimax players.
func NewGameRunner(logchan chan string, cfg *config.Config) *GameRunner {
	r := &GameRunner{logchan: logchan, config: cfg}
	if err := r.Init(player.KindMinimax, player.KindMinimax); err != nil {
		panic(err)
	}
	return r
}

// Init creates the two players. Only computer kinds can be used.
func (r *GameRunner) Init(kind1, kind2 string) error {
	for idx, kind := range []string{kind1, kind2} {
		p, err := player.New(kind, "", r.config, nil)
		if err != nil {
			return err
		}
		r.kinds[idx] = kind
		r.players[idx] = p
	}
	return nil
}

// PlayerName is the player's kind numbered by its position in Init, so the
// two sides stay distinguishable when both are the same kind.
func (r *GameRunner) PlayerName(idx int) string {
	return fmt.Sprintf("%s-%d", r.kinds[idx], idx+1)
}

// PlayGame plays one game to the end. With swap set the second player
// moves first.
func (r *GameRunner) PlayGame(ctx context.Context, swap bool) (Record, error) {
	first, second := 0, 1
	if swap {
		first, second = 1, 0
	}
	names := [2]string{r.PlayerName(first), r.PlayerName(second)}
	g, err := game.NewGame(r.config, r.players[first], r.players[second])
	if err != nil {
		return Record{}, err
	}
	r.game = g

	for {
		more, err := g.Tick(ctx)
		if err != nil {
			return Record{}, fmt.Errorf("game %s: %w", g.Uid(), err)
		}
		r.logTurn(names, more)
		if !more {
			break
		}
	}

	res := g.Result()
	if r.gamechan != nil {
		r.gamechan <- g.Board().ToDisplayText()
	}
	log.Debug().Str("uid", res.ID).Stringer("winner", res.Winner).Int("turns", res.Turns).Msg("runner-game-over")
	return Record{GameID: res.ID, Players: names, Winner: res.Winner, Turns: res.Turns}, nil
}

func (r *GameRunner) logTurn(names [2]string, more bool) {
	if r.logchan == nil {
		return
	}
	pos := r.game.Board()
	side := pos.LastSide()
	result := ""
	if !more {
		if pos.Winner() != board.Empty {
			result = "win"
		} else {
			result = "draw"
		}
	}
	m := pos.LastMove()
	r.logchan <- fmt.Sprintf("%v,%v,%v,%v,%d %d,%v\n",
		r.game.Uid(),
		r.game.Turn(),
		names[side-1],
		side,
		m.X, m.Y,
		result)
}
