package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"

	"github.com/domino14/gomoku/config"
	"github.com/domino14/gomoku/game"
	"github.com/domino14/gomoku/player"
)

var (
	GitVersion string
)

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	config.SetupLogging(cfg, os.Stderr)
	log.Info().Str("version", GitVersion).Msgf("Loaded config: %v", cfg.SanitizedSettings())

	if cfg.GetString(config.ConfigCPUProfile) != "" {
		f, err := os.Create(cfg.GetString(config.ConfigCPUProfile))
		if err != nil {
			panic("could not create CPU profile: " + err.Error())
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			panic("could not start CPU profile: " + err.Error())
		}
		defer pprof.StopCPUProfile()
	}

	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mgomoku>\033[0m ",
		HistoryFile:     "/tmp/gomoku-readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	defer l.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		// We received an interrupt signal, shut down.
		log.Info().Msg("got quit signal...")
		cancel()
	}()

	console := &player.Console{In: l, Out: l.Stdout(), Color: cfg.GetBool(config.ConfigColor)}
	p1, err := player.New(cfg.GetString(config.ConfigPlayer1), "player 1", cfg, console)
	if err != nil {
		log.Fatal().Err(err).Msg("bad-player1")
	}
	p2, err := player.New(cfg.GetString(config.ConfigPlayer2), "player 2", cfg, console)
	if err != nil {
		log.Fatal().Err(err).Msg("bad-player2")
	}

	g, err := game.NewGame(cfg, p1, p2)
	if err != nil {
		log.Fatal().Err(err).Msg("could-not-create-game")
	}
	res, err := g.Play(ctx)
	if err := g.Board().Display(l.Stdout(), cfg.GetBool(config.ConfigColor)); err != nil {
		log.Err(err).Msg("display-failed")
	}
	switch {
	case errors.Is(err, player.ErrPlayerQuit), errors.Is(err, context.Canceled):
		log.Info().Int("turns", res.Turns).Msg("game-abandoned")
	case err != nil:
		log.Error().Err(err).Int("turns", res.Turns).Msg("game-aborted")
	case res.Draw:
		fmt.Fprintf(l.Stdout(), "Draw after %d turns.\n", res.Turns)
	default:
		fmt.Fprintf(l.Stdout(), "%v wins after %d turns.\n", res.Winner, res.Turns)
	}
	log.Info().Msg("exiting")
}
