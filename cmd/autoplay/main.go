package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/gomoku/automatic"
	"github.com/domino14/gomoku/config"
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	config.SetupLogging(cfg, os.Stderr)
	log.Info().Msgf("Loaded config: %v", cfg.SanitizedSettings())

	if f := cfg.GetString(config.ConfigAnalyze); f != "" {
		summary, err := automatic.AnalyzeLogFile(f)
		if err != nil {
			log.Fatal().Err(err).Msg("analyze-failed")
		}
		fmt.Print(summary.String())
		return
	}

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kind1, kind2 := cfg.GetString(config.ConfigPlayer1), cfg.GetString(config.ConfigPlayer2)
	logfile := cfg.GetString(config.ConfigGameLogFile)
	tstart := time.Now()
	summary, err := automatic.StartCompVComp(ctx, cfg, kind1, kind2,
		cfg.GetInt(config.ConfigNumGames), cfg.GetInt(config.ConfigThreads), logfile)
	if summary == nil {
		log.Fatal().Err(err).Msg("autoplay-failed")
	}
	if err != nil {
		log.Warn().Err(err).Msg("autoplay-stopped-early")
	}
	log.Info().Str("log-file", logfile).
		Str("summary-file", automatic.SummaryFilename(logfile)).
		Int64("games", automatic.CVCCounter.Value()).
		Float64("time-elapsed-sec", time.Since(tstart).Seconds()).
		Msg("autoplay-done")
	fmt.Print(summary.String())
}
