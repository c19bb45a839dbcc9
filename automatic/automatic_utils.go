package automatic

// Data collection for automatic games.

import (
	"context"
	"errors"
	"expvar"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/gomoku/config"
	"github.com/domino14/gomoku/player"
)

var (
	CVCCounter *expvar.Int
	IsPlaying  *expvar.Int
)

var ErrAlreadyPlaying = errors.New("games are already being played, please wait till complete")

func init() {
	CVCCounter = expvar.NewInt("cvcCounter")
	IsPlaying = expvar.NewInt("isPlaying")
}

type Job struct {
	// swap has the second player move first.
	swap bool
}

// SummaryFilename is where the YAML summary of a turn log goes.
func SummaryFilename(logFilename string) string {
	return strings.TrimSuffix(logFilename, filepath.Ext(logFilename)) + ".summary.yaml"
}

// StartCompVComp plays numGames games between kind1 and kind2 on threads
// workers, alternating who moves first. Every turn is logged as CSV to
// outputFilename and a summary is written next to it. If ctx is cancelled
// the games finished so far are summarized and ctx's error is returned.
func StartCompVComp(ctx context.Context, cfg *config.Config, kind1, kind2 string,
	numGames int, threads int, outputFilename string) (*Summary, error) {

	if IsPlaying.Value() > 0 {
		return nil, ErrAlreadyPlaying
	}
	threads = max(1, threads)

	// fail on bad player kinds before any file is created.
	if err := validateKinds(cfg, kind1, kind2); err != nil {
		return nil, err
	}
	cfg = shareTranspositionMemory(cfg, kind1, kind2, threads)

	logfile, err := os.Create(outputFilename)
	if err != nil {
		return nil, err
	}
	log.Debug().Msgf("Starting %v games, %v threads", numGames, threads)

	CVCCounter.Set(0)
	jobs := make(chan Job, 100)
	logChan := make(chan string, 100)
	loggerDone := make(chan struct{})

	go func() {
		defer close(loggerDone)
		logfile.WriteString(turnLogHeader)
		for msg := range logChan {
			logfile.WriteString(msg)
		}
		logfile.Close()
		log.Debug().Msg("Exiting turn logger goroutine!")
	}()

	var mu sync.Mutex
	records := make([]Record, 0, numGames)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for i := 1; i <= numGames; i++ {
			select {
			case jobs <- Job{swap: i%2 == 0}:
			case <-gctx.Done():
				log.Info().Msg("Got stop signal, exiting soon...")
				return nil
			}
			if i%1000 == 0 {
				log.Info().Int("queued", i).Msg("queued-jobs")
			}
		}
		log.Debug().Msg("Finished queueing all jobs.")
		return nil
	})

	for i := 1; i <= threads; i++ {
		g.Go(func() error {
			r := &GameRunner{logchan: logChan, config: cfg}
			if err := r.Init(kind1, kind2); err != nil {
				return err
			}
			IsPlaying.Add(1)
			defer IsPlaying.Add(-1)
			for j := range jobs {
				rec, err := r.PlayGame(gctx, j.swap)
				if err != nil {
					if gctx.Err() != nil {
						// stopped mid-game; drop it.
						return nil
					}
					return err
				}
				mu.Lock()
				records = append(records, rec)
				mu.Unlock()
				CVCCounter.Add(1)
			}
			return nil
		})
	}

	err = g.Wait()
	close(logChan)
	<-loggerDone
	log.Info().Int("games", len(records)).Msg("All games finished.")
	if err != nil {
		return nil, err
	}

	summary := Summarize(records)
	if werr := summary.WriteFile(SummaryFilename(outputFilename)); werr != nil {
		return summary, werr
	}
	return summary, ctx.Err()
}

// validateKinds checks that both kinds can play automatic games.
func validateKinds(cfg *config.Config, kind1, kind2 string) error {
	r := &GameRunner{config: cfg}
	return r.Init(kind1, kind2)
}

// shareTranspositionMemory returns a config whose cache memory fraction is
// split between every minimax player searching at once.
func shareTranspositionMemory(cfg *config.Config, kind1, kind2 string, threads int) *config.Config {
	n := lo.CountBy([]string{kind1, kind2}, func(k string) bool {
		return strings.EqualFold(strings.TrimSpace(k), player.KindMinimax)
	})
	if n == 0 {
		return cfg
	}
	shared := cfg.Clone()
	shared.Set(config.ConfigTTSharedBy, n*threads)
	log.Debug().Int("minimax-players", n*threads).Msg("sharing-transposition-memory")
	return shared
}
