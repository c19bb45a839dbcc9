package config

import (
	"runtime"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigBoardSize             = "board-size"
	ConfigSearchDepth           = "search-depth"
	ConfigSearchTimeLimit       = "search-time-limit"
	ConfigTTFractionOfMem       = "tt-fraction-of-mem"
	ConfigTTMaxEntries          = "tt-max-entries"
	ConfigTTSharedBy            = "tt-shared-by"
	ConfigDisablePruning        = "disable-pruning"
	ConfigDisableTranspositions = "disable-transpositions"
	ConfigMaxInvalidMoves       = "max-invalid-moves"
	ConfigDebug                 = "debug"
	ConfigColor                 = "color"
	ConfigPlayer1               = "player1"
	ConfigPlayer2               = "player2"
	ConfigConfigFile            = "config-file"
	ConfigCPUProfile            = "cpu-profile"
	ConfigNumGames              = "num-games"
	ConfigThreads               = "threads"
	ConfigGameLogFile           = "game-log-file"
	ConfigAnalyze               = "analyze"
)

// Config wraps a viper instance. Values come, in order of precedence, from
// flags, GOMOKU_* environment variables, an optional YAML file, and the
// defaults below.
type Config struct {
	*viper.Viper
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(ConfigBoardSize, 15)
	v.SetDefault(ConfigSearchDepth, 3)
	v.SetDefault(ConfigSearchTimeLimit, time.Duration(0))
	v.SetDefault(ConfigTTFractionOfMem, 0.05)
	v.SetDefault(ConfigTTMaxEntries, 0)
	v.SetDefault(ConfigTTSharedBy, 1)
	v.SetDefault(ConfigDisablePruning, false)
	v.SetDefault(ConfigDisableTranspositions, false)
	v.SetDefault(ConfigMaxInvalidMoves, 1000)
	v.SetDefault(ConfigDebug, false)
	v.SetDefault(ConfigColor, true)
	v.SetDefault(ConfigPlayer1, "human")
	v.SetDefault(ConfigPlayer2, "minimax")
	v.SetDefault(ConfigNumGames, 100)
	v.SetDefault(ConfigThreads, runtime.NumCPU())
	v.SetDefault(ConfigGameLogFile, "/tmp/gomoku-games.csv")
}

// DefaultConfig is a config with only the defaults set. Tests use it.
func DefaultConfig() *Config {
	v := viper.New()
	setDefaults(v)
	return &Config{Viper: v}
}

// Load parses args and the environment. Unknown flags are an error.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	setDefaults(c.Viper)

	fs := pflag.NewFlagSet("gomoku", pflag.ContinueOnError)
	fs.Int(ConfigBoardSize, 15, "board dimension N for an N×N board")
	fs.Int(ConfigSearchDepth, 3, "fixed search depth in plies")
	fs.Duration(ConfigSearchTimeLimit, 0, "interrupt a search after this long and keep its best move so far (0 = no limit)")
	fs.Float64(ConfigTTFractionOfMem, 0.05, "fraction of system memory all transposition caches together may use")
	fs.Int(ConfigTTMaxEntries, 0, "hard cap on transposition cache entries; overrides the memory fraction when > 0")
	fs.Int(ConfigTTSharedBy, 1, "minimax players splitting the transposition memory fraction")
	fs.Bool(ConfigDisablePruning, false, "search the full minimax tree")
	fs.Bool(ConfigDisableTranspositions, false, "do not use transposition caches")
	fs.Int(ConfigMaxInvalidMoves, 1000, "invalid moves a player may make in a row before the game is aborted")
	fs.Bool(ConfigDebug, false, "debug logging")
	fs.Bool(ConfigColor, true, "coloured board output")
	fs.String(ConfigPlayer1, "human", "first player (X): human, random, shallow or minimax")
	fs.String(ConfigPlayer2, "minimax", "second player (O): human, random, shallow or minimax")
	fs.String(ConfigConfigFile, "", "optional YAML config file")
	fs.String(ConfigCPUProfile, "", "write a CPU profile here")
	fs.Int(ConfigNumGames, 100, "automatic games to play")
	fs.Int(ConfigThreads, runtime.NumCPU(), "automatic games played at once")
	fs.String(ConfigGameLogFile, "/tmp/gomoku-games.csv", "CSV turn log for automatic games")
	fs.String(ConfigAnalyze, "", "summarize an existing turn log instead of playing")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c.SetEnvPrefix("gomoku")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()
	if err := c.BindPFlags(fs); err != nil {
		return err
	}

	if f := c.GetString(ConfigConfigFile); f != "" {
		c.SetConfigFile(f)
		c.SetConfigType("yaml")
		if err := c.ReadInConfig(); err != nil {
			return err
		}
	}
	return nil
}

// Clone copies every setting into a new config, so overrides on the copy
// leave c alone.
func (c *Config) Clone() *Config {
	v := viper.New()
	setDefaults(v)
	for _, k := range c.AllKeys() {
		v.Set(k, c.Get(k))
	}
	return &Config{Viper: v}
}

// SanitizedSettings is everything worth logging at startup.
func (c *Config) SanitizedSettings() map[string]any {
	return c.AllSettings()
}
