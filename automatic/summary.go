package automatic

import (
	"os"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/domino14/gomoku/board"
	"github.com/domino14/gomoku/stats"
)

// Record is the outcome of one automatic game. Players holds the names of
// X and O in that order.
type Record struct {
	GameID  string
	Players [2]string
	Winner  board.Side
	Turns   int
}

// WinnerName is empty for a draw.
func (r Record) WinnerName() string {
	if !r.Winner.Valid() {
		return ""
	}
	return r.Players[r.Winner-1]
}

// MatchScore is wins plus half the draws per game, with the half-width of
// its 95% confidence interval.
type MatchScore struct {
	Score    float64 `yaml:"score"`
	Margin95 float64 `yaml:"margin-95"`
}

// Summary aggregates a batch of games.
type Summary struct {
	Games       int                   `yaml:"games"`
	Wins        map[string]int        `yaml:"wins"`
	Scores      map[string]MatchScore `yaml:"scores"`
	XWins       int                   `yaml:"x-wins"`
	OWins       int                   `yaml:"o-wins"`
	Draws       int                   `yaml:"draws"`
	MeanTurns   float64               `yaml:"mean-turns"`
	StdDevTurns float64               `yaml:"stddev-turns"`
	MinTurns    int                   `yaml:"min-turns"`
	MaxTurns    int                   `yaml:"max-turns"`
}

func Summarize(records []Record) *Summary {
	s := &Summary{
		Games:  len(records),
		Wins:   map[string]int{},
		Scores: map[string]MatchScore{},
	}
	if len(records) == 0 {
		return s
	}
	for _, r := range records {
		for _, n := range r.Players {
			if _, ok := s.Wins[n]; !ok {
				s.Wins[n] = 0
			}
		}
		if n := r.WinnerName(); n != "" {
			s.Wins[n]++
		}
	}
	s.XWins = lo.CountBy(records, func(r Record) bool { return r.Winner == board.SideA })
	s.OWins = lo.CountBy(records, func(r Record) bool { return r.Winner == board.SideB })
	s.Draws = s.Games - s.XWins - s.OWins
	for name, wins := range s.Wins {
		score, margin := stats.ScoreInterval(wins, s.Draws, s.Games, 95)
		s.Scores[name] = MatchScore{Score: score, Margin95: margin}
	}

	turns := lo.Map(records, func(r Record, _ int) int { return r.Turns })
	s.MinTurns = lo.Min(turns)
	s.MaxTurns = lo.Max(turns)
	xs := lo.Map(turns, func(t int, _ int) float64 { return float64(t) })
	if len(xs) > 1 {
		s.MeanTurns, s.StdDevTurns = stat.MeanStdDev(xs, nil)
	} else {
		s.MeanTurns = xs[0]
	}
	return s
}

func (s *Summary) String() string {
	out, err := yaml.Marshal(s)
	if err != nil {
		return err.Error()
	}
	return string(out)
}

// WriteFile writes the summary as YAML.
func (s *Summary) WriteFile(path string) error {
	out, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}
