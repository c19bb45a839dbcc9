package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// ZVal returns the two-tailed Z-value associated with a specific confidence interval.
// The interval is a number from 0 to 100 percent.
func ZVal(confidenceInterval float64) float64 {
	dist := distuv.Normal{
		Mu:    0,
		Sigma: 1,
	}
	area := (1 + (confidenceInterval / 100)) / 2
	return dist.Quantile(area)
}

// ScoreInterval is a player's match score, wins plus half the draws over
// games, with the half-width of its normal-approximation confidence
// interval.
func ScoreInterval(wins, draws, games int, confidenceInterval float64) (score, margin float64) {
	if games == 0 {
		return 0, 0
	}
	score = (float64(wins) + float64(draws)/2) / float64(games)
	// per-game outcomes are 1, 0.5 or 0, so E[x²] = (wins + draws/4) / games.
	sq := (float64(wins) + float64(draws)/4) / float64(games)
	variance := sq - score*score
	margin = ZVal(confidenceInterval) * math.Sqrt(math.Max(variance, 0)/float64(games))
	return score, margin
}
