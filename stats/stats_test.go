package stats

import (
	"testing"

	"github.com/matryer/is"
)

func TestRunning(t *testing.T) {
	is := is.New(t)
	type tc struct {
		samples []int
		mean    float64
		stdev   float64
		min     float64
		max     float64
	}
	cases := []tc{
		{[]int{10, 12, 23, 23, 16, 23, 21, 16}, 18, 5.2372293656638, 10, 23},
		{[]int{14, 35, 71, 124, 10, 24, 55, 33, 87, 19}, 47.2, 36.937785531891, 10, 124},
		{[]int{1}, 1, 0, 1, 1},
		{[]int{}, 0, 0, 0, 0},
		{[]int{1, 1}, 1, 0, 1, 1},
	}
	for _, c := range cases {
		r := &Running{}
		for _, v := range c.samples {
			r.Push(float64(v))
		}
		is.Equal(r.N(), len(c.samples))
		is.True(FuzzyEqual(r.Mean(), c.mean))
		is.True(FuzzyEqual(r.Stdev(), c.stdev))
		is.True(FuzzyEqual(r.Min(), c.min))
		is.True(FuzzyEqual(r.Max(), c.max))
	}
}

func TestZVal(t *testing.T) {
	is := is.New(t)
	is.True(FuzzyEqual(ZVal(95), 1.959963984540054))
	is.True(FuzzyEqual(ZVal(99), 2.5758293035489004))
}

func TestScoreInterval(t *testing.T) {
	is := is.New(t)
	score, margin := ScoreInterval(0, 0, 0, 95)
	is.Equal(score, 0.0)
	is.Equal(margin, 0.0)

	score, margin = ScoreInterval(10, 0, 10, 95)
	is.True(FuzzyEqual(score, 1))
	is.True(FuzzyEqual(margin, 0))

	// half wins, half losses: variance 0.25.
	score, margin = ScoreInterval(50, 0, 100, 95)
	is.True(FuzzyEqual(score, 0.5))
	is.True(FuzzyEqual(margin, ZVal(95)*0.05))

	// all draws has no spread either.
	score, margin = ScoreInterval(0, 8, 8, 95)
	is.True(FuzzyEqual(score, 0.5))
	is.True(FuzzyEqual(margin, 0))
}
