package heuristic

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/gomoku/board"
)

func emptyRows(n int) []string {
	rows := make([]string, n)
	for i := range rows {
		b := make([]byte, n)
		for j := range b {
			b[j] = '.'
		}
		rows[i] = string(b)
	}
	return rows
}

// withRow returns an n×n position whose row y is row, left-aligned, and
// whose other cells are empty.
func withRow(t *testing.T, n, y int, row string) *board.Position {
	t.Helper()
	rows := emptyRows(n)
	rows[y] = row + rows[y][len(row):]
	pos, err := board.FromPlaintext(rows...)
	if err != nil {
		t.Fatal(err)
	}
	return pos
}

func TestLinesCount(t *testing.T) {
	is := is.New(t)
	// 15 rows, 15 columns and 21 diagonals of length >= 5 each way.
	is.Equal(len(Lines(15)), 72)
	is.Equal(len(Lines(5)), 12)
	for _, l := range Lines(9) {
		is.True(len(l) >= board.WinLength)
	}
}

func TestTallyPatterns(t *testing.T) {
	is := is.New(t)
	for _, tc := range []struct {
		row  string
		want Tally
	}{
		{"...XXXX....", Tally{OpenFours: 1}},
		{"XXXX.......", Tally{Fours: 1}},
		{"..OXXXX....", Tally{Fours: 1}},
		{"...XXXXO...", Tally{Fours: 1}},
		{"..OXXXXO...", Tally{}},
		{"...XXX.....", Tally{OpenThrees: 1}},
		{"...XX......", Tally{OpenTwos: 1}},
		{".XX........", Tally{}},
		{"..XXXXX....", Tally{Fives: 1}},
		{".XXXXXX....", Tally{Fives: 1}},
		{"...XXX..XXX", Tally{OpenThrees: 1}},
	} {
		pos := withRow(t, 11, 5, tc.row)
		got := TallyFor(pos, board.SideA)
		is.Equal(got, tc.want) // tc.row
	}
}

func TestTallyIsPerSide(t *testing.T) {
	is := is.New(t)
	pos := withRow(t, 11, 2, "..OOO..XX..")
	is.Equal(TallyFor(pos, board.SideB), Tally{OpenThrees: 1})
	is.Equal(TallyFor(pos, board.SideA), Tally{OpenTwos: 1})
}

func TestOpenFourScenario(t *testing.T) {
	is := is.New(t)
	pos, err := board.NewPosition(15)
	is.NoErr(err)
	for x := 4; x <= 7; x++ {
		is.NoErr(pos.Apply(board.NewMove(x, 7), board.SideA))
	}
	tally := TallyFor(pos, board.SideA)
	is.Equal(tally.OpenFours, 1)
	is.Equal(tally.Fives, 0)
	is.Equal(Evaluate(pos, board.SideA), FourScore)
	is.Equal(Evaluate(pos, board.SideB), -FourScore)
}

func TestScorePrecedence(t *testing.T) {
	is := is.New(t)
	is.Equal(Score(Tally{Fives: 1}, Tally{Fives: 1}), -WinScore)
	is.Equal(Score(Tally{Fives: 1}, Tally{OpenFours: 3}), WinScore)
	is.Equal(Score(Tally{OpenFours: 1}, Tally{Fours: 1}), -FourScore)
	is.Equal(Score(Tally{OpenFours: 1, OpenThrees: 4}, Tally{OpenThrees: 2}), FourScore)
	is.Equal(Score(Tally{OpenThrees: 1}, Tally{OpenThrees: 2}), -2*ThreeScore)
	// a four of our own cancels the open-three rule for the opponent
	is.Equal(Score(Tally{Fours: 1, OpenThrees: 1}, Tally{OpenThrees: 2}), 2*ThreeScore)
	is.Equal(Score(Tally{OpenThrees: 3}, Tally{}), 3*ThreeScore)
	is.Equal(Score(Tally{OpenThrees: 1, OpenTwos: 2}, Tally{OpenTwos: 5}), OpenThreeBonus-3*TwoScore)
	is.Equal(Score(Tally{}, Tally{}), 0)
}

func TestScoreTiersDoNotOverlap(t *testing.T) {
	is := is.New(t)
	is.Equal(Score(Tally{}, Tally{OpenThrees: 500}), -(FourScore - ThreeScore))
	is.Equal(Score(Tally{OpenThrees: 500}, Tally{}), FourScore-ThreeScore)
	is.Equal(Score(Tally{OpenTwos: 500}, Tally{}), ThreeScore-1)
	is.Equal(Score(Tally{}, Tally{OpenTwos: 500}), -(ThreeScore - 1))
}

// An opponent open four must score below any position where we hold only
// an open three, whatever the twos look like.
func TestOpponentOpenFourBelowOwnOpenThree(t *testing.T) {
	is := is.New(t)
	worstThreat := -WinScore
	for mineThrees := 0; mineThrees < 4; mineThrees++ {
		for mineFours := 0; mineFours < 3; mineFours++ {
			for twos := 0; twos < 30; twos += 7 {
				s := Score(Tally{OpenThrees: mineThrees, Fours: mineFours, OpenTwos: twos},
					Tally{OpenFours: 1, OpenTwos: twos})
				worstThreat = max(worstThreat, s)
			}
		}
	}
	bestQuiet := WinScore
	for theirThrees := 0; theirThrees < 40; theirThrees += 3 {
		for mineTwos := 0; mineTwos < 50; mineTwos += 5 {
			for theirTwos := 0; theirTwos < 50; theirTwos += 5 {
				s := Score(Tally{OpenThrees: 1, OpenTwos: mineTwos},
					Tally{OpenThrees: theirThrees, OpenTwos: theirTwos})
				bestQuiet = min(bestQuiet, s)
			}
		}
	}
	is.True(worstThreat < bestQuiet)
}

func TestEvaluateIdempotent(t *testing.T) {
	is := is.New(t)
	pos, err := board.FromPlaintext(
		".........",
		"..X.O....",
		"...XO....",
		"..OXXO...",
		"....X....",
		"...O.X...",
		".........",
		".........",
		".........",
	)
	is.NoErr(err)
	key := pos.Key()
	a := Evaluate(pos, board.SideB)
	b := Evaluate(pos, board.SideB)
	is.Equal(a, b)
	is.Equal(pos.Key(), key)
	is.Equal(Evaluate(pos, board.SideA), Evaluate(pos, board.SideA))
}

func TestDiagonalPatterns(t *testing.T) {
	is := is.New(t)
	pos, err := board.FromPlaintext(
		".........",
		".........",
		"......O..",
		".....O...",
		"....O....",
		"...O.....",
		".........",
		".........",
		".........",
	)
	is.NoErr(err)
	is.Equal(TallyFor(pos, board.SideB).OpenFours, 1)
	is.Equal(Evaluate(pos, board.SideA), -FourScore)
}

func BenchmarkEvaluate(b *testing.B) {
	pos, _ := board.NewPosition(15)
	moves := []board.Move{{X: 7, Y: 7}, {X: 8, Y: 8}, {X: 6, Y: 7}, {X: 8, Y: 7}, {X: 6, Y: 6}}
	side := board.SideA
	for _, m := range moves {
		pos.Apply(m, side)
		side = side.Opponent()
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Evaluate(pos, board.SideA)
	}
}
