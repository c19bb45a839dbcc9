package board

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// FromGrid seeds a position from an orchestrator grid, grid[y][x]. The
// resulting position has no move history. If a five is already on the
// board its owner becomes the winner.
func FromGrid(grid [][]Side) (*Position, error) {
	n := len(grid)
	p, err := NewPosition(n)
	if err != nil {
		return nil, err
	}
	for y, row := range grid {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrBadGrid, y, len(row), n)
		}
		for x, s := range row {
			if s > SideB {
				return nil, fmt.Errorf("%w: bad mark %d at %d,%d", ErrBadGrid, s, x, y)
			}
			p.set(p.index(x, y), s)
		}
	}
	p.findWinner()
	return p, nil
}

// FromPlaintext builds a position from rows of '.', 'X' and 'O', the same
// format ToDisplayText produces.
func FromPlaintext(rows ...string) (*Position, error) {
	grid := make([][]Side, len(rows))
	for y, row := range rows {
		row = strings.TrimSpace(row)
		grid[y] = make([]Side, 0, len(row))
		for _, r := range row {
			s, ok := SideFromRune(r)
			if !ok {
				return nil, fmt.Errorf("%w: unexpected %q in row %d", ErrBadGrid, r, y)
			}
			grid[y] = append(grid[y], s)
		}
	}
	return FromGrid(grid)
}

func (p *Position) findWinner() {
	p.winner = Empty
	for y := 0; y < p.size; y++ {
		for x := 0; x < p.size; x++ {
			if p.At(x, y) != Empty && p.CheckWin(Move{X: x, Y: y}) {
				p.winner = p.At(x, y)
				return
			}
		}
	}
}

// Equals compares marks only, not move history.
func (p *Position) Equals(o *Position) bool {
	return p.Key() == o.Key()
}

// ToDisplayText renders one row per line.
func (p *Position) ToDisplayText() string {
	var sb strings.Builder
	for y := 0; y < p.size; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < p.size; x++ {
			sb.WriteString(p.At(x, y).String())
		}
	}
	return sb.String()
}

func (p *Position) String() string {
	return p.ToDisplayText()
}

// Display writes the board with coordinates. Marks are coloured when color
// is set and the terminal supports it; the last move is highlighted.
func (p *Position) Display(w io.Writer, color bool) error {
	profile := termenv.Ascii
	if color && ColorSupport {
		profile = termenv.EnvColorProfile()
	}
	last := p.LastMove()

	var sb strings.Builder
	sb.WriteString("   ")
	for x := 0; x < p.size; x++ {
		fmt.Fprintf(&sb, "%3d", x)
	}
	sb.WriteByte('\n')
	for y := 0; y < p.size; y++ {
		fmt.Fprintf(&sb, "%3d", y)
		for x := 0; x < p.size; x++ {
			s := p.At(x, y)
			out := profile.String(s.String())
			switch s {
			case SideA:
				out = out.Foreground(profile.Color("1"))
			case SideB:
				out = out.Foreground(profile.Color("4"))
			}
			if last.X == x && last.Y == y {
				out = out.Bold().Underline()
			}
			sb.WriteString("  ")
			sb.WriteString(out.String())
		}
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
