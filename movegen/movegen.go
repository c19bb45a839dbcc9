// Package movegen produces candidate moves for a position: every empty cell
// next to a stone, most recently touched neighbourhoods first.
package movegen

import (
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/gomoku/board"
)

// MoveGenerator is what a searcher needs from a generator. Play and Unplay
// must bracket every Apply/Undo on the position being searched.
type MoveGenerator interface {
	Candidates(pos *board.Position) []board.Move
	Play(pos *board.Position, m board.Move)
	Unplay()
}

// Generator keeps an ordered candidate queue per search level. Level 0 is
// the queue of the real game position; each Play derives the next level
// from the one below it, so Unplay is just a pop.
type Generator struct {
	size   int
	levels [][]board.Move
	depth  int

	// generation-stamped marks, for de-duplication without clearing.
	marks []uint32
	stamp uint32
}

// NewGenerator seeds the base queue from every empty cell adjacent to a
// stone, in row-major order.
func NewGenerator(pos *board.Position) *Generator {
	g := &Generator{}
	g.Reset(pos)
	return g
}

// Reset discards all levels and reseeds from pos.
func (g *Generator) Reset(pos *board.Position) {
	n := pos.Size()
	if g.size != n {
		g.size = n
		g.levels = nil
		g.marks = make([]uint32, n*n)
		g.stamp = 0
	}
	g.depth = 0
	g.levels = g.ensureLevel(g.levels, 0)

	base := g.levels[0][:0]
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if pos.At(x, y) == board.Empty && hasNeighbour(pos, x, y) {
				base = append(base, board.NewMove(x, y))
			}
		}
	}
	g.levels[0] = base
	log.Debug().Int("candidates", len(base)).Int("stones", pos.NumStones()).Msg("movegen-reset")
}

func (g *Generator) ensureLevel(levels [][]board.Move, d int) [][]board.Move {
	for len(levels) <= d {
		levels = append(levels, make([]board.Move, 0, g.size*g.size))
	}
	return levels
}

func hasNeighbour(pos *board.Position, x, y int) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if pos.OnBoard(nx, ny) && pos.At(nx, ny) != board.Empty {
				return true
			}
		}
	}
	return false
}

// Candidates returns the current ordered queue. On an empty board it is the
// single center cell. The returned slice belongs to the generator and is
// only valid until the next Play at this level.
func (g *Generator) Candidates(pos *board.Position) []board.Move {
	if pos.NumStones() == 0 {
		return []board.Move{pos.Center()}
	}
	return g.levels[g.depth]
}

// Play derives a new level for m, which must already be applied to pos.
// The empty neighbours of m come first, then the previous queue with m and
// those neighbours taken out.
func (g *Generator) Play(pos *board.Position, m board.Move) {
	g.levels = g.ensureLevel(g.levels, g.depth+1)
	src := g.levels[g.depth]
	dst := g.levels[g.depth+1][:0]

	g.stamp++
	if g.stamp == 0 {
		clear(g.marks)
		g.stamp = 1
	}
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			x, y := m.X+dx, m.Y+dy
			if !pos.IsEmpty(x, y) {
				continue
			}
			idx := y*g.size + x
			if g.marks[idx] == g.stamp {
				continue
			}
			g.marks[idx] = g.stamp
			dst = append(dst, board.NewMove(x, y))
		}
	}
	g.marks[m.Y*g.size+m.X] = g.stamp
	for _, c := range src {
		idx := c.Y*g.size + c.X
		if g.marks[idx] == g.stamp {
			continue
		}
		g.marks[idx] = g.stamp
		dst = append(dst, c)
	}
	g.levels[g.depth+1] = dst
	g.depth++
}

// Unplay drops the level made by the last Play.
func (g *Generator) Unplay() {
	if g.depth == 0 {
		panic("movegen: unplay below base level")
	}
	g.depth--
}

// Commit makes m, already applied to pos, part of the base queue. It may
// only be called between searches.
func (g *Generator) Commit(pos *board.Position, m board.Move) {
	if g.depth != 0 {
		panic("movegen: commit during search")
	}
	g.Play(pos, m)
	g.levels[0], g.levels[1] = g.levels[1], g.levels[0]
	g.depth = 0
}

// Depth is the number of uncommitted plays.
func (g *Generator) Depth() int {
	return g.depth
}

// MoveToFront returns moves with each hint, in order of priority, moved to
// the front. Hints that are not in moves are skipped. The result is
// written into buf.
func MoveToFront(buf, moves []board.Move, hints ...board.Move) []board.Move {
	buf = buf[:0]
	hints = lo.Filter(lo.Uniq(hints), func(h board.Move, _ int) bool {
		return !h.IsPass() && lo.Contains(moves, h)
	})
	buf = append(buf, hints...)
	for _, m := range moves {
		if !lo.Contains(hints, m) {
			buf = append(buf, m)
		}
	}
	return buf
}
