// Package board holds the canonical five-in-a-row grid: marks, move
// application and undo, local win detection and the exact position key.
package board

import (
	"errors"
	"fmt"
)

const (
	// WinLength is the number of contiguous marks needed to win.
	WinLength = 5
	// MinSize is the smallest board on which a five fits.
	MinSize = WinLength
	// MaxSize keeps the size prefix of a Key inside two bytes.
	MaxSize = 1 << 8
)

var (
	ErrInvalidMove   = errors.New("invalid move")
	ErrNothingToUndo = errors.New("no moves to undo")
	ErrBadGrid       = errors.New("grid must be square and hold only valid marks")
	ErrBadSize       = errors.New("unsupported board size")
)

// The four axes through a cell: horizontal, vertical and both diagonals.
var directions = [4][2]int{
	{1, 0},
	{0, 1},
	{1, 1},
	{1, -1},
}

// A Key is the canonical encoding of a Position: a two-byte size prefix
// followed by two bits per cell in row-major order. Two positions have
// the same key if and only if they have the same size and the same marks.
type Key string

type historyEntry struct {
	move       Move
	side       Side
	prevWinner Side
}

// A Position is an N×N grid of marks. It keeps the stack of applied moves
// so any of them can be undone, and maintains its packed key incrementally.
type Position struct {
	size    int
	cells   []Side
	packed  []byte
	history []historyEntry
	winner  Side
	stones  int
}

// NewPosition returns an empty n×n position.
func NewPosition(n int) (*Position, error) {
	if n < MinSize || n > MaxSize {
		return nil, fmt.Errorf("%w: %d", ErrBadSize, n)
	}
	p := &Position{
		size:    n,
		cells:   make([]Side, n*n),
		packed:  make([]byte, 2+(n*n+3)/4),
		history: make([]historyEntry, 0, n*n),
	}
	p.packed[0] = byte(n >> 8)
	p.packed[1] = byte(n)
	return p, nil
}

// Size is the board dimension N.
func (p *Position) Size() int {
	return p.size
}

// OnBoard is true if (x, y) is inside the grid.
func (p *Position) OnBoard(x, y int) bool {
	return x >= 0 && y >= 0 && x < p.size && y < p.size
}

func (p *Position) index(x, y int) int {
	return y*p.size + x
}

// At returns the mark at (x, y). It panics if the cell is off the board.
func (p *Position) At(x, y int) Side {
	return p.cells[p.index(x, y)]
}

// Cell returns the mark at row-major index idx, y*N+x.
func (p *Position) Cell(idx int) Side {
	return p.cells[idx]
}

// AtMove is At for a Move.
func (p *Position) AtMove(m Move) Side {
	return p.At(m.X, m.Y)
}

// IsEmpty is true for an on-board empty cell.
func (p *Position) IsEmpty(x, y int) bool {
	return p.OnBoard(x, y) && p.At(x, y) == Empty
}

// Center is the middle cell, rounded down.
func (p *Position) Center() Move {
	return Move{X: p.size / 2, Y: p.size / 2}
}

// NumStones is how many cells are occupied.
func (p *Position) NumStones() int {
	return p.stones
}

// Full is true when no empty cell is left.
func (p *Position) Full() bool {
	return p.stones == p.size*p.size
}

// Winner is the side that completed five, or Empty.
func (p *Position) Winner() Side {
	return p.winner
}

// NumMoves is the depth of the undo stack. Stones seeded from a grid do not
// count as moves.
func (p *Position) NumMoves() int {
	return len(p.history)
}

// LastMove is the most recently applied move, or PassMove.
func (p *Position) LastMove() Move {
	if len(p.history) == 0 {
		return PassMove
	}
	return p.history[len(p.history)-1].move
}

// LastSide is the side that made the last move, or Empty.
func (p *Position) LastSide() Side {
	if len(p.history) == 0 {
		return Empty
	}
	return p.history[len(p.history)-1].side
}

// SideToMove is whoever did not make the last move. For a position with no
// move history it is derived from the stone counts; SideA moves first.
func (p *Position) SideToMove() Side {
	if s := p.LastSide(); s != Empty {
		return s.Opponent()
	}
	var a, b int
	for _, c := range p.cells {
		switch c {
		case SideA:
			a++
		case SideB:
			b++
		}
	}
	if a > b {
		return SideB
	}
	return SideA
}

// Apply places side's mark at m. It fails with ErrInvalidMove if m is off
// the board or the cell is taken.
func (p *Position) Apply(m Move, side Side) error {
	if !side.Valid() {
		return fmt.Errorf("%w: %v has no mark", ErrInvalidMove, side)
	}
	if !p.OnBoard(m.X, m.Y) {
		return fmt.Errorf("%w: %v is off the board", ErrInvalidMove, m)
	}
	idx := p.index(m.X, m.Y)
	if p.cells[idx] != Empty {
		return fmt.Errorf("%w: %v is occupied", ErrInvalidMove, m)
	}
	p.history = append(p.history, historyEntry{move: m, side: side, prevWinner: p.winner})
	p.set(idx, side)
	if p.winner == Empty && p.CheckWin(m) {
		p.winner = side
	}
	return nil
}

// Undo takes back the last applied move.
func (p *Position) Undo() (Move, error) {
	if len(p.history) == 0 {
		return PassMove, ErrNothingToUndo
	}
	h := p.history[len(p.history)-1]
	p.history = p.history[:len(p.history)-1]
	p.set(p.index(h.move.X, h.move.Y), Empty)
	p.winner = h.prevWinner
	return h.move, nil
}

func (p *Position) set(idx int, side Side) {
	old := p.cells[idx]
	if old == Empty && side != Empty {
		p.stones++
	} else if old != Empty && side == Empty {
		p.stones--
	}
	p.cells[idx] = side
	byteIdx := 2 + idx/4
	shift := uint(idx%4) * 2
	p.packed[byteIdx] = p.packed[byteIdx]&^(3<<shift) | byte(side)<<shift
}

// CheckWin is true if the mark at m is part of WinLength or more identical
// contiguous marks along any axis. Only cells within WinLength-1 of m
// are looked at.
func (p *Position) CheckWin(m Move) bool {
	if !p.OnBoard(m.X, m.Y) {
		return false
	}
	mark := p.At(m.X, m.Y)
	if mark == Empty {
		return false
	}
	for _, d := range directions {
		count := 1
		for _, sense := range [2]int{1, -1} {
			dx, dy := d[0]*sense, d[1]*sense
			x, y := m.X+dx, m.Y+dy
			for steps := 1; steps < WinLength; steps++ {
				if !p.OnBoard(x, y) || p.At(x, y) != mark {
					break
				}
				count++
				x += dx
				y += dy
			}
		}
		if count >= WinLength {
			return true
		}
	}
	return false
}

// Key returns the canonical key of the position.
func (p *Position) Key() Key {
	return Key(p.packed)
}

// Clone returns a deep copy, including the undo stack.
func (p *Position) Clone() *Position {
	c := &Position{
		size:    p.size,
		cells:   make([]Side, len(p.cells)),
		packed:  make([]byte, len(p.packed)),
		history: make([]historyEntry, len(p.history), cap(p.history)),
		winner:  p.winner,
		stones:  p.stones,
	}
	copy(c.cells, p.cells)
	copy(c.packed, p.packed)
	copy(c.history, p.history)
	return c
}

// Grid returns a copy of the marks as rows, grid[y][x].
func (p *Position) Grid() [][]Side {
	grid := make([][]Side, p.size)
	for y := range grid {
		grid[y] = make([]Side, p.size)
		copy(grid[y], p.cells[y*p.size:(y+1)*p.size])
	}
	return grid
}

// Moves returns the applied moves in order.
func (p *Position) Moves() []Move {
	moves := make([]Move, len(p.history))
	for i, h := range p.history {
		moves[i] = h.move
	}
	return moves
}
