package heuristic

import (
	"sync"

	"github.com/domino14/gomoku/board"
)

type lineCache struct {
	sync.Mutex
	lines map[int][][]int
}

var cachedLines = &lineCache{lines: make(map[int][][]int)}

// Lines returns the cell indices (y*n+x) of every row, column and diagonal
// of an n×n board that is long enough to hold a five. The result is shared
// and must not be modified.
func Lines(n int) [][]int {
	cachedLines.Lock()
	defer cachedLines.Unlock()
	if lines, ok := cachedLines.lines[n]; ok {
		return lines
	}
	lines := buildLines(n)
	cachedLines.lines[n] = lines
	return lines
}

func buildLines(n int) [][]int {
	var lines [][]int
	for y := 0; y < n; y++ {
		lines = append(lines, walk(n, 0, y, 1, 0))
	}
	for x := 0; x < n; x++ {
		lines = append(lines, walk(n, x, 0, 0, 1))
	}
	// diagonals going down-right, starting on the top row then the left column.
	for x := 0; x < n; x++ {
		lines = appendLong(lines, walk(n, x, 0, 1, 1))
	}
	for y := 1; y < n; y++ {
		lines = appendLong(lines, walk(n, 0, y, 1, 1))
	}
	// diagonals going down-left, starting on the top row then the right column.
	for x := 0; x < n; x++ {
		lines = appendLong(lines, walk(n, x, 0, -1, 1))
	}
	for y := 1; y < n; y++ {
		lines = appendLong(lines, walk(n, n-1, y, -1, 1))
	}
	return lines
}

func appendLong(lines [][]int, line []int) [][]int {
	if len(line) < board.WinLength {
		return lines
	}
	return append(lines, line)
}

func walk(n, x, y, dx, dy int) []int {
	var line []int
	for x >= 0 && y >= 0 && x < n && y < n {
		line = append(line, y*n+x)
		x += dx
		y += dy
	}
	return line
}
