package search

import (
	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/domino14/gomoku/board"
)

// Flag says how an entry's score relates to the true minimax value.
type Flag uint8

const (
	FlagExact Flag = iota + 1
	// FlagLower entries failed high: the true value is at least Score.
	FlagLower
	// FlagUpper entries failed low: the true value is at most Score.
	FlagUpper
)

func (f Flag) String() string {
	switch f {
	case FlagExact:
		return "exact"
	case FlagLower:
		return "lower"
	case FlagUpper:
		return "upper"
	}
	return "none"
}

// An Entry is the result of searching one position.
type Entry struct {
	Score int
	Flag  Flag
	Depth int
	Move  board.Move
}

// approximate bytes per entry for a 15×15 key plus map overhead.
const entryOverhead = 160

// MaxEntriesForMemory sizes a cache to a fraction of total system memory.
func MaxEntriesForMemory(fractionOfMemory float64, boardSize int) int {
	keyBytes := 2 + (boardSize*boardSize+3)/4
	perEntry := entryOverhead + keyBytes
	total := memory.TotalMemory()
	n := int(fractionOfMemory * float64(total) / float64(perEntry))
	log.Debug().Uint64("total-system-memory-bytes", total).
		Float64("fraction", fractionOfMemory).
		Int("max-entries", n).
		Msg("transposition-cache-size")
	return n
}

// Cache maps exact position keys to search results. One Cache holds the
// results of a single decision; it is not safe for concurrent use.
type Cache struct {
	entries    map[board.Key]Entry
	maxEntries int

	lookups uint64
	hits    uint64
	dropped uint64
}

// NewCache makes a cache that holds at most maxEntries positions. Zero or a
// negative value means no limit.
func NewCache(maxEntries int) *Cache {
	return &Cache{
		entries:    make(map[board.Key]Entry),
		maxEntries: maxEntries,
	}
}

func (c *Cache) Lookup(k board.Key) (Entry, bool) {
	c.lookups++
	e, ok := c.entries[k]
	if ok {
		c.hits++
	}
	return e, ok
}

// Store records e under k. Once the cache is full new keys are dropped;
// keys already present are still overwritten.
func (c *Cache) Store(k board.Key, e Entry) {
	if _, ok := c.entries[k]; !ok && c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		c.dropped++
		return
	}
	c.entries[k] = e
}

func (c *Cache) Len() int {
	return len(c.entries)
}

// Reset empties the cache and its counters, keeping its capacity.
func (c *Cache) Reset() {
	clear(c.entries)
	c.lookups = 0
	c.hits = 0
	c.dropped = 0
}

// Stats returns lookups, hits and dropped stores since the last Reset.
func (c *Cache) Stats() (lookups, hits, dropped uint64) {
	return c.lookups, c.hits, c.dropped
}
