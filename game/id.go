package game

import (
	"encoding/binary"
	"encoding/hex"
	"sync/atomic"
	"time"

	"lukechampine.com/frand"
)

// per-process random prefix, so ids from parallel runners don't collide.
var (
	processTag = frand.Bytes(3)
	idCounter  uint32
)

// newGameID is 4 bytes of unix time, 3 random bytes fixed per process and
// a 3 byte counter, hex encoded. Ids sort by creation time.
func newGameID() string {
	b := make([]byte, 10)
	binary.BigEndian.PutUint32(b, uint32(time.Now().Unix()))
	copy(b[4:7], processTag)
	i := atomic.AddUint32(&idCounter, 1)
	b[7] = byte(i >> 16)
	b[8] = byte(i >> 8)
	b[9] = byte(i)
	return hex.EncodeToString(b)
}
