package columnar

import (
	"encoding/binary"

	"github.com/twmb/murmur3"
)

// BuildMask deterministically derives a pseudo-random row-selection mask
// of length maskLen over source indices [0, numRows), seeded by seed.
// It exists for building large, repeatable masks in property tests
// without pulling in math/rand and its global-state footguns: the same
// hash-an-integer-to-fan-out shape used to route keys across shards,
// here selecting a source row per output position instead of a shard.
func BuildMask(seed uint64, numRows, maskLen int) []int {
	if numRows <= 0 || maskLen <= 0 {
		return nil
	}
	mask := make([]int, maskLen)
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:8], seed)
	for i := range mask {
		binary.LittleEndian.PutUint64(buf[8:16], uint64(i))
		h := murmur3.Sum64(buf[:])
		mask[i] = int(h % uint64(numRows))
	}
	return mask
}
