package parbench

import (
	"encoding/binary"

	"github.com/spaolacci/murmur3"
)

// Fingerprint folds per-element murmur3 hashes with addition, so two
// slices fingerprint equal when they hold the same multiset of values
// regardless of order. The driver uses it to check that a merged result
// is a permutation of its input without sorting the input again.
func Fingerprint(data []int64) uint64 {
	var buf [8]byte
	var sum uint64
	for _, v := range data {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		sum += murmur3.Sum64(buf[:])
	}

	return sum
}
