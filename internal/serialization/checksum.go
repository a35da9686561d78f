package serialization

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
	"sort"

	"github.com/born-ml/minnet/internal/tensor"
)

// ComputeChecksum computes the SHA-256 of a state dict.
//
// Keys are hashed in sorted order, each followed by its shape and the
// little-endian bits of every value, so the sum does not depend on map order.
func ComputeChecksum(state map[string]*tensor.Matrix) [32]byte {
	names := make([]string, 0, len(state))
	for name := range state {
		names = append(names, name)
	}
	sort.Strings(names)

	h := sha256.New()
	var buf [8]byte
	for _, name := range names {
		m := state[name]
		h.Write([]byte(name))
		h.Write([]byte{0})
		binary.LittleEndian.PutUint64(buf[:], uint64(m.Rows()))
		h.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[:], uint64(m.Cols()))
		h.Write(buf[:])
		for _, v := range m.Data() {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			h.Write(buf[:])
		}
	}

	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum
}

// ValidateChecksum compares computed checksum against stored checksum.
// Returns ErrChecksumMismatch if they don't match.
func ValidateChecksum(computed, stored [32]byte) error {
	if computed != stored {
		return ErrChecksumMismatch
	}
	return nil
}
