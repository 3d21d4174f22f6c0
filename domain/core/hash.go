package core

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// Short returns the first 12 hex characters, enough to tell states apart in logs.
func (h Hash) Short() string {
	if len(h) <= 12 {
		return string(h)
	}
	return string(h[:12])
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// StateHash fingerprints a generator state.
type StateHash Hash

func (h StateHash) String() string { return Hash(h).String() }
func (h StateHash) Short() string  { return Hash(h).Short() }

// ComputeStateHash hashes the raw components of an MT19937 state in a fixed
// little-endian layout so equal states always yield equal fingerprints.
func ComputeStateHash(key []uint32, pos int, hasGauss bool, gauss float64) StateHash {
	buf := make([]byte, 0, len(key)*4+8+1+8)
	for _, w := range key {
		buf = binary.LittleEndian.AppendUint32(buf, w)
	}
	buf = binary.LittleEndian.AppendUint64(buf, uint64(pos))
	if hasGauss {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(gauss))
	return StateHash(NewHash(buf))
}
