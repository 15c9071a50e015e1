package pkg

import (
	"encoding/binary"
	"fmt"

	"github.com/tuneinsight/lattigo/v6/utils/sampling"
	"golang.org/x/crypto/sha3"
)

// SeedSize is the size in bytes of the key handed to the keyed PRNG
const SeedSize = 32

// NewSeededSource returns a deterministic randomness source for the scheme.
// The PRNG key is SHAKE256(len(label) || label || seed), so the same seed under
// different labels gives unrelated streams. Use it for reproducible runs and tests;
// production callers pass crypto/rand.Reader instead.
func NewSeededSource(seed []byte, label string) (*sampling.KeyedPRNG, error) {
	key := DeriveSeed(seed, label)
	prng, err := sampling.NewKeyedPRNG(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create keyed PRNG: %w", err)
	}
	return prng, nil
}

// DeriveSeed expands (label, seed) into SeedSize bytes
func DeriveSeed(seed []byte, label string) []byte {
	h := sha3.NewShake256()
	// the length prefix keeps ("ab", "c") and ("a", "bc") apart
	h.Write(binary.BigEndian.AppendUint64(nil, uint64(len(label))))
	h.Write([]byte(label))
	h.Write(seed)
	out := make([]byte, SeedSize)
	h.Read(out)
	return out
}
