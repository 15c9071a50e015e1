// Package randtest provides randomness sources for tests: a deterministic
// stream and a stream that runs dry.
package randtest

import (
	"io"
	"math/rand"
)

// SeededReader implements the io.Reader interface and generates deterministic random data
// based on a fixed seed. It is not cryptographically secure.
type SeededReader struct {
	rand *rand.Rand
}

// NewSeededReader creates a new SeededReader with a fixed seed.
func NewSeededReader(seed int64) *SeededReader {
	return &SeededReader{
		rand: rand.New(rand.NewSource(seed)),
	}
}

// Read fills p with bytes of the seeded stream and never fails.
func (sr *SeededReader) Read(p []byte) (int, error) {
	return sr.rand.Read(p)
}

// ExhaustingReader serves at most Budget bytes from Src, then returns io.EOF.
type ExhaustingReader struct {
	Src    io.Reader
	Budget int
}

// NewExhaustingReader wraps src so that it runs dry after budget bytes.
func NewExhaustingReader(src io.Reader, budget int) *ExhaustingReader {
	return &ExhaustingReader{Src: src, Budget: budget}
}

// Read implements io.Reader.
func (er *ExhaustingReader) Read(p []byte) (int, error) {
	if er.Budget <= 0 {
		return 0, io.EOF
	}
	if len(p) > er.Budget {
		p = p[:er.Budget]
	}
	n, err := er.Src.Read(p)
	er.Budget -= n
	return n, err
}
