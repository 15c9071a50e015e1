// Package noise samples the random material of the LWE scheme: uniform ring
// elements, uniform bits and small error terms.
//
// Every sampling call takes its randomness source explicitly. A Sampler holds
// no mutable state, so one Sampler may serve concurrent callers as long as each
// caller brings its own source (or a source that is safe for concurrent use).
package noise

import (
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/MingLLuo/LWE-PKE/pkg/arithmetic"
	"github.com/tuneinsight/lattigo/v6/ring"
	"github.com/tuneinsight/lattigo/v6/utils/sampling"
)

var (
	// ErrSamplerExhausted indicates that the randomness source could not supply enough bytes
	ErrSamplerExhausted = errors.New("noise: randomness source exhausted")

	// ErrInvalidDistribution indicates an unusable error distribution
	ErrInvalidDistribution = errors.New("noise: invalid error distribution")
)

// GaussianRingDegree is the degree of the lattigo ring used to draw Gaussian
// errors. Gaussian sampling therefore needs a prime q with q = 1 mod 2*GaussianRingDegree.
const GaussianRingDegree = 16

// Kind selects the shape of the error distribution
type Kind int

const (
	// BoundedUniform draws errors uniformly from [-Bound, Bound]
	BoundedUniform Kind = iota
	// DiscreteGaussian draws errors from a discrete Gaussian of width Sigma, clipped at Bound
	DiscreteGaussian
)

func (k Kind) String() string {
	switch k {
	case BoundedUniform:
		return "bounded-uniform"
	case DiscreteGaussian:
		return "discrete-gaussian"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Distribution describes the error distribution
type Distribution struct {
	Kind Kind
	// Sigma is the standard deviation, only used by DiscreteGaussian
	Sigma float64
	// Bound is the maximum magnitude of a signed error
	Bound uint64
}

// Sampler draws vectors over a fixed ring
type Sampler struct {
	field *arithmetic.Field
	dist  Distribution
	// gaussRing is only set for DiscreteGaussian
	gaussRing *ring.Ring
}

// NewSampler creates a sampler over f with the given error distribution
func NewSampler(f *arithmetic.Field, dist Distribution) (*Sampler, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: nil field", ErrInvalidDistribution)
	}
	q := f.Modulus()
	if dist.Bound == 0 {
		return nil, fmt.Errorf("%w: bound must be positive", ErrInvalidDistribution)
	}
	if new(big.Int).SetUint64(dist.Bound).Cmp(f.Half()) >= 0 {
		return nil, fmt.Errorf("%w: bound %d must be below q/2", ErrInvalidDistribution, dist.Bound)
	}

	s := &Sampler{field: f, dist: dist}

	switch dist.Kind {
	case BoundedUniform:
	case DiscreteGaussian:
		if dist.Sigma <= 0 {
			return nil, fmt.Errorf("%w: sigma must be positive", ErrInvalidDistribution)
		}
		if !q.IsUint64() {
			return nil, fmt.Errorf("%w: Gaussian sampling needs a word-sized modulus", ErrInvalidDistribution)
		}
		r, err := ring.NewRing(GaussianRingDegree, []uint64{q.Uint64()})
		if err != nil {
			return nil, fmt.Errorf("%w: cannot build sampling ring over q=%v: %w", ErrInvalidDistribution, q, err)
		}
		s.gaussRing = r
	default:
		return nil, fmt.Errorf("%w: unknown kind %v", ErrInvalidDistribution, dist.Kind)
	}

	return s, nil
}

// Field returns the ring the sampler draws from
func (s *Sampler) Field() *arithmetic.Field {
	return s.field
}

// Distribution returns the error distribution
func (s *Sampler) Distribution() Distribution {
	return s.dist
}

// UniformVector draws count elements uniformly from Z_q
func (s *Sampler) UniformVector(src sampling.PRNG, count int) (*arithmetic.Vector, error) {
	result := arithmetic.NewVector(count, s.field)
	q := s.field.Modulus()

	for i := 0; i < count; i++ {
		val, err := randBelow(src, q)
		if err != nil {
			return nil, err
		}
		result.Values[i] = val
	}

	return result, nil
}

// UniformMatrix draws a rows x cols matrix with entries uniform in Z_q, row by row
func (s *Sampler) UniformMatrix(src sampling.PRNG, rows, cols int) (arithmetic.Matrix, error) {
	result := arithmetic.NewMatrix(rows, cols, s.field)
	q := s.field.Modulus()

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			val, err := randBelow(src, q)
			if err != nil {
				return arithmetic.Matrix{}, err
			}
			result.Values[i][j] = val
		}
	}

	return result, nil
}

// BinaryVector draws count independent uniform bits, as ring elements 0 or 1
func (s *Sampler) BinaryVector(src sampling.PRNG, count int) (*arithmetic.Vector, error) {
	data := make([]byte, (count+7)/8)
	if err := readFull(src, data); err != nil {
		return nil, err
	}

	result := arithmetic.NewVector(count, s.field)
	for i := 0; i < count; i++ {
		if (data[i/8]>>(i%8))&1 == 1 {
			result.Values[i].SetInt64(1)
		}
	}

	return result, nil
}

// ErrorVector draws count error terms whose signed representatives are at most Bound in magnitude
func (s *Sampler) ErrorVector(src sampling.PRNG, count int) (*arithmetic.Vector, error) {
	if s.dist.Kind == DiscreteGaussian {
		return s.gaussianVector(src, count)
	}
	return s.boundedVector(src, count)
}

func (s *Sampler) boundedVector(src sampling.PRNG, count int) (*arithmetic.Vector, error) {
	bound := new(big.Int).SetUint64(s.dist.Bound)
	width := new(big.Int).Lsh(bound, 1)
	width.Add(width, big.NewInt(1))

	result := arithmetic.NewVector(count, s.field)
	for i := 0; i < count; i++ {
		val, err := randBelow(src, width)
		if err != nil {
			return nil, err
		}
		result.Values[i] = s.field.Element(val.Sub(val, bound))
	}

	return result, nil
}

// gaussianVector fills the result with coefficients of lattigo Gaussian polynomials.
// lattigo panics when its source fails; the panic is turned back into ErrSamplerExhausted.
func (s *Sampler) gaussianVector(src sampling.PRNG, count int) (v *arithmetic.Vector, err error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil source", ErrSamplerExhausted)
	}
	tracked := &trackingReader{src: src}

	defer func() {
		if r := recover(); r != nil {
			v = nil
			if tracked.err != nil {
				err = fmt.Errorf("%w: %w", ErrSamplerExhausted, tracked.err)
			} else {
				err = fmt.Errorf("%w: %v", ErrSamplerExhausted, r)
			}
		}
	}()

	gs, err := ring.NewSampler(tracked, s.gaussRing, ring.DiscreteGaussian{Sigma: s.dist.Sigma, Bound: float64(s.dist.Bound)}, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDistribution, err)
	}

	result := arithmetic.NewVector(count, s.field)
	for filled := 0; filled < count; {
		pol := gs.ReadNew()
		if tracked.err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSamplerExhausted, tracked.err)
		}
		for _, c := range pol.Coeffs[0] {
			if filled == count {
				break
			}
			result.Values[filled] = s.field.Element(new(big.Int).SetUint64(c))
			filled++
		}
	}

	return result, nil
}

// randBelow draws a value uniformly from [0, bound) by rejection sampling
func randBelow(src sampling.PRNG, bound *big.Int) (*big.Int, error) {
	bitLen := bound.BitLen()
	buf := make([]byte, (bitLen+7)/8)
	// clear the excess high bits so that at least half of the draws are accepted
	topMask := byte(0xFF >> (uint(len(buf)*8-bitLen) % 8))

	for {
		if err := readFull(src, buf); err != nil {
			return nil, err
		}
		buf[0] &= topMask

		val := new(big.Int).SetBytes(buf)
		if val.Cmp(bound) < 0 {
			return val, nil
		}
	}
}

func readFull(src sampling.PRNG, buf []byte) error {
	if src == nil {
		return fmt.Errorf("%w: nil source", ErrSamplerExhausted)
	}
	if _, err := io.ReadFull(src, buf); err != nil {
		return fmt.Errorf("%w: %w", ErrSamplerExhausted, err)
	}
	return nil
}

// trackingReader remembers the first error of the wrapped source
type trackingReader struct {
	src sampling.PRNG
	err error
}

func (r *trackingReader) Read(p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	n, err := io.ReadFull(r.src, p)
	if err != nil {
		r.err = err
	}
	return n, err
}
