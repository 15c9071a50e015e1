package pkg

import (
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/MingLLuo/LWE-PKE/pkg/arithmetic"
	"github.com/MingLLuo/LWE-PKE/pkg/noise"
)

// Common errors that may be returned
var (
	ErrInvalidPublicKey    = errors.New("lwepke: invalid public key")
	ErrInvalidSecretKey    = errors.New("lwepke: invalid secret key")
	ErrInvalidCiphertext   = errors.New("lwepke: invalid ciphertext")
	ErrInvalidMessage      = errors.New("lwepke: message must be 0 or 1")
	ErrParameterValidation = errors.New("lwepke: parameter validation failed")
	ErrInvalidRandomSource = errors.New("lwepke: invalid random source")
)

// Scheme implements single-bit LWE public-key encryption for one parameter set.
// It holds no mutable state, so a Scheme may be shared between goroutines.
type Scheme struct {
	Params  Parameters
	field   *arithmetic.Field
	sampler *noise.Sampler
}

// SecretKey is the secret vector s in Z_q^n
type SecretKey struct {
	Params Parameters
	s      *arithmetic.Vector
}

// PublicKey is the pair (A, b = A*s + e), with A in Z_q^{m x n}
type PublicKey struct {
	Params Parameters
	a      arithmetic.Matrix
	b      *arithmetic.Vector
	// augT is [b | A]^T, kept so that encryption is a single matrix-vector product
	augT arithmetic.Matrix
}

// Ciphertext is the vector (v, u) in Z_q^{n+1}
type Ciphertext struct {
	Params Parameters
	c      *arithmetic.Vector
}

// NewScheme validates params and prepares the ring and the sampler
func NewScheme(params Parameters) (*Scheme, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	f, err := params.Field()
	if err != nil {
		return nil, errors.Join(ErrParameterValidation, err)
	}

	sampler, err := noise.NewSampler(f, params.Distribution())
	if err != nil {
		return nil, errors.Join(ErrParameterValidation, err)
	}

	return &Scheme{
		Params:  params,
		field:   f,
		sampler: sampler,
	}, nil
}

// Field returns the ring Z_q of the scheme
func (sc *Scheme) Field() *arithmetic.Field {
	return sc.field
}

// KeyGen samples a secret key s uniformly from Z_q^n.
// A nil randSource is rejected with ErrInvalidRandomSource; an interface holding a
// nil pointer (such as a nil *sampling.KeyedPRNG) is not detected and fails when read.
func (sc *Scheme) KeyGen(randSource io.Reader) (*SecretKey, error) {
	if randSource == nil {
		return nil, ErrInvalidRandomSource
	}

	s, err := sc.sampler.UniformVector(randSource, sc.Params.LatticeParams.N)
	if err != nil {
		return nil, fmt.Errorf("failed to sample secret vector: %w", err)
	}

	return &SecretKey{Params: sc.Params, s: s}, nil
}

// PublicKeyGen derives a fresh public key from sk: it samples A uniformly from Z_q^{m x n},
// e from the error distribution, and sets b = A*s + e.
// Every call draws new A and e, so two public keys of the same secret differ.
func (sc *Scheme) PublicKeyGen(sk *SecretKey, randSource io.Reader) (*PublicKey, error) {
	if randSource == nil {
		return nil, ErrInvalidRandomSource
	}
	if err := sc.checkSecretKey(sk); err != nil {
		return nil, err
	}

	n := sc.Params.LatticeParams.N
	m := sc.Params.LatticeParams.M

	a, err := sc.sampler.UniformMatrix(randSource, m, n)
	if err != nil {
		return nil, fmt.Errorf("failed to sample matrix A: %w", err)
	}

	e, err := sc.sampler.ErrorVector(randSource, m)
	if err != nil {
		return nil, fmt.Errorf("failed to sample error vector: %w", err)
	}

	// b = A*s + e
	as, err := a.MultiplyVector(sk.s)
	if err != nil {
		return nil, fmt.Errorf("failed to compute A*s: %w", err)
	}

	b, err := as.Add(e)
	if err != nil {
		return nil, fmt.Errorf("failed to compute b = A*s + e: %w", err)
	}

	return newPublicKey(sc.Params, a, b)
}

// GenerateKeyPair runs KeyGen followed by PublicKeyGen on the same source
func (sc *Scheme) GenerateKeyPair(randSource io.Reader) (*PublicKey, *SecretKey, error) {
	sk, err := sc.KeyGen(randSource)
	if err != nil {
		return nil, nil, err
	}

	pk, err := sc.PublicKeyGen(sk, randSource)
	if err != nil {
		return nil, nil, err
	}

	return pk, sk, nil
}

// Encrypt encrypts a single bit. It samples r uniformly from {0,1}^m and returns
//
//	v = <b, r> + ⌊q/2⌋*bit
//	u = A^T * r
//
// as the ciphertext (v, u). Encrypting the same bit twice gives different ciphertexts.
func (sc *Scheme) Encrypt(bit byte, pk *PublicKey, randSource io.Reader) (*Ciphertext, error) {
	if bit > 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMessage, bit)
	}
	if randSource == nil {
		return nil, ErrInvalidRandomSource
	}
	if err := sc.checkPublicKey(pk); err != nil {
		return nil, err
	}

	r, err := sc.sampler.BinaryVector(randSource, sc.Params.LatticeParams.M)
	if err != nil {
		return nil, fmt.Errorf("failed to sample encryption randomness: %w", err)
	}

	// [b | A]^T * r = (<b, r>, A^T * r)
	c, err := pk.augT.MultiplyVector(r)
	if err != nil {
		return nil, fmt.Errorf("failed to compute [b | A]^T*r: %w", err)
	}

	// add ⌊q/2⌋*bit to the first coordinate
	msg := arithmetic.NewVector(c.Length(), sc.field)
	msg.Values[0].SetUint64(uint64(bit))
	c, err = c.Add(msg.ScaleHalf())
	if err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}

	return &Ciphertext{Params: sc.Params, c: c}, nil
}

// Phase returns v' = v - <s, u>, which equals ⌊q/2⌋*bit + <e, r> for an honest ciphertext
func (sc *Scheme) Phase(ct *Ciphertext, sk *SecretKey) (*big.Int, error) {
	if err := sc.checkSecretKey(sk); err != nil {
		return nil, err
	}
	if err := sc.checkCiphertext(ct); err != nil {
		return nil, err
	}

	// <(1, -s), (v, u)> = v - <s, u>
	phase, err := sk.Extended().DotProduct(ct.c)
	if err != nil {
		return nil, fmt.Errorf("failed to compute phase: %w", err)
	}

	return phase, nil
}

// Decrypt recovers the bit by rounding the signed phase v' to 0 or q/2: it returns 1 when 4*|v'| > q.
// This succeeds as long as the accumulated noise |<e, r>| stays below q/4; beyond that the
// returned bit may be wrong, which is not reported as an error.
func (sc *Scheme) Decrypt(ct *Ciphertext, sk *SecretKey) (byte, error) {
	phase, err := sc.Phase(ct, sk)
	if err != nil {
		return 0, err
	}

	return sc.roundBit(phase), nil
}

// DecryptionNoise returns the signed distance between the phase of ct and the encoding of bit.
// For an honest encryption of bit this is exactly <e, r>.
func (sc *Scheme) DecryptionNoise(ct *Ciphertext, sk *SecretKey, bit byte) (*big.Int, error) {
	if bit > 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMessage, bit)
	}

	phase, err := sc.Phase(ct, sk)
	if err != nil {
		return nil, err
	}

	encoded := sc.field.Mul(big.NewInt(int64(bit)), sc.field.Half())
	return sc.field.Center(sc.field.Sub(phase, encoded)), nil
}

// roundBit returns 1 when x is closer to q/2 than to 0, that is when 4*|x| > q.
// The signed representative is used so that x and -x always round alike.
func (sc *Scheme) roundBit(x *big.Int) byte {
	scaled := new(big.Int).Lsh(sc.field.Abs(x), 2)
	if scaled.Cmp(sc.field.Modulus()) > 0 {
		return 1
	}
	return 0
}

func (sc *Scheme) checkSecretKey(sk *SecretKey) error {
	if sk == nil || sk.s == nil {
		return fmt.Errorf("%w: missing secret vector", ErrInvalidSecretKey)
	}
	if !sk.Params.Equal(sc.Params) {
		return fmt.Errorf("%w: generated for parameter set %q, scheme uses %q", ErrInvalidSecretKey, sk.Params.Name, sc.Params.Name)
	}
	return nil
}

func (sc *Scheme) checkPublicKey(pk *PublicKey) error {
	if pk == nil || pk.b == nil {
		return fmt.Errorf("%w: missing components", ErrInvalidPublicKey)
	}
	if !pk.Params.Equal(sc.Params) {
		return fmt.Errorf("%w: generated for parameter set %q, scheme uses %q", ErrInvalidPublicKey, pk.Params.Name, sc.Params.Name)
	}
	return nil
}

func (sc *Scheme) checkCiphertext(ct *Ciphertext) error {
	if ct == nil || ct.c == nil {
		return fmt.Errorf("%w: missing components", ErrInvalidCiphertext)
	}
	if !ct.Params.Equal(sc.Params) {
		return fmt.Errorf("%w: produced for parameter set %q, scheme uses %q", ErrInvalidCiphertext, ct.Params.Name, sc.Params.Name)
	}
	return nil
}

// NewSecretKey wraps an existing secret vector; it must have length n over Z_q.
// Entries are reduced into [0, q).
func NewSecretKey(params Parameters, s *arithmetic.Vector) (*SecretKey, error) {
	f, err := params.Field()
	if err != nil {
		return nil, errors.Join(ErrInvalidSecretKey, err)
	}
	if s == nil || !s.Field.Equal(f) {
		return nil, fmt.Errorf("%w: secret vector is not over Z_q", ErrInvalidSecretKey)
	}
	if s.Length() != params.LatticeParams.N {
		return nil, fmt.Errorf("%w: %w: secret has length %d, want %d", ErrInvalidSecretKey, arithmetic.ErrDimensionMismatch, s.Length(), params.LatticeParams.N)
	}
	return &SecretKey{Params: params, s: reduced(f, s)}, nil
}

// NewPublicKey wraps an existing pair (A, b); A must be m x n and b of length m over Z_q.
// Entries are reduced into [0, q).
func NewPublicKey(params Parameters, a arithmetic.Matrix, b *arithmetic.Vector) (*PublicKey, error) {
	f, err := params.Field()
	if err != nil {
		return nil, errors.Join(ErrInvalidPublicKey, err)
	}
	if b == nil || !b.Field.Equal(f) || !a.Field.Equal(f) {
		return nil, fmt.Errorf("%w: components are not over Z_q", ErrInvalidPublicKey)
	}
	n := params.LatticeParams.N
	m := params.LatticeParams.M
	if a.Rows != m || a.Cols != n || b.Length() != m {
		return nil, fmt.Errorf("%w: %w: got A %dx%d and b of length %d, want %dx%d and %d",
			ErrInvalidPublicKey, arithmetic.ErrDimensionMismatch, a.Rows, a.Cols, b.Length(), m, n, m)
	}
	ra := arithmetic.NewMatrix(a.Rows, a.Cols, f)
	for i := 0; i < a.Rows; i++ {
		for j := 0; j < a.Cols; j++ {
			ra.Set(i, j, a.Values[i][j])
		}
	}
	return newPublicKey(params, ra, reduced(f, b))
}

func newPublicKey(params Parameters, a arithmetic.Matrix, b *arithmetic.Vector) (*PublicKey, error) {
	aug, err := b.AsColumn().HConcat(a)
	if err != nil {
		return nil, fmt.Errorf("failed to compute [b | A]: %w", err)
	}
	return &PublicKey{
		Params: params,
		a:      a,
		b:      b,
		augT:   aug.Transpose(),
	}, nil
}

// NewCiphertext wraps an existing vector (v, u); it must have length n+1 over Z_q.
// Entries are reduced into [0, q).
func NewCiphertext(params Parameters, c *arithmetic.Vector) (*Ciphertext, error) {
	f, err := params.Field()
	if err != nil {
		return nil, errors.Join(ErrInvalidCiphertext, err)
	}
	if c == nil || !c.Field.Equal(f) {
		return nil, fmt.Errorf("%w: vector is not over Z_q", ErrInvalidCiphertext)
	}
	if c.Length() != params.CiphertextLength() {
		return nil, fmt.Errorf("%w: %w: length %d, want %d", ErrInvalidCiphertext, arithmetic.ErrDimensionMismatch, c.Length(), params.CiphertextLength())
	}
	return &Ciphertext{Params: params, c: reduced(f, c)}, nil
}

// reduced copies v with every entry brought into [0, q)
func reduced(f *arithmetic.Field, v *arithmetic.Vector) *arithmetic.Vector {
	return arithmetic.NewVectorFromValues(f, v.Values...)
}

// Vector returns a copy of s
func (sk *SecretKey) Vector() *arithmetic.Vector {
	return sk.s.Clone()
}

// Extended returns (1, -s), so that <(1, -s), (v, u)> = v - <s, u>
func (sk *SecretKey) Extended() *arithmetic.Vector {
	one := arithmetic.NewVectorFromInt64(sk.s.Field, 1)
	ext, _ := one.Concat(sk.s.Negate())
	return ext
}

// Equal returns true if the secret keys are equal
func (sk *SecretKey) Equal(other *SecretKey) bool {
	if sk == nil || other == nil {
		return sk == other
	}
	return sk.Params.Equal(other.Params) && sk.s.Equal(other.s)
}

// A returns a copy of the public matrix
func (pk *PublicKey) A() arithmetic.Matrix {
	return pk.a.Clone()
}

// B returns a copy of the vector b
func (pk *PublicKey) B() *arithmetic.Vector {
	return pk.b.Clone()
}

// Augmented returns the m x (n+1) matrix [b | A]
func (pk *PublicKey) Augmented() arithmetic.Matrix {
	return pk.augT.Transpose()
}

// Noise returns b - A*s, the error vector hidden in the public key
func (pk *PublicKey) Noise(sk *SecretKey) (*arithmetic.Vector, error) {
	if sk == nil || sk.s == nil {
		return nil, ErrInvalidSecretKey
	}
	as, err := pk.a.MultiplyVector(sk.s)
	if err != nil {
		return nil, fmt.Errorf("failed to compute A*s: %w", err)
	}
	return pk.b.Subtract(as)
}

// Parameters return the parameters used by this public key
func (pk *PublicKey) Parameters() Parameters {
	return pk.Params
}

// Equal returns true if the public keys are equal
func (pk *PublicKey) Equal(other *PublicKey) bool {
	if pk == nil || other == nil {
		return pk == other
	}
	return pk.Params.Equal(other.Params) && pk.a.Equal(other.a) && pk.b.Equal(other.b)
}

// V returns a copy of the first coordinate v
func (ct *Ciphertext) V() *big.Int {
	return ct.c.Get(0)
}

// U returns a copy of the last n coordinates u
func (ct *Ciphertext) U() *arithmetic.Vector {
	u, _ := ct.c.Slice(1, ct.c.Length())
	return u
}

// Vector returns a copy of the whole ciphertext (v, u)
func (ct *Ciphertext) Vector() *arithmetic.Vector {
	return ct.c.Clone()
}

// Length returns the number of ring elements, n+1
func (ct *Ciphertext) Length() int {
	return ct.c.Length()
}

// Equal returns true if the ciphertexts are equal
func (ct *Ciphertext) Equal(other *Ciphertext) bool {
	if ct == nil || other == nil {
		return ct == other
	}
	return ct.Params.Equal(other.Params) && ct.c.Equal(other.c)
}
