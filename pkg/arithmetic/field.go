// Package arithmetic provides ring, vector and matrix operations over Z_q for the LWE scheme
package arithmetic

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	// ErrInvalidModulus indicates a modulus too small to support the ring abstraction (q <= 2)
	ErrInvalidModulus = errors.New("invalid modulus")

	// ErrDimensionMismatch indicates that matrix/vector dimensions are incompatible
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrModulusMismatch indicates that two operands live in different rings
	ErrModulusMismatch = errors.New("modulus mismatch")
)

var two = big.NewInt(2)

// Field is the ring Z_q. Every value it returns lies in [0, q).
// A Field is immutable and safe for concurrent use.
type Field struct {
	modulus *big.Int
	half    *big.Int
}

// NewField creates the ring Z_q for the given modulus
func NewField(q *big.Int) (*Field, error) {
	if q == nil || q.Cmp(two) <= 0 {
		return nil, fmt.Errorf("%w: q must be greater than 2, got %v", ErrInvalidModulus, q)
	}
	return &Field{
		modulus: new(big.Int).Set(q),
		half:    new(big.Int).Rsh(q, 1),
	}, nil
}

// NewFieldFromUint64 is a convenience wrapper around NewField
func NewFieldFromUint64(q uint64) (*Field, error) {
	return NewField(new(big.Int).SetUint64(q))
}

// Modulus returns a copy of q
func (f *Field) Modulus() *big.Int {
	return new(big.Int).Set(f.modulus)
}

// Half returns ⌊q/2⌋
func (f *Field) Half() *big.Int {
	return new(big.Int).Set(f.half)
}

// ByteLen returns the number of bytes needed to hold an element
func (f *Field) ByteLen() int {
	return (f.modulus.BitLen() + 7) / 8
}

// Equal reports whether both fields share the same modulus
func (f *Field) Equal(other *Field) bool {
	if f == other {
		return true
	}
	if f == nil || other == nil {
		return false
	}
	return f.modulus.Cmp(other.modulus) == 0
}

// Element reduces an arbitrary integer into [0, q)
func (f *Field) Element(x *big.Int) *big.Int {
	return new(big.Int).Mod(x, f.modulus)
}

// ElementFromInt64 reduces a signed machine integer into [0, q)
func (f *Field) ElementFromInt64(x int64) *big.Int {
	return f.Element(big.NewInt(x))
}

// ElementFromBytes interprets b as a big-endian unsigned integer and reduces it into [0, q)
func (f *Field) ElementFromBytes(b []byte) *big.Int {
	return f.Element(new(big.Int).SetBytes(b))
}

// Zero returns the additive identity
func (f *Field) Zero() *big.Int {
	return new(big.Int)
}

// One returns the multiplicative identity
func (f *Field) One() *big.Int {
	return big.NewInt(1)
}

// Add returns x + y mod q
func (f *Field) Add(x, y *big.Int) *big.Int {
	sum := new(big.Int).Add(x, y)
	return sum.Mod(sum, f.modulus)
}

// Sub returns x - y mod q
func (f *Field) Sub(x, y *big.Int) *big.Int {
	diff := new(big.Int).Sub(x, y)
	return diff.Mod(diff, f.modulus)
}

// Neg returns -x mod q
func (f *Field) Neg(x *big.Int) *big.Int {
	neg := new(big.Int).Neg(x)
	return neg.Mod(neg, f.modulus)
}

// Mul returns x * y mod q
func (f *Field) Mul(x, y *big.Int) *big.Int {
	product := new(big.Int).Mul(x, y)
	return product.Mod(product, f.modulus)
}

// Eq reports whether x and y are the same ring element
func (f *Field) Eq(x, y *big.Int) bool {
	return f.Element(x).Cmp(f.Element(y)) == 0
}

// Contains reports whether x is already a reduced representative
func (f *Field) Contains(x *big.Int) bool {
	return x != nil && x.Sign() >= 0 && x.Cmp(f.modulus) < 0
}

// Center maps x to its signed representative in (-q/2, q/2]
func (f *Field) Center(x *big.Int) *big.Int {
	c := f.Element(x)
	if c.Cmp(f.half) > 0 {
		c.Sub(c, f.modulus)
	}
	return c
}

// Abs returns |Center(x)|, the distance of x from zero in the ring
func (f *Field) Abs(x *big.Int) *big.Int {
	return new(big.Int).Abs(f.Center(x))
}
