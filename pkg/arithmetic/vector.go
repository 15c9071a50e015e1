package arithmetic

import (
	"fmt"
	"math/big"
)

// Vector represents a vector of big.Int Values with operations in Z_q.
// Operations never modify their operands; they return fresh vectors.
type Vector struct {
	Values []*big.Int
	Field  *Field
}

// NewVector creates a zero vector with the specified length over f
func NewVector(length int, f *Field) *Vector {
	values := make([]*big.Int, length)
	for i := range values {
		values[i] = new(big.Int)
	}
	return &Vector{
		Values: values,
		Field:  f,
	}
}

// NewVectorFromValues creates a vector holding the reduction of each value
func NewVectorFromValues(f *Field, values ...*big.Int) *Vector {
	v := &Vector{
		Values: make([]*big.Int, len(values)),
		Field:  f,
	}
	for i, val := range values {
		v.Values[i] = f.Element(val)
	}
	return v
}

// NewVectorFromInt64 creates a vector from signed machine integers, reducing each one
func NewVectorFromInt64(f *Field, values ...int64) *Vector {
	v := &Vector{
		Values: make([]*big.Int, len(values)),
		Field:  f,
	}
	for i, val := range values {
		v.Values[i] = f.ElementFromInt64(val)
	}
	return v
}

// Length returns the length of the vector
func (v *Vector) Length() int {
	return len(v.Values)
}

// Get returns a copy of the value at the specified index
func (v *Vector) Get(index int) *big.Int {
	return new(big.Int).Set(v.Values[index])
}

// Set stores the reduction of value at the specified index
func (v *Vector) Set(index int, value *big.Int) {
	v.Values[index] = v.Field.Element(value)
}

// Clone returns a deep copy of v
func (v *Vector) Clone() *Vector {
	c := &Vector{
		Values: make([]*big.Int, len(v.Values)),
		Field:  v.Field,
	}
	for i, val := range v.Values {
		c.Values[i] = new(big.Int).Set(val)
	}
	return c
}

// Equal checks if two vectors are equal
func (v *Vector) Equal(other *Vector) bool {
	if v == nil || other == nil {
		return v == other
	}
	if v.Length() != other.Length() || !v.Field.Equal(other.Field) {
		return false
	}

	for i := range v.Values {
		if v.Values[i].Cmp(other.Values[i]) != 0 {
			return false
		}
	}

	return true
}

func (v *Vector) compatible(other *Vector) error {
	if !v.Field.Equal(other.Field) {
		return ErrModulusMismatch
	}
	if v.Length() != other.Length() {
		return fmt.Errorf("%w: length %d vs %d", ErrDimensionMismatch, v.Length(), other.Length())
	}
	return nil
}

// Add adds two vectors element-wise
func (v *Vector) Add(other *Vector) (*Vector, error) {
	if err := v.compatible(other); err != nil {
		return nil, err
	}

	result := NewVector(v.Length(), v.Field)
	for i := range v.Values {
		result.Values[i] = v.Field.Add(v.Values[i], other.Values[i])
	}

	return result, nil
}

// Subtract subtracts one vector from another element-wise
func (v *Vector) Subtract(other *Vector) (*Vector, error) {
	if err := v.compatible(other); err != nil {
		return nil, err
	}

	result := NewVector(v.Length(), v.Field)
	for i := range v.Values {
		result.Values[i] = v.Field.Sub(v.Values[i], other.Values[i])
	}

	return result, nil
}

// Negate returns -v
func (v *Vector) Negate() *Vector {
	result := NewVector(v.Length(), v.Field)
	for i := range v.Values {
		result.Values[i] = v.Field.Neg(v.Values[i])
	}
	return result
}

// ScalarMultiply multiplies a vector by a scalar
func (v *Vector) ScalarMultiply(scalar *big.Int) *Vector {
	result := NewVector(v.Length(), v.Field)
	for i := range v.Values {
		result.Values[i] = v.Field.Mul(v.Values[i], scalar)
	}
	return result
}

// ScaleHalf multiplies every entry by ⌊q/2⌋. Applied to a {0,1} vector it
// places each bit at 0 or at the midpoint of the ring.
func (v *Vector) ScaleHalf() *Vector {
	return v.ScalarMultiply(v.Field.half)
}

// DotProduct computes the inner product of two vectors
func (v *Vector) DotProduct(other *Vector) (*big.Int, error) {
	if err := v.compatible(other); err != nil {
		return nil, err
	}

	result := new(big.Int)
	product := new(big.Int)
	for i := range v.Values {
		if v.Values[i].Sign() == 0 || other.Values[i].Sign() == 0 {
			continue
		}
		result.Add(result, product.Mul(v.Values[i], other.Values[i]))
	}

	return result.Mod(result, v.Field.modulus), nil
}

// Sum returns the sum of all elements in the vector
func (v *Vector) Sum() *big.Int {
	sum := new(big.Int)
	for _, val := range v.Values {
		sum.Add(sum, val)
	}
	return sum.Mod(sum, v.Field.modulus)
}

// Concat returns the vector (v || other)
func (v *Vector) Concat(other *Vector) (*Vector, error) {
	if !v.Field.Equal(other.Field) {
		return nil, ErrModulusMismatch
	}
	result := &Vector{
		Values: make([]*big.Int, 0, v.Length()+other.Length()),
		Field:  v.Field,
	}
	for _, val := range v.Values {
		result.Values = append(result.Values, new(big.Int).Set(val))
	}
	for _, val := range other.Values {
		result.Values = append(result.Values, new(big.Int).Set(val))
	}
	return result, nil
}

// Slice returns a copy of the entries in [from, to)
func (v *Vector) Slice(from, to int) (*Vector, error) {
	if from < 0 || to > v.Length() || from > to {
		return nil, fmt.Errorf("%w: slice [%d:%d] of length %d", ErrDimensionMismatch, from, to, v.Length())
	}
	result := &Vector{
		Values: make([]*big.Int, to-from),
		Field:  v.Field,
	}
	for i := range result.Values {
		result.Values[i] = new(big.Int).Set(v.Values[from+i])
	}
	return result, nil
}

// Centered returns the signed representatives of the entries, each in (-q/2, q/2]
func (v *Vector) Centered() []*big.Int {
	out := make([]*big.Int, v.Length())
	for i, val := range v.Values {
		out[i] = v.Field.Center(val)
	}
	return out
}

// InfNorm returns max |Center(v[i])|
func (v *Vector) InfNorm() *big.Int {
	norm := new(big.Int)
	for _, val := range v.Values {
		if a := v.Field.Abs(val); a.Cmp(norm) > 0 {
			norm = a
		}
	}
	return norm
}

// AsColumn returns v as a Length() x 1 matrix
func (v *Vector) AsColumn() Matrix {
	result := NewMatrix(v.Length(), 1, v.Field)
	for i, val := range v.Values {
		result.Values[i][0] = new(big.Int).Set(val)
	}
	return result
}
