package arithmetic

import (
	"fmt"
	"math/big"
)

// Matrix represents a rectangular matrix of big.Int Values with operations in Z_q.
// Dimensions are fixed at construction.
type Matrix struct {
	Rows, Cols int
	Values     [][]*big.Int
	Field      *Field
}

// NewMatrix creates a zero matrix with the specified dimensions over f
func NewMatrix(rows, cols int, f *Field) Matrix {
	values := make([][]*big.Int, rows)
	for i := range values {
		values[i] = make([]*big.Int, cols)
		for j := range values[i] {
			values[i][j] = new(big.Int)
		}
	}
	return Matrix{
		Rows:   rows,
		Cols:   cols,
		Values: values,
		Field:  f,
	}
}

// NewMatrixFromRows builds a matrix whose i-th row is rows[i]
func NewMatrixFromRows(f *Field, rows ...*Vector) (Matrix, error) {
	if len(rows) == 0 {
		return NewMatrix(0, 0, f), nil
	}
	cols := rows[0].Length()
	result := NewMatrix(len(rows), cols, f)
	for i, row := range rows {
		if !row.Field.Equal(f) {
			return Matrix{}, ErrModulusMismatch
		}
		if row.Length() != cols {
			return Matrix{}, fmt.Errorf("%w: row %d has length %d, want %d", ErrDimensionMismatch, i, row.Length(), cols)
		}
		for j, val := range row.Values {
			result.Values[i][j] = new(big.Int).Set(val)
		}
	}
	return result, nil
}

// Equal checks if two matrices are equal
func (m Matrix) Equal(other Matrix) bool {
	if m.Rows != other.Rows || m.Cols != other.Cols || !m.Field.Equal(other.Field) {
		return false
	}

	for i := 0; i < m.Rows; i++ {
		for j := 0; j < m.Cols; j++ {
			if m.Values[i][j].Cmp(other.Values[i][j]) != 0 {
				return false
			}
		}
	}

	return true
}

// Get returns a copy of the value at the specified position
func (m Matrix) Get(row, col int) *big.Int {
	return new(big.Int).Set(m.Values[row][col])
}

// Set stores the reduction of value at the specified position
func (m Matrix) Set(row, col int, value *big.Int) {
	m.Values[row][col] = m.Field.Element(value)
}

// Row returns a copy of the i-th row
func (m Matrix) Row(i int) *Vector {
	row := &Vector{
		Values: make([]*big.Int, m.Cols),
		Field:  m.Field,
	}
	for j := range row.Values {
		row.Values[j] = new(big.Int).Set(m.Values[i][j])
	}
	return row
}

// Column returns a copy of the j-th column
func (m Matrix) Column(j int) *Vector {
	col := &Vector{
		Values: make([]*big.Int, m.Rows),
		Field:  m.Field,
	}
	for i := range col.Values {
		col.Values[i] = new(big.Int).Set(m.Values[i][j])
	}
	return col
}

// Clone returns a deep copy of m
func (m Matrix) Clone() Matrix {
	result := NewMatrix(m.Rows, m.Cols, m.Field)
	for i := 0; i < m.Rows; i++ {
		for j := 0; j < m.Cols; j++ {
			result.Values[i][j].Set(m.Values[i][j])
		}
	}
	return result
}

// Transpose returns the transpose of the matrix
func (m Matrix) Transpose() Matrix {
	result := NewMatrix(m.Cols, m.Rows, m.Field)

	for i := 0; i < m.Rows; i++ {
		for j := 0; j < m.Cols; j++ {
			result.Values[j][i] = new(big.Int).Set(m.Values[i][j])
		}
	}

	return result
}

// Negate returns -m
func (m Matrix) Negate() Matrix {
	result := NewMatrix(m.Rows, m.Cols, m.Field)
	for i := 0; i < m.Rows; i++ {
		for j := 0; j < m.Cols; j++ {
			result.Values[i][j] = m.Field.Neg(m.Values[i][j])
		}
	}
	return result
}

// MultiplyVector multiplies a matrix by a vector; it requires m.Cols == v.Length()
func (m Matrix) MultiplyVector(v *Vector) (*Vector, error) {
	if !m.Field.Equal(v.Field) {
		return nil, ErrModulusMismatch
	}
	if m.Cols != v.Length() {
		return nil, fmt.Errorf("%w: %dx%d matrix times vector of length %d", ErrDimensionMismatch, m.Rows, m.Cols, v.Length())
	}

	result := NewVector(m.Rows, m.Field)
	product := new(big.Int)

	for i := 0; i < m.Rows; i++ {
		sum := new(big.Int)
		for j := 0; j < m.Cols; j++ {
			if v.Values[j].Sign() == 0 {
				continue
			}
			sum.Add(sum, product.Mul(m.Values[i][j], v.Values[j]))
		}
		result.Values[i] = sum.Mod(sum, m.Field.modulus)
	}

	return result, nil
}

// HConcat returns the block matrix [m | other]; it requires equal row counts
func (m Matrix) HConcat(other Matrix) (Matrix, error) {
	if !m.Field.Equal(other.Field) {
		return Matrix{}, ErrModulusMismatch
	}
	if m.Rows != other.Rows {
		return Matrix{}, fmt.Errorf("%w: %d rows vs %d rows", ErrDimensionMismatch, m.Rows, other.Rows)
	}

	result := NewMatrix(m.Rows, m.Cols+other.Cols, m.Field)
	for i := 0; i < m.Rows; i++ {
		for j := 0; j < m.Cols; j++ {
			result.Values[i][j] = new(big.Int).Set(m.Values[i][j])
		}
		for j := 0; j < other.Cols; j++ {
			result.Values[i][m.Cols+j] = new(big.Int).Set(other.Values[i][j])
		}
	}

	return result, nil
}
