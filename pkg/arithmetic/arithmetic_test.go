package arithmetic

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tuneinsight/lattigo/v6/utils/bignum"
)

func testField(t *testing.T, q uint64) *Field {
	t.Helper()
	f, err := NewFieldFromUint64(q)
	require.NoError(t, err)
	return f
}

func TestNewFieldRejectsSmallModulus(t *testing.T) {
	for _, q := range []int64{-7, 0, 1, 2} {
		_, err := NewField(big.NewInt(q))
		require.ErrorIs(t, err, ErrInvalidModulus, "q=%d", q)
	}
	_, err := NewField(nil)
	require.ErrorIs(t, err, ErrInvalidModulus)

	f, err := NewField(big.NewInt(3))
	require.NoError(t, err)
	require.Equal(t, int64(1), f.Half().Int64())
}

func TestFieldClosure(t *testing.T) {
	moduli := []*big.Int{
		big.NewInt(3),
		big.NewInt(40961),
		bignum.NewInt("7484165189517896027318192121767201416039872004910529422703501933303497309177247161202453673508851750059292999942026203470027056226694857512284815420448467"),
	}
	for _, q := range moduli {
		f, err := NewField(q)
		require.NoError(t, err)

		top := new(big.Int).Sub(q, big.NewInt(1))
		results := []*big.Int{
			f.Add(top, top),
			f.Sub(f.Zero(), top),
			f.Mul(top, top),
			f.Neg(top),
			f.Neg(f.Zero()),
		}
		for i, r := range results {
			require.True(t, f.Contains(r), "result %d = %v escapes [0, q)", i, r)
		}

		// (q-1)+(q-1) = q-2, (q-1)^2 = 1, -(q-1) = 1
		require.Equal(t, 0, results[0].Cmp(new(big.Int).Sub(q, big.NewInt(2))))
		require.Equal(t, int64(1), results[2].Int64())
		require.Equal(t, int64(1), results[3].Int64())
		require.Equal(t, int64(0), results[4].Int64())
	}
}

func TestFieldConstructionReduces(t *testing.T) {
	f := testField(t, 40961)

	require.Equal(t, int64(40960), f.ElementFromInt64(-1).Int64())
	require.Equal(t, int64(1), f.ElementFromInt64(40962).Int64())

	raw := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
	e := f.ElementFromBytes(raw)
	require.True(t, f.Contains(e))
	require.Equal(t, 0, e.Cmp(new(big.Int).Mod(new(big.Int).SetBytes(raw), big.NewInt(40961))))

	require.True(t, f.Eq(big.NewInt(5), big.NewInt(5+40961)))
	require.False(t, f.Eq(big.NewInt(5), big.NewInt(6)))
}

func TestFieldCenter(t *testing.T) {
	odd := testField(t, 11)
	require.Equal(t, int64(5), odd.Center(big.NewInt(5)).Int64())
	require.Equal(t, int64(-5), odd.Center(big.NewInt(6)).Int64())
	require.Equal(t, int64(-1), odd.Center(big.NewInt(10)).Int64())
	require.Equal(t, int64(1), odd.Abs(big.NewInt(10)).Int64())

	even := testField(t, 10)
	require.Equal(t, int64(5), even.Center(big.NewInt(5)).Int64())
	require.Equal(t, int64(-4), even.Center(big.NewInt(6)).Int64())
}

func TestVectorOperations(t *testing.T) {
	f := testField(t, 17)
	u := NewVectorFromInt64(f, 1, 2, 16)
	v := NewVectorFromInt64(f, 16, 5, 3)

	sum, err := u.Add(v)
	require.NoError(t, err)
	require.True(t, sum.Equal(NewVectorFromInt64(f, 0, 7, 2)))

	diff, err := u.Subtract(v)
	require.NoError(t, err)
	require.True(t, diff.Equal(NewVectorFromInt64(f, 2, -3, 13)))

	dot, err := u.DotProduct(v)
	require.NoError(t, err)
	// 16 + 10 + 48 = 74 = 6 mod 17
	require.Equal(t, int64(6), dot.Int64())

	require.True(t, u.Negate().Equal(NewVectorFromInt64(f, -1, -2, -16)))
	require.True(t, NewVectorFromInt64(f, 0, 1, 1).ScaleHalf().Equal(NewVectorFromInt64(f, 0, 8, 8)))
	require.True(t, u.ScalarMultiply(big.NewInt(3)).Equal(NewVectorFromInt64(f, 3, 6, 48)))
	require.Equal(t, int64(2), u.Sum().Int64())
	require.Equal(t, int64(1), NewVectorFromInt64(f, 16, 1, 0).InfNorm().Int64())

	// operands are left untouched
	require.True(t, u.Equal(NewVectorFromInt64(f, 1, 2, 16)))
	require.True(t, v.Equal(NewVectorFromInt64(f, 16, 5, 3)))
}

func TestVectorConcatAndSlice(t *testing.T) {
	f := testField(t, 17)
	u := NewVectorFromInt64(f, 1, 2)
	v := NewVectorFromInt64(f, 3, 4, 5)

	uv, err := u.Concat(v)
	require.NoError(t, err)
	require.True(t, uv.Equal(NewVectorFromInt64(f, 1, 2, 3, 4, 5)))

	tail, err := uv.Slice(2, 5)
	require.NoError(t, err)
	require.True(t, tail.Equal(v))

	_, err = uv.Slice(3, 6)
	require.ErrorIs(t, err, ErrDimensionMismatch)

	tail.Set(0, big.NewInt(20))
	require.Equal(t, int64(3), tail.Get(0).Int64())
	require.Equal(t, int64(3), uv.Get(2).Int64())
}

func TestDimensionMismatch(t *testing.T) {
	f := testField(t, 17)
	short := NewVector(2, f)
	long := NewVector(3, f)

	_, err := short.DotProduct(long)
	require.ErrorIs(t, err, ErrDimensionMismatch)
	_, err = short.Add(long)
	require.ErrorIs(t, err, ErrDimensionMismatch)
	_, err = short.Subtract(long)
	require.ErrorIs(t, err, ErrDimensionMismatch)

	a := NewMatrix(3, 2, f)
	_, err = a.MultiplyVector(long)
	require.ErrorIs(t, err, ErrDimensionMismatch)
	_, err = a.MultiplyVector(short)
	require.NoError(t, err)

	_, err = a.HConcat(NewMatrix(2, 2, f))
	require.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = NewMatrixFromRows(f, short, long)
	require.ErrorIs(t, err, ErrDimensionMismatch)

	other := testField(t, 19)
	_, err = short.Add(NewVector(2, other))
	require.ErrorIs(t, err, ErrModulusMismatch)
	_, err = a.MultiplyVector(NewVector(2, other))
	require.ErrorIs(t, err, ErrModulusMismatch)
}

func TestMatrixOperations(t *testing.T) {
	f := testField(t, 17)
	a, err := NewMatrixFromRows(f,
		NewVectorFromInt64(f, 1, 2, 3),
		NewVectorFromInt64(f, 4, 5, 6),
	)
	require.NoError(t, err)
	require.Equal(t, 2, a.Rows)
	require.Equal(t, 3, a.Cols)

	av, err := a.MultiplyVector(NewVectorFromInt64(f, 1, 0, 2))
	require.NoError(t, err)
	require.True(t, av.Equal(NewVectorFromInt64(f, 7, 16)))

	at := a.Transpose()
	require.Equal(t, 3, at.Rows)
	require.Equal(t, 2, at.Cols)
	require.True(t, at.Row(2).Equal(a.Column(2)))
	require.True(t, at.Transpose().Equal(a))

	b := NewVectorFromInt64(f, 9, 10).AsColumn()
	ba, err := b.HConcat(a)
	require.NoError(t, err)
	require.Equal(t, 4, ba.Cols)
	require.True(t, ba.Row(1).Equal(NewVectorFromInt64(f, 10, 4, 5, 6)))

	require.True(t, a.Negate().Row(0).Equal(NewVectorFromInt64(f, -1, -2, -3)))

	a.Set(0, 0, big.NewInt(-1))
	require.Equal(t, int64(16), a.Get(0, 0).Int64())
	// the transpose taken before Set is a copy
	require.Equal(t, int64(1), at.Get(0, 0).Int64())
}
