package trial

import (
	"math/big"
	"testing"

	"github.com/MingLLuo/LWE-PKE/internal/randtest"
	"github.com/MingLLuo/LWE-PKE/pkg"
	"github.com/MingLLuo/LWE-PKE/pkg/noise"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	params, err := pkg.GetParameterSet("LWE-64")
	require.NoError(t, err)
	sc, err := pkg.NewScheme(params)
	require.NoError(t, err)

	report, err := Run(sc, randtest.NewSeededReader(1), Config{KeyPairs: 3, Trials: 100})
	require.NoError(t, err)
	require.Equal(t, 100, report.Trials)
	require.Zero(t, report.Failures)
	require.Zero(t, report.FailureRate())
	require.Len(t, report.DecryptionNoise, 100)
	require.Len(t, report.KeyNoise, 3*params.LatticeParams.M)

	for _, e := range report.KeyNoise {
		require.LessOrEqual(t, abs(e), float64(params.NoiseParams.Bound))
	}

	s, err := Summarize(report.DecryptionNoise)
	require.NoError(t, err)
	require.Equal(t, 100, s.Count)
	require.Less(t, s.MaxAbs, float64(params.LatticeParams.Q.Int64())/4)
}

func TestRunCountsFailures(t *testing.T) {
	params := pkg.NewParameters("noisy", 32, 32, big.NewInt(40961), pkg.NoiseParameters{
		Distribution: noise.BoundedUniform,
		Bound:        10240,
	})
	sc, err := pkg.NewScheme(params)
	require.NoError(t, err)

	report, err := Run(sc, randtest.NewSeededReader(2), Config{KeyPairs: 1, Trials: 200})
	require.NoError(t, err)
	require.Greater(t, report.Failures, 20)
	require.InDelta(t, float64(report.Failures)/200, report.FailureRate(), 1e-12)
}

func TestRunRejectsNegativeTrials(t *testing.T) {
	sc, err := pkg.NewScheme(pkg.GetDefaultParameterSet())
	require.NoError(t, err)
	_, err = Run(sc, randtest.NewSeededReader(3), Config{Trials: -1})
	require.Error(t, err)
}

func TestOpenSource(t *testing.T) {
	src, err := OpenSource("", "x")
	require.NoError(t, err)
	require.NotNil(t, src)

	_, err = OpenSource("zz", "x")
	require.Error(t, err)

	a, err := OpenSource("00ff", "x")
	require.NoError(t, err)
	b, err := OpenSource("00ff", "x")
	require.NoError(t, err)
	bufA, bufB := make([]byte, 32), make([]byte, 32)
	_, err = a.Read(bufA)
	require.NoError(t, err)
	_, err = b.Read(bufB)
	require.NoError(t, err)
	require.Equal(t, bufA, bufB)
}

func TestSummarize(t *testing.T) {
	s, err := Summarize(nil)
	require.NoError(t, err)
	require.Zero(t, s.Count)

	s, err = Summarize([]float64{-3, -1, 1, 3})
	require.NoError(t, err)
	require.Equal(t, 4, s.Count)
	require.InDelta(t, 0, s.Mean, 1e-12)
	require.InDelta(t, 0, s.Median, 1e-12)
	require.Equal(t, 3.0, s.MaxAbs)
	require.Greater(t, s.StdDev, 0.0)
}

func TestHistogram(t *testing.T) {
	centers, counts := Histogram([]float64{-12, -9, -1, 0, 2, 4, 11}, 5)
	require.Equal(t, []float64{-10, -5, 0, 5, 10}, centers)
	require.Equal(t, []int{2, 0, 3, 1, 1}, counts)

	centers, counts = Histogram(nil, 5)
	require.Nil(t, centers)
	require.Nil(t, counts)
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
