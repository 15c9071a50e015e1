// Package trial runs encrypt/decrypt campaigns against a Scheme and summarises
// the decryption noise they produce.
package trial

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"

	"github.com/MingLLuo/LWE-PKE/pkg"
	"github.com/montanaflynn/stats"
)

// Config describes a campaign
type Config struct {
	// KeyPairs is the number of key pairs; trials are spread evenly over them
	KeyPairs int
	// Trials is the total number of encryptions
	Trials int
}

// Report holds the outcome of a campaign
type Report struct {
	Params   pkg.Parameters
	Trials   int
	Failures int
	// DecryptionNoise holds the centered <e, r> of every trial
	DecryptionNoise []float64
	// KeyNoise holds the centered entries of every public-key error vector
	KeyNoise []float64
}

// Summary is a digest of a sample
type Summary struct {
	Count  int
	Mean   float64
	StdDev float64
	Median float64
	P99    float64
	MaxAbs float64
}

// OpenSource returns crypto/rand when seedHex is empty, and a seeded source otherwise
func OpenSource(seedHex, label string) (io.Reader, error) {
	if seedHex == "" {
		return rand.Reader, nil
	}
	seed, err := hex.DecodeString(seedHex)
	if err != nil {
		return nil, fmt.Errorf("failed to decode seed: %w", err)
	}
	src, err := pkg.NewSeededSource(seed, label)
	if err != nil {
		return nil, err
	}
	return src, nil
}

// Run generates cfg.KeyPairs key pairs and encrypts alternating bits under them
func Run(sc *pkg.Scheme, src io.Reader, cfg Config) (*Report, error) {
	if cfg.KeyPairs < 1 {
		cfg.KeyPairs = 1
	}
	if cfg.Trials < 0 {
		return nil, fmt.Errorf("trial count must not be negative, got %d", cfg.Trials)
	}

	report := &Report{
		Params:          sc.Params,
		DecryptionNoise: make([]float64, 0, cfg.Trials),
	}

	perKey := (cfg.Trials + cfg.KeyPairs - 1) / cfg.KeyPairs
	for k := 0; k < cfg.KeyPairs && report.Trials < cfg.Trials; k++ {
		pk, sk, err := sc.GenerateKeyPair(src)
		if err != nil {
			return nil, fmt.Errorf("key pair %d: %w", k, err)
		}

		e, err := pk.Noise(sk)
		if err != nil {
			return nil, err
		}
		for _, c := range e.Centered() {
			report.KeyNoise = append(report.KeyNoise, toFloat(c))
		}

		for i := 0; i < perKey && report.Trials < cfg.Trials; i++ {
			bit := byte(report.Trials & 1)
			ct, err := sc.Encrypt(bit, pk, src)
			if err != nil {
				return nil, fmt.Errorf("trial %d: %w", report.Trials, err)
			}
			got, err := sc.Decrypt(ct, sk)
			if err != nil {
				return nil, fmt.Errorf("trial %d: %w", report.Trials, err)
			}
			if got != bit {
				report.Failures++
			}
			d, err := sc.DecryptionNoise(ct, sk, bit)
			if err != nil {
				return nil, fmt.Errorf("trial %d: %w", report.Trials, err)
			}
			report.DecryptionNoise = append(report.DecryptionNoise, toFloat(d))
			report.Trials++
		}
	}

	return report, nil
}

// FailureRate returns Failures/Trials
func (r *Report) FailureRate() float64 {
	if r.Trials == 0 {
		return 0
	}
	return float64(r.Failures) / float64(r.Trials)
}

// Summarize computes a Summary of data; an empty sample gives a zero Summary
func Summarize(data []float64) (Summary, error) {
	if len(data) == 0 {
		return Summary{}, nil
	}

	var s Summary
	var err error
	s.Count = len(data)
	if s.Mean, err = stats.Mean(data); err != nil {
		return Summary{}, err
	}
	if s.StdDev, err = stats.StandardDeviation(data); err != nil {
		return Summary{}, err
	}
	if s.Median, err = stats.Median(data); err != nil {
		return Summary{}, err
	}

	abs := make([]float64, len(data))
	for i, v := range data {
		if v < 0 {
			v = -v
		}
		abs[i] = v
	}
	if s.P99, err = stats.Percentile(abs, 99); err != nil {
		return Summary{}, err
	}
	if s.MaxAbs, err = stats.Max(abs); err != nil {
		return Summary{}, err
	}
	return s, nil
}

// Histogram counts data in bins of the given width, centered on zero.
// It returns the center of each bin and its count.
func Histogram(data []float64, width float64) ([]float64, []int) {
	if len(data) == 0 || width <= 0 {
		return nil, nil
	}
	lo, _ := stats.Min(data)
	hi, _ := stats.Max(data)

	first := binIndex(lo, width)
	last := binIndex(hi, width)
	counts := make([]int, last-first+1)
	for _, v := range data {
		counts[binIndex(v, width)-first]++
	}

	centers := make([]float64, len(counts))
	for i := range centers {
		centers[i] = float64(first+i) * width
	}
	return centers, counts
}

func binIndex(v, width float64) int {
	// nearest multiple of width, ties away from zero
	if v < 0 {
		return -int(-v/width + 0.5)
	}
	return int(v/width + 0.5)
}

func toFloat(x *big.Int) float64 {
	f, _ := new(big.Float).SetInt(x).Float64()
	return f
}
