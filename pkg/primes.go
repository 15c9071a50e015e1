package pkg

import (
	"fmt"
	"math/big"
)

// PrimeGenerator walks downwards through primes of the form 2^{BitSize} - k*{NthRoot} + 1.
// Such primes are 1 mod NthRoot, which is what lattigo needs to build a ring of degree NthRoot/2.
type PrimeGenerator struct {
	BitSize   int
	NthRoot   *big.Int
	PrevPrime *big.Int
	Exhausted bool
}

// NewPrimeGenerator creates a generator for primes of the form 2^{BitSize} - k*{NthRoot} + 1, k >= 1
func NewPrimeGenerator(bitSize int, nthRoot *big.Int) *PrimeGenerator {
	one := big.NewInt(1)
	twoPowBitSize := new(big.Int).Lsh(one, uint(bitSize))

	prevPrime := new(big.Int).Sub(twoPowBitSize, nthRoot)
	prevPrime.Add(prevPrime, one)

	return &PrimeGenerator{
		BitSize:   bitSize,
		NthRoot:   new(big.Int).Set(nthRoot),
		PrevPrime: prevPrime,
		Exhausted: prevPrime.Sign() <= 0,
	}
}

// NextDownstreamPrime returns the next prime below the previous one that is still BitSize bits long
func (g *PrimeGenerator) NextDownstreamPrime() (*big.Int, error) {
	if g.Exhausted {
		return nil, fmt.Errorf("cannot NextDownstreamPrime: no %d-bit prime = 1 mod %v left", g.BitSize, g.NthRoot)
	}

	lowerBound := new(big.Int).Lsh(big.NewInt(1), uint(g.BitSize-1))

	for g.PrevPrime.Cmp(lowerBound) >= 0 {
		candidate := new(big.Int).Set(g.PrevPrime)
		g.PrevPrime.Sub(g.PrevPrime, g.NthRoot)
		if candidate.ProbablyPrime(20) {
			return candidate, nil
		}
	}

	g.Exhausted = true
	return nil, fmt.Errorf("cannot NextDownstreamPrime: prime would be below %d bits", g.BitSize)
}
