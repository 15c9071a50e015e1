package pkg

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"sort"
	"sync"

	"github.com/MingLLuo/LWE-PKE/pkg/arithmetic"
	"github.com/MingLLuo/LWE-PKE/pkg/noise"
)

// DefaultSigma is the standard deviation of the Gaussian error used by the built-in parameter sets
const DefaultSigma = 3.2

// DefaultNoiseDivisor sets the default error clipping bound to ⌊q/DefaultNoiseDivisor⌋
const DefaultNoiseDivisor = 64

type Parameters struct {
	Name string
	// LatticeParams defines the ring and the lattice dimensions
	LatticeParams LatticeParameters
	// NoiseParams defines the error distribution
	NoiseParams NoiseParameters
}

// LatticeParameters contains parameters related to the lattice dimensions
type LatticeParameters struct {
	// N is the secret dimension
	N int
	// M is the number of LWE samples in the public key
	M int
	// LogQ is the bit size of the modulus
	LogQ int
	// Q is the modulus of Z_q
	Q *big.Int
}

// NoiseParameters contains parameters for error sampling
type NoiseParameters struct {
	// Distribution is the shape of the error distribution
	Distribution noise.Kind
	// Sigma is the standard deviation of the Gaussian error
	Sigma float64
	// Bound is the largest magnitude a signed error may take
	Bound uint64
}

// ParameterRegistry manages parameter sets
type ParameterRegistry struct {
	mu         sync.RWMutex
	paramSets  map[string]Parameters
	defaultSet string
}

var globalRegistry = &ParameterRegistry{
	paramSets: make(map[string]Parameters),
}

// Initialize the registry with default parameter sets
func init() {
	RegisterParameterSet(MustCalculateParameters(16))
	RegisterParameterSet(MustCalculateParameters(64))
	RegisterParameterSet(MustCalculateParameters(256))

	q := big.NewInt(40961)
	RegisterParameterSet(NewParameters("LWE-40961-256", 256, 256, q, NoiseParameters{
		Distribution: noise.DiscreteGaussian,
		Sigma:        DefaultSigma,
		Bound:        new(big.Int).Div(q, big.NewInt(DefaultNoiseDivisor)).Uint64(),
	}))

	if err := SetDefaultParameterSet("LWE-40961-256"); err != nil {
		panic(err)
	}
}

// RegisterParameterSet adds a parameter set to the registry
func RegisterParameterSet(params Parameters) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()

	globalRegistry.paramSets[params.Name] = params
}

// GetParameterSet retrieves a parameter set by name
func GetParameterSet(name string) (Parameters, error) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	params, ok := globalRegistry.paramSets[name]
	if !ok {
		return Parameters{}, fmt.Errorf("parameter set %s not found", name)
	}

	return params, nil
}

// GetDefaultParameterSet returns the default parameter set
func GetDefaultParameterSet() Parameters {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	return globalRegistry.paramSets[globalRegistry.defaultSet]
}

// SetDefaultParameterSet sets the default parameter set
func SetDefaultParameterSet(name string) error {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()

	if _, ok := globalRegistry.paramSets[name]; !ok {
		return fmt.Errorf("parameter set %s not found", name)
	}

	globalRegistry.defaultSet = name
	return nil
}

// ListParameterSets returns the sorted names of all registered parameter sets
func ListParameterSets() []string {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	names := make([]string, 0, len(globalRegistry.paramSets))
	for name := range globalRegistry.paramSets {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// NewParameters assembles a parameter set; it does not validate it
func NewParameters(name string, n, m int, q *big.Int, noiseParams NoiseParameters) Parameters {
	var logQ int
	var modulus *big.Int
	if q != nil {
		modulus = new(big.Int).Set(q)
		logQ = q.BitLen()
	}
	return Parameters{
		Name: name,
		LatticeParams: LatticeParameters{
			N:    n,
			M:    m,
			LogQ: logQ,
			Q:    modulus,
		},
		NoiseParams: noiseParams,
	}
}

// CalculateParameters derives a parameter set for secret dimension n.
//
//	m    = n
//	logQ = max(12, 2*ceil(log2 n) + 1)
//	q    = largest prime below 2^logQ with q = 1 mod 2*noise.GaussianRingDegree
//	e    ~ discrete Gaussian, sigma = DefaultSigma, clipped at q/DefaultNoiseDivisor
//
// These sets make decryption failures negligible; they carry no security claim.
func CalculateParameters(n int) (Parameters, error) {
	logN := int(math.Ceil(math.Log2(float64(max(n, 1)))))
	logQ := max(12, 2*logN+1)

	nthRoot := big.NewInt(2 * noise.GaussianRingDegree)
	q, err := NewPrimeGenerator(logQ, nthRoot).NextDownstreamPrime()
	if err != nil {
		return Parameters{}, fmt.Errorf("failed to find modulus for n=%d: %w", n, err)
	}

	return NewParameters(fmt.Sprintf("LWE-%d", n), n, n, q, NoiseParameters{
		Distribution: noise.DiscreteGaussian,
		Sigma:        DefaultSigma,
		Bound:        new(big.Int).Div(q, big.NewInt(DefaultNoiseDivisor)).Uint64(),
	}), nil
}

// MustCalculateParameters is like CalculateParameters but panics on error
func MustCalculateParameters(n int) Parameters {
	params, err := CalculateParameters(n)
	if err != nil {
		panic(err)
	}
	return params
}

// CiphertextLength returns n+1, the number of ring elements in a ciphertext
func (p Parameters) CiphertextLength() int {
	return p.LatticeParams.N + 1
}

// HalfQ returns ⌊q/2⌋, the encoding of the bit 1
func (p Parameters) HalfQ() *big.Int {
	return new(big.Int).Rsh(p.LatticeParams.Q, 1)
}

// WorstCaseNoise returns m*Bound, the largest magnitude the decryption noise <e, r> can reach
func (p Parameters) WorstCaseNoise() *big.Int {
	return new(big.Int).Mul(big.NewInt(int64(p.LatticeParams.M)), new(big.Int).SetUint64(p.NoiseParams.Bound))
}

// AlwaysCorrect reports whether decryption can never fail, i.e. m*Bound < q/4.
// Parameter sets that fail this check still decrypt correctly with high probability.
func (p Parameters) AlwaysCorrect() bool {
	quarter := new(big.Int).Rsh(p.LatticeParams.Q, 2)
	return p.WorstCaseNoise().Cmp(quarter) < 0
}

// Field returns the ring Z_q described by the parameters
func (p Parameters) Field() (*arithmetic.Field, error) {
	return arithmetic.NewField(p.LatticeParams.Q)
}

// Distribution returns the error distribution described by the parameters
func (p Parameters) Distribution() noise.Distribution {
	return noise.Distribution{
		Kind:  p.NoiseParams.Distribution,
		Sigma: p.NoiseParams.Sigma,
		Bound: p.NoiseParams.Bound,
	}
}

// Equal reports whether two parameter sets describe the same scheme instance
func (p Parameters) Equal(other Parameters) bool {
	if p.LatticeParams.N != other.LatticeParams.N || p.LatticeParams.M != other.LatticeParams.M {
		return false
	}
	if p.NoiseParams != other.NoiseParams {
		return false
	}
	if p.LatticeParams.Q == nil || other.LatticeParams.Q == nil {
		return p.LatticeParams.Q == other.LatticeParams.Q
	}
	return p.LatticeParams.Q.Cmp(other.LatticeParams.Q) == 0
}

// Validate checks that the parameters describe a usable scheme instance
func (p Parameters) Validate() error {
	n := p.LatticeParams.N
	m := p.LatticeParams.M

	if n < 1 || m < 1 {
		return fmt.Errorf("%w: dimensions must be positive, got n=%d m=%d", ErrParameterValidation, n, m)
	}

	f, err := p.Field()
	if err != nil {
		return errors.Join(ErrParameterValidation, err)
	}

	if p.LatticeParams.LogQ != p.LatticeParams.Q.BitLen() {
		return fmt.Errorf("%w: LogQ=%d but q has %d bits", ErrParameterValidation, p.LatticeParams.LogQ, p.LatticeParams.Q.BitLen())
	}

	// builds the Gaussian sampling ring when needed
	if _, err := noise.NewSampler(f, p.Distribution()); err != nil {
		return errors.Join(ErrParameterValidation, err)
	}

	return nil
}
