// Package lwepke is single-bit public-key encryption based on Learning With Errors.
//
// A public key is (A, b = A*s + e) over Z_q, a ciphertext of a bit is
// (<b, r> + ⌊q/2⌋*bit, A^T*r) for a random binary r, and decryption rounds
// v - <s, u> to 0 or ⌊q/2⌋. The top-level functions draw randomness from
// crypto/rand; use Scheme with NewSeededSource for reproducible runs.
package lwepke

import (
	"crypto/rand"

	"github.com/MingLLuo/LWE-PKE/pkg"
)

type (
	Scheme     = pkg.Scheme
	PublicKey  = pkg.PublicKey
	SecretKey  = pkg.SecretKey
	Ciphertext = pkg.Ciphertext
	Parameters = pkg.Parameters
)

// Setup returns the default parameter set
func Setup() Parameters {
	return pkg.GetDefaultParameterSet()
}

// NewScheme creates a new Scheme instance with the specified parameters
func NewScheme(params Parameters) (*Scheme, error) {
	return pkg.NewScheme(params)
}

// GenerateKeyPair generates a new key pair with the specified parameters
func GenerateKeyPair(params Parameters) (*PublicKey, *SecretKey, error) {
	sc, err := pkg.NewScheme(params)
	if err != nil {
		return nil, nil, err
	}
	return sc.GenerateKeyPair(rand.Reader)
}

// Encrypt encrypts a single bit under pk
func Encrypt(pk *PublicKey, bit byte) (*Ciphertext, error) {
	if pk == nil {
		return nil, pkg.ErrInvalidPublicKey
	}
	sc, err := pkg.NewScheme(pk.Parameters())
	if err != nil {
		return nil, err
	}
	return sc.Encrypt(bit, pk, rand.Reader)
}

// Decrypt recovers the bit encrypted in ct
func Decrypt(sk *SecretKey, ct *Ciphertext) (byte, error) {
	if sk == nil {
		return 0, pkg.ErrInvalidSecretKey
	}
	sc, err := pkg.NewScheme(sk.Params)
	if err != nil {
		return 0, err
	}
	return sc.Decrypt(ct, sk)
}

// NewSeededSource returns a deterministic randomness source derived from seed and label
var NewSeededSource = pkg.NewSeededSource
