//go:build highparams

package pkg

import (
	"crypto/rand"
	"testing"
)

func TestCalculateParametersHighLevelDemo(t *testing.T) {
	param, err := CalculateParameters(512)
	if err != nil {
		t.Fatalf("CalculateParameters failed: %v", err)
	}
	if err := param.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	t.Logf("high-parameter demo: name=%s n=%d m=%d qBits=%d", param.Name, param.LatticeParams.N, param.LatticeParams.M, param.LatticeParams.Q.BitLen())

	sc, err := NewScheme(param)
	if err != nil {
		t.Fatalf("NewScheme failed: %v", err)
	}
	pk, sk, err := sc.GenerateKeyPair(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	for _, bit := range []byte{0, 1} {
		ct, err := sc.Encrypt(bit, pk, rand.Reader)
		if err != nil {
			t.Fatalf("Encrypt failed: %v", err)
		}
		got, err := sc.Decrypt(ct, sk)
		if err != nil {
			t.Fatalf("Decrypt failed: %v", err)
		}
		if got != bit {
			t.Fatalf("decrypted %d, want %d", got, bit)
		}
	}
}
