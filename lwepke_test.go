package lwepke

import (
	"errors"
	"testing"

	"github.com/MingLLuo/LWE-PKE/pkg"
)

func TestEncryptDecrypt(t *testing.T) {
	params := Setup()
	pk, sk, err := GenerateKeyPair(params)
	if err != nil {
		t.Fatalf("Error in GenerateKeyPair: %v", err)
	}
	for i := 0; i < 100; i++ {
		bit := byte(i % 2)
		ct, err := Encrypt(pk, bit)
		if err != nil {
			t.Fatalf("Error in Encrypt: %v", err)
		}
		got, err := Decrypt(sk, ct)
		if err != nil {
			t.Fatalf("Error in Decrypt: %v", err)
		}
		if got != bit {
			t.Errorf("Expected %d, got %d", bit, got)
		}
	}
}

func TestSeededScheme(t *testing.T) {
	params, err := pkg.GetParameterSet("LWE-64")
	if err != nil {
		t.Fatalf("Error in GetParameterSet: %v", err)
	}
	sc, err := NewScheme(params)
	if err != nil {
		t.Fatalf("Error in NewScheme: %v", err)
	}

	keys := func() (*PublicKey, *SecretKey) {
		src, err := NewSeededSource([]byte("lwepke"), "facade-test")
		if err != nil {
			t.Fatalf("Error in NewSeededSource: %v", err)
		}
		pk, sk, err := sc.GenerateKeyPair(src)
		if err != nil {
			t.Fatalf("Error in GenerateKeyPair: %v", err)
		}
		return pk, sk
	}
	pk1, sk1 := keys()
	pk2, sk2 := keys()
	if !pk1.Equal(pk2) || !sk1.Equal(sk2) {
		t.Errorf("Expected the same seed to give the same key pair")
	}

	// keys from a seeded scheme work with the top-level helpers
	ct, err := Encrypt(pk1, 1)
	if err != nil {
		t.Fatalf("Error in Encrypt: %v", err)
	}
	got, err := Decrypt(sk2, ct)
	if err != nil {
		t.Fatalf("Error in Decrypt: %v", err)
	}
	if got != 1 {
		t.Errorf("Expected 1, got %d", got)
	}
}

func TestInvalidArguments(t *testing.T) {
	if _, err := Encrypt(nil, 0); !errors.Is(err, pkg.ErrInvalidPublicKey) {
		t.Errorf("Expected ErrInvalidPublicKey, got %v", err)
	}
	if _, err := Decrypt(nil, nil); !errors.Is(err, pkg.ErrInvalidSecretKey) {
		t.Errorf("Expected ErrInvalidSecretKey, got %v", err)
	}
	pk, _, err := GenerateKeyPair(Setup())
	if err != nil {
		t.Fatalf("Error in GenerateKeyPair: %v", err)
	}
	if _, err := Encrypt(pk, 3); !errors.Is(err, pkg.ErrInvalidMessage) {
		t.Errorf("Expected ErrInvalidMessage, got %v", err)
	}
}
