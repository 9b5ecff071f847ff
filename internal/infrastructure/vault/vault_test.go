package vault

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"ozpay/internal/domain/entities"
)

func newTestVault(t *testing.T) *Vault {
	t.Helper()
	encoded, err := GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	v, err := NewFromBase64(encoded)
	if err != nil {
		t.Fatalf("new vault: %v", err)
	}
	return v
}

func TestVault_RoundTrip(t *testing.T) {
	v := newTestVault(t)

	cases := []entities.CredentialSet{
		{},
		{"access_token": "APP_USR-123"},
		{"access_token": "APP_USR-123", "public_key": "APP_USR-pk", "webhook_secret": "s3cr3t"},
		{"unicode": "ç∂ß🔐", "empty": "", "quotes": `"{}"`},
	}

	for i, set := range cases {
		t.Run(fmt.Sprintf("set-%d", i), func(t *testing.T) {
			blob, err := v.Protect(set)
			if err != nil {
				t.Fatalf("protect: %v", err)
			}
			got, err := v.Reveal(blob)
			if err != nil {
				t.Fatalf("reveal: %v", err)
			}
			if !reflect.DeepEqual(map[string]string(got), map[string]string(set)) {
				t.Fatalf("round trip mismatch: got keys %v want keys %v", got.Keys(), set.Keys())
			}
		})
	}
}

func TestVault_ProtectUsesFreshNonce(t *testing.T) {
	v := newTestVault(t)
	set := entities.CredentialSet{"access_token": "APP_USR-123"}

	a, err := v.Protect(set)
	if err != nil {
		t.Fatalf("protect: %v", err)
	}
	b, err := v.Protect(set)
	if err != nil {
		t.Fatalf("protect: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatalf("identical credentials must not produce identical blobs")
	}
	if bytes.Contains(a, []byte("APP_USR-123")) {
		t.Fatalf("blob contains plaintext")
	}
}

func TestVault_TamperDetection(t *testing.T) {
	v := newTestVault(t)
	blob, err := v.Protect(entities.CredentialSet{"access_token": "APP_USR-123", "public_key": "pk"})
	if err != nil {
		t.Fatalf("protect: %v", err)
	}

	for i := range blob {
		tampered := append([]byte(nil), blob...)
		tampered[i] ^= 0x01
		got, err := v.Reveal(tampered)
		if !errors.Is(err, ErrCrypto) {
			t.Fatalf("byte %d: expected ErrCrypto, got %v", i, err)
		}
		if got != nil {
			t.Fatalf("byte %d: tampered blob returned plaintext", i)
		}
	}
}

func TestVault_RevealFailures(t *testing.T) {
	v := newTestVault(t)
	other := newTestVault(t)

	blob, err := v.Protect(entities.CredentialSet{"access_token": "x"})
	if err != nil {
		t.Fatalf("protect: %v", err)
	}

	t.Run("wrong key", func(t *testing.T) {
		if _, err := other.Reveal(blob); !errors.Is(err, ErrCrypto) {
			t.Fatalf("expected ErrCrypto, got %v", err)
		}
	})

	t.Run("truncated", func(t *testing.T) {
		if _, err := v.Reveal(blob[:headerSize]); !errors.Is(err, ErrCrypto) {
			t.Fatalf("expected ErrCrypto, got %v", err)
		}
		if _, err := v.Reveal(nil); !errors.Is(err, ErrCrypto) {
			t.Fatalf("expected ErrCrypto, got %v", err)
		}
	})

	t.Run("authenticated but not a credential document", func(t *testing.T) {
		for _, plaintext := range [][]byte{[]byte("not-json"), []byte("null"), []byte(`{"a":1}`)} {
			sealed := sealRaw(t, v, plaintext)
			if _, err := v.Reveal(sealed); !errors.Is(err, ErrEncoding) {
				t.Fatalf("plaintext %q: expected ErrEncoding, got %v", plaintext, err)
			}
		}
	})
}

func TestVault_KeyValidation(t *testing.T) {
	if _, err := New(make([]byte, 16)); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
	if _, err := NewFromBase64(""); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
	if _, err := NewFromBase64("%%%"); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
	short := base64.StdEncoding.EncodeToString([]byte("too-short"))
	if _, err := NewFromBase64(short); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}

func TestVault_ProtectNil(t *testing.T) {
	v := newTestVault(t)
	if _, err := v.Protect(nil); !errors.Is(err, ErrEncoding) {
		t.Fatalf("expected ErrEncoding, got %v", err)
	}
}

func TestVault_ProtectRejectsInvalidUTF8(t *testing.T) {
	v := newTestVault(t)

	cases := map[string]entities.CredentialSet{
		"value": {"secret": "ab\xffcd"},
		"key":   {"se\xc3cret": "abcd"},
	}
	for name, set := range cases {
		t.Run(name, func(t *testing.T) {
			blob, err := v.Protect(set)
			if !errors.Is(err, ErrEncoding) {
				t.Fatalf("expected ErrEncoding, got %v", err)
			}
			if blob != nil {
				t.Fatalf("no blob may be produced for a lossy set")
			}
		})
	}

	set := entities.CredentialSet{"secret": "çã€🔑"}
	blob, err := v.Protect(set)
	if err != nil {
		t.Fatalf("protect: %v", err)
	}
	got, err := v.Reveal(blob)
	if err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if !reflect.DeepEqual(got, set) {
		t.Fatalf("round trip changed the set")
	}
}

func sealRaw(t *testing.T, v *Vault, plaintext []byte) []byte {
	t.Helper()
	blob := make([]byte, headerSize)
	blob[0] = blobVersion
	if _, err := rand.Read(blob[1:headerSize]); err != nil {
		t.Fatalf("nonce: %v", err)
	}
	return v.aead.Seal(blob, blob[1:headerSize], plaintext, blob[:1])
}
