package vault

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"ozpay/internal/domain/entities"
	"ozpay/internal/usecase/interfaces"

	"golang.org/x/crypto/chacha20poly1305"
)

var (
	ErrEncoding   = errors.New("vault: credential encoding failed")
	ErrCrypto     = errors.New("vault: credential cryptography failed")
	ErrInvalidKey = errors.New("vault: invalid key")
)

// KeySize is the required length of the vault key in bytes.
const KeySize = chacha20poly1305.KeySize

// blobVersion prefixes every blob and is authenticated as additional data.
const blobVersion byte = 1

const headerSize = 1 + chacha20poly1305.NonceSizeX

// Vault encrypts tenant gateway credentials at rest.
//
// Blob layout: version(1) || nonce(24) || ciphertext+tag.
// Every Protect call draws a fresh random nonce, so protecting the same set
// twice yields different blobs.

type Vault struct {
	aead cipher.AEAD
}

var _ interfaces.ICredentialVault = (*Vault)(nil)

func New(key []byte) (*Vault, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidKey, KeySize, len(key))
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return &Vault{aead: aead}, nil
}

// NewFromBase64 builds a vault from the base64 encoded key held in configuration.
func NewFromBase64(encoded string) (*Vault, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, fmt.Errorf("%w: missing VAULT_KEY", ErrInvalidKey)
	}
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: key is not valid base64", ErrInvalidKey)
	}
	return New(key)
}

// GenerateKey returns a new random key encoded in base64.
func GenerateKey() (string, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(key), nil
}

func (v *Vault) Protect(set entities.CredentialSet) ([]byte, error) {
	if set == nil {
		return nil, fmt.Errorf("%w: nil credential set", ErrEncoding)
	}
	// encoding/json rewrites invalid UTF-8 to U+FFFD, which Reveal could not undo.
	for k, val := range set {
		if !utf8.ValidString(k) || !utf8.ValidString(val) {
			return nil, fmt.Errorf("%w: credential entries must be valid UTF-8", ErrEncoding)
		}
	}
	// encoding/json sorts map keys, which keeps the plaintext deterministic.
	plaintext, err := json.Marshal(map[string]string(set))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}

	blob := make([]byte, headerSize, headerSize+len(plaintext)+v.aead.Overhead())
	blob[0] = blobVersion
	nonce := blob[1:headerSize]
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("%w: nonce generation: %v", ErrCrypto, err)
	}
	return v.aead.Seal(blob, nonce, plaintext, blob[:1]), nil
}

func (v *Vault) Reveal(blob []byte) (entities.CredentialSet, error) {
	if len(blob) < headerSize+v.aead.Overhead() {
		return nil, fmt.Errorf("%w: blob too short", ErrCrypto)
	}
	if blob[0] != blobVersion {
		return nil, fmt.Errorf("%w: unsupported blob version", ErrCrypto)
	}
	nonce := blob[1:headerSize]
	plaintext, err := v.aead.Open(nil, nonce, blob[headerSize:], blob[:1])
	if err != nil {
		return nil, fmt.Errorf("%w: authentication failed", ErrCrypto)
	}

	var m map[string]string
	if err := json.Unmarshal(plaintext, &m); err != nil {
		// the decoder error can quote plaintext bytes, keep it out of the chain
		return nil, fmt.Errorf("%w: decrypted payload is not a credential document", ErrEncoding)
	}
	if m == nil {
		return nil, fmt.Errorf("%w: empty credential document", ErrEncoding)
	}
	return entities.CredentialSet(m), nil
}
