package cryptox

import (
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// Key derivation parameters. The master material is expected to be high
// entropy, so a fixed domain-separation salt is enough here.
const (
	sealSalt        = "devhub/session-seal/v1"
	sealIterations  = 1
	sealMemory      = 64 * 1024
	sealParallelism = 4
)

var (
	// ErrSealedTooShort reports a sealed value shorter than its nonce.
	ErrSealedTooShort = errors.New("cryptox: sealed value too short")

	// ErrOpen reports a sealed value that failed authentication.
	ErrOpen = errors.New("cryptox: open failed")
)

// Sealer encrypts small values (tokens, cached profiles) for storage at rest.
// The sealed format is [24-byte nonce][ciphertext][16-byte tag].
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer derives an XChaCha20-Poly1305 key from the given master material.
func NewSealer(material []byte) (*Sealer, error) {
	if len(material) == 0 {
		return nil, errors.New("cryptox: empty master key material")
	}

	key := argon2.IDKey(material, []byte(sealSalt), sealIterations, sealMemory, sealParallelism, chacha20poly1305.KeySize)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	return &Sealer{aead: aead}, nil
}

// LoadMasterKey returns master key material from, in order:
//  1. the file at path (if path is set)
//  2. the envVar environment variable (if set)
//  3. freshly generated random bytes (sealed data will not survive a restart)
//
// The second return value is false when the ephemeral fallback was used.
func LoadMasterKey(path, envVar string) ([]byte, bool, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, false, fmt.Errorf("failed to read master key file: %w", err)
		}
		return data, true, nil
	}

	if envVar != "" {
		if v := os.Getenv(envVar); v != "" {
			return []byte(v), true, nil
		}
	}

	material := make([]byte, 32)
	if _, err := rand.Read(material); err != nil {
		return nil, false, fmt.Errorf("failed to generate ephemeral master key: %w", err)
	}
	return material, false, nil
}

// Seal encrypts plaintext with a random nonce.
func (s *Sealer) Seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(plaintext)+s.aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return s.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open decrypts a value produced by Seal.
func (s *Sealer) Open(sealed []byte) ([]byte, error) {
	nonceSize := s.aead.NonceSize()
	if len(sealed) < nonceSize+s.aead.Overhead() {
		return nil, ErrSealedTooShort
	}

	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]
	plaintext, err := s.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, errors.Join(ErrOpen, err)
	}

	return plaintext, nil
}
