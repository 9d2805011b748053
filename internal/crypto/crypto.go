// Package crypto encrypts diary content at rest using NaCl secretbox.
package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

// ErrDecrypt is returned when a ciphertext cannot be opened, either because
// it is malformed or was produced under a different key.
var ErrDecrypt = errors.New("crypto: decryption failed")

// Cipher performs symmetric encryption with a fixed 32-byte key.
type Cipher struct {
	key [32]byte
}

// NewCipher builds a Cipher from a base64-encoded 32-byte key. The key is
// supplied once via configuration; there is no generate-if-missing fallback.
func NewCipher(encodedKey string) (*Cipher, error) {
	raw, err := base64.URLEncoding.DecodeString(encodedKey)
	if err != nil {
		raw, err = base64.StdEncoding.DecodeString(encodedKey)
	}
	if err != nil {
		return nil, fmt.Errorf("decode key: %w", err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("key must be 32 bytes, got %d", len(raw))
	}

	c := &Cipher{}
	copy(c.key[:], raw)
	return c, nil
}

// Encrypt seals plaintext with a random nonce. The nonce is prepended to the
// returned ciphertext.
func (c *Cipher) Encrypt(plaintext string) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &c.key), nil
}

// Decrypt opens a ciphertext produced by Encrypt. Returns ErrDecrypt if the
// ciphertext is too short, tampered with, or sealed under another key.
func (c *Cipher) Decrypt(ciphertext []byte) (string, error) {
	if len(ciphertext) < nonceSize {
		return "", ErrDecrypt
	}
	var nonce [nonceSize]byte
	copy(nonce[:], ciphertext[:nonceSize])

	plaintext, ok := secretbox.Open(nil, ciphertext[nonceSize:], &nonce, &c.key)
	if !ok {
		return "", ErrDecrypt
	}
	return string(plaintext), nil
}
