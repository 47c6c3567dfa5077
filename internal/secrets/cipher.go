// Package secrets provides the symmetric cipher used for credential secrets
// and backup blobs: AES-256-GCM with a scrypt-derived key.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/scrypt"
)

// ErrDecrypt is returned when a ciphertext cannot be authenticated, which
// covers both corruption and a wrong passphrase.
var ErrDecrypt = errors.New("decryption failed")

const (
	saltSize  = 16
	nonceSize = 12
	keySize   = 32
)

// Cipher encrypts and decrypts with a key derived from a passphrase.
type Cipher struct {
	passphrase []byte
}

// NewCipher creates a cipher over the given passphrase. Key derivation
// happens per message, since each message carries its own salt.
func NewCipher(passphrase string) *Cipher {
	return &Cipher{passphrase: []byte(passphrase)}
}

func (c *Cipher) aead(salt []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key(c.passphrase, salt, 1<<15, 8, 1, keySize)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to init cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

// Encrypt seals plaintext into salt || nonce || ciphertext.
func (c *Cipher) Encrypt(plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	aead, err := c.aead(salt)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	out := make([]byte, 0, saltSize+nonceSize+len(plaintext)+aead.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, plaintext, nil), nil
}

// Decrypt opens a blob produced by Encrypt. Any tampering, truncation, or
// wrong passphrase yields ErrDecrypt.
func (c *Cipher) Decrypt(blob []byte) ([]byte, error) {
	if len(blob) < saltSize+nonceSize {
		return nil, ErrDecrypt
	}
	salt, nonce, ciphertext := blob[:saltSize], blob[saltSize:saltSize+nonceSize], blob[saltSize+nonceSize:]

	aead, err := c.aead(salt)
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plaintext, nil
}

// DecryptString decrypts a credential secret, degrading to the empty string
// when the blob cannot be opened. Credential reads must never fail the
// caller over an undecryptable secret.
func (c *Cipher) DecryptString(blob []byte) string {
	plaintext, err := c.Decrypt(blob)
	if err != nil {
		return ""
	}
	return string(plaintext)
}
