package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"
)

var ErrCiphertextTooShort = errors.New("ciphertext too short")

// Cipher encrypts secret material at rest with AES-256-GCM. The key is
// derived from an operator-supplied passphrase.
type Cipher struct {
	key []byte
}

func NewCipher(passphrase string) (*Cipher, error) {
	if len(passphrase) < 32 {
		return nil, errors.New("encryption key must be at least 32 characters")
	}
	sum := sha256.Sum256([]byte(passphrase))
	return &Cipher{key: sum[:]}, nil
}

func (c *Cipher) Encrypt(plaintext []byte) ([]byte, error) {
	gcm, err := c.gcm()
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func (c *Cipher) Decrypt(data []byte) ([]byte, error) {
	gcm, err := c.gcm()
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return nil, ErrCiphertextTooShort
	}

	nonce, cipherData := data[:nonceSize], data[nonceSize:]
	return gcm.Open(nil, nonce, cipherData, nil)
}

func (c *Cipher) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
