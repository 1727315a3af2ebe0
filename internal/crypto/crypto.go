// Package crypto provides symmetric encryption for letter fields and
// HMAC signing for session tokens, both keyed off the shared secret.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrIntegrity is returned when a blob was not produced by Encrypt under
// the same key. Callers must treat it as unrecoverable.
var ErrIntegrity = errors.New("crypto: blob failed integrity check")

// Codec encrypts/decrypts field values and signs/verifies payloads under
// a single shared key.
type Codec struct {
	key []byte
}

// New derives a 256-bit key from the configured secret.
func New(secret string) *Codec {
	key := sha256.Sum256([]byte(secret))
	return &Codec{key: key[:]}
}

// Encrypt encrypts plaintext under a fresh random IV and returns a single
// base64 blob of "base64(ciphertext)::iv". The inner base64 keeps the
// ciphertext free of the "::" delimiter, so splitting on the first
// occurrence is unambiguous.
func (c *Codec) Encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", err
	}

	padded := pad([]byte(plaintext), aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	inner := base64.StdEncoding.EncodeToString(ciphertext) + "::" + string(iv)
	return base64.StdEncoding.EncodeToString([]byte(inner)), nil
}

// Decrypt reverses Encrypt. Any malformed blob, wrong key, or corrupted
// ciphertext yields ErrIntegrity.
func (c *Codec) Decrypt(blob string) (string, error) {
	inner, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrIntegrity, err)
	}

	parts := strings.SplitN(string(inner), "::", 2)
	if len(parts) != 2 {
		return "", ErrIntegrity
	}
	ciphertext, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrIntegrity, err)
	}
	iv := []byte(parts[1])
	if len(iv) != aes.BlockSize {
		return "", ErrIntegrity
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", ErrIntegrity
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}
	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, ok := unpad(plaintext, aes.BlockSize)
	if !ok {
		return "", ErrIntegrity
	}
	return string(unpadded), nil
}

// Sign returns the HMAC-SHA256 of payload under the shared key.
func (c *Codec) Sign(payload []byte) []byte {
	mac := hmac.New(sha256.New, c.key)
	mac.Write(payload)
	return mac.Sum(nil)
}

// Verify reports whether signature is a valid HMAC for payload. The
// comparison is constant-time.
func (c *Codec) Verify(payload, signature []byte) bool {
	return hmac.Equal(signature, c.Sign(payload))
}

// PKCS#7 padding.
func pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+n)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

func unpad(data []byte, blockSize int) ([]byte, bool) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, false
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, false
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, false
		}
	}
	return data[:len(data)-n], true
}
