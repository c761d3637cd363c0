// Package cryptoutil encrypts the persisted access token at rest. Redis is
// often shared infrastructure; an AES-GCM layer keeps the bearer token
// unreadable to anyone with plain key access.
package cryptoutil

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Encryptor defines an interface for encrypting/decrypting stored secrets.
type Encryptor interface {
	Encrypt(plaintext []byte) (string, error)
	Decrypt(ciphertext string) ([]byte, error)
}

const (
	// Versioned prefix to allow future key/algorithm rotations without
	// re-writing stored values.
	cipherPrefixV1 = "v1:"
	noopPrefix     = "noop:"
)

// AESGCMEncryptor implements Encryptor using AES-256-GCM.
type AESGCMEncryptor struct {
	key []byte // 32 bytes
}

// NewAESGCMEncryptor constructs an AESGCMEncryptor. Key must be 32 bytes.
func NewAESGCMEncryptor(key []byte) (*AESGCMEncryptor, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("aes-gcm key must be 32 bytes, got %d", len(key))
	}
	return &AESGCMEncryptor{key: append([]byte(nil), key...)}, nil
}

// ParseKey decodes a base64 (std encoding) key from configuration and
// builds an encryptor from it.
func ParseKey(encoded string) (*AESGCMEncryptor, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("decode cipher key: %w", err)
	}
	return NewAESGCMEncryptor(key)
}

// Encrypt seals plaintext with a random nonce and returns a versioned
// base64 string holding nonce||ciphertext.
func (e *AESGCMEncryptor) Encrypt(plaintext []byte) (string, error) {
	block, err := aes.NewCipher(e.key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, readErr := io.ReadFull(rand.Reader, nonce); readErr != nil {
		return "", readErr
	}
	ct := gcm.Seal(nil, nonce, plaintext, nil)
	buf := make([]byte, 0, len(nonce)+len(ct))
	buf = append(buf, nonce...)
	buf = append(buf, ct...)
	return cipherPrefixV1 + base64.StdEncoding.EncodeToString(buf), nil
}

// Decrypt opens a versioned base64 string created by Encrypt. Noop-prefixed
// values decrypt too, so a deployment can turn encryption on without losing
// the token it stored before the key existed.
func (e *AESGCMEncryptor) Decrypt(ciphertext string) ([]byte, error) {
	if strings.HasPrefix(ciphertext, noopPrefix) {
		decoded, err := base64.StdEncoding.DecodeString(ciphertext[len(noopPrefix):])
		if err != nil {
			return nil, fmt.Errorf("decode noop ciphertext: %w", err)
		}
		return decoded, nil
	}

	if !strings.HasPrefix(ciphertext, cipherPrefixV1) {
		prefix := ciphertext
		if len(prefix) > 10 {
			prefix = prefix[:10]
		}
		return nil, fmt.Errorf("unknown ciphertext version (prefix: %s)", prefix)
	}
	data, err := base64.StdEncoding.DecodeString(ciphertext[len(cipherPrefixV1):])
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(e.key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return nil, errors.New("ciphertext too short")
	}
	nonce, ct := data[:nonceSize], data[nonceSize:]
	return gcm.Open(nil, nonce, ct, nil)
}

// NoopEncryptor stores plaintext with a prefix marker. Useful for tests and
// for deployments that have not configured a cipher key yet.
type NoopEncryptor struct{}

func (NoopEncryptor) Encrypt(plaintext []byte) (string, error) {
	return noopPrefix + base64.StdEncoding.EncodeToString(plaintext), nil
}

func (NoopEncryptor) Decrypt(ciphertext string) ([]byte, error) {
	if !strings.HasPrefix(ciphertext, noopPrefix) {
		return nil, errors.New("invalid noop ciphertext")
	}
	return base64.StdEncoding.DecodeString(ciphertext[len(noopPrefix):])
}
