package cryptoutil

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestAESGCMEncryptor_RoundTrip(t *testing.T) {
	enc, err := NewAESGCMEncryptor(testKey(t))
	require.NoError(t, err)

	plaintext := []byte("gho_secrettoken123")
	ciphertext, err := enc.Encrypt(plaintext)
	require.NoError(t, err)
	assert.NotContains(t, ciphertext, "secrettoken")

	decrypted, err := enc.Decrypt(ciphertext)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(plaintext, decrypted))
}

func TestAESGCMEncryptor_NonceMakesCiphertextsUnique(t *testing.T) {
	enc, err := NewAESGCMEncryptor(testKey(t))
	require.NoError(t, err)

	a, err := enc.Encrypt([]byte("same input"))
	require.NoError(t, err)
	b, err := enc.Encrypt([]byte("same input"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestAESGCMEncryptor_WrongKeyFails(t *testing.T) {
	enc1, err := NewAESGCMEncryptor(testKey(t))
	require.NoError(t, err)
	enc2, err := NewAESGCMEncryptor(testKey(t))
	require.NoError(t, err)

	ciphertext, err := enc1.Encrypt([]byte("token"))
	require.NoError(t, err)

	_, err = enc2.Decrypt(ciphertext)
	require.Error(t, err)
}

func TestAESGCMEncryptor_KeyLengthValidation(t *testing.T) {
	_, err := NewAESGCMEncryptor(make([]byte, 16))
	require.Error(t, err)

	_, err = NewAESGCMEncryptor(nil)
	require.Error(t, err)
}

func TestAESGCMEncryptor_DecryptsNoopValues(t *testing.T) {
	// Values stored before a cipher key was configured remain readable.
	noopValue, err := NoopEncryptor{}.Encrypt([]byte("legacy-token"))
	require.NoError(t, err)

	enc, err := NewAESGCMEncryptor(testKey(t))
	require.NoError(t, err)

	decrypted, err := enc.Decrypt(noopValue)
	require.NoError(t, err)
	assert.Equal(t, "legacy-token", string(decrypted))
}

func TestAESGCMEncryptor_RejectsUnknownVersion(t *testing.T) {
	enc, err := NewAESGCMEncryptor(testKey(t))
	require.NoError(t, err)

	_, err = enc.Decrypt("v9:doesnotexist")
	require.Error(t, err)

	_, err = enc.Decrypt("not a ciphertext at all")
	require.Error(t, err)
}

func TestParseKey(t *testing.T) {
	_, err := ParseKey(base64.StdEncoding.EncodeToString(make([]byte, 32)))
	require.NoError(t, err)

	_, err = ParseKey("not-base64!!!")
	require.Error(t, err)

	_, err = ParseKey(base64.StdEncoding.EncodeToString(make([]byte, 8)))
	require.Error(t, err)
}

func TestNoopEncryptor(t *testing.T) {
	value, err := NoopEncryptor{}.Encrypt([]byte("plain"))
	require.NoError(t, err)

	decrypted, err := NoopEncryptor{}.Decrypt(value)
	require.NoError(t, err)
	assert.Equal(t, "plain", string(decrypted))

	_, err = NoopEncryptor{}.Decrypt("v1:something")
	require.Error(t, err)
}
