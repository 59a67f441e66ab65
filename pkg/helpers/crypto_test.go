package helpers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptorRoundTrip(t *testing.T) {
	e, err := NewEncryptor(GenerateSecretKey(32))
	require.NoError(t, err)

	cipher, err := e.Encrypt("sensitive value")
	require.NoError(t, err)
	require.NotContains(t, cipher, "sensitive")

	plain, err := e.Decrypt(cipher)
	require.NoError(t, err)
	assert.Equal(t, "sensitive value", plain)
}

func TestEncryptorNoncePerMessage(t *testing.T) {
	e, err := NewEncryptor("")
	require.NoError(t, err)

	a, err := e.Encrypt("same input")
	require.NoError(t, err)
	b, err := e.Encrypt("same input")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestEncryptorRejectsForeignKey(t *testing.T) {
	a, err := NewEncryptor("")
	require.NoError(t, err)
	b, err := NewEncryptor("")
	require.NoError(t, err)

	cipher, err := a.Encrypt("secret")
	require.NoError(t, err)

	_, err = b.Decrypt(cipher)
	assert.Error(t, err)
}

func TestNewEncryptorKeyValidation(t *testing.T) {
	_, err := NewEncryptor("not-hex")
	assert.Error(t, err)

	_, err = NewEncryptor(strings.Repeat("ab", 16)) // 16 bytes, too short
	assert.Error(t, err)

	_, err = NewEncryptor(strings.Repeat("ab", 32))
	assert.NoError(t, err)
}

func TestDecryptRejectsGarbage(t *testing.T) {
	e, err := NewEncryptor("")
	require.NoError(t, err)

	_, err = e.Decrypt("zz")
	assert.Error(t, err)

	_, err = e.Decrypt("abcd")
	assert.Error(t, err)
}
