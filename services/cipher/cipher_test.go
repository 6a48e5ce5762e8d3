package cipher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	er "github.com/intentstack/intentstack/internal/errors"
)

func TestAESCipher_RoundTrip(t *testing.T) {
	c, err := NewAESCipher("test-secret")
	require.NoError(t, err)

	encrypted, err := c.Encrypt("imap-password-123")
	require.NoError(t, err)
	assert.NotEqual(t, "imap-password-123", encrypted)
	assert.Contains(t, encrypted, ":")

	decrypted, err := c.Decrypt(encrypted)
	require.NoError(t, err)
	assert.Equal(t, "imap-password-123", decrypted)
}

func TestAESCipher_UniqueNonces(t *testing.T) {
	c, err := NewAESCipher("test-secret")
	require.NoError(t, err)

	first, err := c.Encrypt("same-value")
	require.NoError(t, err)
	second, err := c.Encrypt("same-value")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestAESCipher_MalformedCiphertext(t *testing.T) {
	c, err := NewAESCipher("test-secret")
	require.NoError(t, err)

	tests := []string{
		"",
		"no-separator",
		"zz:zz",
		"abcd",
		"dead:beef:cafe",
	}
	for _, input := range tests {
		_, err := c.Decrypt(input)
		assert.ErrorIs(t, err, er.ErrMalformedCiphertext, "input %q", input)
	}
}

func TestAESCipher_WrongSecret(t *testing.T) {
	c1, err := NewAESCipher("secret-one")
	require.NoError(t, err)
	c2, err := NewAESCipher("secret-two")
	require.NoError(t, err)

	encrypted, err := c1.Encrypt("payload")
	require.NoError(t, err)

	_, err = c2.Decrypt(encrypted)
	assert.Error(t, err)
	assert.False(t, strings.Contains(err.Error(), "payload"))
}

func TestNewAESCipher_EmptySecret(t *testing.T) {
	_, err := NewAESCipher("")
	assert.Error(t, err)
}
