package cipher

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"io"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/scrypt"

	"github.com/intentstack/intentstack/interfaces"
	er "github.com/intentstack/intentstack/internal/errors"
)

const (
	keyLength = 32
	saltValue = "intentstack-credentials"
)

type aesCipher struct {
	key []byte
}

// NewAESCipher derives a 256-bit key from the configured secret and
// returns a cipher that seals values with AES-GCM. Output format is
// hex(nonce) + ":" + hex(ciphertext).
func NewAESCipher(secret string) (interfaces.SecretCipher, error) {
	if secret == "" {
		return nil, errors.New("encryption secret is empty")
	}
	key, err := scrypt.Key([]byte(secret), []byte(saltValue), 32768, 8, 1, keyLength)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive encryption key")
	}
	return &aesCipher{key: key}, nil
}

func (c *aesCipher) Encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", errors.Wrap(err, "failed to generate nonce")
	}

	sealed := gcm.Seal(nil, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(nonce) + ":" + hex.EncodeToString(sealed), nil
}

func (c *aesCipher) Decrypt(ciphertext string) (string, error) {
	parts := strings.Split(ciphertext, ":")
	if len(parts) != 2 {
		return "", er.ErrMalformedCiphertext
	}

	nonce, err := hex.DecodeString(parts[0])
	if err != nil {
		return "", er.ErrMalformedCiphertext
	}
	sealed, err := hex.DecodeString(parts[1])
	if err != nil {
		return "", er.ErrMalformedCiphertext
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	if len(nonce) != gcm.NonceSize() {
		return "", er.ErrMalformedCiphertext
	}

	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to decrypt value")
	}
	return string(plaintext), nil
}
