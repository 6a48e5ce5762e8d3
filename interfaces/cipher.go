package interfaces

// SecretCipher encrypts and decrypts mailbox credentials at rest
type SecretCipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}
