package database

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"os"

	"golang.org/x/crypto/pbkdf2"
)

// Message bodies are encrypted at rest when RANSOMSIM_ENCRYPTION_SECRET
// is set. Bodies are never queried by value, so a random nonce per
// message is fine.
const (
	encryptionSecretEnv = "RANSOMSIM_ENCRYPTION_SECRET"
	keyDerivationSalt   = "ransomsim-store-v1"
	keyIterations       = 100000
	keyLength           = 32
	nonceSize           = 12
)

type encryptor struct {
	gcm cipher.AEAD
}

func newEncryptor() (*encryptor, error) {
	secret := os.Getenv(encryptionSecretEnv)
	if secret == "" {
		// Encryption disabled; bodies are stored as plaintext.
		return &encryptor{}, nil
	}

	key := pbkdf2.Key([]byte(secret), []byte(keyDerivationSalt), keyIterations, keyLength, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &encryptor{gcm: gcm}, nil
}

func (e *encryptor) enabled() bool {
	return e.gcm != nil
}

func (e *encryptor) encrypt(plaintext string) (string, error) {
	if plaintext == "" || e.gcm == nil {
		return plaintext, nil
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := e.gcm.Seal(nil, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(append(nonce, ciphertext...)), nil
}

func (e *encryptor) decrypt(ciphertext string) (string, error) {
	if ciphertext == "" || e.gcm == nil {
		return ciphertext, nil
	}

	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("failed to decode base64: %w", err)
	}
	if len(data) < nonceSize {
		return "", fmt.Errorf("ciphertext too short")
	}

	plaintext, err := e.gcm.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}

	return string(plaintext), nil
}
