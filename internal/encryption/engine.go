package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"io"

	"github.com/SaaSy-Solutions/mockforge-sub004/internal/errs"
)

func errEncryption(message string) error {
	return errs.New("encryption", errs.KindExecution, message)
}

// EncryptedValue is a string's encrypted-at-rest representation: the
// algorithm used plus a base64-encoded nonce||ciphertext payload.
type EncryptedValue struct {
	Algorithm  Algorithm `json:"algorithm"`
	Ciphertext string    `json:"ciphertext"`
}

// EncryptString encrypts plaintext under key using AES-256-GCM, the
// only algorithm this engine implements regardless of what a rule names.
func EncryptString(key Key, plaintext string) (EncryptedValue, error) {
	block, err := aes.NewCipher(normalizeKey(key.Secret))
	if err != nil {
		return EncryptedValue{}, errEncryption("failed to initialize cipher: " + err.Error())
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return EncryptedValue{}, errEncryption("failed to initialize AEAD: " + err.Error())
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return EncryptedValue{}, errEncryption("failed to generate nonce: " + err.Error())
	}

	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return EncryptedValue{
		Algorithm:  AlgorithmAES256GCM,
		Ciphertext: base64.StdEncoding.EncodeToString(sealed),
	}, nil
}

// DecryptString reverses EncryptString.
func DecryptString(key Key, value EncryptedValue) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(value.Ciphertext)
	if err != nil {
		return "", errEncryption("invalid ciphertext encoding: " + err.Error())
	}

	block, err := aes.NewCipher(normalizeKey(key.Secret))
	if err != nil {
		return "", errEncryption("failed to initialize cipher: " + err.Error())
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", errEncryption("failed to initialize AEAD: " + err.Error())
	}

	if len(raw) < gcm.NonceSize() {
		return "", errEncryption("ciphertext shorter than nonce size")
	}
	nonce, ciphertext := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", errEncryption("decryption failed: " + err.Error())
	}
	return string(plaintext), nil
}

// normalizeKey pads or truncates secret to the 32 bytes AES-256 requires,
// so callers can hand in a passphrase of any length.
func normalizeKey(secret []byte) []byte {
	key := make([]byte, 32)
	copy(key, secret)
	return key
}
