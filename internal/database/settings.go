// file: internal/database/settings.go
// version: 2.0.0
// guid: 8a7b6c5d-4e3f-2a1b-0c9d-8e7f6a5b4c3d

package database

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/jdfalk/asset-store/internal/logger"
)

// Setting represents a stored configuration setting
type Setting struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	Type     string `json:"type"`      // "string", "int", "bool", "json"
	IsSecret bool   `json:"is_secret"` // If true, value is encrypted
}

// Encryption key derivation and storage
var (
	keyMu         sync.RWMutex
	encryptionKey []byte
)

// InitEncryption initializes or loads the encryption key
func InitEncryption(dataDir string) error {
	keyPath := filepath.Join(dataDir, ".encryption_key")

	// Try to load existing key
	if data, err := os.ReadFile(keyPath); err == nil {
		return SetEncryptionKey(data)
	}

	key := make([]byte, 32) // AES-256
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return fmt.Errorf("failed to generate encryption key: %w", err)
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return fmt.Errorf("failed to create key directory: %w", err)
	}
	// Save key with restrictive permissions
	if err := os.WriteFile(keyPath, key, 0o600); err != nil {
		return fmt.Errorf("failed to save encryption key: %w", err)
	}
	return SetEncryptionKey(key)
}

// SetEncryptionKey installs a 32-byte AES key directly. A nil key disables
// encryption.
func SetEncryptionKey(key []byte) error {
	if key != nil && len(key) != 32 {
		return fmt.Errorf("invalid encryption key length: %d", len(key))
	}
	keyMu.Lock()
	defer keyMu.Unlock()
	encryptionKey = key
	return nil
}

// EncryptionEnabled reports whether a key is installed.
func EncryptionEnabled() bool {
	keyMu.RLock()
	defer keyMu.RUnlock()
	return encryptionKey != nil
}

// DeriveKeyFromPassword can be used as alternative to random key
func DeriveKeyFromPassword(password string) []byte {
	hash := sha256.Sum256([]byte(password))
	return hash[:]
}

func newGCM() (cipher.AEAD, error) {
	keyMu.RLock()
	key := encryptionKey
	keyMu.RUnlock()
	if key == nil {
		return nil, fmt.Errorf("encryption key not initialized")
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// EncryptValue encrypts a plaintext value
func EncryptValue(plaintext string) (string, error) {
	gcm, err := newGCM()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// DecryptValue decrypts an encrypted value
func DecryptValue(encrypted string) (string, error) {
	gcm, err := newGCM()
	if err != nil {
		return "", err
	}

	ciphertext, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return "", fmt.Errorf("ciphertext too short")
	}

	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}

// storedValue encrypts value when the setting is a secret.
func storedValue(value string, isSecret bool) (string, error) {
	if !isSecret || value == "" {
		return value, nil
	}
	encrypted, err := EncryptValue(value)
	if err != nil {
		return "", fmt.Errorf("encryption failed: %w", err)
	}
	return encrypted, nil
}

// maskForList hides secret values in list views.
func maskForList(s *Setting) {
	if s.IsSecret && s.Value != "" {
		s.Value = logger.MaskSecret(s.Value)
	}
}

// GetDecryptedSetting returns the plaintext value of key.
func GetDecryptedSetting(store Store, key string) (string, error) {
	setting, err := store.GetSetting(key)
	if err != nil {
		return "", err
	}

	if !setting.IsSecret || setting.Value == "" {
		return setting.Value, nil
	}

	return DecryptValue(setting.Value)
}
