package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedRecord indicates a stored ciphertext does not have the iv:cipher shape.
var ErrMalformedRecord = errors.New("malformed encrypted record")

// ErrKeyMismatch indicates the supplied access key does not match the stored one.
var ErrKeyMismatch = errors.New("access key mismatch")

const (
	accessKeyBytes = 16
	ivBytes        = 16
)

// Vault encrypts and decrypts per-student access keys with AES-256-CBC.
// Records are stored as "<ivHex>:<cipherHex>" so each ciphertext carries its IV.
type Vault struct {
	key []byte
}

// NewVault builds a vault from a hex-encoded 32-byte server key.
func NewVault(keyHex string) (*Vault, error) {
	key, err := hex.DecodeString(strings.TrimSpace(keyHex))
	if err != nil {
		return nil, fmt.Errorf("decode encryption key: %w", err)
	}

	if len(key) != 32 {
		return nil, fmt.Errorf("encryption key must be 32 bytes, got %d", len(key))
	}

	return &Vault{key: key}, nil
}

// IssuedKey carries a freshly generated access key in both forms.
// The plaintext exists only for one-time display or delivery by email.
type IssuedKey struct {
	Plain     string
	Encrypted string
}

// Issue generates a new random access key and its encrypted record.
func (v *Vault) Issue() (IssuedKey, error) {
	raw := make([]byte, accessKeyBytes)
	if _, err := rand.Read(raw); err != nil {
		return IssuedKey{}, fmt.Errorf("generate access key: %w", err)
	}

	plain := hex.EncodeToString(raw)
	encrypted, err := v.Encrypt(plain)
	if err != nil {
		return IssuedKey{}, err
	}

	return IssuedKey{Plain: plain, Encrypted: encrypted}, nil
}

// Encrypt seals the plaintext under a fresh random IV.
func (v *Vault) Encrypt(plain string) (string, error) {
	block, err := aes.NewCipher(v.key)
	if err != nil {
		return "", fmt.Errorf("init cipher: %w", err)
	}

	iv := make([]byte, ivBytes)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("generate iv: %w", err)
	}

	padded := pad([]byte(plain), block.BlockSize())
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return fmt.Sprintf("%s:%s", hex.EncodeToString(iv), hex.EncodeToString(ciphertext)), nil
}

// Decrypt opens an iv:cipher record and returns the plaintext access key.
func (v *Vault) Decrypt(record string) (string, error) {
	ivHex, cipherHex, ok := strings.Cut(record, ":")
	if !ok || ivHex == "" || cipherHex == "" {
		return "", ErrMalformedRecord
	}

	iv, err := hex.DecodeString(ivHex)
	if err != nil || len(iv) != ivBytes {
		return "", ErrMalformedRecord
	}

	ciphertext, err := hex.DecodeString(cipherHex)
	if err != nil || len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", ErrMalformedRecord
	}

	block, err := aes.NewCipher(v.key)
	if err != nil {
		return "", fmt.Errorf("init cipher: %w", err)
	}

	plain := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, ciphertext)

	unpadded, err := unpad(plain, block.BlockSize())
	if err != nil {
		return "", ErrMalformedRecord
	}

	return string(unpadded), nil
}

// Verify decrypts the stored record and compares it against the supplied key in
// constant time.
func (v *Vault) Verify(record, supplied string) error {
	stored, err := v.Decrypt(record)
	if err != nil {
		return err
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) != 1 {
		return ErrKeyMismatch
	}

	return nil
}

func pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+n)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

func unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errors.New("invalid padded length")
	}

	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, errors.New("invalid padding")
	}

	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, errors.New("invalid padding")
		}
	}

	return data[:len(data)-n], nil
}
