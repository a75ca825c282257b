// Package crypto contains the password-derived keystream used to obfuscate payloads
package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
)

const (
	SaltSize = 16
	HashSize = sha256.Size
)

// KeyStream is a deterministic byte stream derived from a password and salt.
// It is an obfuscator, not an authenticated cipher.
type KeyStream struct {
	material []byte
}

func NewKeyStream(password string, salt []byte) *KeyStream {
	return &KeyStream{
		material: keyMaterial(password, salt),
	}
}

// Derive returns exactly length bytes of SHA-256(password || hex(salt) || counter)
// digests, counter counting up from 0 in decimal.
func (ks *KeyStream) Derive(length int) []byte {
	if length <= 0 {
		return []byte{}
	}

	out := make([]byte, 0, length+HashSize)
	for counter := 0; len(out) < length; counter++ {
		h := sha256.New()
		h.Write(ks.material)
		h.Write([]byte(strconv.Itoa(counter)))
		out = h.Sum(out)
	}

	return out[:length]
}

func (ks *KeyStream) Encrypt(plaintext []byte) []byte {
	return Apply(plaintext, ks.Derive(len(plaintext)))
}

func (ks *KeyStream) Decrypt(ciphertext []byte) []byte {
	return Apply(ciphertext, ks.Derive(len(ciphertext)))
}

// Apply XORs data with keystream. Applying it twice restores data.
// keystream must be at least as long as data.
func Apply(data, keystream []byte) []byte {
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = b ^ keystream[i]
	}
	return out
}

// PasswordHash is the verification digest stored in the header.
func PasswordHash(password string, salt []byte) [HashSize]byte {
	return sha256.Sum256(keyMaterial(password, salt))
}

func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// ValidatePassword rejects passwords that cannot be stored usefully.
// An empty password is valid and means "no protection".
func ValidatePassword(password string) error {
	if len(password) > 256 {
		return fmt.Errorf("password length cannot exceed 256 characters")
	}
	return nil
}

func keyMaterial(password string, salt []byte) []byte {
	return []byte(password + hex.EncodeToString(salt))
}
