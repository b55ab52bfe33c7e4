package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// Derivation parameters shared by the hash and verify paths. The iteration
// count is the only defense against offline brute force once a dump leaks;
// bump it (and re-hash on next login) as hardware improves.
const (
	pbkdf2Iterations = 310_000
	keyLength        = 32
	saltLength       = 16
)

// HashPassword derives a storage hash for a password with a fresh random
// salt. Both return values are standard base64 text, stored as separate
// columns.
func HashPassword(password string) (hash, salt string, err error) {
	rawSalt := make([]byte, saltLength)
	if _, err := rand.Read(rawSalt); err != nil {
		return "", "", fmt.Errorf("generating salt: %w", err)
	}
	salt = base64.StdEncoding.EncodeToString(rawSalt)
	return deriveHash(password, rawSalt), salt, nil
}

// HashPasswordWithSalt re-derives the storage hash for a password against a
// previously stored base64 salt.
func HashPasswordWithSalt(password, salt string) (string, error) {
	rawSalt, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return "", fmt.Errorf("decoding salt: %w", err)
	}
	return deriveHash(password, rawSalt), nil
}

// VerifyPassword reports whether password matches the stored hash+salt pair.
// A corrupt stored salt is a derivation failure, not a mismatch: it comes
// back as an error so callers surface it instead of replying "wrong password".
func VerifyPassword(password, salt, expectedHash string) (bool, error) {
	derived, err := HashPasswordWithSalt(password, salt)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare([]byte(derived), []byte(expectedHash)) == 1, nil
}

func deriveHash(password string, salt []byte) string {
	key := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, keyLength, sha256.New)
	return base64.StdEncoding.EncodeToString(key)
}
