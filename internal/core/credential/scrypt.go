// Package credential hashes and verifies passwords.
//
// A credential string has the form <hex-hash>.<hex-salt>, where hash is the
// 64-byte scrypt key derived from the password and the hex salt text.
package credential

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

const (
	saltLen = 16
	keyLen  = 64
	sep     = "."
)

// Params are the scrypt cost parameters. Hashes only verify under the
// parameters they were produced with.
type Params struct {
	N int
	R int
	P int
}

// DefaultParams match the stored credentials: N=16384, r=8, p=1.
var DefaultParams = Params{N: 16384, R: 8, P: 1}

// Hasher derives and checks credential strings.
type Hasher struct {
	params Params
	dummy  string
}

// NewHasher returns a Hasher using p.
func NewHasher(p Params) *Hasher {
	return &Hasher{
		params: p,
		dummy:  strings.Repeat("0", keyLen*2) + sep + strings.Repeat("0", saltLen*2),
	}
}

// Default returns a Hasher with DefaultParams.
func Default() *Hasher {
	return NewHasher(DefaultParams)
}

// Hash returns a new credential string for password with a fresh random salt.
func (h *Hasher) Hash(password string) (string, error) {
	raw := make([]byte, saltLen)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	salt := hex.EncodeToString(raw)

	key, err := h.derive(password, salt)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(key) + sep + salt, nil
}

// Verify reports whether password matches credential. A malformed credential
// still goes through the key derivation and fails the comparison, so the
// work done does not depend on what is stored.
func (h *Hasher) Verify(password, credential string) bool {
	hashHex, salt, _ := strings.Cut(credential, sep)

	stored, err := hex.DecodeString(hashHex)
	if err != nil {
		stored = nil
	}

	derived, err := h.derive(password, salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(derived, stored) == 1
}

// VerifyDummy burns the same KDF cost as a real verification and always
// fails. Login uses it when the username does not exist.
func (h *Hasher) VerifyDummy(password string) bool {
	h.Verify(password, h.dummy)
	return false
}

func (h *Hasher) derive(password, salt string) ([]byte, error) {
	key, err := scrypt.Key([]byte(password), []byte(salt), h.params.N, h.params.R, h.params.P, keyLen)
	if err != nil {
		return nil, fmt.Errorf("scrypt: %w", err)
	}
	return key, nil
}
