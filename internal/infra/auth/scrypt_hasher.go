// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"passport/config"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/service"

	"github.com/pkg/errors"
	"golang.org/x/crypto/scrypt"
)

const (
	// Scrypt cost parameters. N=32768 (2^15), r=8, p=1 takes ~32MB of memory
	// per derivation.
	defaultScryptN = 32768
	defaultScryptR = 8
	defaultScryptP = 1

	saltLength = 16 // bytes of random salt, hex-encoded in the stored hash
	keyLength  = 32 // bytes of derived key

	hashSeparator = "."
)

// ErrMalformedHash signals a stored hash that cannot be parsed. Compare
// resolves it to "not equal"; the error is for logging, not flow control.
var ErrMalformedHash = errors.New("malformed stored hash")

// scryptHasher is a concrete implementation of the PasswordHasher interface
// using scrypt with a per-password random salt. The stored form is
// "saltHex.derivedKeyHex".
type scryptHasher struct {
	n, r, p int
}

// NewScryptHasher is the constructor for scryptHasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewScryptHasher(cfg *config.Config) service.PasswordHasher {
	n, r, p := defaultScryptN, defaultScryptR, defaultScryptP
	if cfg != nil && cfg.Auth != nil {
		if cfg.Auth.ScryptN > 0 {
			n = cfg.Auth.ScryptN
		}
		if cfg.Auth.ScryptR > 0 {
			r = cfg.Auth.ScryptR
		}
		if cfg.Auth.ScryptP > 0 {
			p = cfg.Auth.ScryptP
		}
	}

	return &scryptHasher{n: n, r: r, p: p}
}

// Hash derives a stored hash from a plaintext password with a fresh random
// salt. The salt is never reused, so hashing the same password twice yields
// two different stored hashes.
func (h *scryptHasher) Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", domainerrors.ErrKeyDerivationFailed.WrapMessage("failed to generate salt")
	}

	key, err := h.deriveKey(password, salt)
	if err != nil {
		return "", domainerrors.ErrKeyDerivationFailed.WrapMessage("failed to derive key")
	}

	return hex.EncodeToString(salt) + hashSeparator + hex.EncodeToString(key), nil
}

// Compare re-derives a key from the supplied plaintext and the salt recovered
// from the stored hash, then compares the two keys in constant time. Any
// malformed stored hash resolves to (false, ErrMalformedHash).
func (h *scryptHasher) Compare(password, storedHash string) (bool, error) {
	saltHex, expectedHex, found := strings.Cut(storedHash, hashSeparator)
	if !found {
		return false, errors.Wrap(ErrMalformedHash, "missing separator")
	}

	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false, errors.Wrap(ErrMalformedHash, "salt is not hex")
	}
	if len(salt) < saltLength {
		return false, errors.Wrap(ErrMalformedHash, "salt too short")
	}

	expected, err := hex.DecodeString(expectedHex)
	if err != nil {
		return false, errors.Wrap(ErrMalformedHash, "derived key is not hex")
	}
	if len(expected) != keyLength {
		return false, errors.Wrap(ErrMalformedHash, "unexpected derived key length")
	}

	key, err := h.deriveKey(password, salt)
	if err != nil {
		return false, domainerrors.ErrKeyDerivationFailed.WrapMessage("failed to derive key")
	}

	// subtle.ConstantTimeCompare takes time independent of where the first
	// differing byte occurs, closing the timing side-channel.
	return subtle.ConstantTimeCompare(key, expected) == 1, nil
}

func (h *scryptHasher) deriveKey(password string, salt []byte) ([]byte, error) {
	key, err := scrypt.Key([]byte(password), salt, h.n, h.r, h.p, keyLength)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return key, nil
}
