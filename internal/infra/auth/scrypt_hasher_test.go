package auth

import (
	"encoding/hex"
	"strings"
	"testing"

	"passport/config"
	domainerrors "passport/internal/domain/errors"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

// testHasher uses lowered scrypt costs so the suite stays fast.
func testHasher() *scryptHasher {
	return &scryptHasher{n: 1024, r: 8, p: 1}
}

func TestScryptHasher_Hash(t *testing.T) {
	hasher := testHasher()

	password := "StrongPass123!"
	hash, err := hasher.Hash(password)
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)

	// Stored form is saltHex.derivedKeyHex
	saltHex, keyHex, found := strings.Cut(hash, ".")
	assert.True(t, found)

	salt, err := hex.DecodeString(saltHex)
	assert.NoError(t, err)
	assert.Len(t, salt, saltLength)

	key, err := hex.DecodeString(keyHex)
	assert.NoError(t, err)
	assert.Len(t, key, keyLength)
}

func TestScryptHasher_HashIsSalted(t *testing.T) {
	hasher := testHasher()

	password := "StrongPass123!"
	first, err := hasher.Hash(password)
	assert.NoError(t, err)
	second, err := hasher.Hash(password)
	assert.NoError(t, err)

	// Fresh salt per call, so the same password never hashes twice the same.
	assert.NotEqual(t, first, second)
}

func TestScryptHasher_Compare(t *testing.T) {
	hasher := testHasher()
	password := "StrongPass123!"

	hash, err := hasher.Hash(password)
	assert.NoError(t, err)

	ok, err := hasher.Compare(password, hash)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = hasher.Compare("WrongPassword123!", hash)
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = hasher.Compare("", hash)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestScryptHasher_CompareMalformedHash(t *testing.T) {
	hasher := testHasher()

	malformed := []string{
		"",                     // empty
		"no_separator",         // missing the dot
		"zz.ffff",              // salt is not hex
		"abcd.zz",              // key is not hex
		"abcd.ffff",            // salt too short
		strings.Repeat("ab", saltLength) + ".ffff", // key wrong length
	}

	for _, stored := range malformed {
		ok, err := hasher.Compare("AnyPassword123!", stored)
		assert.False(t, ok, "malformed hash must never verify: %q", stored)
		assert.Error(t, err, "expected parse error for: %q", stored)
		assert.True(t, errors.Is(err, ErrMalformedHash))
	}
}

func TestScryptHasher_HashErrorIsKeyDerivationFailure(t *testing.T) {
	// Invalid cost parameters make scrypt itself fail, which must surface as
	// the key-derivation domain error rather than a panic or a zero hash.
	hasher := &scryptHasher{n: 3, r: 8, p: 1} // N must be a power of two

	_, err := hasher.Hash("StrongPass123!")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrKeyDerivationFailed))

	stored := strings.Repeat("ab", saltLength) + "." + strings.Repeat("cd", keyLength)
	ok, err := hasher.Compare("StrongPass123!", stored)
	assert.False(t, ok)
	assert.True(t, errors.Is(err, domainerrors.ErrKeyDerivationFailed))
}

func TestNewScryptHasher_Defaults(t *testing.T) {
	hasher, ok := NewScryptHasher(&config.Config{}).(*scryptHasher)
	assert.True(t, ok)
	assert.Equal(t, defaultScryptN, hasher.n)
	assert.Equal(t, defaultScryptR, hasher.r)
	assert.Equal(t, defaultScryptP, hasher.p)

	custom, ok := NewScryptHasher(&config.Config{
		Auth: &config.AuthConfig{ScryptN: 1024, ScryptR: 4, ScryptP: 2},
	}).(*scryptHasher)
	assert.True(t, ok)
	assert.Equal(t, 1024, custom.n)
	assert.Equal(t, 4, custom.r)
	assert.Equal(t, 2, custom.p)
}
