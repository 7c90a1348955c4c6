package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func fastArgon() Argon2idHasher {
	return Argon2idHasher{Memory: 1024, Time: 1, Threads: 1, SaltLen: 16, KeyLen: 32}
}

func TestPasswordHashers(t *testing.T) {
	tests := []struct {
		name   string
		hasher PasswordHasher
		prefix string
	}{
		{name: "argon2id", hasher: fastArgon(), prefix: "$argon2id$"},
		{name: "bcrypt", hasher: BcryptHasher{Cost: bcrypt.MinCost}, prefix: "$2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			digest, err := tt.hasher.Hash("s3cret-pass")
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(digest, tt.prefix))
			assert.NotContains(t, digest, "s3cret-pass")

			assert.True(t, tt.hasher.Verify("s3cret-pass", digest))
			assert.False(t, tt.hasher.Verify("wrong", digest))

			again, err := tt.hasher.Hash("s3cret-pass")
			require.NoError(t, err)
			assert.NotEqual(t, digest, again, "digests must be salted")
		})
	}
}

func TestHashersVerifyEachOther(t *testing.T) {
	argon := fastArgon()
	bc := BcryptHasher{Cost: bcrypt.MinCost}

	a, err := argon.Hash("pw")
	require.NoError(t, err)
	b, err := bc.Hash("pw")
	require.NoError(t, err)

	assert.True(t, bc.Verify("pw", a))
	assert.True(t, argon.Verify("pw", b))
}

func TestArgon2idRejectsMalformedDigest(t *testing.T) {
	h := fastArgon()
	for _, digest := range []string{"", "plain", "$argon2id$v=19$m=x$salt$key", "$argon2id$v=1$m=1,t=1,p=1$AA$AA"} {
		assert.False(t, h.Verify("pw", digest), digest)
	}
}

func TestNewPasswordHasher(t *testing.T) {
	assert.IsType(t, BcryptHasher{}, NewPasswordHasher("BCRYPT"))
	assert.IsType(t, Argon2idHasher{}, NewPasswordHasher("argon2id"))
	assert.IsType(t, Argon2idHasher{}, NewPasswordHasher("unknown"))
}
