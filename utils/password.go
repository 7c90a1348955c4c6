package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hides the password algorithm from the services.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

var ErrInvalidDigest = errors.New("invalid password digest")

// NewPasswordHasher returns the hasher named in config. Unknown names fall back to argon2id.
// Either hasher verifies digests produced by the other, so switching is safe.
func NewPasswordHasher(name string) PasswordHasher {
	if strings.EqualFold(name, "bcrypt") {
		return BcryptHasher{Cost: bcrypt.DefaultCost}
	}
	return DefaultArgon2idHasher()
}

// =============================
// Argon2id
// =============================

type Argon2idHasher struct {
	Memory  uint32 // KiB
	Time    uint32
	Threads uint8
	SaltLen uint32
	KeyLen  uint32
}

func DefaultArgon2idHasher() Argon2idHasher {
	return Argon2idHasher{Memory: 64 * 1024, Time: 1, Threads: 2, SaltLen: 16, KeyLen: 32}
}

func (h Argon2idHasher) Hash(password string) (string, error) {
	salt := make([]byte, h.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := argon2.IDKey([]byte(password), salt, h.Time, h.Memory, h.Threads, h.KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.Memory, h.Time, h.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (h Argon2idHasher) Verify(password, digest string) bool {
	if strings.HasPrefix(digest, "$2") {
		return BcryptHasher{}.Verify(password, digest)
	}
	ok, err := verifyArgon2id(password, digest)
	return err == nil && ok
}

func verifyArgon2id(password, digest string) (bool, error) {
	// $argon2id$v=19$m=65536,t=1,p=2$<salt>$<key>
	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, ErrInvalidDigest
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, ErrInvalidDigest
	}

	var memory, iterations uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return false, ErrInvalidDigest
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, ErrInvalidDigest
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, ErrInvalidDigest
	}

	got := argon2.IDKey([]byte(password), salt, iterations, memory, threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

// =============================
// bcrypt
// =============================

type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h BcryptHasher) Verify(password, digest string) bool {
	if strings.HasPrefix(digest, "$argon2id$") {
		ok, err := verifyArgon2id(password, digest)
		return err == nil && ok
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
