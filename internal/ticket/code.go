package ticket

import "github.com/google/uuid"

// CodeGenerator produces candidate ticket codes. Uniqueness is enforced by
// the database; the service retries on collision.
type CodeGenerator interface {
	Generate() string
}

// UUIDGenerator issues random (version 4) UUIDs in canonical form.
type UUIDGenerator struct{}

func (UUIDGenerator) Generate() string {
	return uuid.NewString()
}
