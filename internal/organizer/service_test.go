package organizer_test

import (
	"context"
	"testing"

	"github.com/discoveryevent/ticketing-backend/database"
	"github.com/discoveryevent/ticketing-backend/internal/apperr"
	"github.com/discoveryevent/ticketing-backend/internal/auditlog"
	"github.com/discoveryevent/ticketing-backend/internal/organizer"
	"github.com/discoveryevent/ticketing-backend/internal/testutil"
	"github.com/discoveryevent/ticketing-backend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newService(t *testing.T) (organizer.Service, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t, &organizer.Organizer{}, &auditlog.AuditLog{})
	svc := organizer.NewService(
		organizer.NewRepository(db),
		database.NewTransactor(db),
		utils.BcryptHasher{Cost: bcrypt.MinCost},
		auditlog.NewService(auditlog.NewRepository(db)),
	)
	return svc, db
}

func TestRegister(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, organizer.RegisterInput{Username: " crew ", Email: "crew@example.com", Password: "secret123", IP: "10.0.0.1"})
	require.NoError(t, err)
	assert.NotZero(t, resp.ID)
	assert.Equal(t, "crew", resp.Username)

	var stored organizer.Organizer
	require.NoError(t, db.First(&stored, resp.ID).Error)
	assert.NotEqual(t, "secret123", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)

	var logs int64
	db.Model(&auditlog.AuditLog{}).Where("action = ?", auditlog.ActionOrganizerRegistered).Count(&logs)
	assert.Equal(t, int64(1), logs)
}

func TestRegisterRejects(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, organizer.RegisterInput{Username: "crew", Email: "crew@example.com", Password: "secret123"})
	require.NoError(t, err)

	tests := []struct {
		name string
		in   organizer.RegisterInput
		kind apperr.Kind
	}{
		{name: "duplicate username", in: organizer.RegisterInput{Username: "crew", Email: "new@example.com", Password: "x"}, kind: apperr.KindConflict},
		{name: "duplicate email", in: organizer.RegisterInput{Username: "new", Email: "crew@example.com", Password: "x"}, kind: apperr.KindConflict},
		{name: "missing password", in: organizer.RegisterInput{Username: "new", Email: "new@example.com"}, kind: apperr.KindValidation},
		{name: "blank username", in: organizer.RegisterInput{Username: "   ", Email: "new@example.com", Password: "x"}, kind: apperr.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.in)
			require.Error(t, err)
			assert.True(t, apperr.Is(err, tt.kind), err.Error())
		})
	}

	var n int64
	db.Model(&organizer.Organizer{}).Count(&n)
	assert.Equal(t, int64(1), n)
}

// staleLookups hides existing organizers from the advisory lookups, as when
// two registrations race past them before either inserts.
type staleLookups struct {
	organizer.Repository
}

func (staleLookups) FindByUsername(context.Context, string) (*organizer.Organizer, error) {
	return nil, gorm.ErrRecordNotFound
}

func (staleLookups) FindByEmail(context.Context, string) (*organizer.Organizer, error) {
	return nil, gorm.ErrRecordNotFound
}

func TestRegisterRaceHitsUniqueIndex(t *testing.T) {
	db := testutil.NewDB(t, &organizer.Organizer{}, &auditlog.AuditLog{})
	svc := organizer.NewService(
		staleLookups{organizer.NewRepository(db)},
		database.NewTransactor(db),
		utils.BcryptHasher{Cost: bcrypt.MinCost},
		auditlog.NewService(auditlog.NewRepository(db)),
	)
	ctx := context.Background()

	_, err := svc.Register(ctx, organizer.RegisterInput{Username: "crew", Email: "crew@example.com", Password: "secret123"})
	require.NoError(t, err)

	for _, in := range []organizer.RegisterInput{
		{Username: "crew", Email: "other@example.com", Password: "secret123"},
		{Username: "other", Email: "crew@example.com", Password: "secret123"},
	} {
		_, err = svc.Register(ctx, in)
		require.Error(t, err)
		var e *apperr.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, apperr.KindConflict, e.Kind)
		assert.Equal(t, "Username or email already exists", e.Message)
	}

	var n, logs int64
	db.Model(&organizer.Organizer{}).Count(&n)
	db.Model(&auditlog.AuditLog{}).Count(&logs)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, int64(1), logs)
}

func TestLogin(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, organizer.RegisterInput{Username: "crew", Email: "crew@example.com", Password: "secret123"})
	require.NoError(t, err)

	got, err := svc.Login(ctx, organizer.LoginInput{Email: "crew@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, reg.ID, got.ID)

	_, wrongPassword := svc.Login(ctx, organizer.LoginInput{Email: "crew@example.com", Password: "nope"})
	_, unknownEmail := svc.Login(ctx, organizer.LoginInput{Email: "ghost@example.com", Password: "secret123"})
	assert.True(t, apperr.Is(wrongPassword, apperr.KindAuth))
	assert.True(t, apperr.Is(unknownEmail, apperr.KindAuth))
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())

	_, err = svc.Login(ctx, organizer.LoginInput{Email: "crew@example.com"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}
