package organizer

import (
	"context"
	"strings"

	"github.com/discoveryevent/ticketing-backend/database"
	"github.com/discoveryevent/ticketing-backend/internal/apperr"
	"github.com/discoveryevent/ticketing-backend/internal/auditlog"
	"github.com/discoveryevent/ticketing-backend/utils"
	"github.com/sirupsen/logrus"
)

const (
	msgMissingRegister = "Missing username, email, or password"
	msgMissingLogin    = "Missing email or password"
	msgDuplicate       = "Username or email already exists"
	msgBadCredentials  = "Invalid email or password"
)

type Service interface {
	Register(ctx context.Context, in RegisterInput) (*Response, error)
	Login(ctx context.Context, in LoginInput) (*Response, error)
}

type service struct {
	repo   Repository
	tx     database.Transactor
	hasher utils.PasswordHasher
	audit  auditlog.Service

	// compared against when the email is unknown so both failure paths cost the same
	dummyDigest string
}

func NewService(r Repository, tx database.Transactor, hasher utils.PasswordHasher, audit auditlog.Service) Service {
	dummy, err := hasher.Hash("dummy-password-for-timing")
	if err != nil {
		logrus.WithError(err).Warn("could not precompute dummy password digest")
	}
	return &service{repo: r, tx: tx, hasher: hasher, audit: audit, dummyDigest: dummy}
}

// =============================
// Register
// =============================

func (s *service) Register(ctx context.Context, in RegisterInput) (*Response, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, apperr.Validation(msgMissingRegister)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperr.Persistence("Error registering organizer", err)
	}

	var created *Organizer
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		// Advisory only: the unique indexes are authoritative.
		if _, err := s.repo.FindByUsername(ctx, in.Username); err == nil {
			return apperr.Conflict(msgDuplicate)
		} else if !apperr.IsNotFound(err) {
			return apperr.Persistence("Error registering organizer", err)
		}
		if _, err := s.repo.FindByEmail(ctx, in.Email); err == nil {
			return apperr.Conflict(msgDuplicate)
		} else if !apperr.IsNotFound(err) {
			return apperr.Persistence("Error registering organizer", err)
		}

		o := &Organizer{Username: in.Username, Email: in.Email, PasswordHash: hash}
		if err := s.repo.Create(ctx, o); err != nil {
			if apperr.IsUniqueViolation(err) {
				return apperr.Conflict(msgDuplicate)
			}
			return apperr.Persistence("Error registering organizer", err)
		}

		if s.audit != nil {
			if err := s.audit.LogAction(ctx, auditlog.Entry{
				OrganizerID: &o.ID,
				Action:      auditlog.ActionOrganizerRegistered,
				Details:     map[string]interface{}{"username": o.Username},
				IP:          in.IP,
			}); err != nil {
				return apperr.Persistence("Error registering organizer", err)
			}
		}

		created = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := created.ToResponse()
	return &resp, nil
}

// =============================
// Login
// =============================

// Login only checks credentials; no session or token is issued.
func (s *service) Login(ctx context.Context, in LoginInput) (*Response, error) {
	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" || in.Password == "" {
		return nil, apperr.Validation(msgMissingLogin)
	}

	o, err := s.repo.FindByEmail(ctx, in.Email)
	if err != nil {
		if !apperr.IsNotFound(err) {
			return nil, apperr.Persistence("Error logging in", err)
		}
		if s.dummyDigest != "" {
			s.hasher.Verify(in.Password, s.dummyDigest)
		}
		return nil, apperr.Auth(msgBadCredentials)
	}

	if !s.hasher.Verify(in.Password, o.PasswordHash) {
		return nil, apperr.Auth(msgBadCredentials)
	}

	resp := o.ToResponse()
	return &resp, nil
}
