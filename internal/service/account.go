package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Harshitk-cp/facturador/internal/domain"
	"github.com/Harshitk-cp/facturador/internal/store"
	"github.com/Harshitk-cp/facturador/internal/tenant"
	"github.com/Harshitk-cp/facturador/internal/validation"
	"go.uber.org/zap"
)

// SignInProvider is the credential capability the account flows compose.
type SignInProvider interface {
	Hash(password string) (string, error)
	SignIn(ctx context.Context, email, password string) (*domain.Session, error)
}

type AccountService struct {
	users  domain.UserStore
	creds  SignInProvider
	guard  *tenant.Guard
	logger *zap.Logger
}

func NewAccountService(users domain.UserStore, creds SignInProvider, guard *tenant.Guard, logger *zap.Logger) *AccountService {
	return &AccountService{users: users, creds: creds, guard: guard, logger: logger}
}

// Register creates the user and signs it in with the same credentials.
// EmailTaken is decided before any hashing or write.
func (s *AccountService) Register(ctx context.Context, reg validation.Registration) (*domain.Session, error) {
	_, err := s.users.GetByEmail(ctx, reg.Email)
	if err == nil {
		return nil, domain.ErrEmailTaken
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := s.creds.Hash(reg.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &domain.User{Email: reg.Email, PasswordHash: hash, Name: reg.Name}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.logger.Info("user registered", zap.String("user_id", u.ID.String()))

	sess, err := s.creds.SignIn(ctx, reg.Email, reg.Password)
	if err != nil {
		if de, ok := domain.AsError(err); ok && de.Kind == domain.KindAuthentication {
			return nil, de
		}
		return nil, domain.PersistenceFailure(fmt.Errorf("sign in after registration: %w", err))
	}
	return sess, nil
}

func (s *AccountService) Login(ctx context.Context, c validation.Credentials) (*domain.Session, error) {
	sess, err := s.creds.SignIn(ctx, c.Email, c.Password)
	if err != nil {
		if de, ok := domain.AsError(err); ok && de.Kind == domain.KindAuthentication {
			return nil, de
		}
		return nil, domain.ProviderFailure(err)
	}
	return sess, nil
}

// UpdateSettings overwrites the caller's profile. Moving to an email another
// user holds fails with EmailTaken and changes nothing.
func (s *AccountService) UpdateSettings(ctx context.Context, caller domain.Identity, st domain.Settings) (*domain.User, error) {
	existing, err := s.users.GetByEmail(ctx, st.Email)
	switch {
	case err == nil && existing.ID != caller.UserID:
		return nil, domain.ErrEmailTaken
	case err != nil && !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("check email: %w", err)
	}

	u, err := s.users.UpdateSettings(ctx, caller.UserID, st)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrConflict):
			return nil, domain.ErrEmailTaken
		case errors.Is(err, store.ErrNotFound):
			return nil, domain.Unauthorized(err)
		}
		return nil, fmt.Errorf("update settings: %w", err)
	}
	return u, nil
}

// Profile returns the caller's own user row.
func (s *AccountService) Profile(ctx context.Context, sess *domain.Session) (*domain.User, error) {
	id, err := s.guard.Require(sess)
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.Unauthorized(err)
		}
		s.logger.Error("load profile failed", zap.String("user_id", id.UserID.String()), zap.Error(err))
		return nil, domain.PersistenceFailure(err)
	}
	return u, nil
}
