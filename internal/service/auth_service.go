// internal/service/auth_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"customer-portal/internal/domain"
	"customer-portal/internal/repository"
	"customer-portal/internal/util"
	"customer-portal/pkg/validation"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor used when none is configured.
const DefaultBcryptCost = 12

// RegisterInput carries the raw registration form.
type RegisterInput struct {
	FullName      string
	IDNumber      string
	AccountNumber string
	Password      string
}

// AuthService defines the credential operations.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Authenticate(ctx context.Context, accountNumber, password string) (*domain.User, error)
	CreateStaff(ctx context.Context, in RegisterInput) (*domain.User, error)
	SetActive(ctx context.Context, accountNumber string, active bool) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	Rehash(ctx context.Context) (int, error)
}

// authService implements the AuthService interface.
type authService struct {
	store     repository.Store
	logger    *slog.Logger
	cost      int
	dummyHash []byte
	now       func() time.Time
}

// NewAuthService creates a new AuthService. A cost outside bcrypt's range
// falls back to DefaultBcryptCost.
func NewAuthService(store repository.Store, logger *slog.Logger, cost int) (AuthService, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("timing-equaliser-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("auth service: prepare dummy hash: %w", err)
	}
	return &authService{
		store:     store,
		logger:    logger,
		cost:      cost,
		dummyHash: dummy,
		now:       time.Now,
	}, nil
}

// Register creates a customer account.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	user, err := s.create(ctx, in, domain.RoleCustomer)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	s.logger.Info("Customer registered", "user_id", user.ID)
	return user, nil
}

// CreateStaff creates a staff account. It is reachable only from operator tooling.
func (s *authService) CreateStaff(ctx context.Context, in RegisterInput) (*domain.User, error) {
	user, err := s.create(ctx, in, domain.RoleStaff)
	if err != nil {
		return nil, fmt.Errorf("create staff: %w", err)
	}
	s.logger.Info("Staff account created", "user_id", user.ID)
	return user, nil
}

func (s *authService) create(ctx context.Context, in RegisterInput, role domain.Role) (*domain.User, error) {
	v := &validation.Validator{}
	fullName := v.Field(validation.FullName, in.FullName)
	idNumber := v.Field(validation.IDNumber, in.IDNumber)
	accountNumber := v.Field(validation.AccountNumber, in.AccountNumber)
	password := v.Field(validation.Password, in.Password)
	if err := v.Err(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := domain.NewUser(fullName, idNumber, accountNumber, string(hash), role)

	err = s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		exists, err := repos.Users.ExistsByIDNumberOrAccountNumber(ctx, idNumber, accountNumber)
		if err != nil {
			return err
		}
		if exists {
			return util.ErrDuplicateAccount
		}
		return repos.Users.CreateUser(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies the credentials and records the login time.
// The password is checked before the active flag so an inactive account is
// only revealed to a caller who knows its password.
func (s *authService) Authenticate(ctx context.Context, accountNumber, password string) (*domain.User, error) {
	v := &validation.Validator{}
	account := v.Field(validation.AccountNumber, accountNumber)
	plain := v.Field(validation.Password, password)
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	var user *domain.User
	err := s.store.ReadOnly(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		user, err = repos.Users.GetUserByAccountNumber(ctx, account)
		return err
	})
	if errors.Is(err, util.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(plain))
		return nil, fmt.Errorf("authenticate: %w", util.ErrInvalidCredentials)
	}
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(plain)); err != nil {
		s.logger.Warn("Failed login", "user_id", user.ID)
		return nil, fmt.Errorf("authenticate: %w", util.ErrInvalidCredentials)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("authenticate: %w", util.ErrAccountInactive)
	}

	// Only last_login is written, so a deactivation or rehash committed since
	// the read above is kept; a deactivation also fails the login here.
	now := s.now().UTC()
	err = s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		return repos.Users.RecordLogin(ctx, user.ID, now)
	})
	if errors.Is(err, util.ErrAccountInactive) {
		return nil, fmt.Errorf("authenticate: %w", util.ErrAccountInactive)
	}
	if err != nil {
		return nil, fmt.Errorf("authenticate: record login: %w", err)
	}
	user.LastLogin = &now
	return user, nil
}

// SetActive activates or deactivates the account with the given number.
func (s *authService) SetActive(ctx context.Context, accountNumber string, active bool) (*domain.User, error) {
	account, err := validation.AccountNumber.Clean(accountNumber)
	if err != nil {
		return nil, fmt.Errorf("set active: %w", err)
	}

	var user *domain.User
	err = s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		u, err := repos.Users.GetUserByAccountNumber(ctx, account)
		if err != nil {
			return err
		}
		u.IsActive = active
		if err := repos.Users.UpdateUser(ctx, u); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("set active: %w", err)
	}
	s.logger.Info("Account activation changed", "user_id", user.ID, "active", active)
	return user, nil
}

// ListUsers returns every account in creation order.
func (s *authService) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := s.store.ReadOnly(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		users, err = repos.Users.ListUsers(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Rehash replaces any stored password that is not yet a bcrypt hash with its
// bcrypt hash. It returns the number of records changed.
func (s *authService) Rehash(ctx context.Context) (int, error) {
	changed := 0
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		users, err := repos.Users.ListUsers(ctx)
		if err != nil {
			return err
		}
		for i := range users {
			u := &users[i]
			if u.PasswordHash == "" {
				continue
			}
			if _, err := bcrypt.Cost([]byte(u.PasswordHash)); err == nil {
				continue
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(u.PasswordHash), s.cost)
			if err != nil {
				return fmt.Errorf("hash password for %s: %w", u.ID, err)
			}
			u.PasswordHash = string(hash)
			if err := repos.Users.UpdateUser(ctx, u); err != nil {
				return err
			}
			changed++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("rehash: %w", err)
	}
	return changed, nil
}
