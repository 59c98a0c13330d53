// internal/repository/user_repo.go
package repository

import (
	"context"
	"time"

	"customer-portal/internal/domain"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	// CreateUser adds a new user. A clash on idNumber or accountNumber returns util.ErrDuplicateAccount.
	CreateUser(ctx context.Context, user *domain.User) error
	// GetUserByID retrieves a user by id, or util.ErrNotFound.
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	// GetUserByAccountNumber retrieves a user by account number, or util.ErrNotFound.
	GetUserByAccountNumber(ctx context.Context, accountNumber string) (*domain.User, error)
	// ExistsByIDNumberOrAccountNumber reports whether either identifier is already taken.
	ExistsByIDNumberOrAccountNumber(ctx context.Context, idNumber, accountNumber string) (bool, error)
	// UpdateUser persists the profile fields of user (password hash, active flag, contact details).
	UpdateUser(ctx context.Context, user *domain.User) error
	// RecordLogin stamps the last login of an active user and touches nothing else.
	// It returns util.ErrAccountInactive for a deactivated user and util.ErrNotFound
	// for an unknown id.
	RecordLogin(ctx context.Context, id string, at time.Time) error
	// ListUsers returns every user in creation order.
	ListUsers(ctx context.Context) ([]domain.User, error)
}
