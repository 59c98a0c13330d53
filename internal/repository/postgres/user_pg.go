// internal/repository/postgres/user_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"customer-portal/internal/domain"
	"customer-portal/internal/repository"
	"customer-portal/internal/util"
)

const userColumns = `id, full_name, id_number, account_number, password_hash, role,
       email, phone, address, is_active, last_login, created_at`

// UserRepository implements repository.UserRepository for PostgreSQL.
type UserRepository struct {
	q repository.DBExecutor
}

// NewUserRepository creates a UserRepository bound to q (a pool or a transaction).
func NewUserRepository(q repository.DBExecutor) *UserRepository {
	return &UserRepository{q: q}
}

// CreateUser inserts a new user.
func (r *UserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (id, full_name, id_number, account_number, password_hash, role,
                                 email, phone, address, is_active, last_login, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.ExecContext(ctx, query,
		user.ID,
		user.FullName,
		user.IDNumber,
		user.AccountNumber,
		user.PasswordHash,
		user.Role,
		user.Email,
		user.Phone,
		user.Address,
		user.IsActive,
		user.LastLogin,
		user.CreatedAt,
	)
	if err != nil {
		return wrapErr("failed to create user", err)
	}
	return nil
}

// GetUserByID retrieves a user by id.
func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetUserByAccountNumber retrieves a user by account number.
func (r *UserRepository) GetUserByAccountNumber(ctx context.Context, accountNumber string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE account_number = $1`, accountNumber)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg string) (*domain.User, error) {
	var user domain.User
	err := r.q.GetContext(ctx, &user, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, wrapErr("failed to get user", err)
	}
	return &user, nil
}

// ExistsByIDNumberOrAccountNumber reports whether either identifier is already registered.
func (r *UserRepository) ExistsByIDNumberOrAccountNumber(ctx context.Context, idNumber, accountNumber string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE id_number = $1 OR account_number = $2)`
	if err := r.q.GetContext(ctx, &exists, query, idNumber, accountNumber); err != nil {
		return false, wrapErr("failed to check existing user", err)
	}
	return exists, nil
}

// UpdateUser writes the mutable user fields.
func (r *UserRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	query := `UPDATE users
              SET password_hash = $2, is_active = $3, email = $4, phone = $5, address = $6
              WHERE id = $1`
	res, err := r.q.ExecContext(ctx, query,
		user.ID, user.PasswordHash, user.IsActive, user.Email, user.Phone, user.Address)
	if err != nil {
		return wrapErr("failed to update user", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapErr("failed to update user", err)
	}
	if n == 0 {
		return fmt.Errorf("update user %s: %w", user.ID, util.ErrNotFound)
	}
	return nil
}

// RecordLogin stamps last_login on an active user.
func (r *UserRepository) RecordLogin(ctx context.Context, id string, at time.Time) error {
	res, err := r.q.ExecContext(ctx, `UPDATE users SET last_login = $2 WHERE id = $1 AND is_active`, id, at)
	if err != nil {
		return wrapErr("failed to record login", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapErr("failed to record login", err)
	}
	if n > 0 {
		return nil
	}

	var exists bool
	if err := r.q.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id); err != nil {
		return wrapErr("failed to record login", err)
	}
	if exists {
		return fmt.Errorf("record login %s: %w", id, util.ErrAccountInactive)
	}
	return fmt.Errorf("record login %s: %w", id, util.ErrNotFound)
}

// ListUsers returns all users in creation order.
func (r *UserRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	users := []domain.User{}
	if err := r.q.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY seq`); err != nil {
		return nil, wrapErr("failed to list users", err)
	}
	return users, nil
}
