// internal/repository/jsonfile/user_repo.go
package jsonfile

import (
	"context"
	"fmt"
	"time"

	"customer-portal/internal/domain"
	"customer-portal/internal/util"
)

type userRepository struct {
	v *view
}

func (r *userRepository) CreateUser(_ context.Context, user *domain.User) error {
	if r.taken(user.IDNumber, user.AccountNumber) {
		return fmt.Errorf("failed to create user: %w", util.ErrDuplicateAccount)
	}
	if err := r.v.write(); err != nil {
		return err
	}
	r.v.doc.Users = append(r.v.doc.Users, *user)
	return nil
}

func (r *userRepository) find(match func(*domain.User) bool) (*domain.User, error) {
	for i := range r.v.doc.Users {
		if match(&r.v.doc.Users[i]) {
			u := r.v.doc.Users[i]
			return &u, nil
		}
	}
	return nil, util.ErrNotFound
}

func (r *userRepository) GetUserByID(_ context.Context, id string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.ID == id })
}

func (r *userRepository) GetUserByAccountNumber(_ context.Context, accountNumber string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.AccountNumber == accountNumber })
}

func (r *userRepository) taken(idNumber, accountNumber string) bool {
	_, err := r.find(func(u *domain.User) bool {
		return u.IDNumber == idNumber || u.AccountNumber == accountNumber
	})
	return err == nil
}

func (r *userRepository) ExistsByIDNumberOrAccountNumber(_ context.Context, idNumber, accountNumber string) (bool, error) {
	return r.taken(idNumber, accountNumber), nil
}

func (r *userRepository) UpdateUser(_ context.Context, user *domain.User) error {
	for i := range r.v.doc.Users {
		stored := &r.v.doc.Users[i]
		if stored.ID != user.ID {
			continue
		}
		if err := r.v.write(); err != nil {
			return err
		}
		stored.PasswordHash = user.PasswordHash
		stored.IsActive = user.IsActive
		stored.Email = user.Email
		stored.Phone = user.Phone
		stored.Address = user.Address
		return nil
	}
	return fmt.Errorf("update user %s: %w", user.ID, util.ErrNotFound)
}

func (r *userRepository) RecordLogin(_ context.Context, id string, at time.Time) error {
	for i := range r.v.doc.Users {
		stored := &r.v.doc.Users[i]
		if stored.ID != id {
			continue
		}
		if !stored.IsActive {
			return fmt.Errorf("record login %s: %w", id, util.ErrAccountInactive)
		}
		if err := r.v.write(); err != nil {
			return err
		}
		stored.LastLogin = &at
		return nil
	}
	return fmt.Errorf("record login %s: %w", id, util.ErrNotFound)
}

func (r *userRepository) ListUsers(_ context.Context) ([]domain.User, error) {
	users := make([]domain.User, len(r.v.doc.Users))
	copy(users, r.v.doc.Users)
	return users, nil
}
