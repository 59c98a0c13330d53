// internal/domain/user.go
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role distinguishes customers from bank staff.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
)

// User represents a portal account holder.
type User struct {
	ID            string     `db:"id" json:"id"`
	FullName      string     `db:"full_name" json:"fullName"`
	IDNumber      string     `db:"id_number" json:"idNumber"`
	AccountNumber string     `db:"account_number" json:"accountNumber"`
	PasswordHash  string     `db:"password_hash" json:"passwordHash"`
	Role          Role       `db:"role" json:"role"`
	Email         string     `db:"email" json:"email"`
	Phone         string     `db:"phone" json:"phone"`
	Address       string     `db:"address" json:"address"`
	IsActive      bool       `db:"is_active" json:"isActive"`
	LastLogin     *time.Time `db:"last_login" json:"lastLogin"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
}

// NewUser creates an active User with a fresh identifier.
func NewUser(fullName, idNumber, accountNumber, passwordHash string, role Role) *User {
	return &User{
		ID:            uuid.NewString(),
		FullName:      fullName,
		IDNumber:      idNumber,
		AccountNumber: accountNumber,
		PasswordHash:  passwordHash,
		Role:          role,
		IsActive:      true,
		CreatedAt:     time.Now().UTC(),
	}
}

// Profile is the public view of a user returned after login.
type Profile struct {
	UserID        string     `json:"userId"`
	FullName      string     `json:"fullName"`
	Role          Role       `json:"role"`
	AccountNumber string     `json:"accountNumber"`
	LastLogin     *time.Time `json:"lastLogin"`
}

// Profile returns the public view of u.
func (u *User) Profile() Profile {
	return Profile{
		UserID:        u.ID,
		FullName:      u.FullName,
		Role:          u.Role,
		AccountNumber: u.AccountNumber,
		LastLogin:     u.LastLogin,
	}
}
