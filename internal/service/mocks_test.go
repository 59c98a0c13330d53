// internal/service/mocks_test.go
package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"customer-portal/internal/domain"
	"customer-portal/internal/repository"

	"github.com/stretchr/testify/mock"
)

// MockStore is a mock implementation of repository.Store. Units of work run
// against the mock repositories it holds.
type MockStore struct {
	mock.Mock
	Users        *MockUserRepository
	Transactions *MockTransactionRepository
	Settings     *MockSettingsRepository
}

func newMockStore() *MockStore {
	return &MockStore{
		Users:        new(MockUserRepository),
		Transactions: new(MockTransactionRepository),
		Settings:     new(MockSettingsRepository),
	}
}

func (m *MockStore) repos() repository.Repositories {
	return repository.Repositories{Users: m.Users, Transactions: m.Transactions, Settings: m.Settings}
}

func (m *MockStore) ReadOnly(ctx context.Context, fn repository.UnitOfWork) error {
	if err := m.Called(ctx).Error(0); err != nil {
		return err
	}
	return fn(ctx, m.repos())
}

func (m *MockStore) WithinTx(ctx context.Context, fn repository.UnitOfWork) error {
	if err := m.Called(ctx).Error(0); err != nil {
		return err
	}
	return fn(ctx, m.repos())
}

func (m *MockStore) Close() error {
	return m.Called().Error(0)
}

func (m *MockStore) AssertRepos(t mock.TestingT) {
	m.Users.AssertExpectations(t)
	m.Transactions.AssertExpectations(t)
	m.Settings.AssertExpectations(t)
}

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByAccountNumber(ctx context.Context, accountNumber string) (*domain.User, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByIDNumberOrAccountNumber(ctx context.Context, idNumber, accountNumber string) (bool, error) {
	args := m.Called(ctx, idNumber, accountNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) RecordLogin(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockUserRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

// MockTransactionRepository is a mock implementation of repository.TransactionRepository.
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) CreateTransaction(ctx context.Context, transaction *domain.Transaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetTransactionByID(ctx context.Context, id string) (*domain.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) GetTransactionForUpdate(ctx context.Context, id string) (*domain.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByUserID(ctx context.Context, userID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByStatus(ctx context.Context, status domain.TransactionStatus) ([]domain.Transaction, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) UpdateTransaction(ctx context.Context, transaction *domain.Transaction, expected domain.TransactionStatus) error {
	args := m.Called(ctx, transaction, expected)
	return args.Error(0)
}

// MockSettingsRepository is a mock implementation of repository.SettingsRepository.
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) GetSettings(ctx context.Context) (domain.SystemSettings, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.SystemSettings), args.Error(1)
}

func (m *MockSettingsRepository) SaveSettings(ctx context.Context, settings domain.SystemSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
