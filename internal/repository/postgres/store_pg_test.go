// internal/repository/postgres/store_pg_test.go
package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"customer-portal/internal/domain"
	"customer-portal/internal/repository"
	"customer-portal/internal/repository/postgres"
	"customer-portal/internal/util"
	"customer-portal/pkg/db"
)

// openTestStore connects to PORTAL_TEST_DATABASE, applies the schema and
// truncates every table. The test is skipped when the variable is unset.
func openTestStore(t *testing.T) *postgres.Store {
	t.Helper()
	dsn := os.Getenv("PORTAL_TEST_DATABASE")
	if dsn == "" {
		t.Skip("PORTAL_TEST_DATABASE not set")
	}

	conn, err := db.Connect(dsn)
	require.NoError(t, err)

	ctx := context.Background()
	defaults := domain.SystemSettings{
		MinTransactionAmount: decimal.RequireFromString("0.01"),
		MaxTransactionAmount: decimal.RequireFromString("1000000.00"),
	}
	require.NoError(t, postgres.Migrate(ctx, conn, defaults))
	_, err = conn.ExecContext(ctx, "TRUNCATE TABLE transactions, users RESTART IDENTITY CASCADE;")
	require.NoError(t, err, "Failed to truncate tables")

	store := postgres.NewStore(conn)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestPostgresStoreUsers(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	user := domain.NewUser("Jane Doe", "1234567890123", "12345678", "hash", domain.RoleCustomer)
	err := store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		return repos.Users.CreateUser(ctx, user)
	})
	require.NoError(t, err)

	dup := domain.NewUser("John Doe", "1234567890123", "87654321", "hash", domain.RoleCustomer)
	err = store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		return repos.Users.CreateUser(ctx, dup)
	})
	assert.ErrorIs(t, err, util.ErrDuplicateAccount)

	err = store.ReadOnly(ctx, func(ctx context.Context, repos repository.Repositories) error {
		exists, err := repos.Users.ExistsByIDNumberOrAccountNumber(ctx, "0000000000000", "12345678")
		require.NoError(t, err)
		assert.True(t, exists)

		got, err := repos.Users.GetUserByAccountNumber(ctx, "12345678")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, domain.RoleCustomer, got.Role)

		_, err = repos.Users.GetUserByID(ctx, "missing-user-id")
		assert.ErrorIs(t, err, util.ErrNotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestPostgresRecordLogin(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	user := domain.NewUser("Jane Doe", "1234567890123", "12345678", "hash", domain.RoleCustomer)
	require.NoError(t, store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		return repos.Users.CreateUser(ctx, user)
	}))

	// Deactivate through a stale copy, then try to record a login.
	stale := *user
	stale.IsActive = false
	require.NoError(t, store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		return repos.Users.UpdateUser(ctx, &stale)
	}))

	err := store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		return repos.Users.RecordLogin(ctx, user.ID, time.Now().UTC())
	})
	assert.ErrorIs(t, err, util.ErrAccountInactive)

	err = store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		return repos.Users.RecordLogin(ctx, "missing-user-id", time.Now().UTC())
	})
	assert.ErrorIs(t, err, util.ErrNotFound)

	require.NoError(t, store.ReadOnly(ctx, func(ctx context.Context, repos repository.Repositories) error {
		got, err := repos.Users.GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.False(t, got.IsActive)
		assert.Nil(t, got.LastLogin)
		return nil
	}))
}

func TestPostgresStoreVerifyGuard(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	user := domain.NewUser("Jane Doe", "1234567890123", "12345678", "hash", domain.RoleCustomer)
	payment := domain.NewTransaction(user.ID, decimal.RequireFromString("250"), "USD", "Acme", "400500600700", "ABCDEF12", "", "")
	err := store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if err := repos.Users.CreateUser(ctx, user); err != nil {
			return err
		}
		return repos.Transactions.CreateTransaction(ctx, payment)
	})
	require.NoError(t, err)

	verify := func() error {
		return store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
			current, err := repos.Transactions.GetTransactionForUpdate(ctx, payment.ID)
			if err != nil {
				return err
			}
			if current.Status != domain.TransactionStatusPending {
				return util.ErrInvalidTransition
			}
			now := time.Now().UTC()
			if err := current.Verify(now); err != nil {
				return err
			}
			if err := current.Submit(now); err != nil {
				return err
			}
			return repos.Transactions.UpdateTransaction(ctx, current, domain.TransactionStatusPending)
		})
	}
	require.NoError(t, verify())
	assert.ErrorIs(t, verify(), util.ErrInvalidTransition)

	err = store.ReadOnly(ctx, func(ctx context.Context, repos repository.Repositories) error {
		got, err := repos.Transactions.GetTransactionByID(ctx, payment.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TransactionStatusSubmitted, got.Status)
		assert.Equal(t, "250.00", got.Amount)
		assert.NotNil(t, got.VerifiedAt)
		assert.NotNil(t, got.SubmittedToSWIFTAt)

		pending, err := repos.Transactions.ListTransactionsByStatus(ctx, domain.TransactionStatusPending)
		require.NoError(t, err)
		assert.Empty(t, pending)

		settings, err := repos.Settings.GetSettings(ctx)
		require.NoError(t, err)
		assert.True(t, settings.MinTransactionAmount.Equal(decimal.RequireFromString("0.01")))
		return nil
	})
	require.NoError(t, err)
}
