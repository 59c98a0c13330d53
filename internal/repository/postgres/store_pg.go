// internal/repository/postgres/store_pg.go
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"customer-portal/internal/domain"
	"customer-portal/internal/repository"
	"customer-portal/internal/util"
	"customer-portal/pkg/db"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

//go:embed schema.sql
var schema string

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

// Store implements repository.Store on PostgreSQL.
type Store struct {
	db *sqlx.DB
}

// NewStore wraps an open connection pool.
func NewStore(conn *sqlx.DB) *Store {
	return &Store{db: conn}
}

// Migrate creates the schema if needed and seeds the settings row once.
func Migrate(ctx context.Context, conn *sqlx.DB, defaults domain.SystemSettings) error {
	return db.RunInTx(ctx, conn, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, schema); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
		query := `INSERT INTO system_settings (id, min_transaction_amount, max_transaction_amount)
              VALUES (1, $1, $2) ON CONFLICT (id) DO NOTHING`
		if _, err := tx.ExecContext(ctx, query, defaults.MinTransactionAmount, defaults.MaxTransactionAmount); err != nil {
			return fmt.Errorf("failed to seed system settings: %w", err)
		}
		return nil
	})
}

func bind(q repository.DBExecutor) repository.Repositories {
	return repository.Repositories{
		Users:        NewUserRepository(q),
		Transactions: NewTransactionRepository(q),
		Settings:     NewSettingsRepository(q),
	}
}

// ReadOnly runs fn against repositories bound to the connection pool.
func (s *Store) ReadOnly(ctx context.Context, fn repository.UnitOfWork) error {
	return fn(ctx, bind(s.db))
}

// WithinTx runs fn against repositories bound to a single database transaction.
// Errors returned by fn are passed through unchanged.
func (s *Store) WithinTx(ctx context.Context, fn repository.UnitOfWork) error {
	tx, err := db.BeginTx(ctx, s.db)
	if err != nil {
		return fmt.Errorf("%w: %w", util.ErrStorageFailure, err)
	}
	defer db.RollbackTx(tx)

	if err := fn(ctx, bind(tx)); err != nil {
		return err
	}
	if err := db.CommitTx(tx); err != nil {
		return fmt.Errorf("%w: %w", util.ErrStorageFailure, err)
	}
	return nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// wrapErr converts a driver error into the application taxonomy.
func wrapErr(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", op, util.ErrDuplicateAccount)
	}
	return fmt.Errorf("%s: %w: %w", op, util.ErrStorageFailure, err)
}
