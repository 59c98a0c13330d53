// internal/repository/postgres/settings_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"

	"customer-portal/internal/domain"
	"customer-portal/internal/repository"
)

// SettingsRepository implements repository.SettingsRepository for PostgreSQL.
type SettingsRepository struct {
	q repository.DBExecutor
}

// NewSettingsRepository creates a SettingsRepository bound to q.
func NewSettingsRepository(q repository.DBExecutor) *SettingsRepository {
	return &SettingsRepository{q: q}
}

// GetSettings returns the single settings row. A missing row means no bounds.
func (r *SettingsRepository) GetSettings(ctx context.Context) (domain.SystemSettings, error) {
	var settings domain.SystemSettings
	query := `SELECT min_transaction_amount, max_transaction_amount FROM system_settings WHERE id = 1`
	if err := r.q.GetContext(ctx, &settings, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.SystemSettings{}, nil
		}
		return domain.SystemSettings{}, wrapErr("failed to get system settings", err)
	}
	return settings, nil
}

// SaveSettings upserts the settings row.
func (r *SettingsRepository) SaveSettings(ctx context.Context, settings domain.SystemSettings) error {
	query := `INSERT INTO system_settings (id, min_transaction_amount, max_transaction_amount)
              VALUES (1, $1, $2)
              ON CONFLICT (id) DO UPDATE
              SET min_transaction_amount = EXCLUDED.min_transaction_amount,
                  max_transaction_amount = EXCLUDED.max_transaction_amount`
	if _, err := r.q.ExecContext(ctx, query, settings.MinTransactionAmount, settings.MaxTransactionAmount); err != nil {
		return wrapErr("failed to save system settings", err)
	}
	return nil
}
