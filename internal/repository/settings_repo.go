// internal/repository/settings_repo.go
package repository

import (
	"context"

	"customer-portal/internal/domain"
)

// SettingsRepository reads and writes the ledger-wide settings.
type SettingsRepository interface {
	GetSettings(ctx context.Context) (domain.SystemSettings, error)
	SaveSettings(ctx context.Context, settings domain.SystemSettings) error
}
