// internal/repository/jsonfile/settings_repo.go
package jsonfile

import (
	"context"

	"customer-portal/internal/domain"
)

type settingsRepository struct {
	v *view
}

func (r *settingsRepository) GetSettings(_ context.Context) (domain.SystemSettings, error) {
	return r.v.doc.SystemSettings, nil
}

func (r *settingsRepository) SaveSettings(_ context.Context, settings domain.SystemSettings) error {
	if err := r.v.write(); err != nil {
		return err
	}
	r.v.doc.SystemSettings = settings
	return nil
}
