package usecase

import (
	"context"
	"errors"

	"crmd/internal/domain"
)

// SettingsStore is the tenant settings access path, normally the
// read-through cache over the gorm repository.
type SettingsStore interface {
	Get(ctx context.Context, tenantID string) (*domain.GeneralSettings, error)
	Upsert(ctx context.Context, tenantID string, patch domain.SettingsPatch) (*domain.GeneralSettings, error)
}

type SettingsService struct {
	store SettingsStore
}

func NewSettingsService(store SettingsStore) *SettingsService {
	return &SettingsService{store: store}
}

// Get returns the tenant's settings, or the default projection when the row
// does not exist yet. The default is never persisted by a read.
func (s *SettingsService) Get(ctx context.Context, tenantID string) (*domain.GeneralSettings, error) {
	rec, err := s.store.Get(ctx, tenantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			def := domain.DefaultSettings(tenantID)
			return &def, nil
		}
		return nil, err
	}
	return rec, nil
}

// Update applies a partial update, creating the row on first write.
func (s *SettingsService) Update(ctx context.Context, tenantID string, patch domain.SettingsPatch) (*domain.GeneralSettings, error) {
	return s.store.Upsert(ctx, tenantID, patch)
}
