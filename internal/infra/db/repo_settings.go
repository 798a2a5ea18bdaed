package db

import (
	"context"
	"errors"
	"time"

	"crmd/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingsRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db, now: time.Now}
}

// Get is a point read. It never creates a row; a tenant with no settings yet
// yields ErrNotFound and the caller decides on the default projection.
func (r *SettingsRepository) Get(ctx context.Context, tenantID string) (*domain.GeneralSettings, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model GeneralSettingsModel
	err := r.db.WithContext(ctx).First(&model, "tenant_id = ?", tenantID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	rec := settingsToDomain(model)
	return &rec, nil
}

// Upsert lazily creates the row on first write, otherwise merges only the
// supplied fields. The existing row is read under SELECT ... FOR UPDATE so
// concurrent Upserts on the same tenant serialize on the primary key and
// disjoint partial updates both land. Different tenants never contend.
func (r *SettingsRepository) Upsert(ctx context.Context, tenantID string, patch domain.SettingsPatch) (*domain.GeneralSettings, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var result domain.GeneralSettings
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model GeneralSettingsModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&model, "tenant_id = ?", tenantID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			rec := domain.NewGeneralSettings(tenantID, patch, r.now())
			model = settingsToModel(rec)
			if err := tx.Create(&model).Error; err != nil {
				return mapWriteError(err)
			}
			result = rec
			return nil
		case err != nil:
			return err
		}

		rec := settingsToDomain(model)
		if rec.Apply(patch, r.now()) {
			model = settingsToModel(rec)
			if err := tx.Save(&model).Error; err != nil {
				return mapWriteError(err)
			}
		}
		result = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func settingsToDomain(m GeneralSettingsModel) domain.GeneralSettings {
	return domain.GeneralSettings{
		TenantID:         m.TenantID,
		Name:             m.Name,
		LogoURL:          m.LogoURL,
		WebsiteURL:       m.WebsiteURL,
		ShortDescription: m.ShortDescription,
		Mission:          m.Mission,
		Vision:           m.Vision,
		Purpose:          m.Purpose,
		CustomerProblems: m.CustomerProblems,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func settingsToModel(s domain.GeneralSettings) GeneralSettingsModel {
	return GeneralSettingsModel{
		TenantID:         s.TenantID,
		Name:             s.Name,
		LogoURL:          s.LogoURL,
		WebsiteURL:       s.WebsiteURL,
		ShortDescription: s.ShortDescription,
		Mission:          s.Mission,
		Vision:           s.Vision,
		Purpose:          s.Purpose,
		CustomerProblems: s.CustomerProblems,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}
