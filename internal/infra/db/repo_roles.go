package db

import (
	"context"

	"gorm.io/gorm"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) ListRoleNames(ctx context.Context) ([]string, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var names []string
	err := r.db.WithContext(ctx).
		Model(&RoleModel{}).
		Order("id").
		Pluck("name", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}
