package db

import (
	"context"
	"errors"
	"strings"

	"crmd/internal/domain"

	"gorm.io/gorm"
)

type PrincipalRepository struct {
	db *gorm.DB
}

func NewPrincipalRepository(db *gorm.DB) *PrincipalRepository {
	return &PrincipalRepository{db: db}
}

// GetByEmail resolves a principal by case-normalized email.
func (r *PrincipalRepository) GetByEmail(ctx context.Context, email string) (*domain.Principal, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	normalized := strings.ToLower(strings.TrimSpace(email))
	var model PrincipalModel
	err := r.db.WithContext(ctx).First(&model, "lower(email) = ?", normalized).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &domain.Principal{
		ID:           model.ID,
		Email:        model.Email,
		PasswordHash: model.PasswordHash,
		Active:       model.IsActive,
		CreatedAt:    model.CreatedAt,
	}, nil
}
