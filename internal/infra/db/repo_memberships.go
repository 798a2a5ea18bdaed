package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crmd/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MembershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

type membershipRow struct {
	UserID     string
	TenantID   string
	TenantName string
	Role       string
	CreatedAt  time.Time
}

// ListByPrincipal returns every membership of a principal joined with tenant
// and role names, ordered by tenant name. The ordering is load-bearing: the
// first row is the default tenant picked at login.
func (r *MembershipRepository) ListByPrincipal(ctx context.Context, principalID string) ([]domain.Membership, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var rows []membershipRow
	err := r.db.WithContext(ctx).
		Table("user_tenants AS ut").
		Select("ut.user_id, ut.tenant_id, t.name AS tenant_name, r.name AS role, ut.created_at").
		Joins("JOIN tenants t ON t.id = ut.tenant_id").
		Joins("JOIN roles r ON r.id = ut.role_id").
		Where("ut.user_id = ?", principalID).
		Order("t.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	memberships := make([]domain.Membership, 0, len(rows))
	for _, row := range rows {
		role, err := domain.ParseRole(row.Role)
		if err != nil {
			return nil, err
		}
		memberships = append(memberships, domain.Membership{
			PrincipalID: row.UserID,
			TenantID:    row.TenantID,
			TenantName:  row.TenantName,
			Role:        role,
			CreatedAt:   row.CreatedAt,
		})
	}
	return memberships, nil
}

// GetRole returns the principal's role in one tenant, ErrNotFound when no
// membership exists.
func (r *MembershipRepository) GetRole(ctx context.Context, principalID, tenantID string) (domain.Role, error) {
	if r.db == nil {
		return "", errDBUnavailable
	}
	var name string
	err := r.db.WithContext(ctx).
		Table("user_tenants AS ut").
		Select("r.name").
		Joins("JOIN roles r ON r.id = ut.role_id").
		Where("ut.user_id = ? AND ut.tenant_id = ?", principalID, tenantID).
		Take(&name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return domain.ParseRole(name)
}

type tenantMemberRow struct {
	UserID    string
	Email     string
	Role      string
	CreatedAt time.Time
}

func (r *MembershipRepository) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]domain.TenantMember, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var rows []tenantMemberRow
	err := r.db.WithContext(ctx).
		Table("user_tenants AS ut").
		Select("ut.user_id, u.email, r.name AS role, ut.created_at").
		Joins("JOIN users u ON u.id = ut.user_id").
		Joins("JOIN roles r ON r.id = ut.role_id").
		Where("ut.tenant_id = ?", tenantID).
		Order("lower(u.email)").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	members := make([]domain.TenantMember, 0, len(rows))
	for _, row := range rows {
		role, err := domain.ParseRole(row.Role)
		if err != nil {
			return nil, err
		}
		members = append(members, domain.TenantMember{
			PrincipalID: row.UserID,
			Email:       row.Email,
			Role:        role,
			CreatedAt:   row.CreatedAt,
		})
	}
	return members, nil
}

func (r *MembershipRepository) UpdateRole(ctx context.Context, principalID, tenantID string, role domain.Role) error {
	if r.db == nil {
		return errDBUnavailable
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var roleModel RoleModel
		if err := tx.First(&roleModel, "name = ?", string(role)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrUnknownRole
			}
			return err
		}
		res := tx.Model(&MembershipModel{}).
			Where("user_id = ? AND tenant_id = ?", principalID, tenantID).
			Update("role_id", roleModel.ID)
		if res.Error != nil {
			return mapWriteError(res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

// Delete removes one membership. Removing the principal's last membership is
// refused: the row count is checked under a row lock in the same transaction
// that deletes, so two concurrent deletes cannot strand a principal with
// zero tenants.
func (r *MembershipRepository) Delete(ctx context.Context, principalID, tenantID string) error {
	if r.db == nil {
		return errDBUnavailable
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []MembershipModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", principalID).
			Find(&rows).Error
		if err != nil {
			return err
		}
		found := false
		for _, row := range rows {
			if row.TenantID == tenantID {
				found = true
				break
			}
		}
		if !found {
			return domain.ErrNotFound
		}
		if len(rows) <= 1 {
			return fmt.Errorf("%w: principal must keep at least one membership", domain.ErrConstraintViolation)
		}
		return tx.Where("user_id = ? AND tenant_id = ?", principalID, tenantID).
			Delete(&MembershipModel{}).Error
	})
}
