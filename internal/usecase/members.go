package usecase

import (
	"context"

	"crmd/internal/domain"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

type MemberDirectory interface {
	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]domain.TenantMember, error)
	UpdateRole(ctx context.Context, principalID, tenantID string, role domain.Role) error
	Delete(ctx context.Context, principalID, tenantID string) error
}

type MemberService struct {
	members MemberDirectory
}

func NewMemberService(members MemberDirectory) *MemberService {
	return &MemberService{members: members}
}

func (s *MemberService) List(ctx context.Context, tenantID string, page, size int) ([]domain.TenantMember, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return s.members.ListByTenant(ctx, tenantID, size, (page-1)*size)
}

func (s *MemberService) ChangeRole(ctx context.Context, tenantID, principalID string, role domain.Role) error {
	return s.members.UpdateRole(ctx, principalID, tenantID, role)
}

// Remove deletes a membership. The directory refuses to delete a
// principal's last membership with ErrConstraintViolation.
func (s *MemberService) Remove(ctx context.Context, tenantID, principalID string) error {
	return s.members.Delete(ctx, principalID, tenantID)
}
