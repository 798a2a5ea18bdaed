package usecase

import (
	"context"
	"errors"
	"testing"

	"crmd/internal/domain"
)

type recordingDirectory struct {
	lastLimit  int
	lastOffset int
	updateErr  error
	deleteErr  error
}

func (d *recordingDirectory) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]domain.TenantMember, error) {
	d.lastLimit = limit
	d.lastOffset = offset
	return nil, nil
}

func (d *recordingDirectory) UpdateRole(ctx context.Context, principalID, tenantID string, role domain.Role) error {
	return d.updateErr
}

func (d *recordingDirectory) Delete(ctx context.Context, principalID, tenantID string) error {
	return d.deleteErr
}

func TestList_PagingClamps(t *testing.T) {
	cases := []struct {
		name       string
		page, size int
		wantLimit  int
		wantOffset int
	}{
		{"defaults", 0, 0, defaultPageSize, 0},
		{"negative page", -3, 10, 10, 0},
		{"second page", 2, 25, 25, 25},
		{"oversized page", 1, 10000, maxPageSize, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := &recordingDirectory{}
			svc := NewMemberService(dir)
			if _, err := svc.List(context.Background(), "tenant-1", tc.page, tc.size); err != nil {
				t.Fatalf("List: %v", err)
			}
			if dir.lastLimit != tc.wantLimit || dir.lastOffset != tc.wantOffset {
				t.Fatalf("got limit=%d offset=%d, want limit=%d offset=%d",
					dir.lastLimit, dir.lastOffset, tc.wantLimit, tc.wantOffset)
			}
		})
	}
}

func TestChangeRole_ErrorsPropagate(t *testing.T) {
	dir := &recordingDirectory{updateErr: domain.ErrNotFound}
	svc := NewMemberService(dir)
	err := svc.ChangeRole(context.Background(), "tenant-1", "principal-9", domain.RoleAgent)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRemove_LastMembershipConstraint(t *testing.T) {
	dir := &recordingDirectory{deleteErr: domain.ErrConstraintViolation}
	svc := NewMemberService(dir)
	err := svc.Remove(context.Background(), "tenant-1", "principal-1")
	if !errors.Is(err, domain.ErrConstraintViolation) {
		t.Fatalf("expected ErrConstraintViolation, got %v", err)
	}
}
