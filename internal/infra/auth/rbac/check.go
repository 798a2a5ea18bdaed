package rbac

import (
	"context"
	"fmt"

	"crmd/internal/domain"
)

// RoleLister is the slice of the role repository the startup check needs.
type RoleLister interface {
	ListRoleNames(ctx context.Context) ([]string, error)
}

// CheckRoleTable verifies at startup that the roles table holds exactly the
// closed role enumeration the authorizer depends on, instead of trusting
// arbitrary role strings at request time.
func CheckRoleTable(ctx context.Context, roles RoleLister) error {
	names, err := roles.ListRoleNames(ctx)
	if err != nil {
		return fmt.Errorf("list roles: %w", err)
	}
	seen := make(map[domain.Role]bool, len(names))
	for _, name := range names {
		role, err := domain.ParseRole(name)
		if err != nil {
			return fmt.Errorf("roles table: %w", err)
		}
		seen[role] = true
	}
	for _, role := range domain.AllRoles() {
		if !seen[role] {
			return fmt.Errorf("roles table is missing role %q", role)
		}
	}
	return nil
}
