package rbac

import (
	"errors"
	"testing"

	"crmd/internal/domain"
)

func identity(role domain.Role) domain.Identity {
	return domain.Identity{
		PrincipalID: "principal-1",
		TenantID:    "tenant-a",
		Role:        role,
	}
}

func TestRequire_MinRole(t *testing.T) {
	authz := NewAuthorizer()
	if err := authz.Require(identity(domain.RoleOwner), MinRole(domain.RoleAdmin)); err != nil {
		t.Fatalf("owner should satisfy min admin: %v", err)
	}
	if err := authz.Require(identity(domain.RoleAdmin), MinRole(domain.RoleAdmin)); err != nil {
		t.Fatalf("admin should satisfy min admin: %v", err)
	}
	err := authz.Require(identity(domain.RoleObserver), MinRole(domain.RoleAdmin))
	authzErr, ok := IsAuthzError(err)
	if !ok {
		t.Fatalf("expected authz error, got %v", err)
	}
	if authzErr.Code != "MISSING_ROLE" {
		t.Fatalf("expected MISSING_ROLE, got %s", authzErr.Code)
	}
	if authzErr.Actual != domain.RoleObserver || authzErr.TenantID != "tenant-a" {
		t.Fatalf("error should carry actual role and tenant: %+v", authzErr)
	}
	if len(authzErr.Required) != 1 || authzErr.Required[0] != domain.RoleAdmin {
		t.Fatalf("error should carry the requirement: %+v", authzErr.Required)
	}
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("authz error should unwrap to ErrForbidden")
	}
}

func TestRequire_AnyOf(t *testing.T) {
	authz := NewAuthorizer()
	req := AnyOf(domain.RoleOwner, domain.RoleAdmin)
	if err := authz.Require(identity(domain.RoleAdmin), req); err != nil {
		t.Fatalf("admin should be in the allow-set: %v", err)
	}
	err := authz.Require(identity(domain.RoleAgent), req)
	if authzErr, ok := IsAuthzError(err); !ok || authzErr.Code != "MISSING_ROLE" {
		t.Fatalf("agent should be denied, got %v", err)
	}
}

func TestRequire_EmptyRequirementNeedsIdentityOnly(t *testing.T) {
	authz := NewAuthorizer()
	if err := authz.Require(identity(domain.RoleObserver), Requirement{}); err != nil {
		t.Fatalf("empty requirement should admit any verified identity: %v", err)
	}
}

func TestRequire_MissingIdentity(t *testing.T) {
	authz := NewAuthorizer()
	err := authz.Require(domain.Identity{}, MinRole(domain.RoleObserver))
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestRequire_UnknownRoleSurfaces(t *testing.T) {
	authz := NewAuthorizer()
	err := authz.Require(identity(domain.Role("root")), MinRole(domain.RoleObserver))
	if !errors.Is(err, domain.ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}

func TestRequireTenant(t *testing.T) {
	id := identity(domain.RoleAdmin)
	if err := RequireTenant(id, "tenant-a"); err != nil {
		t.Fatalf("matching tenant should pass: %v", err)
	}
	err := RequireTenant(id, "tenant-b")
	authzErr, ok := IsAuthzError(err)
	if !ok {
		t.Fatalf("expected authz error, got %v", err)
	}
	if authzErr.Code != "TENANT_MISMATCH" {
		t.Fatalf("expected TENANT_MISMATCH, got %s", authzErr.Code)
	}
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("tenant mismatch should unwrap to ErrForbidden")
	}
}
