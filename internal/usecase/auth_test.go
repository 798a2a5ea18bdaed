package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"crmd/internal/domain"
	"crmd/internal/infra/crypto"
	"crmd/internal/infra/token"
)

type staticPrincipalRepo struct {
	principal *domain.Principal
	err       error
}

func (r *staticPrincipalRepo) GetByEmail(ctx context.Context, email string) (*domain.Principal, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.principal, nil
}

type staticMembershipRepo struct {
	memberships []domain.Membership
	err         error
}

func (r *staticMembershipRepo) ListByPrincipal(ctx context.Context, principalID string) ([]domain.Membership, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.memberships, nil
}

func (r *staticMembershipRepo) GetRole(ctx context.Context, principalID, tenantID string) (domain.Role, error) {
	for _, m := range r.memberships {
		if m.PrincipalID == principalID && m.TenantID == tenantID {
			return m.Role, nil
		}
	}
	return "", domain.ErrNotFound
}

func testCodec(t *testing.T) *token.Codec {
	t.Helper()
	codec, err := token.NewCodec("test-secret", 2*time.Hour)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return codec
}

func testAuthService(t *testing.T, principals PrincipalReader, memberships MembershipReader) (*AuthService, *token.Codec) {
	t.Helper()
	codec := testCodec(t)
	svc := NewAuthService(principals, memberships, codec)
	return svc, codec
}

func testPrincipal(t *testing.T) *domain.Principal {
	t.Helper()
	hash, err := crypto.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	return &domain.Principal{
		ID:           "principal-1",
		Email:        "p@example.com",
		PasswordHash: hash,
		Active:       true,
	}
}

// Memberships in repository order: the first row is the login default.
func twoTenants() []domain.Membership {
	return []domain.Membership{
		{PrincipalID: "principal-1", TenantID: "tenant-1", TenantName: "Acme", Role: domain.RoleAdmin},
		{PrincipalID: "principal-1", TenantID: "tenant-2", TenantName: "Globex", Role: domain.RoleObserver},
	}
}

func TestLogin_DefaultTenantAndMembershipList(t *testing.T) {
	svc, codec := testAuthService(t,
		&staticPrincipalRepo{principal: testPrincipal(t)},
		&staticMembershipRepo{memberships: twoTenants()},
	)

	result, err := svc.Login(context.Background(), "p@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.CurrentTenant.TenantID != "tenant-1" || result.CurrentTenant.Role != domain.RoleAdmin {
		t.Fatalf("default tenant should be the first membership: %+v", result.CurrentTenant)
	}
	if len(result.Memberships) != 2 {
		t.Fatalf("expected the full membership list, got %d entries", len(result.Memberships))
	}

	identity, err := codec.Verify(result.Token, time.Now())
	if err != nil {
		t.Fatalf("Verify issued token: %v", err)
	}
	if identity.PrincipalID != "principal-1" || identity.TenantID != "tenant-1" || identity.Role != domain.RoleAdmin {
		t.Fatalf("token claims do not match the default membership: %+v", identity)
	}
}

func TestLogin_FailuresAreUniform(t *testing.T) {
	principal := testPrincipal(t)
	disabled := *principal
	disabled.Active = false

	cases := []struct {
		name        string
		principals  PrincipalReader
		memberships MembershipReader
		password    string
	}{
		{
			name:        "unknown email",
			principals:  &staticPrincipalRepo{err: domain.ErrNotFound},
			memberships: &staticMembershipRepo{},
			password:    "s3cret",
		},
		{
			name:        "wrong password",
			principals:  &staticPrincipalRepo{principal: principal},
			memberships: &staticMembershipRepo{memberships: twoTenants()},
			password:    "wrong",
		},
		{
			name:        "disabled principal",
			principals:  &staticPrincipalRepo{principal: &disabled},
			memberships: &staticMembershipRepo{memberships: twoTenants()},
			password:    "s3cret",
		},
		{
			name:        "no memberships",
			principals:  &staticPrincipalRepo{principal: principal},
			memberships: &staticMembershipRepo{},
			password:    "s3cret",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := testAuthService(t, tc.principals, tc.memberships)
			_, err := svc.Login(context.Background(), "p@example.com", tc.password)
			if !errors.Is(err, domain.ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestLogin_StoreErrorIsNotMasked(t *testing.T) {
	svc, _ := testAuthService(t,
		&staticPrincipalRepo{err: domain.ErrTransient},
		&staticMembershipRepo{},
	)
	_, err := svc.Login(context.Background(), "p@example.com", "s3cret")
	if !errors.Is(err, domain.ErrTransient) {
		t.Fatalf("transient store failure should surface, got %v", err)
	}
}

func TestSwitchTenant(t *testing.T) {
	svc, codec := testAuthService(t,
		&staticPrincipalRepo{principal: testPrincipal(t)},
		&staticMembershipRepo{memberships: twoTenants()},
	)
	identity := domain.Identity{PrincipalID: "principal-1", TenantID: "tenant-1", Role: domain.RoleAdmin}

	result, err := svc.SwitchTenant(context.Background(), identity, "tenant-2")
	if err != nil {
		t.Fatalf("SwitchTenant: %v", err)
	}
	if result.Role != domain.RoleObserver {
		t.Fatalf("expected the target tenant's role, got %s", result.Role)
	}
	switched, err := codec.Verify(result.Token, time.Now())
	if err != nil {
		t.Fatalf("Verify switched token: %v", err)
	}
	if switched.TenantID != "tenant-2" || switched.Role != domain.RoleObserver {
		t.Fatalf("switched token should carry the new tenant and role: %+v", switched)
	}

	_, err = svc.SwitchTenant(context.Background(), identity, "tenant-3")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for a tenant without membership, got %v", err)
	}
}
