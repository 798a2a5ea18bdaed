package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"crmd/internal/domain"
	"crmd/internal/infra/crypto"
)

type PrincipalReader interface {
	GetByEmail(ctx context.Context, email string) (*domain.Principal, error)
}

type MembershipReader interface {
	ListByPrincipal(ctx context.Context, principalID string) ([]domain.Membership, error)
	GetRole(ctx context.Context, principalID, tenantID string) (domain.Role, error)
}

type TokenIssuer interface {
	Issue(principalID, tenantID string, role domain.Role, now time.Time) (string, error)
}

// AuthService implements login and tenant switching. Every login failure
// path collapses to ErrInvalidCredentials so a caller cannot probe which
// emails exist; the real reason goes to the log.
type AuthService struct {
	principals     PrincipalReader
	memberships    MembershipReader
	tokens         TokenIssuer
	verifyPassword func(plain, hashed string) bool
	now            func() time.Time
}

func NewAuthService(principals PrincipalReader, memberships MembershipReader, tokens TokenIssuer) *AuthService {
	return &AuthService{
		principals:     principals,
		memberships:    memberships,
		tokens:         tokens,
		verifyPassword: crypto.VerifyPassword,
		now:            time.Now,
	}
}

type LoginResult struct {
	Token         string
	PrincipalID   string
	CurrentTenant domain.Membership
	Memberships   []domain.Membership
}

// Login authenticates by email and password and issues a token for the
// default tenant: the first membership in the stable tenant-name ordering
// the repository guarantees.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	principal, err := s.principals.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.Printf("login rejected: unknown email")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !principal.Active {
		log.Printf("login rejected: principal %s is disabled", principal.ID)
		return nil, domain.ErrInvalidCredentials
	}
	if !s.verifyPassword(password, principal.PasswordHash) {
		log.Printf("login rejected: bad password for principal %s", principal.ID)
		return nil, domain.ErrInvalidCredentials
	}

	memberships, err := s.memberships.ListByPrincipal(ctx, principal.ID)
	if err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		log.Printf("login rejected: principal %s has no memberships", principal.ID)
		return nil, domain.ErrInvalidCredentials
	}

	current := memberships[0]
	token, err := s.tokens.Issue(principal.ID, current.TenantID, current.Role, s.now())
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		Token:         token,
		PrincipalID:   principal.ID,
		CurrentTenant: current,
		Memberships:   memberships,
	}, nil
}

type SwitchResult struct {
	Token    string
	TenantID string
	Role     domain.Role
}

// SwitchTenant mints a fresh token for another tenant the caller belongs
// to. The previous token stays valid until its own expiry; there is no
// server-side revocation.
func (s *AuthService) SwitchTenant(ctx context.Context, identity domain.Identity, targetTenantID string) (*SwitchResult, error) {
	role, err := s.memberships.GetRole(ctx, identity.PrincipalID, targetTenantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: principal is not a member of the target tenant", domain.ErrForbidden)
		}
		return nil, err
	}
	token, err := s.tokens.Issue(identity.PrincipalID, targetTenantID, role, s.now())
	if err != nil {
		return nil, err
	}
	return &SwitchResult{
		Token:    token,
		TenantID: targetTenantID,
		Role:     role,
	}, nil
}
