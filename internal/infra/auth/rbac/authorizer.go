package rbac

import (
	"errors"

	"crmd/internal/domain"
)

// Requirement declares what a route demands: either a minimum role on the
// hierarchy or an explicit allow-set. The zero value requires only a
// verified identity.
type Requirement struct {
	Minimum  domain.Role
	AllowAny []domain.Role
}

func MinRole(r domain.Role) Requirement { return Requirement{Minimum: r} }

func AnyOf(roles ...domain.Role) Requirement { return Requirement{AllowAny: roles} }

type AuthzError struct {
	Code     string
	Required []domain.Role
	Actual   domain.Role
	TenantID string
	Err      error
}

func (e *AuthzError) Error() string {
	if e == nil {
		return ""
	}
	return e.Code
}

func (e *AuthzError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

type Authorizer struct{}

func NewAuthorizer() *Authorizer {
	return &Authorizer{}
}

// Require evaluates req against a verified identity. An unknown role is a
// data error and surfaces as such, never as a silent deny.
func (a *Authorizer) Require(identity domain.Identity, req Requirement) error {
	if identity.PrincipalID == "" {
		return domain.ErrUnauthenticated
	}

	var (
		ok       bool
		err      error
		required []domain.Role
	)
	switch {
	case len(req.AllowAny) > 0:
		ok, err = domain.SatisfiesAny(identity.Role, req.AllowAny)
		required = req.AllowAny
	case req.Minimum != "":
		ok, err = domain.SatisfiesMinimum(identity.Role, req.Minimum)
		required = []domain.Role{req.Minimum}
	default:
		return nil
	}
	if err != nil {
		return err
	}
	if !ok {
		return &AuthzError{
			Code:     "MISSING_ROLE",
			Required: required,
			Actual:   identity.Role,
			TenantID: identity.TenantID,
			Err:      domain.ErrForbidden,
		}
	}
	return nil
}

// RequireTenant rejects any request whose tenant id, taken from a path or
// body, does not match the tenant the token was issued for.
func RequireTenant(identity domain.Identity, tenantID string) error {
	if identity.TenantID == "" || tenantID != identity.TenantID {
		return &AuthzError{
			Code:     "TENANT_MISMATCH",
			Actual:   identity.Role,
			TenantID: tenantID,
			Err:      domain.ErrForbidden,
		}
	}
	return nil
}

func IsAuthzError(err error) (*AuthzError, bool) {
	var authz *AuthzError
	if errors.As(err, &authz) {
		return authz, true
	}
	return nil, false
}
