package domain

import "time"

// Identity is the verified (principal, tenant, role) triple attached to a
// request after the authorization gate admits it. Every tenant-scoped access
// downstream must key off Identity.TenantID, never off request input.
type Identity struct {
	PrincipalID string
	TenantID    string
	Role        Role
}

type Principal struct {
	ID           string
	Email        string
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
}

type Tenant struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Membership relates one principal to one tenant with exactly one role.
type Membership struct {
	PrincipalID string
	TenantID    string
	TenantName  string
	Role        Role
	CreatedAt   time.Time
}

// TenantMember is a membership row projected for team listings.
type TenantMember struct {
	PrincipalID string
	Email       string
	Role        Role
	CreatedAt   time.Time
}
