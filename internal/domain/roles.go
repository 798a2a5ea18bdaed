package domain

import "fmt"

type Role string

const (
	RoleOwner    Role = "owner"
	RoleAdmin    Role = "admin"
	RoleAgent    Role = "agent"
	RoleObserver Role = "observer"
)

// Rank order, lower number = more privilege. The set is closed; role rows in
// the database must match it (see rbac.CheckRoleTable).
var roleRanks = map[Role]int{
	RoleOwner:    0,
	RoleAdmin:    1,
	RoleAgent:    2,
	RoleObserver: 3,
}

func AllRoles() []Role {
	return []Role{RoleOwner, RoleAdmin, RoleAgent, RoleObserver}
}

func ParseRole(s string) (Role, error) {
	role := Role(s)
	if _, ok := roleRanks[role]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return role, nil
}

// SatisfiesMinimum reports whether actual carries at least the privilege of
// minimum. Unrecognized roles are never coerced.
func SatisfiesMinimum(actual, minimum Role) (bool, error) {
	actualRank, ok := roleRanks[actual]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownRole, actual)
	}
	minimumRank, ok := roleRanks[minimum]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownRole, minimum)
	}
	return actualRank <= minimumRank, nil
}

// SatisfiesAny reports whether actual is a member of allowed, ignoring the
// hierarchy.
func SatisfiesAny(actual Role, allowed []Role) (bool, error) {
	if _, ok := roleRanks[actual]; !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownRole, actual)
	}
	for _, r := range allowed {
		if _, ok := roleRanks[r]; !ok {
			return false, fmt.Errorf("%w: %q", ErrUnknownRole, r)
		}
		if actual == r {
			return true, nil
		}
	}
	return false, nil
}
