package auth

import "fmt"

// Role grades what a caller may do with report data. Viewers read
// reports on screen, operators additionally manage source rows through
// the upstream services, and admins may take statements out of the
// system as files.
type Role string

const (
	RoleViewer   Role = "viewer"
	RoleOperator Role = "operator"
	RoleAdmin    Role = "admin"
)

var roleRanks = map[Role]int{
	RoleViewer:   1,
	RoleOperator: 2,
	RoleAdmin:    3,
}

// ParseRole validates a raw role claim.
func ParseRole(raw string) (Role, error) {
	role := Role(raw)
	if _, ok := roleRanks[role]; !ok {
		return "", fmt.Errorf("auth: unknown role %q", raw)
	}
	return role, nil
}

// Allows reports whether the role satisfies the required one. Unknown
// roles rank below viewer and allow nothing.
func (r Role) Allows(required Role) bool {
	return roleRanks[r] >= roleRanks[required]
}
