package usecase

// Role is the global role of a user. Roles are hierarchical:
// a higher-ranked role implies every lower-ranked role's privileges.
type Role string

const (
	RoleUser       Role = "USER"
	RoleManager    Role = "MANAGER"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// ParseRole maps a caller-supplied string onto the closed role enum.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleManager, RoleSuperAdmin:
		return Role(s), true
	}
	return "", false
}

// Rank returns the hierarchical rank of the role. Unknown roles rank 0
// and therefore satisfy no permission check.
func (r Role) Rank() int {
	switch r {
	case RoleUser:
		return 1
	case RoleManager:
		return 2
	case RoleSuperAdmin:
		return 3
	}
	return 0
}

// HasRole reports whether r carries at least the privileges of required.
func (r Role) HasRole(required Role) bool {
	return r.Rank() > 0 && r.Rank() >= required.Rank()
}

// Capability names an action gated by the authorization policy.
type Capability uint

const (
	_ Capability = iota
	CapApproveRequests
	CapViewAllRequests
	CapManageAssets
	CapUpdateRequestStatus
	CapChangeUserRole
	CapViewAllUsers
)

// capabilityMinRole is the single source of truth for the permission
// table. Every check goes through Allowed; no ad hoc comparisons.
var capabilityMinRole = map[Capability]Role{
	CapApproveRequests:     RoleManager,
	CapViewAllRequests:     RoleManager,
	CapManageAssets:        RoleSuperAdmin,
	CapUpdateRequestStatus: RoleSuperAdmin,
	CapChangeUserRole:      RoleSuperAdmin,
	CapViewAllUsers:        RoleSuperAdmin,
}

// Allowed is the pure policy decision over (role, capability).
func Allowed(role Role, cap Capability) bool {
	min, ok := capabilityMinRole[cap]
	if !ok {
		return false
	}
	return role.HasRole(min)
}
