package identity

// Role is a member's role inside a tenant
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	RoleViewer Role = "viewer"
)

// PermissionLevel is the coarse permission a request needs
type PermissionLevel string

const (
	PermissionRead  PermissionLevel = "read"
	PermissionWrite PermissionLevel = "write"
	PermissionAdmin PermissionLevel = "admin"
)

var levelRank = map[PermissionLevel]int{
	PermissionRead:  1,
	PermissionWrite: 2,
	PermissionAdmin: 3,
}

var roleRank = map[Role]int{
	RoleViewer: 1,
	RoleMember: 2,
	RoleAdmin:  3,
	RoleOwner:  3,
}

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	_, ok := roleRank[r]
	return ok
}

// IsValid reports whether l is a known permission level
func (l PermissionLevel) IsValid() bool {
	_, ok := levelRank[l]
	return ok
}

// Allows reports whether the role grants the given permission level.
// Unknown roles and levels never grant anything.
func (r Role) Allows(level PermissionLevel) bool {
	have, ok := roleRank[r]
	if !ok {
		return false
	}
	need, ok := levelRank[level]
	if !ok {
		return false
	}
	return have >= need
}
