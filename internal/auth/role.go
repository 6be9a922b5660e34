package auth

// Role is the platform-wide role carried in the token's "role" claim. The
// set is closed: tokens with any other value are rejected at the boundary.
type Role string

const (
	RoleManager    Role = "MANAGER"
	RoleAdmin      Role = "ADMIN"
	RoleSupervisor Role = "SUPERVISOR"
	RoleCustomer   Role = "CUSTOMER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleManager, RoleAdmin, RoleSupervisor, RoleCustomer:
		return true
	}
	return false
}
