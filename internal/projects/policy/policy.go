// Package policy holds the pure authorization rules for project operations.
// It performs no I/O: decisions are a function of (operation, role) and the
// effective list filter is a function of (claims, requested filter).
package policy

import (
	"github.com/defectflow/projects-service/internal/auth"
	"github.com/defectflow/projects-service/internal/projects/domain"
)

type Operation int

const (
	OpCreate Operation = iota
	OpList
	OpGet
	OpUpdate
)

// Decision is the outcome of a policy lookup. OwnerScoped only applies to
// list operations; it restricts visible rows to those the caller manages.
type Decision struct {
	Allowed     bool
	OwnerScoped bool
}

// table is the single source of truth for the authorization contract.
// Get deliberately carries no owner scope even though List does for the
// same roles; single-record reads are open to every authenticated caller.
var table = map[Operation]map[auth.Role]Decision{
	OpCreate: {
		auth.RoleManager: {Allowed: true},
		auth.RoleAdmin:   {Allowed: true},
	},
	OpUpdate: {
		auth.RoleManager: {Allowed: true},
		auth.RoleAdmin:   {Allowed: true},
	},
	OpGet: {
		auth.RoleManager:    {Allowed: true},
		auth.RoleAdmin:      {Allowed: true},
		auth.RoleSupervisor: {Allowed: true},
		auth.RoleCustomer:   {Allowed: true},
	},
	OpList: {
		auth.RoleManager:    {Allowed: true},
		auth.RoleAdmin:      {Allowed: true},
		auth.RoleSupervisor: {Allowed: true, OwnerScoped: true},
		auth.RoleCustomer:   {Allowed: true, OwnerScoped: true},
	},
}

// Decide returns the decision for the given operation and role. Unknown
// roles and operations are denied.
func Decide(op Operation, role auth.Role) Decision {
	return table[op][role]
}

// EffectiveFilter applies the caller's row scope to the requested filter.
// For owner-scoped roles the manager_id predicate is forced to the caller's
// own identity, silently overriding any caller-supplied value.
func EffectiveFilter(claims auth.Claims, requested domain.ListFilter) domain.ListFilter {
	if Decide(OpList, claims.Role).OwnerScoped {
		id := claims.UserID
		requested.ManagerID = &id
	}
	return requested
}
