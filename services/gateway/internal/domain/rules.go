package domain

import (
	"fmt"

	"github.com/homeroot/mesh/platform/identity"
)

// RoleChange describes one requested role transition for rule evaluation.
// adminCount is the number of ADMIN holders before the change; the counting
// happens at the store, the decision here stays pure.
type RoleChange struct {
	ActorUsername     string
	TargetUsername    string
	CurrentRole       identity.Role
	NewRole           identity.Role
	ProtectedUsername string
	AdminCount        int64
	MaxAdmins         int64
}

// CheckRoleChange evaluates the admin-account-protection rules:
//
//   - the protected admin account may only be edited by itself, and may
//     never have its role changed to USER, by anyone;
//   - promotions to ADMIN are bounded by a configured ceiling on the number
//     of ADMIN holders.
//
// Violations are ErrRuleViolation with a specific reason, never the generic
// ErrForbidden.
func (c RoleChange) CheckRoleChange() error {
	if c.TargetUsername == c.ProtectedUsername {
		if c.ActorUsername != c.ProtectedUsername {
			return fmt.Errorf("%w: the protected admin account %q cannot be modified by other users", ErrRuleViolation, c.ProtectedUsername)
		}
		if c.NewRole == identity.RoleUser {
			return fmt.Errorf("%w: the protected admin account cannot change its own role to USER", ErrRuleViolation)
		}
	}
	if c.NewRole == identity.RoleAdmin && c.CurrentRole != identity.RoleAdmin && c.AdminCount >= c.MaxAdmins {
		return fmt.Errorf("%w: cannot promote more admins, ceiling of %d reached", ErrRuleViolation, c.MaxAdmins)
	}
	return nil
}

// CheckUserDelete refuses deletion of the protected admin account.
func CheckUserDelete(targetUsername, protectedUsername string) error {
	if targetUsername == protectedUsername {
		return fmt.Errorf("%w: the protected admin account %q cannot be deleted", ErrRuleViolation, protectedUsername)
	}
	return nil
}
