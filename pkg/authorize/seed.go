package authorize

import (
	"context"
	"log/slog"
)

// DefaultPolicies is the baseline RBAC policy set.
var DefaultPolicies = []PermissionPolicy{
	// SuperAdmin: god mode
	{RoleSysSuperAdmin, DomainSys, WildcardResource, WildcardAction, EffectAllow},

	// Admin: assignments and manual job runs
	{RoleSysAdmin, DomainSys, ResourceCoachAssignment, ActionManage, EffectAllow},
	{RoleSysAdmin, DomainSys, ResourceJob, ActionExecute, EffectAllow},
	{RoleSysAdmin, DomainSys, ResourceEvent, ActionCreate, EffectAllow},

	// Coach: emit events about their clients
	{RoleSysCoach, DomainSys, ResourceEvent, ActionCreate, EffectAllow},

	// Client: emit events about themselves
	{RoleSysClient, DomainSys, ResourceEvent, ActionCreate, EffectAllow},
}

// SeedDefaultPolicies sets up the baseline RBAC policies for the system.
func SeedDefaultPolicies(ctx context.Context, auth IAuthorization) error {
	logger := slog.Default()

	for _, p := range DefaultPolicies {
		added, err := auth.AddPermission(ctx, p.Subject, p.Domain, p.Object, p.Action, p.Effect)
		if err != nil {
			logger.Error("failed to add policy", "policy", p, "error", err)
			return err
		}
		if added {
			logger.Debug("added policy", "role", p.Subject, "domain", p.Domain, "resource", p.Object, "action", p.Action)
		}
	}

	logger.Info("seeded default RBAC policies", "count", len(DefaultPolicies))
	return nil
}

// AssignSystemRole assigns a system-level role to a user.
// Note: RoleSysSuperAdmin should be assigned manually/carefully.
func AssignSystemRole(ctx context.Context, auth IAuthorization, userID string, role Role) error {
	if _, ok := KnownRoles[role]; !ok {
		return ErrInvalidArgs
	}
	_, err := auth.AddRoleForUserInDomain(ctx, GroupSubject(userID), role, DomainSys)
	return err
}

// RemoveSystemRole removes a system-level role from a user.
func RemoveSystemRole(ctx context.Context, auth IAuthorization, userID string, role Role) error {
	_, err := auth.RemoveRoleForUserInDomain(ctx, GroupSubject(userID), role, DomainSys)
	return err
}
