package authorize

import (
	"fmt"
	"regexp"

	"github.com/Defimaso/Diario362-sub001/internal/schema"
)

type Action string
type Resource string
type Role string
type Domain string

// ----------------------------
// Actions
// ----------------------------

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionList   Action = "list"

	// Power actions
	ActionManage  Action = "manage"  // CRUD + list
	ActionExecute Action = "execute" // run, trigger
)

const (
	WildcardAction Action = "*"
)

var KnownActions = map[Action]struct{}{
	ActionCreate: {}, ActionRead: {}, ActionUpdate: {}, ActionDelete: {}, ActionList: {},
	ActionManage: {}, ActionExecute: {},
}

// ----------------------------
// Resources
// ----------------------------

const (
	WildcardResource Resource = "*"

	ResourceEvent            Resource = "event"
	ResourceNotification     Resource = "notification"
	ResourcePushSubscription Resource = "push_subscription"
	ResourceCoachAssignment  Resource = "coach_assignment"
	ResourceJob              Resource = "job"

	// System / platform admin
	ResourceSystem Resource = "system"
	ResourceRBAC   Resource = "rbac"
)

var KnownResources = map[Resource]struct{}{
	ResourceEvent: {}, ResourceNotification: {}, ResourcePushSubscription: {},
	ResourceCoachAssignment: {}, ResourceJob: {},
	ResourceSystem: {}, ResourceRBAC: {},
}

// ----------------------------
// Roles
// ----------------------------
//
// Policy subjects. Users carry the matching user_roles rows; the middleware
// maps them with RoleFromDB and enforces each role directly.

const (
	WildcardRole Role = "*"

	RoleSysSuperAdmin Role = "role:sys:superadmin"
	RoleSysAdmin      Role = "role:sys:admin"
	RoleSysCoach      Role = "role:sys:coach"
	RoleSysClient     Role = "role:sys:client"
)

var KnownRoles = map[Role]struct{}{
	RoleSysSuperAdmin: {},
	RoleSysAdmin:      {},
	RoleSysCoach:      {},
	RoleSysClient:     {},
}

// Italian display names
var RoleDisplayNamesIT = map[Role]string{
	RoleSysSuperAdmin: "Super amministratore",
	RoleSysAdmin:      "Amministratore",
	RoleSysCoach:      "Coach",
	RoleSysClient:     "Cliente",
}

// IsStaff reports whether any role belongs to the coaching staff.
func IsStaff(roles []Role) bool {
	for _, r := range roles {
		switch r {
		case RoleSysSuperAdmin, RoleSysAdmin, RoleSysCoach:
			return true
		}
	}
	return false
}

// dbRoles maps user_roles.role values to policy roles.
var dbRoles = map[string]Role{
	schema.RoleSuperAdmin: RoleSysSuperAdmin,
	schema.RoleAdmin:      RoleSysAdmin,
	schema.RoleCoach:      RoleSysCoach,
	schema.RoleClient:     RoleSysClient,
}

// RoleFromDB translates a stored role; unknown values report false.
func RoleFromDB(role string) (Role, bool) {
	r, ok := dbRoles[role]
	return r, ok
}

// RolesFromDB translates stored roles, dropping unknown ones.
func RolesFromDB(roles []string) []Role {
	out := make([]Role, 0, len(roles))
	for _, r := range roles {
		if role, ok := RoleFromDB(r); ok {
			out = append(out, role)
		}
	}
	return out
}

// ----------------------------
// Domains
// ----------------------------

const (
	DomainSys Domain = "sys"
)

const (
	DomainPrefixUser Domain = "user:"
)

const (
	WildcardDomain Domain = "*"
)

var (
	reUUID = regexp.MustCompile(`^[0-9a-fA-F-]{36}$`)
)

func UserDomain(userID string) Domain {
	return Domain(fmt.Sprintf("%s%s", DomainPrefixUser, userID))
}

// IsValidDomain checks whether d is a recognised domain string.
func IsValidDomain(d Domain) bool {
	if d == DomainSys || d == WildcardDomain {
		return true
	}

	s := string(d)
	if len(s) > len(DomainPrefixUser) && s[:len(DomainPrefixUser)] == string(DomainPrefixUser) {
		return reUUID.MatchString(s[len(DomainPrefixUser):])
	}
	return false
}

// ----------------------------
// Casbin tuple helpers
// ----------------------------

type PolicyEffect string

const (
	EffectAllow PolicyEffect = "allow"
	EffectDeny  PolicyEffect = "deny"
)

// GroupSubject is the g.sub in Casbin: a concrete principal id (user_id or service_id).
type GroupSubject string

// Grouping rows: g, user_id, role, domain
type GroupingPolicy struct {
	Subject GroupSubject
	Role    Role
	Domain  Domain
}

// Permission rows: p, role, domain, resource, action, eft
type PermissionPolicy struct {
	Subject Role
	Domain  Domain
	Object  Resource
	Action  Action
	Effect  PolicyEffect
}
