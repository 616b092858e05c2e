package models

// TenantRole is the role a user holds inside the tenant in scope.
type TenantRole string

const (
	RoleAdmin TenantRole = "admin"
	RoleOwner TenantRole = "owner"
	RoleStaff TenantRole = "staff"
)

// Permission names a dashboard capability.
type Permission string

const (
	PermViewProducts       Permission = "viewProducts"
	PermManageProducts     Permission = "manageProducts"
	PermViewOrders         Permission = "viewOrders"
	PermManageOrders       Permission = "manageOrders"
	PermViewCustomers      Permission = "viewCustomers"
	PermManageCustomers    Permission = "manageCustomers"
	PermViewAnalytics      Permission = "viewAnalytics"
	PermManageSettings     Permission = "manageSettings"
	PermManageSubscription Permission = "manageSubscription"
	PermManageContent      Permission = "manageContent"
	PermManageUsers        Permission = "manageUsers"
)

// AllPermissions lists every permission in display order.
var AllPermissions = []Permission{
	PermViewProducts, PermManageProducts,
	PermViewOrders, PermManageOrders,
	PermViewCustomers, PermManageCustomers,
	PermViewAnalytics, PermManageSettings,
	PermManageSubscription, PermManageContent,
	PermManageUsers,
}

var rolePermissions = map[TenantRole][]Permission{
	RoleAdmin: AllPermissions,
	RoleOwner: {
		PermViewProducts, PermManageProducts,
		PermViewOrders, PermManageOrders,
		PermViewCustomers, PermManageCustomers,
		PermViewAnalytics, PermManageSettings,
		PermManageSubscription, PermManageContent,
	},
	RoleStaff: {
		PermViewProducts, PermManageProducts,
		PermViewOrders, PermManageOrders,
		PermViewCustomers,
	},
}

// Permissions is the resolved capability set of a role.
type Permissions map[Permission]bool

// PermissionsFor returns the static permission set of role. Unknown roles get nothing.
func PermissionsFor(role TenantRole) Permissions {
	perms := make(Permissions, len(AllPermissions))
	for _, p := range AllPermissions {
		perms[p] = false
	}
	for _, p := range rolePermissions[role] {
		perms[p] = true
	}
	return perms
}

// Has reports whether p is granted.
func (p Permissions) Has(perm Permission) bool {
	return p[perm]
}

// ParseTenantRole maps a stored settings role to a tenant role, defaulting to owner.
func ParseTenantRole(s string) TenantRole {
	switch TenantRole(s) {
	case RoleOwner, RoleStaff:
		return TenantRole(s)
	}
	return RoleOwner
}

// TenantContext is the tenant in scope for one request.
type TenantContext struct {
	TenantID    string      `json:"tenantId"`
	TenantName  string      `json:"tenantName"`
	UserID      string      `json:"userId"`
	Role        TenantRole  `json:"role"`
	IsAdmin     bool        `json:"isAdmin"`
	Permissions Permissions `json:"permissions"`
}

// Can reports whether the tenant context grants perm.
func (t *TenantContext) Can(perm Permission) bool {
	return t != nil && t.Permissions.Has(perm)
}

// SwitchTenantRequest selects the tenant an admin operates on.
type SwitchTenantRequest struct {
	TenantID string `json:"tenantId"`
}
