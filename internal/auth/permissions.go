package auth

// Permission strings use the form "MODULE:ACTION", matched exactly and
// case-sensitively against a role's permission list.
const (
	PermProductRead        = "PRODUCT:READ"
	PermProductCreate      = "PRODUCT:CREATE"
	PermProductUpdate      = "PRODUCT:UPDATE"
	PermProductDelete      = "PRODUCT:DELETE"
	PermProductConsolidate = "PRODUCT:CONSOLIDATE"

	PermSaleRead   = "SALE:READ"
	PermSaleCreate = "SALE:CREATE"

	PermUserRead   = "USER:READ"
	PermUserCreate = "USER:CREATE"
	PermUserUpdate = "USER:UPDATE"

	PermRoleRead   = "ROLE:READ"
	PermRoleCreate = "ROLE:CREATE"
	PermRoleUpdate = "ROLE:UPDATE"
	PermRoleDelete = "ROLE:DELETE"

	PermReportRead = "REPORT:READ"
)

// AllPermissions lists every permission the service checks, for role
// management UIs.
var AllPermissions = []string{
	PermProductRead,
	PermProductCreate,
	PermProductUpdate,
	PermProductDelete,
	PermProductConsolidate,
	PermSaleRead,
	PermSaleCreate,
	PermUserRead,
	PermUserCreate,
	PermUserUpdate,
	PermRoleRead,
	PermRoleCreate,
	PermRoleUpdate,
	PermRoleDelete,
	PermReportRead,
}
