package statusbus

import "github.com/mypgstay/mypg/business/types/role"

// The set of states a user can resolve to.
const (
	StateAdminActive   = "ADMIN_ACTIVE"
	StateTenantActive  = "TENANT_ACTIVE"
	StateTenantPending = "TENANT_PENDING"
)

// Status describes where a user stands in the system.
type Status struct {
	Role      role.Role
	HasAccess bool
	HasBed    bool
	State     string
	Message   string
}
