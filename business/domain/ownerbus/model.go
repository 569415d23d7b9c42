package ownerbus

import (
	"github.com/google/uuid"
	"github.com/mypgstay/mypg/business/types/role"
)

// Actor is the authenticated identity attempting an action. The identity
// service is trusted to have verified it before it is handed in.
type Actor struct {
	ID   uuid.UUID
	Role role.Role
}

// Chain represents the resolved ownership ancestry for a resource. Fields
// above the target level are zero: a property target carries no room or bed
// id. AdminID is always the administrator owning the root property.
type Chain struct {
	BedID      uuid.UUID
	RoomID     uuid.UUID
	PropertyID uuid.UUID
	AdminID    uuid.UUID
}
