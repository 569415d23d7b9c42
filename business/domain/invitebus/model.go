package invitebus

import (
	"time"

	"github.com/google/uuid"
	"github.com/mypgstay/mypg/business/types/invitestatus"
)

// Invite represents a single-use signup code bound to a property.
type Invite struct {
	Code       string
	AdminID    uuid.UUID
	PropertyID uuid.UUID
	Status     invitestatus.Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
