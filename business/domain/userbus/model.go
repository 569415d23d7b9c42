package userbus

import (
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/mypgstay/mypg/business/types/name"
	"github.com/mypgstay/mypg/business/types/password"
	"github.com/mypgstay/mypg/business/types/role"
)

// User represents information about an individual user. InvitedPropertyID is
// the property the user's signup invite was bound to; the zero uuid means the
// user did not sign up through an invite.
type User struct {
	ID                uuid.UUID
	Name              name.Name
	Email             mail.Address
	Role              role.Role
	PasswordHash      []byte
	Enabled           bool
	InvitedPropertyID uuid.UUID
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewUser contains information needed to create a new user.
type NewUser struct {
	Name              name.Name
	Email             mail.Address
	Role              role.Role
	Password          password.Password
	InvitedPropertyID uuid.UUID
}

// UpdateUser contains information needed to update a user.
type UpdateUser struct {
	Name     *name.Name
	Email    *mail.Address
	Role     *role.Role
	Password *password.Password
	Enabled  *bool
}
