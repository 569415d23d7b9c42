package invitedb

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mypgstay/mypg/business/domain/invitebus"
	"github.com/mypgstay/mypg/business/types/invitestatus"
)

type inviteDB struct {
	Code       string    `db:"code"`
	AdminID    uuid.UUID `db:"admin_id"`
	PropertyID uuid.UUID `db:"property_id"`
	Status     string    `db:"status"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func toDBInvite(bus invitebus.Invite) inviteDB {
	return inviteDB{
		Code:       bus.Code,
		AdminID:    bus.AdminID,
		PropertyID: bus.PropertyID,
		Status:     bus.Status.String(),
		CreatedAt:  bus.CreatedAt.UTC(),
		UpdatedAt:  bus.UpdatedAt.UTC(),
	}
}

func toBusInvite(db inviteDB) (invitebus.Invite, error) {
	status, err := invitestatus.Parse(db.Status)
	if err != nil {
		return invitebus.Invite{}, fmt.Errorf("parse status: %w", err)
	}

	bus := invitebus.Invite{
		Code:       db.Code,
		AdminID:    db.AdminID,
		PropertyID: db.PropertyID,
		Status:     status,
		CreatedAt:  db.CreatedAt.In(time.Local),
		UpdatedAt:  db.UpdatedAt.In(time.Local),
	}

	return bus, nil
}
