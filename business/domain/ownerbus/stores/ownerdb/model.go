package ownerdb

import (
	"github.com/google/uuid"
	"github.com/mypgstay/mypg/business/domain/ownerbus"
)

type chainDB struct {
	BedID      uuid.NullUUID `db:"bed_id"`
	RoomID     uuid.NullUUID `db:"room_id"`
	PropertyID uuid.UUID     `db:"property_id"`
	AdminID    uuid.UUID     `db:"admin_id"`
}

func toBusChain(db chainDB) ownerbus.Chain {
	return ownerbus.Chain{
		BedID:      db.BedID.UUID,
		RoomID:     db.RoomID.UUID,
		PropertyID: db.PropertyID,
		AdminID:    db.AdminID,
	}
}
