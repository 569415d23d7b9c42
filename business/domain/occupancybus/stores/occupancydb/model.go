package occupancydb

import (
	"time"

	"github.com/google/uuid"
	"github.com/mypgstay/mypg/business/domain/occupancybus"
)

type linkDB struct {
	ID         uuid.UUID `db:"link_id"`
	UserID     uuid.UUID `db:"user_id"`
	BedID      uuid.UUID `db:"bed_id"`
	MoveInDate time.Time `db:"move_in_date"`
	CreatedAt  time.Time `db:"created_at"`
}

func toDBLink(bus occupancybus.Link) linkDB {
	return linkDB{
		ID:         bus.ID,
		UserID:     bus.UserID,
		BedID:      bus.BedID,
		MoveInDate: bus.MoveInDate.UTC(),
		CreatedAt:  bus.CreatedAt.UTC(),
	}
}

func toBusLink(db linkDB) occupancybus.Link {
	return occupancybus.Link{
		ID:         db.ID,
		UserID:     db.UserID,
		BedID:      db.BedID,
		MoveInDate: db.MoveInDate.In(time.Local),
		CreatedAt:  db.CreatedAt.In(time.Local),
	}
}

func toBusLinks(dbs []linkDB) []occupancybus.Link {
	bus := make([]occupancybus.Link, len(dbs))
	for i, db := range dbs {
		bus[i] = toBusLink(db)
	}
	return bus
}
