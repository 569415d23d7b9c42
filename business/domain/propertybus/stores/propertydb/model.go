package propertydb

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mypgstay/mypg/business/domain/propertybus"
	"github.com/mypgstay/mypg/business/types/money"
	"github.com/mypgstay/mypg/business/types/name"
)

type propertyDB struct {
	ID        uuid.UUID `db:"property_id"`
	AdminID   uuid.UUID `db:"admin_id"`
	Name      string    `db:"name"`
	Address   string    `db:"address"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func toDBProperty(bus propertybus.Property) propertyDB {
	return propertyDB{
		ID:        bus.ID,
		AdminID:   bus.AdminID,
		Name:      bus.Name.String(),
		Address:   bus.Address,
		CreatedAt: bus.CreatedAt.UTC(),
		UpdatedAt: bus.UpdatedAt.UTC(),
	}
}

func toBusProperty(db propertyDB) (propertybus.Property, error) {
	nme, err := name.Parse(db.Name)
	if err != nil {
		return propertybus.Property{}, fmt.Errorf("parse name: %w", err)
	}

	bus := propertybus.Property{
		ID:        db.ID,
		AdminID:   db.AdminID,
		Name:      nme,
		Address:   db.Address,
		CreatedAt: db.CreatedAt.In(time.Local),
		UpdatedAt: db.UpdatedAt.In(time.Local),
	}

	return bus, nil
}

func toBusProperties(dbs []propertyDB) ([]propertybus.Property, error) {
	bus := make([]propertybus.Property, len(dbs))

	for i, db := range dbs {
		var err error
		bus[i], err = toBusProperty(db)
		if err != nil {
			return nil, err
		}
	}

	return bus, nil
}

// =============================================================================

type roomDB struct {
	ID         uuid.UUID `db:"room_id"`
	PropertyID uuid.UUID `db:"property_id"`
	Number     string    `db:"room_number"`
	CreatedAt  time.Time `db:"created_at"`
}

func toDBRoom(bus propertybus.Room) roomDB {
	return roomDB{
		ID:         bus.ID,
		PropertyID: bus.PropertyID,
		Number:     bus.Number,
		CreatedAt:  bus.CreatedAt.UTC(),
	}
}

func toBusRoom(db roomDB) propertybus.Room {
	return propertybus.Room{
		ID:         db.ID,
		PropertyID: db.PropertyID,
		Number:     db.Number,
		CreatedAt:  db.CreatedAt.In(time.Local),
	}
}

func toBusRooms(dbs []roomDB) []propertybus.Room {
	bus := make([]propertybus.Room, len(dbs))
	for i, db := range dbs {
		bus[i] = toBusRoom(db)
	}
	return bus
}

// =============================================================================

type bedDB struct {
	ID        uuid.UUID `db:"bed_id"`
	RoomID    uuid.UUID `db:"room_id"`
	Rent      float64   `db:"rent"`
	Occupied  bool      `db:"is_occupied"`
	CreatedAt time.Time `db:"created_at"`
}

func toDBBed(bus propertybus.Bed) bedDB {
	return bedDB{
		ID:        bus.ID,
		RoomID:    bus.RoomID,
		Rent:      bus.Rent.Value(),
		Occupied:  bus.Occupied,
		CreatedAt: bus.CreatedAt.UTC(),
	}
}

func toBusBed(db bedDB) (propertybus.Bed, error) {
	rent, err := money.Parse(db.Rent)
	if err != nil {
		return propertybus.Bed{}, fmt.Errorf("parse rent: %w", err)
	}

	bus := propertybus.Bed{
		ID:        db.ID,
		RoomID:    db.RoomID,
		Rent:      rent,
		Occupied:  db.Occupied,
		CreatedAt: db.CreatedAt.In(time.Local),
	}

	return bus, nil
}

func toBusBeds(dbs []bedDB) ([]propertybus.Bed, error) {
	bus := make([]propertybus.Bed, len(dbs))

	for i, db := range dbs {
		var err error
		bus[i], err = toBusBed(db)
		if err != nil {
			return nil, err
		}
	}

	return bus, nil
}

// =============================================================================

type statsDB struct {
	TotalRooms   int `db:"total_rooms"`
	TotalBeds    int `db:"total_beds"`
	OccupiedBeds int `db:"occupied_beds"`
}

func toBusStats(db statsDB) propertybus.Stats {
	return propertybus.Stats{
		TotalRooms:   db.TotalRooms,
		TotalBeds:    db.TotalBeds,
		OccupiedBeds: db.OccupiedBeds,
		TotalTenants: db.OccupiedBeds,
	}
}

// =============================================================================

type availableBedDB struct {
	BedID           uuid.UUID `db:"bed_id"`
	Rent            float64   `db:"rent"`
	RoomID          uuid.UUID `db:"room_id"`
	RoomNumber      string    `db:"room_number"`
	PropertyID      uuid.UUID `db:"property_id"`
	PropertyName    string    `db:"property_name"`
	PropertyAddress string    `db:"property_address"`
}

func toBusAvailableBed(db availableBedDB) (propertybus.AvailableBed, error) {
	rent, err := money.Parse(db.Rent)
	if err != nil {
		return propertybus.AvailableBed{}, fmt.Errorf("parse rent: %w", err)
	}

	bus := propertybus.AvailableBed{
		BedID:           db.BedID,
		Rent:            rent,
		RoomID:          db.RoomID,
		RoomNumber:      db.RoomNumber,
		PropertyID:      db.PropertyID,
		PropertyName:    db.PropertyName,
		PropertyAddress: db.PropertyAddress,
	}

	return bus, nil
}

func toBusAvailableBeds(dbs []availableBedDB) ([]propertybus.AvailableBed, error) {
	bus := make([]propertybus.AvailableBed, len(dbs))

	for i, db := range dbs {
		var err error
		bus[i], err = toBusAvailableBed(db)
		if err != nil {
			return nil, err
		}
	}

	return bus, nil
}
