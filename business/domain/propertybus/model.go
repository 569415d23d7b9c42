package propertybus

import (
	"time"

	"github.com/google/uuid"
	"github.com/mypgstay/mypg/business/types/money"
	"github.com/mypgstay/mypg/business/types/name"
)

// Property represents the top level rentable unit owned by one
// administrator. The owner never changes after creation.
type Property struct {
	ID        uuid.UUID
	AdminID   uuid.UUID
	Name      name.Name
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Room represents a subdivision of a property.
type Room struct {
	ID         uuid.UUID
	PropertyID uuid.UUID
	Number     string
	CreatedAt  time.Time
}

// Bed represents the unit of occupancy inside a room.
type Bed struct {
	ID        uuid.UUID
	RoomID    uuid.UUID
	Rent      money.Money
	Occupied  bool
	CreatedAt time.Time
}

// Stats aggregates room and occupancy counts for a property.
type Stats struct {
	TotalRooms   int
	TotalBeds    int
	OccupiedBeds int
	TotalTenants int
}

// AvailableBed is a denormalized row describing an unoccupied bed together
// with its room and property, used for assignment pickers.
type AvailableBed struct {
	BedID           uuid.UUID
	Rent            money.Money
	RoomID          uuid.UUID
	RoomNumber      string
	PropertyID      uuid.UUID
	PropertyName    string
	PropertyAddress string
}

// NewProperty contains information needed to create a new property.
type NewProperty struct {
	Name    name.Name
	Address string
}

// NewRoom contains information needed to create a new room.
type NewRoom struct {
	PropertyID uuid.UUID
	Number     string
}

// NewBed contains information needed to create a new bed.
type NewBed struct {
	RoomID uuid.UUID
	Rent   money.Money
}
