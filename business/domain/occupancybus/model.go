package occupancybus

import (
	"time"

	"github.com/google/uuid"
)

// Link is the join record establishing that a tenant user occupies a
// specific bed. Links are created on assignment and removed on release,
// never mutated.
type Link struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	BedID      uuid.UUID
	MoveInDate time.Time
	CreatedAt  time.Time
}

// NewLink contains information needed to assign a tenant to a bed.
type NewLink struct {
	UserID     uuid.UUID
	BedID      uuid.UUID
	MoveInDate time.Time
}
