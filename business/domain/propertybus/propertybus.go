// Package propertybus provides business access to the property, room and bed
// domain. Every operation that touches an existing resource clears the
// ownership resolver first.
package propertybus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mypgstay/mypg/business/domain/ownerbus"
	"github.com/mypgstay/mypg/business/sdk/sqldb"
	"github.com/mypgstay/mypg/business/types/actions"
	"github.com/mypgstay/mypg/business/types/resource"
	"github.com/mypgstay/mypg/business/types/role"
	"github.com/mypgstay/mypg/foundation/otel"
)

var (
	ErrNotFound    = errors.New("property not found")
	ErrBedNotFound = errors.New("bed not found")
	ErrBedOccupied = errors.New("bed is occupied")
)

// Storer defines the behavior required by the propertybus to interact with
// the database.
type Storer interface {
	NewWithTx(tx sqldb.CommitRollbacker) (Storer, error)
	CreateProperty(ctx context.Context, prp Property) error
	QueryPropertiesByAdmin(ctx context.Context, adminID uuid.UUID) ([]Property, error)
	QueryPropertyStats(ctx context.Context, propertyID uuid.UUID) (Stats, error)
	CreateRoom(ctx context.Context, rm Room) error
	QueryRoomsByProperty(ctx context.Context, propertyID uuid.UUID) ([]Room, error)
	CreateBed(ctx context.Context, bed Bed) error
	QueryBedsByRoom(ctx context.Context, roomID uuid.UUID) ([]Bed, error)
	QueryBedByID(ctx context.Context, bedID uuid.UUID) (Bed, error)
	DeleteUnoccupiedBed(ctx context.Context, bedID uuid.UUID) error
	QueryAvailableBedsByAdmin(ctx context.Context, adminID uuid.UUID) ([]AvailableBed, error)
}

// Core manages the set of APIs for property access.
type Core struct {
	storer   Storer
	ownerBus *ownerbus.Core
}

// NewCore constructs a core for property api access.
func NewCore(storer Storer, ownerBus *ownerbus.Core) *Core {
	return &Core{
		storer:   storer,
		ownerBus: ownerBus,
	}
}

// NewWithTx constructs a new Core value replacing the Storer value with a
// Storer value that is currently inside a transaction.
func (c *Core) NewWithTx(tx sqldb.CommitRollbacker) (*Core, error) {
	storer, err := c.storer.NewWithTx(tx)
	if err != nil {
		return nil, err
	}

	ownerBus, err := c.ownerBus.NewWithTx(tx)
	if err != nil {
		return nil, err
	}

	return NewCore(storer, ownerBus), nil
}

// CreateProperty adds a new property owned by the acting administrator.
// There is no chain to resolve yet, so only the role gate applies.
func (c *Core) CreateProperty(ctx context.Context, actor ownerbus.Actor, np NewProperty) (Property, error) {
	ctx, span := otel.AddSpan(ctx, "business.propertybus.createProperty")
	defer span.End()

	if !actor.Role.Equal(role.Administrator) {
		return Property{}, fmt.Errorf("actor[%s]: %w", actor.ID, ownerbus.ErrRoleDenied)
	}

	now := time.Now()

	prp := Property{
		ID:        uuid.New(),
		AdminID:   actor.ID,
		Name:      np.Name,
		Address:   np.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.storer.CreateProperty(ctx, prp); err != nil {
		return Property{}, fmt.Errorf("create property: %w", err)
	}

	return prp, nil
}

// QueryPropertiesByAdmin retrieves the properties owned by an administrator.
func (c *Core) QueryPropertiesByAdmin(ctx context.Context, adminID uuid.UUID) ([]Property, error) {
	ctx, span := otel.AddSpan(ctx, "business.propertybus.queryPropertiesByAdmin")
	defer span.End()

	prps, err := c.storer.QueryPropertiesByAdmin(ctx, adminID)
	if err != nil {
		return nil, fmt.Errorf("query: adminID[%s]: %w", adminID, err)
	}

	return prps, nil
}

// QueryStats returns room and occupancy counts for a property.
func (c *Core) QueryStats(ctx context.Context, propertyID uuid.UUID) (Stats, error) {
	ctx, span := otel.AddSpan(ctx, "business.propertybus.queryStats")
	defer span.End()

	stats, err := c.storer.QueryPropertyStats(ctx, propertyID)
	if err != nil {
		return Stats{}, fmt.Errorf("query stats: propertyID[%s]: %w", propertyID, err)
	}

	return stats, nil
}

// CreateRoom adds a new room under a property the actor owns.
func (c *Core) CreateRoom(ctx context.Context, actor ownerbus.Actor, nr NewRoom) (Room, error) {
	ctx, span := otel.AddSpan(ctx, "business.propertybus.createRoom")
	defer span.End()

	if _, err := c.ownerBus.Authorize(ctx, actor, actions.Create, resource.Property, nr.PropertyID); err != nil {
		return Room{}, fmt.Errorf("authorize: %w", err)
	}

	rm := Room{
		ID:         uuid.New(),
		PropertyID: nr.PropertyID,
		Number:     nr.Number,
		CreatedAt:  time.Now(),
	}

	if err := c.storer.CreateRoom(ctx, rm); err != nil {
		return Room{}, fmt.Errorf("create room: %w", err)
	}

	return rm, nil
}

// QueryRoomsByProperty retrieves the rooms of a property the actor owns.
func (c *Core) QueryRoomsByProperty(ctx context.Context, actor ownerbus.Actor, propertyID uuid.UUID) ([]Room, error) {
	ctx, span := otel.AddSpan(ctx, "business.propertybus.queryRoomsByProperty")
	defer span.End()

	if _, err := c.ownerBus.Authorize(ctx, actor, actions.Get, resource.Property, propertyID); err != nil {
		return nil, fmt.Errorf("authorize: %w", err)
	}

	rms, err := c.storer.QueryRoomsByProperty(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("query rooms: propertyID[%s]: %w", propertyID, err)
	}

	return rms, nil
}

// CreateBed adds a new bed under a room the actor owns.
func (c *Core) CreateBed(ctx context.Context, actor ownerbus.Actor, nb NewBed) (Bed, error) {
	ctx, span := otel.AddSpan(ctx, "business.propertybus.createBed")
	defer span.End()

	if _, err := c.ownerBus.Authorize(ctx, actor, actions.Create, resource.Room, nb.RoomID); err != nil {
		return Bed{}, fmt.Errorf("authorize: %w", err)
	}

	bed := Bed{
		ID:        uuid.New(),
		RoomID:    nb.RoomID,
		Rent:      nb.Rent,
		Occupied:  false,
		CreatedAt: time.Now(),
	}

	if err := c.storer.CreateBed(ctx, bed); err != nil {
		return Bed{}, fmt.Errorf("create bed: %w", err)
	}

	return bed, nil
}

// QueryBedsByRoom retrieves the beds of a room the actor owns.
func (c *Core) QueryBedsByRoom(ctx context.Context, actor ownerbus.Actor, roomID uuid.UUID) ([]Bed, error) {
	ctx, span := otel.AddSpan(ctx, "business.propertybus.queryBedsByRoom")
	defer span.End()

	if _, err := c.ownerBus.Authorize(ctx, actor, actions.Get, resource.Room, roomID); err != nil {
		return nil, fmt.Errorf("authorize: %w", err)
	}

	beds, err := c.storer.QueryBedsByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("query beds: roomID[%s]: %w", roomID, err)
	}

	return beds, nil
}

// QueryBedByID finds the bed by the specified ID.
func (c *Core) QueryBedByID(ctx context.Context, bedID uuid.UUID) (Bed, error) {
	ctx, span := otel.AddSpan(ctx, "business.propertybus.queryBedByID")
	defer span.End()

	bed, err := c.storer.QueryBedByID(ctx, bedID)
	if err != nil {
		return Bed{}, fmt.Errorf("query: bedID[%s]: %w", bedID, err)
	}

	return bed, nil
}

// DeleteBed removes a bed the actor owns. An occupied bed is refused.
func (c *Core) DeleteBed(ctx context.Context, actor ownerbus.Actor, bedID uuid.UUID) error {
	ctx, span := otel.AddSpan(ctx, "business.propertybus.deleteBed")
	defer span.End()

	if _, err := c.ownerBus.Authorize(ctx, actor, actions.Delete, resource.Bed, bedID); err != nil {
		return fmt.Errorf("authorize: %w", err)
	}

	if err := c.storer.DeleteUnoccupiedBed(ctx, bedID); err != nil {
		return fmt.Errorf("delete bed: bedID[%s]: %w", bedID, err)
	}

	return nil
}

// QueryAvailableBeds retrieves all unoccupied beds across the properties the
// administrator owns, with their room and property context.
func (c *Core) QueryAvailableBeds(ctx context.Context, adminID uuid.UUID) ([]AvailableBed, error) {
	ctx, span := otel.AddSpan(ctx, "business.propertybus.queryAvailableBeds")
	defer span.End()

	beds, err := c.storer.QueryAvailableBedsByAdmin(ctx, adminID)
	if err != nil {
		return nil, fmt.Errorf("query available beds: adminID[%s]: %w", adminID, err)
	}

	return beds, nil
}
