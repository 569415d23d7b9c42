// Package propertydb contains property, room and bed related CRUD
// functionality.
package propertydb

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mypgstay/mypg/business/domain/propertybus"
	"github.com/mypgstay/mypg/business/sdk/sqldb"
	"github.com/mypgstay/mypg/foundation/logger"
)

// Store manages the set of APIs for property database access.
type Store struct {
	log *logger.Logger
	db  sqlx.ExtContext
}

// NewStore constructs the api for data access.
func NewStore(log *logger.Logger, db *sqlx.DB) *Store {
	return &Store{
		log: log,
		db:  db,
	}
}

// NewWithTx constructs a new Store value replacing the sqlx DB
// value with a sqlx DB value that is currently inside a transaction.
func (s *Store) NewWithTx(tx sqldb.CommitRollbacker) (propertybus.Storer, error) {
	ec, err := sqldb.GetExtContext(tx)
	if err != nil {
		return nil, err
	}

	store := Store{
		log: s.log,
		db:  ec,
	}

	return &store, nil
}

// CreateProperty inserts a new property into the database.
func (s *Store) CreateProperty(ctx context.Context, prp propertybus.Property) error {
	const q = `
	INSERT INTO "public"."property"
		(property_id, admin_id, name, address, created_at, updated_at)
	VALUES
		(:property_id, :admin_id, :name, :address, :created_at, :updated_at)`

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, toDBProperty(prp)); err != nil {
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// QueryPropertiesByAdmin gets the properties owned by the specified
// administrator.
func (s *Store) QueryPropertiesByAdmin(ctx context.Context, adminID uuid.UUID) ([]propertybus.Property, error) {
	data := struct {
		AdminID string `db:"admin_id"`
	}{
		AdminID: adminID.String(),
	}

	const q = `
	SELECT
		property_id, admin_id, name, address, created_at, updated_at
	FROM
		"public"."property"
	WHERE
		admin_id = :admin_id
	ORDER BY
		created_at`

	var dbPrps []propertyDB
	if err := sqldb.NamedQuerySlice(ctx, s.log, s.db, q, data, &dbPrps); err != nil {
		return nil, fmt.Errorf("namedqueryslice: %w", err)
	}

	return toBusProperties(dbPrps)
}

// QueryPropertyStats aggregates room and occupancy counts for a property.
func (s *Store) QueryPropertyStats(ctx context.Context, propertyID uuid.UUID) (propertybus.Stats, error) {
	data := struct {
		ID string `db:"property_id"`
	}{
		ID: propertyID.String(),
	}

	const q = `
	SELECT
		count(DISTINCT r.room_id)                          AS total_rooms,
		count(b.bed_id)                                    AS total_beds,
		count(b.bed_id) FILTER (WHERE b.is_occupied)       AS occupied_beds
	FROM
		"public"."room" AS r
	LEFT JOIN
		"public"."bed" AS b ON b.room_id = r.room_id
	WHERE
		r.property_id = :property_id`

	var dbStats statsDB
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &dbStats); err != nil {
		return propertybus.Stats{}, fmt.Errorf("db: %w", err)
	}

	return toBusStats(dbStats), nil
}

// CreateRoom inserts a new room into the database.
func (s *Store) CreateRoom(ctx context.Context, rm propertybus.Room) error {
	const q = `
	INSERT INTO "public"."room"
		(room_id, property_id, room_number, created_at)
	VALUES
		(:room_id, :property_id, :room_number, :created_at)`

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, toDBRoom(rm)); err != nil {
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// QueryRoomsByProperty gets the rooms of the specified property.
func (s *Store) QueryRoomsByProperty(ctx context.Context, propertyID uuid.UUID) ([]propertybus.Room, error) {
	data := struct {
		ID string `db:"property_id"`
	}{
		ID: propertyID.String(),
	}

	const q = `
	SELECT
		room_id, property_id, room_number, created_at
	FROM
		"public"."room"
	WHERE
		property_id = :property_id
	ORDER BY
		room_number`

	var dbRms []roomDB
	if err := sqldb.NamedQuerySlice(ctx, s.log, s.db, q, data, &dbRms); err != nil {
		return nil, fmt.Errorf("namedqueryslice: %w", err)
	}

	return toBusRooms(dbRms), nil
}

// CreateBed inserts a new bed into the database.
func (s *Store) CreateBed(ctx context.Context, bed propertybus.Bed) error {
	const q = `
	INSERT INTO "public"."bed"
		(bed_id, room_id, rent, is_occupied, created_at)
	VALUES
		(:bed_id, :room_id, :rent, :is_occupied, :created_at)`

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, toDBBed(bed)); err != nil {
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// QueryBedsByRoom gets the beds of the specified room.
func (s *Store) QueryBedsByRoom(ctx context.Context, roomID uuid.UUID) ([]propertybus.Bed, error) {
	data := struct {
		ID string `db:"room_id"`
	}{
		ID: roomID.String(),
	}

	const q = `
	SELECT
		bed_id, room_id, rent, is_occupied, created_at
	FROM
		"public"."bed"
	WHERE
		room_id = :room_id
	ORDER BY
		created_at`

	var dbBeds []bedDB
	if err := sqldb.NamedQuerySlice(ctx, s.log, s.db, q, data, &dbBeds); err != nil {
		return nil, fmt.Errorf("namedqueryslice: %w", err)
	}

	return toBusBeds(dbBeds)
}

// QueryBedByID gets the specified bed from the database.
func (s *Store) QueryBedByID(ctx context.Context, bedID uuid.UUID) (propertybus.Bed, error) {
	data := struct {
		ID string `db:"bed_id"`
	}{
		ID: bedID.String(),
	}

	const q = `
	SELECT
		bed_id, room_id, rent, is_occupied, created_at
	FROM
		"public"."bed"
	WHERE
		bed_id = :bed_id`

	var dbBed bedDB
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &dbBed); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return propertybus.Bed{}, fmt.Errorf("db: %w", propertybus.ErrBedNotFound)
		}
		return propertybus.Bed{}, fmt.Errorf("db: %w", err)
	}

	return toBusBed(dbBed)
}

// DeleteUnoccupiedBed removes a bed only while it is unoccupied. The
// condition rides in the statement so a concurrent assignment cannot slip
// between a check and the delete.
func (s *Store) DeleteUnoccupiedBed(ctx context.Context, bedID uuid.UUID) error {
	data := struct {
		ID string `db:"bed_id"`
	}{
		ID: bedID.String(),
	}

	const q = `
	DELETE FROM
		"public"."bed"
	WHERE
		bed_id = :bed_id AND is_occupied = false`

	rows, err := sqldb.ExecContext(ctx, s.log, s.db, q, data)
	if err != nil {
		return fmt.Errorf("execcontext: %w", err)
	}

	if rows == 0 {
		bed, err := s.QueryBedByID(ctx, bedID)
		if err != nil {
			return err
		}
		if bed.Occupied {
			return propertybus.ErrBedOccupied
		}
		return propertybus.ErrBedNotFound
	}

	return nil
}

// QueryAvailableBedsByAdmin gets all unoccupied beds across the properties
// owned by the specified administrator.
func (s *Store) QueryAvailableBedsByAdmin(ctx context.Context, adminID uuid.UUID) ([]propertybus.AvailableBed, error) {
	data := struct {
		AdminID string `db:"admin_id"`
	}{
		AdminID: adminID.String(),
	}

	const q = `
	SELECT
		b.bed_id, b.rent, r.room_id, r.room_number,
		p.property_id, p.name AS property_name, p.address AS property_address
	FROM
		"public"."bed" AS b
	JOIN
		"public"."room" AS r ON r.room_id = b.room_id
	JOIN
		"public"."property" AS p ON p.property_id = r.property_id
	WHERE
		p.admin_id = :admin_id AND b.is_occupied = false
	ORDER BY
		p.name, r.room_number`

	var dbBeds []availableBedDB
	if err := sqldb.NamedQuerySlice(ctx, s.log, s.db, q, data, &dbBeds); err != nil {
		return nil, fmt.Errorf("namedqueryslice: %w", err)
	}

	return toBusAvailableBeds(dbBeds)
}
