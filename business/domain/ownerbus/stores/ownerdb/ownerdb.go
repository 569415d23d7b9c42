// Package ownerdb resolves ownership chains with database access.
package ownerdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mypgstay/mypg/business/domain/ownerbus"
	"github.com/mypgstay/mypg/business/sdk/sqldb"
	"github.com/mypgstay/mypg/foundation/logger"
)

// Store manages the set of APIs for ownership chain database access.
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
func (s *Store) NewWithTx(tx sqldb.CommitRollbacker) (ownerbus.Storer, error) {
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

// QueryChainByProperty resolves the owning administrator for a property.
func (s *Store) QueryChainByProperty(ctx context.Context, propertyID uuid.UUID) (ownerbus.Chain, error) {
	data := struct {
		ID string `db:"property_id"`
	}{
		ID: propertyID.String(),
	}

	const q = `
	SELECT
		property_id, admin_id
	FROM
		"public"."property"
	WHERE
		property_id = :property_id`

	var dbChain chainDB
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &dbChain); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return ownerbus.Chain{}, fmt.Errorf("db: %w", ownerbus.ErrNotFound)
		}
		return ownerbus.Chain{}, fmt.Errorf("db: %w", err)
	}

	return toBusChain(dbChain), nil
}

// QueryChainByRoom resolves the property and owning administrator for a room.
func (s *Store) QueryChainByRoom(ctx context.Context, roomID uuid.UUID) (ownerbus.Chain, error) {
	data := struct {
		ID string `db:"room_id"`
	}{
		ID: roomID.String(),
	}

	const q = `
	SELECT
		r.room_id, p.property_id, p.admin_id
	FROM
		"public"."room" AS r
	JOIN
		"public"."property" AS p ON p.property_id = r.property_id
	WHERE
		r.room_id = :room_id`

	var dbChain chainDB
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &dbChain); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return ownerbus.Chain{}, fmt.Errorf("db: %w", ownerbus.ErrNotFound)
		}
		return ownerbus.Chain{}, fmt.Errorf("db: %w", err)
	}

	return toBusChain(dbChain), nil
}

// QueryChainByBed resolves the full room, property and owning administrator
// ancestry for a bed.
func (s *Store) QueryChainByBed(ctx context.Context, bedID uuid.UUID) (ownerbus.Chain, error) {
	data := struct {
		ID string `db:"bed_id"`
	}{
		ID: bedID.String(),
	}

	const q = `
	SELECT
		b.bed_id, r.room_id, p.property_id, p.admin_id
	FROM
		"public"."bed" AS b
	JOIN
		"public"."room" AS r ON r.room_id = b.room_id
	JOIN
		"public"."property" AS p ON p.property_id = r.property_id
	WHERE
		b.bed_id = :bed_id`

	var dbChain chainDB
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &dbChain); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return ownerbus.Chain{}, fmt.Errorf("db: %w", ownerbus.ErrNotFound)
		}
		return ownerbus.Chain{}, fmt.Errorf("db: %w", err)
	}

	return toBusChain(dbChain), nil
}
