// Package occupancydb contains tenant link related CRUD functionality. The
// occupancy flag and the link row always change in the same statement so the
// invariant survives concurrent callers without help from the caller.
package occupancydb

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mypgstay/mypg/business/domain/occupancybus"
	"github.com/mypgstay/mypg/business/sdk/sqldb"
	"github.com/mypgstay/mypg/foundation/logger"
)

// Store manages the set of APIs for tenant link database access.
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
func (s *Store) NewWithTx(tx sqldb.CommitRollbacker) (occupancybus.Storer, error) {
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

// InsertLink occupies the bed and creates the link in one statement. The
// conditional UPDATE serializes racing assignments: the loser matches zero
// rows, inserts nothing and gets ErrBedOccupied.
func (s *Store) InsertLink(ctx context.Context, lnk occupancybus.Link) error {
	const q = `
	WITH occupy AS (
		UPDATE "public"."bed"
		SET is_occupied = true
		WHERE bed_id = :bed_id AND is_occupied = false
		RETURNING bed_id
	)
	INSERT INTO "public"."tenant_link"
		(link_id, user_id, bed_id, move_in_date, created_at)
	SELECT
		:link_id, :user_id, :bed_id, :move_in_date, :created_at
	FROM occupy`

	rows, err := sqldb.ExecContext(ctx, s.log, s.db, q, toDBLink(lnk))
	if err != nil {
		var dupErr sqldb.ErrDBDuplicatedEntry
		if errors.As(err, &dupErr) {
			switch dupErr.Column {
			case "bed_id", "uq_tenant_link_bed":
				return fmt.Errorf("execcontext: %w", occupancybus.ErrBedOccupied)
			case "user_id", "uq_tenant_link_user":
				return fmt.Errorf("execcontext: %w", occupancybus.ErrTenantLinked)
			}
		}
		return fmt.Errorf("execcontext: %w", err)
	}

	// A zero row match means the guard failed. The bed may also have been
	// deleted after the caller resolved its chain, so check before
	// reporting a conflict.
	if rows == 0 {
		if err := s.bedExists(ctx, lnk.BedID); err != nil {
			return err
		}
		return occupancybus.ErrBedOccupied
	}

	return nil
}

func (s *Store) bedExists(ctx context.Context, bedID uuid.UUID) error {
	data := struct {
		BedID string `db:"bed_id"`
	}{
		BedID: bedID.String(),
	}

	const q = `
	SELECT
		bed_id
	FROM
		"public"."bed"
	WHERE
		bed_id = :bed_id`

	var dbBed struct {
		BedID uuid.UUID `db:"bed_id"`
	}
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &dbBed); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return fmt.Errorf("db: %w", occupancybus.ErrBedNotFound)
		}
		return fmt.Errorf("db: %w", err)
	}

	return nil
}

// DeleteLink removes the link and clears the occupancy flag in one
// statement. ErrNotFound reports a bed with no active link.
func (s *Store) DeleteLink(ctx context.Context, bedID uuid.UUID) error {
	data := struct {
		BedID string `db:"bed_id"`
	}{
		BedID: bedID.String(),
	}

	const q = `
	WITH removed AS (
		DELETE FROM "public"."tenant_link"
		WHERE bed_id = :bed_id
		RETURNING bed_id
	)
	UPDATE "public"."bed"
	SET is_occupied = false
	WHERE bed_id IN (SELECT bed_id FROM removed)`

	rows, err := sqldb.ExecContext(ctx, s.log, s.db, q, data)
	if err != nil {
		return fmt.Errorf("execcontext: %w", err)
	}

	if rows == 0 {
		return occupancybus.ErrNotFound
	}

	return nil
}

// QueryLinkByUser gets the active link for the specified user.
func (s *Store) QueryLinkByUser(ctx context.Context, userID uuid.UUID) (occupancybus.Link, error) {
	data := struct {
		UserID string `db:"user_id"`
	}{
		UserID: userID.String(),
	}

	const q = `
	SELECT
		link_id, user_id, bed_id, move_in_date, created_at
	FROM
		"public"."tenant_link"
	WHERE
		user_id = :user_id`

	var dbLnk linkDB
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &dbLnk); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return occupancybus.Link{}, fmt.Errorf("db: %w", occupancybus.ErrNotFound)
		}
		return occupancybus.Link{}, fmt.Errorf("db: %w", err)
	}

	return toBusLink(dbLnk), nil
}

// QueryLinkByBed gets the active link for the specified bed.
func (s *Store) QueryLinkByBed(ctx context.Context, bedID uuid.UUID) (occupancybus.Link, error) {
	data := struct {
		BedID string `db:"bed_id"`
	}{
		BedID: bedID.String(),
	}

	const q = `
	SELECT
		link_id, user_id, bed_id, move_in_date, created_at
	FROM
		"public"."tenant_link"
	WHERE
		bed_id = :bed_id`

	var dbLnk linkDB
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &dbLnk); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return occupancybus.Link{}, fmt.Errorf("db: %w", occupancybus.ErrNotFound)
		}
		return occupancybus.Link{}, fmt.Errorf("db: %w", err)
	}

	return toBusLink(dbLnk), nil
}

// QueryLinksByAdmin gets all links under the properties owned by the
// specified administrator.
func (s *Store) QueryLinksByAdmin(ctx context.Context, adminID uuid.UUID) ([]occupancybus.Link, error) {
	data := struct {
		AdminID string `db:"admin_id"`
	}{
		AdminID: adminID.String(),
	}

	const q = `
	SELECT
		tl.link_id, tl.user_id, tl.bed_id, tl.move_in_date, tl.created_at
	FROM
		"public"."tenant_link" AS tl
	JOIN
		"public"."bed" AS b ON b.bed_id = tl.bed_id
	JOIN
		"public"."room" AS r ON r.room_id = b.room_id
	JOIN
		"public"."property" AS p ON p.property_id = r.property_id
	WHERE
		p.admin_id = :admin_id
	ORDER BY
		tl.created_at`

	var dbLnks []linkDB
	if err := sqldb.NamedQuerySlice(ctx, s.log, s.db, q, data, &dbLnks); err != nil {
		return nil, fmt.Errorf("namedqueryslice: %w", err)
	}

	return toBusLinks(dbLnks), nil
}

// QueryLinksByProperty gets all links whose bed belongs to the specified
// property.
func (s *Store) QueryLinksByProperty(ctx context.Context, propertyID uuid.UUID) ([]occupancybus.Link, error) {
	data := struct {
		PropertyID string `db:"property_id"`
	}{
		PropertyID: propertyID.String(),
	}

	const q = `
	SELECT
		tl.link_id, tl.user_id, tl.bed_id, tl.move_in_date, tl.created_at
	FROM
		"public"."tenant_link" AS tl
	JOIN
		"public"."bed" AS b ON b.bed_id = tl.bed_id
	JOIN
		"public"."room" AS r ON r.room_id = b.room_id
	WHERE
		r.property_id = :property_id
	ORDER BY
		tl.created_at`

	var dbLnks []linkDB
	if err := sqldb.NamedQuerySlice(ctx, s.log, s.db, q, data, &dbLnks); err != nil {
		return nil, fmt.Errorf("namedqueryslice: %w", err)
	}

	return toBusLinks(dbLnks), nil
}
