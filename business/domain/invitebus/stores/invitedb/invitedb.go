// Package invitedb contains invite related CRUD functionality.
package invitedb

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mypgstay/mypg/business/domain/invitebus"
	"github.com/mypgstay/mypg/business/sdk/sqldb"
	"github.com/mypgstay/mypg/foundation/logger"
)

// Store manages the set of APIs for invite database access.
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
func (s *Store) NewWithTx(tx sqldb.CommitRollbacker) (invitebus.Storer, error) {
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

// Create adds a new invite to the system.
func (s *Store) Create(ctx context.Context, inv invitebus.Invite) error {
	const q = `
	INSERT INTO "public"."invite"
		(code, admin_id, property_id, status, created_at, updated_at)
	VALUES
		(:code, :admin_id, :property_id, :status, :created_at, :updated_at)`

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, toDBInvite(inv)); err != nil {
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// Consume flips a live invite to consumed and returns it. The status guard
// in the WHERE clause makes the transition atomic: once a redemption wins,
// every later attempt on the same code matches zero rows.
func (s *Store) Consume(ctx context.Context, code string) (invitebus.Invite, error) {
	data := struct {
		Code string `db:"code"`
	}{
		Code: code,
	}

	const q = `
	UPDATE "public"."invite"
	SET status = 'CONSUMED', updated_at = now()
	WHERE code = :code AND status = 'LIVE'
	RETURNING code, admin_id, property_id, status, created_at, updated_at`

	var dbInv inviteDB
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &dbInv); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return invitebus.Invite{}, fmt.Errorf("db: %w", invitebus.ErrInvalidCode)
		}
		return invitebus.Invite{}, fmt.Errorf("db: %w", err)
	}

	return toBusInvite(dbInv)
}

// RevokeLiveByAdmin consumes every live invite held by the administrator.
// Zero matching rows is not an error.
func (s *Store) RevokeLiveByAdmin(ctx context.Context, adminID uuid.UUID) error {
	data := struct {
		AdminID string `db:"admin_id"`
	}{
		AdminID: adminID.String(),
	}

	const q = `
	UPDATE "public"."invite"
	SET status = 'CONSUMED', updated_at = now()
	WHERE admin_id = :admin_id AND status = 'LIVE'`

	if _, err := sqldb.ExecContext(ctx, s.log, s.db, q, data); err != nil {
		return fmt.Errorf("execcontext: %w", err)
	}

	return nil
}

// QueryByCode retrieves an invite by its code value.
func (s *Store) QueryByCode(ctx context.Context, code string) (invitebus.Invite, error) {
	data := struct {
		Code string `db:"code"`
	}{
		Code: code,
	}

	const q = `
	SELECT
		code, admin_id, property_id, status, created_at, updated_at
	FROM
		"public"."invite"
	WHERE
		code = :code`

	var dbInv inviteDB
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &dbInv); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return invitebus.Invite{}, fmt.Errorf("db: %w", invitebus.ErrInvalidCode)
		}
		return invitebus.Invite{}, fmt.Errorf("db: %w", err)
	}

	return toBusInvite(dbInv)
}
