// Package occupancybus owns the occupancy invariant on beds: a bed is
// occupied by at most one active tenant link at any time. The occupancy flag
// and the link are flipped together as one atomic unit in the store, so two
// racing assignments on the same bed always produce exactly one winner.
package occupancybus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mypgstay/mypg/business/domain/ownerbus"
	"github.com/mypgstay/mypg/business/domain/userbus"
	"github.com/mypgstay/mypg/business/sdk/sqldb"
	"github.com/mypgstay/mypg/business/types/actions"
	"github.com/mypgstay/mypg/business/types/resource"
	"github.com/mypgstay/mypg/business/types/role"
	"github.com/mypgstay/mypg/foundation/otel"
)

var (
	ErrNotFound      = errors.New("tenant link not found")
	ErrBedNotFound   = errors.New("bed not found")
	ErrBedOccupied   = errors.New("bed is already occupied")
	ErrTenantLinked  = errors.New("tenant already occupies a bed")
	ErrNotTenantRole = errors.New("user does not have the tenant role")
)

// Storer defines the behavior required by the occupancybus to interact with
// the database. InsertLink and DeleteLink must flip the bed occupancy flag
// and the link row in a single atomic unit. InsertLink reports ErrBedNotFound
// when the bed row no longer exists.
type Storer interface {
	NewWithTx(tx sqldb.CommitRollbacker) (Storer, error)
	InsertLink(ctx context.Context, lnk Link) error
	DeleteLink(ctx context.Context, bedID uuid.UUID) error
	QueryLinkByUser(ctx context.Context, userID uuid.UUID) (Link, error)
	QueryLinkByBed(ctx context.Context, bedID uuid.UUID) (Link, error)
	QueryLinksByAdmin(ctx context.Context, adminID uuid.UUID) ([]Link, error)
	QueryLinksByProperty(ctx context.Context, propertyID uuid.UUID) ([]Link, error)
}

// Core manages the set of APIs for bed occupancy.
type Core struct {
	storer   Storer
	ownerBus *ownerbus.Core
	userBus  *userbus.Core
}

// NewCore constructs a core for occupancy api access.
func NewCore(storer Storer, ownerBus *ownerbus.Core, userBus *userbus.Core) *Core {
	return &Core{
		storer:   storer,
		ownerBus: ownerBus,
		userBus:  userBus,
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

	userBus, err := c.userBus.NewWithTx(tx)
	if err != nil {
		return nil, err
	}

	return NewCore(storer, ownerBus, userBus), nil
}

// Assign occupies a bed for a tenant. Preconditions run in order: the bed
// and its chain exist, the acting administrator owns that chain, the target
// user exists with the tenant role, the bed is free. The flag flip and the
// link creation commit together or not at all.
func (c *Core) Assign(ctx context.Context, actor ownerbus.Actor, nl NewLink) (Link, error) {
	ctx, span := otel.AddSpan(ctx, "business.occupancybus.assign")
	defer span.End()

	if _, err := c.ownerBus.Authorize(ctx, actor, actions.Assign, resource.Bed, nl.BedID); err != nil {
		return Link{}, fmt.Errorf("authorize: %w", err)
	}

	usr, err := c.userBus.QueryByID(ctx, nl.UserID)
	if err != nil {
		return Link{}, fmt.Errorf("query user: %w", err)
	}

	if !usr.Role.Equal(role.Tenant) {
		return Link{}, fmt.Errorf("userID[%s] role[%s]: %w", usr.ID, usr.Role, ErrNotTenantRole)
	}

	lnk := Link{
		ID:         uuid.New(),
		UserID:     nl.UserID,
		BedID:      nl.BedID,
		MoveInDate: nl.MoveInDate,
		CreatedAt:  time.Now(),
	}

	if err := c.storer.InsertLink(ctx, lnk); err != nil {
		return Link{}, fmt.Errorf("insert link: %w", err)
	}

	return lnk, nil
}

// Release frees a bed, clearing the occupancy flag and removing the link
// atomically.
func (c *Core) Release(ctx context.Context, actor ownerbus.Actor, bedID uuid.UUID) error {
	ctx, span := otel.AddSpan(ctx, "business.occupancybus.release")
	defer span.End()

	if _, err := c.ownerBus.Authorize(ctx, actor, actions.Release, resource.Bed, bedID); err != nil {
		return fmt.Errorf("authorize: %w", err)
	}

	if err := c.storer.DeleteLink(ctx, bedID); err != nil {
		return fmt.Errorf("delete link: %w", err)
	}

	return nil
}

// QueryLinkByUser finds the active link for the specified user.
func (c *Core) QueryLinkByUser(ctx context.Context, userID uuid.UUID) (Link, error) {
	ctx, span := otel.AddSpan(ctx, "business.occupancybus.queryLinkByUser")
	defer span.End()

	lnk, err := c.storer.QueryLinkByUser(ctx, userID)
	if err != nil {
		return Link{}, fmt.Errorf("query: userID[%s]: %w", userID, err)
	}

	return lnk, nil
}

// QueryLinkByBed finds the active link for the specified bed.
func (c *Core) QueryLinkByBed(ctx context.Context, bedID uuid.UUID) (Link, error) {
	ctx, span := otel.AddSpan(ctx, "business.occupancybus.queryLinkByBed")
	defer span.End()

	lnk, err := c.storer.QueryLinkByBed(ctx, bedID)
	if err != nil {
		return Link{}, fmt.Errorf("query: bedID[%s]: %w", bedID, err)
	}

	return lnk, nil
}

// QueryLinksByAdmin retrieves all links under the properties owned by the
// specified administrator.
func (c *Core) QueryLinksByAdmin(ctx context.Context, adminID uuid.UUID) ([]Link, error) {
	ctx, span := otel.AddSpan(ctx, "business.occupancybus.queryLinksByAdmin")
	defer span.End()

	lnks, err := c.storer.QueryLinksByAdmin(ctx, adminID)
	if err != nil {
		return nil, fmt.Errorf("query: adminID[%s]: %w", adminID, err)
	}

	return lnks, nil
}

// QueryLinksByProperty retrieves all links whose bed belongs to the
// specified property.
func (c *Core) QueryLinksByProperty(ctx context.Context, propertyID uuid.UUID) ([]Link, error) {
	ctx, span := otel.AddSpan(ctx, "business.occupancybus.queryLinksByProperty")
	defer span.End()

	lnks, err := c.storer.QueryLinksByProperty(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("query: propertyID[%s]: %w", propertyID, err)
	}

	return lnks, nil
}
