// Package ownerbus resolves the property ownership chain and decides whether
// an actor may act on a resource. A bed is owned through its room, a room
// through its property, a property by exactly one administrator.
package ownerbus

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mypgstay/mypg/business/sdk/sqldb"
	"github.com/mypgstay/mypg/business/types/actions"
	"github.com/mypgstay/mypg/business/types/resource"
	"github.com/mypgstay/mypg/business/types/role"
	"github.com/mypgstay/mypg/foundation/otel"
)

// Callers must be able to tell a missing resource from a denied one, so the
// not-found sentinels are distinct from the authorization sentinels.
var (
	ErrNotFound   = errors.New("resource not found")
	ErrNotOwner   = errors.New("not authorized for this property")
	ErrRoleDenied = errors.New("role is not allowed to perform this action")
)

// Storer defines the behavior required by the ownerbus to interact with the
// database.
type Storer interface {
	NewWithTx(tx sqldb.CommitRollbacker) (Storer, error)
	QueryChainByProperty(ctx context.Context, propertyID uuid.UUID) (Chain, error)
	QueryChainByRoom(ctx context.Context, roomID uuid.UUID) (Chain, error)
	QueryChainByBed(ctx context.Context, bedID uuid.UUID) (Chain, error)
}

// Core manages the set of APIs for ownership resolution.
type Core struct {
	storer Storer
}

// NewCore constructs a core for ownership resolution.
func NewCore(storer Storer) *Core {
	return &Core{
		storer: storer,
	}
}

// NewWithTx constructs a new Core value replacing the Storer value with a
// Storer value that is currently inside a transaction.
func (c *Core) NewWithTx(tx sqldb.CommitRollbacker) (*Core, error) {
	storer, err := c.storer.NewWithTx(tx)
	if err != nil {
		return nil, err
	}

	return NewCore(storer), nil
}

// ResolveChain walks the parent pointers from the specified resource up to
// the owning administrator. A broken link anywhere in the ancestry yields
// ErrNotFound.
func (c *Core) ResolveChain(ctx context.Context, res resource.Resource, resourceID uuid.UUID) (Chain, error) {
	ctx, span := otel.AddSpan(ctx, "business.ownerbus.resolveChain")
	defer span.End()

	var chain Chain
	var err error

	switch res {
	case resource.Property:
		chain, err = c.storer.QueryChainByProperty(ctx, resourceID)
	case resource.Room:
		chain, err = c.storer.QueryChainByRoom(ctx, resourceID)
	case resource.Bed:
		chain, err = c.storer.QueryChainByBed(ctx, resourceID)
	default:
		return Chain{}, fmt.Errorf("resource %q has no ownership chain: %w", res, ErrNotFound)
	}

	if err != nil {
		return Chain{}, fmt.Errorf("query chain: %s[%s]: %w", res, resourceID, err)
	}

	return chain, nil
}

// Authorize decides whether the actor may perform the action on the resource.
// The role gate runs before the ownership check: a tenant is refused on role
// grounds no matter what they target, while a non-owning administrator is
// refused on ownership grounds. On success the resolved chain is returned so
// callers do not resolve it twice.
func (c *Core) Authorize(ctx context.Context, actor Actor, act actions.Action, res resource.Resource, resourceID uuid.UUID) (Chain, error) {
	ctx, span := otel.AddSpan(ctx, "business.ownerbus.authorize")
	defer span.End()

	switch actor.Role {
	case role.Administrator:
		// Ownership decides below.

	case role.Tenant:
		return Chain{}, fmt.Errorf("actor[%s] action[%s]: %w", actor.ID, act, ErrRoleDenied)

	default:
		return Chain{}, fmt.Errorf("actor[%s] unknown role %q: %w", actor.ID, actor.Role, ErrRoleDenied)
	}

	chain, err := c.ResolveChain(ctx, res, resourceID)
	if err != nil {
		return Chain{}, err
	}

	if chain.AdminID != actor.ID {
		return Chain{}, fmt.Errorf("actor[%s] property[%s]: %w", actor.ID, chain.PropertyID, ErrNotOwner)
	}

	return chain, nil
}
