// Package statusbus derives a user's access state from their role and bed
// assignment. Absence of data is a state here, never an error: a tenant with
// no bed is pending, not broken.
package statusbus

import (
	"context"
	"errors"
	"fmt"

	"github.com/mypgstay/mypg/business/domain/occupancybus"
	"github.com/mypgstay/mypg/business/domain/ownerbus"
	"github.com/mypgstay/mypg/business/domain/userbus"
	"github.com/mypgstay/mypg/business/types/resource"
	"github.com/mypgstay/mypg/business/types/role"
	"github.com/mypgstay/mypg/foundation/otel"
)

// ErrUnknownRole occurs when a user record carries a role the resolver does
// not recognize.
var ErrUnknownRole = errors.New("unknown role")

// Core manages the set of APIs for status resolution.
type Core struct {
	occupancyBus *occupancybus.Core
	ownerBus     *ownerbus.Core
}

// NewCore constructs a core for status resolution.
func NewCore(occupancyBus *occupancybus.Core, ownerBus *ownerbus.Core) *Core {
	return &Core{
		occupancyBus: occupancyBus,
		ownerBus:     ownerBus,
	}
}

// Resolve computes the status for the specified user. The switch over the
// role is exhaustive: a role this code does not know is a bug surfaced as
// ErrUnknownRole, not a silent default.
func (c *Core) Resolve(ctx context.Context, usr userbus.User) (Status, error) {
	ctx, span := otel.AddSpan(ctx, "business.statusbus.resolve")
	defer span.End()

	switch usr.Role {
	case role.Administrator:
		status := Status{
			Role:      usr.Role,
			HasAccess: true,
			HasBed:    false,
			State:     StateAdminActive,
			Message:   "account active",
		}
		return status, nil

	case role.Tenant:
		_, err := c.occupancyBus.QueryLinkByUser(ctx, usr.ID)
		if err != nil {
			if errors.Is(err, occupancybus.ErrNotFound) {
				status := Status{
					Role:      usr.Role,
					HasAccess: false,
					HasBed:    false,
					State:     StateTenantPending,
					Message:   "wait for bed assignment or role promotion",
				}
				return status, nil
			}
			return Status{}, fmt.Errorf("query link: %w", err)
		}

		status := Status{
			Role:      usr.Role,
			HasAccess: true,
			HasBed:    true,
			State:     StateTenantActive,
			Message:   "account active",
		}
		return status, nil

	default:
		return Status{}, fmt.Errorf("userID[%s] role[%s]: %w", usr.ID, usr.Role, ErrUnknownRole)
	}
}

// QueryScoped returns the tenant links the viewer is allowed to see. An
// administrator sees every link under their properties. A tenant with a bed
// sees the links sharing that bed's property. A tenant without a bed, or any
// other viewer, sees nothing.
func (c *Core) QueryScoped(ctx context.Context, viewer userbus.User) ([]occupancybus.Link, error) {
	ctx, span := otel.AddSpan(ctx, "business.statusbus.queryScoped")
	defer span.End()

	switch viewer.Role {
	case role.Administrator:
		lnks, err := c.occupancyBus.QueryLinksByAdmin(ctx, viewer.ID)
		if err != nil {
			return nil, fmt.Errorf("query by admin: %w", err)
		}
		return lnks, nil

	case role.Tenant:
		lnk, err := c.occupancyBus.QueryLinkByUser(ctx, viewer.ID)
		if err != nil {
			if errors.Is(err, occupancybus.ErrNotFound) {
				return []occupancybus.Link{}, nil
			}
			return nil, fmt.Errorf("query link: %w", err)
		}

		chain, err := c.ownerBus.ResolveChain(ctx, resource.Bed, lnk.BedID)
		if err != nil {
			return nil, fmt.Errorf("resolve chain: %w", err)
		}

		lnks, err := c.occupancyBus.QueryLinksByProperty(ctx, chain.PropertyID)
		if err != nil {
			return nil, fmt.Errorf("query by property: %w", err)
		}
		return lnks, nil

	default:
		return []occupancybus.Link{}, nil
	}
}
