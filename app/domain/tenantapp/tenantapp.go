// Package tenantapp maintains the handlers for bed assignment and the scoped
// tenant listing.
package tenantapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mypgstay/mypg/app/sdk/errs"
	"github.com/mypgstay/mypg/app/sdk/mid"
	"github.com/mypgstay/mypg/business/domain/occupancybus"
	"github.com/mypgstay/mypg/business/domain/ownerbus"
	"github.com/mypgstay/mypg/business/domain/statusbus"
	"github.com/mypgstay/mypg/business/domain/userbus"
	"github.com/mypgstay/mypg/business/sdk/web"
)

type app struct {
	occupancyBus *occupancybus.Core
	statusBus    *statusbus.Core
}

// newApp constructs a tenant app API for use.
func newApp(occupancyBus *occupancybus.Core, statusBus *statusbus.Core) *app {
	return &app{
		occupancyBus: occupancyBus,
		statusBus:    statusBus,
	}
}

func actorFromCtx(ctx context.Context) (ownerbus.Actor, error) {
	usr, err := mid.GetUser(ctx)
	if err != nil {
		return ownerbus.Actor{}, err
	}

	actor := ownerbus.Actor{
		ID:   usr.ID,
		Role: usr.Role,
	}

	return actor, nil
}

func (a *app) assign(ctx context.Context, r *http.Request) web.Encoder {
	var req AssignBed

	if err := web.Decode(r, &req); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	actor, err := actorFromCtx(ctx)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return errs.New(errs.InvalidArgument, errors.New("invalid user id"))
	}

	bedID, err := uuid.Parse(req.BedID)
	if err != nil {
		return errs.New(errs.InvalidArgument, errors.New("invalid bed id"))
	}

	moveIn, err := time.Parse("2006-01-02", req.MoveInDate)
	if err != nil {
		return errs.New(errs.InvalidArgument, fmt.Errorf("parsing move in date: %w", err))
	}

	nl := occupancybus.NewLink{
		UserID:     userID,
		BedID:      bedID,
		MoveInDate: moveIn,
	}

	lnk, err := a.occupancyBus.Assign(ctx, actor, nl)
	if err != nil {
		return mapBusError(err)
	}

	return toAppLink(lnk)
}

func (a *app) release(ctx context.Context, r *http.Request) web.Encoder {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	bedID, err := uuid.Parse(web.Param(r, "bed_id"))
	if err != nil {
		return errs.New(errs.InvalidArgument, errors.New("invalid bed id"))
	}

	if err := a.occupancyBus.Release(ctx, actor, bedID); err != nil {
		return mapBusError(err)
	}

	return nil
}

func (a *app) query(ctx context.Context, r *http.Request) web.Encoder {
	usr, err := mid.GetUser(ctx)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	lnks, err := a.statusBus.QueryScoped(ctx, usr)
	if err != nil {
		return mapBusError(err)
	}

	return toAppLinks(lnks)
}

// mapBusError translates business sentinel errors into transport codes.
func mapBusError(err error) *errs.Error {
	switch {
	case errors.Is(err, ownerbus.ErrNotFound), errors.Is(err, occupancybus.ErrNotFound), errors.Is(err, occupancybus.ErrBedNotFound), errors.Is(err, userbus.ErrNotFound):
		return errs.New(errs.NotFound, err)

	case errors.Is(err, ownerbus.ErrNotOwner), errors.Is(err, ownerbus.ErrRoleDenied):
		return errs.New(errs.PermissionDenied, err)

	case errors.Is(err, occupancybus.ErrBedOccupied), errors.Is(err, occupancybus.ErrTenantLinked):
		return errs.New(errs.Aborted, err)

	case errors.Is(err, occupancybus.ErrNotTenantRole):
		return errs.New(errs.InvalidArgument, err)

	default:
		return errs.New(errs.Internal, err)
	}
}
