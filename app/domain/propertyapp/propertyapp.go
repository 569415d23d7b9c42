// Package propertyapp maintains the handlers for property, room and bed
// management.
package propertyapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/mypgstay/mypg/app/sdk/errs"
	"github.com/mypgstay/mypg/app/sdk/mid"
	"github.com/mypgstay/mypg/business/domain/ownerbus"
	"github.com/mypgstay/mypg/business/domain/propertybus"
	"github.com/mypgstay/mypg/business/sdk/web"
	"github.com/mypgstay/mypg/business/types/money"
	"github.com/mypgstay/mypg/business/types/name"
)

type app struct {
	propertyBus *propertybus.Core
}

// newApp constructs a property app API for use.
func newApp(propertyBus *propertybus.Core) *app {
	return &app{
		propertyBus: propertyBus,
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

func (a *app) createProperty(ctx context.Context, r *http.Request) web.Encoder {
	var req NewProperty

	if err := web.Decode(r, &req); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	actor, err := actorFromCtx(ctx)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	nam, err := name.Parse(req.Name)
	if err != nil {
		return errs.New(errs.InvalidArgument, fmt.Errorf("parsing name: %w", err))
	}

	np := propertybus.NewProperty{
		Name:    nam,
		Address: req.Address,
	}

	prp, err := a.propertyBus.CreateProperty(ctx, actor, np)
	if err != nil {
		return mapBusError(err)
	}

	return toAppProperty(prp)
}

func (a *app) queryProperties(ctx context.Context, r *http.Request) web.Encoder {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	prps, err := a.propertyBus.QueryPropertiesByAdmin(ctx, actor.ID)
	if err != nil {
		return mapBusError(err)
	}

	items := make([]PropertyWithStats, len(prps))
	for i, prp := range prps {
		stats, err := a.propertyBus.QueryStats(ctx, prp.ID)
		if err != nil {
			return mapBusError(err)
		}
		items[i] = toAppPropertyWithStats(prp, stats)
	}

	return Properties(items)
}

func (a *app) createRoom(ctx context.Context, r *http.Request) web.Encoder {
	var req NewRoom

	if err := web.Decode(r, &req); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	actor, err := actorFromCtx(ctx)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	propertyID, err := uuid.Parse(web.Param(r, "property_id"))
	if err != nil {
		return errs.New(errs.InvalidArgument, errors.New("invalid property id"))
	}

	nr := propertybus.NewRoom{
		PropertyID: propertyID,
		Number:     req.Number,
	}

	rm, err := a.propertyBus.CreateRoom(ctx, actor, nr)
	if err != nil {
		return mapBusError(err)
	}

	return toAppRoom(rm)
}

func (a *app) queryRooms(ctx context.Context, r *http.Request) web.Encoder {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	propertyID, err := uuid.Parse(web.Param(r, "property_id"))
	if err != nil {
		return errs.New(errs.InvalidArgument, errors.New("invalid property id"))
	}

	rms, err := a.propertyBus.QueryRoomsByProperty(ctx, actor, propertyID)
	if err != nil {
		return mapBusError(err)
	}

	return toAppRooms(rms)
}

func (a *app) createBed(ctx context.Context, r *http.Request) web.Encoder {
	var req NewBed

	if err := web.Decode(r, &req); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	actor, err := actorFromCtx(ctx)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	roomID, err := uuid.Parse(web.Param(r, "room_id"))
	if err != nil {
		return errs.New(errs.InvalidArgument, errors.New("invalid room id"))
	}

	rent, err := money.Parse(req.Rent)
	if err != nil {
		return errs.New(errs.InvalidArgument, fmt.Errorf("parsing rent: %w", err))
	}

	nb := propertybus.NewBed{
		RoomID: roomID,
		Rent:   rent,
	}

	bed, err := a.propertyBus.CreateBed(ctx, actor, nb)
	if err != nil {
		return mapBusError(err)
	}

	return toAppBed(bed)
}

func (a *app) queryBeds(ctx context.Context, r *http.Request) web.Encoder {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	roomID, err := uuid.Parse(web.Param(r, "room_id"))
	if err != nil {
		return errs.New(errs.InvalidArgument, errors.New("invalid room id"))
	}

	beds, err := a.propertyBus.QueryBedsByRoom(ctx, actor, roomID)
	if err != nil {
		return mapBusError(err)
	}

	return toAppBeds(beds)
}

func (a *app) deleteBed(ctx context.Context, r *http.Request) web.Encoder {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	bedID, err := uuid.Parse(web.Param(r, "bed_id"))
	if err != nil {
		return errs.New(errs.InvalidArgument, errors.New("invalid bed id"))
	}

	if err := a.propertyBus.DeleteBed(ctx, actor, bedID); err != nil {
		return mapBusError(err)
	}

	return nil
}

func (a *app) queryAvailableBeds(ctx context.Context, r *http.Request) web.Encoder {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	beds, err := a.propertyBus.QueryAvailableBeds(ctx, actor.ID)
	if err != nil {
		return mapBusError(err)
	}

	return toAppAvailableBeds(beds)
}

// mapBusError translates business sentinel errors into transport codes. A
// missing resource and a denied one must stay distinguishable.
func mapBusError(err error) *errs.Error {
	switch {
	case errors.Is(err, ownerbus.ErrNotFound), errors.Is(err, propertybus.ErrNotFound), errors.Is(err, propertybus.ErrBedNotFound):
		return errs.New(errs.NotFound, err)

	case errors.Is(err, ownerbus.ErrNotOwner), errors.Is(err, ownerbus.ErrRoleDenied):
		return errs.New(errs.PermissionDenied, err)

	case errors.Is(err, propertybus.ErrBedOccupied):
		return errs.New(errs.Aborted, err)

	default:
		return errs.New(errs.Internal, err)
	}
}
