// Package inviteapp maintains the handlers for invite code issuance.
package inviteapp

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/mypgstay/mypg/app/sdk/errs"
	"github.com/mypgstay/mypg/app/sdk/mid"
	"github.com/mypgstay/mypg/business/domain/invitebus"
	"github.com/mypgstay/mypg/business/domain/ownerbus"
	"github.com/mypgstay/mypg/business/sdk/web"
)

type app struct {
	inviteBus *invitebus.Core
}

// newApp constructs an invite app API for use.
func newApp(inviteBus *invitebus.Core) *app {
	return &app{
		inviteBus: inviteBus,
	}
}

// newWithTx constructs a new app value using the transaction in the context.
// Revoking the previous live code and creating the new one commit together.
func (a *app) newWithTx(ctx context.Context) (*app, error) {
	tx, err := mid.GetTran(ctx)
	if err != nil {
		return nil, err
	}

	inviteBus, err := a.inviteBus.NewWithTx(tx)
	if err != nil {
		return nil, err
	}

	app := app{
		inviteBus: inviteBus,
	}

	return &app, nil
}

func (a *app) issue(ctx context.Context, r *http.Request) web.Encoder {
	usr, err := mid.GetUser(ctx)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	a, err = a.newWithTx(ctx)
	if err != nil {
		return errs.New(errs.Internal, err)
	}

	propertyID, err := uuid.Parse(web.Param(r, "property_id"))
	if err != nil {
		return errs.New(errs.InvalidArgument, errors.New("invalid property id"))
	}

	actor := ownerbus.Actor{
		ID:   usr.ID,
		Role: usr.Role,
	}

	inv, err := a.inviteBus.Issue(ctx, actor, propertyID)
	if err != nil {
		switch {
		case errors.Is(err, ownerbus.ErrNotFound):
			return errs.New(errs.NotFound, err)
		case errors.Is(err, ownerbus.ErrNotOwner), errors.Is(err, ownerbus.ErrRoleDenied):
			return errs.New(errs.PermissionDenied, err)
		default:
			return errs.New(errs.Internal, err)
		}
	}

	return toAppInvite(inv)
}
