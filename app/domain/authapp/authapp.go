// Package authapp maintains the handlers for signup, login and account
// status.
package authapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/mail"

	"github.com/google/uuid"
	"github.com/mypgstay/mypg/app/sdk/auth"
	"github.com/mypgstay/mypg/app/sdk/errs"
	"github.com/mypgstay/mypg/app/sdk/mid"
	"github.com/mypgstay/mypg/business/domain/invitebus"
	"github.com/mypgstay/mypg/business/domain/statusbus"
	"github.com/mypgstay/mypg/business/domain/userbus"
	"github.com/mypgstay/mypg/business/sdk/web"
	"github.com/mypgstay/mypg/business/types/name"
	"github.com/mypgstay/mypg/business/types/password"
	"github.com/mypgstay/mypg/business/types/role"
)

type app struct {
	auth      *auth.Auth
	activeKID string
	userBus   *userbus.Core
	inviteBus *invitebus.Core
	statusBus *statusbus.Core
}

// newApp constructs an auth app API for use.
func newApp(ath *auth.Auth, activeKID string, userBus *userbus.Core, inviteBus *invitebus.Core, statusBus *statusbus.Core) *app {
	return &app{
		auth:      ath,
		activeKID: activeKID,
		userBus:   userBus,
		inviteBus: inviteBus,
		statusBus: statusBus,
	}
}

// newWithTx constructs a new app value using the transaction in the context.
// The invite redemption and the user creation must commit together: a failed
// signup leaves the code LIVE.
func (a *app) newWithTx(ctx context.Context) (*app, error) {
	tx, err := mid.GetTran(ctx)
	if err != nil {
		return nil, err
	}

	userBus, err := a.userBus.NewWithTx(tx)
	if err != nil {
		return nil, err
	}

	inviteBus, err := a.inviteBus.NewWithTx(tx)
	if err != nil {
		return nil, err
	}

	app := app{
		auth:      a.auth,
		activeKID: a.activeKID,
		userBus:   userBus,
		inviteBus: inviteBus,
		statusBus: a.statusBus,
	}

	return &app, nil
}

func (a *app) signup(ctx context.Context, r *http.Request) web.Encoder {
	var req SignUp

	if err := web.Decode(r, &req); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	a, err := a.newWithTx(ctx)
	if err != nil {
		return errs.New(errs.Internal, err)
	}

	nam, err := name.Parse(req.Name)
	if err != nil {
		return errs.New(errs.InvalidArgument, fmt.Errorf("parsing name: %w", err))
	}

	addr, err := mail.ParseAddress(req.Email)
	if err != nil {
		return errs.New(errs.InvalidArgument, fmt.Errorf("parsing email: %w", err))
	}

	pass, err := password.Parse(req.Password)
	if err != nil {
		return errs.New(errs.InvalidArgument, fmt.Errorf("parsing password: %w", err))
	}

	// A code makes a tenant bound to the invite's property. No code makes
	// an administrator. The binding is stored on the user so it survives
	// past this response.
	usrRole := role.Administrator
	var propertyID uuid.UUID

	if req.InviteCode != "" {
		inv, err := a.inviteBus.Redeem(ctx, req.InviteCode)
		if err != nil {
			if errors.Is(err, invitebus.ErrInvalidCode) {
				return errs.New(errs.InvalidArgument, invitebus.ErrInvalidCode)
			}
			return errs.New(errs.Internal, err)
		}

		usrRole = role.Tenant
		propertyID = inv.PropertyID
	}

	nu := userbus.NewUser{
		Name:              nam,
		Email:             *addr,
		Role:              usrRole,
		Password:          pass,
		InvitedPropertyID: propertyID,
	}

	usr, err := a.userBus.Create(ctx, nu)
	if err != nil {
		if errors.Is(err, userbus.ErrUniqueEmail) {
			return errs.New(errs.AlreadyExists, userbus.ErrUniqueEmail)
		}
		return errs.New(errs.Internal, fmt.Errorf("create user: %w", err))
	}

	tokenStr, err := a.auth.GenerateToken(a.activeKID, usr.ID, usr.Role)
	if err != nil {
		return errs.New(errs.Internal, err)
	}

	return toAppSignedUp(usr, tokenStr)
}

func (a *app) login(ctx context.Context, r *http.Request) web.Encoder {
	var req Login

	if err := web.Decode(r, &req); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	addr, err := mail.ParseAddress(req.Email)
	if err != nil {
		return errs.New(errs.InvalidArgument, fmt.Errorf("parsing email: %w", err))
	}

	usr, err := a.auth.Login(ctx, *addr, req.Password)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	tokenStr, err := a.auth.GenerateToken(a.activeKID, usr.ID, usr.Role)
	if err != nil {
		return errs.New(errs.Internal, err)
	}

	return toAppToken(tokenStr)
}

func (a *app) status(ctx context.Context, r *http.Request) web.Encoder {
	usr, err := mid.GetUser(ctx)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	status, err := a.statusBus.Resolve(ctx, usr)
	if err != nil {
		return errs.New(errs.Internal, fmt.Errorf("resolve status: %w", err))
	}

	return toAppStatus(status)
}
