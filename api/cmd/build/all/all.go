// Package all binds all the routes into the specified app.
package all

import (
	"time"

	"github.com/mypgstay/mypg/app/domain/authapp"
	"github.com/mypgstay/mypg/app/domain/checkapp"
	"github.com/mypgstay/mypg/app/domain/inviteapp"
	"github.com/mypgstay/mypg/app/domain/propertyapp"
	"github.com/mypgstay/mypg/app/domain/tenantapp"
	"github.com/mypgstay/mypg/app/domain/userapp"
	"github.com/mypgstay/mypg/app/sdk/auth"
	"github.com/mypgstay/mypg/app/sdk/mux"
	"github.com/mypgstay/mypg/business/domain/invitebus"
	"github.com/mypgstay/mypg/business/domain/invitebus/stores/invitedb"
	"github.com/mypgstay/mypg/business/domain/occupancybus"
	"github.com/mypgstay/mypg/business/domain/occupancybus/stores/occupancydb"
	"github.com/mypgstay/mypg/business/domain/ownerbus"
	"github.com/mypgstay/mypg/business/domain/ownerbus/stores/ownerdb"
	"github.com/mypgstay/mypg/business/domain/propertybus"
	"github.com/mypgstay/mypg/business/domain/propertybus/stores/propertydb"
	"github.com/mypgstay/mypg/business/domain/statusbus"
	"github.com/mypgstay/mypg/business/domain/userbus"
	"github.com/mypgstay/mypg/business/domain/userbus/stores/usercache"
	"github.com/mypgstay/mypg/business/domain/userbus/stores/userdb"
	"github.com/mypgstay/mypg/business/sdk/sqldb"
	"github.com/mypgstay/mypg/business/sdk/web"
)

// Routes constructs the add value which provides the implementation of
// of RouteAdder for specifying what routes to bind to this instance.
func Routes() add {
	return add{}
}

type add struct{}

func (add) Add(app *web.App, cfg mux.Config) {
	userBus := userbus.NewCore(usercache.NewStore(cfg.Log, userdb.NewStore(cfg.Log, cfg.DB), time.Minute*5))
	ownerBus := ownerbus.NewCore(ownerdb.NewStore(cfg.Log, cfg.DB))
	propertyBus := propertybus.NewCore(propertydb.NewStore(cfg.Log, cfg.DB), ownerBus)
	occupancyBus := occupancybus.NewCore(occupancydb.NewStore(cfg.Log, cfg.DB), ownerBus, userBus)
	inviteBus := invitebus.NewCore(invitedb.NewStore(cfg.Log, cfg.DB), ownerBus)
	statusBus := statusbus.NewCore(occupancyBus, ownerBus)

	authClient := auth.New(auth.Config{
		Log:       cfg.Log,
		UserBus:   userBus,
		KeyLookup: cfg.AuthConfig.KeyLookup,
		Issuer:    cfg.AuthConfig.Issuer,
	})

	checkapp.Routes(app, checkapp.Config{
		Build: cfg.Build,
		Log:   cfg.Log,
		DB:    cfg.DB,
	})

	authapp.Routes(app, authapp.Config{
		Log:       cfg.Log,
		DB:        sqldb.NewBeginner(cfg.DB),
		Auth:      authClient,
		ActiveKID: cfg.AuthConfig.ActiveKID,
		UserBus:   userBus,
		InviteBus: inviteBus,
		StatusBus: statusBus,
	})

	userapp.Routes(app, userapp.Config{
		Auth:    authClient,
		UserBus: userBus,
	})

	propertyapp.Routes(app, propertyapp.Config{
		Auth:        authClient,
		UserBus:     userBus,
		PropertyBus: propertyBus,
	})

	inviteapp.Routes(app, inviteapp.Config{
		Log:       cfg.Log,
		DB:        sqldb.NewBeginner(cfg.DB),
		Auth:      authClient,
		UserBus:   userBus,
		InviteBus: inviteBus,
	})

	tenantapp.Routes(app, tenantapp.Config{
		Auth:         authClient,
		UserBus:      userBus,
		OccupancyBus: occupancyBus,
		StatusBus:    statusBus,
	})
}
