package tenantapp

import (
	"net/http"

	"github.com/mypgstay/mypg/app/sdk/auth"
	"github.com/mypgstay/mypg/app/sdk/mid"
	"github.com/mypgstay/mypg/business/domain/occupancybus"
	"github.com/mypgstay/mypg/business/domain/statusbus"
	"github.com/mypgstay/mypg/business/domain/userbus"
	"github.com/mypgstay/mypg/business/sdk/web"
	"github.com/mypgstay/mypg/business/types/role"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Auth         *auth.Auth
	UserBus      *userbus.Core
	OccupancyBus *occupancybus.Core
	StatusBus    *statusbus.Core
}

// Routes adds specific routes for this group.
func Routes(app *web.App, cfg Config) {
	const version = "v1"

	authen := mid.Authenticate(cfg.Auth, cfg.UserBus)
	ruleAdmin := mid.Authorize(cfg.Auth, role.Administrator)
	ruleAny := mid.Authorize(cfg.Auth, role.Administrator, role.Tenant)

	api := newApp(cfg.OccupancyBus, cfg.StatusBus)

	app.HandlerFunc(http.MethodPost, version, "/tenants", api.assign, authen, ruleAdmin)
	app.HandlerFunc(http.MethodGet, version, "/tenants", api.query, authen, ruleAny)
	app.HandlerFunc(http.MethodDelete, version, "/beds/{bed_id}/tenant", api.release, authen, ruleAdmin)
}
