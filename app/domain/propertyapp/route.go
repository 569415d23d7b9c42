package propertyapp

import (
	"net/http"

	"github.com/mypgstay/mypg/app/sdk/auth"
	"github.com/mypgstay/mypg/app/sdk/mid"
	"github.com/mypgstay/mypg/business/domain/propertybus"
	"github.com/mypgstay/mypg/business/domain/userbus"
	"github.com/mypgstay/mypg/business/sdk/web"
	"github.com/mypgstay/mypg/business/types/role"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Auth        *auth.Auth
	UserBus     *userbus.Core
	PropertyBus *propertybus.Core
}

// Routes adds specific routes for this group.
func Routes(app *web.App, cfg Config) {
	const version = "v1"

	authen := mid.Authenticate(cfg.Auth, cfg.UserBus)
	ruleAdmin := mid.Authorize(cfg.Auth, role.Administrator)

	api := newApp(cfg.PropertyBus)

	app.HandlerFunc(http.MethodPost, version, "/properties", api.createProperty, authen, ruleAdmin)
	app.HandlerFunc(http.MethodGet, version, "/properties", api.queryProperties, authen, ruleAdmin)
	app.HandlerFunc(http.MethodPost, version, "/properties/{property_id}/rooms", api.createRoom, authen, ruleAdmin)
	app.HandlerFunc(http.MethodGet, version, "/properties/{property_id}/rooms", api.queryRooms, authen, ruleAdmin)
	app.HandlerFunc(http.MethodPost, version, "/rooms/{room_id}/beds", api.createBed, authen, ruleAdmin)
	app.HandlerFunc(http.MethodGet, version, "/rooms/{room_id}/beds", api.queryBeds, authen, ruleAdmin)
	app.HandlerFunc(http.MethodGet, version, "/beds/available", api.queryAvailableBeds, authen, ruleAdmin)
	app.HandlerFunc(http.MethodDelete, version, "/beds/{bed_id}", api.deleteBed, authen, ruleAdmin)
}
