package authapp

import (
	"net/http"

	"github.com/mypgstay/mypg/app/sdk/auth"
	"github.com/mypgstay/mypg/app/sdk/mid"
	"github.com/mypgstay/mypg/business/domain/invitebus"
	"github.com/mypgstay/mypg/business/domain/statusbus"
	"github.com/mypgstay/mypg/business/domain/userbus"
	"github.com/mypgstay/mypg/business/sdk/sqldb"
	"github.com/mypgstay/mypg/business/sdk/web"
	"github.com/mypgstay/mypg/foundation/logger"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log       *logger.Logger
	DB        sqldb.Beginner
	Auth      *auth.Auth
	ActiveKID string
	UserBus   *userbus.Core
	InviteBus *invitebus.Core
	StatusBus *statusbus.Core
}

// Routes adds specific routes for this group.
func Routes(app *web.App, cfg Config) {
	const version = "v1"

	authen := mid.Authenticate(cfg.Auth, cfg.UserBus)
	transaction := mid.BeginCommitRollback(cfg.Log, cfg.DB)

	api := newApp(cfg.Auth, cfg.ActiveKID, cfg.UserBus, cfg.InviteBus, cfg.StatusBus)

	app.HandlerFunc(http.MethodPost, version, "/auth/signup", api.signup, transaction)
	app.HandlerFunc(http.MethodPost, version, "/auth/login", api.login)
	app.HandlerFunc(http.MethodGet, version, "/auth/status", api.status, authen)
}
