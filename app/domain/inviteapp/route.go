package inviteapp

import (
	"net/http"

	"github.com/mypgstay/mypg/app/sdk/auth"
	"github.com/mypgstay/mypg/app/sdk/mid"
	"github.com/mypgstay/mypg/business/domain/invitebus"
	"github.com/mypgstay/mypg/business/domain/userbus"
	"github.com/mypgstay/mypg/business/sdk/sqldb"
	"github.com/mypgstay/mypg/business/sdk/web"
	"github.com/mypgstay/mypg/business/types/role"
	"github.com/mypgstay/mypg/foundation/logger"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log       *logger.Logger
	DB        sqldb.Beginner
	Auth      *auth.Auth
	UserBus   *userbus.Core
	InviteBus *invitebus.Core
}

// Routes adds specific routes for this group.
func Routes(app *web.App, cfg Config) {
	const version = "v1"

	authen := mid.Authenticate(cfg.Auth, cfg.UserBus)
	ruleAdmin := mid.Authorize(cfg.Auth, role.Administrator)
	transaction := mid.BeginCommitRollback(cfg.Log, cfg.DB)

	api := newApp(cfg.InviteBus)

	app.HandlerFunc(http.MethodPost, version, "/properties/{property_id}/invites", api.issue, authen, ruleAdmin, transaction)
}
