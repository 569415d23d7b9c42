// Package invitebus manages single-use signup codes. A code is an entity in
// its own right, keyed by its value, moving LIVE to CONSUMED exactly once.
package invitebus

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mypgstay/mypg/business/domain/ownerbus"
	"github.com/mypgstay/mypg/business/sdk/sqldb"
	"github.com/mypgstay/mypg/business/types/actions"
	"github.com/mypgstay/mypg/business/types/invitestatus"
	"github.com/mypgstay/mypg/business/types/resource"
	"github.com/mypgstay/mypg/foundation/otel"
)

// ErrInvalidCode covers both a code that never existed and a code that was
// already consumed. Callers cannot tell the two apart.
var ErrInvalidCode = errors.New("invite code is not valid")

// Storer defines the behavior required by the invitebus to interact with the
// database. Consume must transition LIVE to CONSUMED in a single conditional
// statement so two racing redemptions produce exactly one winner.
type Storer interface {
	NewWithTx(tx sqldb.CommitRollbacker) (Storer, error)
	Create(ctx context.Context, inv Invite) error
	Consume(ctx context.Context, code string) (Invite, error)
	RevokeLiveByAdmin(ctx context.Context, adminID uuid.UUID) error
	QueryByCode(ctx context.Context, code string) (Invite, error)
}

// Core manages the set of APIs for invite access.
type Core struct {
	storer   Storer
	ownerBus *ownerbus.Core
}

// NewCore constructs a core for invite api access.
func NewCore(storer Storer, ownerBus *ownerbus.Core) *Core {
	return &Core{
		storer:   storer,
		ownerBus: ownerBus,
	}
}

// NewWithTx constructs a new Core value replacing the Storer value with a
// Storer value that is currently inside a transaction.
func (c *Core) NewWithTx(tx sqldb.CommitRollbacker) (*Core, error) {
	storer, err := c.storer.NewWithTx(tx)
	if err != nil {
		return nil, err
	}

	ownerBus, err := c.ownerBus.NewWithTx(tx)
	if err != nil {
		return nil, err
	}

	return NewCore(storer, ownerBus), nil
}

// Issue creates a live invite for the specified property after checking the
// actor owns it. Any previous live code held by the same administrator is
// revoked first, so an administrator has at most one live code.
func (c *Core) Issue(ctx context.Context, actor ownerbus.Actor, propertyID uuid.UUID) (Invite, error) {
	ctx, span := otel.AddSpan(ctx, "business.invitebus.issue")
	defer span.End()

	if _, err := c.ownerBus.Authorize(ctx, actor, actions.Issue, resource.Property, propertyID); err != nil {
		return Invite{}, fmt.Errorf("authorize: %w", err)
	}

	code, err := generateCode()
	if err != nil {
		return Invite{}, fmt.Errorf("generate code: %w", err)
	}

	if err := c.storer.RevokeLiveByAdmin(ctx, actor.ID); err != nil {
		return Invite{}, fmt.Errorf("revoke live: %w", err)
	}

	now := time.Now()
	inv := Invite{
		Code:       code,
		AdminID:    actor.ID,
		PropertyID: propertyID,
		Status:     invitestatus.Live,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := c.storer.Create(ctx, inv); err != nil {
		return Invite{}, fmt.Errorf("create: %w", err)
	}

	return inv, nil
}

// Redeem consumes a live code and returns it. The transition is a single
// conditional update in the store: a missing code and a consumed code both
// come back as ErrInvalidCode. Callers needing the redemption and a follow-up
// write to commit together run this core inside a transaction via NewWithTx.
func (c *Core) Redeem(ctx context.Context, code string) (Invite, error) {
	ctx, span := otel.AddSpan(ctx, "business.invitebus.redeem")
	defer span.End()

	inv, err := c.storer.Consume(ctx, code)
	if err != nil {
		return Invite{}, fmt.Errorf("consume: %w", err)
	}

	return inv, nil
}

// QueryByCode retrieves an invite regardless of status.
func (c *Core) QueryByCode(ctx context.Context, code string) (Invite, error) {
	ctx, span := otel.AddSpan(ctx, "business.invitebus.queryByCode")
	defer span.End()

	inv, err := c.storer.QueryByCode(ctx, code)
	if err != nil {
		return Invite{}, fmt.Errorf("query: %w", err)
	}

	return inv, nil
}

// generateCode produces a URL-safe code from 16 random bytes. The space is
// large enough that uniqueness holds by construction.
func generateCode() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}
