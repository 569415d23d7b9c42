package invitebus_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/mypgstay/mypg/business/domain/invitebus"
	"github.com/mypgstay/mypg/business/domain/ownerbus"
	"github.com/mypgstay/mypg/business/sdk/sqldb"
	"github.com/mypgstay/mypg/business/types/invitestatus"
	"github.com/mypgstay/mypg/business/types/role"
)

// fakeStore honors the store contract: the LIVE to CONSUMED transition is
// atomic under one lock, so racing redemptions see exactly one winner.
type fakeStore struct {
	mu      sync.Mutex
	invites map[string]invitebus.Invite
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		invites: make(map[string]invitebus.Invite),
	}
}

func (s *fakeStore) NewWithTx(tx sqldb.CommitRollbacker) (invitebus.Storer, error) {
	return s, nil
}

func (s *fakeStore) Create(ctx context.Context, inv invitebus.Invite) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.invites[inv.Code] = inv
	return nil
}

func (s *fakeStore) Consume(ctx context.Context, code string) (invitebus.Invite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, exists := s.invites[code]
	if !exists || !inv.Status.Equal(invitestatus.Live) {
		return invitebus.Invite{}, invitebus.ErrInvalidCode
	}

	inv.Status = invitestatus.Consumed
	s.invites[code] = inv

	return inv, nil
}

func (s *fakeStore) RevokeLiveByAdmin(ctx context.Context, adminID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for code, inv := range s.invites {
		if inv.AdminID == adminID && inv.Status.Equal(invitestatus.Live) {
			inv.Status = invitestatus.Consumed
			s.invites[code] = inv
		}
	}
	return nil
}

func (s *fakeStore) QueryByCode(ctx context.Context, code string) (invitebus.Invite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, exists := s.invites[code]
	if !exists {
		return invitebus.Invite{}, invitebus.ErrInvalidCode
	}
	return inv, nil
}

// =============================================================================

type fakeChainStore struct {
	byProperty map[uuid.UUID]ownerbus.Chain
}

func (s *fakeChainStore) NewWithTx(tx sqldb.CommitRollbacker) (ownerbus.Storer, error) {
	return s, nil
}

func (s *fakeChainStore) QueryChainByProperty(ctx context.Context, propertyID uuid.UUID) (ownerbus.Chain, error) {
	chain, exists := s.byProperty[propertyID]
	if !exists {
		return ownerbus.Chain{}, ownerbus.ErrNotFound
	}
	return chain, nil
}

func (s *fakeChainStore) QueryChainByRoom(ctx context.Context, roomID uuid.UUID) (ownerbus.Chain, error) {
	return ownerbus.Chain{}, ownerbus.ErrNotFound
}

func (s *fakeChainStore) QueryChainByBed(ctx context.Context, bedID uuid.UUID) (ownerbus.Chain, error) {
	return ownerbus.Chain{}, ownerbus.ErrNotFound
}

// =============================================================================

func newWorld() (*invitebus.Core, ownerbus.Actor, uuid.UUID) {
	adminID := uuid.New()
	propertyID := uuid.New()

	chains := fakeChainStore{
		byProperty: map[uuid.UUID]ownerbus.Chain{
			propertyID: {PropertyID: propertyID, AdminID: adminID},
		},
	}

	core := invitebus.NewCore(newFakeStore(), ownerbus.NewCore(&chains))
	actor := ownerbus.Actor{ID: adminID, Role: role.Administrator}

	return core, actor, propertyID
}

func Test_Issue(t *testing.T) {
	core, actor, propertyID := newWorld()
	ctx := context.Background()

	inv, err := core.Issue(ctx, actor, propertyID)
	if err != nil {
		t.Fatalf("Should be able to issue an invite: %s", err)
	}

	if inv.Code == "" {
		t.Fatal("Issued invite must carry a code")
	}

	if !inv.Status.Equal(invitestatus.Live) {
		t.Errorf("Issued invite must be live, got %s", inv.Status)
	}

	if inv.PropertyID != propertyID {
		t.Errorf("Invite must be bound to the property, got %s", inv.PropertyID)
	}
}

func Test_Issue_RevokesPrevious(t *testing.T) {
	core, actor, propertyID := newWorld()
	ctx := context.Background()

	first, err := core.Issue(ctx, actor, propertyID)
	if err != nil {
		t.Fatalf("Should be able to issue the first invite: %s", err)
	}

	second, err := core.Issue(ctx, actor, propertyID)
	if err != nil {
		t.Fatalf("Should be able to issue the second invite: %s", err)
	}

	if first.Code == second.Code {
		t.Fatal("Codes must be unique per issue")
	}

	// The first code died when the second was issued.
	if _, err := core.Redeem(ctx, first.Code); !errors.Is(err, invitebus.ErrInvalidCode) {
		t.Fatalf("Revoked code must not redeem: %v", err)
	}

	if _, err := core.Redeem(ctx, second.Code); err != nil {
		t.Fatalf("Live code must redeem: %s", err)
	}
}

func Test_Issue_NotOwner(t *testing.T) {
	core, _, propertyID := newWorld()

	actor := ownerbus.Actor{ID: uuid.New(), Role: role.Administrator}
	if _, err := core.Issue(context.Background(), actor, propertyID); !errors.Is(err, ownerbus.ErrNotOwner) {
		t.Fatalf("Should refuse a non owning administrator: %v", err)
	}
}

func Test_Issue_TenantDenied(t *testing.T) {
	core, _, propertyID := newWorld()

	actor := ownerbus.Actor{ID: uuid.New(), Role: role.Tenant}
	if _, err := core.Issue(context.Background(), actor, propertyID); !errors.Is(err, ownerbus.ErrRoleDenied) {
		t.Fatalf("Should refuse a tenant on role grounds: %v", err)
	}
}

func Test_Redeem_SingleUse(t *testing.T) {
	core, actor, propertyID := newWorld()
	ctx := context.Background()

	inv, err := core.Issue(ctx, actor, propertyID)
	if err != nil {
		t.Fatalf("Should be able to issue an invite: %s", err)
	}

	got, err := core.Redeem(ctx, inv.Code)
	if err != nil {
		t.Fatalf("Should be able to redeem a live code: %s", err)
	}

	if !got.Status.Equal(invitestatus.Consumed) {
		t.Errorf("Redeemed invite must be consumed, got %s", got.Status)
	}

	if _, err := core.Redeem(ctx, inv.Code); !errors.Is(err, invitebus.ErrInvalidCode) {
		t.Fatalf("Second redemption must fail with ErrInvalidCode: %v", err)
	}
}

func Test_Redeem_UnknownCode(t *testing.T) {
	core, _, _ := newWorld()

	// A code that never existed and a consumed code are indistinguishable.
	if _, err := core.Redeem(context.Background(), "no-such-code"); !errors.Is(err, invitebus.ErrInvalidCode) {
		t.Fatalf("Unknown code must fail with ErrInvalidCode: %v", err)
	}
}

func Test_Redeem_Concurrent(t *testing.T) {
	core, actor, propertyID := newWorld()
	ctx := context.Background()

	inv, err := core.Issue(ctx, actor, propertyID)
	if err != nil {
		t.Fatalf("Should be able to issue an invite: %s", err)
	}

	const attempts = 32

	var wg sync.WaitGroup
	errs := make([]error, attempts)

	start := make(chan struct{})

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start

			_, errs[i] = core.Redeem(ctx, inv.Code)
		}(i)
	}

	close(start)
	wg.Wait()

	var wins int
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		if !errors.Is(err, invitebus.ErrInvalidCode) {
			t.Fatalf("Losers must fail with ErrInvalidCode: %v", err)
		}
	}

	if wins != 1 {
		t.Fatalf("Exactly one concurrent redemption must win, got %d", wins)
	}
}
