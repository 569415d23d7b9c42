package statusbus_test

import (
	"context"
	"errors"
	"net/mail"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mypgstay/mypg/business/domain/occupancybus"
	"github.com/mypgstay/mypg/business/domain/ownerbus"
	"github.com/mypgstay/mypg/business/domain/statusbus"
	"github.com/mypgstay/mypg/business/domain/userbus"
	"github.com/mypgstay/mypg/business/sdk/order"
	"github.com/mypgstay/mypg/business/sdk/page"
	"github.com/mypgstay/mypg/business/sdk/sqldb"
	"github.com/mypgstay/mypg/business/types/role"
)

type fakeLinkStore struct {
	byUser     map[uuid.UUID]occupancybus.Link
	byAdmin    map[uuid.UUID][]occupancybus.Link
	byProperty map[uuid.UUID][]occupancybus.Link
}

func (s *fakeLinkStore) NewWithTx(tx sqldb.CommitRollbacker) (occupancybus.Storer, error) {
	return s, nil
}

func (s *fakeLinkStore) InsertLink(ctx context.Context, lnk occupancybus.Link) error {
	return nil
}

func (s *fakeLinkStore) DeleteLink(ctx context.Context, bedID uuid.UUID) error {
	return nil
}

func (s *fakeLinkStore) QueryLinkByUser(ctx context.Context, userID uuid.UUID) (occupancybus.Link, error) {
	lnk, exists := s.byUser[userID]
	if !exists {
		return occupancybus.Link{}, occupancybus.ErrNotFound
	}
	return lnk, nil
}

func (s *fakeLinkStore) QueryLinkByBed(ctx context.Context, bedID uuid.UUID) (occupancybus.Link, error) {
	return occupancybus.Link{}, occupancybus.ErrNotFound
}

func (s *fakeLinkStore) QueryLinksByAdmin(ctx context.Context, adminID uuid.UUID) ([]occupancybus.Link, error) {
	return s.byAdmin[adminID], nil
}

func (s *fakeLinkStore) QueryLinksByProperty(ctx context.Context, propertyID uuid.UUID) ([]occupancybus.Link, error) {
	return s.byProperty[propertyID], nil
}

// =============================================================================

type fakeChainStore struct {
	byBed map[uuid.UUID]ownerbus.Chain
}

func (s *fakeChainStore) NewWithTx(tx sqldb.CommitRollbacker) (ownerbus.Storer, error) {
	return s, nil
}

func (s *fakeChainStore) QueryChainByProperty(ctx context.Context, propertyID uuid.UUID) (ownerbus.Chain, error) {
	return ownerbus.Chain{}, ownerbus.ErrNotFound
}

func (s *fakeChainStore) QueryChainByRoom(ctx context.Context, roomID uuid.UUID) (ownerbus.Chain, error) {
	return ownerbus.Chain{}, ownerbus.ErrNotFound
}

func (s *fakeChainStore) QueryChainByBed(ctx context.Context, bedID uuid.UUID) (ownerbus.Chain, error) {
	chain, exists := s.byBed[bedID]
	if !exists {
		return ownerbus.Chain{}, ownerbus.ErrNotFound
	}
	return chain, nil
}

// =============================================================================

// fakeUserStore exists only so an occupancy core can be constructed. Status
// resolution never reads users through it.
type fakeUserStore struct{}

func (s *fakeUserStore) NewWithTx(tx sqldb.CommitRollbacker) (userbus.Storer, error) {
	return s, nil
}

func (s *fakeUserStore) Create(ctx context.Context, usr userbus.User) error {
	return nil
}

func (s *fakeUserStore) Update(ctx context.Context, usr userbus.User) error {
	return nil
}

func (s *fakeUserStore) Query(ctx context.Context, filter userbus.QueryFilter, orderBy order.By, page page.Page) ([]userbus.User, error) {
	return nil, nil
}

func (s *fakeUserStore) Count(ctx context.Context, filter userbus.QueryFilter) (int, error) {
	return 0, nil
}

func (s *fakeUserStore) QueryByID(ctx context.Context, userID uuid.UUID) (userbus.User, error) {
	return userbus.User{}, userbus.ErrNotFound
}

func (s *fakeUserStore) QueryByEmail(ctx context.Context, email mail.Address) (userbus.User, error) {
	return userbus.User{}, userbus.ErrNotFound
}

// =============================================================================

type world struct {
	core       *statusbus.Core
	adminID    uuid.UUID
	tenantID   uuid.UUID
	pendingID  uuid.UUID
	propertyID uuid.UUID
	links      []occupancybus.Link
}

func newWorld() world {
	adminID := uuid.New()
	tenantID := uuid.New()
	bedID := uuid.New()
	propertyID := uuid.New()

	lnk := occupancybus.Link{
		ID:         uuid.New(),
		UserID:     tenantID,
		BedID:      bedID,
		MoveInDate: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt:  time.Now(),
	}

	links := []occupancybus.Link{lnk}

	linkStore := fakeLinkStore{
		byUser: map[uuid.UUID]occupancybus.Link{
			tenantID: lnk,
		},
		byAdmin: map[uuid.UUID][]occupancybus.Link{
			adminID: links,
		},
		byProperty: map[uuid.UUID][]occupancybus.Link{
			propertyID: links,
		},
	}

	chainStore := fakeChainStore{
		byBed: map[uuid.UUID]ownerbus.Chain{
			bedID: {BedID: bedID, PropertyID: propertyID, AdminID: adminID},
		},
	}

	ownerBus := ownerbus.NewCore(&chainStore)
	userBus := userbus.NewCore(&fakeUserStore{})
	occupancyBus := occupancybus.NewCore(&linkStore, ownerBus, userBus)

	return world{
		core:       statusbus.NewCore(occupancyBus, ownerBus),
		adminID:    adminID,
		tenantID:   tenantID,
		pendingID:  uuid.New(),
		propertyID: propertyID,
		links:      links,
	}
}

func Test_Resolve_Admin(t *testing.T) {
	w := newWorld()
	usr := userbus.User{ID: w.adminID, Role: role.Administrator}

	status, err := w.core.Resolve(context.Background(), usr)
	if err != nil {
		t.Fatalf("Should resolve an administrator: %s", err)
	}

	if status.State != statusbus.StateAdminActive {
		t.Errorf("Should be %s, got %s", statusbus.StateAdminActive, status.State)
	}

	if !status.HasAccess {
		t.Error("Administrators always have access")
	}
}

func Test_Resolve_TenantPending(t *testing.T) {
	w := newWorld()
	usr := userbus.User{ID: w.pendingID, Role: role.Tenant}

	status, err := w.core.Resolve(context.Background(), usr)
	if err != nil {
		t.Fatalf("Should resolve a linkless tenant: %s", err)
	}

	if status.State != statusbus.StateTenantPending {
		t.Errorf("Should be %s, got %s", statusbus.StateTenantPending, status.State)
	}

	if status.HasAccess || status.HasBed {
		t.Error("A pending tenant has neither access nor a bed")
	}

	if status.Message != "wait for bed assignment or role promotion" {
		t.Errorf("Should tell the tenant to wait, got %q", status.Message)
	}
}

func Test_Resolve_TenantActive(t *testing.T) {
	w := newWorld()
	usr := userbus.User{ID: w.tenantID, Role: role.Tenant}

	status, err := w.core.Resolve(context.Background(), usr)
	if err != nil {
		t.Fatalf("Should resolve a linked tenant: %s", err)
	}

	if status.State != statusbus.StateTenantActive {
		t.Errorf("Should be %s, got %s", statusbus.StateTenantActive, status.State)
	}

	if !status.HasAccess || !status.HasBed {
		t.Error("A linked tenant has access and a bed")
	}
}

func Test_Resolve_UnknownRole(t *testing.T) {
	w := newWorld()
	usr := userbus.User{ID: uuid.New()}

	if _, err := w.core.Resolve(context.Background(), usr); !errors.Is(err, statusbus.ErrUnknownRole) {
		t.Fatalf("Should surface an unknown role as an error: %v", err)
	}
}

func Test_QueryScoped_Admin(t *testing.T) {
	w := newWorld()
	viewer := userbus.User{ID: w.adminID, Role: role.Administrator}

	lnks, err := w.core.QueryScoped(context.Background(), viewer)
	if err != nil {
		t.Fatalf("Should query links for an administrator: %s", err)
	}

	if len(lnks) != len(w.links) {
		t.Fatalf("Should see every link under the admin, got %d", len(lnks))
	}
}

func Test_QueryScoped_LinkedTenant(t *testing.T) {
	w := newWorld()
	viewer := userbus.User{ID: w.tenantID, Role: role.Tenant}

	lnks, err := w.core.QueryScoped(context.Background(), viewer)
	if err != nil {
		t.Fatalf("Should query links for a linked tenant: %s", err)
	}

	if len(lnks) != len(w.links) {
		t.Fatalf("Should see the links of the tenant's property, got %d", len(lnks))
	}
}

func Test_QueryScoped_LinklessTenant(t *testing.T) {
	w := newWorld()
	viewer := userbus.User{ID: w.pendingID, Role: role.Tenant}

	lnks, err := w.core.QueryScoped(context.Background(), viewer)
	if err != nil {
		t.Fatalf("Should not fail for a linkless tenant: %s", err)
	}

	if len(lnks) != 0 {
		t.Fatalf("A linkless tenant sees nothing, got %d links", len(lnks))
	}
}

func Test_QueryScoped_UnknownRole(t *testing.T) {
	w := newWorld()
	viewer := userbus.User{ID: uuid.New()}

	lnks, err := w.core.QueryScoped(context.Background(), viewer)
	if err != nil {
		t.Fatalf("Should not fail for an unknown viewer: %s", err)
	}

	if len(lnks) != 0 {
		t.Fatalf("An unknown viewer sees nothing, got %d links", len(lnks))
	}
}
