package occupancybus_test

import (
	"context"
	"errors"
	"net/mail"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/mypgstay/mypg/business/domain/occupancybus"
	"github.com/mypgstay/mypg/business/domain/ownerbus"
	"github.com/mypgstay/mypg/business/domain/userbus"
	"github.com/mypgstay/mypg/business/sdk/order"
	"github.com/mypgstay/mypg/business/sdk/page"
	"github.com/mypgstay/mypg/business/sdk/sqldb"
	"github.com/mypgstay/mypg/business/types/name"
	"github.com/mypgstay/mypg/business/types/role"
)

// fakeLinkStore honors the store contract: the occupancy flag and the link
// flip together under one lock, so racing callers see exactly one winner.
type fakeLinkStore struct {
	mu       sync.Mutex
	occupied map[uuid.UUID]bool
	byBed    map[uuid.UUID]occupancybus.Link
	byUser   map[uuid.UUID]occupancybus.Link
}

func newFakeLinkStore(bedIDs ...uuid.UUID) *fakeLinkStore {
	s := fakeLinkStore{
		occupied: make(map[uuid.UUID]bool),
		byBed:    make(map[uuid.UUID]occupancybus.Link),
		byUser:   make(map[uuid.UUID]occupancybus.Link),
	}
	for _, id := range bedIDs {
		s.occupied[id] = false
	}
	return &s
}

func (s *fakeLinkStore) NewWithTx(tx sqldb.CommitRollbacker) (occupancybus.Storer, error) {
	return s, nil
}

func (s *fakeLinkStore) InsertLink(ctx context.Context, lnk occupancybus.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	occupied, exists := s.occupied[lnk.BedID]
	if !exists {
		return occupancybus.ErrBedNotFound
	}
	if occupied {
		return occupancybus.ErrBedOccupied
	}
	if _, exists := s.byUser[lnk.UserID]; exists {
		return occupancybus.ErrTenantLinked
	}

	s.occupied[lnk.BedID] = true
	s.byBed[lnk.BedID] = lnk
	s.byUser[lnk.UserID] = lnk

	return nil
}

func (s *fakeLinkStore) DeleteLink(ctx context.Context, bedID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lnk, exists := s.byBed[bedID]
	if !exists {
		return occupancybus.ErrNotFound
	}

	s.occupied[bedID] = false
	delete(s.byBed, bedID)
	delete(s.byUser, lnk.UserID)

	return nil
}

func (s *fakeLinkStore) QueryLinkByUser(ctx context.Context, userID uuid.UUID) (occupancybus.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lnk, exists := s.byUser[userID]
	if !exists {
		return occupancybus.Link{}, occupancybus.ErrNotFound
	}
	return lnk, nil
}

func (s *fakeLinkStore) QueryLinkByBed(ctx context.Context, bedID uuid.UUID) (occupancybus.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lnk, exists := s.byBed[bedID]
	if !exists {
		return occupancybus.Link{}, occupancybus.ErrNotFound
	}
	return lnk, nil
}

func (s *fakeLinkStore) QueryLinksByAdmin(ctx context.Context, adminID uuid.UUID) ([]occupancybus.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lnks := make([]occupancybus.Link, 0, len(s.byBed))
	for _, lnk := range s.byBed {
		lnks = append(lnks, lnk)
	}
	return lnks, nil
}

func (s *fakeLinkStore) QueryLinksByProperty(ctx context.Context, propertyID uuid.UUID) ([]occupancybus.Link, error) {
	return s.QueryLinksByAdmin(ctx, propertyID)
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

type fakeUserStore struct {
	users map[uuid.UUID]userbus.User
}

func (s *fakeUserStore) NewWithTx(tx sqldb.CommitRollbacker) (userbus.Storer, error) {
	return s, nil
}

func (s *fakeUserStore) Create(ctx context.Context, usr userbus.User) error { return nil }
func (s *fakeUserStore) Update(ctx context.Context, usr userbus.User) error { return nil }

func (s *fakeUserStore) Query(ctx context.Context, filter userbus.QueryFilter, orderBy order.By, page page.Page) ([]userbus.User, error) {
	return nil, nil
}

func (s *fakeUserStore) Count(ctx context.Context, filter userbus.QueryFilter) (int, error) {
	return 0, nil
}

func (s *fakeUserStore) QueryByID(ctx context.Context, userID uuid.UUID) (userbus.User, error) {
	usr, exists := s.users[userID]
	if !exists {
		return userbus.User{}, userbus.ErrNotFound
	}
	return usr, nil
}

func (s *fakeUserStore) QueryByEmail(ctx context.Context, email mail.Address) (userbus.User, error) {
	return userbus.User{}, userbus.ErrNotFound
}

// =============================================================================

type world struct {
	core      *occupancybus.Core
	links     *fakeLinkStore
	adminID   uuid.UUID
	tenantID  uuid.UUID
	tenant2ID uuid.UUID
	bedID     uuid.UUID
	bed2ID    uuid.UUID
}

func newWorld() world {
	adminID := uuid.New()
	tenantID := uuid.New()
	tenant2ID := uuid.New()
	propertyID := uuid.New()
	roomID := uuid.New()
	bedID := uuid.New()
	bed2ID := uuid.New()

	chains := fakeChainStore{
		byBed: map[uuid.UUID]ownerbus.Chain{
			bedID:  {BedID: bedID, RoomID: roomID, PropertyID: propertyID, AdminID: adminID},
			bed2ID: {BedID: bed2ID, RoomID: roomID, PropertyID: propertyID, AdminID: adminID},
		},
	}

	users := fakeUserStore{
		users: map[uuid.UUID]userbus.User{
			tenantID:  {ID: tenantID, Name: name.MustParse("First Tenant"), Role: role.Tenant, Enabled: true},
			tenant2ID: {ID: tenant2ID, Name: name.MustParse("Second Tenant"), Role: role.Tenant, Enabled: true},
			adminID:   {ID: adminID, Name: name.MustParse("House Admin"), Role: role.Administrator, Enabled: true},
		},
	}

	links := newFakeLinkStore(bedID, bed2ID)

	core := occupancybus.NewCore(
		links,
		ownerbus.NewCore(&chains),
		userbus.NewCore(&users),
	)

	return world{
		core:      core,
		links:     links,
		adminID:   adminID,
		tenantID:  tenantID,
		tenant2ID: tenant2ID,
		bedID:     bedID,
		bed2ID:    bed2ID,
	}
}

func admin(w world) ownerbus.Actor {
	return ownerbus.Actor{ID: w.adminID, Role: role.Administrator}
}

func Test_Assign(t *testing.T) {
	w := newWorld()
	ctx := context.Background()

	nl := occupancybus.NewLink{
		UserID:     w.tenantID,
		BedID:      w.bedID,
		MoveInDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}

	lnk, err := w.core.Assign(ctx, admin(w), nl)
	if err != nil {
		t.Fatalf("Should be able to assign a free bed: %s", err)
	}

	got, err := w.core.QueryLinkByUser(ctx, w.tenantID)
	if err != nil {
		t.Fatalf("Should find the link by user: %s", err)
	}

	if diff := cmp.Diff(lnk, got); diff != "" {
		t.Errorf("Should get back the same link. diff:\n%s", diff)
	}
}

func Test_Assign_OccupiedBed(t *testing.T) {
	w := newWorld()
	ctx := context.Background()

	nl := occupancybus.NewLink{UserID: w.tenantID, BedID: w.bedID, MoveInDate: time.Now()}
	if _, err := w.core.Assign(ctx, admin(w), nl); err != nil {
		t.Fatalf("Should be able to assign a free bed: %s", err)
	}

	nl2 := occupancybus.NewLink{UserID: w.tenant2ID, BedID: w.bedID, MoveInDate: time.Now()}
	if _, err := w.core.Assign(ctx, admin(w), nl2); !errors.Is(err, occupancybus.ErrBedOccupied) {
		t.Fatalf("Should get ErrBedOccupied assigning an occupied bed: %v", err)
	}
}

func Test_Assign_TenantAlreadyLinked(t *testing.T) {
	w := newWorld()
	ctx := context.Background()

	nl := occupancybus.NewLink{UserID: w.tenantID, BedID: w.bedID, MoveInDate: time.Now()}
	if _, err := w.core.Assign(ctx, admin(w), nl); err != nil {
		t.Fatalf("Should be able to assign a free bed: %s", err)
	}

	nl2 := occupancybus.NewLink{UserID: w.tenantID, BedID: w.bed2ID, MoveInDate: time.Now()}
	if _, err := w.core.Assign(ctx, admin(w), nl2); !errors.Is(err, occupancybus.ErrTenantLinked) {
		t.Fatalf("Should get ErrTenantLinked assigning a linked tenant: %v", err)
	}
}

func Test_Assign_UnknownUser(t *testing.T) {
	w := newWorld()

	nl := occupancybus.NewLink{UserID: uuid.New(), BedID: w.bedID, MoveInDate: time.Now()}
	_, err := w.core.Assign(context.Background(), admin(w), nl)
	if !errors.Is(err, userbus.ErrNotFound) {
		t.Fatalf("Should fail on the unknown user: %v", err)
	}
}

func Test_Assign_BedRemoved(t *testing.T) {
	w := newWorld()
	ctx := context.Background()

	// The bed vanishes after its chain was resolved. The store must report
	// the missing bed, not a conflict.
	w.links.mu.Lock()
	delete(w.links.occupied, w.bedID)
	w.links.mu.Unlock()

	nl := occupancybus.NewLink{UserID: w.tenantID, BedID: w.bedID, MoveInDate: time.Now()}
	_, err := w.core.Assign(ctx, admin(w), nl)
	if !errors.Is(err, occupancybus.ErrBedNotFound) {
		t.Fatalf("Should get ErrBedNotFound for a deleted bed: %v", err)
	}
	if errors.Is(err, occupancybus.ErrBedOccupied) {
		t.Fatal("A deleted bed must not be reported as occupied")
	}
}

func Test_Assign_NotTenantRole(t *testing.T) {
	w := newWorld()
	ctx := context.Background()

	nl := occupancybus.NewLink{UserID: w.adminID, BedID: w.bedID, MoveInDate: time.Now()}
	_, err := w.core.Assign(ctx, admin(w), nl)
	if !errors.Is(err, occupancybus.ErrNotTenantRole) {
		t.Fatalf("Should refuse to assign a non tenant: %v", err)
	}
}

func Test_Assign_NotOwner(t *testing.T) {
	w := newWorld()
	ctx := context.Background()

	actor := ownerbus.Actor{ID: uuid.New(), Role: role.Administrator}
	nl := occupancybus.NewLink{UserID: w.tenantID, BedID: w.bedID, MoveInDate: time.Now()}

	_, err := w.core.Assign(ctx, actor, nl)
	if !errors.Is(err, ownerbus.ErrNotOwner) {
		t.Fatalf("Should refuse a non owning administrator: %v", err)
	}
}

func Test_Assign_Concurrent(t *testing.T) {
	w := newWorld()
	ctx := context.Background()

	const attempts = 32

	var wg sync.WaitGroup
	errs := make([]error, attempts)

	start := make(chan struct{})

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start

			nl := occupancybus.NewLink{
				UserID:     w.tenantID,
				BedID:      w.bedID,
				MoveInDate: time.Now(),
			}
			_, errs[i] = w.core.Assign(ctx, admin(w), nl)
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
		if !errors.Is(err, occupancybus.ErrBedOccupied) && !errors.Is(err, occupancybus.ErrTenantLinked) {
			t.Fatalf("Losers must fail with a conflict error: %v", err)
		}
	}

	if wins != 1 {
		t.Fatalf("Exactly one concurrent assign must win, got %d", wins)
	}
}

func Test_Release(t *testing.T) {
	w := newWorld()
	ctx := context.Background()

	nl := occupancybus.NewLink{UserID: w.tenantID, BedID: w.bedID, MoveInDate: time.Now()}
	if _, err := w.core.Assign(ctx, admin(w), nl); err != nil {
		t.Fatalf("Should be able to assign a free bed: %s", err)
	}

	if err := w.core.Release(ctx, admin(w), w.bedID); err != nil {
		t.Fatalf("Should be able to release an occupied bed: %s", err)
	}

	if _, err := w.core.QueryLinkByUser(ctx, w.tenantID); !errors.Is(err, occupancybus.ErrNotFound) {
		t.Fatalf("Released tenant must have no link: %v", err)
	}

	// The bed is assignable again.
	if _, err := w.core.Assign(ctx, admin(w), nl); err != nil {
		t.Fatalf("Should be able to reassign a released bed: %s", err)
	}
}

func Test_Release_NoLink(t *testing.T) {
	w := newWorld()

	err := w.core.Release(context.Background(), admin(w), w.bedID)
	if !errors.Is(err, occupancybus.ErrNotFound) {
		t.Fatalf("Should get ErrNotFound releasing a free bed: %v", err)
	}
}
