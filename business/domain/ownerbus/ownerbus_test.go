package ownerbus_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/mypgstay/mypg/business/domain/ownerbus"
	"github.com/mypgstay/mypg/business/sdk/sqldb"
	"github.com/mypgstay/mypg/business/types/actions"
	"github.com/mypgstay/mypg/business/types/resource"
	"github.com/mypgstay/mypg/business/types/role"
)

type fakeStore struct {
	byProperty map[uuid.UUID]ownerbus.Chain
	byRoom     map[uuid.UUID]ownerbus.Chain
	byBed      map[uuid.UUID]ownerbus.Chain
}

func (s *fakeStore) NewWithTx(tx sqldb.CommitRollbacker) (ownerbus.Storer, error) {
	return s, nil
}

func (s *fakeStore) QueryChainByProperty(ctx context.Context, propertyID uuid.UUID) (ownerbus.Chain, error) {
	chain, exists := s.byProperty[propertyID]
	if !exists {
		return ownerbus.Chain{}, ownerbus.ErrNotFound
	}
	return chain, nil
}

func (s *fakeStore) QueryChainByRoom(ctx context.Context, roomID uuid.UUID) (ownerbus.Chain, error) {
	chain, exists := s.byRoom[roomID]
	if !exists {
		return ownerbus.Chain{}, ownerbus.ErrNotFound
	}
	return chain, nil
}

func (s *fakeStore) QueryChainByBed(ctx context.Context, bedID uuid.UUID) (ownerbus.Chain, error) {
	chain, exists := s.byBed[bedID]
	if !exists {
		return ownerbus.Chain{}, ownerbus.ErrNotFound
	}
	return chain, nil
}

// =============================================================================

type world struct {
	core       *ownerbus.Core
	adminID    uuid.UUID
	otherAdmin uuid.UUID
	propertyID uuid.UUID
	roomID     uuid.UUID
	bedID      uuid.UUID
	chain      ownerbus.Chain
}

func newWorld() world {
	adminID := uuid.New()
	propertyID := uuid.New()
	roomID := uuid.New()
	bedID := uuid.New()

	chain := ownerbus.Chain{
		BedID:      bedID,
		RoomID:     roomID,
		PropertyID: propertyID,
		AdminID:    adminID,
	}

	store := fakeStore{
		byProperty: map[uuid.UUID]ownerbus.Chain{
			propertyID: {PropertyID: propertyID, AdminID: adminID},
		},
		byRoom: map[uuid.UUID]ownerbus.Chain{
			roomID: {RoomID: roomID, PropertyID: propertyID, AdminID: adminID},
		},
		byBed: map[uuid.UUID]ownerbus.Chain{
			bedID: chain,
		},
	}

	return world{
		core:       ownerbus.NewCore(&store),
		adminID:    adminID,
		otherAdmin: uuid.New(),
		propertyID: propertyID,
		roomID:     roomID,
		bedID:      bedID,
		chain:      chain,
	}
}

func Test_Authorize_Owner(t *testing.T) {
	w := newWorld()
	actor := ownerbus.Actor{ID: w.adminID, Role: role.Administrator}

	chain, err := w.core.Authorize(context.Background(), actor, actions.Assign, resource.Bed, w.bedID)
	if err != nil {
		t.Fatalf("Should be able to authorize the owner: %s", err)
	}

	if diff := cmp.Diff(w.chain, chain); diff != "" {
		t.Errorf("Should get back the resolved chain. diff:\n%s", diff)
	}
}

func Test_Authorize_NotOwner(t *testing.T) {
	w := newWorld()
	actor := ownerbus.Actor{ID: w.otherAdmin, Role: role.Administrator}

	_, err := w.core.Authorize(context.Background(), actor, actions.Assign, resource.Bed, w.bedID)
	if !errors.Is(err, ownerbus.ErrNotOwner) {
		t.Fatalf("Should get ErrNotOwner for a non owning administrator: %v", err)
	}
}

func Test_Authorize_MissingResource(t *testing.T) {
	w := newWorld()
	actor := ownerbus.Actor{ID: w.adminID, Role: role.Administrator}

	_, err := w.core.Authorize(context.Background(), actor, actions.Assign, resource.Bed, uuid.New())
	if !errors.Is(err, ownerbus.ErrNotFound) {
		t.Fatalf("Should get ErrNotFound for an unknown bed: %v", err)
	}

	if errors.Is(err, ownerbus.ErrNotOwner) || errors.Is(err, ownerbus.ErrRoleDenied) {
		t.Fatal("Missing resources must not be reported as authorization failures")
	}
}

func Test_Authorize_RoleGateFirst(t *testing.T) {
	w := newWorld()
	actor := ownerbus.Actor{ID: uuid.New(), Role: role.Tenant}

	// A tenant probing an id that does not exist learns nothing about it:
	// the role gate fires before the chain is resolved.
	_, err := w.core.Authorize(context.Background(), actor, actions.Assign, resource.Bed, uuid.New())
	if !errors.Is(err, ownerbus.ErrRoleDenied) {
		t.Fatalf("Should get ErrRoleDenied before any resolution: %v", err)
	}

	_, err = w.core.Authorize(context.Background(), actor, actions.Assign, resource.Bed, w.bedID)
	if !errors.Is(err, ownerbus.ErrRoleDenied) {
		t.Fatalf("Should get ErrRoleDenied on an existing bed as well: %v", err)
	}
}

func Test_Authorize_UnknownRole(t *testing.T) {
	w := newWorld()
	actor := ownerbus.Actor{ID: w.adminID}

	_, err := w.core.Authorize(context.Background(), actor, actions.Assign, resource.Bed, w.bedID)
	if !errors.Is(err, ownerbus.ErrRoleDenied) {
		t.Fatalf("Should refuse a zero valued role: %v", err)
	}
}

func Test_ResolveChain_Levels(t *testing.T) {
	w := newWorld()
	ctx := context.Background()

	tests := []struct {
		name string
		res  resource.Resource
		id   uuid.UUID
	}{
		{"property", resource.Property, w.propertyID},
		{"room", resource.Room, w.roomID},
		{"bed", resource.Bed, w.bedID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain, err := w.core.ResolveChain(ctx, tt.res, tt.id)
			if err != nil {
				t.Fatalf("Should resolve the chain: %s", err)
			}

			if chain.AdminID != w.adminID {
				t.Errorf("Should resolve to the owning admin, got %s", chain.AdminID)
			}
		})
	}
}

func Test_ResolveChain_UnknownResource(t *testing.T) {
	w := newWorld()

	_, err := w.core.ResolveChain(context.Background(), resource.Invite, uuid.New())
	if !errors.Is(err, ownerbus.ErrNotFound) {
		t.Fatalf("Should get ErrNotFound for a resource without a chain: %v", err)
	}
}
