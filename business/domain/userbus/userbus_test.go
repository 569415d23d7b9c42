package userbus_test

import (
	"context"
	"net/mail"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/mypgstay/mypg/business/domain/userbus"
	"github.com/mypgstay/mypg/business/sdk/order"
	"github.com/mypgstay/mypg/business/sdk/page"
	"github.com/mypgstay/mypg/business/sdk/sqldb"
	"github.com/mypgstay/mypg/business/types/name"
	"github.com/mypgstay/mypg/business/types/password"
	"github.com/mypgstay/mypg/business/types/role"
	"golang.org/x/crypto/bcrypt"
)

// fakeStore records the users handed to Create so tests can inspect exactly
// what would be persisted.
type fakeStore struct {
	created []userbus.User
}

func (s *fakeStore) NewWithTx(tx sqldb.CommitRollbacker) (userbus.Storer, error) {
	return s, nil
}

func (s *fakeStore) Create(ctx context.Context, usr userbus.User) error {
	s.created = append(s.created, usr)
	return nil
}

func (s *fakeStore) Update(ctx context.Context, usr userbus.User) error {
	return nil
}

func (s *fakeStore) Query(ctx context.Context, filter userbus.QueryFilter, orderBy order.By, page page.Page) ([]userbus.User, error) {
	return nil, nil
}

func (s *fakeStore) Count(ctx context.Context, filter userbus.QueryFilter) (int, error) {
	return 0, nil
}

func (s *fakeStore) QueryByID(ctx context.Context, userID uuid.UUID) (userbus.User, error) {
	return userbus.User{}, userbus.ErrNotFound
}

func (s *fakeStore) QueryByEmail(ctx context.Context, email mail.Address) (userbus.User, error) {
	return userbus.User{}, userbus.ErrNotFound
}

func Test_Create_InvitedTenant(t *testing.T) {
	store := fakeStore{}
	core := userbus.NewCore(&store)

	propertyID := uuid.New()

	nu := userbus.NewUser{
		Name:              name.MustParse("Invited Tenant"),
		Email:             mail.Address{Address: "tenant@example.com"},
		Role:              role.Tenant,
		Password:          password.MustParse("s3cretpass"),
		InvitedPropertyID: propertyID,
	}

	usr, err := core.Create(context.Background(), nu)
	if err != nil {
		t.Fatalf("Should be able to create a user: %s", err)
	}

	if len(store.created) != 1 {
		t.Fatalf("Should persist exactly one user, got %d", len(store.created))
	}

	// The property binding from the invite must land in the store, not just
	// in the returned value.
	if store.created[0].InvitedPropertyID != propertyID {
		t.Fatalf("Stored user must carry the invited property, got %s", store.created[0].InvitedPropertyID)
	}

	if diff := cmp.Diff(usr, store.created[0]); diff != "" {
		t.Errorf("Returned and stored user must match. diff:\n%s", diff)
	}

	if err := bcrypt.CompareHashAndPassword(usr.PasswordHash, []byte("s3cretpass")); err != nil {
		t.Errorf("Stored hash must match the password: %s", err)
	}
}

func Test_Create_AdminUnbound(t *testing.T) {
	store := fakeStore{}
	core := userbus.NewCore(&store)

	nu := userbus.NewUser{
		Name:     name.MustParse("House Admin"),
		Email:    mail.Address{Address: "admin@example.com"},
		Role:     role.Administrator,
		Password: password.MustParse("s3cretpass"),
	}

	usr, err := core.Create(context.Background(), nu)
	if err != nil {
		t.Fatalf("Should be able to create a user: %s", err)
	}

	if usr.InvitedPropertyID != uuid.Nil {
		t.Fatalf("An admin signup has no property binding, got %s", usr.InvitedPropertyID)
	}
}
