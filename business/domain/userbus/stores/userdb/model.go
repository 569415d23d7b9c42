package userdb

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/mypgstay/mypg/business/domain/userbus"
	"github.com/mypgstay/mypg/business/types/name"
	"github.com/mypgstay/mypg/business/types/role"
)

type userDB struct {
	ID                uuid.UUID  `db:"user_id"`
	Name              string     `db:"name"`
	Email             string     `db:"email"`
	Role              string     `db:"role"`
	PasswordHash      []byte     `db:"password_hash"`
	Enabled           bool       `db:"enabled"`
	InvitedPropertyID *uuid.UUID `db:"invited_property_id"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
}

func toDBUser(bus userbus.User) userDB {
	var invitedPropertyID *uuid.UUID
	if bus.InvitedPropertyID != uuid.Nil {
		invitedPropertyID = &bus.InvitedPropertyID
	}

	return userDB{
		ID:                bus.ID,
		Name:              bus.Name.String(),
		Email:             bus.Email.Address,
		Role:              bus.Role.String(),
		PasswordHash:      bus.PasswordHash,
		Enabled:           bus.Enabled,
		InvitedPropertyID: invitedPropertyID,
		CreatedAt:         bus.CreatedAt.UTC(),
		UpdatedAt:         bus.UpdatedAt.UTC(),
	}
}

func toBusUser(db userDB) (userbus.User, error) {
	addr := mail.Address{
		Address: db.Email,
	}

	usrRole, err := role.Parse(db.Role)
	if err != nil {
		return userbus.User{}, fmt.Errorf("parse role: %w", err)
	}

	nme, err := name.Parse(db.Name)
	if err != nil {
		return userbus.User{}, fmt.Errorf("parse name: %w", err)
	}

	var invitedPropertyID uuid.UUID
	if db.InvitedPropertyID != nil {
		invitedPropertyID = *db.InvitedPropertyID
	}

	bus := userbus.User{
		ID:                db.ID,
		Name:              nme,
		Email:             addr,
		Role:              usrRole,
		PasswordHash:      db.PasswordHash,
		Enabled:           db.Enabled,
		InvitedPropertyID: invitedPropertyID,
		CreatedAt:         db.CreatedAt.In(time.Local),
		UpdatedAt:         db.UpdatedAt.In(time.Local),
	}

	return bus, nil
}

func toBusUsers(dbs []userDB) ([]userbus.User, error) {
	bus := make([]userbus.User, len(dbs))

	for i, db := range dbs {
		var err error
		bus[i], err = toBusUser(db)
		if err != nil {
			return nil, err
		}
	}

	return bus, nil
}
