package authapp

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/mypgstay/mypg/app/sdk/errs"
	"github.com/mypgstay/mypg/business/domain/statusbus"
	"github.com/mypgstay/mypg/business/domain/userbus"
)

type Token struct {
	Token string `json:"token"`
}

// Encode implements the web.Encoder interface.
func (t Token) Encode() ([]byte, string, error) {
	data, err := json.Marshal(t)
	return data, "application/json", err
}

func toAppToken(token string) Token {
	return Token{
		Token: token,
	}
}

type SignedUp struct {
	UserID     string `json:"userId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	PropertyID string `json:"propertyId,omitempty"`
	Token      string `json:"token"`
}

// Encode implements the web.Encoder interface.
func (s SignedUp) Encode() ([]byte, string, error) {
	data, err := json.Marshal(s)
	return data, "application/json", err
}

func toAppSignedUp(usr userbus.User, token string) SignedUp {
	var pid string
	if usr.InvitedPropertyID != uuid.Nil {
		pid = usr.InvitedPropertyID.String()
	}

	return SignedUp{
		UserID:     usr.ID.String(),
		Name:       usr.Name.String(),
		Email:      usr.Email.Address,
		Role:       usr.Role.String(),
		PropertyID: pid,
		Token:      token,
	}
}

type Status struct {
	Role      string `json:"role"`
	HasAccess bool   `json:"hasAccess"`
	HasBed    bool   `json:"hasBed"`
	State     string `json:"state"`
	Message   string `json:"message"`
}

// Encode implements the web.Encoder interface.
func (s Status) Encode() ([]byte, string, error) {
	data, err := json.Marshal(s)
	return data, "application/json", err
}

func toAppStatus(status statusbus.Status) Status {
	return Status{
		Role:      status.Role.String(),
		HasAccess: status.HasAccess,
		HasBed:    status.HasBed,
		State:     status.State,
		Message:   status.Message,
	}
}

type SignUp struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	InviteCode string `json:"inviteCode"`
}

// Decode implements the web.Decoder interface.
func (app *SignUp) Decode(data []byte) error {
	return json.Unmarshal(data, app)
}

// Validate checks the data in the model is considered clean.
func (app SignUp) Validate() error {
	if err := errs.Check(app); err != nil {
		return errs.New(errs.InvalidArgument, fmt.Errorf("validate: %w", err))
	}
	return nil
}

type Login struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Decode implements the web.Decoder interface.
func (app *Login) Decode(data []byte) error {
	return json.Unmarshal(data, app)
}

// Validate checks the data in the model is considered clean.
func (app Login) Validate() error {
	if err := errs.Check(app); err != nil {
		return errs.New(errs.InvalidArgument, fmt.Errorf("validate: %w", err))
	}
	return nil
}
