package tenantapp

import (
	"encoding/json"
	"fmt"

	"github.com/mypgstay/mypg/app/sdk/errs"
	"github.com/mypgstay/mypg/business/domain/occupancybus"
)

type Link struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	BedID      string `json:"bedId"`
	MoveInDate string `json:"moveInDate"`
	CreatedAt  string `json:"createdAt"`
}

// Encode implements the web.Encoder interface.
func (l Link) Encode() ([]byte, string, error) {
	data, err := json.Marshal(l)
	return data, "application/json", err
}

func toAppLink(lnk occupancybus.Link) Link {
	return Link{
		ID:         lnk.ID.String(),
		UserID:     lnk.UserID.String(),
		BedID:      lnk.BedID.String(),
		MoveInDate: lnk.MoveInDate.Format("2006-01-02"),
		CreatedAt:  lnk.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

type Links []Link

// Encode implements the web.Encoder interface.
func (l Links) Encode() ([]byte, string, error) {
	data, err := json.Marshal(l)
	return data, "application/json", err
}

func toAppLinks(lnks []occupancybus.Link) Links {
	items := make(Links, len(lnks))
	for i, lnk := range lnks {
		items[i] = toAppLink(lnk)
	}
	return items
}

type AssignBed struct {
	UserID     string `json:"userId" validate:"required"`
	BedID      string `json:"bedId" validate:"required"`
	MoveInDate string `json:"moveInDate" validate:"required"`
}

// Decode implements the web.Decoder interface.
func (app *AssignBed) Decode(data []byte) error {
	return json.Unmarshal(data, app)
}

// Validate checks the data in the model is considered clean.
func (app AssignBed) Validate() error {
	if err := errs.Check(app); err != nil {
		return errs.New(errs.InvalidArgument, fmt.Errorf("validate: %w", err))
	}
	return nil
}
