package inviteapp

import (
	"encoding/json"

	"github.com/mypgstay/mypg/business/domain/invitebus"
)

type Invite struct {
	Code       string `json:"code"`
	PropertyID string `json:"propertyId"`
	Status     string `json:"status"`
	CreatedAt  string `json:"createdAt"`
}

// Encode implements the web.Encoder interface.
func (i Invite) Encode() ([]byte, string, error) {
	data, err := json.Marshal(i)
	return data, "application/json", err
}

func toAppInvite(inv invitebus.Invite) Invite {
	return Invite{
		Code:       inv.Code,
		PropertyID: inv.PropertyID.String(),
		Status:     inv.Status.String(),
		CreatedAt:  inv.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
