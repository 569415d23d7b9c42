package propertyapp

import (
	"encoding/json"
	"fmt"

	"github.com/mypgstay/mypg/app/sdk/errs"
	"github.com/mypgstay/mypg/business/domain/propertybus"
)

type Property struct {
	ID        string `json:"id"`
	AdminID   string `json:"adminId"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	CreatedAt string `json:"createdAt"`
}

// Encode implements the web.Encoder interface.
func (p Property) Encode() ([]byte, string, error) {
	data, err := json.Marshal(p)
	return data, "application/json", err
}

func toAppProperty(prp propertybus.Property) Property {
	return Property{
		ID:        prp.ID.String(),
		AdminID:   prp.AdminID.String(),
		Name:      prp.Name.String(),
		Address:   prp.Address,
		CreatedAt: prp.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

type PropertyWithStats struct {
	Property
	TotalRooms   int `json:"totalRooms"`
	TotalBeds    int `json:"totalBeds"`
	OccupiedBeds int `json:"occupiedBeds"`
	TotalTenants int `json:"totalTenants"`
}

func toAppPropertyWithStats(prp propertybus.Property, stats propertybus.Stats) PropertyWithStats {
	return PropertyWithStats{
		Property:     toAppProperty(prp),
		TotalRooms:   stats.TotalRooms,
		TotalBeds:    stats.TotalBeds,
		OccupiedBeds: stats.OccupiedBeds,
		TotalTenants: stats.TotalTenants,
	}
}

type Properties []PropertyWithStats

// Encode implements the web.Encoder interface.
func (p Properties) Encode() ([]byte, string, error) {
	data, err := json.Marshal(p)
	return data, "application/json", err
}

type Room struct {
	ID         string `json:"id"`
	PropertyID string `json:"propertyId"`
	Number     string `json:"number"`
}

// Encode implements the web.Encoder interface.
func (r Room) Encode() ([]byte, string, error) {
	data, err := json.Marshal(r)
	return data, "application/json", err
}

func toAppRoom(rm propertybus.Room) Room {
	return Room{
		ID:         rm.ID.String(),
		PropertyID: rm.PropertyID.String(),
		Number:     rm.Number,
	}
}

type Rooms []Room

// Encode implements the web.Encoder interface.
func (r Rooms) Encode() ([]byte, string, error) {
	data, err := json.Marshal(r)
	return data, "application/json", err
}

func toAppRooms(rms []propertybus.Room) Rooms {
	items := make(Rooms, len(rms))
	for i, rm := range rms {
		items[i] = toAppRoom(rm)
	}
	return items
}

type Bed struct {
	ID       string  `json:"id"`
	RoomID   string  `json:"roomId"`
	Rent     float64 `json:"rent"`
	Occupied bool    `json:"occupied"`
}

// Encode implements the web.Encoder interface.
func (b Bed) Encode() ([]byte, string, error) {
	data, err := json.Marshal(b)
	return data, "application/json", err
}

func toAppBed(bed propertybus.Bed) Bed {
	return Bed{
		ID:       bed.ID.String(),
		RoomID:   bed.RoomID.String(),
		Rent:     bed.Rent.Value(),
		Occupied: bed.Occupied,
	}
}

type Beds []Bed

// Encode implements the web.Encoder interface.
func (b Beds) Encode() ([]byte, string, error) {
	data, err := json.Marshal(b)
	return data, "application/json", err
}

func toAppBeds(beds []propertybus.Bed) Beds {
	items := make(Beds, len(beds))
	for i, bed := range beds {
		items[i] = toAppBed(bed)
	}
	return items
}

type AvailableBed struct {
	BedID           string  `json:"bedId"`
	Rent            float64 `json:"rent"`
	RoomID          string  `json:"roomId"`
	RoomNumber      string  `json:"roomNumber"`
	PropertyID      string  `json:"propertyId"`
	PropertyName    string  `json:"propertyName"`
	PropertyAddress string  `json:"propertyAddress"`
}

type AvailableBeds []AvailableBed

// Encode implements the web.Encoder interface.
func (b AvailableBeds) Encode() ([]byte, string, error) {
	data, err := json.Marshal(b)
	return data, "application/json", err
}

func toAppAvailableBeds(beds []propertybus.AvailableBed) AvailableBeds {
	items := make(AvailableBeds, len(beds))
	for i, bed := range beds {
		items[i] = AvailableBed{
			BedID:           bed.BedID.String(),
			Rent:            bed.Rent.Value(),
			RoomID:          bed.RoomID.String(),
			RoomNumber:      bed.RoomNumber,
			PropertyID:      bed.PropertyID.String(),
			PropertyName:    bed.PropertyName,
			PropertyAddress: bed.PropertyAddress,
		}
	}
	return items
}

type NewProperty struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address" validate:"required"`
}

// Decode implements the web.Decoder interface.
func (app *NewProperty) Decode(data []byte) error {
	return json.Unmarshal(data, app)
}

// Validate checks the data in the model is considered clean.
func (app NewProperty) Validate() error {
	if err := errs.Check(app); err != nil {
		return errs.New(errs.InvalidArgument, fmt.Errorf("validate: %w", err))
	}
	return nil
}

type NewRoom struct {
	Number string `json:"number" validate:"required"`
}

// Decode implements the web.Decoder interface.
func (app *NewRoom) Decode(data []byte) error {
	return json.Unmarshal(data, app)
}

// Validate checks the data in the model is considered clean.
func (app NewRoom) Validate() error {
	if err := errs.Check(app); err != nil {
		return errs.New(errs.InvalidArgument, fmt.Errorf("validate: %w", err))
	}
	return nil
}

type NewBed struct {
	Rent float64 `json:"rent" validate:"gte=0"`
}

// Decode implements the web.Decoder interface.
func (app *NewBed) Decode(data []byte) error {
	return json.Unmarshal(data, app)
}

// Validate checks the data in the model is considered clean.
func (app NewBed) Validate() error {
	if err := errs.Check(app); err != nil {
		return errs.New(errs.InvalidArgument, fmt.Errorf("validate: %w", err))
	}
	return nil
}
