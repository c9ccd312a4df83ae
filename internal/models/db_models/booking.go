package db_models

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	BookingTypeFlight   = "flight"
	BookingTypeHotel    = "hotel"
	BookingTypeActivity = "activity"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusFailed    = "failed"
)

type Booking struct {
	BaseModel
	TripID uuid.UUID `gorm:"type:uuid;index;not null"`
	Type   string    `gorm:"size:50;not null"`
	Status string    `gorm:"size:50;not null;default:pending"`

	ConfirmationNumber string         `gorm:"size:100"`
	Details            datatypes.JSON `gorm:"type:jsonb"`

	Trip Trip
}

// DecodeDetails unmarshals the JSONB payload into its tagged form. A booking
// with no details yields an empty BookingDetails, not an error.
func (b *Booking) DecodeDetails() (BookingDetails, error) {
	var d BookingDetails
	if len(b.Details) == 0 {
		return d, nil
	}
	if err := json.Unmarshal(b.Details, &d); err != nil {
		return BookingDetails{}, err
	}
	return d, nil
}

// EncodeDetails replaces the JSONB payload with the given tagged form.
func (b *Booking) EncodeDetails(d BookingDetails) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}
	b.Details = raw
	return nil
}
