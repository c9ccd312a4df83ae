package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Status flow: parsing, searching, options_ready, approved, confirmed,
// with search_failed / failed as terminal error states.
const (
	TripStatusParsing      = "parsing"
	TripStatusSearching    = "searching"
	TripStatusOptionsReady = "options_ready"
	TripStatusApproved     = "approved"
	TripStatusConfirmed    = "confirmed"
	TripStatusSearchFailed = "search_failed"
	TripStatusFailed       = "failed"
)

type Trip struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:uuid;index;not null"`
	Status string    `gorm:"size:50;not null;default:parsing"`

	// Original plain-English request from the user
	RawRequest string `gorm:"type:text;not null"`

	// Structured spec extracted by the intent parser
	ParsedSpec datatypes.JSON `gorm:"type:jsonb"`

	// The itinerary option the user approved
	ApprovedItinerary datatypes.JSON `gorm:"type:jsonb"`

	User     User
	Bookings []Booking   `gorm:"constraint:OnDelete:CASCADE"`
	Alerts   []TripAlert `gorm:"constraint:OnDelete:CASCADE"`
}
