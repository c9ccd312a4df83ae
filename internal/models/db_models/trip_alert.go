package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	AlertTypeScheduleChange = "schedule_change"
	AlertTypePriceDrop      = "price_drop"
	AlertTypeCancellation   = "cancellation"
)

// TripAlert rows are written only by the monitoring pipeline. After creation
// the only mutation is IsRead, flipped by the UI.
// Invariant: no two alerts for the same trip share (AlertType, Message).
type TripAlert struct {
	BaseModel
	TripID    uuid.UUID      `gorm:"type:uuid;index;not null"`
	AlertType string         `gorm:"size:50;not null"`
	Message   string         `gorm:"type:text;not null"`
	Details   datatypes.JSON `gorm:"type:jsonb"`
	IsRead    bool           `gorm:"not null;default:false"`
}
