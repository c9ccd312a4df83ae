package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"wayfarer/internal/models/db_models"
)

type AlertRepositoryInterface interface {
	// Exists reports whether an alert with the same (trip, type, message)
	// has already been persisted, which is the dedup key for the scanner.
	Exists(ctx context.Context, tripID uuid.UUID, alertType, message string) (bool, error)
	CreateBatch(ctx context.Context, alerts []*db_models.TripAlert) error
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]db_models.TripAlert, error)
	MarkRead(ctx context.Context, alertID uuid.UUID) error
}

func NewAlertRepository(db *gorm.DB) AlertRepositoryInterface {
	return &AlertRepository{db: db}
}

type AlertRepository struct {
	db *gorm.DB
}

func (a AlertRepository) Exists(ctx context.Context, tripID uuid.UUID, alertType, message string) (bool, error) {
	var count int64
	err := a.db.WithContext(ctx).
		Model(&db_models.TripAlert{}).
		Where("trip_id = ? AND alert_type = ? AND message = ?", tripID, alertType, message).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateBatch persists all alerts in one transaction so a trip's scan cycle
// commits its findings atomically.
func (a AlertRepository) CreateBatch(ctx context.Context, alerts []*db_models.TripAlert) error {
	if len(alerts) == 0 {
		return nil
	}
	return a.db.Transaction(func(tx *gorm.DB) error {
		for _, alert := range alerts {
			if err := tx.WithContext(ctx).Create(alert).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (a AlertRepository) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]db_models.TripAlert, error) {
	var alerts []db_models.TripAlert
	err := a.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Order("created_at DESC").
		Find(&alerts).Error
	if err != nil {
		return nil, err
	}
	return alerts, nil
}

func (a AlertRepository) MarkRead(ctx context.Context, alertID uuid.UUID) error {
	res := a.db.WithContext(ctx).
		Model(&db_models.TripAlert{}).
		Where("id = ?", alertID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
