package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"wayfarer/internal/models/db_models"
)

type TripRepositoryInterface interface {
	CreateTrip(ctx context.Context, trip *db_models.Trip) error
	GetTripByID(ctx context.Context, tripID uuid.UUID) (*db_models.Trip, error)
	ListTripsByStatus(ctx context.Context, status string) ([]db_models.Trip, error)
	UpdateStatus(ctx context.Context, tripID uuid.UUID, status string) error
	UpdateParsedSpec(ctx context.Context, tripID uuid.UUID, spec datatypes.JSON, status string) error
}

func NewTripRepository(db *gorm.DB) TripRepositoryInterface {
	return &TripRepository{db: db}
}

type TripRepository struct {
	db *gorm.DB
}

func (t TripRepository) CreateTrip(ctx context.Context, trip *db_models.Trip) error {
	return t.db.Transaction(func(tx *gorm.DB) error {
		return tx.WithContext(ctx).Create(trip).Error
	})
}

func (t TripRepository) GetTripByID(ctx context.Context, tripID uuid.UUID) (*db_models.Trip, error) {
	var trip db_models.Trip
	err := t.db.WithContext(ctx).Where("id = ?", tripID).First(&trip).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &trip, nil
}

func (t TripRepository) ListTripsByStatus(ctx context.Context, status string) ([]db_models.Trip, error) {
	var trips []db_models.Trip
	err := t.db.WithContext(ctx).Where("status = ?", status).Find(&trips).Error
	if err != nil {
		return nil, err
	}
	return trips, nil
}

func (t TripRepository) UpdateStatus(ctx context.Context, tripID uuid.UUID, status string) error {
	return t.db.WithContext(ctx).
		Model(&db_models.Trip{}).
		Where("id = ?", tripID).
		Update("status", status).Error
}

// UpdateParsedSpec stores the parser output and advances the status in one
// update, so a trip is never visible with a spec but a stale status.
func (t TripRepository) UpdateParsedSpec(ctx context.Context, tripID uuid.UUID, spec datatypes.JSON, status string) error {
	return t.db.WithContext(ctx).
		Model(&db_models.Trip{}).
		Where("id = ?", tripID).
		Updates(map[string]interface{}{"parsed_spec": spec, "status": status}).Error
}
