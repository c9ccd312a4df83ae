package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"wayfarer/internal/models/db_models"
)

type BookingRepositoryInterface interface {
	ListBookingsByTrip(ctx context.Context, tripID uuid.UUID) ([]db_models.Booking, error)
	ListConfirmedByTripAndType(ctx context.Context, tripID uuid.UUID, bookingType string) ([]db_models.Booking, error)
	UpdateDetails(ctx context.Context, bookingID uuid.UUID, details datatypes.JSON) error
}

func NewBookingRepository(db *gorm.DB) BookingRepositoryInterface {
	return &BookingRepository{db: db}
}

type BookingRepository struct {
	db *gorm.DB
}

func (b BookingRepository) ListBookingsByTrip(ctx context.Context, tripID uuid.UUID) ([]db_models.Booking, error) {
	var bookings []db_models.Booking
	err := b.db.WithContext(ctx).Where("trip_id = ?", tripID).Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (b BookingRepository) ListConfirmedByTripAndType(ctx context.Context, tripID uuid.UUID, bookingType string) ([]db_models.Booking, error) {
	var bookings []db_models.Booking
	err := b.db.WithContext(ctx).
		Where("trip_id = ? AND type = ? AND status = ?", tripID, bookingType, db_models.BookingStatusConfirmed).
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (b BookingRepository) UpdateDetails(ctx context.Context, bookingID uuid.UUID, details datatypes.JSON) error {
	return b.db.Transaction(func(tx *gorm.DB) error {
		return tx.WithContext(ctx).
			Model(&db_models.Booking{}).
			Where("id = ?", bookingID).
			Update("details", details).Error
	})
}
