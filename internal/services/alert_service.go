package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"wayfarer/internal/models/response_models"
	"wayfarer/internal/repositories"
	"wayfarer/pkg/utils"
)

type AlertServiceInterface interface {
	ListTripAlerts(ctx context.Context, tripID uuid.UUID) ([]response_models.AlertResponse, error)
	MarkAlertRead(ctx context.Context, alertID uuid.UUID) error
}

func NewAlertService(
	alertRepo repositories.AlertRepositoryInterface,
	tripRepo repositories.TripRepositoryInterface,
) AlertServiceInterface {
	return alertService{alertRepo: alertRepo, tripRepo: tripRepo}
}

type alertService struct {
	alertRepo repositories.AlertRepositoryInterface
	tripRepo  repositories.TripRepositoryInterface
}

func (s alertService) ListTripAlerts(ctx context.Context, tripID uuid.UUID) ([]response_models.AlertResponse, error) {
	trip, err := s.tripRepo.GetTripByID(ctx, tripID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if trip == nil {
		return nil, utils.ErrTripNotFound
	}

	alerts, err := s.alertRepo.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	responses := make([]response_models.AlertResponse, 0, len(alerts))
	for _, a := range alerts {
		responses = append(responses, response_models.AlertResponse{
			ID:        a.ID.String(),
			TripID:    a.TripID.String(),
			AlertType: a.AlertType,
			Message:   a.Message,
			Details:   json.RawMessage(a.Details),
			IsRead:    a.IsRead,
			CreatedAt: a.CreatedAt,
		})
	}
	return responses, nil
}

func (s alertService) MarkAlertRead(ctx context.Context, alertID uuid.UUID) error {
	err := s.alertRepo.MarkRead(ctx, alertID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrAlertNotFound
		}
		return utils.ErrDatabaseError
	}
	return nil
}
