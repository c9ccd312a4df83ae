package services

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"

	"wayfarer/internal/models/db_models"
	"wayfarer/internal/models/request_models"
	"wayfarer/internal/models/response_models"
	"wayfarer/internal/repositories"
	"wayfarer/pkg/utils"
)

type TripServiceInterface interface {
	CreateTripFromRequest(ctx context.Context, req request_models.CreateTripRequest) (*response_models.TripResponse, error)
	GetTrip(ctx context.Context, tripID uuid.UUID) (*response_models.TripResponse, error)
}

func NewTripService(
	tripRepo repositories.TripRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	parser TripParserInterface,
) TripServiceInterface {
	return tripService{
		tripRepo: tripRepo,
		userRepo: userRepo,
		parser:   parser,
	}
}

type tripService struct {
	tripRepo repositories.TripRepositoryInterface
	userRepo repositories.UserRepositoryInterface
	parser   TripParserInterface
}

// CreateTripFromRequest records the raw request, runs the intent parser and
// stores the structured spec. A request the parser cannot resolve to a
// destination leaves the trip in the failed state and returns ErrParse.
func (s tripService) CreateTripFromRequest(ctx context.Context, req request_models.CreateTripRequest) (*response_models.TripResponse, error) {
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, utils.ErrInvalidInput
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if user == nil {
		return nil, utils.ErrUserNotFound
	}

	trip := &db_models.Trip{
		UserID:     userID,
		Status:     db_models.TripStatusParsing,
		RawRequest: req.Request,
	}
	if err := s.tripRepo.CreateTrip(ctx, trip); err != nil {
		return nil, utils.ErrDatabaseError
	}

	spec, parseErr := s.parser.Parse(ctx, req.Request)
	if parseErr == nil && (spec == nil || spec.Destination == nil || *spec.Destination == "") {
		parseErr = utils.ErrParse
	}
	if parseErr != nil {
		if err := s.tripRepo.UpdateStatus(ctx, trip.ID, db_models.TripStatusFailed); err != nil {
			log.Printf("failed to mark trip %s as failed: %v", trip.ID, err)
		}
		return nil, utils.ErrParse
	}

	raw, err := json.Marshal(spec)
	if err != nil {
		return nil, utils.ErrParse
	}
	if err := s.tripRepo.UpdateParsedSpec(ctx, trip.ID, raw, db_models.TripStatusSearching); err != nil {
		return nil, utils.ErrDatabaseError
	}

	return &response_models.TripResponse{
		ID:         trip.ID.String(),
		Status:     db_models.TripStatusSearching,
		RawRequest: trip.RawRequest,
		ParsedSpec: raw,
		CreatedAt:  trip.CreatedAt,
	}, nil
}

func (s tripService) GetTrip(ctx context.Context, tripID uuid.UUID) (*response_models.TripResponse, error) {
	trip, err := s.tripRepo.GetTripByID(ctx, tripID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if trip == nil {
		return nil, utils.ErrTripNotFound
	}

	return &response_models.TripResponse{
		ID:         trip.ID.String(),
		Status:     trip.Status,
		RawRequest: trip.RawRequest,
		ParsedSpec: json.RawMessage(trip.ParsedSpec),
		CreatedAt:  trip.CreatedAt,
	}, nil
}
