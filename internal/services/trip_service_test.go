package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfarer/internal/models/db_models"
	"wayfarer/internal/models/request_models"
	"wayfarer/pkg/utils"
)

type stubParser struct {
	spec *db_models.TripSpec
	err  error
}

func (s stubParser) Parse(_ context.Context, _ string) (*db_models.TripSpec, error) {
	return s.spec, s.err
}

func testUser() (*fakeUserRepo, uuid.UUID) {
	user := &db_models.User{Email: "ana@example.com"}
	user.ID = uuid.New()
	return &fakeUserRepo{users: map[uuid.UUID]*db_models.User{user.ID: user}}, user.ID
}

func TestCreateTripFromRequest_Success(t *testing.T) {
	userRepo, userID := testUser()
	tripRepo := newFakeTripRepo()

	dest := "TYO"
	city := "Tokyo"
	parser := stubParser{spec: &db_models.TripSpec{
		Destination:     &dest,
		DestinationCity: &city,
		NumTravelers:    1,
		CabinClass:      db_models.CabinEconomy,
	}}
	svc := NewTripService(tripRepo, userRepo, parser)

	resp, err := svc.CreateTripFromRequest(context.Background(), request_models.CreateTripRequest{
		UserID:  userID.String(),
		Request: "Fly to Tokyo in June",
	})
	require.NoError(t, err)

	assert.Equal(t, db_models.TripStatusSearching, resp.Status)
	assert.Equal(t, "Fly to Tokyo in June", resp.RawRequest)
	assert.NotEmpty(t, resp.ParsedSpec)

	tripID, err := uuid.Parse(resp.ID)
	require.NoError(t, err)
	stored := tripRepo.trips[tripID]
	require.NotNil(t, stored)
	assert.Equal(t, db_models.TripStatusSearching, stored.Status)
	assert.NotEmpty(t, stored.ParsedSpec)
}

func TestCreateTripFromRequest_NoDestinationFailsTrip(t *testing.T) {
	userRepo, userID := testUser()
	tripRepo := newFakeTripRepo()

	parser := stubParser{spec: &db_models.TripSpec{NumTravelers: 1}}
	svc := NewTripService(tripRepo, userRepo, parser)

	_, err := svc.CreateTripFromRequest(context.Background(), request_models.CreateTripRequest{
		UserID:  userID.String(),
		Request: "somewhere warm",
	})
	assert.ErrorIs(t, err, utils.ErrParse)

	// the failed attempt leaves an auditable trip row
	require.Len(t, tripRepo.trips, 1)
	for _, trip := range tripRepo.trips {
		assert.Equal(t, db_models.TripStatusFailed, trip.Status)
	}
}

func TestCreateTripFromRequest_ParserErrorFailsTrip(t *testing.T) {
	userRepo, userID := testUser()
	tripRepo := newFakeTripRepo()

	svc := NewTripService(tripRepo, userRepo, stubParser{err: utils.ErrParse})

	_, err := svc.CreateTripFromRequest(context.Background(), request_models.CreateTripRequest{
		UserID:  userID.String(),
		Request: "gibberish",
	})
	assert.ErrorIs(t, err, utils.ErrParse)
}

func TestCreateTripFromRequest_UnknownUser(t *testing.T) {
	userRepo := &fakeUserRepo{users: map[uuid.UUID]*db_models.User{}}
	svc := NewTripService(newFakeTripRepo(), userRepo, stubParser{})

	_, err := svc.CreateTripFromRequest(context.Background(), request_models.CreateTripRequest{
		UserID:  uuid.New().String(),
		Request: "Fly to Tokyo",
	})
	assert.ErrorIs(t, err, utils.ErrUserNotFound)
}

func TestGetTrip_NotFound(t *testing.T) {
	userRepo, _ := testUser()
	svc := NewTripService(newFakeTripRepo(), userRepo, stubParser{})

	_, err := svc.GetTrip(context.Background(), uuid.New())
	assert.ErrorIs(t, err, utils.ErrTripNotFound)
}
