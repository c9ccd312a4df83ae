package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"wayfarer/internal/models/db_models"
)

type fakeTripRepo struct {
	trips   map[uuid.UUID]*db_models.Trip
	listed  []db_models.Trip
	listErr error
	err     error
}

func newFakeTripRepo(trips ...*db_models.Trip) *fakeTripRepo {
	m := make(map[uuid.UUID]*db_models.Trip)
	for _, t := range trips {
		m[t.ID] = t
	}
	return &fakeTripRepo{trips: m}
}

func (f *fakeTripRepo) CreateTrip(_ context.Context, trip *db_models.Trip) error {
	if f.err != nil {
		return f.err
	}
	if trip.ID == uuid.Nil {
		trip.ID = uuid.New()
	}
	f.trips[trip.ID] = trip
	return nil
}

func (f *fakeTripRepo) GetTripByID(_ context.Context, tripID uuid.UUID) (*db_models.Trip, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.trips[tripID], nil
}

func (f *fakeTripRepo) ListTripsByStatus(_ context.Context, status string) ([]db_models.Trip, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []db_models.Trip
	for _, t := range f.listed {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTripRepo) UpdateStatus(_ context.Context, tripID uuid.UUID, status string) error {
	if t, ok := f.trips[tripID]; ok {
		t.Status = status
	}
	return nil
}

func (f *fakeTripRepo) UpdateParsedSpec(_ context.Context, tripID uuid.UUID, spec datatypes.JSON, status string) error {
	if t, ok := f.trips[tripID]; ok {
		t.ParsedSpec = spec
		t.Status = status
	}
	return nil
}

type fakeBookingRepo struct {
	bookings []db_models.Booking
	updated  map[uuid.UUID]datatypes.JSON
	listErr  error
}

func newFakeBookingRepo(bookings ...db_models.Booking) *fakeBookingRepo {
	return &fakeBookingRepo{bookings: bookings, updated: make(map[uuid.UUID]datatypes.JSON)}
}

func (f *fakeBookingRepo) ListBookingsByTrip(_ context.Context, tripID uuid.UUID) ([]db_models.Booking, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []db_models.Booking
	for _, b := range f.bookings {
		if b.TripID == tripID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) ListConfirmedByTripAndType(_ context.Context, tripID uuid.UUID, bookingType string) ([]db_models.Booking, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []db_models.Booking
	for _, b := range f.bookings {
		if b.TripID == tripID && b.Type == bookingType && b.Status == db_models.BookingStatusConfirmed {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) UpdateDetails(_ context.Context, bookingID uuid.UUID, details datatypes.JSON) error {
	f.updated[bookingID] = details
	return nil
}

func hotelBooking(t *testing.T, tripID uuid.UUID, hotel db_models.HotelDetails) db_models.Booking {
	t.Helper()
	raw, err := json.Marshal(db_models.BookingDetails{Hotel: &hotel})
	require.NoError(t, err)
	b := db_models.Booking{
		TripID:  tripID,
		Type:    db_models.BookingTypeHotel,
		Status:  db_models.BookingStatusConfirmed,
		Details: raw,
	}
	b.ID = uuid.New()
	return b
}

func flightBooking(t *testing.T, tripID uuid.UUID, flight db_models.FlightDetails) db_models.Booking {
	t.Helper()
	raw, err := json.Marshal(db_models.BookingDetails{Flight: &flight})
	require.NoError(t, err)
	b := db_models.Booking{
		TripID:  tripID,
		Type:    db_models.BookingTypeFlight,
		Status:  db_models.BookingStatusConfirmed,
		Details: raw,
	}
	b.ID = uuid.New()
	return b
}

func confirmedTrip() *db_models.Trip {
	trip := &db_models.Trip{Status: db_models.TripStatusConfirmed}
	trip.ID = uuid.New()
	return trip
}

func TestClassifyModification(t *testing.T) {
	cases := []struct {
		request string
		kind    string
		nights  int
	}{
		{"extend my hotel by 2 nights", modHotelExtend, 2},
		{"add two more nights", modHotelExtend, 2},
		{"extend my hotel stay by a night", modHotelExtend, 1},
		{"can you add 3 nights to the hotel", modHotelExtend, 3},
		{"shorten my hotel by 1 night", modHotelShorten, 1},
		{"reduce my hotel stay by two nights", modHotelShorten, 2},
		{"upgrade to business class", modSeatUpgrade, 0},
		{"i want a first class seat", modSeatUpgrade, 0},
		{"premium economy please", modSeatUpgrade, 0},
		{"upgrade to a suite", modRoomUpgrade, 0},
		{"can i get a king room", modRoomUpgrade, 0},
		{"give me a better room", modRoomUpgrade, 0},
		{"cancel everything", modUnknown, 0},
	}

	for _, tc := range cases {
		intent := classifyModification(tc.request)
		assert.Equal(t, tc.kind, intent.kind, "request %q", tc.request)
		if tc.nights > 0 {
			assert.Equal(t, tc.nights, intent.nights, "request %q", tc.request)
		}
	}
}

func TestClassifyModification_CabinPrecedence(t *testing.T) {
	assert.Equal(t, db_models.CabinBusiness, classifyModification("upgrade to business class").cabin)
	assert.Equal(t, db_models.CabinFirst, classifyModification("first class please").cabin)
	assert.Equal(t, db_models.CabinPremiumEconomy, classifyModification("premium economy").cabin)
}

func TestApplyModification_HotelExtend(t *testing.T) {
	trip := confirmedTrip()
	booking := hotelBooking(t, trip.ID, db_models.HotelDetails{
		HotelName:        "Park Hyatt",
		CheckIn:          "2026-06-05",
		CheckOut:         "2026-06-10",
		RoomType:         "Standard Room",
		PricePerNightUSD: 200,
	})
	bookingRepo := newFakeBookingRepo(booking)
	svc := NewModificationService(newFakeTripRepo(trip), bookingRepo, NewLiveHotelModifier(), true)

	result, err := svc.ApplyModification(context.Background(), trip.ID, "extend my hotel by 2 nights")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, modHotelExtend, result.ModificationType)
	assert.Contains(t, result.Message, "2 night(s)")
	assert.Contains(t, result.Message, "2026-06-12")
	assert.Contains(t, result.Message, "$400.00")

	raw, ok := bookingRepo.updated[booking.ID]
	require.True(t, ok)
	var details db_models.BookingDetails
	require.NoError(t, json.Unmarshal(raw, &details))
	require.NotNil(t, details.Hotel)
	assert.Equal(t, "2026-06-12", details.Hotel.CheckOut)
	assert.Equal(t, "2026-06-05", details.Hotel.CheckIn)
}

func TestApplyModification_HotelExtendDefaultsToOneNight(t *testing.T) {
	trip := confirmedTrip()
	booking := hotelBooking(t, trip.ID, db_models.HotelDetails{
		CheckIn:          "2026-06-05",
		CheckOut:         "2026-06-10",
		PricePerNightUSD: 150,
	})
	svc := NewModificationService(newFakeTripRepo(trip), newFakeBookingRepo(booking), NewLiveHotelModifier(), true)

	result, err := svc.ApplyModification(context.Background(), trip.ID, "extend my hotel by one night")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Contains(t, result.Message, "1 night(s)")
	assert.Contains(t, result.Message, "2026-06-11")
}

func TestApplyModification_HotelShortenRejectsZeroStay(t *testing.T) {
	trip := confirmedTrip()
	booking := hotelBooking(t, trip.ID, db_models.HotelDetails{
		CheckIn:  "2026-06-05",
		CheckOut: "2026-06-08",
	})
	svc := NewModificationService(newFakeTripRepo(trip), newFakeBookingRepo(booking), NewLiveHotelModifier(), true)

	result, err := svc.ApplyModification(context.Background(), trip.ID, "shorten my hotel by 3 nights")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "zero or negative")
}

func TestApplyModification_HotelShorten(t *testing.T) {
	trip := confirmedTrip()
	booking := hotelBooking(t, trip.ID, db_models.HotelDetails{
		CheckIn:  "2026-06-05",
		CheckOut: "2026-06-10",
	})
	svc := NewModificationService(newFakeTripRepo(trip), newFakeBookingRepo(booking), NewLiveHotelModifier(), true)

	result, err := svc.ApplyModification(context.Background(), trip.ID, "shorten my hotel by 2 nights")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, modHotelShorten, result.ModificationType)
	assert.Contains(t, result.Message, "2026-06-08")
}

func TestApplyModification_NoHotelBooking(t *testing.T) {
	trip := confirmedTrip()
	svc := NewModificationService(newFakeTripRepo(trip), newFakeBookingRepo(), NewLiveHotelModifier(), true)

	result, err := svc.ApplyModification(context.Background(), trip.ID, "extend my hotel by 2 nights")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "No confirmed hotel booking")
}

func TestApplyModification_SeatUpgrade(t *testing.T) {
	trip := confirmedTrip()
	booking := flightBooking(t, trip.ID, db_models.FlightDetails{
		Carrier:      "UA",
		FlightNumber: "UA881",
		Cabin:        db_models.CabinEconomy,
		PriceUSD:     950,
	})
	bookingRepo := newFakeBookingRepo(booking)
	svc := NewModificationService(newFakeTripRepo(trip), bookingRepo, NewLiveHotelModifier(), true)

	result, err := svc.ApplyModification(context.Background(), trip.ID, "upgrade to business class")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, modSeatUpgrade, result.ModificationType)
	assert.Contains(t, result.Message, "Economy")
	assert.Contains(t, result.Message, "Business")
	assert.Contains(t, result.Message, "$1,200")

	raw, ok := bookingRepo.updated[booking.ID]
	require.True(t, ok)
	var details db_models.BookingDetails
	require.NoError(t, json.Unmarshal(raw, &details))
	require.NotNil(t, details.Flight)
	assert.Equal(t, db_models.CabinBusiness, details.Flight.Cabin)
}

func TestApplyModification_SeatUpgradeAlreadyBooked(t *testing.T) {
	trip := confirmedTrip()
	booking := flightBooking(t, trip.ID, db_models.FlightDetails{
		Carrier: "UA",
		Cabin:   db_models.CabinBusiness,
	})
	svc := NewModificationService(newFakeTripRepo(trip), newFakeBookingRepo(booking), NewLiveHotelModifier(), true)

	result, err := svc.ApplyModification(context.Background(), trip.ID, "upgrade to business class")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "already booked in BUSINESS")
}

func TestApplyModification_SeatUpgradeLiveModeUnsupported(t *testing.T) {
	trip := confirmedTrip()
	booking := flightBooking(t, trip.ID, db_models.FlightDetails{
		Carrier: "UA",
		Cabin:   db_models.CabinEconomy,
	})
	bookingRepo := newFakeBookingRepo(booking)
	svc := NewModificationService(newFakeTripRepo(trip), bookingRepo, NewLiveHotelModifier(), false)

	result, err := svc.ApplyModification(context.Background(), trip.ID, "upgrade to first class")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "contacting the airline")
	assert.Empty(t, bookingRepo.updated)
}

func TestApplyModification_RoomUpgradeSuite(t *testing.T) {
	trip := confirmedTrip()
	booking := hotelBooking(t, trip.ID, db_models.HotelDetails{
		CheckIn:  "2026-06-05",
		CheckOut: "2026-06-10",
		RoomType: "Standard Room",
	})
	svc := NewModificationService(newFakeTripRepo(trip), newFakeBookingRepo(booking), NewLiveHotelModifier(), true)

	result, err := svc.ApplyModification(context.Background(), trip.ID, "upgrade to a suite")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, modRoomUpgrade, result.ModificationType)
	assert.Contains(t, result.Message, "Junior Suite")
	// 5 nights at $150 extra per night
	assert.Contains(t, result.Message, "$750.00")
}

func TestApplyModification_UnknownRequest(t *testing.T) {
	trip := confirmedTrip()
	svc := NewModificationService(newFakeTripRepo(trip), newFakeBookingRepo(), NewLiveHotelModifier(), true)

	result, err := svc.ApplyModification(context.Background(), trip.ID, "teleport me to the moon")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, modUnknown, result.ModificationType)
	assert.Contains(t, result.Message, "extend my hotel by 2 nights")
	assert.Contains(t, result.Message, "upgrade to business class")
	assert.Contains(t, result.Message, "upgrade to a suite")
}

func TestApplyModification_TripNotFound(t *testing.T) {
	svc := NewModificationService(newFakeTripRepo(), newFakeBookingRepo(), NewLiveHotelModifier(), true)

	_, err := svc.ApplyModification(context.Background(), uuid.New(), "extend my hotel by 2 nights")
	assert.Error(t, err)
}
