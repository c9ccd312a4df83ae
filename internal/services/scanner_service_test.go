package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfarer/internal/models/db_models"
)

type fakeAlertRepo struct {
	stored    []*db_models.TripAlert
	existsErr error
}

func (f *fakeAlertRepo) Exists(_ context.Context, tripID uuid.UUID, alertType, message string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	for _, a := range f.stored {
		if a.TripID == tripID && a.AlertType == alertType && a.Message == message {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAlertRepo) CreateBatch(_ context.Context, alerts []*db_models.TripAlert) error {
	f.stored = append(f.stored, alerts...)
	return nil
}

func (f *fakeAlertRepo) ListByTrip(_ context.Context, tripID uuid.UUID) ([]db_models.TripAlert, error) {
	var out []db_models.TripAlert
	for _, a := range f.stored {
		if a.TripID == tripID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAlertRepo) MarkRead(_ context.Context, alertID uuid.UUID) error {
	return nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*db_models.User
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, userID uuid.UUID) (*db_models.User, error) {
	return f.users[userID], nil
}

type stubMonitor struct {
	changes []AlertCandidate
	drops   []AlertCandidate
}

func (s stubMonitor) CheckFlightChanges(_ context.Context, _ *db_models.FlightDetails) []AlertCandidate {
	return s.changes
}

func (s stubMonitor) CheckPriceDrops(_ context.Context, _ *db_models.FlightDetails, _ float64) []AlertCandidate {
	return s.drops
}

type recordingMail struct {
	alertCalls []struct {
		To          string
		Destination string
		Count       int
	}
	err error
}

func (r *recordingMail) SendAlertEmail(to, name, destination string, alerts []db_models.TripAlert) error {
	r.alertCalls = append(r.alertCalls, struct {
		To          string
		Destination string
		Count       int
	}{to, destination, len(alerts)})
	return r.err
}

func (r *recordingMail) SendBookingConfirmation(_, _, _ string, _ *db_models.Trip, _ []db_models.Booking) error {
	return nil
}

func scannerFixture(t *testing.T) (*fakeTripRepo, *fakeBookingRepo, *fakeAlertRepo, *fakeUserRepo, *recordingMail, *db_models.Trip) {
	t.Helper()

	user := &db_models.User{Email: "ana@example.com", FirstName: "Ana"}
	user.ID = uuid.New()

	city := "Tokyo"
	specRaw, err := json.Marshal(db_models.TripSpec{DestinationCity: &city})
	require.NoError(t, err)

	trip := &db_models.Trip{
		UserID:     user.ID,
		Status:     db_models.TripStatusConfirmed,
		ParsedSpec: specRaw,
	}
	trip.ID = uuid.New()

	booking := flightBooking(t, trip.ID, db_models.FlightDetails{
		Carrier:        "UA",
		FlightNumber:   "UA881",
		Origin:         "JFK",
		Destination:    "TYO",
		DepartDatetime: "2026-06-05T08:30:00",
		PriceUSD:       1200,
	})

	tripRepo := newFakeTripRepo(trip)
	tripRepo.listed = []db_models.Trip{*trip}
	bookingRepo := newFakeBookingRepo(booking)
	alertRepo := &fakeAlertRepo{}
	userRepo := &fakeUserRepo{users: map[uuid.UUID]*db_models.User{user.ID: user}}
	mail := &recordingMail{}

	return tripRepo, bookingRepo, alertRepo, userRepo, mail, trip
}

func TestScanConfirmedTrips_PersistsAndNotifies(t *testing.T) {
	tripRepo, bookingRepo, alertRepo, userRepo, mail, trip := scannerFixture(t)

	monitor := stubMonitor{
		changes: []AlertCandidate{{
			AlertType: db_models.AlertTypeScheduleChange,
			Message:   "UA UA881: gate changed to B7",
			Details:   map[string]interface{}{"field": "gate", "new_value": "B7"},
		}},
		drops: []AlertCandidate{{
			AlertType: db_models.AlertTypePriceDrop,
			Message:   "Price drop alert: UA UA881 is now $980.00",
		}},
	}
	svc := NewScannerService(tripRepo, bookingRepo, alertRepo, userRepo, monitor, mail)

	require.NoError(t, svc.ScanConfirmedTrips(context.Background()))

	require.Len(t, alertRepo.stored, 2)
	assert.Equal(t, trip.ID, alertRepo.stored[0].TripID)

	require.Len(t, mail.alertCalls, 1)
	assert.Equal(t, "ana@example.com", mail.alertCalls[0].To)
	assert.Equal(t, "Tokyo", mail.alertCalls[0].Destination)
	assert.Equal(t, 2, mail.alertCalls[0].Count)
}

func TestScanConfirmedTrips_DeduplicatesAcrossCycles(t *testing.T) {
	tripRepo, bookingRepo, alertRepo, userRepo, mail, _ := scannerFixture(t)

	monitor := stubMonitor{
		changes: []AlertCandidate{{
			AlertType: db_models.AlertTypeScheduleChange,
			Message:   "UA UA881: gate changed to B7",
		}},
	}
	svc := NewScannerService(tripRepo, bookingRepo, alertRepo, userRepo, monitor, mail)

	require.NoError(t, svc.ScanConfirmedTrips(context.Background()))
	require.NoError(t, svc.ScanConfirmedTrips(context.Background()))
	require.NoError(t, svc.ScanConfirmedTrips(context.Background()))

	// same candidate every cycle, persisted exactly once
	assert.Len(t, alertRepo.stored, 1)
	assert.Len(t, mail.alertCalls, 1)
}

func TestScanConfirmedTrips_SkipsPriceCheckWithoutPrice(t *testing.T) {
	tripRepo, _, alertRepo, userRepo, mail, trip := scannerFixture(t)

	freeFlight := flightBooking(t, trip.ID, db_models.FlightDetails{
		Carrier:      "UA",
		FlightNumber: "UA882",
		PriceUSD:     0,
	})
	bookingRepo := newFakeBookingRepo(freeFlight)

	monitor := stubMonitor{
		drops: []AlertCandidate{{
			AlertType: db_models.AlertTypePriceDrop,
			Message:   "should never be emitted",
		}},
	}
	svc := NewScannerService(tripRepo, bookingRepo, alertRepo, userRepo, monitor, mail)

	require.NoError(t, svc.ScanConfirmedTrips(context.Background()))
	assert.Empty(t, alertRepo.stored)
	assert.Empty(t, mail.alertCalls)
}

func TestScanConfirmedTrips_TripFailureDoesNotAbortScan(t *testing.T) {
	tripRepo, bookingRepo, _, userRepo, mail, _ := scannerFixture(t)

	// Exists fails for every trip, so each trip errors but the scan finishes
	alertRepo := &fakeAlertRepo{existsErr: errors.New("db down")}

	monitor := stubMonitor{
		changes: []AlertCandidate{{
			AlertType: db_models.AlertTypeScheduleChange,
			Message:   "UA UA881: gate changed to B7",
		}},
	}
	svc := NewScannerService(tripRepo, bookingRepo, alertRepo, userRepo, monitor, mail)

	assert.NoError(t, svc.ScanConfirmedTrips(context.Background()))
	assert.Empty(t, alertRepo.stored)
}

func TestScanConfirmedTrips_MailFailureDoesNotFailScan(t *testing.T) {
	tripRepo, bookingRepo, alertRepo, userRepo, mail, _ := scannerFixture(t)
	mail.err = errors.New("smtp unreachable")

	monitor := stubMonitor{
		changes: []AlertCandidate{{
			AlertType: db_models.AlertTypeScheduleChange,
			Message:   "UA UA881: gate changed to B7",
		}},
	}
	svc := NewScannerService(tripRepo, bookingRepo, alertRepo, userRepo, monitor, mail)

	assert.NoError(t, svc.ScanConfirmedTrips(context.Background()))
	assert.Len(t, alertRepo.stored, 1)
}

type panickingMonitor struct{ stubMonitor }

func (panickingMonitor) CheckFlightChanges(_ context.Context, _ *db_models.FlightDetails) []AlertCandidate {
	panic("boom")
}

func TestScanConfirmedTrips_PanicIsContained(t *testing.T) {
	tripRepo, bookingRepo, alertRepo, userRepo, mail, _ := scannerFixture(t)

	svc := NewScannerService(tripRepo, bookingRepo, alertRepo, userRepo, panickingMonitor{}, mail)
	assert.NoError(t, svc.ScanConfirmedTrips(context.Background()))
	assert.Empty(t, alertRepo.stored)
	assert.Empty(t, mail.alertCalls)
}

func TestScanConfirmedTrips_CancelledContextStops(t *testing.T) {
	tripRepo, bookingRepo, alertRepo, userRepo, mail, _ := scannerFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewScannerService(tripRepo, bookingRepo, alertRepo, userRepo, stubMonitor{}, mail)
	assert.Error(t, svc.ScanConfirmedTrips(ctx))
	assert.Empty(t, alertRepo.stored)
}
