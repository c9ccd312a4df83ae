package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"wayfarer/internal/models/db_models"
	"wayfarer/internal/repositories"
)

// ScannerServiceInterface drives one monitoring pass over every confirmed
// trip. The periodic ticker in the app lifecycle calls ScanConfirmedTrips on
// its interval.
type ScannerServiceInterface interface {
	ScanConfirmedTrips(ctx context.Context) error
}

func NewScannerService(
	tripRepo repositories.TripRepositoryInterface,
	bookingRepo repositories.BookingRepositoryInterface,
	alertRepo repositories.AlertRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	monitor MonitorServiceInterface,
	mail MailServiceInterface,
) ScannerServiceInterface {
	return scannerService{
		tripRepo:    tripRepo,
		bookingRepo: bookingRepo,
		alertRepo:   alertRepo,
		userRepo:    userRepo,
		monitor:     monitor,
		mail:        mail,
	}
}

type scannerService struct {
	tripRepo    repositories.TripRepositoryInterface
	bookingRepo repositories.BookingRepositoryInterface
	alertRepo   repositories.AlertRepositoryInterface
	userRepo    repositories.UserRepositoryInterface
	monitor     MonitorServiceInterface
	mail        MailServiceInterface
}

// ScanConfirmedTrips checks every confirmed trip for schedule changes and
// price drops. Trips are scanned sequentially; a failure on one trip is
// logged and the scan moves on, so a single bad booking cannot starve the
// rest of the cycle.
func (s scannerService) ScanConfirmedTrips(ctx context.Context) error {
	trips, err := s.tripRepo.ListTripsByStatus(ctx, db_models.TripStatusConfirmed)
	if err != nil {
		return err
	}
	log.Printf("monitor: scanning %d confirmed trip(s)", len(trips))

	for i := range trips {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.scanTripSafe(ctx, &trips[i]); err != nil {
			log.Printf("monitor: scan failed for trip %s: %v", trips[i].ID, err)
		}
	}

	log.Printf("monitor: scan complete, %d trip(s) checked", len(trips))
	return nil
}

// scanTripSafe converts a panic while scanning one trip into an error so the
// rest of the cycle still runs.
func (s scannerService) scanTripSafe(ctx context.Context, trip *db_models.Trip) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.scanTrip(ctx, trip)
}

func (s scannerService) scanTrip(ctx context.Context, trip *db_models.Trip) error {
	user, err := s.userRepo.GetUserByID(ctx, trip.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	bookings, err := s.bookingRepo.ListConfirmedByTripAndType(ctx, trip.ID, db_models.BookingTypeFlight)
	if err != nil {
		return err
	}

	var newAlerts []*db_models.TripAlert
	for i := range bookings {
		details, err := bookings[i].DecodeDetails()
		if err != nil || details.Flight == nil {
			continue
		}
		flight := details.Flight

		candidates := s.monitor.CheckFlightChanges(ctx, flight)
		if flight.PriceUSD > 0 {
			candidates = append(candidates, s.monitor.CheckPriceDrops(ctx, flight, flight.PriceUSD)...)
		}

		for _, c := range candidates {
			exists, err := s.alertRepo.Exists(ctx, trip.ID, c.AlertType, c.Message)
			if err != nil {
				return err
			}
			if exists {
				continue
			}
			alert := &db_models.TripAlert{
				TripID:    trip.ID,
				AlertType: c.AlertType,
				Message:   c.Message,
			}
			if c.Details != nil {
				if raw, err := json.Marshal(c.Details); err == nil {
					alert.Details = raw
				}
			}
			newAlerts = append(newAlerts, alert)
		}
	}

	if len(newAlerts) == 0 {
		return nil
	}

	if err := s.alertRepo.CreateBatch(ctx, newAlerts); err != nil {
		return err
	}

	s.notify(trip, user, newAlerts)
	return nil
}

// notify emails the user about freshly persisted alerts. Delivery is best
// effort and never fails the scan.
func (s scannerService) notify(trip *db_models.Trip, user *db_models.User, alerts []*db_models.TripAlert) {
	destination := "your trip"
	var spec db_models.TripSpec
	if len(trip.ParsedSpec) > 0 && json.Unmarshal(trip.ParsedSpec, &spec) == nil {
		if spec.DestinationCity != nil && *spec.DestinationCity != "" {
			destination = *spec.DestinationCity
		} else if spec.Destination != nil && *spec.Destination != "" {
			destination = *spec.Destination
		}
	}

	flat := make([]db_models.TripAlert, 0, len(alerts))
	for _, a := range alerts {
		flat = append(flat, *a)
	}

	if err := s.mail.SendAlertEmail(user.Email, user.DisplayName(), destination, flat); err != nil {
		log.Printf("monitor: alert email failed for trip %s: %v", trip.ID, err)
	}
}
