package services

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"wayfarer/internal/models/db_models"
	"wayfarer/internal/providers"
)

// AlertCandidate is one detected change before persistence and dedup.
type AlertCandidate struct {
	AlertType string
	Message   string
	Details   map[string]interface{}
}

// MonitorServiceInterface detects schedule changes and price drops for a
// confirmed flight. Both checks return an empty slice on any upstream failure
// so one broken lookup never stalls a scan cycle.
type MonitorServiceInterface interface {
	CheckFlightChanges(ctx context.Context, flight *db_models.FlightDetails) []AlertCandidate
	CheckPriceDrops(ctx context.Context, flight *db_models.FlightDetails, originalPriceUSD float64) []AlertCandidate
}

func NewMonitorService(amadeus *providers.AmadeusClient, mockMode bool) MonitorServiceInterface {
	return monitorService{amadeus: amadeus, mockMode: mockMode}
}

type monitorService struct {
	amadeus  *providers.AmadeusClient
	mockMode bool
}

func (m monitorService) CheckFlightChanges(ctx context.Context, flight *db_models.FlightDetails) []AlertCandidate {
	if m.mockMode || m.amadeus == nil {
		return mockFlightChanges(flight)
	}
	return m.liveFlightChanges(ctx, flight)
}

func (m monitorService) CheckPriceDrops(ctx context.Context, flight *db_models.FlightDetails, originalPriceUSD float64) []AlertCandidate {
	if m.mockMode || m.amadeus == nil {
		return mockPriceDrop(flight, originalPriceUSD)
	}
	return m.livePriceDrop(ctx, flight, originalPriceUSD)
}

// Mock detection is seeded from the flight identity so repeated cycles see the
// same outcome for the same booking, which keeps the deduplicator meaningful.
func mockFlightChanges(flight *db_models.FlightDetails) []AlertCandidate {
	rng := seededRNG(flight.Carrier + flight.FlightNumber)

	// ~8% of bookings get a schedule change per monitoring cycle
	if rng.Float64() > 0.08 {
		return nil
	}

	changeType := rng.Intn(3)

	oldTime := flight.DepartDatetime
	if oldTime == "" {
		oldTime = "2026-06-01T08:00:00"
	}
	dt, err := time.Parse("2006-01-02T15:04:05", oldTime)
	if err != nil {
		dt = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	}

	shifts := []int{-30, -15, 15, 30, 45, 60, 90}
	shiftMinutes := shifts[rng.Intn(len(shifts))]
	newDt := dt.Add(time.Duration(shiftMinutes) * time.Minute)

	switch changeType {
	case 0:
		direction := "later"
		abs := shiftMinutes
		if shiftMinutes < 0 {
			direction = "earlier"
			abs = -shiftMinutes
		}
		return []AlertCandidate{{
			AlertType: db_models.AlertTypeScheduleChange,
			Message: fmt.Sprintf("%s %s: departure rescheduled %d min %s (now %s)",
				flight.Carrier, flight.FlightNumber, abs, direction, newDt.Format("15:04")),
			Details: map[string]interface{}{
				"field":         "departure_time",
				"old_value":     oldTime,
				"new_value":     newDt.Format("2006-01-02T15:04:05"),
				"carrier":       flight.Carrier,
				"flight_number": flight.FlightNumber,
			},
		}}
	case 1:
		newArr := newDt.Add(time.Duration(2+rng.Intn(9)) * time.Hour)
		return []AlertCandidate{{
			AlertType: db_models.AlertTypeScheduleChange,
			Message: fmt.Sprintf("%s %s: estimated arrival updated to %s",
				flight.Carrier, flight.FlightNumber, newArr.Format("15:04")),
			Details: map[string]interface{}{
				"field":         "arrival_time",
				"old_value":     "",
				"new_value":     newArr.Format("2006-01-02T15:04:05"),
				"carrier":       flight.Carrier,
				"flight_number": flight.FlightNumber,
			},
		}}
	default:
		gates := []string{"A12", "B7", "C22", "D4", "E18", "F3"}
		newGate := gates[rng.Intn(len(gates))]
		return []AlertCandidate{{
			AlertType: db_models.AlertTypeScheduleChange,
			Message: fmt.Sprintf("%s %s: gate changed to %s",
				flight.Carrier, flight.FlightNumber, newGate),
			Details: map[string]interface{}{
				"field":         "gate",
				"old_value":     "TBD",
				"new_value":     newGate,
				"carrier":       flight.Carrier,
				"flight_number": flight.FlightNumber,
			},
		}}
	}
}

func mockPriceDrop(flight *db_models.FlightDetails, originalPriceUSD float64) []AlertCandidate {
	rng := seededRNG("pd" + flight.Carrier + flight.FlightNumber)

	// ~12% of bookings see a meaningful drop
	if rng.Float64() > 0.12 {
		return nil
	}

	dropPct := 0.08 + rng.Float64()*0.20
	newPrice := roundCents(originalPriceUSD * (1 - dropPct))
	savings := roundCents(originalPriceUSD - newPrice)

	return []AlertCandidate{{
		AlertType: db_models.AlertTypePriceDrop,
		Message: fmt.Sprintf("Price drop alert: %s %s is now $%s (was $%s) - you could save $%s if your ticket is refundable.",
			flight.Carrier, flight.FlightNumber, formatUSD(newPrice), formatUSD(originalPriceUSD), formatUSD(savings)),
		Details: map[string]interface{}{
			"carrier":            flight.Carrier,
			"flight_number":      flight.FlightNumber,
			"original_price_usd": originalPriceUSD,
			"new_price_usd":      newPrice,
			"savings_usd":        savings,
		},
	}}
}

func (m monitorService) liveFlightChanges(ctx context.Context, flight *db_models.FlightDetails) []AlertCandidate {
	departDate := truncateToDate(flight.DepartDatetime)
	if flight.Carrier == "" || flight.FlightNumber == "" || departDate == "" {
		return nil
	}

	actual, err := m.amadeus.DepartureTiming(ctx, flight.Carrier, flight.FlightNumber, departDate)
	if err != nil {
		log.Printf("live flight check failed for %s %s: %v", flight.Carrier, flight.FlightNumber, err)
		return nil
	}
	if actual == "" || actual == flight.DepartDatetime {
		return nil
	}

	display := actual
	if len(display) > 16 {
		display = display[:16]
	}
	return []AlertCandidate{{
		AlertType: db_models.AlertTypeScheduleChange,
		Message: fmt.Sprintf("%s %s: departure rescheduled to %s",
			flight.Carrier, flight.FlightNumber, strings.ReplaceAll(display, "T", " ")),
		Details: map[string]interface{}{
			"field":         "departure_time",
			"old_value":     flight.DepartDatetime,
			"new_value":     actual,
			"carrier":       flight.Carrier,
			"flight_number": flight.FlightNumber,
		},
	}}
}

func (m monitorService) livePriceDrop(ctx context.Context, flight *db_models.FlightDetails, originalPriceUSD float64) []AlertCandidate {
	departDate := truncateToDate(flight.DepartDatetime)
	if flight.Origin == "" || flight.Destination == "" || departDate == "" {
		return nil
	}

	cheapest, found, err := m.amadeus.CheapestOffer(ctx, flight.Origin, flight.Destination, departDate)
	if err != nil {
		log.Printf("live price drop check failed for %s-%s: %v", flight.Origin, flight.Destination, err)
		return nil
	}
	// only alert when at least 8% cheaper
	if !found || cheapest >= originalPriceUSD*0.92 {
		return nil
	}

	savings := roundCents(originalPriceUSD - cheapest)
	return []AlertCandidate{{
		AlertType: db_models.AlertTypePriceDrop,
		Message: fmt.Sprintf("Price drop: %s to %s now available from $%s (you paid $%s) - save $%s if your ticket is refundable.",
			flight.Origin, flight.Destination, formatUSD(cheapest), formatUSD(originalPriceUSD), formatUSD(savings)),
		Details: map[string]interface{}{
			"carrier":            flight.Carrier,
			"flight_number":      flight.FlightNumber,
			"original_price_usd": originalPriceUSD,
			"new_price_usd":      cheapest,
			"savings_usd":        savings,
		},
	}}
}

func seededRNG(seedStr string) *rand.Rand {
	var seed int64
	for _, b := range []byte(seedStr) {
		seed += int64(b)
	}
	return rand.New(rand.NewSource(seed))
}

func truncateToDate(isoDatetime string) string {
	if len(isoDatetime) < 10 {
		return ""
	}
	return isoDatetime[:10]
}

func roundCents(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
