package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfarer/internal/models/db_models"
)

func mockMonitor() MonitorServiceInterface {
	return NewMonitorService(nil, true)
}

func sampleFlight(carrier, number string) *db_models.FlightDetails {
	return &db_models.FlightDetails{
		Carrier:        carrier,
		FlightNumber:   number,
		Origin:         "JFK",
		Destination:    "TYO",
		Cabin:          db_models.CabinEconomy,
		DepartDatetime: "2026-06-05T08:30:00",
		PriceUSD:       1200,
	}
}

func TestMockFlightChanges_Deterministic(t *testing.T) {
	m := mockMonitor()
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		flight := sampleFlight("UA", fmt.Sprintf("UA%d", 100+i*7))
		first := m.CheckFlightChanges(ctx, flight)
		second := m.CheckFlightChanges(ctx, flight)
		assert.Equal(t, first, second, "flight %s", flight.FlightNumber)
	}
}

func TestMockFlightChanges_AlertShape(t *testing.T) {
	m := mockMonitor()
	ctx := context.Background()

	fired := 0
	for i := 0; i < 300; i++ {
		// vary both character and length so the byte-sum seeds spread widely
		flight := sampleFlight("DL", "DL"+strings.Repeat(string(rune('A'+i%26)), 1+i/26))
		alerts := m.CheckFlightChanges(ctx, flight)
		if len(alerts) == 0 {
			continue
		}
		fired++
		require.Len(t, alerts, 1)
		a := alerts[0]
		assert.Equal(t, db_models.AlertTypeScheduleChange, a.AlertType)
		assert.Contains(t, a.Message, "DL")
		assert.Contains(t, a.Message, flight.FlightNumber)
		assert.Equal(t, "DL", a.Details["carrier"])
		assert.Contains(t, []interface{}{"departure_time", "arrival_time", "gate"}, a.Details["field"])
	}
	// seeded at ~8% activation, 300 distinct flights should fire at least once
	assert.Greater(t, fired, 0)
}

func TestMockPriceDrop_Deterministic(t *testing.T) {
	m := mockMonitor()
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		flight := sampleFlight("AA", fmt.Sprintf("AA%d", 200+i*3))
		first := m.CheckPriceDrops(ctx, flight, 1000)
		second := m.CheckPriceDrops(ctx, flight, 1000)
		assert.Equal(t, first, second, "flight %s", flight.FlightNumber)
	}
}

func TestMockPriceDrop_Bounds(t *testing.T) {
	m := mockMonitor()
	ctx := context.Background()

	fired := 0
	for i := 0; i < 300; i++ {
		flight := sampleFlight("BA", "BA"+strings.Repeat(string(rune('A'+i%26)), 1+i/26))
		alerts := m.CheckPriceDrops(ctx, flight, 1000)
		if len(alerts) == 0 {
			continue
		}
		fired++
		require.Len(t, alerts, 1)
		a := alerts[0]
		assert.Equal(t, db_models.AlertTypePriceDrop, a.AlertType)

		newPrice, ok := a.Details["new_price_usd"].(float64)
		require.True(t, ok)
		// drop is uniform over 8-28%
		assert.GreaterOrEqual(t, newPrice, 1000*0.72-0.01)
		assert.LessOrEqual(t, newPrice, 1000*0.92+0.01)

		savings, ok := a.Details["savings_usd"].(float64)
		require.True(t, ok)
		assert.InDelta(t, 1000-newPrice, savings, 0.01)
	}
	assert.Greater(t, fired, 0)
}

func TestMockChecks_IndependentOfChangeSeed(t *testing.T) {
	// A price drop and a schedule change for the same flight use different
	// seeds, so one firing never implies the other.
	m := mockMonitor()
	ctx := context.Background()

	flight := sampleFlight("NH", "NH9")
	changes := m.CheckFlightChanges(ctx, flight)
	drops := m.CheckPriceDrops(ctx, flight, 500)

	for _, a := range changes {
		assert.Equal(t, db_models.AlertTypeScheduleChange, a.AlertType)
	}
	for _, a := range drops {
		assert.Equal(t, db_models.AlertTypePriceDrop, a.AlertType)
	}
}
