package modification_fx

import (
	"os"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"wayfarer/internal/repositories"
	"wayfarer/internal/services"
)

var Module = fx.Provide(
	provideBookingRepo,
	provideHotelModifier,
	provideModificationService)

func provideBookingRepo(db *gorm.DB) repositories.BookingRepositoryInterface {
	return repositories.NewBookingRepository(db)
}

func provideHotelModifier() services.HotelModifier {
	return services.NewLiveHotelModifier()
}

func provideModificationService(
	tripRepo repositories.TripRepositoryInterface,
	bookingRepo repositories.BookingRepositoryInterface,
	hotelModifier services.HotelModifier,
) services.ModificationServiceInterface {
	return services.NewModificationService(tripRepo, bookingRepo, hotelModifier, MockMode())
}

// MockMode reports whether bookings are simulated. No Amadeus credentials
// also forces mock mode so the app runs out of the box.
func MockMode() bool {
	if v := os.Getenv("BOOKING_MOCK_MODE"); v == "true" || v == "1" {
		return true
	}
	return os.Getenv("AMADEUS_CLIENT_ID") == ""
}
