package trip_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"wayfarer/internal/repositories"
	"wayfarer/internal/services"
)

var Module = fx.Provide(
	provideTripRepo,
	provideUserRepo,
	provideTripService)

func provideTripRepo(db *gorm.DB) repositories.TripRepositoryInterface {
	return repositories.NewTripRepository(db)
}

func provideUserRepo(db *gorm.DB) repositories.UserRepositoryInterface {
	return repositories.NewUserRepository(db)
}

func provideTripService(
	tripRepo repositories.TripRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	parser services.TripParserInterface,
) services.TripServiceInterface {
	return services.NewTripService(tripRepo, userRepo, parser)
}
