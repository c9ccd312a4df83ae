package scanner_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"wayfarer/internal/repositories"
	"wayfarer/internal/services"
)

var Module = fx.Provide(
	provideAlertRepo,
	provideAlertService,
	provideScannerService)

func provideAlertRepo(db *gorm.DB) repositories.AlertRepositoryInterface {
	return repositories.NewAlertRepository(db)
}

func provideAlertService(
	alertRepo repositories.AlertRepositoryInterface,
	tripRepo repositories.TripRepositoryInterface,
) services.AlertServiceInterface {
	return services.NewAlertService(alertRepo, tripRepo)
}

func provideScannerService(
	tripRepo repositories.TripRepositoryInterface,
	bookingRepo repositories.BookingRepositoryInterface,
	alertRepo repositories.AlertRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	monitor services.MonitorServiceInterface,
	mail services.MailServiceInterface,
) services.ScannerServiceInterface {
	return services.NewScannerService(tripRepo, bookingRepo, alertRepo, userRepo, monitor, mail)
}
