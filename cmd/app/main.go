package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"wayfarer/cmd/fx/controllers_fx"
	"wayfarer/cmd/fx/db_fx"
	"wayfarer/cmd/fx/mail_fx"
	"wayfarer/cmd/fx/modification_fx"
	"wayfarer/cmd/fx/monitor_fx"
	"wayfarer/cmd/fx/parser_fx"
	"wayfarer/cmd/fx/scanner_fx"
	"wayfarer/cmd/fx/trip_fx"
	"wayfarer/internal/api/controllers"
	"wayfarer/internal/services"
	"wayfarer/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	app := fx.New(
		db_fx.Module,
		parser_fx.Module,
		trip_fx.Module,
		modification_fx.Module,
		monitor_fx.Module,
		mail_fx.Module,
		scanner_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
		fx.Invoke(StartScanner),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := os.Getenv("PORT")
				if port == "" {
					port = "8080"
				}
				log.Printf("Starting HTTP server at :%s", port)
				if err := engine.Run(":" + port); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

// StartScanner runs the monitoring scan on a fixed interval until shutdown.
func StartScanner(lc fx.Lifecycle, scanner services.ScannerServiceInterface) {
	interval := time.Hour
	if v := os.Getenv("MONITOR_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			interval = d
		}
	}

	scanCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer close(done)
				ticker := time.NewTicker(interval)
				defer ticker.Stop()
				log.Printf("Starting trip monitor, interval %s", interval)
				for {
					select {
					case <-ticker.C:
						if err := scanner.ScanConfirmedTrips(scanCtx); err != nil {
							log.Printf("monitor scan failed: %v", err)
						}
					case <-scanCtx.Done():
						return
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping trip monitor")
			cancel()
			select {
			case <-done:
			case <-ctx.Done():
			}
			return nil
		},
	})
}

func ProvideRouter(
	tripController *controllers.TripController,
	modificationController *controllers.ModificationController,
	alertController *controllers.AlertController) *gin.Engine {

	r := gin.Default()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.TraceIDMiddleware())

	RegisterRoutes(r, tripController, modificationController, alertController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	tripController *controllers.TripController,
	modificationController *controllers.ModificationController,
	alertController *controllers.AlertController) {

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	tripsGroup := r.Group("/trips")
	tripsGroup.POST("", tripController.CreateTrip)
	tripsGroup.GET("/:id", tripController.GetTrip)
	tripsGroup.POST("/:id/modifications", modificationController.ModifyTrip)
	tripsGroup.GET("/:id/alerts", alertController.ListTripAlerts)

	alertsGroup := r.Group("/alerts")
	alertsGroup.POST("/:id/read", alertController.MarkAlertRead)
}
