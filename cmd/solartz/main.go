package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/kelvins/geocoder"

	httpapi "github.com/solartz/solartz/internal/api/http"
	"github.com/solartz/solartz/internal/config"
	"github.com/solartz/solartz/internal/ephemeris"
	"github.com/solartz/solartz/internal/position"
	"github.com/solartz/solartz/internal/prayer"
	"github.com/solartz/solartz/internal/scheduler"
	"github.com/solartz/solartz/internal/solartime"
	"github.com/solartz/solartz/internal/store"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Solar event provider.
	var eph solartime.Ephemeris
	switch cfg.Ephemeris {
	case "midpoint":
		eph = ephemeris.Midpoint{}
	default:
		eph = ephemeris.NewAstral()
	}

	// Position source: geocoded when a city is configured, fixed otherwise.
	source, err := buildSource(cfg)
	if err != nil {
		log.Fatalf("failed to build position source: %v", err)
	}

	// The live timezone, updated once here and then on schedule.
	zone, err := solartime.New(source, eph, cfg.Staleness)
	if err != nil {
		log.Fatalf("failed to initialize solar timezone: %v", err)
	}

	if zone.Mode() != solartime.ModeLocked {
		if method, ok := prayerMethod(cfg.PrayerMethod); ok {
			if err := zone.EventAdd("prayer", prayer.Times(method)); err != nil {
				log.Printf("prayer provider not registered: %v", err)
			} else if err := zone.Update(nil); err != nil {
				log.Printf("refresh after provider registration failed: %v", err)
			}
		}
		if err := zone.SetUpdateMode(cfg.UpdateMode); err != nil && err != solartime.ErrRedundantCall {
			log.Printf("update mode %s not applied: %v", cfg.UpdateMode, err)
		}
	}

	// In-memory snapshot history with configured retention.
	snapshots := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)
	snapshots.Save(zone.Snapshot())

	// Scheduler that periodically refreshes the timezone.
	sched := scheduler.New(zone, snapshots)
	if zone.Mode() != solartime.ModeLocked {
		if err := sched.Start(); err != nil {
			log.Fatalf("failed to start scheduler: %v", err)
		}
		defer sched.Stop()
	}

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "solartz",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "solartz",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, zone, snapshots)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.DisplayInterval > 0 {
		go printLoop(ctx, zone, cfg.DisplayInterval)
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}

// buildSource picks the position source: geocoded city when configured,
// otherwise the fixed coordinates. A locked zone gets a one-shot static
// source, everything else a stationary live one.
func buildSource(cfg *config.AppConfig) (solartime.PositionSource, error) {
	if cfg.City != "" && cfg.GeocoderAPIKey != "" {
		geocoder.ApiKey = cfg.GeocoderAPIKey
		return position.Geocoded(cfg.City, cfg.Country, cfg.Altitude)
	}
	if cfg.UpdateMode == solartime.ModeLocked {
		return position.Fixed(cfg.Region, cfg.Name, cfg.Latitude, cfg.Longitude, cfg.Altitude)
	}
	return position.Stationary(cfg.Region, cfg.Name, cfg.Latitude, cfg.Longitude, cfg.Altitude)
}

func prayerMethod(name string) (prayer.Method, bool) {
	switch name {
	case "mwl":
		return prayer.MWL, true
	case "isna":
		return prayer.ISNA, true
	case "egyptian":
		return prayer.Egyptian, true
	default:
		return prayer.Method{}, false
	}
}

// printLoop writes the event table to stdout at the configured cadence
// until ctx is canceled.
func printLoop(ctx context.Context, zone *solartime.LST, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fmt.Printf("You are here: %s\n", zone.Name())
			for _, line := range zone.Display() {
				fmt.Println(line)
			}
		}
	}
}
