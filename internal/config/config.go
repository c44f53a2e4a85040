package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/solartz/solartz/internal/solartime"
)

var validate = validator.New()

type AppConfig struct {
	// Location label and fixed coordinates. When City/Country are set and
	// GeocoderAPIKey is present, coordinates are resolved by geocoding
	// instead.
	Region    string
	Name      string
	Latitude  float64 `validate:"gte=-90,lte=90"`
	Longitude float64 `validate:"gte=-180,lte=180"`
	Altitude  float64

	City           string
	Country        string
	GeocoderAPIKey string

	// UpdateMode controls the refresh cadence of the live timezone.
	UpdateMode solartime.UpdateMode

	// Staleness is how long past events remain in the aggregated view.
	Staleness time.Duration

	// Ephemeris selects the solar event provider: "astral" or "midpoint".
	Ephemeris string `validate:"oneof=astral midpoint"`

	// PrayerMethod enables the prayer-time event provider when non-empty:
	// "mwl", "isna" or "egyptian".
	PrayerMethod string `validate:"omitempty,oneof=mwl isna egyptian"`

	// DisplayInterval, when positive, makes the binary print the event
	// table at that cadence.
	DisplayInterval time.Duration

	// In-memory store retention.
	StoreMaxHistory int           // max number of snapshots per location (0 = unlimited)
	StoreMaxAge     time.Duration // max age of snapshots (0 = unlimited)

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Region = getenvDefault("LST_REGION", "Greenwich")
	cfg.Name = getenvDefault("LST_NAME", "Royal Observatory")
	cfg.Latitude = getenvFloat("LST_LATITUDE", 51.4769)
	cfg.Longitude = getenvFloat("LST_LONGITUDE", 0.0)
	cfg.Altitude = getenvFloat("LST_ALTITUDE", 46)

	cfg.City = os.Getenv("LST_CITY")
	cfg.Country = os.Getenv("LST_COUNTRY")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	mode, err := solartime.ParseUpdateMode(getenvDefault("LST_UPDATE_MODE", "minute"))
	if err != nil {
		return nil, fmt.Errorf("invalid LST_UPDATE_MODE: %w", err)
	}
	cfg.UpdateMode = mode

	stalenessStr := getenvDefault("LST_STALENESS", "3h")
	staleness, err := time.ParseDuration(stalenessStr)
	if err != nil {
		return nil, fmt.Errorf("invalid LST_STALENESS: %w", err)
	}
	cfg.Staleness = staleness

	cfg.Ephemeris = getenvDefault("LST_EPHEMERIS", "astral")
	cfg.PrayerMethod = os.Getenv("LST_PRAYER_METHOD")

	displayStr := getenvDefault("LST_DISPLAY_INTERVAL", "0")
	display, err := time.ParseDuration(displayStr)
	if err != nil {
		return nil, fmt.Errorf("invalid LST_DISPLAY_INTERVAL: %w", err)
	}
	cfg.DisplayInterval = display

	// Store retention.
	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 96)

	maxAgeStr := getenvDefault("STORE_MAX_AGE", "24h")
	maxAge, err := time.ParseDuration(maxAgeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid STORE_MAX_AGE: %w", err)
	}
	cfg.StoreMaxAge = maxAge
	cfg.Port = getenvDefault("PORT", "8080")

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}
