package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"weather-tracker/internal/geo"
)

type AppConfig struct {
	Port string

	// PollInterval controls how often each city's poller fetches.
	PollInterval time.Duration

	// HTTPTimeout bounds every outbound provider call.
	HTTPTimeout time.Duration

	// OpenMeteoBaseURL overrides the provider endpoint (tests, proxies).
	OpenMeteoBaseURL string

	// GeocoderAPIKey enables seed-location resolution when set.
	GeocoderAPIKey string

	// SeedUsername and SeedLocations optionally pre-register one user
	// with a set of tracked cities at startup.
	SeedUsername  string
	SeedLocations []geo.Location
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")

	// Poll interval: default 900 seconds.
	intervalStr := getenvDefault("POLL_INTERVAL", "900s")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid POLL_INTERVAL: %w", err)
	}
	cfg.PollInterval = interval

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.OpenMeteoBaseURL = os.Getenv("OPENMETEO_BASE_URL")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")
	cfg.SeedUsername = os.Getenv("SEED_USERNAME")

	locs, err := loadSeedLocations()
	if err != nil {
		return nil, err
	}
	cfg.SeedLocations = locs

	return cfg, nil
}

func loadSeedLocations() ([]geo.Location, error) {
	city := os.Getenv("SEED_CITIES")
	country := os.Getenv("SEED_COUNTRIES")
	if city == "" {
		return nil, nil
	}

	cities := strings.Split(city, ",")
	countries := strings.Split(country, ",")
	if len(cities) != len(countries) {
		return nil, fmt.Errorf("number of seed cities and countries must be the same")
	}

	var locs []geo.Location
	for i := range cities {
		locs = append(locs, geo.Location{
			City:    strings.TrimSpace(cities[i]),
			Country: strings.TrimSpace(countries[i]),
		})
	}
	return locs, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
