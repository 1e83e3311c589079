package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "weather-tracker/internal/api/http"
	"weather-tracker/internal/config"
	"weather-tracker/internal/geo"
	"weather-tracker/internal/poller"
	"weather-tracker/internal/store"
	"weather-tracker/internal/weather"
	"weather-tracker/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// In-memory registry and reading cache, owned here and passed by
	// handle to handlers and pollers.
	memStore := store.NewMemoryStore()

	// Upstream client with circuit breaker.
	client := providers.NewOpenMeteoClient(httpClient, cfg.OpenMeteoBaseURL)

	// Poll manager: one background job per tracked city.
	pollers := poller.New(client, memStore, cfg.PollInterval, cfg.HTTPTimeout)
	pollers.Start()
	defer pollers.Stop()

	seedLocations(cfg, memStore, pollers)

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weather-tracker",
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
			"service": "weather-tracker",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, memStore, pollers)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}

// seedLocations optionally registers a configured user and its tracked
// cities at startup, resolving coordinates with the geocoder. A seed city
// that fails to resolve is logged and skipped.
func seedLocations(cfg *config.AppConfig, memStore *store.MemoryStore, pollers *poller.Manager) {
	if cfg.SeedUsername == "" || len(cfg.SeedLocations) == 0 {
		return
	}
	if cfg.GeocoderAPIKey == "" {
		log.Println("seed locations configured but GEOCODER_API_KEY is empty; skipping")
		return
	}

	resolver := geo.NewResolver(cfg.GeocoderAPIKey)
	userID := memStore.RegisterUser(cfg.SeedUsername)
	log.Printf("seeded user %s (%s)", cfg.SeedUsername, userID)

	for _, loc := range cfg.SeedLocations {
		lat, lon, err := resolver.Resolve(loc)
		if err != nil {
			log.Printf("seed: %v", err)
			continue
		}

		sub := weather.Subscription{Name: loc.City, Latitude: lat, Longitude: lon}
		if err := memStore.AddCity(userID, sub); err != nil {
			log.Printf("seed: add %s: %v", loc.City, err)
			continue
		}
		if err := pollers.Track(userID, sub); err != nil {
			log.Printf("seed: track %s: %v", loc.City, err)
		}
	}
}
