package httpapi

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"weather-tracker/internal/store"
	"weather-tracker/internal/weather"
)

var validate = validator.New()

// CityTracker spawns the background poller for a newly added subscription.
type CityTracker interface {
	Track(userID string, sub weather.Subscription) error
}

// registerRequest is the body of POST /register/.
type registerRequest struct {
	Username string `json:"username" validate:"required"`
}

// addCityRequest is the body of POST /add_city/{userId}/. Coordinates are
// accepted as-is, without range checks.
type addCityRequest struct {
	Name      string  `json:"name" validate:"required"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// weatherAtTimeRequest is the body of POST /weather_at_time/{userId}/.
// Time is required but selects nothing: the endpoint filters the current
// cached reading, never an alternate point in time.
type weatherAtTimeRequest struct {
	City       string   `json:"city" validate:"required"`
	Time       string   `json:"time" validate:"required"`
	Parameters []string `json:"parameters"`
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, st *store.MemoryStore, pollers CityTracker) {
	app.Post("/register/", func(c *fiber.Ctx) error {
		var req registerRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		userID := st.RegisterUser(req.Username)
		return c.JSON(userID)
	})

	app.Post("/add_city/:userId/", func(c *fiber.Ctx) error {
		var req addCityRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		sub := weather.Subscription{
			Name:      req.Name,
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
		}

		userID := c.Params("userId")
		if err := st.AddCity(userID, sub); err != nil {
			return mapStoreError(err)
		}

		// The poller outlives this request; it stops only with the process.
		if err := pollers.Track(userID, sub); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to start weather polling")
		}

		return c.JSON(fmt.Sprintf("City %s added to the list.", req.Name))
	})

	app.Get("/current_weather/:userId/:cityName", func(c *fiber.Ctx) error {
		reading, err := st.Reading(c.Params("userId"), c.Params("cityName"))
		if err != nil {
			return mapStoreError(err)
		}
		return c.JSON(reading)
	})

	app.Get("/cities/:userId/", func(c *fiber.Ctx) error {
		names, err := st.ListCities(c.Params("userId"))
		if err != nil {
			return mapStoreError(err)
		}
		return c.JSON(names)
	})

	app.Post("/weather_at_time/:userId/", func(c *fiber.Ctx) error {
		var req weatherAtTimeRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		reading, err := st.Reading(c.Params("userId"), req.City)
		if err != nil {
			return mapStoreError(err)
		}

		// All parameters must be known; an unknown one fails the whole
		// request rather than returning a partial map.
		resp := make(map[string]*float64, len(req.Parameters))
		for _, param := range req.Parameters {
			v, err := reading.Value(param)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("parameter %s is not available", param))
			}
			resp[param] = v
		}

		return c.JSON(resp)
	})
}

// mapStoreError converts registry/cache sentinels into HTTP errors.
func mapStoreError(err error) error {
	switch {
	case errors.Is(err, store.ErrUserNotFound):
		return fiber.NewError(fiber.StatusNotFound, "user not found")
	case errors.Is(err, store.ErrCityNotFound):
		return fiber.NewError(fiber.StatusNotFound, "city not found")
	case errors.Is(err, store.ErrDuplicateCity):
		return fiber.NewError(fiber.StatusBadRequest, "city already added")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
