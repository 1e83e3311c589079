package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"weather-tracker/internal/weather"
)

// DefaultBaseURL is the public Open-Meteo endpoint.
const DefaultBaseURL = "https://api.open-meteo.com"

// OpenMeteoClient implements weather.Client against the Open-Meteo
// current-weather API. It performs exactly one request per Fetch; a circuit
// breaker fails fast during a sustained outage, but there is no retrying
// here. The caller's next poll is the retry.
type OpenMeteoClient struct {
	baseURL    string
	httpClient *http.Client
	circuit    *gobreaker.CircuitBreaker
}

// NewOpenMeteoClient creates a client using the given HTTP client (which
// should carry a request timeout) and base URL. An empty baseURL selects
// the public endpoint.
func NewOpenMeteoClient(client *http.Client, baseURL string) *OpenMeteoClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openmeteo",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &OpenMeteoClient{
		baseURL:    baseURL,
		httpClient: client,
		circuit:    cb,
	}
}

// Fetch retrieves the current weather for the given coordinates. Missing
// payload fields stay nil in the returned reading. Failures of any kind
// come back as *weather.ProviderError.
func (c *OpenMeteoClient) Fetch(ctx context.Context, latitude, longitude float64) (weather.Reading, error) {
	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", latitude))
	values.Set("longitude", fmt.Sprintf("%f", longitude))
	values.Set("current_weather", "true")

	u := fmt.Sprintf("%s/v1/forecast?%s", c.baseURL, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return weather.Reading{}, &weather.ProviderError{Err: err}
	}

	result, err := c.circuit.Execute(func() (interface{}, error) {
		resp, execErr := c.httpClient.Do(req)
		if execErr != nil {
			return nil, &weather.ProviderError{Err: execErr}
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, &weather.ProviderError{Status: resp.StatusCode}
		}
		return resp, nil
	})
	if err != nil {
		var perr *weather.ProviderError
		if !errors.As(err, &perr) {
			// Circuit open or half-open rejection.
			err = &weather.ProviderError{Err: err}
		}
		return weather.Reading{}, err
	}

	resp := result.(*http.Response)
	defer resp.Body.Close()

	var payload struct {
		CurrentWeather struct {
			Temperature *float64 `json:"temperature"`
			WindSpeed   *float64 `json:"windspeed"`
			Pressure    *float64 `json:"pressure"`
		} `json:"current_weather"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Reading{}, &weather.ProviderError{Err: err}
	}

	return weather.Reading{
		Temperature: payload.CurrentWeather.Temperature,
		WindSpeed:   payload.CurrentWeather.WindSpeed,
		Pressure:    payload.CurrentWeather.Pressure,
	}, nil
}
