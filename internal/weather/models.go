package weather

import (
	"errors"
	"fmt"
)

// Known reading parameter names, as exposed by the HTTP API.
const (
	ParamTemperature = "temperature"
	ParamWindSpeed   = "windspeed"
	ParamPressure    = "pressure"
)

// ErrUnknownParameter is returned when a requested parameter name is not
// part of the fixed reading field set.
var ErrUnknownParameter = errors.New("unknown weather parameter")

// Subscription ties a user to a tracked city with fixed coordinates.
// Coordinates are passed through to the provider unvalidated.
type Subscription struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Reading is the cached snapshot for one city at the last successful poll.
// Fields are pointers so a value the provider omitted serializes as JSON
// null rather than a misleading zero; the zero Reading is the "no poll has
// completed yet" state.
type Reading struct {
	Temperature *float64 `json:"temperature"`
	WindSpeed   *float64 `json:"windspeed"`
	Pressure    *float64 `json:"pressure"`
}

// Value returns the named field of the reading. The parameter set is closed,
// so this is an explicit switch rather than any kind of reflective lookup.
func (r Reading) Value(param string) (*float64, error) {
	switch param {
	case ParamTemperature:
		return r.Temperature, nil
	case ParamWindSpeed:
		return r.WindSpeed, nil
	case ParamPressure:
		return r.Pressure, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownParameter, param)
	}
}
