package weather

import (
	"context"
	"fmt"
)

// Client abstracts the upstream weather provider. Implementations perform a
// single network call per Fetch and keep no state between calls; retrying is
// the caller's concern.
type Client interface {
	Fetch(ctx context.Context, latitude, longitude float64) (Reading, error)
}

// ProviderError reports a failed upstream fetch: either a transport error
// (Err set) or an unexpected HTTP status (Status set).
type ProviderError struct {
	Status int
	Err    error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("weather provider request failed: %v", e.Err)
	}
	return fmt.Sprintf("weather provider returned status %d", e.Status)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
