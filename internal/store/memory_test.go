package store

import (
	"errors"
	"sync"
	"testing"

	"weather-tracker/internal/weather"
)

func fptr(v float64) *float64 { return &v }

func TestRegisterUserDistinctIDs(t *testing.T) {
	s := NewMemoryStore()

	id1 := s.RegisterUser("alice")
	id2 := s.RegisterUser("alice")

	if id1 == id2 {
		t.Fatalf("expected distinct user ids, got %q twice", id1)
	}

	for _, id := range []string{id1, id2} {
		name, err := s.Username(id)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if name != "alice" {
			t.Fatalf("expected username alice, got %q", name)
		}
	}
}

func TestAddCityUnknownUser(t *testing.T) {
	s := NewMemoryStore()

	err := s.AddCity("no-such-user", weather.Subscription{Name: "Paris"})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAddCityDuplicate(t *testing.T) {
	s := NewMemoryStore()
	id := s.RegisterUser("alice")

	sub := weather.Subscription{Name: "Paris", Latitude: 48.85, Longitude: 2.35}
	if err := s.AddCity(id, sub); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Give the existing slot a reading so we can prove the duplicate
	// attempt does not clobber it.
	s.SetReading(id, "Paris", weather.Reading{Temperature: fptr(15.2)})

	err := s.AddCity(id, weather.Subscription{Name: "Paris", Latitude: 0, Longitude: 0})
	if !errors.Is(err, ErrDuplicateCity) {
		t.Fatalf("expected ErrDuplicateCity, got %v", err)
	}

	r, err := s.Reading(id, "Paris")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Temperature == nil || *r.Temperature != 15.2 {
		t.Fatalf("existing reading was overwritten: %+v", r)
	}
}

func TestReadingBeforeFirstPoll(t *testing.T) {
	s := NewMemoryStore()
	id := s.RegisterUser("alice")

	if err := s.AddCity(id, weather.Subscription{Name: "Paris"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r, err := s.Reading(id, "Paris")
	if err != nil {
		t.Fatalf("expected empty reading, got error: %v", err)
	}
	if r.Temperature != nil || r.WindSpeed != nil || r.Pressure != nil {
		t.Fatalf("expected all-nil reading, got %+v", r)
	}
}

func TestReadingNotFound(t *testing.T) {
	s := NewMemoryStore()
	id := s.RegisterUser("alice")

	if _, err := s.Reading("no-such-user", "Paris"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := s.Reading(id, "Paris"); !errors.Is(err, ErrCityNotFound) {
		t.Fatalf("expected ErrCityNotFound, got %v", err)
	}
}

func TestListCitiesInsertionOrder(t *testing.T) {
	s := NewMemoryStore()
	id := s.RegisterUser("alice")

	cities := []string{"Paris", "Berlin", "Amsterdam", "Oslo"}
	for _, name := range cities {
		if err := s.AddCity(id, weather.Subscription{Name: name}); err != nil {
			t.Fatalf("unexpected error adding %s: %v", name, err)
		}
	}

	got, err := s.ListCities(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != len(cities) {
		t.Fatalf("expected %d cities, got %d", len(cities), len(got))
	}
	for i, name := range cities {
		if got[i] != name {
			t.Fatalf("expected %s at position %d, got %s", name, i, got[i])
		}
	}
}

func TestSetReadingTotalReplacement(t *testing.T) {
	s := NewMemoryStore()
	id := s.RegisterUser("alice")

	if err := s.AddCity(id, weather.Subscription{Name: "Paris"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.SetReading(id, "Paris", weather.Reading{
		Temperature: fptr(15.2),
		WindSpeed:   fptr(10.1),
		Pressure:    fptr(1013.0),
	})

	// A later reading without pressure must clear it, not merge.
	s.SetReading(id, "Paris", weather.Reading{
		Temperature: fptr(16.0),
		WindSpeed:   fptr(8.3),
	})

	r, err := s.Reading(id, "Paris")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Temperature == nil || *r.Temperature != 16.0 {
		t.Fatalf("unexpected temperature: %+v", r)
	}
	if r.Pressure != nil {
		t.Fatalf("expected pressure cleared on replacement, got %v", *r.Pressure)
	}
}

func TestSetReadingUnknownPairDropped(t *testing.T) {
	s := NewMemoryStore()
	id := s.RegisterUser("alice")

	s.SetReading(id, "Paris", weather.Reading{Temperature: fptr(1)})

	if _, err := s.Reading(id, "Paris"); !errors.Is(err, ErrCityNotFound) {
		t.Fatalf("expected ErrCityNotFound, got %v", err)
	}
}

func TestConcurrentAddCitySameName(t *testing.T) {
	s := NewMemoryStore()
	id := s.RegisterUser("alice")

	const attempts = 32

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		successes  int
		duplicates int
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := s.AddCity(id, weather.Subscription{Name: "Paris"})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrDuplicateCity):
				duplicates++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Fatalf("expected exactly one successful add, got %d", successes)
	}
	if duplicates != attempts-1 {
		t.Fatalf("expected %d duplicate errors, got %d", attempts-1, duplicates)
	}

	names, err := s.ListCities(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != 1 {
		t.Fatalf("expected one city slot, got %v", names)
	}
}
