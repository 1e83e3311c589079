package store

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"weather-tracker/internal/weather"
)

var (
	// ErrUserNotFound is returned when a user id has never been registered.
	ErrUserNotFound = errors.New("user not found")

	// ErrCityNotFound is returned when the user has no subscription with
	// the given city name.
	ErrCityNotFound = errors.New("city not found")

	// ErrDuplicateCity is returned when the user already tracks a city
	// with the given name.
	ErrDuplicateCity = errors.New("city already added")
)

// userRecord holds one user's registry entry: display name, subscriptions
// keyed by city name, and the latest reading per city. order preserves
// insertion order for stable listing.
type userRecord struct {
	username string
	order    []string
	subs     map[string]weather.Subscription
	readings map[string]weather.Reading
}

// MemoryStore is the concurrency-safe in-memory registry and reading cache.
// A single RWMutex guards all maps, which also serializes concurrent
// check-and-insert for the same user so city names stay unique per user.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]*userRecord
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[string]*userRecord),
	}
}

// RegisterUser creates a new user with an empty city set and returns its
// freshly generated identifier. Usernames are not unique; registering the
// same name twice yields two distinct users.
func (s *MemoryStore) RegisterUser(username string) string {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[id] = &userRecord{
		username: username,
		subs:     make(map[string]weather.Subscription),
		readings: make(map[string]weather.Reading),
	}
	return id
}

// Username returns the display name stored for a user.
func (s *MemoryStore) Username(userID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return "", ErrUserNotFound
	}
	return u.username, nil
}

// AddCity records a subscription for the user and installs the initial
// empty reading for it in the same critical section, so the reading exists
// from the moment the subscription does.
func (s *MemoryStore) AddCity(userID string, sub weather.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	if _, exists := u.subs[sub.Name]; exists {
		return ErrDuplicateCity
	}

	u.subs[sub.Name] = sub
	u.readings[sub.Name] = weather.Reading{}
	u.order = append(u.order, sub.Name)
	return nil
}

// ListCities returns the user's city names in the order they were added.
func (s *MemoryStore) ListCities(userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}

	names := make([]string, len(u.order))
	copy(names, u.order)
	return names, nil
}

// Subscriptions returns a snapshot of the user's subscriptions in insertion
// order.
func (s *MemoryStore) Subscriptions(userID string) ([]weather.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}

	subs := make([]weather.Subscription, 0, len(u.order))
	for _, name := range u.order {
		subs = append(subs, u.subs[name])
	}
	return subs, nil
}

// Reading returns the latest reading for the (user, city) pair. Before the
// first successful poll this is the zero Reading, not an error.
func (s *MemoryStore) Reading(userID, city string) (weather.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return weather.Reading{}, ErrUserNotFound
	}
	r, ok := u.readings[city]
	if !ok {
		return weather.Reading{}, ErrCityNotFound
	}
	return r, nil
}

// SetReading replaces the cached reading for the (user, city) pair in full.
// Writes for pairs that were never registered are dropped; pollers only
// exist for registered subscriptions, so this does not happen in practice.
func (s *MemoryStore) SetReading(userID, city string, r weather.Reading) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return
	}
	if _, ok := u.readings[city]; !ok {
		return
	}
	u.readings[city] = r
}
