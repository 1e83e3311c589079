package poller

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"weather-tracker/internal/weather"
)

// ReadingWriter is the slice of the store a poller needs: total replacement
// of one (user, city) cache entry.
type ReadingWriter interface {
	SetReading(userID, city string, r weather.Reading)
}

// Manager owns the background polling jobs, one per tracked (user, city)
// subscription. Jobs run for the life of the process; the per-subscription
// tag is the cancel handle should city removal ever be exposed.
type Manager struct {
	scheduler *gocron.Scheduler
	client    weather.Client
	readings  ReadingWriter
	interval  time.Duration
	timeout   time.Duration
}

// New creates a Manager polling at the given interval, bounding each
// upstream call with timeout.
func New(client weather.Client, readings ReadingWriter, interval, timeout time.Duration) *Manager {
	return &Manager{
		scheduler: gocron.NewScheduler(time.UTC),
		client:    client,
		readings:  readings,
		interval:  interval,
		timeout:   timeout,
	}
}

// Start starts the underlying scheduler. Jobs may be added before or after.
func (m *Manager) Start() {
	m.scheduler.StartAsync()
}

// Track schedules a polling job for the subscription: first run immediately,
// then every interval. The job never terminates on its own; a failed fetch
// is logged and skipped, and the next tick proceeds as scheduled.
func (m *Manager) Track(userID string, sub weather.Subscription) error {
	tag := jobTag(userID, sub.Name)

	_, err := m.scheduler.Every(m.interval).Tag(tag).StartImmediately().Do(func() {
		m.poll(userID, sub)
	})
	return err
}

// Untrack removes the polling job for the (user, city) pair. Not reachable
// from the HTTP API, which has no remove-city endpoint.
func (m *Manager) Untrack(userID, city string) error {
	return m.scheduler.RemoveByTag(jobTag(userID, city))
}

// Stop stops the scheduler and with it every polling job.
func (m *Manager) Stop() {
	m.scheduler.Stop()
}

func (m *Manager) poll(userID string, sub weather.Subscription) {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	reading, err := m.client.Fetch(ctx, sub.Latitude, sub.Longitude)
	if err != nil {
		// The cached reading simply goes stale; callers see no error.
		log.Printf("poller: fetch failed for %s/%s: %v", userID, sub.Name, err)
		return
	}

	m.readings.SetReading(userID, sub.Name, reading)
}

func jobTag(userID, city string) string {
	return userID + ":" + city
}
