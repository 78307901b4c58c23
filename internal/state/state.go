// Package state provides thread-safe state management for the application.
package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/litescript/ls-stellar/internal/population"
	"github.com/litescript/ls-stellar/internal/stars"
)

// EventType represents the type of state change event.
type EventType string

const (
	EventDeath   EventType = "DEATH"
	EventAppear  EventType = "APPEAR"
	EventFadeOut EventType = "FADE_OUT"
)

// Event is something that happened to a star while simulation time moved.
type Event struct {
	Type            EventType `json:"type"`
	YearsSinceEpoch float64   `json:"years_since_epoch"`
	Star            string    `json:"star"`
	Fate            string    `json:"fate,omitempty"`
}

// Manager handles all shared application state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	population    []stars.Star
	appearances   []stars.Appearance
	maxDistanceLy float64
	generatedAt   time.Time
	years         float64

	progress  population.Progress
	loading   bool
	lastError error

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int
}

// Config holds configuration for the state manager.
type Config struct {
	MaxEvents int
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{MaxEvents: 50}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	return &Manager{
		maxEvents: maxEvents,
		events:    make([]Event, 0, maxEvents),
		loading:   true,
	}
}

// SetProgress records generation progress.
func (m *Manager) SetProgress(p population.Progress) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.progress = p
}

// SetError records a failed generation and ends loading.
func (m *Manager) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastError = err
	m.loading = false
}

// SetPopulation installs a freshly generated population at the epoch.
// Simulation time and the event log are reset.
func (m *Manager) SetPopulation(pop []stars.Star, maxDistanceLy float64, generatedAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.population = pop
	m.maxDistanceLy = maxDistanceLy
	m.generatedAt = generatedAt
	m.years = 0
	m.loading = false
	m.lastError = nil
	m.events = m.events[:0]
	m.eventWriteAt = 0

	m.appearances = make([]stars.Appearance, len(pop))
	for i, s := range pop {
		m.appearances[i] = s.Appearance(0)
	}
}

// SetYears moves simulation time to years after the epoch. Only stars whose
// evolution reports a change, or whose death lies between the old and new
// time in either direction, are recomputed.
// It returns how many were.
func (m *Manager) SetYears(years float64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setYears(years)
}

// Advance moves simulation time by delta years.
func (m *Manager) Advance(delta float64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setYears(m.years + delta)
}

func (m *Manager) setYears(years float64) int {
	then := m.years
	m.years = years

	updated := 0
	for i, s := range m.population {
		crossed := crossedDeath(s, then, years)
		if !crossed && !s.Evolution.HasChanged(then, years) {
			continue
		}
		prev := m.appearances[i]
		next := s.Appearance(years)
		m.appearances[i] = next
		updated++

		name := starLabel(i, s)
		if crossed && years > then {
			m.addEvent(Event{
				Type:            EventDeath,
				YearsSinceEpoch: years,
				Star:            name,
				Fate:            s.Evolution.Fate().String(),
			})
		}
		switch {
		case !prev.Visible() && next.Visible():
			m.addEvent(Event{Type: EventAppear, YearsSinceEpoch: years, Star: name})
		case prev.Visible() && !next.Visible():
			m.addEvent(Event{Type: EventFadeOut, YearsSinceEpoch: years, Star: name})
		}
	}
	return updated
}

// crossedDeath reports whether the star is alive at one of then and now
// and dead at the other.
func crossedDeath(s stars.Star, then, now float64) bool {
	ttdThen, ok := s.Evolution.TimeUntilDeath(then)
	if !ok {
		return false
	}
	ttdNow, _ := s.Evolution.TimeUntilDeath(now)
	return (ttdThen >= 0) != (ttdNow >= 0)
}

func starLabel(i int, s stars.Star) string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("#%d", i+1)
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Stars           []stars.Star
	Appearances     []stars.Appearance
	MaxDistanceLy   float64
	GeneratedAt     time.Time
	YearsSinceEpoch float64
	Progress        population.Progress
	Loading         bool
	LastError       error
	Events          []Event
}

// VisibleCount returns how many stars can currently be seen.
func (s Snapshot) VisibleCount() int {
	n := 0
	for _, a := range s.Appearances {
		if a.Visible() {
			n++
		}
	}
	return n
}

// Snapshot returns a consistent snapshot of current state. Stars are shared
// and must not be modified.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	apps := make([]stars.Appearance, len(m.appearances))
	copy(apps, m.appearances)

	return Snapshot{
		Stars:           m.population,
		Appearances:     apps,
		MaxDistanceLy:   m.maxDistanceLy,
		GeneratedAt:     m.generatedAt,
		YearsSinceEpoch: m.years,
		Progress:        m.progress,
		Loading:         m.loading,
		LastError:       m.lastError,
		Events:          m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// HasData returns true once a population has been installed.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.population != nil
}

// Years returns the current simulation time.
func (m *Manager) Years() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.years
}
