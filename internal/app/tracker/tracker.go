// Package tracker accumulates raw telemetry into usage sessions.
// One session may be open at a time; telemetry recorded with no open
// session is dropped silently (the monitor starts/stops sessions, the
// platform shim just fires events).
package tracker

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spiral-app/spiral/internal/domain"
)

// Tracker owns the in-progress session accumulator.
// All mutation is serialized behind a single mutex.
type Tracker struct {
	mu      sync.Mutex
	current *accumulator
	now     func() time.Time
}

// accumulator is the mutable in-progress session state.
type accumulator struct {
	id           string
	appID        string
	start        time.Time
	duration     time.Duration
	scrollEvents int
	interactions int
	appSwitches  int
	velocitySum  float64
	velocityN    int
}

// New creates a tracker using the wall clock.
func New() *Tracker {
	return &Tracker{now: time.Now}
}

// NewWithClock creates a tracker with an injected clock for tests.
func NewWithClock(now func() time.Time) *Tracker {
	return &Tracker{now: now}
}

// Start opens a new session for the given app.
// Fails with domain.ErrSessionActive if one is already open.
func (t *Tracker) Start(appID string) error {
	if strings.TrimSpace(appID) == "" {
		return domain.ErrInvalidAppID
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current != nil {
		return domain.ErrSessionActive
	}
	t.current = &accumulator{
		id:    uuid.NewString(),
		appID: appID,
		start: t.now(),
	}
	return nil
}

// RecordScroll records one scroll event with its velocity in px/s.
// No-op (not an error) when no session is open.
func (t *Tracker) RecordScroll(velocity float64) error {
	if velocity < 0 {
		return domain.ErrNegativeVelocity
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == nil {
		return nil
	}
	t.current.scrollEvents++
	t.current.velocitySum += velocity
	t.current.velocityN++
	t.current.duration = t.now().Sub(t.current.start)
	return nil
}

// RecordInteraction records one active interaction (like, comment, post).
// No-op when no session is open.
func (t *Tracker) RecordInteraction() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == nil {
		return
	}
	t.current.interactions++
	t.current.duration = t.now().Sub(t.current.start)
}

// RecordAppSwitch records a switch away to another app.
// No-op when no session is open.
func (t *Tracker) RecordAppSwitch() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == nil {
		return
	}
	t.current.appSwitches++
	t.current.duration = t.now().Sub(t.current.start)
}

// Active reports whether a session is currently open.
func (t *Tracker) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current != nil
}

// Snapshot returns a copy of the in-progress session for live
// classification. The returned session has no end time set.
// Fails with domain.ErrNoActiveSession if none is open.
func (t *Tracker) Snapshot() (domain.Session, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == nil {
		return domain.Session{}, domain.ErrNoActiveSession
	}
	t.current.duration = t.now().Sub(t.current.start)
	return t.current.session(), nil
}

// End closes the open session and returns the immutable record.
// Fails with domain.ErrNoActiveSession if none is open.
func (t *Tracker) End() (domain.Session, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == nil {
		return domain.Session{}, domain.ErrNoActiveSession
	}
	end := t.now()
	t.current.duration = end.Sub(t.current.start)

	s := t.current.session()
	s.EndTime = end
	t.current = nil
	return s, nil
}

// session materializes the accumulator into a domain.Session.
func (a *accumulator) session() domain.Session {
	avg := 0.0
	if a.velocityN > 0 {
		avg = a.velocitySum / float64(a.velocityN)
	}
	return domain.Session{
		ID:                    a.id,
		StartTime:             a.start,
		AppID:                 a.appID,
		Duration:              a.duration,
		ScrollEvents:          a.scrollEvents,
		Interactions:          a.interactions,
		AppSwitches:           a.appSwitches,
		AverageScrollVelocity: avg,
	}
}
