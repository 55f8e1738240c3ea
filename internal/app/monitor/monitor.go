// Package monitor orchestrates the engine: it owns the session tracker,
// runs detection over live snapshots, presents interventions with a
// selected message, and folds closed sessions into the daily aggregates
// and achievement checks.
package monitor

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/spiral-app/spiral/internal/app/achieve"
	"github.com/spiral-app/spiral/internal/app/detect"
	"github.com/spiral-app/spiral/internal/app/intervene"
	"github.com/spiral-app/spiral/internal/app/roast"
	"github.com/spiral-app/spiral/internal/app/score"
	"github.com/spiral-app/spiral/internal/app/tracker"
	"github.com/spiral-app/spiral/internal/domain"
	"github.com/spiral-app/spiral/internal/infra/metrics"
	"github.com/spiral-app/spiral/internal/infra/sqlite"
)

// timeSavedPerBreak is the flat estimate credited per successful break.
const timeSavedPerBreak = 15 * time.Minute

// Config holds the monitor's tunables.
type Config struct {
	Thresholds       detect.Thresholds
	Intervention     intervene.Config
	Mode             domain.InterventionMode
	Style            domain.MessageStyle
	LockdownCooldown time.Duration // no new intervention this long after a lockdown resolves
	CheckInterval    time.Duration // background detection cadence
	MonitoredApps    []string      // empty = every app is doom-eligible
}

// DefaultConfig returns the stock monitor settings.
func DefaultConfig() Config {
	return Config{
		Thresholds:       detect.DefaultThresholds(),
		Intervention:     intervene.DefaultConfig(),
		Mode:             domain.ModeAccountability,
		Style:            domain.StyleMixed,
		LockdownCooldown: 15 * time.Minute,
		CheckInterval:    30 * time.Second,
	}
}

// Monitor is the engine facade the API and daemon drive. All state
// transitions are serialized behind a single mutex; the contained
// occurrence carries its own lock so a background ticker never races a
// dismissal.
type Monitor struct {
	mu sync.Mutex

	db           *sqlite.DB
	tracker      *tracker.Tracker
	selector     *roast.Selector
	achievements *achieve.Service
	cfg          Config
	rng          *rand.Rand
	now          func() time.Time

	current     *intervene.Occurrence
	interrupted bool // current session had an intervention
	lastMessage string
	lastMode    domain.InterventionMode

	counterDay         time.Time
	interventionsToday int
	dismissalsToday    int
	escalated          bool
	lockdownResolvedAt time.Time
}

// New creates a monitor over the store with a wall clock and a
// time-seeded generator.
func New(db *sqlite.DB, cfg Config) *Monitor {
	return NewWithClock(db, cfg, rand.New(rand.NewSource(time.Now().UnixNano())), time.Now)
}

// NewWithClock creates a monitor with an injected generator and clock.
func NewWithClock(db *sqlite.DB, cfg Config, rng *rand.Rand, now func() time.Time) *Monitor {
	return &Monitor{
		db:           db,
		tracker:      tracker.NewWithClock(now),
		selector:     roast.New(rng),
		achievements: achieve.NewService(db),
		cfg:          cfg,
		rng:          rng,
		now:          now,
		counterDay:   domain.Day(now()),
	}
}

// ─── Telemetry ──────────────────────────────────────────────────────────────

// StartSession opens a usage session for the given app.
func (m *Monitor) StartSession(appID string) error {
	if err := m.tracker.Start(appID); err != nil {
		return err
	}

	m.mu.Lock()
	m.interrupted = false
	m.lastMessage = ""
	m.lastMode = ""
	m.mu.Unlock()

	metrics.SessionsStarted.WithLabelValues(appID).Inc()
	metrics.SessionActive.Set(1)
	return nil
}

// RecordScroll forwards one scroll event to the tracker.
func (m *Monitor) RecordScroll(velocity float64) error {
	return m.tracker.RecordScroll(velocity)
}

// RecordInteraction forwards one active interaction to the tracker.
func (m *Monitor) RecordInteraction() {
	m.tracker.RecordInteraction()
}

// RecordAppSwitch forwards one app switch to the tracker.
func (m *Monitor) RecordAppSwitch() {
	m.tracker.RecordAppSwitch()
}

// Active reports whether a session is currently open.
func (m *Monitor) Active() bool { return m.tracker.Active() }

// Snapshot returns the live in-progress session.
func (m *Monitor) Snapshot() (domain.Session, error) {
	return m.tracker.Snapshot()
}

// ─── Detection and intervention ─────────────────────────────────────────────

// Check classifies the live snapshot and, on a positive verdict, presents
// an intervention. Returns the active occurrence, nil when nothing is
// presented. No-op while a session is closed, an occurrence is already
// live, or the lockdown cooldown has not elapsed.
func (m *Monitor) Check() (*intervene.Occurrence, error) {
	snap, err := m.tracker.Snapshot()
	if err != nil {
		if err == domain.ErrNoActiveSession {
			return nil, nil
		}
		return nil, err
	}
	metrics.LiveSeverity.Set(float64(detect.SeverityScore(snap)))

	m.mu.Lock()
	defer m.mu.Unlock()
	m.rollDay()

	if m.current != nil && m.current.State() != intervene.StateResolved {
		return m.current, nil
	}
	if !m.monitored(snap.AppID) {
		return nil, nil
	}
	if !detect.IsDoomScrolling(snap, m.cfg.Thresholds) {
		return nil, nil
	}
	now := m.now()
	if !m.lockdownResolvedAt.IsZero() && now.Sub(m.lockdownResolvedAt) < m.cfg.LockdownCooldown {
		return nil, nil
	}

	mode := m.cfg.Mode
	if m.escalated {
		mode = domain.ModeLockdown
	}

	m.interventionsToday++
	occ, err := intervene.New(mode, snap.Duration, m.interventionsToday, m.dismissalsToday, m.cfg.Intervention, m.rng)
	if err != nil {
		m.interventionsToday--
		return nil, fmt.Errorf("present intervention: %w", err)
	}

	streak := 0
	if stat, err := m.todayStat(); err == nil {
		streak = stat.CurrentStreak
	}
	occ.SetMessage(m.selector.Select(roast.Context{
		InterventionsToday: m.interventionsToday,
		Hour:               now.Hour(),
		ScrollDuration:     snap.Duration,
		DoomScore:          detect.SeverityScore(snap),
		CurrentStreak:      streak,
	}, m.cfg.Style))

	m.current = occ
	m.interrupted = true
	m.lastMessage = occ.Message()
	m.lastMode = mode

	metrics.DoomDetections.Inc()
	metrics.InterventionsShown.WithLabelValues(string(mode)).Inc()
	return occ, nil
}

// Config returns the monitor's configuration.
func (m *Monitor) Config() Config { return m.cfg }

// InterventionsToday returns the number of interventions presented today.
func (m *Monitor) InterventionsToday() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.interventionsToday
}

// Current returns the live occurrence, nil when none is presented.
func (m *Monitor) Current() *intervene.Occurrence {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Dismiss resolves the live occurrence and keeps scrolling. Exhausting
// the accountability budget routes the next occurrence to lockdown.
func (m *Monitor) Dismiss() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return domain.ErrNotDismissible
	}
	escalate, err := m.current.Dismiss()
	if err != nil {
		return err
	}
	m.dismissalsToday = m.current.DismissalsToday()
	metrics.InterventionsDismissed.WithLabelValues(string(m.current.Mode())).Inc()

	if escalate {
		m.escalated = true
		metrics.Escalations.Inc()
	}
	if m.current.Mode() == domain.ModeLockdown {
		m.lockdownResolvedAt = m.now()
	}
	return nil
}

// AnswerChallenge forwards a lockdown answer attempt to the live
// occurrence. False when no occurrence is live.
func (m *Monitor) AnswerChallenge(text string) bool {
	m.mu.Lock()
	occ := m.current
	m.mu.Unlock()

	if occ == nil {
		return false
	}
	return occ.CheckAnswer(text)
}

// StartWait opts the live lockdown occurrence into the alternate wait.
func (m *Monitor) StartWait() {
	m.mu.Lock()
	occ := m.current
	m.mu.Unlock()

	if occ != nil {
		occ.StartAlternateWait()
	}
}

// ─── Session close ──────────────────────────────────────────────────────────

// EndSession closes the open session with the user's response, persists
// it, refreshes the day's aggregates, and runs the achievement rules.
// Returns the closed session and any newly unlocked achievements.
func (m *Monitor) EndSession(response domain.ResponseType, note string) (domain.Session, []domain.AchievementDef, error) {
	s, err := m.tracker.End()
	if err != nil {
		return domain.Session{}, nil, err
	}
	metrics.SessionsClosed.Inc()
	metrics.SessionActive.Set(0)

	m.mu.Lock()
	s.WasInterrupted = m.interrupted
	s.WasIgnored = m.interrupted && response == domain.ResponseDismissed
	s.MessageShown = m.lastMessage
	s.InterventionMode = m.lastMode
	s.UserResponse = response
	s.UserNote = note

	m.current = nil
	m.interrupted = false
	m.lastMessage = ""
	m.lastMode = ""
	m.mu.Unlock()

	if s.WasInterrupted && !s.WasIgnored {
		metrics.SuccessfulBreaks.Inc()
	}

	if err := m.db.InsertSession(s); err != nil {
		return s, nil, fmt.Errorf("persist session: %w", err)
	}
	stat, err := m.RefreshDay(s.StartTime)
	if err != nil {
		return s, nil, err
	}

	all, err := m.db.ListAllSessions()
	if err != nil {
		return s, nil, fmt.Errorf("load session history: %w", err)
	}
	newly, err := m.achievements.CheckAndUnlock(stat, all)
	if err != nil {
		return s, nil, fmt.Errorf("check achievements: %w", err)
	}
	for _, def := range newly {
		kind := "sarcastic"
		if def.Positive {
			kind = "positive"
		}
		metrics.AchievementsUnlocked.WithLabelValues(kind).Inc()
	}
	return s, newly, nil
}

// RefreshDay recomputes and persists the aggregate for the given day
// from its stored sessions. Idempotent: derived entirely from session
// history plus the day's externally supplied percentile rank.
func (m *Monitor) RefreshDay(day time.Time) (domain.DailyStat, error) {
	sessions, err := m.db.ListSessionsByDay(day)
	if err != nil {
		return domain.DailyStat{}, fmt.Errorf("load day sessions: %w", err)
	}

	stat := domain.DailyStat{
		Date:           domain.Day(day),
		DoomScore:      score.Daily(sessions),
		DoomScrollTime: score.DoomScrollTime(sessions),
		PercentileRank: 50,
		AppUsage:       make(map[string]time.Duration),
	}
	if prev, ok, err := m.db.GetDailyStat(day); err == nil && ok {
		stat.PercentileRank = prev.PercentileRank
	}

	for _, s := range sessions {
		stat.TotalScreenTime += s.Duration
		stat.AppUsage[s.AppID] += s.Duration
		if s.WasInterrupted {
			stat.Interventions++
		}
		switch {
		case s.WasIgnored:
			stat.Ignored++
		case s.WasInterrupted:
			stat.SuccessfulBreaks++
			stat.TimeSaved += timeSavedPerBreak
		}
	}

	// Streak needs today's score in place before the backward walk.
	history, err := m.db.ListAllStats()
	if err != nil {
		return domain.DailyStat{}, fmt.Errorf("load stat history: %w", err)
	}
	merged := history[:0:0]
	for _, h := range history {
		if !domain.Day(h.Date).Equal(stat.Date) {
			merged = append(merged, h)
		}
	}
	merged = append(merged, stat)
	stat.CurrentStreak, stat.LongestStreak = score.Streak(merged, day)

	if err := m.db.UpsertDailyStat(stat); err != nil {
		return domain.DailyStat{}, fmt.Errorf("persist daily stat: %w", err)
	}
	metrics.DailyScore.Set(float64(stat.DoomScore))
	return stat, nil
}

// TodayStats returns the current day's aggregate, a zero-value stat with
// streak carried forward when the day is untouched.
func (m *Monitor) TodayStats() (domain.DailyStat, error) {
	return m.todayStat()
}

// todayStat loads the current day's row, or synthesizes one with the
// streak carried forward from history when the day has no row yet. Does
// not touch m.mu; safe under Check's lock.
func (m *Monitor) todayStat() (domain.DailyStat, error) {
	now := m.now()
	stat, ok, err := m.db.GetDailyStat(now)
	if err != nil {
		return domain.DailyStat{}, err
	}
	if ok {
		return stat, nil
	}

	history, err := m.db.ListAllStats()
	if err != nil {
		return domain.DailyStat{}, err
	}
	stat = domain.DailyStat{Date: domain.Day(now), PercentileRank: 50}
	stat.CurrentStreak, stat.LongestStreak = score.Streak(append(history, stat), now)
	return stat, nil
}

// ─── Background loop ────────────────────────────────────────────────────────

// Run drives the monitor until ctx is cancelled: one occurrence tick per
// second, one detection pass per CheckInterval.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	interval := int(m.cfg.CheckInterval / time.Second)
	if interval < 1 {
		interval = 1
	}

	elapsed := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if occ := m.Current(); occ != nil {
				occ.Tick()
			}
			elapsed++
			if elapsed >= interval {
				elapsed = 0
				if _, err := m.Check(); err != nil {
					log.Printf("monitor: detection pass failed: %v", err)
				}
			}
		}
	}
}

// monitored reports whether the app is subject to interventions.
func (m *Monitor) monitored(appID string) bool {
	if len(m.cfg.MonitoredApps) == 0 {
		return true
	}
	for _, app := range m.cfg.MonitoredApps {
		if app == appID {
			return true
		}
	}
	return false
}

// rollDay resets the daily counters on calendar rollover.
// Caller holds m.mu.
func (m *Monitor) rollDay() {
	today := domain.Day(m.now())
	if today.Equal(m.counterDay) {
		return
	}
	m.counterDay = today
	m.interventionsToday = 0
	m.dismissalsToday = 0
	m.escalated = false
}
