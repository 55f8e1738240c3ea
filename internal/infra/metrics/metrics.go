// Package metrics provides Prometheus metrics for Spiral — counters and
// gauges for sessions, detections, interventions, and achievements.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Sessions ───────────────────────────────────────────────────────────────

// SessionsStarted tracks opened usage sessions by app.
var SessionsStarted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "spiral",
	Name:      "sessions_started_total",
	Help:      "Total usage sessions opened.",
}, []string{"app"})

// SessionsClosed tracks closed usage sessions.
var SessionsClosed = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "spiral",
	Name:      "sessions_closed_total",
	Help:      "Total usage sessions closed.",
})

// SessionActive reports whether a session is currently open.
var SessionActive = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "spiral",
	Name:      "session_active",
	Help:      "1 while a usage session is open.",
})

// ─── Detection ──────────────────────────────────────────────────────────────

// DoomDetections tracks positive doom-scroll classifications.
var DoomDetections = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "spiral",
	Name:      "doom_detections_total",
	Help:      "Total positive doom-scroll classifications.",
})

// LiveSeverity tracks the last severity estimate for the open session (0-10).
var LiveSeverity = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "spiral",
	Name:      "live_severity_score",
	Help:      "Last live severity estimate for the open session.",
})

// DailyScore tracks the canonical doom score for the current day (0-10).
var DailyScore = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "spiral",
	Name:      "daily_doom_score",
	Help:      "Canonical doom score for the current day.",
})

// ─── Interventions ──────────────────────────────────────────────────────────

// InterventionsShown tracks presented interventions by mode.
var InterventionsShown = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "spiral",
	Name:      "interventions_shown_total",
	Help:      "Total interventions presented.",
}, []string{"mode"})

// InterventionsDismissed tracks interventions resolved by dismissal, by mode.
var InterventionsDismissed = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "spiral",
	Name:      "interventions_dismissed_total",
	Help:      "Total interventions dismissed.",
}, []string{"mode"})

// Escalations tracks dismissal-budget exhaustions.
var Escalations = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "spiral",
	Name:      "escalations_total",
	Help:      "Times the accountability dismissal budget was exhausted.",
})

// SuccessfulBreaks tracks interventions that ended the session.
var SuccessfulBreaks = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "spiral",
	Name:      "successful_breaks_total",
	Help:      "Interventions after which the user stopped scrolling.",
})

// ─── Achievements ───────────────────────────────────────────────────────────

// AchievementsUnlocked tracks unlocks by kind (positive or sarcastic).
var AchievementsUnlocked = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "spiral",
	Name:      "achievements_unlocked_total",
	Help:      "Total achievements unlocked.",
}, []string{"kind"})
