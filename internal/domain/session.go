// Package domain holds the pure types of the Spiral engine.
// No infrastructure dependencies — everything here is plain data plus
// small derived-value methods, so the app packages stay testable in memory.
package domain

import "time"

// InterventionMode controls how hard an intervention pushes back.
type InterventionMode string

const (
	ModeGentle         InterventionMode = "gentle"
	ModeAccountability InterventionMode = "accountability"
	ModeLockdown       InterventionMode = "lockdown"
)

// DisplayName returns the user-facing mode name.
func (m InterventionMode) DisplayName() string {
	switch m {
	case ModeGentle:
		return "Gentle"
	case ModeAccountability:
		return "Accountability"
	case ModeLockdown:
		return "Lockdown"
	}
	return string(m)
}

// Description returns the one-line mode summary shown in settings.
func (m InterventionMode) Description() string {
	switch m {
	case ModeGentle:
		return "Soft reminder, easy dismiss"
	case ModeAccountability:
		return "10s wait, 3 ignores max"
	case ModeLockdown:
		return "Complete task to continue"
	}
	return ""
}

// ResponseType records how the user answered the post-intervention prompt.
type ResponseType string

const (
	ResponseWorthIt   ResponseType = "worthIt"
	ResponseWaste     ResponseType = "waste"
	ResponseJustBreak ResponseType = "justBreak"
	ResponseDismissed ResponseType = "dismissed"
)

// DisplayName returns the user-facing response label.
func (r ResponseType) DisplayName() string {
	switch r {
	case ResponseWorthIt:
		return "Worth it - saw good stuff"
	case ResponseWaste:
		return "Total waste - help me stop"
	case ResponseJustBreak:
		return "Just taking a break"
	case ResponseDismissed:
		return "Dismissed"
	}
	return string(r)
}

// MessageStyle selects which message categories the selector draws from.
type MessageStyle string

const (
	StyleFunny        MessageStyle = "funny"
	StyleMotivational MessageStyle = "motivational"
	StyleBrutal       MessageStyle = "brutal"
	StyleMixed        MessageStyle = "mixed"
)

// Session is one monitored usage session. Mutable only while open
// (EndTime zero); once closed by the tracker it is immutable.
type Session struct {
	ID                    string           `json:"id"`
	StartTime             time.Time        `json:"start_time"`
	EndTime               time.Time        `json:"end_time,omitempty"`
	AppID                 string           `json:"app_id"`
	Duration              time.Duration    `json:"duration"`
	ScrollEvents          int              `json:"scroll_events"`
	Interactions          int              `json:"interactions"`
	AppSwitches           int              `json:"app_switches"`
	AverageScrollVelocity float64          `json:"average_scroll_velocity"` // px/s
	WasInterrupted        bool             `json:"was_interrupted"`
	WasIgnored            bool             `json:"was_ignored"`
	UserResponse          ResponseType     `json:"user_response,omitempty"`
	UserNote              string           `json:"user_note,omitempty"`
	MessageShown          string           `json:"message_shown,omitempty"`
	InterventionMode      InterventionMode `json:"intervention_mode"`
}

// InteractionRatio returns interactions per scroll event.
// Always well-defined: the divisor is max(scrollEvents, 1).
func (s Session) InteractionRatio() float64 {
	events := s.ScrollEvents
	if events < 1 {
		events = 1
	}
	return float64(s.Interactions) / float64(events)
}

// Day returns the local calendar day the session belongs to,
// keyed by its start time.
func (s Session) Day() time.Time {
	y, m, d := s.StartTime.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.StartTime.Location())
}

// Closed reports whether the session has been finalized.
func (s Session) Closed() bool {
	return !s.EndTime.IsZero()
}
