// Package intervene drives the per-occurrence intervention state machine.
//
// An occurrence moves Presented → WaitingForEligibility → Eligible →
// Resolved. Which transitions are available depends on the mode:
//
//   - gentle: eligible immediately.
//   - accountability: a countdown must reach zero AND the day's dismissal
//     budget must not be exhausted.
//   - lockdown: either a correct challenge answer or an opted-in fixed
//     wait unlocks eligibility; whichever fires first wins.
//
// The package defines only the state transitions. Scheduling is the
// host's job: call Tick once per elapsed second, or use Run to drive it
// from a cancellable goroutine. All methods are serialized against the
// occurrence's state, so a background ticker never races a dismiss.
package intervene

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spiral-app/spiral/internal/domain"
)

// State is the occurrence lifecycle state.
type State string

const (
	StatePresented State = "presented"
	StateWaiting   State = "waitingForEligibility"
	StateEligible  State = "eligible"
	StateResolved  State = "resolved"
)

// Config holds the mode timers and budgets.
type Config struct {
	AccountabilityWait  time.Duration // countdown before dismiss appears
	MaxDismissalsPerDay int           // accountability dismissal budget
	LockdownWait        time.Duration // alternate unlock wait
	ChallengeMin        int           // smallest challenge operand
	ChallengeMax        int           // largest challenge operand
}

// DefaultConfig returns the stock intervention settings.
func DefaultConfig() Config {
	return Config{
		AccountabilityWait:  10 * time.Second,
		MaxDismissalsPerDay: 3,
		LockdownWait:        60 * time.Second,
		ChallengeMin:        10,
		ChallengeMax:        50,
	}
}

// Occurrence is one presented intervention. Transient: it lives from
// presentation to resolution and is never persisted.
type Occurrence struct {
	mu sync.Mutex

	mode               domain.InterventionMode
	cfg                Config
	state              State
	message            string
	scrollDuration     time.Duration
	interventionsToday int
	dismissalsToday    int
	waitRemaining      int // seconds

	// Lockdown challenge
	num1, num2 int
	lastAnswer string
	waitOpted  bool
}

// New creates an occurrence for the given mode and live context.
// dismissalsToday is the accountability budget already spent today.
// The rng seeds the lockdown challenge operands.
func New(mode domain.InterventionMode, scrollDuration time.Duration, interventionsToday, dismissalsToday int, cfg Config, rng *rand.Rand) (*Occurrence, error) {
	o := &Occurrence{
		mode:               mode,
		cfg:                cfg,
		scrollDuration:     scrollDuration,
		interventionsToday: interventionsToday,
		dismissalsToday:    dismissalsToday,
	}

	switch mode {
	case domain.ModeGentle:
		o.state = StateEligible
	case domain.ModeAccountability:
		o.state = StateWaiting
		o.waitRemaining = countdownSeconds(cfg.AccountabilityWait)
	case domain.ModeLockdown:
		o.state = StatePresented
		span := cfg.ChallengeMax - cfg.ChallengeMin + 1
		o.num1 = cfg.ChallengeMin + rng.Intn(span)
		o.num2 = cfg.ChallengeMin + rng.Intn(span)
	default:
		return nil, domain.ErrUnknownMode
	}
	return o, nil
}

// SetMessage attaches the selected intervention message.
func (o *Occurrence) SetMessage(msg string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.message = msg
}

// Message returns the message shown with this occurrence.
func (o *Occurrence) Message() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.message
}

// Mode returns the occurrence's intervention mode.
func (o *Occurrence) Mode() domain.InterventionMode { return o.mode }

// State returns the current lifecycle state.
func (o *Occurrence) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// WaitRemaining returns the countdown seconds left, zero when no
// countdown is active.
func (o *Occurrence) WaitRemaining() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.waitRemaining
}

// DismissalsToday returns today's dismissal count as this occurrence
// knows it, including its own dismissal once resolved.
func (o *Occurrence) DismissalsToday() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.dismissalsToday
}

// CanDismiss reports whether Dismiss would currently succeed.
func (o *Occurrence) CanDismiss() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state == StateEligible
}

// Challenge returns the lockdown arithmetic prompt, empty for other modes.
func (o *Occurrence) Challenge() string {
	if o.mode != domain.ModeLockdown {
		return ""
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	return fmt.Sprintf("What's %d + %d?", o.num1, o.num2)
}

// Operands returns the lockdown challenge operands.
func (o *Occurrence) Operands() (int, int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.num1, o.num2
}

// Tick advances any active countdown by one second. Safe to call at any
// time: ticks outside a countdown, or after resolution, change nothing.
func (o *Occurrence) Tick() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != StateWaiting || o.waitRemaining <= 0 {
		return
	}
	o.waitRemaining--
	if o.waitRemaining > 0 {
		return
	}

	switch o.mode {
	case domain.ModeAccountability:
		// The countdown alone is not enough — the dismissal budget is
		// the binding constraint.
		if o.dismissalsToday < o.cfg.MaxDismissalsPerDay {
			o.state = StateEligible
		}
	case domain.ModeLockdown:
		if o.waitOpted {
			o.state = StateEligible
		}
	}
}

// Run ticks the countdown once per second until the occurrence leaves the
// waiting state or ctx is cancelled. No tick is observable after cancel.
func (o *Occurrence) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.Tick()
			if s := o.State(); s != StateWaiting && s != StatePresented {
				return
			}
		}
	}
}

// CheckAnswer evaluates a lockdown challenge answer. Called on every
// keystroke: a correct answer transitions to Eligible immediately and
// abandons any pending wait; anything else leaves the state unchanged.
// Returns whether the occurrence is now eligible.
func (o *Occurrence) CheckAnswer(text string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.mode != domain.ModeLockdown || o.state == StateResolved {
		return o.state == StateEligible
	}
	o.lastAnswer = text

	answer, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return false
	}
	if answer == o.num1+o.num2 {
		o.state = StateEligible
		o.waitRemaining = 0
	}
	return o.state == StateEligible
}

// StartAlternateWait opts into the fixed lockdown wait. On expiry the
// occurrence becomes eligible without answering the challenge. No-op for
// other modes or once eligibility is already decided.
func (o *Occurrence) StartAlternateWait() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.mode != domain.ModeLockdown || o.state != StatePresented {
		return
	}
	o.waitOpted = true
	o.state = StateWaiting
	o.waitRemaining = countdownSeconds(o.cfg.LockdownWait)
}

// countdownSeconds converts a configured wait to whole ticks. A wait of
// zero (or under a second) still needs one tick to expire — Tick ignores
// a countdown that is already at zero, so a zero start would never reach
// the eligibility transition.
func countdownSeconds(wait time.Duration) int {
	if secs := int(wait / time.Second); secs >= 1 {
		return secs
	}
	return 1
}

// Dismiss resolves an eligible occurrence. For accountability mode it
// spends one dismissal from the day's budget; escalate is true when the
// budget is now exhausted (routing the next occurrence to lockdown is
// the caller's decision, not this machine's).
func (o *Occurrence) Dismiss() (escalate bool, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch o.state {
	case StateResolved:
		return false, domain.ErrResolved
	case StateEligible:
	default:
		return false, domain.ErrNotDismissible
	}

	o.state = StateResolved
	if o.mode == domain.ModeAccountability {
		o.dismissalsToday++
		escalate = o.dismissalsToday >= o.cfg.MaxDismissalsPerDay
	}
	return escalate, nil
}
