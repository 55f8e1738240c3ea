// Package roast selects the contextual message shown during an
// intervention. Selection is stochastic by policy — 70% funny, 20%
// motivational, 10% reality check — with deterministic context overrides
// (frequency tiers, time-of-day buckets). The generator is injected so a
// fixed seed reproduces the exact probability policy in tests.
package roast

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/spiral-app/spiral/internal/domain"
)

// Context carries the live situation the selector keys off.
type Context struct {
	InterventionsToday int
	Hour               int // 0–23
	ScrollDuration     time.Duration
	DoomScore          int
	CurrentStreak      int
}

// Selector picks messages. Not safe for concurrent use; each owner
// drives its own selector (the rng is unsynchronized).
type Selector struct {
	rng *rand.Rand
}

// New creates a selector backed by the given generator.
func New(rng *rand.Rand) *Selector {
	return &Selector{rng: rng}
}

// Select picks a message for the context in the given style.
// Unknown styles fall back to the mixed policy.
func (s *Selector) Select(ctx Context, style domain.MessageStyle) string {
	switch style {
	case domain.StyleFunny:
		return s.selectFunny(ctx)
	case domain.StyleMotivational:
		return s.selectMotivational(ctx)
	case domain.StyleBrutal:
		// Brutal mode: prioritize frequency roasts, then reality checks.
		if ctx.InterventionsToday >= 2 {
			return FrequencyMessage(ctx.InterventionsToday)
		}
		return s.selectRealityCheck(ctx)
	default:
		return s.selectMixed(ctx)
	}
}

// selectMixed applies the 70/20/10 roll.
func (s *Selector) selectMixed(ctx Context) string {
	roll := s.rng.Intn(10) + 1
	switch {
	case roll <= 7:
		return s.selectFunny(ctx)
	case roll <= 9:
		return s.selectMotivational(ctx)
	default:
		return s.selectRealityCheck(ctx)
	}
}

// selectFunny checks the context overrides in priority order before
// falling back to a uniform pick from the general pool.
func (s *Selector) selectFunny(ctx Context) string {
	if ctx.InterventionsToday >= 3 {
		return FrequencyMessage(ctx.InterventionsToday)
	}
	if domain.IsLateNight(ctx.Hour) || domain.IsMorning(ctx.Hour) ||
		domain.IsLunch(ctx.Hour) || domain.IsPreBed(ctx.Hour) {
		return s.timeSpecific(ctx.Hour)
	}
	return s.pick(funny, defaultFunny)
}

// selectMotivational substitutes a streak-referencing message on a
// coin flip AND a sub-0.3 draw — two independent draws, as shipped.
func (s *Selector) selectMotivational(ctx Context) string {
	if ctx.CurrentStreak > 0 {
		streakMessages := []string{
			fmt.Sprintf("You had a %d day streak going. Don't break it now.", ctx.CurrentStreak),
			fmt.Sprintf("You're better than this. You've proven it for %d days.", ctx.CurrentStreak),
		}
		if s.rng.Intn(2) == 1 && s.rng.Float64() < 0.3 {
			return s.pick(streakMessages, defaultMotivational)
		}
	}
	return s.pick(motivational, defaultMotivational)
}

// selectRealityCheck picks from the reality-check pool and substitutes
// the literal placeholder durations with the actual scroll time.
func (s *Selector) selectRealityCheck(ctx Context) string {
	msg := s.pick(realityCheck, defaultRealityCheck)
	minutes := int(ctx.ScrollDuration.Minutes())

	for _, placeholder := range []string{"32 minutes", "45 minutes"} {
		if strings.Contains(msg, placeholder) {
			return strings.ReplaceAll(msg, placeholder, fmt.Sprintf("%d minutes", minutes))
		}
	}
	return msg
}

// timeSpecific returns a message for the hour's bucket.
func (s *Selector) timeSpecific(hour int) string {
	switch {
	case domain.IsLateNight(hour):
		msg := s.pick(lateNightTemplates, defaultFunny)
		if strings.Contains(msg, "%d") {
			return fmt.Sprintf(msg, hour)
		}
		return msg
	case domain.IsMorning(hour):
		return s.pick(morningPool, defaultFunny)
	case domain.IsLunch(hour):
		return s.pick(lunchPool, defaultFunny)
	case domain.IsPreBed(hour):
		return s.pick(preBedPool, defaultFunny)
	}
	return s.pick(funny, defaultFunny)
}

// pick returns a uniform random element, or the fallback for an empty pool.
func (s *Selector) pick(pool []string, fallback string) string {
	if len(pool) == 0 {
		return fallback
	}
	return pool[s.rng.Intn(len(pool))]
}

// FrequencyMessage is the deterministic frequency-tier message, keyed by
// how many interventions were already shown today.
func FrequencyMessage(interventionsToday int) string {
	switch {
	case interventionsToday == 1:
		return "First one today. Let's keep it that way."
	case interventionsToday == 2:
		return "That's twice. Seeing a pattern?"
	case interventionsToday == 3:
		return "Three times. Maybe you need Accountability mode?"
	case interventionsToday >= 4 && interventionsToday <= 6:
		return fmt.Sprintf("Intervention #%d. Should we talk?", interventionsToday)
	case interventionsToday >= 7 && interventionsToday <= 9:
		return "This is getting ridiculous. Lockdown mode exists for a reason."
	default:
		return fmt.Sprintf("You've been caught %d times today. That's... impressive? No, wait. Concerning.", interventionsToday)
	}
}

// Header returns the intervention screen header for the mode.
func Header(mode domain.InterventionMode, ctx Context) string {
	switch mode {
	case domain.ModeAccountability:
		if ctx.InterventionsToday >= 3 {
			return fmt.Sprintf("That's %d ignores today. 😬", ctx.InterventionsToday)
		}
		return "Caught you! 👀"
	case domain.ModeLockdown:
		return "SPIRAL DETECTED 🌀"
	default:
		return "Caught you! 👀"
	}
}

// DurationMessage returns the "been scrolling for..." line.
func DurationMessage(d time.Duration) string {
	minutes := int(d.Minutes())
	switch {
	case minutes < 30:
		return fmt.Sprintf("Been scrolling for %d minutes.", minutes)
	case minutes < 60:
		return fmt.Sprintf("Been scrolling for %d minutes. That's half an hour.", minutes)
	default:
		return fmt.Sprintf("Been scrolling for %dh %dm. Seriously.", minutes/60, minutes%60)
	}
}
