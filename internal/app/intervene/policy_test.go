package intervene_test

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/spiral-app/spiral/internal/app/intervene"
	"github.com/spiral-app/spiral/internal/domain"
)

func newOccurrence(t *testing.T, mode domain.InterventionMode, dismissalsToday int) *intervene.Occurrence {
	t.Helper()
	rng := rand.New(rand.NewSource(42))
	o, err := intervene.New(mode, 30*time.Minute, 0, dismissalsToday, intervene.DefaultConfig(), rng)
	if err != nil {
		t.Fatalf("new occurrence: %v", err)
	}
	return o
}

func TestNew_UnknownMode(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, err := intervene.New("draconian", 0, 0, 0, intervene.DefaultConfig(), rng)
	if !errors.Is(err, domain.ErrUnknownMode) {
		t.Errorf("expected ErrUnknownMode, got %v", err)
	}
}

func TestGentle_DismissibleImmediately(t *testing.T) {
	o := newOccurrence(t, domain.ModeGentle, 0)

	if o.State() != intervene.StateEligible {
		t.Fatalf("state = %s, want eligible", o.State())
	}
	escalate, err := o.Dismiss()
	if err != nil {
		t.Fatalf("dismiss: %v", err)
	}
	if escalate {
		t.Error("gentle dismiss must never escalate")
	}
	if o.State() != intervene.StateResolved {
		t.Errorf("state = %s, want resolved", o.State())
	}
}

func TestAccountability_CountdownGatesDismiss(t *testing.T) {
	o := newOccurrence(t, domain.ModeAccountability, 0)

	if o.State() != intervene.StateWaiting {
		t.Fatalf("state = %s, want waiting", o.State())
	}
	if _, err := o.Dismiss(); !errors.Is(err, domain.ErrNotDismissible) {
		t.Errorf("dismiss before countdown: expected ErrNotDismissible, got %v", err)
	}

	for i := 0; i < 9; i++ {
		o.Tick()
	}
	if o.State() != intervene.StateWaiting {
		t.Errorf("state after 9 ticks = %s, want waiting", o.State())
	}
	if o.WaitRemaining() != 1 {
		t.Errorf("wait remaining = %d, want 1", o.WaitRemaining())
	}

	o.Tick()
	if o.State() != intervene.StateEligible {
		t.Errorf("state after countdown = %s, want eligible", o.State())
	}
}

func TestAccountability_ZeroWaitStillReachesEligibility(t *testing.T) {
	cfg := intervene.DefaultConfig()
	cfg.AccountabilityWait = 0
	rng := rand.New(rand.NewSource(42))
	o, err := intervene.New(domain.ModeAccountability, 30*time.Minute, 0, 0, cfg, rng)
	if err != nil {
		t.Fatalf("new occurrence: %v", err)
	}

	// A zero-configured wait must not wedge the countdown at zero.
	if o.WaitRemaining() < 1 {
		t.Fatalf("wait remaining = %d, want at least 1 tick", o.WaitRemaining())
	}
	o.Tick()
	if o.State() != intervene.StateEligible {
		t.Errorf("state after one tick = %s, want eligible", o.State())
	}
	if _, err := o.Dismiss(); err != nil {
		t.Errorf("dismiss: %v", err)
	}
}

func TestLockdown_ZeroAlternateWaitStillUnlocks(t *testing.T) {
	cfg := intervene.DefaultConfig()
	cfg.LockdownWait = 0
	rng := rand.New(rand.NewSource(42))
	o, err := intervene.New(domain.ModeLockdown, 30*time.Minute, 0, 0, cfg, rng)
	if err != nil {
		t.Fatalf("new occurrence: %v", err)
	}

	o.StartAlternateWait()
	o.Tick()
	if o.State() != intervene.StateEligible {
		t.Errorf("state after one tick = %s, want eligible", o.State())
	}
}

func TestAccountability_BudgetExhaustedNeverEligible(t *testing.T) {
	// dismissalsToday already at the max of 3: countdown completion must
	// not grant eligibility.
	o := newOccurrence(t, domain.ModeAccountability, 3)

	for i := 0; i < 30; i++ {
		o.Tick()
	}
	if o.State() != intervene.StateWaiting {
		t.Errorf("state = %s, want waiting (budget exhausted)", o.State())
	}
	if o.CanDismiss() {
		t.Error("occurrence must stay non-dismissible")
	}
}

func TestAccountability_DismissSpendsBudgetAndEscalates(t *testing.T) {
	o := newOccurrence(t, domain.ModeAccountability, 2)

	for i := 0; i < 10; i++ {
		o.Tick()
	}
	escalate, err := o.Dismiss()
	if err != nil {
		t.Fatalf("dismiss: %v", err)
	}
	if !escalate {
		t.Error("third dismissal should emit the escalation signal")
	}
	if o.DismissalsToday() != 3 {
		t.Errorf("dismissals = %d, want 3", o.DismissalsToday())
	}
}

func TestAccountability_NoEscalationBelowMax(t *testing.T) {
	o := newOccurrence(t, domain.ModeAccountability, 0)
	for i := 0; i < 10; i++ {
		o.Tick()
	}
	escalate, err := o.Dismiss()
	if err != nil {
		t.Fatalf("dismiss: %v", err)
	}
	if escalate {
		t.Error("first dismissal must not escalate")
	}
}

func TestLockdown_CorrectAnswerUnlocks(t *testing.T) {
	o := newOccurrence(t, domain.ModeLockdown, 0)

	n1, n2 := o.Operands()
	if n1 < 10 || n1 > 50 || n2 < 10 || n2 > 50 {
		t.Fatalf("operands (%d, %d) out of [10,50]", n1, n2)
	}
	if want := fmt.Sprintf("What's %d + %d?", n1, n2); o.Challenge() != want {
		t.Errorf("challenge = %q, want %q", o.Challenge(), want)
	}

	// Keystroke-by-keystroke: partial and wrong answers change nothing.
	for _, text := range []string{"", "4", "abc", fmt.Sprint(n1 + n2 + 1)} {
		if o.CheckAnswer(text) {
			t.Errorf("answer %q must not unlock", text)
		}
		if o.State() != intervene.StatePresented {
			t.Fatalf("state after %q = %s, want presented", text, o.State())
		}
	}

	if !o.CheckAnswer(fmt.Sprint(n1 + n2)) {
		t.Fatal("exact sum must unlock")
	}
	if o.State() != intervene.StateEligible {
		t.Errorf("state = %s, want eligible", o.State())
	}
	if _, err := o.Dismiss(); err != nil {
		t.Errorf("dismiss after unlock: %v", err)
	}
}

func TestLockdown_AlternateWaitUnlocks(t *testing.T) {
	o := newOccurrence(t, domain.ModeLockdown, 0)

	// Ticks before opting in do nothing.
	o.Tick()
	if o.State() != intervene.StatePresented {
		t.Fatalf("state = %s, want presented", o.State())
	}

	o.StartAlternateWait()
	if o.State() != intervene.StateWaiting {
		t.Fatalf("state = %s, want waiting", o.State())
	}
	if o.WaitRemaining() != 60 {
		t.Errorf("wait remaining = %d, want 60", o.WaitRemaining())
	}

	for i := 0; i < 60; i++ {
		o.Tick()
	}
	if o.State() != intervene.StateEligible {
		t.Errorf("state after wait = %s, want eligible", o.State())
	}
}

func TestLockdown_AnswerWinsOverPendingWait(t *testing.T) {
	o := newOccurrence(t, domain.ModeLockdown, 0)
	o.StartAlternateWait()
	for i := 0; i < 30; i++ {
		o.Tick()
	}

	n1, n2 := o.Operands()
	if !o.CheckAnswer(fmt.Sprint(n1 + n2)) {
		t.Fatal("answer path must still work during the wait")
	}
	if o.WaitRemaining() != 0 {
		t.Errorf("wait remaining = %d, want 0 (wait abandoned)", o.WaitRemaining())
	}

	// Stray ticks after eligibility are inert.
	o.Tick()
	if o.State() != intervene.StateEligible {
		t.Errorf("state = %s, want eligible", o.State())
	}
}

func TestDismiss_TwiceFails(t *testing.T) {
	o := newOccurrence(t, domain.ModeGentle, 0)
	if _, err := o.Dismiss(); err != nil {
		t.Fatalf("dismiss: %v", err)
	}
	if _, err := o.Dismiss(); !errors.Is(err, domain.ErrResolved) {
		t.Errorf("expected ErrResolved, got %v", err)
	}
}

func TestCheckAnswer_OtherModesNoop(t *testing.T) {
	o := newOccurrence(t, domain.ModeAccountability, 0)
	if o.CheckAnswer("42") {
		t.Error("accountability occurrence has no challenge to answer")
	}
	if o.State() != intervene.StateWaiting {
		t.Errorf("state = %s, want waiting", o.State())
	}
}

func TestMessageRoundTrip(t *testing.T) {
	o := newOccurrence(t, domain.ModeGentle, 0)
	o.SetMessage("Still scrolling?")
	if o.Message() != "Still scrolling?" {
		t.Errorf("message = %q", o.Message())
	}
}
