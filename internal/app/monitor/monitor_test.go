package monitor_test

import (
	"math/rand"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/spiral-app/spiral/internal/app/intervene"
	"github.com/spiral-app/spiral/internal/app/monitor"
	"github.com/spiral-app/spiral/internal/domain"
	"github.com/spiral-app/spiral/internal/infra/sqlite"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func testMonitor(t *testing.T, cfg monitor.Config) (*monitor.Monitor, *fakeClock, *sqlite.DB) {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	clk := &fakeClock{t: time.Date(2025, 11, 5, 9, 0, 0, 0, time.Local)}
	m := monitor.NewWithClock(db, cfg, rand.New(rand.NewSource(42)), clk.now)
	return m, clk, db
}

// doomScroll opens a session and feeds it telemetry that trips all four
// detection gates.
func doomScroll(t *testing.T, m *monitor.Monitor, clk *fakeClock, appID string) {
	t.Helper()
	if err := m.StartSession(appID); err != nil {
		t.Fatalf("start session: %v", err)
	}
	clk.advance(30 * time.Minute)
	for i := 0; i < 200; i++ {
		if err := m.RecordScroll(120); err != nil {
			t.Fatalf("record scroll: %v", err)
		}
	}
	for i := 0; i < 5; i++ {
		m.RecordInteraction()
	}
}

func TestCheck_NoSession(t *testing.T) {
	m, _, _ := testMonitor(t, monitor.DefaultConfig())

	occ, err := m.Check()
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if occ != nil {
		t.Error("check with no session should present nothing")
	}
}

func TestCheck_ShortSessionNotFlagged(t *testing.T) {
	m, clk, _ := testMonitor(t, monitor.DefaultConfig())

	if err := m.StartSession("com.burbn.instagram"); err != nil {
		t.Fatalf("start: %v", err)
	}
	clk.advance(10 * time.Minute)
	for i := 0; i < 100; i++ {
		_ = m.RecordScroll(120)
	}

	occ, err := m.Check()
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if occ != nil {
		t.Error("10 minute session must not trigger an intervention")
	}
}

func TestCheck_PresentsAccountabilityOnce(t *testing.T) {
	m, clk, _ := testMonitor(t, monitor.DefaultConfig())
	doomScroll(t, m, clk, "com.burbn.instagram")

	occ, err := m.Check()
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if occ == nil {
		t.Fatal("doom-scroll telemetry must present an intervention")
	}
	if occ.Mode() != domain.ModeAccountability {
		t.Errorf("mode = %v, want accountability", occ.Mode())
	}
	if occ.State() != intervene.StateWaiting {
		t.Errorf("state = %v, want waiting", occ.State())
	}
	if occ.Message() == "" {
		t.Error("occurrence presented without a message")
	}

	// A second pass while the occurrence is live must not stack another.
	again, err := m.Check()
	if err != nil {
		t.Fatalf("second check: %v", err)
	}
	if again != occ {
		t.Error("second check should return the same live occurrence")
	}
}

func TestDismissFlow_IgnoredSession(t *testing.T) {
	m, clk, _ := testMonitor(t, monitor.DefaultConfig())
	doomScroll(t, m, clk, "com.burbn.instagram")

	occ, _ := m.Check()
	for i := 0; i < 10; i++ {
		occ.Tick()
	}
	if !occ.CanDismiss() {
		t.Fatal("countdown elapsed, dismiss should be available")
	}
	if err := m.Dismiss(); err != nil {
		t.Fatalf("dismiss: %v", err)
	}

	s, newly, err := m.EndSession(domain.ResponseDismissed, "")
	if err != nil {
		t.Fatalf("end session: %v", err)
	}
	if !s.WasInterrupted || !s.WasIgnored {
		t.Errorf("session flags = interrupted %v ignored %v, want both", s.WasInterrupted, s.WasIgnored)
	}
	if s.MessageShown == "" || s.InterventionMode != domain.ModeAccountability {
		t.Errorf("intervention context not stamped: %+v", s)
	}

	stat, err := m.TodayStats()
	if err != nil {
		t.Fatalf("today stats: %v", err)
	}
	if stat.Interventions != 1 || stat.Ignored != 1 || stat.SuccessfulBreaks != 0 {
		t.Errorf("stat = %+v", stat)
	}
	// 30m bracket (2) + 1 interrupted + 1 ignored = 4
	if stat.DoomScore != 4 {
		t.Errorf("doom score = %d, want 4", stat.DoomScore)
	}
	if stat.CurrentStreak != 1 {
		t.Errorf("streak = %d, want 1 (score 4 still qualifies)", stat.CurrentStreak)
	}

	// A one-day streak unlocks the first achievement on close.
	found := false
	for _, def := range newly {
		if def.ID == domain.AchTouchGrass {
			found = true
		}
	}
	if !found {
		t.Errorf("newly unlocked = %+v, want touchGrass included", newly)
	}
}

func TestSuccessfulBreak_CreditsTimeSaved(t *testing.T) {
	m, clk, _ := testMonitor(t, monitor.DefaultConfig())
	doomScroll(t, m, clk, "com.reddit.Reddit")

	if occ, _ := m.Check(); occ == nil {
		t.Fatal("expected intervention")
	}
	s, _, err := m.EndSession(domain.ResponseWaste, "felt gross")
	if err != nil {
		t.Fatalf("end session: %v", err)
	}
	if s.WasIgnored {
		t.Error("ending with a response is not an ignore")
	}
	if s.UserNote != "felt gross" {
		t.Errorf("note = %q", s.UserNote)
	}

	stat, _ := m.TodayStats()
	if stat.SuccessfulBreaks != 1 || stat.Ignored != 0 {
		t.Errorf("stat = %+v", stat)
	}
	if stat.TimeSaved != 15*time.Minute {
		t.Errorf("time saved = %v, want 15m", stat.TimeSaved)
	}
	if stat.AppUsage["com.reddit.Reddit"] != 30*time.Minute {
		t.Errorf("app usage = %v", stat.AppUsage)
	}
}

func TestEscalation_RoutesToLockdownThenCoolsDown(t *testing.T) {
	cfg := monitor.DefaultConfig()
	cfg.Intervention.MaxDismissalsPerDay = 1
	cfg.LockdownCooldown = 2 * time.Hour
	m, clk, _ := testMonitor(t, cfg)

	// Spend the whole dismissal budget.
	doomScroll(t, m, clk, "com.burbn.instagram")
	occ, _ := m.Check()
	for i := 0; i < 10; i++ {
		occ.Tick()
	}
	if err := m.Dismiss(); err != nil {
		t.Fatalf("dismiss: %v", err)
	}
	if _, _, err := m.EndSession(domain.ResponseDismissed, ""); err != nil {
		t.Fatalf("end: %v", err)
	}

	// Budget exhausted: the next occurrence is a lockdown.
	doomScroll(t, m, clk, "com.burbn.instagram")
	occ, err := m.Check()
	if err != nil || occ == nil {
		t.Fatalf("check: occ=%v err=%v", occ, err)
	}
	if occ.Mode() != domain.ModeLockdown {
		t.Fatalf("mode = %v, want lockdown after budget exhaustion", occ.Mode())
	}

	a, b := occ.Operands()
	if !m.AnswerChallenge(strconv.Itoa(a + b)) {
		t.Fatal("correct answer must unlock")
	}
	if err := m.Dismiss(); err != nil {
		t.Fatalf("dismiss lockdown: %v", err)
	}
	if _, _, err := m.EndSession(domain.ResponseJustBreak, ""); err != nil {
		t.Fatalf("end: %v", err)
	}

	// Inside the cooldown window nothing is presented.
	doomScroll(t, m, clk, "com.burbn.instagram")
	if occ, _ := m.Check(); occ != nil {
		t.Error("intervention presented inside lockdown cooldown")
	}

	// Past the window the (still escalated) lockdown returns.
	clk.advance(2 * time.Hour)
	_ = m.RecordScroll(120)
	occ, _ = m.Check()
	if occ == nil || occ.Mode() != domain.ModeLockdown {
		t.Errorf("after cooldown: occ=%v, want lockdown", occ)
	}
}

func TestCheck_UnmonitoredAppNotFlagged(t *testing.T) {
	cfg := monitor.DefaultConfig()
	cfg.MonitoredApps = []string{"com.burbn.instagram"}
	m, clk, _ := testMonitor(t, cfg)

	doomScroll(t, m, clk, "com.apple.mobilemail")
	if occ, _ := m.Check(); occ != nil {
		t.Error("unmonitored app must not trigger an intervention")
	}
	if _, _, err := m.EndSession(domain.ResponseJustBreak, ""); err != nil {
		t.Fatalf("end: %v", err)
	}

	doomScroll(t, m, clk, "com.burbn.instagram")
	if occ, _ := m.Check(); occ == nil {
		t.Error("monitored app should trigger an intervention")
	}
}

func TestTodayStats_UntouchedDayCarriesStreak(t *testing.T) {
	m, clk, db := testMonitor(t, monitor.DefaultConfig())

	yesterday := clk.now().AddDate(0, 0, -1)
	if err := db.UpsertDailyStat(domain.DailyStat{Date: yesterday, DoomScore: 2, CurrentStreak: 1, LongestStreak: 3}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	stat, err := m.TodayStats()
	if err != nil {
		t.Fatalf("today stats: %v", err)
	}
	if stat.DoomScore != 0 {
		t.Errorf("untouched day score = %d, want 0", stat.DoomScore)
	}
	if stat.CurrentStreak != 2 {
		t.Errorf("streak = %d, want 2 (clean today + clean yesterday)", stat.CurrentStreak)
	}
	if stat.LongestStreak != 3 {
		t.Errorf("longest = %d, want recorded maximum preserved", stat.LongestStreak)
	}
}

func TestCheck_UntouchedDayStreakReachesMessage(t *testing.T) {
	// Before any session closes today there is no stored row for the day,
	// so the streak shown in messages must be carried forward from
	// history, exactly as TodayStats does. The streak only surfaces
	// through the stochastic motivational substitution, so sweep seeds
	// and require that at least one selected message names it.
	found := false
	for seed := int64(0); seed < 80 && !found; seed++ {
		db, err := sqlite.Open(t.TempDir())
		if err != nil {
			t.Fatalf("open test db: %v", err)
		}
		clk := &fakeClock{t: time.Date(2025, 11, 5, 9, 0, 0, 0, time.Local)}
		cfg := monitor.DefaultConfig()
		cfg.Style = domain.StyleMotivational
		m := monitor.NewWithClock(db, cfg, rand.New(rand.NewSource(seed)), clk.now)

		// Five clean days behind us; today untouched makes six.
		for i := 1; i <= 5; i++ {
			day := clk.now().AddDate(0, 0, -i)
			if err := db.UpsertDailyStat(domain.DailyStat{Date: day, DoomScore: 2}); err != nil {
				t.Fatalf("seed stat: %v", err)
			}
		}

		doomScroll(t, m, clk, "com.burbn.instagram")
		occ, err := m.Check()
		if err != nil || occ == nil {
			t.Fatalf("check: occ=%v err=%v", occ, err)
		}
		if strings.Contains(occ.Message(), "6 day") {
			found = true
		}
		db.Close()
	}
	if !found {
		t.Error("no seed surfaced the carried-forward streak in a message")
	}
}

func TestRefreshDay_Idempotent(t *testing.T) {
	m, clk, _ := testMonitor(t, monitor.DefaultConfig())
	doomScroll(t, m, clk, "com.burbn.instagram")
	_, _ = m.Check()
	if _, _, err := m.EndSession(domain.ResponseWaste, ""); err != nil {
		t.Fatalf("end: %v", err)
	}

	first, err := m.RefreshDay(clk.now())
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	second, err := m.RefreshDay(clk.now())
	if err != nil {
		t.Fatalf("refresh again: %v", err)
	}
	if first.DoomScore != second.DoomScore || first.TimeSaved != second.TimeSaved ||
		first.CurrentStreak != second.CurrentStreak {
		t.Errorf("refresh not idempotent: %+v vs %+v", first, second)
	}
}
