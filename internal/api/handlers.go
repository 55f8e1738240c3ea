package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/spiral-app/spiral/internal/app/detect"
	"github.com/spiral-app/spiral/internal/app/intervene"
	"github.com/spiral-app/spiral/internal/app/roast"
	"github.com/spiral-app/spiral/internal/domain"
)

// ─── Status ─────────────────────────────────────────────────────────────────

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "running",
		"session_active": s.monitor.Active(),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version": s.version,
	})
}

// ─── Telemetry ──────────────────────────────────────────────────────────────

type sessionStartRequest struct {
	AppID string `json:"app_id"`
}

func (s *Server) handleSessionStart(w http.ResponseWriter, r *http.Request) {
	var req sessionStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.monitor.StartSession(req.AppID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"app_id": req.AppID,
	})
}

type sessionEndRequest struct {
	Response string `json:"response"`
	Note     string `json:"note"`
}

func (s *Server) handleSessionEnd(w http.ResponseWriter, r *http.Request) {
	var req sessionEndRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	response := domain.ResponseType(req.Response)
	switch response {
	case domain.ResponseWorthIt, domain.ResponseWaste, domain.ResponseJustBreak, domain.ResponseDismissed:
	case "":
		response = domain.ResponseDismissed
	default:
		writeError(w, http.StatusBadRequest, "unknown response type: "+req.Response)
		return
	}

	session, newly, err := s.monitor.EndSession(response, req.Note)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session":      session,
		"new_unlocks":  newly,
		"duration_msg": domain.FormatDuration(session.Duration),
	})
}

func (s *Server) handleSessionLive(w http.ResponseWriter, r *http.Request) {
	snap, err := s.monitor.Snapshot()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session":        snap,
		"severity":       detect.SeverityScore(snap),
		"doom_scrolling": detect.IsDoomScrolling(snap, s.monitor.Config().Thresholds),
	})
}

type scrollRequest struct {
	Velocity float64 `json:"velocity"`
}

func (s *Server) handleScroll(w http.ResponseWriter, r *http.Request) {
	var req scrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.monitor.RecordScroll(req.Velocity); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleInteraction(w http.ResponseWriter, r *http.Request) {
	s.monitor.RecordInteraction()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAppSwitch(w http.ResponseWriter, r *http.Request) {
	s.monitor.RecordAppSwitch()
	w.WriteHeader(http.StatusNoContent)
}

// ─── Stats ──────────────────────────────────────────────────────────────────

func (s *Server) handleStatsToday(w http.ResponseWriter, r *http.Request) {
	stat, err := s.monitor.TodayStats()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"stats":              stat,
		"score_message":      stat.ScoreMessage(),
		"percentile_message": stat.PercentileMessage(),
		"screen_time":        domain.FormatDuration(stat.TotalScreenTime),
		"doom_scroll_time":   domain.FormatDuration(stat.DoomScrollTime),
	})
}

func (s *Server) handleStatsHistory(w http.ResponseWriter, r *http.Request) {
	days := 7
	if q := r.URL.Query().Get("days"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = n
	}

	since := domain.Day(time.Now()).AddDate(0, 0, -(days - 1))
	stats, err := s.db.ListStats(since)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	scoreSum := 0
	var saved time.Duration
	for _, st := range stats {
		scoreSum += st.DoomScore
		saved += st.TimeSaved
	}
	avg := 0.0
	if len(stats) > 0 {
		avg = float64(scoreSum) / float64(len(stats))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"days":            days,
		"stats":           stats,
		"average_score":   avg,
		"time_saved":      saved,
		"time_saved_note": domain.TimeSavedComparison(saved),
	})
}

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	stat, err := s.monitor.TodayStats()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"current": stat.CurrentStreak,
		"longest": stat.LongestStreak,
	})
}

// ─── Achievements ───────────────────────────────────────────────────────────

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	records, err := s.achievements.ListUnlocked()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	byID := make(map[domain.AchievementID]domain.AchievementRecord, len(records))
	for _, rec := range records {
		byID[rec.ID] = rec
	}

	type achievementView struct {
		ID          domain.AchievementID `json:"id"`
		Name        string               `json:"name"`
		Description string               `json:"description"`
		Emoji       string               `json:"emoji"`
		Positive    bool                 `json:"positive"`
		Unlocked    bool                 `json:"unlocked"`
		UnlockedAt  *time.Time           `json:"unlocked_at,omitempty"`
		Shared      bool                 `json:"shared"`
	}

	catalog := domain.AchievementCatalog()
	out := make([]achievementView, len(catalog))
	for i, def := range catalog {
		v := achievementView{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Emoji:       def.Emoji,
			Positive:    def.Positive,
		}
		if rec, ok := byID[def.ID]; ok {
			at := rec.UnlockedAt
			v.Unlocked = true
			v.UnlockedAt = &at
			v.Shared = rec.Shared
		}
		out[i] = v
	}

	unlocked, total, err := s.achievements.Progress()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"achievements": out,
		"unlocked":     unlocked,
		"total":        total,
	})
}

func (s *Server) handleAchievementShared(w http.ResponseWriter, r *http.Request) {
	id := domain.AchievementID(chi.URLParam(r, "id"))
	if err := s.achievements.MarkShared(id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─── Interventions ──────────────────────────────────────────────────────────

type interventionView struct {
	Mode          domain.InterventionMode `json:"mode"`
	State         intervene.State         `json:"state"`
	Header        string                  `json:"header"`
	Message       string                  `json:"message"`
	WaitRemaining int                     `json:"wait_remaining_seconds"`
	CanDismiss    bool                    `json:"can_dismiss"`
	Challenge     string                  `json:"challenge,omitempty"`
}

func (s *Server) viewOf(occ *intervene.Occurrence) interventionView {
	return interventionView{
		Mode:  occ.Mode(),
		State: occ.State(),
		Header: roast.Header(occ.Mode(), roast.Context{
			InterventionsToday: s.monitor.InterventionsToday(),
		}),
		Message:       occ.Message(),
		WaitRemaining: occ.WaitRemaining(),
		CanDismiss:    occ.CanDismiss(),
		Challenge:     occ.Challenge(),
	}
}

func (s *Server) handleInterventionGet(w http.ResponseWriter, r *http.Request) {
	occ := s.monitor.Current()
	if occ == nil {
		writeError(w, http.StatusNotFound, "no intervention presented")
		return
	}
	writeJSON(w, http.StatusOK, s.viewOf(occ))
}

func (s *Server) handleInterventionCheck(w http.ResponseWriter, r *http.Request) {
	occ, err := s.monitor.Check()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if occ == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"presented": false,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"presented":    true,
		"intervention": s.viewOf(occ),
	})
}

func (s *Server) handleInterventionDismiss(w http.ResponseWriter, r *http.Request) {
	if err := s.monitor.Dismiss(); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type answerRequest struct {
	Answer string `json:"answer"`
}

func (s *Server) handleInterventionAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{
		"eligible": s.monitor.AnswerChallenge(req.Answer),
	})
}

func (s *Server) handleInterventionWait(w http.ResponseWriter, r *http.Request) {
	s.monitor.StartWait()
	occ := s.monitor.Current()
	if occ == nil {
		writeError(w, http.StatusNotFound, "no intervention presented")
		return
	}
	writeJSON(w, http.StatusOK, s.viewOf(occ))
}
