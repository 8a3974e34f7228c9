package http

import (
	"net/http"

	"moneytrack/internal/core"
)

type targetResponse struct {
	Target *core.Money `json:"target"`
}

type targetRequest struct {
	Amount core.Money `json:"amount"`
}

func (s *Server) handleGetTarget(w http.ResponseWriter, r *http.Request) {
	target, err := s.tracker.MonthlyTarget(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, targetResponse{Target: target})
}

func (s *Server) handleSetTarget(w http.ResponseWriter, r *http.Request) {
	var req targetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.tracker.SetMonthlyTarget(r.Context(), &req.Amount); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, targetResponse{Target: &req.Amount})
}

func (s *Server) handleClearTarget(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.SetMonthlyTarget(r.Context(), nil); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type goalRequest struct {
	Amount     core.Money `json:"amount"`
	TargetDate core.Date  `json:"targetDate"`
}

// handleGetGoal returns the goal with its projected savings pace.
func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	overview, err := s.tracker.GoalOverview(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if overview == nil {
		writeError(w, http.StatusNotFound, "no savings goal set")
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (s *Server) handleSetGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	goal, err := s.tracker.SetGoal(r.Context(), req.Amount, req.TargetDate)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, goal)
}

func (s *Server) handleClearGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.ClearGoal(r.Context()); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type reminderResponse struct {
	Time *string `json:"time"`
}

type reminderRequest struct {
	Time string `json:"time"`
}

func (s *Server) handleGetReminder(w http.ResponseWriter, r *http.Request) {
	at, err := s.tracker.ReminderTime(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	var resp reminderResponse
	if at != nil {
		formatted := at.String()
		resp.Time = &formatted
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetReminder(w http.ResponseWriter, r *http.Request) {
	var req reminderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	at, err := core.ParseTimeOfDay(req.Time)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if err := s.tracker.SetReminderTime(r.Context(), at); err != nil {
		writeDomainError(w, r, err)
		return
	}
	formatted := at.String()
	writeJSON(w, http.StatusOK, reminderResponse{Time: &formatted})
}

type themeResponse struct {
	Theme core.Theme `json:"theme"`
}

type themeRequest struct {
	Theme core.Theme `json:"theme"`
}

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := s.tracker.Theme(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, themeResponse{Theme: theme})
}

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.tracker.SetTheme(r.Context(), req.Theme); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, themeResponse{Theme: req.Theme})
}
