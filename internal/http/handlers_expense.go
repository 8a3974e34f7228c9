package http

import (
	"net/http"

	"moneytrack/internal/core"
	"moneytrack/internal/services"
	"moneytrack/internal/voice"
)

type createExpenseRequest struct {
	Amount        core.Money `json:"amount"`
	Category      string     `json:"category"`
	Description   string     `json:"description"`
	PaymentMethod string     `json:"paymentMethod"`
	Date          *core.Date `json:"date"`
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.tracker.ListExpenses(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if expenses == nil {
		expenses = []core.Expense{}
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	expense, err := s.tracker.AddExpense(r.Context(), services.NewExpenseInput{
		Amount:        req.Amount,
		Category:      core.Category(sanitizeInput(req.Category)),
		Description:   sanitizeInput(req.Description),
		PaymentMethod: sanitizeInput(req.PaymentMethod),
		Date:          req.Date,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, expense)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var patch core.ExpensePatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	found, err := s.tracker.UpdateExpense(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "expense not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.DeleteExpense(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type voiceRequest struct {
	Transcript string `json:"transcript"`
}

// handleParseVoice turns a transcript into a draft expense without saving it.
func (s *Server) handleParseVoice(w http.ResponseWriter, r *http.Request) {
	var req voiceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if sanitizeInput(req.Transcript) == "" {
		writeError(w, http.StatusBadRequest, "transcript is empty")
		return
	}

	writeJSON(w, http.StatusOK, voice.Parse(req.Transcript))
}
