package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"moneytrack/internal/core"
	"moneytrack/internal/services"
	"moneytrack/internal/store"
	"moneytrack/internal/store/memory"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	clock := core.FixedClock{Instant: time.Date(2024, 3, 15, 14, 0, 0, 0, time.Local)}
	st := store.New(memory.New(), clock)
	tracker := services.NewTracker(st, clock, nil, "₹")
	return NewServer(":0", tracker)
}

func doRequest(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rr := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		rr := doRequest(s, http.MethodGet, path, "")
		if rr.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rr.Code)
		}
	}
}

func TestCreateAndListExpenses(t *testing.T) {
	s := newTestServer(t)

	rr := doRequest(s, http.MethodPost, "/api/expenses",
		`{"amount": 45.50, "category": "Food & Dining", "description": "lunch"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rr.Code, rr.Body.String())
	}

	var created core.Expense
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created expense: %v", err)
	}
	if created.Amount.Cents != 4550 {
		t.Errorf("amount = %d, want 4550", created.Amount.Cents)
	}
	if created.ID == "" {
		t.Error("created expense has no id")
	}

	rr = doRequest(s, http.MethodGet, "/api/expenses", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("list status = %d", rr.Code)
	}
	var listed []core.Expense
	if err := json.Unmarshal(rr.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != created.ID {
		t.Errorf("list = %v, want the created expense", listed)
	}
}

func TestCreateExpenseValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{`, http.StatusBadRequest},
		{"zero amount", `{"amount": 0, "category": "Shopping"}`, http.StatusUnprocessableEntity},
		{"unknown category", `{"amount": 10, "category": "Gambling"}`, http.StatusUnprocessableEntity},
		{"future date", `{"amount": 10, "category": "Shopping", "date": "2030-01-01"}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(s, http.MethodPost, "/api/expenses", tt.body)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rr.Code, tt.want, rr.Body.String())
			}
		})
	}
}

func TestUpdateAndDeleteExpense(t *testing.T) {
	s := newTestServer(t)

	rr := doRequest(s, http.MethodPost, "/api/expenses",
		`{"amount": 100, "category": "Shopping"}`)
	var created core.Expense
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rr = doRequest(s, http.MethodPatch, "/api/expenses/"+created.ID,
		`{"description": "new shoes"}`)
	if rr.Code != http.StatusNoContent {
		t.Errorf("patch status = %d, want 204", rr.Code)
	}

	rr = doRequest(s, http.MethodPatch, "/api/expenses/unknown", `{"description": "x"}`)
	if rr.Code != http.StatusNotFound {
		t.Errorf("patch missing status = %d, want 404", rr.Code)
	}

	rr = doRequest(s, http.MethodDelete, "/api/expenses/"+created.ID, "")
	if rr.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", rr.Code)
	}

	rr = doRequest(s, http.MethodGet, "/api/expenses", "")
	if body := strings.TrimSpace(rr.Body.String()); body != "[]" {
		t.Errorf("list after delete = %s, want []", body)
	}
}

func TestDashboardAndReports(t *testing.T) {
	s := newTestServer(t)

	doRequest(s, http.MethodPost, "/api/expenses",
		`{"amount": 300, "category": "Food & Dining"}`)
	doRequest(s, http.MethodPut, "/api/target", `{"amount": 600}`)

	rr := doRequest(s, http.MethodGet, "/api/reports/monthly?month=2024-03", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("monthly status = %d", rr.Code)
	}
	var monthly struct {
		Total    json.Number `json:"total"`
		Progress *struct {
			Percentage float64 `json:"percentage"`
		} `json:"progress"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &monthly); err != nil {
		t.Fatalf("decode monthly: %v", err)
	}
	if monthly.Total.String() != "300.00" {
		t.Errorf("total = %s, want 300.00", monthly.Total)
	}
	if monthly.Progress == nil || monthly.Progress.Percentage != 50 {
		t.Errorf("progress = %+v, want 50%%", monthly.Progress)
	}

	rr = doRequest(s, http.MethodGet, "/api/reports/daily?date=2024-03-15", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("daily status = %d", rr.Code)
	}

	rr = doRequest(s, http.MethodGet, "/api/reports/monthly?month=march", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad month status = %d, want 400", rr.Code)
	}

	rr = doRequest(s, http.MethodGet, "/api/dashboard", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d", rr.Code)
	}
}

// Omitted date/month params default to the injected clock's day, not the
// process wall clock.
func TestReportDefaultsFollowClock(t *testing.T) {
	s := newTestServer(t)

	doRequest(s, http.MethodPost, "/api/expenses",
		`{"amount": 300, "category": "Food & Dining"}`)

	rr := doRequest(s, http.MethodGet, "/api/reports/daily", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("daily status = %d", rr.Code)
	}
	var daily struct {
		Date  string      `json:"date"`
		Total json.Number `json:"total"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &daily); err != nil {
		t.Fatalf("decode daily: %v", err)
	}
	if daily.Date != "2024-03-15" {
		t.Errorf("default date = %s, want 2024-03-15", daily.Date)
	}
	if daily.Total.String() != "300.00" {
		t.Errorf("total = %s, want 300.00", daily.Total)
	}

	rr = doRequest(s, http.MethodGet, "/api/reports/monthly", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("monthly status = %d", rr.Code)
	}
	var monthly struct {
		Month string `json:"month"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &monthly); err != nil {
		t.Fatalf("decode monthly: %v", err)
	}
	if monthly.Month != "2024-03" {
		t.Errorf("default month = %s, want 2024-03", monthly.Month)
	}
}

func TestGoalEndpoints(t *testing.T) {
	s := newTestServer(t)

	rr := doRequest(s, http.MethodGet, "/api/goal", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("get unset goal status = %d, want 404", rr.Code)
	}

	rr = doRequest(s, http.MethodPut, "/api/goal",
		`{"amount": 700, "targetDate": "2024-03-10"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("past goal status = %d, want 422", rr.Code)
	}

	rr = doRequest(s, http.MethodPut, "/api/goal",
		`{"amount": 700, "targetDate": "2024-03-22"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("set goal status = %d, body %s", rr.Code, rr.Body.String())
	}

	rr = doRequest(s, http.MethodGet, "/api/goal", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("get goal status = %d", rr.Code)
	}
	var overview struct {
		DaysRemaining int         `json:"daysRemaining"`
		DailyPace     json.Number `json:"dailyPace"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &overview); err != nil {
		t.Fatalf("decode overview: %v", err)
	}
	if overview.DaysRemaining != 7 {
		t.Errorf("days remaining = %d, want 7", overview.DaysRemaining)
	}
	if overview.DailyPace.String() != "100.00" {
		t.Errorf("daily pace = %s, want 100.00", overview.DailyPace)
	}

	rr = doRequest(s, http.MethodDelete, "/api/goal", "")
	if rr.Code != http.StatusNoContent {
		t.Errorf("clear goal status = %d, want 204", rr.Code)
	}
}

func TestSettingsEndpoints(t *testing.T) {
	s := newTestServer(t)

	rr := doRequest(s, http.MethodPut, "/api/settings/reminder", `{"time": "20:30"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("set reminder status = %d", rr.Code)
	}

	rr = doRequest(s, http.MethodPut, "/api/settings/reminder", `{"time": "25:00"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("bad reminder status = %d, want 422", rr.Code)
	}

	rr = doRequest(s, http.MethodGet, "/api/settings/theme", "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "light") {
		t.Errorf("default theme response = %d %s", rr.Code, rr.Body.String())
	}

	rr = doRequest(s, http.MethodPut, "/api/settings/theme", `{"theme": "dark"}`)
	if rr.Code != http.StatusOK {
		t.Errorf("set theme status = %d", rr.Code)
	}

	rr = doRequest(s, http.MethodPut, "/api/settings/theme", `{"theme": "sepia"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("bad theme status = %d, want 422", rr.Code)
	}
}

func TestExportImportClear(t *testing.T) {
	s := newTestServer(t)

	doRequest(s, http.MethodPost, "/api/expenses",
		`{"amount": 50, "category": "Shopping"}`)

	rr := doRequest(s, http.MethodGet, "/api/export", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("export status = %d", rr.Code)
	}
	exported := rr.Body.String()
	if !strings.Contains(exported, "Shopping") {
		t.Errorf("export missing expense: %s", exported)
	}

	rr = doRequest(s, http.MethodDelete, "/api/data", "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("clear status = %d", rr.Code)
	}

	rr = doRequest(s, http.MethodGet, "/api/expenses", "")
	if body := strings.TrimSpace(rr.Body.String()); body != "[]" {
		t.Fatalf("list after clear = %s, want []", body)
	}

	rr = doRequest(s, http.MethodPost, "/api/import", exported)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("import status = %d, body %s", rr.Code, rr.Body.String())
	}

	rr = doRequest(s, http.MethodGet, "/api/expenses", "")
	if !strings.Contains(rr.Body.String(), "Shopping") {
		t.Errorf("list after import missing expense: %s", rr.Body.String())
	}

	rr = doRequest(s, http.MethodPost, "/api/import", `{"expenses": "nope"}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad import status = %d, want 400", rr.Code)
	}
}

func TestVoiceEndpoint(t *testing.T) {
	s := newTestServer(t)

	rr := doRequest(s, http.MethodPost, "/api/expenses/voice",
		`{"transcript": "spent 250 on lunch"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("voice status = %d", rr.Code)
	}
	var parsed struct {
		Amount   json.Number `json:"amount"`
		Category string      `json:"category"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("decode parsed: %v", err)
	}
	if parsed.Amount.String() != "250.00" {
		t.Errorf("amount = %s, want 250.00", parsed.Amount)
	}
	if parsed.Category != "Food & Dining" {
		t.Errorf("category = %q, want Food & Dining", parsed.Category)
	}

	rr = doRequest(s, http.MethodPost, "/api/expenses/voice", `{"transcript": "  "}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("empty transcript status = %d, want 400", rr.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	s := newTestServer(t)

	rr := doRequest(s, http.MethodGet, "/api/expenses", "")
	if got := rr.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := rr.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
}
