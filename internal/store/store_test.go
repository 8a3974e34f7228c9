package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"moneytrack/internal/core"
	"moneytrack/internal/store/memory"
)

var testInstant = time.Date(2024, 3, 15, 10, 0, 0, 0, time.Local)

func newTestStore() *Store {
	return New(memory.New(), core.FixedClock{Instant: testInstant})
}

func mustAdd(t *testing.T, s *Store, id string, cents int64, cat core.Category, date string) core.Expense {
	t.Helper()
	d, err := core.ParseDate(date)
	if err != nil {
		t.Fatalf("parse date %q: %v", date, err)
	}
	e := core.Expense{
		ID:       id,
		Amount:   core.Money{Cents: cents},
		Category: cat,
		Date:     d,
	}
	if err := s.AddExpense(context.Background(), e); err != nil {
		t.Fatalf("add expense: %v", err)
	}
	return e
}

func TestListExpensesInsertionOrder(t *testing.T) {
	s := newTestStore()
	mustAdd(t, s, "1", 100, "Shopping", "2024-03-02")
	mustAdd(t, s, "2", 200, "Healthcare", "2024-03-01")
	mustAdd(t, s, "3", 300, "Shopping", "2024-03-03")

	got, err := s.ListExpenses(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 expenses, got %d", len(got))
	}
	for i, want := range []string{"1", "2", "3"} {
		if got[i].ID != want {
			t.Fatalf("position %d expected id %s, got %s", i, want, got[i].ID)
		}
	}
}

func TestUpdateExpense(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	mustAdd(t, s, "1", 100, "Shopping", "2024-03-02")

	desc := "updated"
	found, err := s.UpdateExpense(ctx, "1", core.ExpensePatch{Description: &desc})
	if err != nil || !found {
		t.Fatalf("update: found=%v err=%v", found, err)
	}
	got, _ := s.ListExpenses(ctx)
	if got[0].Description != "updated" || got[0].Amount.Cents != 100 {
		t.Fatalf("merge wrong: %+v", got[0])
	}

	found, err = s.UpdateExpense(ctx, "nope", core.ExpensePatch{Description: &desc})
	if err != nil {
		t.Fatalf("missing id must not error: %v", err)
	}
	if found {
		t.Fatalf("missing id reported as found")
	}
}

func TestDeleteExpenseAbsentIsNoop(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	mustAdd(t, s, "1", 100, "Shopping", "2024-03-02")

	if err := s.DeleteExpense(ctx, "nope"); err != nil {
		t.Fatalf("absent delete errored: %v", err)
	}
	if err := s.DeleteExpense(ctx, "1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ := s.ListExpenses(ctx)
	if len(got) != 0 {
		t.Fatalf("expected empty, got %d", len(got))
	}
}

func TestMonthFilterPrefixSemantics(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	mustAdd(t, s, "1", 100, "Shopping", "2024-03-31")
	mustAdd(t, s, "2", 200, "Shopping", "2024-04-01")

	got, err := s.ExpensesInMonth(ctx, "2024-03")
	if err != nil {
		t.Fatalf("month filter: %v", err)
	}
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("expected only the 2024-03-31 expense, got %+v", got)
	}
}

func TestRangeFilterInclusive(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	mustAdd(t, s, "1", 100, "Shopping", "2024-03-01")
	mustAdd(t, s, "2", 200, "Shopping", "2024-03-15")
	mustAdd(t, s, "3", 300, "Shopping", "2024-03-31")
	mustAdd(t, s, "4", 400, "Shopping", "2024-04-01")

	got, err := s.ExpensesInRange(ctx, core.NewDate(2024, 3, 1), core.NewDate(2024, 3, 31))
	if err != nil {
		t.Fatalf("range filter: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected both endpoints included, got %d", len(got))
	}
}

func TestMonthlyTargetSetAndClear(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	target, err := s.MonthlyTarget(ctx)
	if err != nil || target != nil {
		t.Fatalf("unset target: %v %v", target, err)
	}

	if err := s.SetMonthlyTarget(ctx, &core.Money{Cents: 50000}); err != nil {
		t.Fatalf("set target: %v", err)
	}
	target, _ = s.MonthlyTarget(ctx)
	if target == nil || target.Cents != 50000 {
		t.Fatalf("target read back wrong: %+v", target)
	}

	if err := s.SetMonthlyTarget(ctx, nil); err != nil {
		t.Fatalf("clear target: %v", err)
	}
	if target, _ = s.MonthlyTarget(ctx); target != nil {
		t.Fatalf("target survived clear: %+v", target)
	}
}

func TestGoalReplaceAndClear(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	goal, err := s.SetGoal(ctx, core.Money{Cents: 70000}, core.NewDate(2024, 6, 1))
	if err != nil {
		t.Fatalf("set goal: %v", err)
	}
	if !goal.CreatedAt.Equal(testInstant) {
		t.Fatalf("createdAt expected clock instant, got %v", goal.CreatedAt)
	}

	// At most one goal: setting again replaces.
	if _, err := s.SetGoal(ctx, core.Money{Cents: 90000}, core.NewDate(2024, 7, 1)); err != nil {
		t.Fatalf("replace goal: %v", err)
	}
	got, _ := s.Goal(ctx)
	if got == nil || got.Amount.Cents != 90000 {
		t.Fatalf("replacement not visible: %+v", got)
	}

	if err := s.ClearGoal(ctx); err != nil {
		t.Fatalf("clear goal: %v", err)
	}
	if got, _ := s.Goal(ctx); got != nil {
		t.Fatalf("goal survived clear: %+v", got)
	}
}

func TestThemeDefaultAndClearAll(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	theme, err := s.Theme(ctx)
	if err != nil || theme != core.ThemeLight {
		t.Fatalf("default theme expected light, got %q (%v)", theme, err)
	}

	if err := s.SetTheme(ctx, core.ThemeDark); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	if err := s.SetTheme(ctx, core.Theme("sepia")); err == nil {
		t.Fatalf("invalid theme accepted")
	}

	mustAdd(t, s, "1", 100, "Shopping", "2024-03-02")
	s.SetMonthlyTarget(ctx, &core.Money{Cents: 1000})
	s.SetGoal(ctx, core.Money{Cents: 5000}, core.NewDate(2024, 6, 1))
	s.SetReminderTime(ctx, core.TimeOfDay{Hour: 21, Minute: 0})

	if err := s.ClearAll(ctx); err != nil {
		t.Fatalf("clear all: %v", err)
	}

	if got, _ := s.ListExpenses(ctx); len(got) != 0 {
		t.Fatalf("expenses survived wipe")
	}
	if got, _ := s.MonthlyTarget(ctx); got != nil {
		t.Fatalf("target survived wipe")
	}
	if got, _ := s.Goal(ctx); got != nil {
		t.Fatalf("goal survived wipe")
	}
	if got, _ := s.ReminderTime(ctx); got != nil {
		t.Fatalf("reminder survived wipe")
	}
	if theme, _ := s.Theme(ctx); theme != core.ThemeDark {
		t.Fatalf("theme must survive wipe, got %q", theme)
	}
}

// failingKV rejects writes, standing in for a full storage area.
type failingKV struct {
	inner *memory.KV
}

func (f *failingKV) Get(ctx context.Context, key string) (string, bool, error) {
	return f.inner.Get(ctx, key)
}

func (f *failingKV) Set(ctx context.Context, key, value string) error {
	return errors.New("quota exceeded")
}

func (f *failingKV) Delete(ctx context.Context, key string) error {
	return f.inner.Delete(ctx, key)
}

func TestAddExpenseWriteFailed(t *testing.T) {
	s := New(&failingKV{inner: memory.New()}, core.FixedClock{Instant: testInstant})
	err := s.AddExpense(context.Background(), core.Expense{
		ID:       "1",
		Amount:   core.Money{Cents: 100},
		Category: "Shopping",
		Date:     core.NewDate(2024, 3, 1),
	})
	if !errors.Is(err, ErrWriteFailed) {
		t.Fatalf("expected ErrWriteFailed, got %v", err)
	}
}
