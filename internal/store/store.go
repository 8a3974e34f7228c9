package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"moneytrack/internal/core"
)

// Store exposes typed operations over the KV port. All operations are
// synchronous snapshot read-modify-writes; the store itself keeps no state
// beyond its collaborators.
type Store struct {
	kv    KV
	clock core.Clock
}

func New(kv KV, clock core.Clock) *Store {
	if clock == nil {
		clock = core.SystemClock{}
	}
	return &Store{kv: kv, clock: clock}
}

// ListExpenses returns all expenses in insertion order, oldest first.
func (s *Store) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	raw, ok, err := s.kv.Get(ctx, KeyExpenses)
	if err != nil {
		return nil, fmt.Errorf("read expenses: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var expenses []core.Expense
	if err := json.Unmarshal([]byte(raw), &expenses); err != nil {
		return nil, fmt.Errorf("decode expenses: %w", err)
	}
	return expenses, nil
}

// AddExpense appends the expense to the collection.
func (s *Store) AddExpense(ctx context.Context, e core.Expense) error {
	expenses, err := s.ListExpenses(ctx)
	if err != nil {
		return err
	}
	expenses = append(expenses, e)
	if err := s.writeExpenses(ctx, expenses); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Expense saved",
		"id", e.ID,
		"category", string(e.Category),
		"amount_cents", e.Amount.Cents,
		"date", e.Date.String())
	return nil
}

// UpdateExpense merges the patch into the expense with the given id.
// Returns false without error when the id is not found.
func (s *Store) UpdateExpense(ctx context.Context, id string, patch core.ExpensePatch) (bool, error) {
	expenses, err := s.ListExpenses(ctx)
	if err != nil {
		return false, err
	}
	for i, e := range expenses {
		if e.ID != id {
			continue
		}
		expenses[i] = patch.Apply(e)
		if err := s.writeExpenses(ctx, expenses); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// DeleteExpense removes the expense with the given id; absent ids are a
// no-op, not an error.
func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	expenses, err := s.ListExpenses(ctx)
	if err != nil {
		return err
	}
	kept := expenses[:0]
	for _, e := range expenses {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(expenses) {
		return nil
	}
	return s.writeExpenses(ctx, kept)
}

// ExpensesOnDate filters the collection to a single calendar day.
func (s *Store) ExpensesOnDate(ctx context.Context, date core.Date) ([]core.Expense, error) {
	expenses, err := s.ListExpenses(ctx)
	if err != nil {
		return nil, err
	}
	var out []core.Expense
	for _, e := range expenses {
		if e.Date.String() == date.String() {
			out = append(out, e)
		}
	}
	return out, nil
}

// ExpensesInMonth filters by "YYYY-MM" prefix equivalence on the date field.
func (s *Store) ExpensesInMonth(ctx context.Context, yearMonth string) ([]core.Expense, error) {
	expenses, err := s.ListExpenses(ctx)
	if err != nil {
		return nil, err
	}
	var out []core.Expense
	for _, e := range expenses {
		if e.Date.YearMonth() == yearMonth {
			out = append(out, e)
		}
	}
	return out, nil
}

// ExpensesInRange filters inclusively on both ends. Lexical comparison of the
// canonical date strings is chronological because they are zero-padded ISO.
func (s *Store) ExpensesInRange(ctx context.Context, start, end core.Date) ([]core.Expense, error) {
	expenses, err := s.ListExpenses(ctx)
	if err != nil {
		return nil, err
	}
	lo, hi := start.String(), end.String()
	var out []core.Expense
	for _, e := range expenses {
		d := e.Date.String()
		if d >= lo && d <= hi {
			out = append(out, e)
		}
	}
	return out, nil
}

// MonthlyTarget returns the configured target, nil when unset.
func (s *Store) MonthlyTarget(ctx context.Context) (*core.Money, error) {
	raw, ok, err := s.kv.Get(ctx, KeyMonthlyTarget)
	if err != nil {
		return nil, fmt.Errorf("read monthly target: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	target, err := core.ParseMoney(raw)
	if err != nil {
		return nil, fmt.Errorf("decode monthly target: %w", err)
	}
	return &target, nil
}

// SetMonthlyTarget stores the target; nil clears it.
func (s *Store) SetMonthlyTarget(ctx context.Context, target *core.Money) error {
	if target == nil {
		if err := s.kv.Delete(ctx, KeyMonthlyTarget); err != nil {
			return fmt.Errorf("%w: clear monthly target: %v", ErrWriteFailed, err)
		}
		return nil
	}
	if err := s.kv.Set(ctx, KeyMonthlyTarget, target.DecimalString()); err != nil {
		return fmt.Errorf("%w: monthly target: %v", ErrWriteFailed, err)
	}
	return nil
}

// Goal returns the savings goal, nil when unset.
func (s *Store) Goal(ctx context.Context) (*core.SavingsGoal, error) {
	raw, ok, err := s.kv.Get(ctx, KeyGoal)
	if err != nil {
		return nil, fmt.Errorf("read goal: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var goal core.SavingsGoal
	if err := json.Unmarshal([]byte(raw), &goal); err != nil {
		return nil, fmt.Errorf("decode goal: %w", err)
	}
	return &goal, nil
}

// SetGoal replaces the savings goal. CreatedAt comes from the injected clock.
func (s *Store) SetGoal(ctx context.Context, amount core.Money, targetDate core.Date) (core.SavingsGoal, error) {
	goal := core.SavingsGoal{
		Amount:     amount,
		TargetDate: targetDate,
		CreatedAt:  s.clock.Now(),
	}
	if err := s.writeGoal(ctx, goal); err != nil {
		return core.SavingsGoal{}, err
	}
	return goal, nil
}

func (s *Store) ClearGoal(ctx context.Context) error {
	if err := s.kv.Delete(ctx, KeyGoal); err != nil {
		return fmt.Errorf("%w: clear goal: %v", ErrWriteFailed, err)
	}
	return nil
}

// ReminderTime returns the configured reminder, nil when unset.
func (s *Store) ReminderTime(ctx context.Context) (*core.TimeOfDay, error) {
	raw, ok, err := s.kv.Get(ctx, KeyReminderTime)
	if err != nil {
		return nil, fmt.Errorf("read reminder time: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	t, err := core.ParseTimeOfDay(raw)
	if err != nil {
		return nil, fmt.Errorf("decode reminder time: %w", err)
	}
	return &t, nil
}

func (s *Store) SetReminderTime(ctx context.Context, t core.TimeOfDay) error {
	if err := s.kv.Set(ctx, KeyReminderTime, t.String()); err != nil {
		return fmt.Errorf("%w: reminder time: %v", ErrWriteFailed, err)
	}
	return nil
}

// Theme returns the stored preference, defaulting to light.
func (s *Store) Theme(ctx context.Context) (core.Theme, error) {
	raw, ok, err := s.kv.Get(ctx, KeyTheme)
	if err != nil {
		return core.ThemeLight, fmt.Errorf("read theme: %w", err)
	}
	if !ok || raw == "" {
		return core.ThemeLight, nil
	}
	theme := core.Theme(raw)
	if err := theme.Validate(); err != nil {
		return core.ThemeLight, nil
	}
	return theme, nil
}

func (s *Store) SetTheme(ctx context.Context, theme core.Theme) error {
	if err := theme.Validate(); err != nil {
		return err
	}
	if err := s.kv.Set(ctx, KeyTheme, string(theme)); err != nil {
		return fmt.Errorf("%w: theme: %v", ErrWriteFailed, err)
	}
	return nil
}

// ClearAll removes expenses, target, goal, and reminder. The theme preference
// deliberately survives a wipe.
func (s *Store) ClearAll(ctx context.Context) error {
	for _, key := range []string{KeyExpenses, KeyMonthlyTarget, KeyGoal, KeyReminderTime} {
		if err := s.kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("%w: clear %s: %v", ErrWriteFailed, key, err)
		}
	}
	slog.InfoContext(ctx, "All data cleared, theme retained")
	return nil
}

func (s *Store) writeExpenses(ctx context.Context, expenses []core.Expense) error {
	if expenses == nil {
		expenses = []core.Expense{}
	}
	raw, err := json.Marshal(expenses)
	if err != nil {
		return fmt.Errorf("%w: encode expenses: %v", ErrWriteFailed, err)
	}
	if err := s.kv.Set(ctx, KeyExpenses, string(raw)); err != nil {
		return fmt.Errorf("%w: expenses: %v", ErrWriteFailed, err)
	}
	return nil
}

func (s *Store) writeGoal(ctx context.Context, goal core.SavingsGoal) error {
	raw, err := json.Marshal(goal)
	if err != nil {
		return fmt.Errorf("%w: encode goal: %v", ErrWriteFailed, err)
	}
	if err := s.kv.Set(ctx, KeyGoal, string(raw)); err != nil {
		return fmt.Errorf("%w: goal: %v", ErrWriteFailed, err)
	}
	return nil
}
