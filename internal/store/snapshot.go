package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"moneytrack/internal/core"
)

// Snapshot is the exported/imported state document covering all families at
// one instant. Unset scalars are omitted rather than emitted as null.
type Snapshot struct {
	Expenses      []core.Expense    `json:"expenses"`
	MonthlyTarget *core.Money       `json:"monthlyTarget,omitempty"`
	Goal          *core.SavingsGoal `json:"goal,omitempty"`
	ReminderTime  string            `json:"reminderTime,omitempty"`
	ExportDate    time.Time         `json:"exportDate"`
}

// ExportAll serializes the full store state. Theme is a device preference and
// is not part of the portable snapshot.
func (s *Store) ExportAll(ctx context.Context) ([]byte, error) {
	expenses, err := s.ListExpenses(ctx)
	if err != nil {
		return nil, err
	}
	if expenses == nil {
		expenses = []core.Expense{}
	}
	target, err := s.MonthlyTarget(ctx)
	if err != nil {
		return nil, err
	}
	goal, err := s.Goal(ctx)
	if err != nil {
		return nil, err
	}
	reminder, err := s.ReminderTime(ctx)
	if err != nil {
		return nil, err
	}

	snap := Snapshot{
		Expenses:      expenses,
		MonthlyTarget: target,
		Goal:          goal,
		ExportDate:    s.clock.Now(),
	}
	if reminder != nil {
		snap.ReminderTime = reminder.String()
	}
	return json.MarshalIndent(snap, "", "  ")
}

// rawSnapshot keeps presence information that the typed Snapshot loses:
// an absent field, an explicit null, and a present value each behave
// differently on import.
type rawSnapshot struct {
	Expenses      json.RawMessage `json:"expenses"`
	MonthlyTarget json.RawMessage `json:"monthlyTarget"`
	Goal          json.RawMessage `json:"goal"`
	ReminderTime  json.RawMessage `json:"reminderTime"`
}

// ImportAll replaces store state from a snapshot document. Expenses are
// replaced wholesale iff the field is an array; the scalar families are
// replaced only if present in the payload, and fields absent from the payload
// are left untouched. The whole document is parsed and validated before
// anything is written, so a malformed payload leaves the store unchanged.
func (s *Store) ImportAll(ctx context.Context, data []byte) error {
	var raw rawSnapshot
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("%w: %v", ErrImport, err)
	}

	// Parse phase: validate every present family before applying any.
	var (
		expenses      []core.Expense
		applyExpenses bool
	)
	if len(raw.Expenses) > 0 && !isNull(raw.Expenses) {
		if !isArray(raw.Expenses) {
			return fmt.Errorf("%w: expenses field is not an array", ErrImport)
		}
		if err := json.Unmarshal(raw.Expenses, &expenses); err != nil {
			return fmt.Errorf("%w: expenses: %v", ErrImport, err)
		}
		for i, e := range expenses {
			if err := e.Validate(); err != nil {
				return fmt.Errorf("%w: expenses[%d]: %v", ErrImport, i, err)
			}
		}
		applyExpenses = true
	}

	var (
		target      *core.Money
		applyTarget bool
	)
	if len(raw.MonthlyTarget) > 0 {
		applyTarget = true
		if !isNull(raw.MonthlyTarget) {
			var m core.Money
			if err := json.Unmarshal(raw.MonthlyTarget, &m); err != nil {
				return fmt.Errorf("%w: monthlyTarget: %v", ErrImport, err)
			}
			if err := m.Validate(); err != nil {
				return fmt.Errorf("%w: monthlyTarget: %v", ErrImport, err)
			}
			target = &m
		}
	}

	var goal *core.SavingsGoal
	if len(raw.Goal) > 0 && !isNull(raw.Goal) {
		var g core.SavingsGoal
		if err := json.Unmarshal(raw.Goal, &g); err != nil {
			return fmt.Errorf("%w: goal: %v", ErrImport, err)
		}
		if err := g.Validate(); err != nil {
			return fmt.Errorf("%w: goal: %v", ErrImport, err)
		}
		goal = &g
	}

	var reminder *core.TimeOfDay
	if len(raw.ReminderTime) > 0 && !isNull(raw.ReminderTime) {
		var str string
		if err := json.Unmarshal(raw.ReminderTime, &str); err != nil {
			return fmt.Errorf("%w: reminderTime: %v", ErrImport, err)
		}
		if str != "" {
			t, err := core.ParseTimeOfDay(str)
			if err != nil {
				return fmt.Errorf("%w: reminderTime: %v", ErrImport, err)
			}
			reminder = &t
		}
	}

	// Apply phase.
	if applyExpenses {
		if err := s.writeExpenses(ctx, expenses); err != nil {
			return err
		}
	}
	if applyTarget {
		if err := s.SetMonthlyTarget(ctx, target); err != nil {
			return err
		}
	}
	if goal != nil {
		if err := s.writeGoal(ctx, *goal); err != nil {
			return err
		}
	}
	if reminder != nil {
		if err := s.SetReminderTime(ctx, *reminder); err != nil {
			return err
		}
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}
