// Package store implements the typed persistence layer for the five record
// families: expenses, monthly target, savings goal, reminder time, and theme.
//
// Each family is stored under its own key as one textual value, and every
// mutation is a whole-family read-modify-write. Atomicity is therefore
// last-write-wins at family granularity; there is no referential integrity
// between families.
package store

import (
	"context"
	"errors"
)

// Keys for the persisted families.
const (
	KeyExpenses      = "money_tracker_expenses"
	KeyMonthlyTarget = "money_tracker_monthly_target"
	KeyGoal          = "money_tracker_goal"
	KeyReminderTime  = "money_tracker_reminder_time"
	KeyTheme         = "money_tracker_theme"
)

var (
	// ErrWriteFailed signals that the underlying storage rejected a write.
	// The caller must surface it and must not assume the record was saved.
	ErrWriteFailed = errors.New("storage write failed")

	// ErrImport signals a malformed snapshot document. Nothing was applied.
	ErrImport = errors.New("malformed snapshot")
)

// KV is the storage port the typed store is built on: get/set/remove over
// string keys. Implementations live in store/memory and storage (SQLite).
type KV interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set stores the value under key, overwriting any prior value.
	Set(ctx context.Context, key, value string) error
	// Delete removes the key. Removing an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
