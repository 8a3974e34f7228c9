package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"

	// CategoryOthers is the catch-all bucket for anything unlabeled or unknown.
	CategoryOthers Category = "Others"
)

// Categories is the fixed label set an expense can carry.
var Categories = []Category{
	"Food & Dining",
	"Transportation",
	"Shopping",
	"Bills & Utilities",
	"Entertainment",
	"Healthcare",
	CategoryOthers,
}

type (
	Category string

	Theme string

	// Date is a calendar day with no time-of-day component. Its canonical
	// form is the zero-padded ISO string "YYYY-MM-DD", which makes lexical
	// comparison on the string form equivalent to chronological order.
	Date struct {
		time.Time
	}

	// TimeOfDay is a wall-clock hour:minute with no timezone handling beyond
	// the local device clock.
	TimeOfDay struct {
		Hour   int
		Minute int
	}

	Expense struct {
		ID            string    `json:"id"`
		Amount        Money     `json:"amount"`
		Category      Category  `json:"category"`
		Description   string    `json:"description"`
		PaymentMethod string    `json:"paymentMethod"`
		Date          Date      `json:"date"`
		Timestamp     time.Time `json:"timestamp"`
	}

	// ExpensePatch carries optional field updates merged into an existing
	// expense by id. Nil fields are left untouched.
	ExpensePatch struct {
		Amount        *Money    `json:"amount,omitempty"`
		Category      *Category `json:"category,omitempty"`
		Description   *string   `json:"description,omitempty"`
		PaymentMethod *string   `json:"paymentMethod,omitempty"`
		Date          *Date     `json:"date,omitempty"`
	}

	// SavingsGoal is the single optional savings goal. Setting a new one
	// replaces the prior. CreatedAt is informational only.
	SavingsGoal struct {
		Amount     Money     `json:"amount"`
		TargetDate Date      `json:"targetDate"`
		CreatedAt  time.Time `json:"createdAt"`
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrFutureDate      = errors.New("date is in the future")
	ErrEmptyCategory   = errors.New("empty category")
	ErrUnknownCategory = errors.New("unknown category")
	ErrInvalidTime     = errors.New("invalid time of day")
	ErrInvalidTheme    = errors.New("invalid theme")
	ErrPastGoalDate    = errors.New("goal target date must be in the future")
)

const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day in the local timezone.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)}
}

// DateOf truncates an instant to its local calendar day.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, t.Location())}
}

// ParseDate parses the canonical "YYYY-MM-DD" form.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String returns the canonical zero-padded ISO form.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// YearMonth returns the first 7 characters of the canonical form ("YYYY-MM").
func (d Date) YearMonth() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01")
}

// After reports whether d is strictly after other, comparing calendar days.
func (d Date) After(other Date) bool {
	return d.String() > other.String()
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDate, b)
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseTimeOfDay parses the "HH:MM" form used by the reminder setting.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	var t TimeOfDay
	if _, err := fmt.Sscanf(parts[0]+" "+parts[1], "%d %d", &t.Hour, &t.Minute); err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	if err := t.Validate(); err != nil {
		return TimeOfDay{}, err
	}
	return t, nil
}

func (t TimeOfDay) Validate() error {
	if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 {
		return fmt.Errorf("%w: %02d:%02d", ErrInvalidTime, t.Hour, t.Minute)
	}
	return nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// On anchors the time-of-day to the calendar day of the given instant.
func (t TimeOfDay) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour, t.Minute, 0, 0, day.Location())
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidTime, b)
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Normalize trims the label and coerces empty labels to the catch-all
// bucket.
func (c Category) Normalize() Category {
	trimmed := strings.TrimSpace(string(c))
	if trimmed == "" {
		return CategoryOthers
	}
	return Category(trimmed)
}

// Known reports whether the label belongs to the fixed set.
func (c Category) Known() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

func (c Category) Validate() error {
	if strings.TrimSpace(string(c)) == "" {
		return ErrEmptyCategory
	}
	if !c.Known() {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, string(c))
	}
	return nil
}

func (t Theme) Validate() error {
	switch t {
	case ThemeLight, ThemeDark:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidTheme, string(t))
	}
}

func (e Expense) Validate() error {
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if err := e.Category.Validate(); err != nil {
		return err
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

func (g SavingsGoal) Validate() error {
	if err := g.Amount.Validate(); err != nil {
		return err
	}
	return g.TargetDate.Validate()
}

// Apply merges the non-nil patch fields into the expense.
func (p ExpensePatch) Apply(e Expense) Expense {
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.PaymentMethod != nil {
		e.PaymentMethod = *p.PaymentMethod
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	return e
}
