// Package services orchestrates tracker commands and report queries on top
// of the persistent store.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"moneytrack/internal/core"
	"moneytrack/internal/report"
	"moneytrack/internal/store"
)

// Notifier publishes tracker events to the notification surface. A nil
// Notifier is valid and disables publishing.
type Notifier interface {
	PublishReminderDue(ctx context.Context, status string) error
	PublishExpenseAdded(ctx context.Context, expenseID string, amountCents int64, category, date string) error
}

// Tracker is the single entry point for mutations and views. Writes flow
// through the store's whole-family semantics; views recompute from the raw
// expense list on every call.
type Tracker struct {
	store    *store.Store
	clock    core.Clock
	notifier Notifier
	currency string

	mu     sync.Mutex
	lastID int64
}

func NewTracker(st *store.Store, clock core.Clock, notifier Notifier, currencySymbol string) *Tracker {
	if clock == nil {
		clock = core.SystemClock{}
	}
	return &Tracker{
		store:    st,
		clock:    clock,
		notifier: notifier,
		currency: currencySymbol,
	}
}

// NewExpenseInput carries the fields of an expense to record. Date is
// optional and defaults to today; Description defaults to the category name.
type NewExpenseInput struct {
	Amount        core.Money
	Category      core.Category
	Description   string
	PaymentMethod string
	Date          *core.Date
}

// AddExpense validates and records an expense, then announces it best-effort.
func (t *Tracker) AddExpense(ctx context.Context, in NewExpenseInput) (core.Expense, error) {
	if err := in.Amount.Validate(); err != nil {
		return core.Expense{}, err
	}

	// An explicit category is required here; only the voice flow falls back
	// to the catch-all bucket.
	if err := in.Category.Validate(); err != nil && errors.Is(err, core.ErrEmptyCategory) {
		return core.Expense{}, err
	}
	category := in.Category.Normalize()
	if err := category.Validate(); err != nil {
		return core.Expense{}, err
	}

	now := t.clock.Now()
	today := core.DateOf(now)

	date := today
	if in.Date != nil {
		date = *in.Date
		if err := date.Validate(); err != nil {
			return core.Expense{}, err
		}
		if date.After(today) {
			return core.Expense{}, core.ErrFutureDate
		}
	}

	description := in.Description
	if description == "" {
		description = string(category)
	}

	expense := core.Expense{
		ID:            t.nextID(now.UnixMilli()),
		Amount:        in.Amount,
		Category:      category,
		Description:   description,
		PaymentMethod: in.PaymentMethod,
		Date:          date,
		Timestamp:     now,
	}

	if err := t.store.AddExpense(ctx, expense); err != nil {
		return core.Expense{}, fmt.Errorf("add expense: %w", err)
	}

	if t.notifier != nil {
		err := t.notifier.PublishExpenseAdded(ctx, expense.ID, expense.Amount.Cents,
			string(expense.Category), expense.Date.String())
		if err != nil {
			// The expense is already saved; publishing is advisory.
			slog.ErrorContext(ctx, "Failed to publish expense added message",
				"id", expense.ID, "error", err)
		}
	}

	return expense, nil
}

// nextID derives the id from the wall-clock millisecond, bumped past the
// previous id when two expenses land in the same millisecond.
func (t *Tracker) nextID(ms int64) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if ms <= t.lastID {
		ms = t.lastID + 1
	}
	t.lastID = ms
	return strconv.FormatInt(ms, 10)
}

// UpdateExpense merges a patch into the expense with the given id. Returns
// false when no expense matches.
func (t *Tracker) UpdateExpense(ctx context.Context, id string, patch core.ExpensePatch) (bool, error) {
	if patch.Amount != nil {
		if err := patch.Amount.Validate(); err != nil {
			return false, err
		}
	}
	if patch.Category != nil {
		normalized := patch.Category.Normalize()
		if err := normalized.Validate(); err != nil {
			return false, err
		}
		patch.Category = &normalized
	}
	if patch.Date != nil {
		if err := patch.Date.Validate(); err != nil {
			return false, err
		}
		if patch.Date.After(t.Today()) {
			return false, core.ErrFutureDate
		}
	}
	return t.store.UpdateExpense(ctx, id, patch)
}

func (t *Tracker) DeleteExpense(ctx context.Context, id string) error {
	return t.store.DeleteExpense(ctx, id)
}

func (t *Tracker) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	return t.store.ListExpenses(ctx)
}

// DailyReport is one day's expenses with totals and chart series.
type DailyReport struct {
	Date       core.Date               `json:"date"`
	Total      core.Money              `json:"total"`
	Count      int                     `json:"count"`
	ByCategory []report.CategoryAmount `json:"byCategory"`
	ByTimeSlot []report.SlotAmount     `json:"byTimeSlot"`
	Expenses   []core.Expense          `json:"expenses"`
}

func (t *Tracker) DailyReport(ctx context.Context, date core.Date) (DailyReport, error) {
	expenses, err := t.store.ExpensesOnDate(ctx, date)
	if err != nil {
		return DailyReport{}, fmt.Errorf("daily report: %w", err)
	}
	return DailyReport{
		Date:       date,
		Total:      report.SumAmount(expenses),
		Count:      len(expenses),
		ByCategory: report.GroupByCategory(expenses),
		ByTimeSlot: report.GroupByTimeSlot(expenses),
		Expenses:   expenses,
	}, nil
}

// MonthlyReport is one month's expenses with target progress, the daily
// spend trend, and the category breakdown.
type MonthlyReport struct {
	Month         string                  `json:"month"`
	Total         core.Money              `json:"total"`
	Count         int                     `json:"count"`
	Target        *core.Money             `json:"target,omitempty"`
	Progress      *report.TargetProgress  `json:"progress,omitempty"`
	Trend         []report.DateAmount     `json:"trend"`
	Breakdown     []report.CategoryAmount `json:"breakdown"`
	TopCategories []report.CategoryAmount `json:"topCategories"`
}

const (
	breakdownSize     = 6
	topCategoriesSize = 5
)

func (t *Tracker) MonthlyReport(ctx context.Context, yearMonth string) (MonthlyReport, error) {
	expenses, err := t.store.ExpensesInMonth(ctx, yearMonth)
	if err != nil {
		return MonthlyReport{}, fmt.Errorf("monthly report: %w", err)
	}

	target, err := t.store.MonthlyTarget(ctx)
	if err != nil {
		return MonthlyReport{}, fmt.Errorf("monthly report: %w", err)
	}

	rep := MonthlyReport{
		Month:         yearMonth,
		Total:         report.SumAmount(expenses),
		Count:         len(expenses),
		Target:        target,
		Trend:         report.DailyTotalsSorted(expenses),
		Breakdown:     report.CategoryBreakdownTopNPlusOthers(expenses, breakdownSize),
		TopCategories: report.TopCategories(expenses, topCategoriesSize),
	}
	if target != nil {
		progress := report.ProgressAgainstTarget(*target, rep.Total)
		rep.Progress = &progress
	}
	return rep, nil
}

// Dashboard is the landing view: today's and this month's totals plus the
// most recent expenses of the day, newest first.
type Dashboard struct {
	Date       core.Date              `json:"date"`
	TodayTotal core.Money             `json:"todayTotal"`
	TodayCount int                    `json:"todayCount"`
	MonthTotal core.Money             `json:"monthTotal"`
	Progress   *report.TargetProgress `json:"progress,omitempty"`
	Recent     []core.Expense         `json:"recent"`
}

const recentSize = 5

// Today reports the current calendar day on the injected clock.
func (t *Tracker) Today() core.Date {
	return core.DateOf(t.clock.Now())
}

func (t *Tracker) Dashboard(ctx context.Context) (Dashboard, error) {
	today := t.Today()

	todays, err := t.store.ExpensesOnDate(ctx, today)
	if err != nil {
		return Dashboard{}, fmt.Errorf("dashboard: %w", err)
	}

	monthly, err := t.store.ExpensesInMonth(ctx, today.YearMonth())
	if err != nil {
		return Dashboard{}, fmt.Errorf("dashboard: %w", err)
	}

	target, err := t.store.MonthlyTarget(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("dashboard: %w", err)
	}

	d := Dashboard{
		Date:       today,
		TodayTotal: report.SumAmount(todays),
		TodayCount: len(todays),
		MonthTotal: report.SumAmount(monthly),
		Recent:     recentOf(todays, recentSize),
	}
	if target != nil {
		progress := report.ProgressAgainstTarget(*target, d.MonthTotal)
		d.Progress = &progress
	}
	return d, nil
}

// recentOf returns the last n expenses newest first.
func recentOf(expenses []core.Expense, n int) []core.Expense {
	if len(expenses) > n {
		expenses = expenses[len(expenses)-n:]
	}
	recent := make([]core.Expense, 0, len(expenses))
	for i := len(expenses) - 1; i >= 0; i-- {
		recent = append(recent, expenses[i])
	}
	return recent
}

func (t *Tracker) MonthlyTarget(ctx context.Context) (*core.Money, error) {
	return t.store.MonthlyTarget(ctx)
}

// SetMonthlyTarget stores the target; nil clears it.
func (t *Tracker) SetMonthlyTarget(ctx context.Context, target *core.Money) error {
	if target != nil {
		if err := target.Validate(); err != nil {
			return err
		}
	}
	return t.store.SetMonthlyTarget(ctx, target)
}

// SetGoal replaces the savings goal. The target date must be strictly after
// today.
func (t *Tracker) SetGoal(ctx context.Context, amount core.Money, targetDate core.Date) (core.SavingsGoal, error) {
	if err := amount.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}
	if err := targetDate.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}
	if !targetDate.After(t.Today()) {
		return core.SavingsGoal{}, core.ErrPastGoalDate
	}
	return t.store.SetGoal(ctx, amount, targetDate)
}

func (t *Tracker) ClearGoal(ctx context.Context) error {
	return t.store.ClearGoal(ctx)
}

// GoalOverview projects the saved goal into its required daily and weekly
// pace. Returns nil when no goal is set.
func (t *Tracker) GoalOverview(ctx context.Context) (*report.GoalProjection, error) {
	goal, err := t.store.Goal(ctx)
	if err != nil {
		return nil, fmt.Errorf("goal overview: %w", err)
	}
	if goal == nil {
		return nil, nil
	}
	projection := report.ProjectGoal(*goal, t.clock.Now())
	return &projection, nil
}

func (t *Tracker) ReminderTime(ctx context.Context) (*core.TimeOfDay, error) {
	return t.store.ReminderTime(ctx)
}

func (t *Tracker) SetReminderTime(ctx context.Context, at core.TimeOfDay) error {
	if err := at.Validate(); err != nil {
		return err
	}
	return t.store.SetReminderTime(ctx, at)
}

func (t *Tracker) Theme(ctx context.Context) (core.Theme, error) {
	return t.store.Theme(ctx)
}

func (t *Tracker) SetTheme(ctx context.Context, theme core.Theme) error {
	return t.store.SetTheme(ctx, theme)
}

func (t *Tracker) Export(ctx context.Context) ([]byte, error) {
	return t.store.ExportAll(ctx)
}

func (t *Tracker) Import(ctx context.Context, data []byte) error {
	return t.store.ImportAll(ctx, data)
}

func (t *Tracker) ClearAll(ctx context.Context) error {
	return t.store.ClearAll(ctx)
}

// CurrencySymbol is the configured display symbol for amounts.
func (t *Tracker) CurrencySymbol() string {
	return t.currency
}
