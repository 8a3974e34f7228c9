// Package reminder evaluates the daily reminder setting against the clock
// and drives the notification publisher.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"moneytrack/internal/core"
	"moneytrack/internal/report"
	"moneytrack/internal/store"
)

// tolerance is how far past the configured time a check may land and still
// count as due. Checks run once a minute, so one minute covers the gap.
const tolerance = time.Minute

// Notifier publishes a due reminder. Satisfied by the AMQP client.
type Notifier interface {
	PublishReminderDue(ctx context.Context, status string) error
}

// Decision is the outcome of a single reminder check.
type Decision struct {
	Due    bool
	Status string
}

// Checker decides whether the daily reminder is due right now.
type Checker struct {
	store    *store.Store
	clock    core.Clock
	currency string
}

func NewChecker(st *store.Store, clock core.Clock, currencySymbol string) *Checker {
	if clock == nil {
		clock = core.SystemClock{}
	}
	return &Checker{store: st, clock: clock, currency: currencySymbol}
}

// Check reports whether the reminder is due at the current instant. Due means
// a reminder time is configured and now falls within the tolerance window
// starting at that time today. The status line summarizes today's spending.
func (c *Checker) Check(ctx context.Context) (Decision, error) {
	at, err := c.store.ReminderTime(ctx)
	if err != nil {
		return Decision{}, fmt.Errorf("reminder check: %w", err)
	}
	if at == nil {
		return Decision{}, nil
	}

	now := c.clock.Now()
	scheduled := at.On(now)
	elapsed := now.Sub(scheduled)
	if elapsed < 0 || elapsed >= tolerance {
		return Decision{}, nil
	}

	status, err := c.statusLine(ctx, now)
	if err != nil {
		return Decision{}, err
	}
	return Decision{Due: true, Status: status}, nil
}

func (c *Checker) statusLine(ctx context.Context, now time.Time) (string, error) {
	todays, err := c.store.ExpensesOnDate(ctx, core.DateOf(now))
	if err != nil {
		return "", fmt.Errorf("reminder status: %w", err)
	}
	if len(todays) == 0 {
		return "You haven't tracked any expenses today!", nil
	}
	total := report.SumAmount(todays)
	return fmt.Sprintf("You've tracked %d expenses today totaling %s.",
		len(todays), total.Display(c.currency)), nil
}

// Scheduler runs the checker on an interval and publishes at most one
// reminder per calendar day.
type Scheduler struct {
	checker  *Checker
	notifier Notifier
	clock    core.Clock
	interval time.Duration

	lastNotified string // canonical date of the last published reminder
}

func NewScheduler(checker *Checker, notifier Notifier, clock core.Clock, interval time.Duration) *Scheduler {
	if clock == nil {
		clock = core.SystemClock{}
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		checker:  checker,
		notifier: notifier,
		clock:    clock,
		interval: interval,
	}
}

// Run checks immediately and then on every tick until the context is
// cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	slog.InfoContext(ctx, "Reminder scheduler started", "interval", s.interval)

	s.tick(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Reminder scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	decision, err := s.checker.Check(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Reminder check failed", "error", err)
		return
	}
	if !decision.Due {
		return
	}

	today := core.DateOf(s.clock.Now()).String()
	if s.lastNotified == today {
		return
	}

	if err := s.notifier.PublishReminderDue(ctx, decision.Status); err != nil {
		// Leave lastNotified unset so the next tick inside the window
		// retries.
		slog.ErrorContext(ctx, "Failed to publish reminder", "error", err)
		return
	}

	s.lastNotified = today
	slog.InfoContext(ctx, "Published daily reminder", "status", decision.Status)
}
