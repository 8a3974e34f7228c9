package report

import (
	"time"

	"moneytrack/internal/core"
)

// GoalProjection is the required savings pace for a goal as of "today".
type GoalProjection struct {
	Goal          core.SavingsGoal `json:"goal"`
	DaysRemaining int              `json:"daysRemaining"`
	DailyPace     core.Money       `json:"dailyPace"`
	WeeklyPace    core.Money       `json:"weeklyPace"`
}

// TargetProgress compares the current month's spend with the monthly target.
// Percentage is clamped to 100; Remaining is the true difference and goes
// negative on overspend. Callers must render the two distinctly.
type TargetProgress struct {
	Target     core.Money `json:"target"`
	MonthTotal core.Money `json:"monthTotal"`
	Percentage float64    `json:"percentage"`
	Remaining  core.Money `json:"remaining"`
}

// DaysRemaining counts whole days from today until the target date, both
// normalized to local midnight first.
func DaysRemaining(targetDate core.Date, today time.Time) int {
	const day = 24 * time.Hour
	target := core.DateOf(targetDate.Time)
	from := core.DateOf(today)
	diff := target.Sub(from.Time)
	days := diff / day
	if diff%day > 0 {
		days++
	}
	return int(days)
}

// ProjectGoal derives the daily and weekly savings pace required to reach the
// goal by its target date. When the target date is today or already past the
// pace collapses to the whole amount at once; that degenerate passthrough
// mirrors the stored behavior rather than any real overdue-goal policy.
func ProjectGoal(goal core.SavingsGoal, today time.Time) GoalProjection {
	days := DaysRemaining(goal.TargetDate, today)
	daily := goal.Amount
	if days > 0 {
		daily = core.Money{Cents: divRound(goal.Amount.Cents, int64(days))}
	}
	return GoalProjection{
		Goal:          goal,
		DaysRemaining: days,
		DailyPace:     daily,
		WeeklyPace:    core.Money{Cents: daily.Cents * 7},
	}
}

// ProgressAgainstTarget computes the clamped percentage and the unclamped
// remainder of the monthly target.
func ProgressAgainstTarget(target, monthTotal core.Money) TargetProgress {
	pct := float64(monthTotal.Cents) / float64(target.Cents) * 100
	if pct > 100 {
		pct = 100
	}
	return TargetProgress{
		Target:     target,
		MonthTotal: monthTotal,
		Percentage: pct,
		Remaining:  core.Money{Cents: target.Cents - monthTotal.Cents},
	}
}

// divRound divides cents half-up, keeping pace amounts exact at cent
// granularity.
func divRound(cents, by int64) int64 {
	return (cents + by/2) / by
}
