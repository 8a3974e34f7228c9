// Package report derives day, month, category, and time-slot subtotals from
// an expense collection. Every function is pure and stateless: callers pass
// the full expense snapshot read from the store, nothing is cached.
package report

import (
	"sort"

	"moneytrack/internal/core"
)

const (
	SlotMorning   Slot = "Morning (6-12)"
	SlotAfternoon Slot = "Afternoon (12-17)"
	SlotEvening   Slot = "Evening (17-21)"
	SlotNight     Slot = "Night (21-6)"
)

type (
	// Slot is a named partition of the day by local hour.
	Slot string

	// CategoryAmount is one (label, value) point of a category series.
	CategoryAmount struct {
		Category core.Category `json:"category"`
		Amount   core.Money    `json:"amount"`
	}

	// SlotAmount is one (label, value) point of a time-of-day series.
	SlotAmount struct {
		Slot   Slot       `json:"slot"`
		Amount core.Money `json:"amount"`
	}

	// DateAmount is one (date, value) point of a date-ordered series.
	DateAmount struct {
		Date   core.Date  `json:"date"`
		Amount core.Money `json:"amount"`
	}
)

// Slots lists the four fixed time-of-day buckets in display order.
var Slots = []Slot{SlotMorning, SlotAfternoon, SlotEvening, SlotNight}

// SlotOf maps a local hour-of-day to its bucket.
func SlotOf(hour int) Slot {
	switch {
	case hour >= 6 && hour < 12:
		return SlotMorning
	case hour >= 12 && hour < 17:
		return SlotAfternoon
	case hour >= 17 && hour < 21:
		return SlotEvening
	default:
		return SlotNight
	}
}

// SumAmount returns the arithmetic sum of the amounts, zero for an empty
// sequence.
func SumAmount(expenses []core.Expense) core.Money {
	var total int64
	for _, e := range expenses {
		total += e.Amount.Cents
	}
	return core.Money{Cents: total}
}

// GroupByCategory sums amounts per category in first-encounter order.
// An unlabeled category coerces to the catch-all bucket.
func GroupByCategory(expenses []core.Expense) []CategoryAmount {
	index := make(map[core.Category]int)
	var out []CategoryAmount
	for _, e := range expenses {
		cat := e.Category.Normalize()
		if i, ok := index[cat]; ok {
			out[i].Amount.Cents += e.Amount.Cents
			continue
		}
		index[cat] = len(out)
		out = append(out, CategoryAmount{Category: cat, Amount: e.Amount})
	}
	return out
}

// TopCategories returns the n largest category sums in descending order.
// Ties keep the first-encountered category first: the underlying group order
// is the input order and the sort is stable.
func TopCategories(expenses []core.Expense, n int) []CategoryAmount {
	groups := GroupByCategory(expenses)
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Amount.Cents > groups[j].Amount.Cents
	})
	if n >= 0 && len(groups) > n {
		groups = groups[:n]
	}
	return groups
}

// GroupByTimeSlot buckets amounts by the local hour of each expense
// timestamp. All four slots are present in the result, zero-valued when
// nothing falls into them. An expense without a timestamp contributes to no
// slot.
func GroupByTimeSlot(expenses []core.Expense) []SlotAmount {
	sums := make(map[Slot]int64, len(Slots))
	for _, e := range expenses {
		if e.Timestamp.IsZero() {
			continue
		}
		sums[SlotOf(e.Timestamp.Local().Hour())] += e.Amount.Cents
	}
	out := make([]SlotAmount, 0, len(Slots))
	for _, s := range Slots {
		out = append(out, SlotAmount{Slot: s, Amount: core.Money{Cents: sums[s]}})
	}
	return out
}

// DailyTotalsSorted groups amounts by calendar day in ascending date order.
func DailyTotalsSorted(expenses []core.Expense) []DateAmount {
	sums := make(map[string]int64)
	dates := make(map[string]core.Date)
	for _, e := range expenses {
		key := e.Date.String()
		sums[key] += e.Amount.Cents
		dates[key] = e.Date
	}
	keys := make([]string, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]DateAmount, 0, len(keys))
	for _, k := range keys {
		out = append(out, DateAmount{Date: dates[k], Amount: core.Money{Cents: sums[k]}})
	}
	return out
}

// CategoryBreakdownTopNPlusOthers returns the top n categories by descending
// sum plus one synthetic catch-all bucket summing everything beyond rank n.
// The synthetic bucket is only included when its sum is nonzero.
func CategoryBreakdownTopNPlusOthers(expenses []core.Expense, n int) []CategoryAmount {
	groups := GroupByCategory(expenses)
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Amount.Cents > groups[j].Amount.Cents
	})
	if n < 0 || len(groups) <= n {
		return groups
	}

	out := groups[:n:n]
	var tail int64
	for _, g := range groups[n:] {
		tail += g.Amount.Cents
	}
	if tail != 0 {
		out = append(out, CategoryAmount{Category: core.CategoryOthers, Amount: core.Money{Cents: tail}})
	}
	return out
}
