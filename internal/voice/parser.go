// Package voice turns a speech transcript into a draft expense. The parsing
// is deliberately loose: a number anywhere is the amount, the first category
// whose keyword appears wins, and the leftover text becomes the description.
package voice

import (
	"regexp"
	"strings"

	"moneytrack/internal/core"
)

// ParsedExpense is the draft extracted from a transcript. Amount is nil when
// no number was heard; the caller decides how to prompt for it.
type ParsedExpense struct {
	Amount      *core.Money   `json:"amount,omitempty"`
	Category    core.Category `json:"category"`
	Description string        `json:"description"`
}

var amountPattern = regexp.MustCompile(`\d+(?:\.\d{2})?`)

// Ordered to match the category list; first keyword hit wins.
var categoryKeywords = []struct {
	category core.Category
	keywords []string
}{
	{core.Category("Food & Dining"), []string{
		"food", "dining", "restaurant", "lunch", "dinner", "breakfast",
		"snack", "coffee", "tea", "meal", "eat", "hungry",
	}},
	{core.Category("Transportation"), []string{
		"transport", "taxi", "uber", "ola", "bus", "train", "metro",
		"auto", "rickshaw", "fuel", "petrol", "diesel", "travel",
	}},
	{core.Category("Shopping"), []string{
		"shopping", "buy", "purchase", "mall", "store", "market",
		"clothes", "shirt", "pants", "shoes",
	}},
	{core.Category("Bills & Utilities"), []string{
		"bill", "electricity", "water", "phone", "internet", "wifi",
		"utility", "rent", "maintenance",
	}},
	{core.Category("Entertainment"), []string{
		"movie", "cinema", "game", "entertainment", "fun", "party",
		"concert", "show",
	}},
	{core.Category("Healthcare"), []string{
		"medicine", "doctor", "hospital", "pharmacy", "medical",
		"health", "clinic",
	}},
}

var fillerPattern = regexp.MustCompile(`(?i)\b(spent|on|for|rupees|rs|rupee|add|expense)\b`)

// Parse extracts an amount, category, and description from a transcript like
// "spent 250 on lunch".
func Parse(transcript string) ParsedExpense {
	lower := strings.ToLower(transcript)

	var amount *core.Money
	amountText := amountPattern.FindString(transcript)
	if amountText != "" {
		if cents, err := core.ParseDecimalToCents(amountText); err == nil {
			amount = &core.Money{Cents: cents}
		}
	}

	category := core.CategoryOthers
	for _, entry := range categoryKeywords {
		if containsAny(lower, entry.keywords) {
			category = entry.category
			break
		}
	}

	description := transcript
	if amountText != "" {
		description = strings.Replace(description, amountText, "", 1)
	}
	description = fillerPattern.ReplaceAllString(description, "")
	description = strings.Join(strings.Fields(description), " ")
	if len([]rune(description)) < 3 {
		description = string(category)
	}

	return ParsedExpense{
		Amount:      amount,
		Category:    category,
		Description: description,
	}
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
