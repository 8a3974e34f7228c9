package amqp

import (
	"encoding/json"
	"time"
)

// ReminderDueMessage tells the notification surface that the daily reminder
// fired. Status is the ready-to-display line built by the reminder check.
type ReminderDueMessage struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// ExpenseAddedMessage announces a newly recorded expense so the notification
// surface can confirm it to the user.
type ExpenseAddedMessage struct {
	ExpenseID   string    `json:"expenseId"`
	AmountCents int64     `json:"amountCents"`
	Category    string    `json:"category"`
	Date        string    `json:"date"`
	Timestamp   time.Time `json:"timestamp"`
}

func NewReminderDueMessage(status string, at time.Time) *ReminderDueMessage {
	return &ReminderDueMessage{Status: status, Timestamp: at}
}

func NewExpenseAddedMessage(expenseID string, amountCents int64, category, date string, at time.Time) *ExpenseAddedMessage {
	return &ExpenseAddedMessage{
		ExpenseID:   expenseID,
		AmountCents: amountCents,
		Category:    category,
		Date:        date,
		Timestamp:   at,
	}
}

func (m *ReminderDueMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ReminderDueMessageFromJSON(data []byte) (*ReminderDueMessage, error) {
	var msg ReminderDueMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (m *ExpenseAddedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExpenseAddedMessageFromJSON(data []byte) (*ExpenseAddedMessage, error) {
	var msg ExpenseAddedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
