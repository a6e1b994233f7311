// Package amqp carries outbound chat notifications through RabbitMQ so the
// request path never blocks on the Telegram API. The worker binary consumes
// the queue and delivers.
package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Notification kinds, used for logging and metrics only; the worker treats
// every message the same way.
const (
	KindExpenseAdded    = "expense_added"
	KindOverDailyBudget = "over_daily_budget"
	KindLowBalance      = "low_balance"
	KindReminder        = "reminder"
)

// Notification is one outbound message. Text is already formatted in
// Telegram HTML by the producer.
type Notification struct {
	Kind      string    `json:"kind"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// NewNotification stamps a notification with the current time.
func NewNotification(kind, text string) *Notification {
	return &Notification{Kind: kind, Text: text, CreatedAt: time.Now().UTC()}
}

// ToJSON serializes the notification for publishing.
func (n *Notification) ToJSON() ([]byte, error) {
	body, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("marshal notification: %w", err)
	}
	return body, nil
}

// NotificationFromJSON deserializes a consumed message body.
func NotificationFromJSON(body []byte) (*Notification, error) {
	var n Notification
	if err := json.Unmarshal(body, &n); err != nil {
		return nil, fmt.Errorf("unmarshal notification: %w", err)
	}
	if n.Kind == "" || n.Text == "" {
		return nil, fmt.Errorf("notification missing kind or text")
	}
	return &n, nil
}
