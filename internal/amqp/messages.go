package amqp

import (
	"encoding/json"
	"time"
)

// NotificationMessage carries one fully rendered notification through the
// queue. The consumer only delivers it; no budget data or decisions travel
// here.
type NotificationMessage struct {
	BudgetID  string    `json:"budget_id"`
	Subject   string    `json:"subject"`
	Text      string    `json:"text"`
	HTML      string    `json:"html"`
	Timestamp time.Time `json:"timestamp"`
}

// NewNotificationMessage creates a message stamped with the current time.
func NewNotificationMessage(budgetID, subject, text, html string) *NotificationMessage {
	return &NotificationMessage{
		BudgetID:  budgetID,
		Subject:   subject,
		Text:      text,
		HTML:      html,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *NotificationMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// NotificationMessageFromJSON creates a message from JSON bytes.
func NotificationMessageFromJSON(data []byte) (*NotificationMessage, error) {
	var msg NotificationMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
