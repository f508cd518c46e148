package dto

import "time"

// AlertResponse describes an operator alert entry.
type AlertResponse struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// FailedNotificationResponse describes a failure-ledger entry.
type FailedNotificationResponse struct {
	ID           int64             `json:"id"`
	Type         string            `json:"type"`
	OrderID      int64             `json:"order_id"`
	Recipient    string            `json:"recipient"`
	ErrorMessage string            `json:"error_message"`
	Status       string            `json:"status"`
	Attempts     int               `json:"attempts"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

// HealthResponse reports service health.
type HealthResponse struct {
	Status string `json:"status"`
}
