package models

import "time"

// Alert is a threshold-crossing event queued for delivery to the notification sink.
// It stays pending until delivery is confirmed, or until an operator deletes it.
type Alert struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// TriggerAlertRequest is the request to raise a manual alert.
type TriggerAlertRequest struct {
	Message string `json:"message" validate:"required,min=1,max=2000"`
}

// DeleteAlertRequest deletes a pending alert, by position in the timestamp-ordered
// pending list or by exact timestamp match. Exactly one selector must be set.
type DeleteAlertRequest struct {
	Index     *int       `json:"index,omitempty" validate:"omitempty,min=0"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}
