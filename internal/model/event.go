package model

import "time"

// FormEvent types pushed to websocket subscribers
const (
	EventFormCreated = "form.created"
	EventFormUpdated = "form.updated"
	EventFormDeleted = "form.deleted"
	EventAILogged    = "ai.logged"
)

type FormEvent struct {
	Type       string    `json:"type"`
	FormID     string    `json:"formId"`
	Status     string    `json:"status,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}
