package port

import (
	"time"

	"github.com/google/uuid"

	"rxlens/internal/domain"
)

// EventType identifies a prescription lifecycle event.
type EventType string

const (
	EventCreated    EventType = "prescription_created"
	EventUpdated    EventType = "prescription_updated"
	EventDeleted    EventType = "prescription_deleted"
	EventProcessing EventType = "prescription_processing"
	EventCompleted  EventType = "prescription_completed"
	EventFailed     EventType = "prescription_failed"
)

// Event is one lifecycle notification pushed to connected clients.
type Event struct {
	Type           EventType               `json:"type"`
	PrescriptionID uuid.UUID               `json:"prescriptionId"`
	Status         domain.ProcessingStatus `json:"status,omitempty"`
	Timestamp      time.Time               `json:"timestamp"`
}

// Broadcaster fans lifecycle events out to all connected listeners.
// Implementations must never block the caller.
type Broadcaster interface {
	Broadcast(event Event)
}
