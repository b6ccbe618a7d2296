// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"github.com/Loftsmart/loft73-inventory-server/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event     = events.Event
	Bus       = events.Bus
	Handler   = events.Handler
	BaseEvent = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Alerts Domain Events
// =============================================================================

// NotificationReceived is published when a back-in-stock webhook notification
// has been normalized and stored.
type NotificationReceived struct {
	BaseEvent
	NotificationID uuid.UUID `json:"notificationId"`
	Event          string    `json:"event"`
	ProductTitle   string    `json:"productTitle"`
	SourcePath     string    `json:"sourcePath"`
}

func (e NotificationReceived) EventName() string { return "alerts.notification.received" }
