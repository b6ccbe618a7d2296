// Package alerts receives "Back in Stock" webhook notifications, normalizes
// them into the dashboard shape, and keeps them in a bounded in-memory log.
package alerts

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Notification is the dashboard-friendly shape of one webhook delivery.
// Raw carries the original payload untouched for diagnostics.
type Notification struct {
	ID            uuid.UUID       `json:"id"`
	ReceivedAt    time.Time       `json:"receivedAt"`
	Event         string          `json:"event"`
	ProductID     string          `json:"productId"`
	ProductTitle  string          `json:"productTitle"`
	VariantTitle  string          `json:"variantTitle"`
	VariantColor  string          `json:"variantColor"`
	CustomerEmail string          `json:"customerEmail"`
	Quantity      int             `json:"quantity"`
	SourcePath    string          `json:"sourcePath"`
	Raw           json.RawMessage `json:"raw,omitempty"`
}

// webhookPayload is the inbound notification shape. Every field is optional;
// the sender controls the payload and the log is a diagnostic mirror, not a
// validator. Unknown fields are ignored.
type webhookPayload struct {
	Event    string           `json:"event"`
	Product  *webhookProduct  `json:"product"`
	Customer *webhookCustomer `json:"customer"`
	Quantity int              `json:"quantity"`
}

// webhookProduct leaves the id untyped: the sender has delivered it both as
// a JSON number and as a string.
type webhookProduct struct {
	ID           interface{} `json:"id"`
	Title        string      `json:"title"`
	VariantTitle string      `json:"variant_title"`
}

type webhookCustomer struct {
	Email string `json:"email"`
}
