package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/Loftsmart/loft73-inventory-server/internal/events"
	"github.com/Loftsmart/loft73-inventory-server/platform/apperr"
	"github.com/Loftsmart/loft73-inventory-server/platform/logger"

	"github.com/google/uuid"
)

// Service normalizes webhook deliveries into notifications and records them.
type Service struct {
	store    *Store
	eventBus events.Bus
	log      *logger.Logger
}

func NewService(store *Store, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{store: store, eventBus: eventBus, log: log}
}

// Ingest decodes one webhook delivery, normalizes it into the dashboard
// shape, stores it, and announces it on the event bus. An empty JSON object
// is a valid delivery; a body that is not valid JSON is rejected.
func (s *Service) Ingest(ctx context.Context, raw []byte, sourcePath string) (Notification, error) {
	var payload webhookPayload
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			return Notification{}, apperr.BadRequest("webhook payload is not valid JSON")
		}
	}

	n := Notification{
		ID:         uuid.New(),
		ReceivedAt: time.Now().UTC(),
		Event:      payload.Event,
		Quantity:   payload.Quantity,
		SourcePath: sourcePath,
		Raw:        json.RawMessage(raw),
	}

	if payload.Product != nil {
		n.ProductID = stringifyID(payload.Product.ID)
		n.ProductTitle = payload.Product.Title
		n.VariantTitle = payload.Product.VariantTitle
		n.VariantColor = ExtractColor(payload.Product.VariantTitle)
	}
	if payload.Customer != nil {
		n.CustomerEmail = payload.Customer.Email
	}

	s.store.Add(n)
	s.log.WebhookReceived(sourcePath, n.Event, n.ID.String())

	s.eventBus.Publish(ctx, events.NotificationReceived{
		BaseEvent:      events.NewBaseEvent(),
		NotificationID: n.ID,
		Event:          n.Event,
		ProductTitle:   n.ProductTitle,
		SourcePath:     sourcePath,
	})

	return n, nil
}

var sampleProducts = []struct {
	id      int64
	title   string
	variant string
}{
	{8801, "Linen Shirt", "Navy / M"},
	{8802, "Wool Scarf", "Burgundy / One Size"},
	{8803, "Jute Rug", "Natural / 160x230"},
	{8804, "Ceramic Vase", "Cream / Large"},
	{8805, "Oak Side Table", "Brown / 45cm"},
}

// GenerateSamples fabricates count notifications through the same ingest
// path the real webhook uses, so the dashboard sees production-shaped data.
func (s *Service) GenerateSamples(ctx context.Context, count int, sourcePath string) ([]Notification, error) {
	notifications := make([]Notification, 0, count)

	for i := 0; i < count; i++ {
		sample := sampleProducts[i%len(sampleProducts)]

		payload := map[string]interface{}{
			"event": "back_in_stock",
			"product": map[string]interface{}{
				"id":            sample.id,
				"title":         sample.title,
				"variant_title": sample.variant,
			},
			"customer": map[string]interface{}{
				"email": fmt.Sprintf("shopper%d@example.com", i+1),
			},
			"quantity": i%3 + 1,
		}

		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, apperr.Internal("building sample payload failed")
		}

		n, err := s.Ingest(ctx, raw, sourcePath)
		if err != nil {
			return nil, err
		}

		notifications = append(notifications, n)
	}

	return notifications, nil
}

// stringifyID flattens the sender's id field, which has arrived both as a
// JSON number and as a string in the wild.
func stringifyID(v interface{}) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return fmt.Sprint(id)
	}
}
