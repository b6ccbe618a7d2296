package alerts

import (
	"encoding/csv"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Loftsmart/loft73-inventory-server/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler exposes the webhook ingress and the notification log REST surface.
type Handler struct {
	svc      *Service
	store    *Store
	verifier *Verifier
}

func NewHandler(svc *Service, store *Store, verifier *Verifier) *Handler {
	return &Handler{svc: svc, store: store, verifier: verifier}
}

// HandleWebhook accepts one back-in-stock notification. The same handler
// serves every configured path alias; the alias that received the delivery
// is recorded on the notification.
func (h *Handler) HandleWebhook(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "unable to read request body", nil)
		return
	}

	if h.verifier.Enabled() {
		if err := h.verifier.Verify(raw, c.GetHeader(SignatureHeader)); err != nil {
			httpkit.HandleError(c, err)
			return
		}
	}

	notification, err := h.svc.Ingest(c.Request.Context(), raw, c.FullPath())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"success": true, "id": notification.ID, "message": "webhook received"})
}

// List handles GET /api/notifications.
func (h *Handler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			httpkit.Error(c, http.StatusBadRequest, "limit must be a non-negative integer", nil)
			return
		}
		limit = parsed
	}

	notifications, total := h.store.List(limit, c.Query("event"))

	httpkit.OK(c, gin.H{"success": true, "notifications": notifications, "total": total})
}

// Get handles GET /api/notifications/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusNotFound, "notification not found", nil)
		return
	}

	notification, ok := h.store.Get(id)
	if !ok {
		httpkit.Error(c, http.StatusNotFound, "notification not found", nil)
		return
	}

	httpkit.OK(c, gin.H{"success": true, "notification": notification})
}

// Delete handles DELETE /api/notifications/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || !h.store.Delete(id) {
		httpkit.Error(c, http.StatusNotFound, "notification not found", nil)
		return
	}

	httpkit.OK(c, gin.H{"success": true})
}

// Clear handles DELETE /api/notifications.
func (h *Handler) Clear(c *gin.Context) {
	removed := h.store.Clear()
	httpkit.OK(c, gin.H{"success": true, "removed": removed})
}

var exportHeader = []string{
	"id", "received_at", "event", "product_id", "product_title",
	"variant_title", "variant_color", "customer_email", "quantity", "source_path",
}

// Export handles GET /api/notifications/export. It streams the log as CSV
// with the same filters the list endpoint takes.
func (h *Handler) Export(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			httpkit.Error(c, http.StatusBadRequest, "limit must be a non-negative integer", nil)
			return
		}
		limit = parsed
	}

	notifications, _ := h.store.List(limit, c.Query("event"))

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=notifications.csv")

	writer := csv.NewWriter(c.Writer)
	if err := writer.Write(exportHeader); err != nil {
		return
	}
	for _, n := range notifications {
		record := []string{
			n.ID.String(),
			n.ReceivedAt.Format(time.RFC3339),
			n.Event,
			n.ProductID,
			n.ProductTitle,
			n.VariantTitle,
			n.VariantColor,
			n.CustomerEmail,
			strconv.Itoa(n.Quantity),
			n.SourcePath,
		}
		if err := writer.Write(record); err != nil {
			return
		}
	}
	writer.Flush()
}

type generateTestRequest struct {
	Count int `json:"count"`
}

// GenerateTest handles POST /api/notifications/test. An empty body generates
// a single sample; count is capped at 50.
func (h *Handler) GenerateTest(c *gin.Context) {
	req := generateTestRequest{Count: 1}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		httpkit.Error(c, http.StatusBadRequest, "count must be an integer", nil)
		return
	}

	if req.Count < 1 {
		req.Count = 1
	}
	if req.Count > 50 {
		req.Count = 50
	}

	notifications, err := h.svc.GenerateSamples(c.Request.Context(), req.Count, c.FullPath())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"success": true, "notifications": notifications, "total": len(notifications)})
}
