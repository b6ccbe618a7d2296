package feed

import (
	"github.com/Loftsmart/loft73-inventory-server/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler exposes the feed proxy endpoint.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Pending handles GET /api/feed/pending.
func (h *Handler) Pending(c *gin.Context) {
	snapshot, cached, err := h.svc.Pending(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{
		"success":   true,
		"cached":    cached,
		"fetchedAt": snapshot.FetchedAt,
		"rows":      snapshot.Rows,
	})
}
