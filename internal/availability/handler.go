package availability

import (
	"net/http"

	"github.com/Loftsmart/loft73-inventory-server/platform/httpkit"
	"github.com/Loftsmart/loft73-inventory-server/platform/validator"

	"github.com/gin-gonic/gin"
)

type availabilityRequest struct {
	Products []ExternalProduct `json:"products" validate:"required,min=1"`
}

// Handler exposes the availability check endpoint.
type Handler struct {
	svc *Service
	val *validator.Validator
}

func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// CheckAvailability handles POST /api/shopify/products-availability.
func (h *Handler) CheckAvailability(c *gin.Context) {
	var req availabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "products must be an array of objects", nil)
		return
	}

	// Element shape (each entry needs a usable name) is checked by the
	// match session, which reports the offending index.
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "products array is required and must not be empty", validator.Messages(err))
		return
	}

	report, err := h.svc.CheckAvailability(c.Request.Context(), req.Products)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, report)
}
