package availability

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Loftsmart/loft73-inventory-server/internal/shopify"
	"github.com/Loftsmart/loft73-inventory-server/platform/logger"
	"github.com/Loftsmart/loft73-inventory-server/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.POST("/api/shopify/products-availability", NewHandler(svc, validator.New()).CheckAvailability)
	return engine
}

func postAvailability(t *testing.T, engine *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/shopify/products-availability", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestCheckAvailabilityEndpoint_EmptyObjectReturns400(t *testing.T) {
	svc := NewService(stubShopifyConfig{configured: true}, &stubCatalog{}, logger.New("test"))
	engine := newTestRouter(svc)

	rec := postAvailability(t, engine, `{}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.NotEmpty(t, body.Error)
}

func TestCheckAvailabilityEndpoint_ProductsNotArrayReturns400(t *testing.T) {
	svc := NewService(stubShopifyConfig{configured: true}, &stubCatalog{}, logger.New("test"))
	engine := newTestRouter(svc)

	rec := postAvailability(t, engine, `{"products": "blue shirt"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestCheckAvailabilityEndpoint_EmptyProductsReturns400(t *testing.T) {
	svc := NewService(stubShopifyConfig{configured: true}, &stubCatalog{}, logger.New("test"))
	engine := newTestRouter(svc)

	rec := postAvailability(t, engine, `{"products": []}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "products")
}

func TestCheckAvailabilityEndpoint_Success(t *testing.T) {
	catalog := &stubCatalog{pages: [][]shopify.Product{
		{{ID: 11, Title: "Blue Shirt", Variants: []shopify.Variant{{ID: 1, InventoryQuantity: qty(6)}}}},
	}}
	svc := NewService(stubShopifyConfig{configured: true}, catalog, logger.New("test"))
	engine := newTestRouter(svc)

	rec := postAvailability(t, engine, `{"products": [{"name": "Blue Shirt", "requestedBy": "jan@example.com"}]}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool `json:"success"`
		Results []struct {
			ExternalProduct   map[string]interface{} `json:"externalProduct"`
			CatalogProduct    shopify.Product        `json:"catalogProduct"`
			AvailableQuantity int64                  `json:"availableQuantity"`
		} `json:"results"`
		Stats Stats `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.True(t, body.Success)
	require.Len(t, body.Results, 1)
	assert.Equal(t, "jan@example.com", body.Results[0].ExternalProduct["requestedBy"])
	assert.EqualValues(t, 11, body.Results[0].CatalogProduct.ID)
	assert.EqualValues(t, 6, body.Results[0].AvailableQuantity)
	assert.Equal(t, 1, body.Stats.TotalExternalProducts)
	assert.Equal(t, "100.00", body.Stats.MatchRate)
}

func TestCheckAvailabilityEndpoint_MissingCredentialsReturns500(t *testing.T) {
	svc := NewService(stubShopifyConfig{configured: false}, &stubCatalog{}, logger.New("test"))
	engine := newTestRouter(svc)

	rec := postAvailability(t, engine, `{"products": [{"name": "Blue Shirt"}]}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "shopify credentials are not configured")
}

func TestCheckAvailabilityEndpoint_UpstreamFailureReturns500(t *testing.T) {
	catalog := &stubCatalog{
		pages: [][]shopify.Product{
			{{ID: 1, Title: "Blue Shirt"}},
			{{ID: 2, Title: "Wool Scarf"}},
		},
		failAt: 2,
	}
	svc := NewService(stubShopifyConfig{configured: true}, catalog, logger.New("test"))
	engine := newTestRouter(svc)

	rec := postAvailability(t, engine, `{"products": [{"name": "Blue Shirt"}]}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
	assert.Contains(t, rec.Body.String(), "502")
}
