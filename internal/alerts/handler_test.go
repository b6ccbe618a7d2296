package alerts

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Loftsmart/loft73-inventory-server/internal/events"
	apphttp "github.com/Loftsmart/loft73-inventory-server/internal/http"
	"github.com/Loftsmart/loft73-inventory-server/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubWebhookConfig struct {
	paths    []string
	secret   string
	capacity int
}

func (s stubWebhookConfig) GetWebhookPaths() []string        { return s.paths }
func (s stubWebhookConfig) GetWebhookSigningSecret() string  { return s.secret }
func (s stubWebhookConfig) IsWebhookSigningConfigured() bool { return s.secret != "" }
func (s stubWebhookConfig) GetAlertLogCapacity() int         { return s.capacity }

func newAlertsRouter(t *testing.T, secret string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := stubWebhookConfig{
		paths:    []string{"/webhook/back-in-stock", "/webhooks/back-in-stock", "/api/webhooks/back-in-stock"},
		secret:   secret,
		capacity: 100,
	}

	log := logger.New("test")
	module := NewModule(cfg, events.NewInMemoryBus(log), log)

	engine := gin.New()
	module.RegisterRoutes(&apphttp.RouterContext{
		Engine: engine,
		API:    engine.Group("/api"),
		Log:    log,
	})

	return engine
}

func postJSON(t *testing.T, engine *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestWebhookEndpoint_AcceptsDelivery(t *testing.T) {
	engine := newAlertsRouter(t, "")

	rec := postJSON(t, engine, "/webhook/back-in-stock", `{
		"event": "back_in_stock",
		"product": {"id": 8801, "title": "Linen Shirt", "variant_title": "Navy / M"},
		"customer": {"email": "jo@example.com"},
		"quantity": 1
	}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool   `json:"success"`
		ID      string `json:"id"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.NotEmpty(t, body.ID)
	assert.Equal(t, "webhook received", body.Message)
}

func TestWebhookEndpoint_AcceptsEmptyObject(t *testing.T) {
	engine := newAlertsRouter(t, "")

	rec := postJSON(t, engine, "/webhook/back-in-stock", `{}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
}

func TestWebhookEndpoint_RejectsInvalidJSON(t *testing.T) {
	engine := newAlertsRouter(t, "")

	rec := postJSON(t, engine, "/webhook/back-in-stock", "not json")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestWebhookEndpoint_ServesEveryAlias(t *testing.T) {
	engine := newAlertsRouter(t, "")

	aliases := []string{"/webhook/back-in-stock", "/webhooks/back-in-stock", "/api/webhooks/back-in-stock"}
	for _, alias := range aliases {
		rec := postJSON(t, engine, alias, `{"event":"back_in_stock"}`)
		require.Equal(t, http.StatusOK, rec.Code, "alias %s", alias)
	}

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/notifications", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Total         int            `json:"total"`
		Notifications []Notification `json:"notifications"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, len(aliases), body.Total)

	// Newest first, so the recorded source paths come back reversed.
	for i, n := range body.Notifications {
		assert.Equal(t, aliases[len(aliases)-1-i], n.SourcePath)
	}
}

func TestWebhookEndpoint_RequiresSignatureWhenConfigured(t *testing.T) {
	engine := newAlertsRouter(t, "topsecret")
	payload := `{"event":"back_in_stock"}`

	rec := postJSON(t, engine, "/webhook/back-in-stock", payload)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "missing signature")

	req := httptest.NewRequest(http.MethodPost, "/webhook/back-in-stock", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SignatureHeader, "bm90LXRoZS1zaWduYXR1cmU=")
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "forged signature")

	req = httptest.NewRequest(http.MethodPost, "/webhook/back-in-stock", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SignatureHeader, signPayload("topsecret", []byte(payload)))
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, "valid signature")
}

func TestNotificationsEndpoint_GetDeleteRoundTrip(t *testing.T) {
	engine := newAlertsRouter(t, "")

	rec := postJSON(t, engine, "/api/notifications/test", `{"count": 3}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var generated struct {
		Notifications []Notification `json:"notifications"`
		Total         int            `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &generated))
	require.Equal(t, 3, generated.Total)

	target := generated.Notifications[1]

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/notifications/"+target.ID.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), target.ID.String())

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/notifications/"+target.ID.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/notifications/"+target.ID.String(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNotificationsEndpoint_UnknownIDReturns404(t *testing.T) {
	engine := newAlertsRouter(t, "")

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/notifications/not-a-uuid", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/notifications/0b92cf2c-9d0a-4a7b-9c2e-38f0cb1f6d55", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNotificationsEndpoint_ListFiltersAndLimits(t *testing.T) {
	engine := newAlertsRouter(t, "")

	for i := 0; i < 4; i++ {
		event := "back_in_stock"
		if i == 0 {
			event = "price_drop"
		}
		rec := postJSON(t, engine, "/webhook/back-in-stock", fmt.Sprintf(`{"event":%q}`, event))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/notifications?event=back_in_stock&limit=2", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Total         int            `json:"total"`
		Notifications []Notification `json:"notifications"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Total)
	assert.Len(t, body.Notifications, 2)

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/notifications?limit=potato", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNotificationsEndpoint_ClearReportsRemoved(t *testing.T) {
	engine := newAlertsRouter(t, "")

	rec := postJSON(t, engine, "/api/notifications/test", `{"count": 2}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/notifications", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"removed":2`)
}

func TestGenerateEndpoint_CapsCount(t *testing.T) {
	engine := newAlertsRouter(t, "")

	rec := postJSON(t, engine, "/api/notifications/test", `{"count": 500}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 50, body.Total)
}

func TestGenerateEndpoint_DefaultsToOne(t *testing.T) {
	engine := newAlertsRouter(t, "")

	rec := postJSON(t, engine, "/api/notifications/test", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":1`)
}

func TestExportEndpoint_StreamsCSV(t *testing.T) {
	engine := newAlertsRouter(t, "")

	rec := postJSON(t, engine, "/webhook/back-in-stock", `{
		"event": "back_in_stock",
		"product": {"id": 8801, "title": "Linen Shirt", "variant_title": "Navy / M"},
		"customer": {"email": "jo@example.com"},
		"quantity": 2
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/notifications/export", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "notifications.csv")

	records, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "id", records[0][0])
	assert.Equal(t, "Linen Shirt", records[1][4])
	assert.Equal(t, "Navy", records[1][6])
	assert.Equal(t, "jo@example.com", records[1][7])
	assert.Equal(t, "2", records[1][8])
}

func TestExportEndpoint_EmptyLogYieldsHeaderOnly(t *testing.T) {
	engine := newAlertsRouter(t, "")

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/notifications/export", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	records, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
}
