package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyahq/tripdesk/internal/common/config"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	return string(body)
}

func TestHTTPMiddlewareCountsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New(config.MetricsConfig{Namespace: "tripdesk"})

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/bookings/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bookings/7", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := scrape(t, m)
	assert.Contains(t, body, `tripdesk_http_requests_total{method="GET",route="/bookings/:id",status="200"} 1`)
}

func TestDomainCounters(t *testing.T) {
	m := New(config.MetricsConfig{Namespace: "tripdesk"})

	m.BookingCreated()
	m.BookingCreated()
	m.PaymentRecorded("cash", "EUR", 250)
	m.DocumentUploaded("passport")

	body := scrape(t, m)
	assert.Contains(t, body, "tripdesk_bookings_created_total 2")
	assert.Contains(t, body, `tripdesk_payments_recorded_total{currency="EUR",method="cash"} 1`)
	assert.Contains(t, body, `tripdesk_payments_amount_total{currency="EUR"} 250`)
	assert.Contains(t, body, `tripdesk_documents_uploaded_total{doc_type="passport"} 1`)
}
