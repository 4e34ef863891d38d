package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// value reads a counter or gauge sample from Registry.
func value(t *testing.T, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := Registry.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if labels[lp.GetName()] != lp.GetValue() {
					continue next
				}
			}
			if c := m.GetCounter(); c != nil {
				return c.GetValue()
			}
			return m.GetGauge().GetValue()
		}
	}
	return 0
}

func TestRecordInvoice(t *testing.T) {
	before := value(t, "signshop_invoices_created_total", nil)
	RecordInvoice(decimal.NewFromInt(840))
	assert.Equal(t, before+1, value(t, "signshop_invoices_created_total", nil))
}

func TestRecordInvoiceRejected(t *testing.T) {
	labels := map[string]string{"reason": "unknown"}
	before := value(t, "signshop_invoices_rejected_total", labels)
	RecordInvoiceRejected("")
	assert.Equal(t, before+1, value(t, "signshop_invoices_rejected_total", labels))
}

func TestStartRequest(t *testing.T) {
	labels := map[string]string{"method": "GET", "route": "/api/products", "status": "200"}

	done := StartRequest()
	assert.Equal(t, float64(1), value(t, "signshop_http_inflight_requests", nil))
	done("get", "/api/products", 200)
	assert.Equal(t, float64(0), value(t, "signshop_http_inflight_requests", nil))
	assert.Equal(t, float64(1), value(t, "signshop_http_requests_total", labels))
}

func TestHandlerExposesCollectors(t *testing.T) {
	RecordInvoice(decimal.NewFromInt(10))

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "signshop_invoices_created_total")
}
