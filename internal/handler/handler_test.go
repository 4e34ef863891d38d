package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-signshop-api/internal/handler"
	"go-signshop-api/internal/model"
	"go-signshop-api/internal/repository"
	"go-signshop-api/internal/service"
	"go-signshop-api/pkg/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	app     *fiber.App
	catalog *repository.DemoCatalog
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db, catalog := testutil.NewSeededDB(t)

	priceRepo := repository.NewPriceRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	productRepo := repository.NewProductRepo(db)
	extraRepo := repository.NewExtraProductRepo(db)
	invoiceRepo := repository.NewInvoiceRepo(db)
	reportRepo := repository.NewReportRepo(db)

	h := &handler.Handlers{
		Price:        handler.NewPriceHandler(service.NewPriceService(priceRepo, nil)),
		Customer:     handler.NewCustomerHandler(service.NewCustomerService(customerRepo, priceRepo, nil)),
		Product:      handler.NewProductHandler(service.NewProductService(productRepo, extraRepo, priceRepo, db, nil)),
		ExtraProduct: handler.NewExtraProductHandler(service.NewExtraProductService(extraRepo, priceRepo, db, nil)),
		Invoice: handler.NewInvoiceHandler(service.NewInvoiceService(
			invoiceRepo, customerRepo, productRepo, priceRepo, db, nil, zerolog.Nop(),
		)),
		Report: handler.NewReportHandler(service.NewReportService(reportRepo, productRepo, extraRepo, customerRepo, invoiceRepo)),
	}

	app := fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler})
	h.Register(app.Group("/api"))
	return &testApp{app: app, catalog: catalog}
}

// do sends body (raw string or any JSON-encodable value) and decodes the
// response into out when out is not nil.
func (a *testApp) do(t *testing.T, method, path string, body any, out any) int {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	a := newTestApp(t)

	var body map[string]string
	assert.Equal(t, http.StatusOK, a.do(t, "GET", "/api/health", nil, &body))
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["time"])
}

func TestUnknownRouteIsJSON(t *testing.T) {
	a := newTestApp(t)

	var body map[string]string
	assert.Equal(t, http.StatusNotFound, a.do(t, "GET", "/api/nope", nil, &body))
	assert.NotEmpty(t, body["error"])
}

func TestProductEndpoints(t *testing.T) {
	a := newTestApp(t)

	var products []model.Product
	assert.Equal(t, http.StatusOK, a.do(t, "GET", "/api/products?q=h-2", nil, &products))
	require.Len(t, products, 1)
	assert.Equal(t, "H-2", products[0].Name)
	assert.Len(t, products[0].ExtraProducts, 1)

	var errBody map[string]string
	assert.Equal(t, http.StatusBadRequest, a.do(t, "GET", "/api/products/not-a-uuid", nil, &errBody))
	assert.Equal(t, "Invalid ID format", errBody["error"])

	assert.Equal(t, http.StatusNotFound, a.do(t, "GET", "/api/products/"+uuid.NewString(), nil, &errBody))

	var created model.Product
	status := a.do(t, "POST", "/api/products", map[string]any{
		"name":            "Banner",
		"barcode":         "77",
		"price":           25,
		"measure":         "mkw",
		"countOfSides":    2,
		"extraProductIds": []string{a.catalog.ExtraProducts["Selpe"].ID.String()},
	}, &created)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Banner", created.Name)
	require.Len(t, created.ExtraProducts, 1)
	assert.Equal(t, "Selpe", created.ExtraProducts[0].Name)

	var msg map[string]string
	assert.Equal(t, http.StatusOK, a.do(t, "DELETE", "/api/products/"+created.ID.String(), nil, &msg))
	assert.Equal(t, "Product deleted", msg["message"])
	assert.Equal(t, http.StatusNotFound, a.do(t, "GET", "/api/products/"+created.ID.String(), nil, nil))
}

func TestPriceEndpointErrors(t *testing.T) {
	a := newTestApp(t)

	var body map[string]string
	assert.Equal(t, http.StatusBadRequest, a.do(t, "POST", "/api/prices", "{not json", &body))
	assert.Equal(t, "Invalid JSON", body["error"])

	assert.Equal(t, http.StatusBadRequest, a.do(t, "POST", "/api/prices", map[string]string{"name": "Diller"}, &body))
	assert.Contains(t, body["error"], "already exists")

	assert.Equal(t, http.StatusBadRequest, a.do(t, "POST", "/api/prices", map[string]string{"name": ""}, &body))
	assert.Contains(t, body["error"], "Validation failed")

	var price model.Price
	assert.Equal(t, http.StatusCreated, a.do(t, "POST", "/api/prices", map[string]string{"name": "Bolek"}, &price))
	assert.Equal(t, "Bolek", price.Name)
}

func TestCustomerUpdateClearsTier(t *testing.T) {
	a := newTestApp(t)
	maksat := a.catalog.Customers["Maksat"]

	var updated model.Customer
	status := a.do(t, "PUT", "/api/customers/"+maksat.ID.String(), map[string]any{
		"name":           "Maksat",
		"phoneNumber":    "+99365000009",
		"address":        "Balkanabat",
		"defaultPriceId": nil,
	}, &updated)
	require.Equal(t, http.StatusOK, status)
	assert.Nil(t, updated.DefaultPriceID)
	assert.Equal(t, "Balkanabat", updated.Address)
}

func invoiceBody(a *testApp) map[string]any {
	return map[string]any{
		"customerId":     a.catalog.Customers["Serdar"].ID,
		"defaultPriceId": a.catalog.PriceID("Adaty"),
		"items": []map[string]any{{
			"productId":    a.catalog.Products["H-2"].ID,
			"measurements": map[string]any{"a": 3, "b": "4"},
		}},
	}
}

func TestInvoicePreviewAndCreate(t *testing.T) {
	a := newTestApp(t)
	want := decimal.NewFromInt(840)

	var preview model.Invoice
	require.Equal(t, http.StatusOK, a.do(t, "POST", "/api/invoices/preview", invoiceBody(a), &preview))
	assert.True(t, preview.TotalAmount.Equal(want), "preview total %s", preview.TotalAmount)

	var stored []model.Invoice
	require.Equal(t, http.StatusOK, a.do(t, "GET", "/api/reports/invoices", nil, &stored))
	assert.Empty(t, stored)

	var created model.Invoice
	require.Equal(t, http.StatusCreated, a.do(t, "POST", "/api/invoices", invoiceBody(a), &created))
	assert.True(t, created.TotalAmount.Equal(want))
	require.Len(t, created.Items, 1)
	assert.Equal(t, "H-2", created.Items[0].Product.Name)

	var fetched model.Invoice
	require.Equal(t, http.StatusOK, a.do(t, "GET", "/api/invoices/"+created.ID.String(), nil, &fetched))
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "3", string(fetched.Items[0].Measurements.Data().A))

	require.Equal(t, http.StatusOK, a.do(t, "GET", "/api/reports/invoices", nil, &stored))
	assert.Len(t, stored, 1)
}

func TestInvoiceRejectsEmptyItems(t *testing.T) {
	a := newTestApp(t)

	body := invoiceBody(a)
	body["items"] = []any{}

	var errBody map[string]string
	assert.Equal(t, http.StatusBadRequest, a.do(t, "POST", "/api/invoices", body, &errBody))
	assert.NotEmpty(t, errBody["error"])
}

func TestReportQueryValidation(t *testing.T) {
	a := newTestApp(t)

	var errBody map[string]string
	assert.Equal(t, http.StatusBadRequest, a.do(t, "GET", "/api/reports/products?startDate=yesterday-ish", nil, &errBody))
	assert.NotEmpty(t, errBody["error"])

	assert.Equal(t, http.StatusBadRequest, a.do(t, "GET", "/api/reports/invoices?defaultPriceId=zzz", nil, &errBody))

	var report []service.ProductReport
	path := fmt.Sprintf("/api/reports/products?productName=%s&startDate=2020-01-01", "h-")
	require.Equal(t, http.StatusOK, a.do(t, "GET", path, nil, &report))
	assert.Len(t, report, 3)
}
