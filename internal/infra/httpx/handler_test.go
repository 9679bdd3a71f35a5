package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/jcmexdev/shopmanager/internal/core/service"
	"github.com/jcmexdev/shopmanager/internal/infra/storage/sqlite"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "shopmanager.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	orderSvc := service.NewOrderService(store.Orders(), store.Customers(), nil)
	customerSvc := service.NewCustomerService(store.Customers(), store.Orders())

	router := NewRouter(NewHandler(orderSvc), NewCustomerHandler(customerSvc), "test")
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { _ = res.Body.Close() })

	var decoded map[string]any
	if res.StatusCode != http.StatusNoContent {
		_ = json.NewDecoder(res.Body).Decode(&decoded)
	}
	return res, decoded
}

func createTestCustomer(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	res, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/customers", map[string]any{
		"name":  "Maria Rojas",
		"phone": "+56 9 1234 5678",
		"email": "maria@example.com",
	})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create customer: status %d, body %v", res.StatusCode, body)
	}
	return body["id"].(string)
}

func referenceOrderPayload(customerID string) map[string]any {
	return map[string]any{
		"customer_id":   customerID,
		"exchange_rate": 900,
		"items": []map[string]any{
			{
				"product_name":        "Wireless mouse",
				"quantity":            1,
				"base_unit_price_usd": 100,
				"tax_percent":         10,
				"commission_percent":  5,
			},
			{
				"product_name":        "Keyboard",
				"quantity":            "1", // string-encoded numbers are accepted
				"base_unit_price_usd": "100",
				"tax_percent":         "10",
				"commission_percent":  "5",
			},
		},
	}
}

func TestCreateOrderEndpoint(t *testing.T) {
	srv := newTestServer(t)
	customerID := createTestCustomer(t, srv)

	res, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/orders", referenceOrderPayload(customerID))
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, body %v", res.StatusCode, body)
	}

	if body["status"] != "pending" {
		t.Errorf("status = %v, want pending", body["status"])
	}
	if body["total_usd"] != 231.0 {
		t.Errorf("total_usd = %v, want 231", body["total_usd"])
	}
	if body["total_clp"] != 207900.0 {
		t.Errorf("total_clp = %v, want 207900", body["total_clp"])
	}
	if body["can_advance"] != true || body["next_status"] != "in_warehouse" || body["can_delete"] != true {
		t.Errorf("pipeline hints = %v / %v / %v", body["can_advance"], body["next_status"], body["can_delete"])
	}

	items := body["items"].([]any)
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	first := items[0].(map[string]any)
	if first["tax_usd"] != 10.0 || first["commission_usd"] != 5.5 || first["subtotal_usd"] != 115.5 {
		t.Errorf("item figures = %v / %v / %v", first["tax_usd"], first["commission_usd"], first["subtotal_usd"])
	}
}

func TestCreateOrderEndpointValidation(t *testing.T) {
	srv := newTestServer(t)
	customerID := createTestCustomer(t, srv)

	tests := []struct {
		name   string
		mutate func(map[string]any)
		status int
	}{
		{
			name:   "unknown customer",
			mutate: func(p map[string]any) { p["customer_id"] = "nobody" },
			status: http.StatusNotFound,
		},
		{
			name:   "no items",
			mutate: func(p map[string]any) { p["items"] = []map[string]any{} },
			status: http.StatusBadRequest,
		},
		{
			name:   "missing exchange rate",
			mutate: func(p map[string]any) { delete(p, "exchange_rate") },
			status: http.StatusBadRequest,
		},
		{
			name: "item without product name",
			mutate: func(p map[string]any) {
				p["items"] = []map[string]any{{"quantity": 1, "base_unit_price_usd": 10}}
			},
			status: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := referenceOrderPayload(customerID)
			tt.mutate(payload)
			res, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/orders", payload)
			if res.StatusCode != tt.status {
				t.Errorf("status = %d, want %d (body %v)", res.StatusCode, tt.status, body)
			}
		})
	}
}

func TestOrderStatusEndpoint(t *testing.T) {
	srv := newTestServer(t)
	customerID := createTestCustomer(t, srv)

	_, created := doJSON(t, http.MethodPost, srv.URL+"/api/v1/orders", referenceOrderPayload(customerID))
	orderID := created["id"].(string)
	statusURL := srv.URL + "/api/v1/orders/" + orderID + "/status"

	res, body := doJSON(t, http.MethodPatch, statusURL, map[string]string{"status": "in_warehouse"})
	if res.StatusCode != http.StatusOK || body["status"] != "in_warehouse" {
		t.Fatalf("advance: status %d, body %v", res.StatusCode, body)
	}

	// Regression → 422.
	res, _ = doJSON(t, http.MethodPatch, statusURL, map[string]string{"status": "pending"})
	if res.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("regression: status = %d, want 422", res.StatusCode)
	}

	// Unknown status → 400.
	res, _ = doJSON(t, http.MethodPatch, statusURL, map[string]string{"status": "paid"})
	if res.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown status: status = %d, want 400", res.StatusCode)
	}

	// Terminal order exposes no next step.
	res, body = doJSON(t, http.MethodPatch, statusURL, map[string]string{"status": "shipped"})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("ship: status %d", res.StatusCode)
	}
	if body["can_advance"] != false || body["next_status"] != nil {
		t.Errorf("terminal hints = %v / %v", body["can_advance"], body["next_status"])
	}

	// Delete after processing started → 409.
	res, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/v1/orders/"+orderID, nil)
	if res.StatusCode != http.StatusConflict {
		t.Errorf("delete shipped: status = %d, want 409", res.StatusCode)
	}
}

func TestDeletePendingOrderEndpoint(t *testing.T) {
	srv := newTestServer(t)
	customerID := createTestCustomer(t, srv)

	_, created := doJSON(t, http.MethodPost, srv.URL+"/api/v1/orders", referenceOrderPayload(customerID))
	orderID := created["id"].(string)

	res, _ := doJSON(t, http.MethodDelete, srv.URL+"/api/v1/orders/"+orderID, nil)
	if res.StatusCode != http.StatusNoContent {
		t.Fatalf("delete pending: status = %d, want 204", res.StatusCode)
	}

	res, _ = doJSON(t, http.MethodGet, srv.URL+"/api/v1/orders/"+orderID, nil)
	if res.StatusCode != http.StatusNotFound {
		t.Errorf("get deleted: status = %d, want 404", res.StatusCode)
	}
}

func TestPreviewEndpointCoercion(t *testing.T) {
	srv := newTestServer(t)

	// Missing quantity and blank tax_percent fall back to the lenient
	// defaults (quantity 1, tax 0).
	payload := map[string]any{
		"exchange_rate": "",
		"items": []map[string]any{
			{
				"product_name":        "Mystery gadget",
				"base_unit_price_usd": 100,
				"tax_percent":         "",
				"commission_percent":  5,
			},
		},
	}

	res, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/orders/preview", payload)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %v", res.StatusCode, body)
	}

	items := body["items"].([]any)
	first := items[0].(map[string]any)
	if first["quantity"] != 1.0 {
		t.Errorf("quantity = %v, want 1", first["quantity"])
	}
	if first["tax_usd"] != 0.0 {
		t.Errorf("tax_usd = %v, want 0", first["tax_usd"])
	}
	if first["commission_usd"] != 5.0 {
		t.Errorf("commission_usd = %v, want 5 (no tax compounding)", first["commission_usd"])
	}
	if body["total_usd"] != 105.0 {
		t.Errorf("total_usd = %v, want 105", body["total_usd"])
	}
	// No rate entered: CLP total is null, not zero.
	if clp, present := body["total_clp"]; !present || clp != nil {
		t.Errorf("total_clp = %v, want explicit null", clp)
	}
}

func TestCustomerEndpoints(t *testing.T) {
	srv := newTestServer(t)
	customerID := createTestCustomer(t, srv)

	t.Run("duplicate email conflict", func(t *testing.T) {
		res, _ := doJSON(t, http.MethodPost, srv.URL+"/api/v1/customers", map[string]any{
			"name":  "Otra Maria",
			"phone": "+56 9 0000 0000",
			"email": "maria@example.com",
		})
		if res.StatusCode != http.StatusConflict {
			t.Errorf("status = %d, want 409", res.StatusCode)
		}
	})

	t.Run("patch phone", func(t *testing.T) {
		res, body := doJSON(t, http.MethodPatch, srv.URL+"/api/v1/customers/"+customerID, map[string]any{
			"phone": "+56 9 9999 9999",
		})
		if res.StatusCode != http.StatusOK || body["phone"] != "+56 9 9999 9999" {
			t.Errorf("status %d, body %v", res.StatusCode, body)
		}
		if body["name"] != "Maria Rojas" {
			t.Errorf("patch must not clear other fields: %v", body["name"])
		}
	})

	t.Run("delete with orders conflict", func(t *testing.T) {
		if res, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/orders", referenceOrderPayload(customerID)); res.StatusCode != http.StatusCreated {
			t.Fatalf("create order: %d %v", res.StatusCode, body)
		}
		res, _ := doJSON(t, http.MethodDelete, srv.URL+"/api/v1/customers/"+customerID, nil)
		if res.StatusCode != http.StatusConflict {
			t.Errorf("status = %d, want 409", res.StatusCode)
		}
	})

	t.Run("not found", func(t *testing.T) {
		res, _ := doJSON(t, http.MethodGet, srv.URL+"/api/v1/customers/nobody", nil)
		if res.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", res.StatusCode)
		}
	})
}

func TestOrderSummaryEndpoint(t *testing.T) {
	srv := newTestServer(t)
	customerID := createTestCustomer(t, srv)

	for i := 0; i < 2; i++ {
		if res, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/orders", referenceOrderPayload(customerID)); res.StatusCode != http.StatusCreated {
			t.Fatalf("create order: %d %v", res.StatusCode, body)
		}
	}

	res, body := doJSON(t, http.MethodGet, srv.URL+"/api/v1/orders/summary", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if body["total"] != 2.0 || body["pending"] != 2.0 {
		t.Errorf("summary = %v", body)
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	res, body := doJSON(t, http.MethodGet, srv.URL+"/healthz", nil)
	if res.StatusCode != http.StatusOK || body["status"] != "ok" {
		t.Errorf("healthz = %d %v", res.StatusCode, body)
	}
}
