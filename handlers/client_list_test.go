package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"interiordesk/testhelpers"
)

func TestHandleClientList(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestClient(t, app, "Meera Nair")
	testhelpers.CreateTestClient(t, app, "Arjun Shetty")

	handler := HandleClientList(app)

	req := httptest.NewRequest(http.MethodGet, "/clients", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var items []ClientItem
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 clients, got %d", len(items))
	}
	if items[0].Name != "Arjun Shetty" {
		t.Errorf("clients should be ordered by name, got %q first", items[0].Name)
	}
}

func TestHandleClientView_FinancialSummary(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	client := testhelpers.CreateTestClient(t, app, "Meera Nair")

	testhelpers.CreateTestPayment(t, app, client.Id, 80000, "paid", "2025-05-01")
	testhelpers.CreateTestPayment(t, app, client.Id, 20000, "pending", "2025-06-01")
	testhelpers.CreateTestExpense(t, app, client.Id, 45000, "material", "2025-05-10")
	testhelpers.CreateTestExpense(t, app, client.Id, 15000, "labour", "2025-05-20")
	testhelpers.CreateTestStage(t, app, client.Id, "Site Measurement", "2025-04-07")

	handler := HandleClientView(app)

	req := httptest.NewRequest(http.MethodGet, "/clients/"+client.Id, nil)
	req.SetPathValue("id", client.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var detail ClientDetail
	if err := json.Unmarshal(rec.Body.Bytes(), &detail); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if detail.Name != "Meera Nair" {
		t.Errorf("Name = %q", detail.Name)
	}
	if detail.Finance.TotalPaid != 80000 {
		t.Errorf("TotalPaid = %v, want 80000", detail.Finance.TotalPaid)
	}
	if detail.Finance.TotalExpenses != 60000 {
		t.Errorf("TotalExpenses = %v, want 60000", detail.Finance.TotalExpenses)
	}
	if detail.Finance.NetProfit != 20000 {
		t.Errorf("NetProfit = %v, want 20000", detail.Finance.NetProfit)
	}
	if len(detail.Stages) != 1 {
		t.Errorf("expected 1 stage, got %d", len(detail.Stages))
	}
}

func TestHandleClientView_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandleClientView(app)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
