package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"interiordesk/services"
	"interiordesk/testhelpers"
)

// newCatalogUpload builds a multipart request body carrying one CSV file.
func newCatalogUpload(t *testing.T, fileName, content string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestHandleCatalogTemplateDownload(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandleCatalogTemplateDownload(app)

	req := httptest.NewRequest(http.MethodGet, "/catalog/import/template", nil)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("Content-Type = %q, want %q", ct, xlsxContentType)
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("response body is not an xlsx workbook: %v", err)
	}
	defer f.Close()
	v, err := f.GetCellValue("Catalog", "A1")
	if err != nil || !strings.Contains(v, "Category") {
		t.Errorf("A1 = %q (err %v), want the Category header", v, err)
	}
}

func TestHandleCatalogValidate_CleanFile(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	csv := "Category,Subcategory,Material,Description,Unit Type,Unit Price\n" +
		"False Ceiling,Living Room,Gypsum Board,12.5mm boards,area,85\n" +
		"Electrical,Fixtures,Pendant Light Point,,piece,250\n"
	body, contentType := newCatalogUpload(t, "catalog.csv", csv)

	handler := HandleCatalogValidate(app)

	req := httptest.NewRequest(http.MethodPost, "/catalog/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		TotalRows  int                   `json:"total_rows"`
		ValidRows  int                   `json:"valid_rows"`
		ErrorRows  int                   `json:"error_rows"`
		ParsedRows []services.CatalogRow `json:"parsedRows"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TotalRows != 2 || resp.ValidRows != 2 || resp.ErrorRows != 0 {
		t.Errorf("rows = %d/%d/%d, want 2 total, 2 valid, 0 errors",
			resp.TotalRows, resp.ValidRows, resp.ErrorRows)
	}
	if len(resp.ParsedRows) != 2 {
		t.Fatalf("expected 2 parsed rows in a clean response, got %d", len(resp.ParsedRows))
	}
	if resp.ParsedRows[0].UnitPrice != 85 {
		t.Errorf("ParsedRows[0].UnitPrice = %v, want 85", resp.ParsedRows[0].UnitPrice)
	}
}

func TestHandleCatalogValidate_ErrorsOmitParsedRows(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	csv := "Category,Subcategory,Material,Description,Unit Type,Unit Price\n" +
		"False Ceiling,Living Room,Gypsum Board,,area,notaprice\n"
	body, contentType := newCatalogUpload(t, "catalog.csv", csv)

	handler := HandleCatalogValidate(app)

	req := httptest.NewRequest(http.MethodPost, "/catalog/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if _, ok := resp["parsedRows"]; ok {
		t.Error("parsedRows must be omitted when the file has validation errors")
	}
	testhelpers.AssertBodyContains(t, rec.Body.String(), "not a number")
}

func TestHandleCatalogValidate_MissingFile(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	w.WriteField("other", "value")
	w.Close()

	handler := HandleCatalogValidate(app)

	req := httptest.NewRequest(http.MethodPost, "/catalog/import", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleCatalogImportCommit(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	rows := []services.CatalogRow{
		{Category: "False Ceiling", Subcategory: "Living Room", Material: "Gypsum Board", UnitType: "area", UnitPrice: 85},
		{Category: "False Ceiling", Subcategory: "Bedroom", Material: "POP Cornice", UnitType: "running_length", UnitPrice: 60},
	}
	payload, _ := json.Marshal(rows)

	handler := HandleCatalogImportCommit(app)

	req := httptest.NewRequest(http.MethodPost, "/catalog/import/commit", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result services.ImportResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Imported != 2 || result.Failed != 0 {
		t.Errorf("imported/failed = %d/%d, want 2/0", result.Imported, result.Failed)
	}

	// Category and subcategories were created on first use.
	cats, err := app.FindAllRecords("categories")
	if err != nil || len(cats) != 1 {
		t.Errorf("categories = %d (err %v), want 1", len(cats), err)
	}
	sections, err := app.FindAllRecords("sections")
	if err != nil || len(sections) != 2 {
		t.Errorf("sections = %d (err %v), want 2", len(sections), err)
	}
}

func TestHandleCatalogImportCommit_DuplicateBlocked(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cat := testhelpers.CreateTestCategory(t, app, "False Ceiling", 1)
	sub := testhelpers.CreateTestSubcategory(t, app, cat.Id, "Living Room", 1)
	testhelpers.CreateTestSection(t, app, cat.Id, sub.Id, "Gypsum Board", "area", 85)

	rows := []services.CatalogRow{
		{Category: "False Ceiling", Subcategory: "Living Room", Material: "Gypsum Board", Description: "Gypsum Board test spec", UnitType: "area", UnitPrice: 85},
	}
	payload, _ := json.Marshal(rows)

	handler := HandleCatalogImportCommit(app)

	req := httptest.NewRequest(http.MethodPost, "/catalog/import/commit", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}

	var result services.ImportResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !result.RolledBack || result.Imported != 0 {
		t.Errorf("RolledBack = %v, Imported = %d; want rolled back with nothing imported",
			result.RolledBack, result.Imported)
	}

	sections, _ := app.FindAllRecords("sections")
	if len(sections) != 1 {
		t.Errorf("sections = %d, want the original 1 only", len(sections))
	}
}

func TestHandleCatalogImportCommit_EmptyBody(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandleCatalogImportCommit(app)

	req := httptest.NewRequest(http.MethodPost, "/catalog/import/commit", strings.NewReader("[]"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleCatalogErrorReport(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	errs := []services.ValidationError{
		{Row: 3, Field: "Unit Price", Message: "Unit Price must be greater than zero"},
	}
	payload, _ := json.Marshal(errs)

	handler := HandleCatalogErrorReport(app)

	req := httptest.NewRequest(http.MethodPost, "/catalog/import/errors", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "Catalog_Errors_") {
		t.Errorf("Content-Disposition = %q, want a Catalog_Errors_ filename", cd)
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("response body is not an xlsx workbook: %v", err)
	}
	defer f.Close()
	v, _ := f.GetCellValue("Errors", "C2")
	if v != "Unit Price must be greater than zero" {
		t.Errorf("C2 = %q, want the error message", v)
	}
}

func TestHandleCatalogExport(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cat := testhelpers.CreateTestCategory(t, app, "Carpentry", 1)
	sub := testhelpers.CreateTestSubcategory(t, app, cat.Id, "Wardrobes", 1)
	testhelpers.CreateTestSection(t, app, cat.Id, sub.Id, "Sliding Wardrobe Shutter", "area", 1450)

	handler := HandleCatalogExport(app)

	req := httptest.NewRequest(http.MethodGet, "/catalog/export", nil)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("response body is not an xlsx workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Catalog")
	if err != nil || len(rows) != 2 {
		t.Fatalf("Catalog rows = %d (err %v), want header + 1 data row", len(rows), err)
	}
	if rows[1][0] != "Carpentry" || rows[1][2] != "Sliding Wardrobe Shutter" {
		t.Errorf("data row = %v, want category and material names resolved", rows[1])
	}
}
