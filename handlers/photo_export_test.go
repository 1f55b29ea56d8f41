package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"interiordesk/testhelpers"
)

func TestHandlePhotoAlbumPDF_ClientNotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandlePhotoAlbumPDF(app)

	req := httptest.NewRequest(http.MethodGet, "/clients/missing123/photos/album", nil)
	req.SetPathValue("id", "missing123")
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandlePhotoAlbumPDF_NoPhotos(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	client := testhelpers.CreateTestClient(t, app, "Meera Nair")

	handler := HandlePhotoAlbumPDF(app)

	req := httptest.NewRequest(http.MethodGet, "/clients/"+client.Id+"/photos/album", nil)
	req.SetPathValue("id", client.Id)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for a client with no photos, got %d", rec.Code)
	}
	testhelpers.AssertBodyContains(t, rec.Body.String(), "no site photos")
}

func TestHandlePhotoAlbumPDF_MissingID(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandlePhotoAlbumPDF(app)

	req := httptest.NewRequest(http.MethodGet, "/clients//photos/album", nil)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
