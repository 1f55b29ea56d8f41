package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"interiordesk/services"
)

// ClientItem is one client in list responses.
type ClientItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	SiteAddress string `json:"siteAddress"`
}

// ClientDetail is the full client view including the financial summary.
type ClientDetail struct {
	ClientItem
	Finance services.FinancialReport `json:"finance"`
	Stages  []services.StageRecord   `json:"stages"`
}

// HandleClientList returns all clients ordered by name.
func HandleClientList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		col, err := app.FindCollectionByNameOrId("clients")
		if err != nil {
			log.Printf("client_list: %v", err)
			return e.String(http.StatusInternalServerError, "Clients unavailable")
		}

		records, err := app.FindRecordsByFilter(col, "id != ''", "name", 0, 0, nil)
		if err != nil {
			log.Printf("client_list: query: %v", err)
			return e.String(http.StatusInternalServerError, "Clients unavailable")
		}

		items := make([]ClientItem, 0, len(records))
		for _, r := range records {
			items = append(items, clientItemFromRecord(r))
		}
		return e.JSON(http.StatusOK, items)
	}
}

// HandleClientView returns one client with the derived financial summary and
// project timeline.
func HandleClientView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		clientID := e.Request.PathValue("id")
		if clientID == "" {
			return e.String(http.StatusBadRequest, "Missing client ID")
		}

		rec, err := app.FindRecordById("clients", clientID)
		if err != nil {
			return e.String(http.StatusNotFound, "Client not found")
		}

		data, err := services.BuildReportData(app, clientID)
		if err != nil {
			log.Printf("client_view: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to load client summary")
		}

		return e.JSON(http.StatusOK, ClientDetail{
			ClientItem: clientItemFromRecord(rec),
			Finance:    data.Finance,
			Stages:     data.Stages,
		})
	}
}

func clientItemFromRecord(r *core.Record) ClientItem {
	return ClientItem{
		ID:          r.Id,
		Name:        r.GetString("name"),
		Phone:       r.GetString("phone"),
		Email:       r.GetString("email"),
		Address:     r.GetString("address"),
		SiteAddress: r.GetString("site_address"),
	}
}
