package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"interiordesk/services"
)

// EstimateListItem is one estimate in list responses.
type EstimateListItem struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	ClientID   string  `json:"clientId"`
	ClientName string  `json:"clientName"`
	Discount   float64 `json:"discount"`
	Total      float64 `json:"total"`
	GrandTotal float64 `json:"grandTotal"`
	Created    string  `json:"created"`
}

// EstimateDetail is the full read-only view of a persisted estimate.
type EstimateDetail struct {
	ID            string                   `json:"id"`
	Name          string                   `json:"name"`
	ClientName    string                   `json:"clientName"`
	CreatedDate   string                   `json:"createdDate"`
	Groups        []services.CategoryGroup `json:"groups"`
	ItemCount     int                      `json:"itemCount"`
	Total         float64                  `json:"total"`
	Discount      float64                  `json:"discount"`
	GrandTotal    float64                  `json:"grandTotal"`
	AmountInWords string                   `json:"amountInWords"`
}

// HandleEstimateList returns estimates, newest first, optionally filtered by
// the "client" query parameter.
func HandleEstimateList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		col, err := app.FindCollectionByNameOrId("estimates")
		if err != nil {
			log.Printf("estimate_list: %v", err)
			return e.String(http.StatusInternalServerError, "Estimates unavailable")
		}

		filter := "id != ''"
		params := map[string]any{}
		if clientID := e.Request.URL.Query().Get("client"); clientID != "" {
			filter = "client = {:clientId}"
			params["clientId"] = clientID
		}

		records, err := app.FindRecordsByFilter(col, filter, "-created", 0, 0, params)
		if err != nil {
			log.Printf("estimate_list: query: %v", err)
			return e.String(http.StatusInternalServerError, "Estimates unavailable")
		}

		items := make([]EstimateListItem, 0, len(records))
		for _, r := range records {
			created := ""
			if dt := r.GetDateTime("created"); !dt.IsZero() {
				created = dt.Time().Format("02 Jan 2006")
			}
			items = append(items, EstimateListItem{
				ID:         r.Id,
				Name:       r.GetString("name"),
				ClientID:   r.GetString("client"),
				ClientName: r.GetString("client_name"),
				Discount:   r.GetFloat("discount"),
				Total:      r.GetFloat("total"),
				GrandTotal: r.GetFloat("grand_total"),
				Created:    created,
			})
		}
		return e.JSON(http.StatusOK, items)
	}
}

// HandleEstimateView returns one persisted estimate with its grouped lines.
func HandleEstimateView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		estimateID := e.Request.PathValue("id")
		if estimateID == "" {
			return e.String(http.StatusBadRequest, "Missing estimate ID")
		}

		data, err := services.BuildEstimateExportData(app, estimateID)
		if err != nil {
			log.Printf("estimate_view: %v", err)
			return e.String(http.StatusNotFound, "Estimate not found")
		}

		return e.JSON(http.StatusOK, EstimateDetail{
			ID:            data.EstimateID,
			Name:          data.Name,
			ClientName:    data.ClientName,
			CreatedDate:   data.CreatedDate,
			Groups:        data.Groups,
			ItemCount:     data.ItemCount,
			Total:         data.Totals.Total,
			Discount:      data.Totals.Discount,
			GrandTotal:    data.Totals.GrandTotal,
			AmountInWords: data.AmountInWords,
		})
	}
}
