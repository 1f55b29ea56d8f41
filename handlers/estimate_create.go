package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"interiordesk/services"
)

// EstimateSectionPayload is one submitted line item. Measurement dimensions
// arrive as nullable centimeters; a null keeps the entry excluded from that
// dimension's sum.
type EstimateSectionPayload struct {
	Category       string               `json:"category"`
	Subcategory    string               `json:"subcategory"`
	Material       string               `json:"material"`
	Description    string               `json:"description"`
	UnitType       string               `json:"unitType"`
	UnitPrice      float64              `json:"unitPrice"`
	Measurements   []MeasurementPayload `json:"measurements"`
	RunningLengths []RunningLenPayload  `json:"runningLengths"`
	PieceCount     int                  `json:"pieceCount"`
}

// MeasurementPayload is one length x breadth entry in centimeters.
type MeasurementPayload struct {
	Length  *float64 `json:"length"`
	Breadth *float64 `json:"breadth"`
}

// RunningLenPayload is one running-length entry in centimeters.
type RunningLenPayload struct {
	Length *float64 `json:"length"`
}

// EstimateCreatePayload is the estimate submission body. Submitted totals are
// informational only; the server recomputes everything before persisting.
type EstimateCreatePayload struct {
	ClientID   string                   `json:"clientId"`
	ClientName string                   `json:"clientName"`
	Name       string                   `json:"name"`
	Discount   float64                  `json:"discount"`
	Sections   []EstimateSectionPayload `json:"sections"`
	Total      float64                  `json:"total"`
	GrandTotal float64                  `json:"grandTotal"`
}

// EstimateCreatedResponse is returned after a successful submission.
type EstimateCreatedResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	ItemCount  int     `json:"itemCount"`
	Total      float64 `json:"total"`
	Discount   float64 `json:"discount"`
	GrandTotal float64 `json:"grandTotal"`
}

// HandleEstimateCreate persists a submitted estimate. Every line's quantity
// is re-derived from its raw entries and all totals are recomputed server
// side; a validation failure on any line rejects the whole submission.
// Persisted estimates are immutable, so there is no update counterpart.
func HandleEstimateCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var payload EstimateCreatePayload
		if err := json.NewDecoder(e.Request.Body).Decode(&payload); err != nil {
			return e.String(http.StatusBadRequest, "Invalid JSON body")
		}

		client, err := app.FindRecordById("clients", payload.ClientID)
		if err != nil {
			return e.String(http.StatusNotFound, "Client not found")
		}

		items, err := resolvePayloadSections(payload.Sections)
		if err != nil {
			return e.String(http.StatusBadRequest, err.Error())
		}
		if err := services.ValidateItems(items); err != nil {
			return e.String(http.StatusBadRequest, err.Error())
		}
		if payload.Discount < 0 {
			return e.String(http.StatusBadRequest, "Discount cannot be negative")
		}

		totals := services.CalcEstimateTotals(items, payload.Discount)

		name := payload.Name
		if name == "" {
			name = services.GenerateEstimateNumber(app, time.Now())
		}

		estimatesCol, err := app.FindCollectionByNameOrId("estimates")
		if err != nil {
			log.Printf("estimate_create: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to save estimate")
		}
		sectionsCol, err := app.FindCollectionByNameOrId("estimate_sections")
		if err != nil {
			log.Printf("estimate_create: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to save estimate")
		}

		estimate := core.NewRecord(estimatesCol)
		estimate.Set("client", client.Id)
		estimate.Set("client_name", client.GetString("name"))
		estimate.Set("name", name)
		estimate.Set("discount", totals.Discount)
		estimate.Set("total", totals.Total)
		estimate.Set("grand_total", totals.GrandTotal)

		err = app.RunInTransaction(func(txApp core.App) error {
			if err := txApp.Save(estimate); err != nil {
				return fmt.Errorf("save estimate: %w", err)
			}
			for i, it := range items {
				section := core.NewRecord(sectionsCol)
				section.Set("estimate", estimate.Id)
				section.Set("sort_order", i+1)
				section.Set("category", it.Category)
				section.Set("subcategory", it.Subcategory)
				section.Set("material", it.Material)
				section.Set("description", it.Description)
				section.Set("unit_type", string(it.UnitType))
				section.Set("unit_price", it.UnitPrice)
				section.Set("quantity", it.Quantity)
				section.Set("total", it.Total)
				if it.UnitType == services.UnitArea {
					raw, err := services.MeasurementsToJSON(it.Measurements)
					if err != nil {
						return fmt.Errorf("encode measurements: %w", err)
					}
					section.Set("measurements", string(raw))
				}
				if err := txApp.Save(section); err != nil {
					return fmt.Errorf("save section %d: %w", i+1, err)
				}
			}
			return nil
		})
		if err != nil {
			log.Printf("estimate_create: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to save estimate")
		}

		return e.JSON(http.StatusCreated, EstimateCreatedResponse{
			ID:         estimate.Id,
			Name:       name,
			ItemCount:  len(items),
			Total:      totals.Total,
			Discount:   totals.Discount,
			GrandTotal: totals.GrandTotal,
		})
	}
}

// resolvePayloadSections converts submitted lines into resolved items,
// re-deriving every quantity from the raw centimeter entries.
func resolvePayloadSections(sections []EstimateSectionPayload) ([]services.ResolvedItem, error) {
	items := make([]services.ResolvedItem, 0, len(sections))

	for i, s := range sections {
		if !services.ValidUnitType(s.UnitType) {
			return nil, fmt.Errorf("line %d: unknown unit type %q", i+1, s.UnitType)
		}
		ut := services.UnitType(s.UnitType)

		measurements := make([]services.Measurement, 0, len(s.Measurements))
		for _, m := range s.Measurements {
			var entry services.Measurement
			if m.Length != nil {
				entry.Length = services.Dim(*m.Length)
			}
			if m.Breadth != nil {
				entry.Breadth = services.Dim(*m.Breadth)
			}
			measurements = append(measurements, entry)
		}

		lengths := make([]services.RunningLength, 0, len(s.RunningLengths))
		for _, rl := range s.RunningLengths {
			var entry services.RunningLength
			if rl.Length != nil {
				entry.Length = services.Dim(*rl.Length)
			}
			lengths = append(lengths, entry)
		}

		quantity := services.DeriveQuantity(ut, measurements, lengths, s.PieceCount)

		item := services.ResolvedItem{
			Category:    s.Category,
			Subcategory: s.Subcategory,
			Material:    s.Material,
			Description: s.Description,
			UnitType:    ut,
			UnitPrice:   s.UnitPrice,
			Quantity:    quantity,
			Total:       services.LineTotal(quantity, s.UnitPrice),
		}
		if ut == services.UnitArea {
			item.Measurements = measurements
		}
		items = append(items, item)
	}

	return items, nil
}
