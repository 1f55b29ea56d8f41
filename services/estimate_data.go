package services

import (
	"encoding/json"
	"fmt"

	"github.com/pocketbase/pocketbase"
)

// measurementJSON mirrors the stored wire shape of one measurement entry.
// Missing dimensions are carried as nulls, never as zeros, so re-opened
// estimates keep the original per-dimension validity.
type measurementJSON struct {
	Length  *float64 `json:"length"`
	Breadth *float64 `json:"breadth"`
}

// MeasurementsToJSON encodes measurement entries for persistence. Area items
// always persist an array; callers store nil for other unit types.
func MeasurementsToJSON(entries []Measurement) ([]byte, error) {
	out := make([]measurementJSON, 0, len(entries))
	for _, m := range entries {
		var mj measurementJSON
		if m.Length.Ok {
			v := m.Length.Value
			mj.Length = &v
		}
		if m.Breadth.Ok {
			v := m.Breadth.Value
			mj.Breadth = &v
		}
		out = append(out, mj)
	}
	return json.Marshal(out)
}

// MeasurementsFromJSON decodes persisted measurement entries. Empty input
// yields no entries.
func MeasurementsFromJSON(raw []byte) ([]Measurement, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var in []measurementJSON
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("decode measurements: %w", err)
	}
	entries := make([]Measurement, 0, len(in))
	for _, mj := range in {
		var m Measurement
		if mj.Length != nil {
			m.Length = Dim(*mj.Length)
		}
		if mj.Breadth != nil {
			m.Breadth = Dim(*mj.Breadth)
		}
		entries = append(entries, m)
	}
	return entries, nil
}

// EstimateExportData holds a persisted estimate in document-ready form.
type EstimateExportData struct {
	EstimateID    string
	Name          string
	ClientName    string
	CreatedDate   string
	Groups        []CategoryGroup
	ItemCount     int
	Totals        EstimateTotals
	AmountInWords string
}

// BuildEstimateExportData assembles an estimate and its line items from
// PocketBase records. Persisted estimates are read-only; the stored totals
// are authoritative and are not recomputed here.
func BuildEstimateExportData(app *pocketbase.PocketBase, estimateID string) (*EstimateExportData, error) {
	est, err := app.FindRecordById("estimates", estimateID)
	if err != nil {
		return nil, fmt.Errorf("estimate not found: %w", err)
	}

	sections, err := app.FindRecordsByFilter("estimate_sections",
		"estimate = {:estimateId}", "sort_order", 0, 0,
		map[string]any{"estimateId": estimateID})
	if err != nil {
		return nil, fmt.Errorf("fetch estimate sections: %w", err)
	}

	items := make([]ResolvedItem, 0, len(sections))
	for _, s := range sections {
		item := ResolvedItem{
			Category:    s.GetString("category"),
			Subcategory: s.GetString("subcategory"),
			Material:    s.GetString("material"),
			Description: s.GetString("description"),
			UnitType:    UnitType(s.GetString("unit_type")),
			UnitPrice:   s.GetFloat("unit_price"),
			Quantity:    s.GetFloat("quantity"),
			Total:       s.GetFloat("total"),
		}
		if raw := s.GetString("measurements"); raw != "" && raw != "null" {
			entries, err := MeasurementsFromJSON([]byte(raw))
			if err != nil {
				return nil, fmt.Errorf("section %s: %w", s.Id, err)
			}
			item.Measurements = entries
		}
		items = append(items, item)
	}

	createdDate := ""
	if dt := est.GetDateTime("created"); !dt.IsZero() {
		createdDate = dt.Time().Format("02 Jan 2006")
	}

	grand := est.GetFloat("grand_total")

	return &EstimateExportData{
		EstimateID:  est.Id,
		Name:        est.GetString("name"),
		ClientName:  est.GetString("client_name"),
		CreatedDate: createdDate,
		Groups:      GroupItems(items),
		ItemCount:   len(items),
		Totals: EstimateTotals{
			Total:      est.GetFloat("total"),
			Discount:   est.GetFloat("discount"),
			GrandTotal: grand,
		},
		AmountInWords: AmountToWords(grand),
	}, nil
}
