package services

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestMapCatalogHeaders(t *testing.T) {
	headers := []string{"Category *", "Subcategory *", "Material *", "Description", "Unit Type *", "Unit Price *", "Notes"}
	got := mapCatalogHeaders(headers)
	want := []string{"category", "subcategory", "material", "description", "unit_type", "unit_price", ""}

	if len(got) != len(want) {
		t.Fatalf("mapped %d columns, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("column %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMapCatalogHeadersCaseInsensitive(t *testing.T) {
	got := mapCatalogHeaders([]string{"  material  ", "UNIT TYPE", "unit price *"})
	want := []string{"material", "unit_type", "unit_price"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("column %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestValidateCatalogRow(t *testing.T) {
	valid := map[string]string{
		"category":    "False Ceiling",
		"subcategory": "Living Room",
		"material":    "Gypsum Board",
		"description": "12.5mm on GI frame",
		"unit_type":   "area",
		"unit_price":  "85",
	}

	tests := []struct {
		name      string
		mutate    func(m map[string]string)
		wantField string
		wantMsg   string
	}{
		{
			name:   "valid row",
			mutate: func(m map[string]string) {},
		},
		{
			name:      "missing material",
			mutate:    func(m map[string]string) { m["material"] = "" },
			wantField: "Material",
			wantMsg:   "Material is required",
		},
		{
			name:      "missing price",
			mutate:    func(m map[string]string) { m["unit_price"] = "" },
			wantField: "Unit Price",
			wantMsg:   "required",
		},
		{
			name:      "unknown unit type",
			mutate:    func(m map[string]string) { m["unit_type"] = "cubic" },
			wantField: "Unit Type",
			wantMsg:   `Unknown unit type "cubic"`,
		},
		{
			name:      "non-numeric price",
			mutate:    func(m map[string]string) { m["unit_price"] = "eighty five" },
			wantField: "Unit Price",
			wantMsg:   "not a number",
		},
		{
			name:      "zero price",
			mutate:    func(m map[string]string) { m["unit_price"] = "0" },
			wantField: "Unit Price",
			wantMsg:   "greater than zero",
		},
		{
			name:      "negative price",
			mutate:    func(m map[string]string) { m["unit_price"] = "-5" },
			wantField: "Unit Price",
			wantMsg:   "greater than zero",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cells := make(map[string]string, len(valid))
			for k, v := range valid {
				cells[k] = v
			}
			tc.mutate(cells)

			_, errs := validateCatalogRow(2, cells)
			if tc.wantField == "" {
				if len(errs) != 0 {
					t.Fatalf("expected no errors, got %v", errs)
				}
				return
			}
			if len(errs) == 0 {
				t.Fatal("expected an error, got none")
			}
			found := false
			for _, e := range errs {
				if e.Field == tc.wantField && strings.Contains(e.Message, tc.wantMsg) {
					found = true
				}
			}
			if !found {
				t.Errorf("no error on field %q mentioning %q; got %v", tc.wantField, tc.wantMsg, errs)
			}
		})
	}
}

func TestValidateCatalogRowParsesPrice(t *testing.T) {
	parsed, errs := validateCatalogRow(2, map[string]string{
		"category":    "Electrical",
		"subcategory": "Wiring",
		"material":    "Copper Wire",
		"unit_type":   "Running_Length",
		"unit_price":  "1,250.50",
	})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if parsed.UnitPrice != 1250.50 {
		t.Errorf("UnitPrice = %v, want 1250.50", parsed.UnitPrice)
	}
	if parsed.UnitType != "running_length" {
		t.Errorf("UnitType = %q, want normalized lowercase", parsed.UnitType)
	}
}

func TestSectionDedupeKey(t *testing.T) {
	a := sectionDedupeKey("Living Room", "Gypsum Board", "")
	b := sectionDedupeKey("living room", "GYPSUM BOARD", "")
	if a != b {
		t.Error("dedupe key should be case-insensitive")
	}
	c := sectionDedupeKey("Bedroom", "Gypsum Board", "")
	if a == c {
		t.Error("different subcategories must not collide")
	}
}

func TestGenerateCatalogTemplate(t *testing.T) {
	data, err := GenerateCatalogTemplate()
	if err != nil {
		t.Fatalf("GenerateCatalogTemplate: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("template is not a readable workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Catalog")
	if err != nil {
		t.Fatalf("read Catalog sheet: %v", err)
	}
	if len(rows) < 1 {
		t.Fatal("template has no header row")
	}

	wantHeaders := []string{"Category *", "Subcategory *", "Material *", "Description", "Unit Type *", "Unit Price *"}
	if len(rows[0]) != len(wantHeaders) {
		t.Fatalf("header row has %d columns, want %d", len(rows[0]), len(wantHeaders))
	}
	for i, want := range wantHeaders {
		if rows[0][i] != want {
			t.Errorf("header %d = %q, want %q", i, rows[0][i], want)
		}
	}

	// Hidden instructions sheet with one row per field
	visible, err := f.GetSheetVisible("Instructions")
	if err != nil {
		t.Fatalf("Instructions sheet missing: %v", err)
	}
	if visible {
		t.Error("Instructions sheet should be hidden")
	}

	// Header survives a round-trip through the importer's header mapping
	mapped := mapCatalogHeaders(rows[0])
	for i, key := range mapped {
		if key == "" {
			t.Errorf("template column %d (%q) is not recognized by the importer", i, rows[0][i])
		}
	}
}

func TestGenerateErrorReport(t *testing.T) {
	data, err := GenerateErrorReport([]ValidationError{
		{Row: 3, Field: "Unit Price", Message: "Unit Price must be greater than zero"},
		{Row: 7, Field: "Unit Type", Message: `Unknown unit type "cubic"`},
	})
	if err != nil {
		t.Fatalf("GenerateErrorReport: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("report is not a readable workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Errors")
	if err != nil {
		t.Fatalf("read Errors sheet: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2 errors", len(rows))
	}
	if rows[1][0] != "3" || rows[1][1] != "Unit Price" {
		t.Errorf("first error row = %v", rows[1])
	}
	if !strings.Contains(rows[2][2], "cubic") {
		t.Errorf("second error message = %q", rows[2][2])
	}
}
