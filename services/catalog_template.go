package services

import (
	"bytes"
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/xuri/excelize/v2"
)

// CatalogField describes one column in a catalog import Excel template.
type CatalogField struct {
	Key          string // internal name, matches the sections column or grouping rel
	Label        string // human-readable header shown in Excel
	Description  string // shown on the Instructions sheet
	FormatRule   string
	ExampleValue string
	Required     bool
}

// CatalogTemplateFields returns the ordered column list for catalog import
// templates.
func CatalogTemplateFields() []CatalogField {
	return []CatalogField{
		{Key: "category", Label: "Category", Description: "Top-level work category", ExampleValue: "False Ceiling", Required: true},
		{Key: "subcategory", Label: "Subcategory", Description: "Grouping within the category", ExampleValue: "Living Room", Required: true},
		{Key: "material", Label: "Material", Description: "Material or work item name", ExampleValue: "Gypsum Board", Required: true},
		{Key: "description", Label: "Description", Description: "Optional specification note", ExampleValue: "Saint-Gobain 12.5mm on GI frame"},
		{Key: "unit_type", Label: "Unit Type", Description: "How quantity is measured (select from dropdown)", FormatRule: "area, running_length or piece", ExampleValue: "area", Required: true},
		{Key: "unit_price", Label: "Unit Price", Description: "Rate in rupees per unit", FormatRule: "Positive number", ExampleValue: "85", Required: true},
	}
}

// GenerateCatalogTemplate creates a downloadable blank .xlsx template for bulk
// catalog entry.
func GenerateCatalogTemplate() ([]byte, error) {
	fields := CatalogTemplateFields()

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Catalog"
	defaultSheet := f.GetSheetName(0)
	f.SetSheetName(defaultSheet, sheetName)

	requiredHeaderStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1D4ED8"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})

	optionalHeaderStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#6B7280"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})

	columns := columnLetters(len(fields))
	for i, field := range fields {
		cell := fmt.Sprintf("%s1", columns[i])

		headerText := field.Label
		if field.Required {
			headerText += " *"
		}
		f.SetCellValue(sheetName, cell, headerText)

		if field.Required {
			f.SetCellStyle(sheetName, cell, cell, requiredHeaderStyle)
		} else {
			f.SetCellStyle(sheetName, cell, cell, optionalHeaderStyle)
		}

		width := float64(len(field.Label)) * 1.3
		if width < 15 {
			width = 15
		}
		f.SetColWidth(sheetName, columns[i], columns[i], width)
	}

	// Dropdown for Unit Type so uploads cannot invent measurement modes
	for i, field := range fields {
		if field.Key != "unit_type" {
			continue
		}
		col := columns[i]
		dv := excelize.NewDataValidation(true)
		dv.Sqref = fmt.Sprintf("%s2:%s1048576", col, col)
		dv.SetDropList(UnitTypeNames())
		f.AddDataValidation(sheetName, dv)
	}

	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		Split:       false,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	addCatalogInstructionsSheet(f, fields)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel template: %w", err)
	}
	return buf.Bytes(), nil
}

// addCatalogInstructionsSheet creates a hidden sheet with field descriptions.
func addCatalogInstructionsSheet(f *excelize.File, fields []CatalogField) {
	instSheet := "Instructions"
	f.NewSheet(instSheet)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E5E7EB"}, Pattern: 1},
	})

	f.SetCellValue(instSheet, "A1", "Catalog Import - Instructions")
	f.SetCellStyle(instSheet, "A1", "A1", titleStyle)

	instructionHeaders := []string{"Field Name", "Required?", "Format Rule", "Description", "Example"}
	cols := columnLetters(5)
	for i, h := range instructionHeaders {
		cell := fmt.Sprintf("%s3", cols[i])
		f.SetCellValue(instSheet, cell, h)
		f.SetCellStyle(instSheet, cell, cell, headerStyle)
	}

	for i, field := range fields {
		row := fmt.Sprintf("%d", i+4)
		reqLabel := "Optional"
		if field.Required {
			reqLabel = "Required"
		}
		f.SetCellValue(instSheet, cols[0]+row, field.Label)
		f.SetCellValue(instSheet, cols[1]+row, reqLabel)
		f.SetCellValue(instSheet, cols[2]+row, field.FormatRule)
		f.SetCellValue(instSheet, cols[3]+row, field.Description)
		f.SetCellValue(instSheet, cols[4]+row, field.ExampleValue)
	}

	widths := []float64{20, 12, 30, 45, 25}
	for i, w := range widths {
		f.SetColWidth(instSheet, cols[i], cols[i], w)
	}

	f.SetSheetVisible(instSheet, false)
}

// ExportCatalog dumps the live catalog into a workbook in the same column
// layout the import template uses, so an export can be edited and re-imported.
func ExportCatalog(app *pocketbase.PocketBase) ([]byte, error) {
	sectionsCol, err := app.FindCollectionByNameOrId("sections")
	if err != nil {
		return nil, fmt.Errorf("sections collection not found: %w", err)
	}
	records, err := app.FindRecordsByFilter(sectionsCol, "id != ''", "created", 0, 0, nil)
	if err != nil {
		return nil, fmt.Errorf("load sections: %w", err)
	}

	catNames, err := relNameLookup(app, "categories")
	if err != nil {
		return nil, err
	}
	subNames, err := relNameLookup(app, "subcategories")
	if err != nil {
		return nil, err
	}

	fields := CatalogTemplateFields()

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Catalog"
	f.SetSheetName(f.GetSheetName(0), sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})

	columns := columnLetters(len(fields))
	for i, field := range fields {
		cell := fmt.Sprintf("%s1", columns[i])
		f.SetCellValue(sheetName, cell, field.Label)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)

		width := float64(len(field.Label)) * 1.3
		if width < 15 {
			width = 15
		}
		f.SetColWidth(sheetName, columns[i], columns[i], width)
	}

	for i, r := range records {
		row := fmt.Sprintf("%d", i+2)
		f.SetCellValue(sheetName, "A"+row, catNames[r.GetString("category")])
		f.SetCellValue(sheetName, "B"+row, subNames[r.GetString("subcategory")])
		f.SetCellValue(sheetName, "C"+row, sanitizeExcelCell(r.GetString("material")))
		f.SetCellValue(sheetName, "D"+row, sanitizeExcelCell(r.GetString("description")))
		f.SetCellValue(sheetName, "E"+row, r.GetString("unit_type"))
		f.SetCellValue(sheetName, "F"+row, r.GetFloat("unit_price"))
	}

	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		Split:       false,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write catalog export: %w", err)
	}
	return buf.Bytes(), nil
}

// relNameLookup maps record id -> name for a lookup collection.
func relNameLookup(app *pocketbase.PocketBase, collection string) (map[string]string, error) {
	col, err := app.FindCollectionByNameOrId(collection)
	if err != nil {
		return nil, fmt.Errorf("%s collection not found: %w", collection, err)
	}
	records, err := app.FindRecordsByFilter(col, "id != ''", "", 0, 0, nil)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", collection, err)
	}
	lookup := make(map[string]string, len(records))
	for _, r := range records {
		lookup[r.Id] = r.GetString("name")
	}
	return lookup, nil
}

// columnLetters returns Excel column letters for n columns: A, B, ... Z, AA, AB ...
func columnLetters(n int) []string {
	cols := make([]string, n)
	for i := 0; i < n; i++ {
		name, _ := excelize.ColumnNumberToName(i + 1)
		cols[i] = name
	}
	return cols
}
