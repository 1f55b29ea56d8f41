package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/xuri/excelize/v2"
)

const importBatchSize = 100

// ValidationError represents a single field-level error on one row.
type ValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// CatalogRow is one parsed catalog line from an uploaded file.
type CatalogRow struct {
	Category    string  `json:"category"`
	Subcategory string  `json:"subcategory"`
	Material    string  `json:"material"`
	Description string  `json:"description"`
	UnitType    string  `json:"unit_type"`
	UnitPrice   float64 `json:"unit_price"`
}

// ValidationResult is returned after parsing and validating an uploaded file.
type ValidationResult struct {
	TotalRows  int               `json:"total_rows"`
	ValidRows  int               `json:"valid_rows"`
	ErrorRows  int               `json:"error_rows"`
	Errors     []ValidationError `json:"errors"`
	ParsedRows []CatalogRow      `json:"-"`
	FileName   string            `json:"-"`
}

// ImportResult holds the outcome of a batch import operation.
type ImportResult struct {
	TotalRows  int              `json:"total_rows"`
	Imported   int              `json:"imported"`
	Failed     int              `json:"failed"`
	Errors     []ImportRowError `json:"errors,omitempty"`
	RolledBack bool             `json:"rolled_back"`
}

// ImportRowError represents a failure to insert a specific row.
type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// parseCatalogCSV reads a CSV file and returns headers + data rows.
func parseCatalogCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return allRows[0], allRows[1:], nil
}

// parseCatalogExcel reads an xlsx file and returns headers + data rows from
// the first sheet.
func parseCatalogExcel(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return rows[0], rows[1:], nil
}

// mapCatalogHeaders maps uploaded column headers to catalog field keys.
// Returns an ordered list of field keys (one per column, "" for unrecognized).
func mapCatalogHeaders(headers []string) []string {
	labelToKey := make(map[string]string)
	for _, f := range CatalogTemplateFields() {
		labelToKey[strings.ToLower(strings.TrimSpace(f.Label))] = f.Key
	}

	mapped := make([]string, len(headers))
	for i, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(h))
		// Strip trailing " *" that the template adds for required fields
		norm = strings.TrimSpace(strings.TrimSuffix(norm, "*"))
		mapped[i] = labelToKey[norm]
	}
	return mapped
}

// ValidateCatalogFile parses an uploaded catalog file and validates every row:
// required fields, known unit types, positive numeric prices, and duplicate
// material+description entries both within the file and against the stored
// catalog.
func ValidateCatalogFile(app *pocketbase.PocketBase, file multipart.File, fileName string) (*ValidationResult, error) {
	var headers []string
	var dataRows [][]string
	var err error

	lowerName := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lowerName, ".csv"):
		headers, dataRows, err = parseCatalogCSV(file)
	case strings.HasSuffix(lowerName, ".xlsx"):
		headers, dataRows, err = parseCatalogExcel(file)
	default:
		return nil, fmt.Errorf("unsupported file format: must be .csv or .xlsx")
	}
	if err != nil {
		return nil, err
	}

	columnKeys := mapCatalogHeaders(headers)

	existing, err := loadExistingSectionKeys(app)
	if err != nil {
		return nil, fmt.Errorf("load existing catalog: %w", err)
	}

	result := &ValidationResult{
		TotalRows:  len(dataRows),
		FileName:   fileName,
		ParsedRows: make([]CatalogRow, 0, len(dataRows)),
	}

	seenInFile := make(map[string]int) // dedupe key -> first row number

	for rowIdx, row := range dataRows {
		rowNum := rowIdx + 2 // 1-indexed, +1 for header row
		cells := make(map[string]string)
		for colIdx, key := range columnKeys {
			if key == "" {
				continue
			}
			value := ""
			if colIdx < len(row) {
				value = strings.TrimSpace(row[colIdx])
			}
			cells[key] = value
		}

		parsed, rowErrors := validateCatalogRow(rowNum, cells)

		if len(rowErrors) == 0 {
			key := sectionDedupeKey(parsed.Subcategory, parsed.Material, parsed.Description)
			if firstRow, dup := seenInFile[key]; dup {
				rowErrors = append(rowErrors, ValidationError{
					Row:     rowNum,
					Field:   "Material",
					Message: fmt.Sprintf("Duplicate of row %d (%s / %s)", firstRow, parsed.Subcategory, parsed.Material),
				})
			} else if existing[key] {
				rowErrors = append(rowErrors, ValidationError{
					Row:     rowNum,
					Field:   "Material",
					Message: fmt.Sprintf("%s under %s already exists in the catalog", parsed.Material, parsed.Subcategory),
				})
			} else {
				seenInFile[key] = rowNum
			}
		}

		result.Errors = append(result.Errors, rowErrors...)
		result.ParsedRows = append(result.ParsedRows, parsed)
	}

	errorRowSet := make(map[int]bool)
	for _, e := range result.Errors {
		errorRowSet[e.Row] = true
	}
	result.ErrorRows = len(errorRowSet)
	result.ValidRows = result.TotalRows - result.ErrorRows

	return result, nil
}

// validateCatalogRow checks one row's cells and returns the parsed row plus
// any field-level errors.
func validateCatalogRow(rowNum int, cells map[string]string) (CatalogRow, []ValidationError) {
	var errs []ValidationError

	for _, f := range CatalogTemplateFields() {
		if f.Required && cells[f.Key] == "" {
			errs = append(errs, ValidationError{
				Row:     rowNum,
				Field:   f.Label,
				Message: fmt.Sprintf("%s is required", f.Label),
			})
		}
	}

	parsed := CatalogRow{
		Category:    cells["category"],
		Subcategory: cells["subcategory"],
		Material:    cells["material"],
		Description: cells["description"],
		UnitType:    strings.ToLower(cells["unit_type"]),
	}

	if parsed.UnitType != "" && !ValidUnitType(parsed.UnitType) {
		errs = append(errs, ValidationError{
			Row:     rowNum,
			Field:   "Unit Type",
			Message: fmt.Sprintf("Unknown unit type %q (expected: %s)", cells["unit_type"], strings.Join(UnitTypeNames(), ", ")),
		})
	}

	if raw := cells["unit_price"]; raw != "" {
		price, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		switch {
		case err != nil:
			errs = append(errs, ValidationError{
				Row:     rowNum,
				Field:   "Unit Price",
				Message: fmt.Sprintf("Unit Price %q is not a number", raw),
			})
		case price <= 0:
			errs = append(errs, ValidationError{
				Row:     rowNum,
				Field:   "Unit Price",
				Message: "Unit Price must be greater than zero",
			})
		default:
			parsed.UnitPrice = price
		}
	}

	return parsed, errs
}

func sectionDedupeKey(subcategory, material, description string) string {
	return strings.ToLower(subcategory) + "\x00" + strings.ToLower(material) + "\x00" + strings.ToLower(description)
}

// loadExistingSectionKeys builds the dedupe set for the stored catalog.
func loadExistingSectionKeys(app *pocketbase.PocketBase) (map[string]bool, error) {
	col, err := app.FindCollectionByNameOrId("sections")
	if err != nil {
		return nil, err
	}
	records, err := app.FindRecordsByFilter(col, "id != ''", "", 0, 0, nil)
	if err != nil {
		return make(map[string]bool), nil
	}

	subNames, err := relNameLookup(app, "subcategories")
	if err != nil {
		return nil, err
	}

	keys := make(map[string]bool, len(records))
	for _, r := range records {
		sub := subNames[r.GetString("subcategory")]
		keys[sectionDedupeKey(sub, r.GetString("material"), r.GetString("description"))] = true
	}
	return keys, nil
}

// CommitCatalogImport re-validates and batch-inserts parsed catalog rows,
// creating category and subcategory records on first use. Rows are processed
// in chunks of importBatchSize; a failure inside a chunk rolls that whole
// chunk back and the remaining chunks still run.
func CommitCatalogImport(app *pocketbase.PocketBase, rows []CatalogRow) (*ImportResult, error) {
	revalidationErrors := revalidateCatalogRows(app, rows)
	if len(revalidationErrors) > 0 {
		errorRowSet := make(map[int]bool)
		for _, e := range revalidationErrors {
			errorRowSet[e.Row] = true
		}
		return &ImportResult{
			TotalRows:  len(rows),
			Failed:     len(errorRowSet),
			Errors:     toImportRowErrors(revalidationErrors),
			RolledBack: true,
		}, nil
	}

	sectionsCol, err := app.FindCollectionByNameOrId("sections")
	if err != nil {
		return nil, fmt.Errorf("sections collection not found: %w", err)
	}

	resolver, err := newCatalogResolver(app)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{TotalRows: len(rows)}

	for chunkStart := 0; chunkStart < len(rows); chunkStart += importBatchSize {
		chunkEnd := chunkStart + importBatchSize
		if chunkEnd > len(rows) {
			chunkEnd = len(rows)
		}
		chunk := rows[chunkStart:chunkEnd]

		chunkErrors := insertCatalogChunk(app, sectionsCol, resolver, chunk, chunkStart)
		if len(chunkErrors) > 0 {
			result.Errors = append(result.Errors, chunkErrors...)
			result.Failed += len(chunk) // entire chunk failed
			result.RolledBack = true
		} else {
			result.Imported += len(chunk)
		}
	}

	return result, nil
}

// insertCatalogChunk inserts a batch of rows within a RunInTransaction block.
// If any row fails, the entire chunk is rolled back and errors are returned.
func insertCatalogChunk(
	app *pocketbase.PocketBase,
	sectionsCol *core.Collection,
	resolver *catalogResolver,
	rows []CatalogRow,
	startOffset int,
) []ImportRowError {
	var chunkErrors []ImportRowError

	err := app.RunInTransaction(func(txApp core.App) error {
		for i, row := range rows {
			rowNum := startOffset + i + 2 // 1-indexed + header row

			catID, subID, err := resolver.resolve(txApp, row.Category, row.Subcategory)
			if err != nil {
				chunkErrors = append(chunkErrors, ImportRowError{
					Row:     rowNum,
					Field:   "Category",
					Message: fmt.Sprintf("Failed to resolve grouping: %s", err.Error()),
				})
				return fmt.Errorf("grouping resolve failed at row %d: %w", rowNum, err)
			}

			record := core.NewRecord(sectionsCol)
			record.Set("category", catID)
			record.Set("subcategory", subID)
			record.Set("material", row.Material)
			record.Set("description", row.Description)
			record.Set("unit_type", row.UnitType)
			record.Set("unit_price", row.UnitPrice)

			if err := txApp.Save(record); err != nil {
				chunkErrors = append(chunkErrors, ImportRowError{
					Row:     rowNum,
					Message: fmt.Sprintf("Failed to save: %s", err.Error()),
				})
				return fmt.Errorf("save failed at row %d: %w", rowNum, err)
			}
		}
		return nil
	})

	if err != nil {
		log.Printf("catalog_import: chunk insert rolled back: %v", err)
		if len(chunkErrors) == 0 {
			chunkErrors = append(chunkErrors, ImportRowError{
				Row:     startOffset + 2,
				Message: fmt.Sprintf("Transaction failed: %s", err.Error()),
			})
		}
	}

	return chunkErrors
}

// catalogResolver caches category and subcategory record IDs by name,
// creating missing ones inside the active transaction.
type catalogResolver struct {
	catCol *core.Collection
	subCol *core.Collection
	cats   map[string]string // lower(name) -> id
	subs   map[string]string // lower(category name)\x00lower(name) -> id
}

func newCatalogResolver(app *pocketbase.PocketBase) (*catalogResolver, error) {
	catCol, err := app.FindCollectionByNameOrId("categories")
	if err != nil {
		return nil, fmt.Errorf("categories collection not found: %w", err)
	}
	subCol, err := app.FindCollectionByNameOrId("subcategories")
	if err != nil {
		return nil, fmt.Errorf("subcategories collection not found: %w", err)
	}

	r := &catalogResolver{
		catCol: catCol,
		subCol: subCol,
		cats:   make(map[string]string),
		subs:   make(map[string]string),
	}

	catRecords, err := app.FindRecordsByFilter(catCol, "id != ''", "", 0, 0, nil)
	if err == nil {
		for _, rec := range catRecords {
			r.cats[strings.ToLower(rec.GetString("name"))] = rec.Id
		}
	}

	subRecords, err := app.FindRecordsByFilter(subCol, "id != ''", "", 0, 0, nil)
	if err == nil {
		catNameByID := make(map[string]string, len(r.cats))
		for name, id := range r.cats {
			catNameByID[id] = name
		}
		for _, rec := range subRecords {
			catName := catNameByID[rec.GetString("category")]
			r.subs[catName+"\x00"+strings.ToLower(rec.GetString("name"))] = rec.Id
		}
	}

	return r, nil
}

func (r *catalogResolver) resolve(txApp core.App, category, subcategory string) (string, string, error) {
	catKey := strings.ToLower(category)
	catID, ok := r.cats[catKey]
	if !ok {
		rec := core.NewRecord(r.catCol)
		rec.Set("name", category)
		if err := txApp.Save(rec); err != nil {
			return "", "", fmt.Errorf("create category %q: %w", category, err)
		}
		catID = rec.Id
		r.cats[catKey] = catID
	}

	subKey := catKey + "\x00" + strings.ToLower(subcategory)
	subID, ok := r.subs[subKey]
	if !ok {
		rec := core.NewRecord(r.subCol)
		rec.Set("name", subcategory)
		rec.Set("category", catID)
		if err := txApp.Save(rec); err != nil {
			return "", "", fmt.Errorf("create subcategory %q: %w", subcategory, err)
		}
		subID = rec.Id
		r.subs[subKey] = subID
	}

	return catID, subID, nil
}

// revalidateCatalogRows repeats the upload validation against the parsed rows.
// This catches catalog changes between the initial validation and the commit.
func revalidateCatalogRows(app *pocketbase.PocketBase, rows []CatalogRow) []ValidationError {
	existing, err := loadExistingSectionKeys(app)
	if err != nil {
		existing = make(map[string]bool)
	}

	var allErrors []ValidationError
	seen := make(map[string]int)

	for rowIdx, row := range rows {
		rowNum := rowIdx + 2

		cells := map[string]string{
			"category":    row.Category,
			"subcategory": row.Subcategory,
			"material":    row.Material,
			"description": row.Description,
			"unit_type":   row.UnitType,
		}
		if row.UnitPrice != 0 {
			cells["unit_price"] = strconv.FormatFloat(row.UnitPrice, 'f', -1, 64)
		}

		_, rowErrors := validateCatalogRow(rowNum, cells)
		if len(rowErrors) == 0 {
			key := sectionDedupeKey(row.Subcategory, row.Material, row.Description)
			if firstRow, dup := seen[key]; dup {
				rowErrors = append(rowErrors, ValidationError{
					Row:     rowNum,
					Field:   "Material",
					Message: fmt.Sprintf("Duplicate of row %d (%s / %s)", firstRow, row.Subcategory, row.Material),
				})
			} else if existing[key] {
				rowErrors = append(rowErrors, ValidationError{
					Row:     rowNum,
					Field:   "Material",
					Message: fmt.Sprintf("%s under %s already exists in the catalog", row.Material, row.Subcategory),
				})
			} else {
				seen[key] = rowNum
			}
		}
		allErrors = append(allErrors, rowErrors...)
	}

	return allErrors
}

// toImportRowErrors converts ValidationErrors to ImportRowErrors.
func toImportRowErrors(ve []ValidationError) []ImportRowError {
	result := make([]ImportRowError, len(ve))
	for i, e := range ve {
		result[i] = ImportRowError{Row: e.Row, Field: e.Field, Message: e.Message}
	}
	return result
}

// GenerateErrorReport creates a downloadable .xlsx file from validation errors.
func GenerateErrorReport(errors []ValidationError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Errors"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DC2626"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})

	f.SetCellValue(sheet, "A1", "Row #")
	f.SetCellValue(sheet, "B1", "Field")
	f.SetCellValue(sheet, "C1", "Error")
	f.SetCellStyle(sheet, "A1", "C1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 22)
	f.SetColWidth(sheet, "C", "C", 55)

	for i, e := range errors {
		row := fmt.Sprintf("%d", i+2)
		f.SetCellValue(sheet, "A"+row, e.Row)
		f.SetCellValue(sheet, "B"+row, e.Field)
		f.SetCellValue(sheet, "C"+row, e.Message)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write error report: %w", err)
	}
	return buf.Bytes(), nil
}
