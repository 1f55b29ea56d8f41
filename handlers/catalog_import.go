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

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// HandleCatalogTemplateDownload downloads a blank catalog import template.
func HandleCatalogTemplateDownload(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		xlsxBytes, err := services.GenerateCatalogTemplate()
		if err != nil {
			log.Printf("catalog_template: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate template")
		}

		e.Response.Header().Set("Content-Type", xlsxContentType)
		e.Response.Header().Set("Content-Disposition", `attachment; filename="Catalog_Template.xlsx"`)
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleCatalogValidate receives a catalog file upload and returns the
// validation result, including the parsed rows when the file is clean so the
// client can post them back for commit.
func HandleCatalogValidate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		// Parse multipart form (max 10MB)
		if err := e.Request.ParseMultipartForm(10 << 20); err != nil {
			return e.String(http.StatusBadRequest, "File too large or invalid form data")
		}

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return e.String(http.StatusBadRequest, "Please select a file to upload")
		}
		defer file.Close()

		result, err := services.ValidateCatalogFile(app, file, header.Filename)
		if err != nil {
			log.Printf("catalog_validate: %v", err)
			return e.String(http.StatusBadRequest, err.Error())
		}

		resp := struct {
			*services.ValidationResult
			ParsedRows []services.CatalogRow `json:"parsedRows,omitempty"`
		}{ValidationResult: result}
		if result.ErrorRows == 0 {
			resp.ParsedRows = result.ParsedRows
		}
		return e.JSON(http.StatusOK, resp)
	}
}

// HandleCatalogImportCommit re-validates and batch-inserts the uploaded rows.
func HandleCatalogImportCommit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var rows []services.CatalogRow
		if err := json.NewDecoder(e.Request.Body).Decode(&rows); err != nil {
			return e.String(http.StatusBadRequest, "Invalid row data")
		}
		if len(rows) == 0 {
			return e.String(http.StatusBadRequest, "File data missing. Please re-upload and try again.")
		}

		importResult, err := services.CommitCatalogImport(app, rows)
		if err != nil {
			log.Printf("catalog_import_commit: %v", err)
			return e.String(http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		status := http.StatusOK
		if importResult.Failed > 0 {
			status = http.StatusUnprocessableEntity
		}
		return e.JSON(status, importResult)
	}
}

// HandleCatalogErrorReport downloads the validation errors as an Excel file.
func HandleCatalogErrorReport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var errors []services.ValidationError
		if err := json.NewDecoder(e.Request.Body).Decode(&errors); err != nil {
			return e.String(http.StatusBadRequest, "Invalid error data")
		}

		xlsxBytes, err := services.GenerateErrorReport(errors)
		if err != nil {
			log.Printf("catalog_error_report: %v", err)
			return e.String(http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		filename := fmt.Sprintf("Catalog_Errors_%s.xlsx", time.Now().Format("2006-01-02"))

		e.Response.Header().Set("Content-Type", xlsxContentType)
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleCatalogExport downloads the live catalog in the import layout.
func HandleCatalogExport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		xlsxBytes, err := services.ExportCatalog(app)
		if err != nil {
			log.Printf("catalog_export: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate export")
		}

		filename := fmt.Sprintf("Catalog_%s.xlsx", time.Now().Format("2006-01-02"))

		e.Response.Header().Set("Content-Type", xlsxContentType)
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}
