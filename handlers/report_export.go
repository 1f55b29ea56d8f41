package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"interiordesk/services"
)

// HandleReportExportPDF generates and downloads a financial report for a
// client. variant selects the client-facing summary or the internal
// confidential report.
func HandleReportExportPDF(app *pocketbase.PocketBase, variant services.ReportVariant) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		clientID := e.Request.PathValue("id")
		if clientID == "" {
			return e.String(http.StatusBadRequest, "Missing client ID")
		}

		data, err := services.BuildReportData(app, clientID)
		if err != nil {
			log.Printf("report_export: %v", err)
			return e.String(http.StatusNotFound, "Client not found")
		}

		logo, logoExt := loadOptionalLogo()
		pdfBytes, err := services.GenerateReportPDF(data, variant, logo, logoExt)
		if err != nil {
			log.Printf("report_export: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate PDF file")
		}

		filename := services.ReportFilename(data.Client.Name, variant)

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(pdfBytes)
		return nil
	}
}
