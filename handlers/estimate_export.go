package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"interiordesk/services"
)

const logoAssetPath = "static/logo.png"

// loadOptionalLogo loads the studio logo if present. Documents render without
// it when the asset is missing.
func loadOptionalLogo() ([]byte, extension.Type) {
	data, ext, err := services.LoadImageAsset(logoAssetPath)
	if err != nil {
		return nil, ""
	}
	return data, ext
}

// HandleEstimateExportPDF generates and downloads the estimate document.
func HandleEstimateExportPDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		estimateID := e.Request.PathValue("id")
		if estimateID == "" {
			return e.String(http.StatusBadRequest, "Missing estimate ID")
		}

		data, err := services.BuildEstimateExportData(app, estimateID)
		if err != nil {
			log.Printf("estimate_export_pdf: %v", err)
			return e.String(http.StatusNotFound, "Estimate not found")
		}

		logo, logoExt := loadOptionalLogo()
		pdfBytes, err := services.GenerateEstimatePDF(data, logo, logoExt)
		if err != nil {
			log.Printf("estimate_export_pdf: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate PDF file")
		}

		filename := services.EstimateFilename(data.ClientName, data.Name)

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(pdfBytes)
		return nil
	}
}

// HandleEstimateExportExcel generates and downloads the estimate workbook.
func HandleEstimateExportExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		estimateID := e.Request.PathValue("id")
		if estimateID == "" {
			return e.String(http.StatusBadRequest, "Missing estimate ID")
		}

		data, err := services.BuildEstimateExportData(app, estimateID)
		if err != nil {
			log.Printf("estimate_export_excel: %v", err)
			return e.String(http.StatusNotFound, "Estimate not found")
		}

		xlsxBytes, err := services.GenerateEstimateExcel(data)
		if err != nil {
			log.Printf("estimate_export_excel: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate Excel file")
		}

		filename := fmt.Sprintf("%s.xlsx", trimPDFExt(services.EstimateFilename(data.ClientName, data.Name)))

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

func trimPDFExt(name string) string {
	if len(name) > 4 && name[len(name)-4:] == ".pdf" {
		return name[:len(name)-4]
	}
	return name
}
