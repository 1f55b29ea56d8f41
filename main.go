package main

import (
	"log"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"interiordesk/collections"
	"interiordesk/handlers"
	"interiordesk/services"
)

func main() {
	app := pocketbase.New()

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.GET("/static/{path...}", apis.Static(os.DirFS("./static"), false))

		// Apply active client middleware globally
		se.Router.BindFunc(handlers.ActiveClientMiddleware(app))

		// ── Client activation ────────────────────────────────────
		se.Router.POST("/clients/{id}/activate", handlers.HandleClientActivate(app))
		se.Router.POST("/clients/deactivate", handlers.HandleClientDeactivate(app))

		// ── Catalog reads ────────────────────────────────────────
		se.Router.GET("/catalog/categories", handlers.HandleCategoryList(app))
		se.Router.GET("/catalog/subcategories", handlers.HandleSubcategoryList(app))
		se.Router.GET("/catalog/sections", handlers.HandleSectionList(app))

		// ── Catalog import / export ──────────────────────────────
		se.Router.GET("/catalog/import/template", handlers.HandleCatalogTemplateDownload(app))
		se.Router.POST("/catalog/import", handlers.HandleCatalogValidate(app))
		se.Router.POST("/catalog/import/commit", handlers.HandleCatalogImportCommit(app))
		se.Router.POST("/catalog/import/errors", handlers.HandleCatalogErrorReport(app))
		se.Router.GET("/catalog/export", handlers.HandleCatalogExport(app))

		// ── Clients ──────────────────────────────────────────────
		se.Router.GET("/clients", handlers.HandleClientList(app))
		se.Router.GET("/clients/{id}", handlers.HandleClientView(app))

		// ── Client documents ─────────────────────────────────────
		se.Router.GET("/clients/{id}/report/client",
			handlers.HandleReportExportPDF(app, services.VariantClientSummary))
		se.Router.GET("/clients/{id}/report/internal",
			handlers.HandleReportExportPDF(app, services.VariantInternalReport))
		se.Router.GET("/clients/{id}/photos/album", handlers.HandlePhotoAlbumPDF(app))

		// ── Estimates (create once, read-only afterwards) ────────
		se.Router.POST("/estimates", handlers.HandleEstimateCreate(app))
		se.Router.GET("/estimates", handlers.HandleEstimateList(app))
		se.Router.GET("/estimates/{id}/export/pdf", handlers.HandleEstimateExportPDF(app))
		se.Router.GET("/estimates/{id}/export/excel", handlers.HandleEstimateExportExcel(app))
		se.Router.GET("/estimates/{id}", handlers.HandleEstimateView(app))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
