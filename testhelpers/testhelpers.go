// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"interiordesk/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestClient creates a client record with the given name and returns it.
func CreateTestClient(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("clients")
	if err != nil {
		t.Fatalf("failed to find clients collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("phone", "9845012340")
	record.Set("email", "client@example.com")
	record.Set("address", "42 Lavelle Road, Bengaluru")
	record.Set("site_address", "Flat 1203, Panathur")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test client: %v", err)
	}

	return record
}

// CreateTestCategory creates a catalog category record.
func CreateTestCategory(t *testing.T, app *pocketbase.PocketBase, name string, sortOrder int) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("categories")
	if err != nil {
		t.Fatalf("failed to find categories collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("sort_order", sortOrder)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test category: %v", err)
	}

	return record
}

// CreateTestSubcategory creates a subcategory record under a category.
func CreateTestSubcategory(t *testing.T, app *pocketbase.PocketBase, categoryID, name string, sortOrder int) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("subcategories")
	if err != nil {
		t.Fatalf("failed to find subcategories collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("category", categoryID)
	record.Set("sort_order", sortOrder)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test subcategory: %v", err)
	}

	return record
}

// CreateTestSection creates a priced catalog section record.
func CreateTestSection(t *testing.T, app *pocketbase.PocketBase, categoryID, subcategoryID, material, unitType string, unitPrice float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("sections")
	if err != nil {
		t.Fatalf("failed to find sections collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("category", categoryID)
	record.Set("subcategory", subcategoryID)
	record.Set("material", material)
	record.Set("description", material+" test spec")
	record.Set("unit_type", unitType)
	record.Set("unit_price", unitPrice)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test section: %v", err)
	}

	return record
}

// CreateTestEstimate creates an estimate record for a client.
func CreateTestEstimate(t *testing.T, app *pocketbase.PocketBase, clientID, clientName, name string, total, grandTotal float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("estimates")
	if err != nil {
		t.Fatalf("failed to find estimates collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("client", clientID)
	record.Set("client_name", clientName)
	record.Set("name", name)
	record.Set("discount", total-grandTotal)
	record.Set("total", total)
	record.Set("grand_total", grandTotal)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test estimate: %v", err)
	}

	return record
}

// CreateTestEstimateSection creates one persisted estimate line.
func CreateTestEstimateSection(t *testing.T, app *pocketbase.PocketBase, estimateID string, sortOrder int, category, subcategory, material, unitType string, unitPrice, quantity, total float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("estimate_sections")
	if err != nil {
		t.Fatalf("failed to find estimate_sections collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("estimate", estimateID)
	record.Set("sort_order", sortOrder)
	record.Set("category", category)
	record.Set("subcategory", subcategory)
	record.Set("material", material)
	record.Set("description", material+" test spec")
	record.Set("unit_type", unitType)
	record.Set("unit_price", unitPrice)
	record.Set("quantity", quantity)
	record.Set("total", total)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test estimate section: %v", err)
	}

	return record
}

// CreateTestStage creates a project stage record for a client.
func CreateTestStage(t *testing.T, app *pocketbase.PocketBase, clientID, title, date string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("stages")
	if err != nil {
		t.Fatalf("failed to find stages collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("client", clientID)
	record.Set("title", title)
	record.Set("note", title+" note")
	record.Set("date", date)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test stage: %v", err)
	}

	return record
}

// CreateTestPayment creates a payment record for a client.
func CreateTestPayment(t *testing.T, app *pocketbase.PocketBase, clientID string, amount float64, status, date string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("payments")
	if err != nil {
		t.Fatalf("failed to find payments collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("client", clientID)
	record.Set("amount", amount)
	record.Set("status", status)
	record.Set("date", date)
	record.Set("received_by", "Accounts")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test payment: %v", err)
	}

	return record
}

// CreateTestExpense creates an expense record for a client.
func CreateTestExpense(t *testing.T, app *pocketbase.PocketBase, clientID string, amount float64, purpose, date string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("expenses")
	if err != nil {
		t.Fatalf("failed to find expenses collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("client", clientID)
	record.Set("amount", amount)
	record.Set("purpose", purpose)
	record.Set("date", date)
	record.Set("paid_by", "Site Supervisor")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test expense: %v", err)
	}

	return record
}

// AssertBodyContains checks that body contains all specified fragments.
func AssertBodyContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected body to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
