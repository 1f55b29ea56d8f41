package services

import (
	"fmt"
	"log"
	"time"

	"github.com/pocketbase/pocketbase"
)

// GetFiscalYear returns the Indian fiscal year string for a given date.
// Indian fiscal year runs April to March.
// Jan 2026 → "25-26", May 2026 → "26-27"
func GetFiscalYear(t time.Time) string {
	year := t.Year()
	month := t.Month()

	var startYear int
	if month >= time.April {
		startYear = year
	} else {
		startYear = year - 1
	}
	endYear := startYear + 1

	return fmt.Sprintf("%02d-%02d", startYear%100, endYear%100)
}

// formatEstimateNumber constructs the estimate name from components.
func formatEstimateNumber(fiscalYear string, sequence int) string {
	return fmt.Sprintf("ARN-EST-%s-%03d", fiscalYear, sequence)
}

// GenerateEstimateNumber creates the next default estimate name for a client
// submission that arrives without one. Format: ARN-EST-{fiscal_year}-{sequence},
// with the 3-digit sequence counted per fiscal year across all clients.
func GenerateEstimateNumber(app *pocketbase.PocketBase, now time.Time) string {
	fiscalYear := GetFiscalYear(now)
	prefix := fmt.Sprintf("ARN-EST-%s-", fiscalYear)

	existing, err := app.FindRecordsByFilter(
		"estimates",
		"name ~ {:prefix}",
		"",
		0,
		0,
		map[string]any{"prefix": prefix + "%"},
	)
	if err != nil {
		log.Printf("estimate_number: count existing for %s: %v", fiscalYear, err)
		existing = nil
	}

	return formatEstimateNumber(fiscalYear, len(existing)+1)
}
