package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"golang.org/x/sync/errgroup"
)

// ReportVariant selects which financial document is produced for a client.
type ReportVariant string

const (
	// VariantClientSummary is the client-facing document: no raw expense
	// figures, no profit, no internal notes.
	VariantClientSummary ReportVariant = "ClientSummary"
	// VariantInternalReport is the confidential internal document with the
	// full financial picture and analysis.
	VariantInternalReport ReportVariant = "InternalReport"
)

// ClientInfo is the client header data shared by both variants.
type ClientInfo struct {
	ID          string
	Name        string
	Phone       string
	Email       string
	Address     string
	SiteAddress string
}

// StageRecord is one project timeline entry.
type StageRecord struct {
	Title string
	Note  string
	Date  string
}

// ReportData carries everything either report variant needs. The variant
// decides which parts are rendered; sensitive figures are simply never drawn
// in the client document.
type ReportData struct {
	Client        ClientInfo
	Stages        []StageRecord
	Payments      []PaymentRecord
	Expenses      []ExpenseRecord
	Finance       FinancialReport
	GeneratedDate string
}

// BuildReportData loads the client record and then fetches stages, payments
// and expenses concurrently, joining all three before the financial
// aggregation runs. A failure in any fetch fails the whole build; the report
// is never produced from partial history.
func BuildReportData(app *pocketbase.PocketBase, clientID string) (*ReportData, error) {
	clientRec, err := app.FindRecordById("clients", clientID)
	if err != nil {
		return nil, fmt.Errorf("client not found: %w", err)
	}

	data := &ReportData{
		Client: ClientInfo{
			ID:          clientRec.Id,
			Name:        clientRec.GetString("name"),
			Phone:       clientRec.GetString("phone"),
			Email:       clientRec.GetString("email"),
			Address:     clientRec.GetString("address"),
			SiteAddress: clientRec.GetString("site_address"),
		},
		GeneratedDate: time.Now().Format("02 Jan 2006"),
	}

	var g errgroup.Group

	g.Go(func() error {
		records, err := app.FindRecordsByFilter("stages",
			"client = {:clientId}", "date", 0, 0,
			map[string]any{"clientId": clientID})
		if err != nil {
			return fmt.Errorf("fetch stages: %w", err)
		}
		for _, r := range records {
			data.Stages = append(data.Stages, StageRecord{
				Title: r.GetString("title"),
				Note:  r.GetString("note"),
				Date:  formatRecordDate(r.GetString("date")),
			})
		}
		return nil
	})

	g.Go(func() error {
		records, err := app.FindRecordsByFilter("payments",
			"client = {:clientId}", "date", 0, 0,
			map[string]any{"clientId": clientID})
		if err != nil {
			return fmt.Errorf("fetch payments: %w", err)
		}
		for _, r := range records {
			data.Payments = append(data.Payments, PaymentRecord{
				Amount:     r.GetFloat("amount"),
				Status:     r.GetString("status"),
				Date:       formatRecordDate(r.GetString("date")),
				ReceivedBy: r.GetString("received_by"),
				Note:       r.GetString("note"),
			})
		}
		return nil
	})

	g.Go(func() error {
		records, err := app.FindRecordsByFilter("expenses",
			"client = {:clientId}", "date", 0, 0,
			map[string]any{"clientId": clientID})
		if err != nil {
			return fmt.Errorf("fetch expenses: %w", err)
		}
		for _, r := range records {
			data.Expenses = append(data.Expenses, ExpenseRecord{
				Amount:  r.GetFloat("amount"),
				Purpose: r.GetString("purpose"),
				Date:    formatRecordDate(r.GetString("date")),
				PaidBy:  r.GetString("paid_by"),
				Note:    r.GetString("note"),
			})
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	data.Finance = BuildFinancialReport(data.Payments, data.Expenses)
	return data, nil
}

// ReportFilename derives the deterministic download name for a variant, e.g.
// "Asha-Rao_InternalReport.pdf".
func ReportFilename(clientName string, variant ReportVariant) string {
	name := sanitizeFilePart(clientName)
	if name == "" {
		name = "Client"
	}
	return fmt.Sprintf("%s_%s.pdf", name, variant)
}

// sanitizeFilePart removes characters that are unsafe for filenames.
func sanitizeFilePart(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	return s
}

// formatRecordDate renders a stored date in the document date style, passing
// through values that do not parse.
func formatRecordDate(raw string) string {
	if raw == "" {
		return ""
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05.000Z", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("02 Jan 2006")
		}
	}
	return raw
}
