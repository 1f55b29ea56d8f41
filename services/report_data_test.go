package services

import (
	"testing"

	"interiordesk/testhelpers"
)

func TestBuildReportData(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	client := testhelpers.CreateTestClient(t, app, "Meera Nair")

	testhelpers.CreateTestStage(t, app, client.Id, "Site Measurement", "2026-04-02 10:00:00.000Z")
	testhelpers.CreateTestStage(t, app, client.Id, "False Ceiling Done", "2026-05-18 10:00:00.000Z")
	testhelpers.CreateTestPayment(t, app, client.Id, 200000, PaymentPaid, "2026-04-05 10:00:00.000Z")
	testhelpers.CreateTestPayment(t, app, client.Id, 150000, PaymentPending, "2026-05-01 10:00:00.000Z")
	testhelpers.CreateTestExpense(t, app, client.Id, 120000, ExpenseMaterial, "2026-04-10 10:00:00.000Z")
	testhelpers.CreateTestExpense(t, app, client.Id, 85000, ExpenseLabour, "2026-04-20 10:00:00.000Z")

	data, err := BuildReportData(app, client.Id)
	if err != nil {
		t.Fatalf("BuildReportData: %v", err)
	}

	if data.Client.Name != "Meera Nair" {
		t.Errorf("client name = %q", data.Client.Name)
	}
	if len(data.Stages) != 2 {
		t.Errorf("stages = %d, want 2", len(data.Stages))
	}
	// Stages come back in date order.
	if len(data.Stages) == 2 && data.Stages[0].Title != "Site Measurement" {
		t.Errorf("first stage = %q, want Site Measurement", data.Stages[0].Title)
	}
	if len(data.Payments) != 2 || len(data.Expenses) != 2 {
		t.Errorf("payments/expenses = %d/%d, want 2/2", len(data.Payments), len(data.Expenses))
	}

	fr := data.Finance
	if fr.TotalPaid != 200000 || fr.TotalPending != 150000 {
		t.Errorf("paid/pending = %v/%v, want 200000/150000", fr.TotalPaid, fr.TotalPending)
	}
	if fr.TotalExpenses != 205000 {
		t.Errorf("TotalExpenses = %v, want 205000", fr.TotalExpenses)
	}
	if fr.NetProfit != -5000 {
		t.Errorf("NetProfit = %v, want -5000", fr.NetProfit)
	}
	if fr.DominantExpense != ExpenseMaterial {
		t.Errorf("DominantExpense = %q, want material", fr.DominantExpense)
	}
}

func TestBuildReportData_UnknownClient(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if _, err := BuildReportData(app, "missing123"); err == nil {
		t.Error("expected an error for an unknown client")
	}
}

func TestReportFilename(t *testing.T) {
	tests := []struct {
		name    string
		variant ReportVariant
		want    string
	}{
		{"Meera Nair", VariantClientSummary, "Meera-Nair_ClientSummary.pdf"},
		{"Meera Nair", VariantInternalReport, "Meera-Nair_InternalReport.pdf"},
		{"A/B: Flat", VariantClientSummary, "A-B--Flat_ClientSummary.pdf"},
		{"", VariantInternalReport, "Client_InternalReport.pdf"},
	}
	for _, tc := range tests {
		if got := ReportFilename(tc.name, tc.variant); got != tc.want {
			t.Errorf("ReportFilename(%q, %s) = %q, want %q", tc.name, tc.variant, got, tc.want)
		}
	}
}

func TestFormatRecordDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2026-04-02 10:00:00.000Z", "02 Apr 2026"},
		{"2026-04-02", "02 Apr 2026"},
		{"", ""},
		{"not a date", "not a date"},
	}
	for _, tc := range tests {
		if got := formatRecordDate(tc.in); got != tc.want {
			t.Errorf("formatRecordDate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
