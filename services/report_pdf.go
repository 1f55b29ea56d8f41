package services

import (
	"fmt"
	"os"

	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
)

// Company identity drawn in the page chrome of every document.
const (
	CompanyName    = "Aranya Interiors"
	CompanyAddress = "14 MG Road, Bengaluru 560001"
	CompanyEmail   = "studio@aranyainteriors.in"
	CompanyPhone   = "+91 98450 12340"
)

// LoadImageAsset reads an image file and sniffs its type. The bytes are fully
// resident before any drawing begins; documents never reference an image that
// might still be loading.
func LoadImageAsset(path string) ([]byte, extension.Type, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("load image %s: %w", path, err)
	}
	ext, err := SniffImageType(data)
	if err != nil {
		return nil, "", fmt.Errorf("load image %s: %w", path, err)
	}
	return data, ext, nil
}

// SniffImageType detects PNG or JPEG from magic bytes.
func SniffImageType(data []byte) (extension.Type, error) {
	switch {
	case len(data) >= 8 && string(data[:8]) == "\x89PNG\r\n\x1a\n":
		return extension.Png, nil
	case len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return extension.Jpg, nil
	}
	return "", fmt.Errorf("unsupported image format")
}

// GenerateReportPDF composes and renders a financial document for a client.
// The logo is optional; pass nil bytes to omit it. Any failure mid-generation
// aborts and returns no bytes.
func GenerateReportPDF(data *ReportData, variant ReportVariant, logo []byte, logoExt extension.Type) ([]byte, error) {
	if data == nil {
		return nil, fmt.Errorf("no report data")
	}

	c := NewComposer(reportChrome(logo, logoExt))

	if err := c.Add(reportHeaderBlock(data, variant)); err != nil {
		return nil, err
	}
	if err := c.Add(timelineBlock(data.Stages)); err != nil {
		return nil, err
	}

	if variant == VariantInternalReport {
		for _, b := range []*Block{
			financialOverviewBlock(data.Finance),
			expenseBreakdownBlock(data.Finance),
			paymentHistoryBlock(data.Payments, true),
			analysisBlock(data.Finance),
		} {
			if err := c.Add(b); err != nil {
				return nil, err
			}
		}
	} else {
		for _, b := range []*Block{
			paymentSummaryBlock(data.Finance),
			paymentHistoryBlock(data.Payments, false),
		} {
			if err := c.Add(b); err != nil {
				return nil, err
			}
		}
	}

	if err := c.Add(reportFooterBlock(data.GeneratedDate)); err != nil {
		return nil, err
	}

	return RenderPDF(c.Finalize())
}

// reportChrome is the constant band redrawn at the top of every page.
func reportChrome(logo []byte, logoExt extension.Type) *Block {
	b := NewBlock()
	if len(logo) > 0 {
		b.Image(logo, logoExt, 16)
	}
	b.Text(CompanyName, true)
	b.Text(fmt.Sprintf("%s | %s | %s", CompanyAddress, CompanyEmail, CompanyPhone), false)
	b.Rule()
	return b
}

func reportHeaderBlock(data *ReportData, variant ReportVariant) *Block {
	title := "Project Report"
	if variant == VariantInternalReport {
		title = "Internal Financial Report — Confidential"
	}
	b := NewBlock().
		Spacer(3).
		Text(title, true).
		KeyValue("Client", data.Client.Name)
	if data.Client.Phone != "" {
		b.KeyValue("Phone", data.Client.Phone)
	}
	if data.Client.SiteAddress != "" {
		b.KeyValue("Site", data.Client.SiteAddress)
	}
	return b.Spacer(3)
}

func timelineBlock(stages []StageRecord) *Block {
	widths := []int{3, 4, 5}
	b := NewBlock().
		TitleBar("Project Timeline").
		TableHead([]string{"Date", "Stage", "Note"}, widths)
	if len(stages) == 0 {
		return b.Text("No stages recorded yet.", false).Spacer(3)
	}
	for _, s := range stages {
		b.TableRow([]string{s.Date, s.Title, s.Note}, widths)
	}
	return b.Spacer(3)
}

func paymentSummaryBlock(fr FinancialReport) *Block {
	return NewBlock().
		TitleBar("Payment Summary").
		KeyValue("Amount Received", FormatINR(fr.TotalPaid)).
		KeyValue("Amount Pending", FormatINR(fr.TotalPending)).
		Spacer(3)
}

func paymentHistoryBlock(payments []PaymentRecord, withNotes bool) *Block {
	widths := []int{3, 3, 3, 3}
	head := []string{"Date", "Amount", "Received By", "Status"}
	if withNotes {
		widths = []int{2, 3, 2, 2, 3}
		head = []string{"Date", "Amount", "Received By", "Status", "Note"}
	}

	b := NewBlock().
		TitleBar("Payment History").
		TableHead(head, widths)
	if len(payments) == 0 {
		return b.Text("No payments recorded yet.", false).Spacer(3)
	}
	for _, p := range payments {
		cells := []string{p.Date, FormatINR(p.Amount), p.ReceivedBy, statusLabel(p.Status)}
		if withNotes {
			cells = append(cells, p.Note)
		}
		b.TableRow(cells, widths)
	}
	return b.Spacer(3)
}

func financialOverviewBlock(fr FinancialReport) *Block {
	return NewBlock().
		TitleBar("Financial Overview").
		KeyValue("Total Received", FormatINR(fr.TotalPaid)).
		KeyValue("Total Pending", FormatINR(fr.TotalPending)).
		KeyValue("Total Expenses", FormatINR(fr.TotalExpenses)).
		KeyValue("Net Profit", FormatINR(fr.NetProfit)).
		KeyValue("Profit Margin", FormatPercent(fr.ProfitMarginPercent)).
		Spacer(3)
}

func expenseBreakdownBlock(fr FinancialReport) *Block {
	widths := []int{4, 4, 4}
	b := NewBlock().
		TitleBar("Expense Breakdown").
		TableHead([]string{"Category", "Amount", "Share"}, widths)
	for _, bucket := range fr.RankedExpenses() {
		b.TableRow([]string{
			expenseLabel(bucket.Purpose),
			FormatINR(bucket.Amount),
			FormatPercent(fr.ExpenseShare(bucket.Amount)),
		}, widths)
	}
	b.TableRow([]string{"Total", FormatINR(fr.TotalExpenses), FormatPercent(fr.ExpenseShare(fr.TotalExpenses))}, widths)
	return b.Spacer(3)
}

func analysisBlock(fr FinancialReport) *Block {
	dominant := "None"
	if fr.DominantExpense != "" {
		dominant = expenseLabel(fr.DominantExpense)
	}
	return NewBlock().
		TitleBar("Analysis").
		KeyValue("Collection Efficiency", FormatPercent(fr.CollectionEfficiencyPercent)).
		KeyValue("Cost to Revenue", FormatPercent(fr.CostToRevenuePercent)).
		KeyValue("Dominant Expense", dominant).
		Spacer(3)
}

func reportFooterBlock(generated string) *Block {
	return NewBlock().
		Spacer(2).
		Text(fmt.Sprintf("Generated on %s", generated), false)
}

func statusLabel(status string) string {
	switch status {
	case PaymentPaid:
		return "Paid"
	case PaymentPending:
		return "Pending"
	}
	return status
}

func expenseLabel(purpose string) string {
	switch purpose {
	case ExpenseLabour:
		return "Labour"
	case ExpenseMaterial:
		return "Material"
	case ExpenseOther:
		return "Other"
	}
	return purpose
}
