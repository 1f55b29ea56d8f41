package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
)

// Column spans for the estimate line item table.
var estimateTableWidths = []int{3, 3, 2, 2, 2}

// EstimateFilename derives the download name for an estimate document.
func EstimateFilename(clientName, estimateName string) string {
	client := sanitizeFilePart(clientName)
	if client == "" {
		client = "Client"
	}
	name := sanitizeFilePart(estimateName)
	if name == "" {
		name = "Estimate"
	}
	return fmt.Sprintf("%s_%s.pdf", client, name)
}

// GenerateEstimatePDF composes and renders the client-facing estimate
// document: line items grouped by category and subcategory, followed by
// totals and the amount in words. A failure anywhere aborts with no bytes.
func GenerateEstimatePDF(data *EstimateExportData, logo []byte, logoExt extension.Type) ([]byte, error) {
	if data == nil {
		return nil, fmt.Errorf("no estimate data")
	}

	c := NewComposer(reportChrome(logo, logoExt))

	header := NewBlock().
		Spacer(3).
		Text("Estimate", true).
		KeyValue("Estimate No", data.Name).
		KeyValue("Client", data.ClientName).
		KeyValue("Date", data.CreatedDate).
		Spacer(3)
	if err := c.Add(header); err != nil {
		return nil, err
	}

	for _, group := range data.Groups {
		if err := c.Add(NewBlock().TitleBar(group.Category)); err != nil {
			return nil, err
		}
		for _, sub := range group.Subcategories {
			if err := c.Add(subcategoryBlock(sub)); err != nil {
				return nil, err
			}
		}
	}

	if err := c.Add(estimateTotalsBlock(data)); err != nil {
		return nil, err
	}

	return RenderPDF(c.Finalize())
}

// subcategoryBlock renders one subcategory's line items as a table with a
// styled head row. Breaking between subcategories keeps categories with many
// items from overflowing the page.
func subcategoryBlock(sub SubcategoryGroup) *Block {
	b := NewBlock().
		Text(sub.Subcategory, true).
		TableHead([]string{"Material", "Description", "Qty", "Rate", "Amount"}, estimateTableWidths)
	for _, it := range sub.Items {
		qty := fmt.Sprintf("%s %s", FormatQty(it.Quantity), UnitLabel(it.UnitType))
		b.TableRow([]string{
			it.Material,
			it.Description,
			qty,
			FormatINR(it.UnitPrice),
			FormatINR(it.Total),
		}, estimateTableWidths)
	}
	return b.Spacer(2)
}

func estimateTotalsBlock(data *EstimateExportData) *Block {
	b := NewBlock().
		Spacer(2).
		TitleBar("Summary").
		KeyValue("Total", FormatINR(data.Totals.Total))
	if data.Totals.Discount != 0 {
		b.KeyValue("Discount", FormatINR(data.Totals.Discount))
	}
	return b.
		KeyValue("Grand Total", FormatINR(data.Totals.GrandTotal)).
		Text(fmt.Sprintf("Amount in Words: %s", data.AmountInWords), false).
		Spacer(2).
		Text(fmt.Sprintf("Generated on %s", data.CreatedDate), false)
}
