package services

import "sort"

// Payment statuses.
const (
	PaymentPaid    = "paid"
	PaymentPending = "pending"
)

// Expense purposes.
const (
	ExpenseLabour   = "labour"
	ExpenseMaterial = "material"
	ExpenseOther    = "other"
)

// PaymentRecord is one client payment entry.
type PaymentRecord struct {
	Amount     float64
	Status     string
	Date       string
	ReceivedBy string
	Note       string
}

// ExpenseRecord is one project expense entry.
type ExpenseRecord struct {
	Amount  float64
	Purpose string
	Date    string
	PaidBy  string
	Note    string
}

// ExpenseBucket is one purpose bucket with its aggregated amount.
type ExpenseBucket struct {
	Purpose string
	Amount  float64
}

// FinancialReport aggregates a client's payments and expenses. It is derived
// on demand and never persisted.
type FinancialReport struct {
	TotalPaid    float64
	TotalPending float64

	LabourExpenses   float64
	MaterialExpenses float64
	OtherExpenses    float64
	TotalExpenses    float64

	NetProfit float64

	// All ratios are percentages and fall back to 0 when the denominator
	// is zero; they never carry NaN into rendered text.
	ProfitMarginPercent         float64
	CollectionEfficiencyPercent float64
	CostToRevenuePercent        float64

	// DominantExpense is the purpose bucket with the highest amount, empty
	// when no expenses exist.
	DominantExpense string
}

// BuildFinancialReport aggregates payment and expense records. Only payments
// with paid status count toward revenue; pending amounts are tracked
// separately. Expenses are bucketed by purpose, with unknown purposes
// counted under "other".
func BuildFinancialReport(payments []PaymentRecord, expenses []ExpenseRecord) FinancialReport {
	var fr FinancialReport

	for _, p := range payments {
		switch p.Status {
		case PaymentPaid:
			fr.TotalPaid += p.Amount
		case PaymentPending:
			fr.TotalPending += p.Amount
		}
	}

	for _, ex := range expenses {
		switch ex.Purpose {
		case ExpenseLabour:
			fr.LabourExpenses += ex.Amount
		case ExpenseMaterial:
			fr.MaterialExpenses += ex.Amount
		default:
			fr.OtherExpenses += ex.Amount
		}
	}
	fr.TotalExpenses = fr.LabourExpenses + fr.MaterialExpenses + fr.OtherExpenses

	fr.NetProfit = fr.TotalPaid - fr.TotalExpenses
	fr.ProfitMarginPercent = PercentOf(fr.NetProfit, fr.TotalPaid)
	fr.CollectionEfficiencyPercent = PercentOf(fr.TotalPaid, fr.TotalPaid+fr.TotalPending)
	fr.CostToRevenuePercent = PercentOf(fr.TotalExpenses, fr.TotalPaid)

	if buckets := fr.RankedExpenses(); len(buckets) > 0 && buckets[0].Amount > 0 {
		fr.DominantExpense = buckets[0].Purpose
	}

	return fr
}

// RankedExpenses returns the three purpose buckets ordered by amount
// descending. Ties keep the labour/material/other listing order.
func (fr FinancialReport) RankedExpenses() []ExpenseBucket {
	buckets := []ExpenseBucket{
		{Purpose: ExpenseLabour, Amount: fr.LabourExpenses},
		{Purpose: ExpenseMaterial, Amount: fr.MaterialExpenses},
		{Purpose: ExpenseOther, Amount: fr.OtherExpenses},
	}
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Amount > buckets[j].Amount
	})
	return buckets
}

// ExpenseShare returns a bucket's percentage of total expenses, 0 when there
// are no expenses.
func (fr FinancialReport) ExpenseShare(amount float64) float64 {
	return PercentOf(amount, fr.TotalExpenses)
}

// PercentOf returns part as a percentage of whole, 0 when whole is zero.
func PercentOf(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return (part / whole) * 100
}
