package services

import (
	"fmt"
	"math"
)

// ItemDefinition is the normalized catalog-shaped description of a line item.
// Catalog picks and ad-hoc custom items both resolve to this shape at
// aggregation time.
type ItemDefinition struct {
	Category    string
	Subcategory string
	Material    string
	Description string
	UnitPrice   float64
	UnitType    UnitType
}

// ResolvedItem is one validated, priced and quantified line item ready for
// persistence or display. Measurements is nil for non-area items.
type ResolvedItem struct {
	Category     string
	Subcategory  string
	Material     string
	Description  string
	UnitType     UnitType
	Measurements []Measurement
	UnitPrice    float64
	Quantity     float64
	Total        float64
}

// LineTotal computes the rounded money total for one line item. Totals are
// always rounded up to the next whole rupee.
func LineTotal(quantity, unitPrice float64) float64 {
	return math.Ceil(quantity * unitPrice)
}

// EstimateTotals holds the aggregate money figures for an estimate.
type EstimateTotals struct {
	Total      float64
	Discount   float64
	GrandTotal float64
}

// CalcEstimateTotals sums all line totals and applies the discount. Discount
// defaults to 0 in the submission flow but is always carried in the persisted
// payload.
func CalcEstimateTotals(items []ResolvedItem, discount float64) EstimateTotals {
	var sum float64
	for _, it := range items {
		sum += it.Total
	}
	return EstimateTotals{
		Total:      math.Ceil(sum),
		Discount:   discount,
		GrandTotal: math.Ceil(sum - discount),
	}
}

// ValidateItems checks every selected line item before submission. An item
// with no derived quantity or no resolved unit price blocks the whole
// submission; there is no partial submit.
func ValidateItems(items []ResolvedItem) error {
	if len(items) == 0 {
		return fmt.Errorf("no line items selected")
	}
	for i, it := range items {
		name := it.Material
		if name == "" {
			name = it.Description
		}
		if name == "" {
			name = fmt.Sprintf("item %d", i+1)
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("%q has no quantity: add measurements or a count before submitting", name)
		}
		if it.UnitPrice <= 0 {
			return fmt.Errorf("%q has no unit price: set a price before submitting", name)
		}
	}
	return nil
}

// SubcategoryGroup is one subcategory bucket within a category group.
type SubcategoryGroup struct {
	Subcategory string
	Items       []ResolvedItem
}

// CategoryGroup is one category bucket of grouped line items.
type CategoryGroup struct {
	Category      string
	Subcategories []SubcategoryGroup
}

// GroupItems buckets line items by category, then by subcategory, keeping the
// first-occurrence order of every group. The output is deterministic for a
// given insertion order; nothing is sorted alphabetically.
func GroupItems(items []ResolvedItem) []CategoryGroup {
	var groups []CategoryGroup
	catIndex := make(map[string]int)

	for _, it := range items {
		ci, ok := catIndex[it.Category]
		if !ok {
			ci = len(groups)
			catIndex[it.Category] = ci
			groups = append(groups, CategoryGroup{Category: it.Category})
		}

		g := &groups[ci]
		si := -1
		for j := range g.Subcategories {
			if g.Subcategories[j].Subcategory == it.Subcategory {
				si = j
				break
			}
		}
		if si == -1 {
			si = len(g.Subcategories)
			g.Subcategories = append(g.Subcategories, SubcategoryGroup{Subcategory: it.Subcategory})
		}
		g.Subcategories[si].Items = append(g.Subcategories[si].Items, it)
	}

	return groups
}
