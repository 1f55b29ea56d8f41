package services

import (
	"fmt"
)

// SectionRef carries the catalog section a line item was selected from.
type SectionRef struct {
	SectionID   string
	Category    string
	Subcategory string
	Material    string
	Description string
	UnitPrice   float64
	UnitType    UnitType
}

// CustomDef is a user-authored ad-hoc line item definition. It has no catalog
// identity; the draft assigns it a synthetic local id.
type CustomDef struct {
	Category    string
	Subcategory string
	Material    string
	Description string
	UnitPrice   float64
	UnitType    UnitType
}

// DraftItem is one selected line item inside an EstimateDraft. Exactly one of
// Section or Custom is set. A DraftItem has no identity outside its draft.
type DraftItem struct {
	LocalID        string
	Section        *SectionRef
	Custom         *CustomDef
	Measurements   []Measurement
	RunningLengths []RunningLength
	PieceCount     int
	PriceOverride  *float64

	Quantity float64
	Total    float64
}

// Definition resolves the item to its normalized catalog shape.
func (it *DraftItem) Definition() ItemDefinition {
	if it.Section != nil {
		return ItemDefinition{
			Category:    it.Section.Category,
			Subcategory: it.Section.Subcategory,
			Material:    it.Section.Material,
			Description: it.Section.Description,
			UnitPrice:   it.Section.UnitPrice,
			UnitType:    it.Section.UnitType,
		}
	}
	return ItemDefinition{
		Category:    it.Custom.Category,
		Subcategory: it.Custom.Subcategory,
		Material:    it.Custom.Material,
		Description: it.Custom.Description,
		UnitPrice:   it.Custom.UnitPrice,
		UnitType:    it.Custom.UnitType,
	}
}

// UnitPrice returns the effective price: the user override when present,
// otherwise the catalog or custom default.
func (it *DraftItem) UnitPrice() float64 {
	if it.PriceOverride != nil {
		return *it.PriceOverride
	}
	return it.Definition().UnitPrice
}

// UnitType returns the billing unit type of the item.
func (it *DraftItem) UnitType() UnitType {
	return it.Definition().UnitType
}

// recompute re-derives quantity and total from the complete live entry set.
// Called after every mutation; never applies an incremental delta.
func (it *DraftItem) recompute() {
	it.Quantity = DeriveQuantity(it.UnitType(), it.Measurements, it.RunningLengths, it.PieceCount)
	it.Total = LineTotal(it.Quantity, it.UnitPrice())
}

// EstimateDraft is the single in-memory draft being built for a client. It
// owns its line items and all their raw entries; every mutation goes through
// a method so the affected item is always recomputed in full. Once the draft
// is submitted the persisted estimate is never mutated again; corrections
// require a new draft.
type EstimateDraft struct {
	ClientID   string
	ClientName string
	Name       string
	Discount   float64

	items     []*DraftItem
	customSeq int
}

// NewEstimateDraft starts an empty draft for a client.
func NewEstimateDraft(clientID, clientName, name string) *EstimateDraft {
	return &EstimateDraft{
		ClientID:   clientID,
		ClientName: clientName,
		Name:       name,
	}
}

// Items returns the selected line items in insertion order.
func (d *EstimateDraft) Items() []*DraftItem {
	return d.items
}

// Item looks up a selected line item by its local id.
func (d *EstimateDraft) Item(localID string) (*DraftItem, error) {
	for _, it := range d.items {
		if it.LocalID == localID {
			return it, nil
		}
	}
	return nil, fmt.Errorf("line item %q is not selected", localID)
}

// SelectSection adds a catalog section to the draft and returns its local id.
// Selecting an already-selected section is an error; the UI toggles instead.
func (d *EstimateDraft) SelectSection(ref SectionRef) (string, error) {
	if ref.SectionID == "" {
		return "", fmt.Errorf("catalog section has no id")
	}
	if _, err := d.Item(ref.SectionID); err == nil {
		return "", fmt.Errorf("section %q is already selected", ref.SectionID)
	}
	item := &DraftItem{LocalID: ref.SectionID, Section: &ref}
	item.recompute()
	d.items = append(d.items, item)
	return item.LocalID, nil
}

// AddCustomItem adds an ad-hoc item and returns its synthetic local id. The
// id is unique only within this draft.
func (d *EstimateDraft) AddCustomItem(def CustomDef) (string, error) {
	if !ValidUnitType(string(def.UnitType)) {
		return "", fmt.Errorf("unknown unit type %q", def.UnitType)
	}
	d.customSeq++
	item := &DraftItem{
		LocalID: fmt.Sprintf("custom-%d", d.customSeq),
		Custom:  &def,
	}
	item.recompute()
	d.items = append(d.items, item)
	return item.LocalID, nil
}

// Deselect removes a line item and all its entries from the draft.
func (d *EstimateDraft) Deselect(localID string) error {
	for i, it := range d.items {
		if it.LocalID == localID {
			d.items = append(d.items[:i], d.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("line item %q is not selected", localID)
}

// AddMeasurement appends a length/breadth entry to an area item.
func (d *EstimateDraft) AddMeasurement(localID string, m Measurement) error {
	it, err := d.Item(localID)
	if err != nil {
		return err
	}
	if it.UnitType() != UnitArea {
		return fmt.Errorf("line item %q is not billed by area", localID)
	}
	it.Measurements = append(it.Measurements, m)
	it.recompute()
	return nil
}

// UpdateMeasurement replaces the entry at index on an area item.
func (d *EstimateDraft) UpdateMeasurement(localID string, index int, m Measurement) error {
	it, err := d.Item(localID)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(it.Measurements) {
		return fmt.Errorf("measurement %d out of range for %q", index, localID)
	}
	it.Measurements[index] = m
	it.recompute()
	return nil
}

// RemoveMeasurement deletes the entry at index on an area item.
func (d *EstimateDraft) RemoveMeasurement(localID string, index int) error {
	it, err := d.Item(localID)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(it.Measurements) {
		return fmt.Errorf("measurement %d out of range for %q", index, localID)
	}
	it.Measurements = append(it.Measurements[:index], it.Measurements[index+1:]...)
	it.recompute()
	return nil
}

// AddRunningLength appends a linear entry to a running-length item.
func (d *EstimateDraft) AddRunningLength(localID string, r RunningLength) error {
	it, err := d.Item(localID)
	if err != nil {
		return err
	}
	if it.UnitType() != UnitRunningLength {
		return fmt.Errorf("line item %q is not billed by running length", localID)
	}
	it.RunningLengths = append(it.RunningLengths, r)
	it.recompute()
	return nil
}

// UpdateRunningLength replaces the linear entry at index.
func (d *EstimateDraft) UpdateRunningLength(localID string, index int, r RunningLength) error {
	it, err := d.Item(localID)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(it.RunningLengths) {
		return fmt.Errorf("running length %d out of range for %q", index, localID)
	}
	it.RunningLengths[index] = r
	it.recompute()
	return nil
}

// RemoveRunningLength deletes the linear entry at index.
func (d *EstimateDraft) RemoveRunningLength(localID string, index int) error {
	it, err := d.Item(localID)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(it.RunningLengths) {
		return fmt.Errorf("running length %d out of range for %q", index, localID)
	}
	it.RunningLengths = append(it.RunningLengths[:index], it.RunningLengths[index+1:]...)
	it.recompute()
	return nil
}

// SetPieceCount sets the direct count on a piece-billed item.
func (d *EstimateDraft) SetPieceCount(localID string, count int) error {
	it, err := d.Item(localID)
	if err != nil {
		return err
	}
	if it.UnitType() != UnitPiece {
		return fmt.Errorf("line item %q is not billed by piece", localID)
	}
	if count < 0 {
		return fmt.Errorf("piece count cannot be negative")
	}
	it.PieceCount = count
	it.recompute()
	return nil
}

// SetUnitPrice overrides the catalog default price for a line item.
func (d *EstimateDraft) SetUnitPrice(localID string, price float64) error {
	it, err := d.Item(localID)
	if err != nil {
		return err
	}
	if price < 0 {
		return fmt.Errorf("unit price cannot be negative")
	}
	it.PriceOverride = &price
	it.recompute()
	return nil
}

// Resolve normalizes every selected item into its aggregation shape,
// preserving insertion order. Measurements are carried only for area items.
func (d *EstimateDraft) Resolve() []ResolvedItem {
	resolved := make([]ResolvedItem, 0, len(d.items))
	for _, it := range d.items {
		def := it.Definition()
		r := ResolvedItem{
			Category:    def.Category,
			Subcategory: def.Subcategory,
			Material:    def.Material,
			Description: def.Description,
			UnitType:    def.UnitType,
			UnitPrice:   it.UnitPrice(),
			Quantity:    it.Quantity,
			Total:       it.Total,
		}
		if def.UnitType == UnitArea {
			r.Measurements = append([]Measurement{}, it.Measurements...)
		}
		resolved = append(resolved, r)
	}
	return resolved
}

// Validate checks the draft is submittable.
func (d *EstimateDraft) Validate() error {
	if d.ClientID == "" {
		return fmt.Errorf("no client selected")
	}
	return ValidateItems(d.Resolve())
}

// Totals computes the draft's money figures under the current discount.
func (d *EstimateDraft) Totals() EstimateTotals {
	return CalcEstimateTotals(d.Resolve(), d.Discount)
}
