// Package services provides the estimate computation engine, financial
// aggregation and document generation for the interiordesk back office.
package services

import (
	"math"
	"strconv"
	"strings"
)

// UnitType tags how a catalog section is billed.
type UnitType string

const (
	UnitArea          UnitType = "area"
	UnitRunningLength UnitType = "running_length"
	UnitPiece         UnitType = "piece"
)

// UnitTypeOptions lists the billing unit types offered in the catalog.
var UnitTypeOptions = []UnitType{UnitArea, UnitRunningLength, UnitPiece}

// UnitTypeNames returns the unit type tags as plain strings, for dropdowns
// and error messages.
func UnitTypeNames() []string {
	names := make([]string, len(UnitTypeOptions))
	for i, ut := range UnitTypeOptions {
		names[i] = string(ut)
	}
	return names
}

// ValidUnitType reports whether s is a known unit type tag.
func ValidUnitType(s string) bool {
	switch UnitType(s) {
	case UnitArea, UnitRunningLength, UnitPiece:
		return true
	}
	return false
}

// UnitLabel returns the display unit for a unit type ("sqft", "ft", "nos").
func UnitLabel(ut UnitType) string {
	switch ut {
	case UnitArea:
		return "sqft"
	case UnitRunningLength:
		return "ft"
	default:
		return "nos"
	}
}

const (
	// cmPairToSqFt converts a length x breadth product in cm² to ft².
	cmPairToSqFt = 0.00107639
	// cmToFt converts centimeters to feet.
	cmToFt = 0.0328084
)

// Dimension is one raw user-entered dimension in centimeters. Ok is false
// when the field was left empty, was not numeric, or was negative; such an
// entry is skipped for that dimension only. Keeping negatives out here is
// what holds derived quantities at zero or above.
type Dimension struct {
	Value float64
	Ok    bool
}

// Dim wraps a centimeter value. Negative values yield an invalid Dimension.
func Dim(v float64) Dimension {
	if v < 0 {
		return Dimension{}
	}
	return Dimension{Value: v, Ok: true}
}

// ParseDimension parses a raw form value into a Dimension. Blank, non-numeric
// or negative input yields Ok=false.
func ParseDimension(s string) Dimension {
	s = strings.TrimSpace(s)
	if s == "" {
		return Dimension{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return Dimension{}
	}
	return Dimension{Value: v, Ok: true}
}

// Measurement is one paired length/breadth entry in centimeters for an
// area-billed line item.
type Measurement struct {
	Length  Dimension
	Breadth Dimension
}

// RunningLength is one linear entry in centimeters for a running-length item.
type RunningLength struct {
	Length Dimension
}

// AreaQuantity derives square feet from the complete set of measurement
// entries on a line item. All lengths are summed into one total and all
// breadths into another, then the two totals are multiplied and converted.
// Every historical estimate was computed from summed dimensions, not from
// summed per-entry areas, so the shape of this formula must not change.
func AreaQuantity(entries []Measurement) float64 {
	var totalLength, totalBreadth float64
	for _, m := range entries {
		if m.Length.Ok && m.Length.Value >= 0 {
			totalLength += m.Length.Value
		}
		if m.Breadth.Ok && m.Breadth.Value >= 0 {
			totalBreadth += m.Breadth.Value
		}
	}
	return round2(totalLength * totalBreadth * cmPairToSqFt)
}

// RunningLengthQuantity derives linear feet from the complete set of
// running-length entries on a line item.
func RunningLengthQuantity(entries []RunningLength) float64 {
	var totalLength float64
	for _, r := range entries {
		if r.Length.Ok && r.Length.Value >= 0 {
			totalLength += r.Length.Value
		}
	}
	return round2(totalLength * cmToFt)
}

// DeriveQuantity computes the billable quantity for a line item from its
// current raw entries. It is always a full recompute over the live entry set;
// callers never apply incremental deltas, which keeps repeated edits free of
// rounding drift. Piece-count items carry a direct user-entered count.
func DeriveQuantity(ut UnitType, measurements []Measurement, lengths []RunningLength, pieces int) float64 {
	switch ut {
	case UnitArea:
		return AreaQuantity(measurements)
	case UnitRunningLength:
		return RunningLengthQuantity(lengths)
	default:
		if pieces < 0 {
			return 0
		}
		return float64(pieces)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
