package services

import (
	"testing"
)

func TestParseDimension(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   float64
		wantOk bool
	}{
		{"plain number", "120", 120, true},
		{"decimal", "45.5", 45.5, true},
		{"whitespace trimmed", "  30 ", 30, true},
		{"empty", "", 0, false},
		{"blank", "   ", 0, false},
		{"non numeric", "abc", 0, false},
		{"mixed", "12cm", 0, false},
		{"negative", "-100", 0, false},
		{"negative decimal", "-0.5", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDimension(tt.input)
			if got.Ok != tt.wantOk || got.Value != tt.want {
				t.Errorf("ParseDimension(%q) = {%v %v}, want {%v %v}",
					tt.input, got.Value, got.Ok, tt.want, tt.wantOk)
			}
		})
	}
}

func TestAreaQuantity(t *testing.T) {
	tests := []struct {
		name    string
		entries []Measurement
		want    float64
	}{
		{"no entries", nil, 0},
		{
			// 100x50 → 5000 cm² → 5.38 sqft
			"single measurement",
			[]Measurement{{Length: Dim(100), Breadth: Dim(50)}},
			5.38,
		},
		{
			// Lengths sum to 300, breadths to 100: 300*100*0.00107639 = 32.2917
			"two measurements sum dimensions not areas",
			[]Measurement{
				{Length: Dim(100), Breadth: Dim(50)},
				{Length: Dim(200), Breadth: Dim(50)},
			},
			32.29,
		},
		{
			"missing breadth still contributes length",
			[]Measurement{
				{Length: Dim(100), Breadth: Dim(50)},
				{Length: Dim(100)},
			},
			10.76, // 200*50*0.00107639 = 10.7639
		},
		{
			"missing length still contributes breadth",
			[]Measurement{
				{Length: Dim(100), Breadth: Dim(50)},
				{Breadth: Dim(50)},
			},
			10.76, // 100*100*0.00107639
		},
		{
			"entirely invalid entry is a no-op",
			[]Measurement{
				{Length: Dim(100), Breadth: Dim(50)},
				{},
			},
			5.38,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AreaQuantity(tt.entries)
			if got != tt.want {
				t.Errorf("AreaQuantity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRunningLengthQuantity(t *testing.T) {
	tests := []struct {
		name    string
		entries []RunningLength
		want    float64
	}{
		{"no entries", nil, 0},
		{"single entry", []RunningLength{{Length: Dim(100)}}, 3.28},
		{
			// 150+250 = 400 cm → 400*0.0328084 = 13.12336
			"two entries",
			[]RunningLength{{Length: Dim(150)}, {Length: Dim(250)}},
			13.12,
		},
		{
			"invalid entry skipped",
			[]RunningLength{{Length: Dim(150)}, {}},
			4.92, // 150*0.0328084 = 4.92126
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RunningLengthQuantity(tt.entries)
			if got != tt.want {
				t.Errorf("RunningLengthQuantity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQuantityNeverNegative(t *testing.T) {
	if d := Dim(-100); d.Ok {
		t.Error("Dim(-100) must yield an invalid dimension")
	}

	// A negative entry is excluded for that dimension only; the rest of the
	// entry set still counts and the derived quantity stays at zero or above.
	area := AreaQuantity([]Measurement{
		{Length: Dim(-100), Breadth: Dim(50)},
		{Length: Dim(100), Breadth: Dim(50)},
	})
	if area < 0 {
		t.Fatalf("AreaQuantity = %v, must never be negative", area)
	}
	if area != 10.76 { // 100 * 100 * 0.00107639
		t.Errorf("AreaQuantity = %v, want 10.76 (negative length excluded)", area)
	}

	running := RunningLengthQuantity([]RunningLength{
		{Length: Dim(-150)},
		{Length: Dim(150)},
	})
	if running != 4.92 {
		t.Errorf("RunningLengthQuantity = %v, want 4.92 (negative entry excluded)", running)
	}

	// Even a hand-built dimension that slipped past the constructor cannot
	// drive the sum below zero.
	forced := AreaQuantity([]Measurement{
		{Length: Dimension{Value: -100, Ok: true}, Breadth: Dim(50)},
	})
	if forced < 0 {
		t.Errorf("AreaQuantity = %v with a forced negative value, must stay >= 0", forced)
	}
}

func TestAreaQuantity_MonotonicAndReversible(t *testing.T) {
	entries := []Measurement{{Length: Dim(100), Breadth: Dim(50)}}
	before := AreaQuantity(entries)

	added := append([]Measurement{}, entries...)
	added = append(added, Measurement{Length: Dim(200), Breadth: Dim(50)})
	after := AreaQuantity(added)

	if after < before {
		t.Errorf("quantity decreased after adding an entry: %v -> %v", before, after)
	}

	// Removing the added entry must reproduce the pre-add quantity exactly.
	removed := added[:len(added)-1]
	if got := AreaQuantity(removed); got != before {
		t.Errorf("quantity after remove = %v, want %v", got, before)
	}
}

func TestDeriveQuantity(t *testing.T) {
	measurements := []Measurement{
		{Length: Dim(100), Breadth: Dim(50)},
		{Length: Dim(200), Breadth: Dim(50)},
	}
	lengths := []RunningLength{{Length: Dim(150)}, {Length: Dim(250)}}

	tests := []struct {
		name   string
		ut     UnitType
		pieces int
		want   float64
	}{
		{"area", UnitArea, 0, 32.29},
		{"running length", UnitRunningLength, 0, 13.12},
		{"piece count", UnitPiece, 3, 3},
		{"negative piece count clamps to zero", UnitPiece, -2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveQuantity(tt.ut, measurements, lengths, tt.pieces)
			if got != tt.want {
				t.Errorf("DeriveQuantity(%s) = %v, want %v", tt.ut, got, tt.want)
			}
		})
	}
}

func TestDeriveQuantity_Deterministic(t *testing.T) {
	measurements := []Measurement{
		{Length: Dim(123.4), Breadth: Dim(56.7)},
		{Length: Dim(89.1), Breadth: Dim(23.4)},
	}
	first := DeriveQuantity(UnitArea, measurements, nil, 0)
	second := DeriveQuantity(UnitArea, measurements, nil, 0)
	if first != second {
		t.Errorf("recompute not deterministic: %v vs %v", first, second)
	}
}

func TestValidUnitType(t *testing.T) {
	for _, ut := range UnitTypeOptions {
		if !ValidUnitType(string(ut)) {
			t.Errorf("ValidUnitType(%q) = false, want true", ut)
		}
	}
	if ValidUnitType("weight") {
		t.Error("ValidUnitType(\"weight\") = true, want false")
	}
}

func TestUnitLabel(t *testing.T) {
	tests := []struct {
		ut   UnitType
		want string
	}{
		{UnitArea, "sqft"},
		{UnitRunningLength, "ft"},
		{UnitPiece, "nos"},
	}
	for _, tt := range tests {
		if got := UnitLabel(tt.ut); got != tt.want {
			t.Errorf("UnitLabel(%s) = %q, want %q", tt.ut, got, tt.want)
		}
	}
}
