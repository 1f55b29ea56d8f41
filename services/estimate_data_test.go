package services

import (
	"strings"
	"testing"

	"interiordesk/testhelpers"
)

func TestMeasurementsJSONRoundTrip(t *testing.T) {
	entries := []Measurement{
		{Length: Dim(300), Breadth: Dim(100)},
		{Length: Dim(250)}, // breadth never entered
		{},                 // fully blank row
	}

	raw, err := MeasurementsToJSON(entries)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	// Missing dimensions persist as null, not zero.
	s := string(raw)
	if !strings.Contains(s, `"breadth":null`) {
		t.Errorf("expected null breadth in %s", s)
	}
	if strings.Contains(s, `"length":0`) {
		t.Errorf("blank dimension must not serialize as zero: %s", s)
	}

	back, err := MeasurementsFromJSON(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(back) != 3 {
		t.Fatalf("expected 3 entries back, got %d", len(back))
	}
	if !back[0].Length.Ok || back[0].Length.Value != 300 {
		t.Errorf("entry 0 length = %+v, want 300", back[0].Length)
	}
	if back[1].Breadth.Ok {
		t.Error("entry 1 breadth must come back as not entered")
	}
	if back[2].Length.Ok || back[2].Breadth.Ok {
		t.Error("blank entry must stay blank after the round trip")
	}
}

func TestMeasurementsFromJSON_Empty(t *testing.T) {
	entries, err := MeasurementsFromJSON(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entries != nil {
		t.Errorf("expected no entries, got %v", entries)
	}
}

func TestBuildEstimateExportData(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	client := testhelpers.CreateTestClient(t, app, "Meera Nair")
	est := testhelpers.CreateTestEstimate(t, app, client.Id, "Meera Nair", "ARN-EST-25-26-0001", 3495, 3400)

	testhelpers.CreateTestEstimateSection(t, app, est.Id, 1,
		"False Ceiling", "Living Room", "Gypsum Board", "area", 85, 32.29, 2745)
	testhelpers.CreateTestEstimateSection(t, app, est.Id, 2,
		"Electrical", "Fixtures", "Pendant Light Point", "piece", 250, 3, 750)

	data, err := BuildEstimateExportData(app, est.Id)
	if err != nil {
		t.Fatalf("BuildEstimateExportData: %v", err)
	}

	if data.Name != "ARN-EST-25-26-0001" {
		t.Errorf("Name = %q", data.Name)
	}
	if data.ItemCount != 2 {
		t.Errorf("ItemCount = %d, want 2", data.ItemCount)
	}
	if len(data.Groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(data.Groups))
	}
	if data.Groups[0].Category != "False Ceiling" {
		t.Errorf("first group = %q, want stored sort order preserved", data.Groups[0].Category)
	}

	// Stored totals are authoritative, never recomputed on read.
	if data.Totals.Total != 3495 || data.Totals.GrandTotal != 3400 {
		t.Errorf("totals = %+v, want stored 3495/3400", data.Totals)
	}
	if data.AmountInWords != AmountToWords(3400) {
		t.Errorf("AmountInWords = %q", data.AmountInWords)
	}
}

func TestBuildEstimateExportData_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if _, err := BuildEstimateExportData(app, "missing123"); err == nil {
		t.Error("expected an error for an unknown estimate")
	}
}
