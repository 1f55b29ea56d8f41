package collections

import (
	"testing"
)

func TestSeedPopulatesCatalog(t *testing.T) {
	app := newTestApp(t)
	Setup(app)

	if err := Seed(app); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	categoriesCol, _ := app.FindCollectionByNameOrId("categories")
	cats, err := app.FindAllRecords(categoriesCol)
	if err != nil {
		t.Fatalf("query categories: %v", err)
	}
	if len(cats) == 0 {
		t.Fatal("seed created no categories")
	}

	sectionsCol, _ := app.FindCollectionByNameOrId("sections")
	sections, err := app.FindAllRecords(sectionsCol)
	if err != nil {
		t.Fatalf("query sections: %v", err)
	}
	if len(sections) == 0 {
		t.Fatal("seed created no sections")
	}

	// All three unit types must be represented in the rate card
	seen := map[string]bool{}
	for _, s := range sections {
		seen[s.GetString("unit_type")] = true
		if s.GetFloat("unit_price") <= 0 {
			t.Errorf("section %q has non-positive price", s.GetString("material"))
		}
	}
	for _, ut := range []string{"area", "running_length", "piece"} {
		if !seen[ut] {
			t.Errorf("seed catalog has no %s section", ut)
		}
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	app := newTestApp(t)
	Setup(app)

	if err := Seed(app); err != nil {
		t.Fatalf("first Seed: %v", err)
	}

	categoriesCol, _ := app.FindCollectionByNameOrId("categories")
	first, _ := app.FindAllRecords(categoriesCol)

	if err := Seed(app); err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	second, _ := app.FindAllRecords(categoriesCol)

	if len(first) != len(second) {
		t.Errorf("second Seed changed category count: %d -> %d", len(first), len(second))
	}
}

func TestSeedCreatesDemoClientTrail(t *testing.T) {
	app := newTestApp(t)
	Setup(app)

	if err := Seed(app); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	for _, name := range []string{"clients", "stages", "payments", "expenses"} {
		col, _ := app.FindCollectionByNameOrId(name)
		records, err := app.FindAllRecords(col)
		if err != nil {
			t.Fatalf("query %s: %v", name, err)
		}
		if len(records) == 0 {
			t.Errorf("seed created no %s records", name)
		}
	}
}
