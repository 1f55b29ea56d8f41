package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// ── Definition structs ───────────────────────────────────────────────────

type sectionDef struct {
	material    string
	description string
	unitType    string
	unitPrice   float64
}

type subcategoryDef struct {
	name     string
	sections []sectionDef
}

type categoryDef struct {
	name          string
	subcategories []subcategoryDef
}

type stageDef struct {
	title string
	note  string
	date  string
}

type paymentDef struct {
	amount     float64
	status     string
	date       string
	receivedBy string
	note       string
}

type expenseDef struct {
	amount  float64
	purpose string
	date    string
	paidBy  string
	note    string
}

// Seed populates the work catalog with realistic interior-design categories,
// subcategories and priced sections, plus one demo client with a project
// trail. It is safe to call on every startup because it returns early if any
// category records already exist.
func Seed(app *pocketbase.PocketBase) error {
	// ── idempotency: skip if the catalog already exists ──────────────
	categoriesCol, err := app.FindCollectionByNameOrId("categories")
	if err != nil {
		return fmt.Errorf("seed: could not find categories collection: %w", err)
	}
	existing, err := app.FindAllRecords(categoriesCol)
	if err != nil {
		return fmt.Errorf("seed: could not query categories: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: categories collection is empty – inserting seed data …")

	subcategoriesCol, err := app.FindCollectionByNameOrId("subcategories")
	if err != nil {
		return fmt.Errorf("seed: could not find subcategories collection: %w", err)
	}
	sectionsCol, err := app.FindCollectionByNameOrId("sections")
	if err != nil {
		return fmt.Errorf("seed: could not find sections collection: %w", err)
	}
	clientsCol, err := app.FindCollectionByNameOrId("clients")
	if err != nil {
		return fmt.Errorf("seed: could not find clients collection: %w", err)
	}
	stagesCol, err := app.FindCollectionByNameOrId("stages")
	if err != nil {
		return fmt.Errorf("seed: could not find stages collection: %w", err)
	}
	paymentsCol, err := app.FindCollectionByNameOrId("payments")
	if err != nil {
		return fmt.Errorf("seed: could not find payments collection: %w", err)
	}
	expensesCol, err := app.FindCollectionByNameOrId("expenses")
	if err != nil {
		return fmt.Errorf("seed: could not find expenses collection: %w", err)
	}

	// ── catalog ──────────────────────────────────────────────────────
	for catOrder, cat := range catalogSeedData() {
		catRec := core.NewRecord(categoriesCol)
		catRec.Set("name", cat.name)
		catRec.Set("sort_order", catOrder+1)
		if err := app.Save(catRec); err != nil {
			return fmt.Errorf("seed: save category %q: %w", cat.name, err)
		}

		for subOrder, sub := range cat.subcategories {
			subRec := core.NewRecord(subcategoriesCol)
			subRec.Set("name", sub.name)
			subRec.Set("category", catRec.Id)
			subRec.Set("sort_order", subOrder+1)
			if err := app.Save(subRec); err != nil {
				return fmt.Errorf("seed: save subcategory %q: %w", sub.name, err)
			}

			for _, sec := range sub.sections {
				secRec := core.NewRecord(sectionsCol)
				secRec.Set("category", catRec.Id)
				secRec.Set("subcategory", subRec.Id)
				secRec.Set("material", sec.material)
				secRec.Set("description", sec.description)
				secRec.Set("unit_type", sec.unitType)
				secRec.Set("unit_price", sec.unitPrice)
				if err := app.Save(secRec); err != nil {
					return fmt.Errorf("seed: save section %q: %w", sec.material, err)
				}
			}
		}
	}

	// ── demo client with a project trail ─────────────────────────────
	clientRec := core.NewRecord(clientsCol)
	clientRec.Set("name", "Meera Nair")
	clientRec.Set("phone", "9845012340")
	clientRec.Set("email", "meera.nair@example.com")
	clientRec.Set("address", "42 Lavelle Road, Bengaluru 560001")
	clientRec.Set("site_address", "Flat 1203, Sobha Dream Acres, Panathur")
	if err := app.Save(clientRec); err != nil {
		return fmt.Errorf("seed: save client: %w", err)
	}

	stages := []stageDef{
		{title: "Site Measurement", note: "Carpet area verified against builder plan", date: "2025-04-07"},
		{title: "Design Sign-off", note: "3D views approved, false ceiling revised once", date: "2025-04-21"},
		{title: "Civil & Electrical", note: "Chasing and conduiting complete", date: "2025-05-12"},
		{title: "Carpentry In Progress", note: "Wardrobe carcass and kitchen base units", date: "2025-06-02"},
	}
	for _, s := range stages {
		r := core.NewRecord(stagesCol)
		r.Set("client", clientRec.Id)
		r.Set("title", s.title)
		r.Set("note", s.note)
		r.Set("date", s.date)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: save stage %q: %w", s.title, err)
		}
	}

	payments := []paymentDef{
		{amount: 200000, status: "paid", date: "2025-04-08", receivedBy: "Accounts", note: "Booking advance"},
		{amount: 300000, status: "paid", date: "2025-05-15", receivedBy: "Accounts", note: "Carpentry milestone"},
		{amount: 150000, status: "pending", date: "2025-07-01", note: "Due on modular delivery"},
	}
	for _, p := range payments {
		r := core.NewRecord(paymentsCol)
		r.Set("client", clientRec.Id)
		r.Set("amount", p.amount)
		r.Set("status", p.status)
		r.Set("date", p.date)
		r.Set("received_by", p.receivedBy)
		r.Set("note", p.note)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: save payment: %w", err)
		}
	}

	expenses := []expenseDef{
		{amount: 120000, purpose: "material", date: "2025-05-02", paidBy: "Site Supervisor", note: "Ply and laminates, first lot"},
		{amount: 85000, purpose: "labour", date: "2025-05-30", paidBy: "Site Supervisor", note: "Carpentry team, May"},
		{amount: 18000, purpose: "other", date: "2025-06-05", paidBy: "Office", note: "Scaffolding rental"},
	}
	for _, e := range expenses {
		r := core.NewRecord(expensesCol)
		r.Set("client", clientRec.Id)
		r.Set("amount", e.amount)
		r.Set("purpose", e.purpose)
		r.Set("date", e.date)
		r.Set("paid_by", e.paidBy)
		r.Set("note", e.note)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: save expense: %w", err)
		}
	}

	log.Println("seed: done.")
	return nil
}

// catalogSeedData is the standard studio rate card.
func catalogSeedData() []categoryDef {
	return []categoryDef{
		{
			name: "False Ceiling",
			subcategories: []subcategoryDef{
				{
					name: "Living Room",
					sections: []sectionDef{
						{material: "Gypsum Board", description: "Saint-Gobain 12.5mm on GI frame", unitType: "area", unitPrice: 85},
						{material: "Cove Lighting Channel", description: "Recessed LED profile with diffuser", unitType: "running_length", unitPrice: 450},
						{material: "Ceiling Spot Light", description: "6W warm white, cutout 75mm", unitType: "piece", unitPrice: 650},
					},
				},
				{
					name: "Bedrooms",
					sections: []sectionDef{
						{material: "Gypsum Board", description: "Plain peripheral drop", unitType: "area", unitPrice: 80},
						{material: "POP Punning", description: "On ceiling slab, up to 12mm", unitType: "area", unitPrice: 45},
					},
				},
			},
		},
		{
			name: "Carpentry",
			subcategories: []subcategoryDef{
				{
					name: "Wardrobes",
					sections: []sectionDef{
						{material: "Sliding Wardrobe", description: "BWR ply, laminate exterior, 7ft height", unitType: "area", unitPrice: 1450},
						{material: "Hinged Wardrobe", description: "BWR ply, laminate both sides", unitType: "area", unitPrice: 1250},
						{material: "Loft Storage", description: "Above wardrobe, laminate finish", unitType: "area", unitPrice: 850},
					},
				},
				{
					name: "Kitchen",
					sections: []sectionDef{
						{material: "Base Unit", description: "BWP ply carcass, acrylic shutters", unitType: "area", unitPrice: 1650},
						{material: "Wall Unit", description: "BWP ply, soft-close lift-up", unitType: "area", unitPrice: 1400},
						{material: "Skirting", description: "PVC skirting with clip fixing", unitType: "running_length", unitPrice: 120},
						{material: "Tandem Drawer", description: "Hettich 500mm, soft close", unitType: "piece", unitPrice: 4200},
					},
				},
				{
					name: "TV Unit",
					sections: []sectionDef{
						{material: "Back Panel", description: "Fluted laminate on ply base", unitType: "area", unitPrice: 950},
						{material: "Floating Shelf", description: "Ply with PU finish, concealed bracket", unitType: "running_length", unitPrice: 700},
					},
				},
			},
		},
		{
			name: "Electrical",
			subcategories: []subcategoryDef{
				{
					name: "Wiring",
					sections: []sectionDef{
						{material: "Copper Wire", description: "Finolex 1.5 sqmm FRLS, conduit included", unitType: "running_length", unitPrice: 95},
						{material: "Power Circuit", description: "4 sqmm dedicated line", unitType: "running_length", unitPrice: 145},
					},
				},
				{
					name: "Fixtures",
					sections: []sectionDef{
						{material: "Modular Switch Plate", description: "GM 8-module with plate", unitType: "piece", unitPrice: 1150},
						{material: "Pendant Light Point", description: "Drop wiring with ceiling rose", unitType: "piece", unitPrice: 800},
					},
				},
			},
		},
		{
			name: "Painting",
			subcategories: []subcategoryDef{
				{
					name: "Interior Walls",
					sections: []sectionDef{
						{material: "Emulsion", description: "Asian Paints Royale, 2 coats over putty", unitType: "area", unitPrice: 32},
						{material: "Texture Feature Wall", description: "Designer texture, single wall", unitType: "area", unitPrice: 95},
					},
				},
				{
					name: "Woodwork Finish",
					sections: []sectionDef{
						{material: "PU Polish", description: "Matte PU on veneer surfaces", unitType: "area", unitPrice: 220},
					},
				},
			},
		},
	}
}
