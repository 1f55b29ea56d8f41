package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Setup programmatically creates/ensures all application collections: the
// priced work catalog (categories, subcategories, sections), clients and
// their estimates, and the per-client project trail (stages, payments,
// expenses, site photos).
func Setup(app *pocketbase.PocketBase) {
	categories := ensureCollection(app, "categories", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
	})

	subcategories := ensureCollection(app, "subcategories", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.RelationField{
			Name:          "category",
			Required:      true,
			CollectionId:  categories.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
	})

	ensureCollection(app, "sections", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "category",
			Required:      true,
			CollectionId:  categories.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.RelationField{
			Name:          "subcategory",
			Required:      true,
			CollectionId:  subcategories.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "material", Required: true})
		c.Fields.Add(&core.TextField{Name: "description", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "unit_type",
			Required:  true,
			Values:    []string{"area", "running_length", "piece"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "unit_price", Required: true})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
	})

	clients := ensureCollection(app, "clients", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "phone", Required: false})
		c.Fields.Add(&core.TextField{Name: "email", Required: false})
		c.Fields.Add(&core.TextField{Name: "address", Required: false})
		c.Fields.Add(&core.TextField{Name: "site_address", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	estimates := ensureCollection(app, "estimates", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "client",
			Required:      true,
			CollectionId:  clients.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "client_name", Required: true})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.NumberField{Name: "discount", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total", Required: true})
		c.Fields.Add(&core.NumberField{Name: "grand_total", Required: true})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
	})

	ensureCollection(app, "estimate_sections", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "estimate",
			Required:      true,
			CollectionId:  estimates.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: true})
		c.Fields.Add(&core.TextField{Name: "category", Required: true})
		c.Fields.Add(&core.TextField{Name: "subcategory", Required: true})
		c.Fields.Add(&core.TextField{Name: "material", Required: true})
		c.Fields.Add(&core.TextField{Name: "description", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "unit_type",
			Required:  true,
			Values:    []string{"area", "running_length", "piece"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.JSONField{Name: "measurements", Required: false})
		c.Fields.Add(&core.NumberField{Name: "unit_price", Required: true})
		c.Fields.Add(&core.NumberField{Name: "quantity", Required: true})
		c.Fields.Add(&core.NumberField{Name: "total", Required: true})
	})

	ensureCollection(app, "stages", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "client",
			Required:      true,
			CollectionId:  clients.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "title", Required: true})
		c.Fields.Add(&core.TextField{Name: "note", Required: false})
		c.Fields.Add(&core.DateField{Name: "date", Required: true})
	})

	ensureCollection(app, "payments", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "client",
			Required:      true,
			CollectionId:  clients.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "amount", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    []string{"paid", "pending"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.DateField{Name: "date", Required: true})
		c.Fields.Add(&core.TextField{Name: "received_by", Required: false})
		c.Fields.Add(&core.TextField{Name: "note", Required: false})
	})

	ensureCollection(app, "expenses", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "client",
			Required:      true,
			CollectionId:  clients.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "amount", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "purpose",
			Required:  true,
			Values:    []string{"labour", "material", "other"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.DateField{Name: "date", Required: true})
		c.Fields.Add(&core.TextField{Name: "paid_by", Required: false})
		c.Fields.Add(&core.TextField{Name: "note", Required: false})
	})

	ensureCollection(app, "site_photos", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "client",
			Required:      true,
			CollectionId:  clients.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "caption", Required: false})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: false})
		c.Fields.Add(&core.FileField{
			Name:      "image",
			Required:  true,
			MaxSelect: 1,
			MaxSize:   10 << 20,
			MimeTypes: []string{"image/png", "image/jpeg"},
		})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
