package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// CategoryItem is one catalog category in list responses.
type CategoryItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sortOrder"`
}

// SubcategoryItem is one catalog subcategory in list responses.
type SubcategoryItem struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CategoryID string `json:"categoryId"`
	SortOrder  int    `json:"sortOrder"`
}

// SectionItem is one priced catalog section in list responses.
type SectionItem struct {
	ID            string  `json:"id"`
	CategoryID    string  `json:"categoryId"`
	SubcategoryID string  `json:"subcategoryId"`
	Material      string  `json:"material"`
	Description   string  `json:"description"`
	UnitType      string  `json:"unitType"`
	UnitPrice     float64 `json:"unitPrice"`
}

// HandleCategoryList returns all catalog categories ordered by sort_order.
func HandleCategoryList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		col, err := app.FindCollectionByNameOrId("categories")
		if err != nil {
			log.Printf("catalog_list: %v", err)
			return e.String(http.StatusInternalServerError, "Catalog unavailable")
		}

		records, err := app.FindRecordsByFilter(col, "id != ''", "sort_order,name", 0, 0, nil)
		if err != nil {
			log.Printf("catalog_list: query categories: %v", err)
			return e.String(http.StatusInternalServerError, "Catalog unavailable")
		}

		items := make([]CategoryItem, 0, len(records))
		for _, r := range records {
			items = append(items, CategoryItem{
				ID:        r.Id,
				Name:      r.GetString("name"),
				SortOrder: r.GetInt("sort_order"),
			})
		}
		return e.JSON(http.StatusOK, items)
	}
}

// HandleSubcategoryList returns subcategories, optionally filtered by the
// "category" query parameter.
func HandleSubcategoryList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		col, err := app.FindCollectionByNameOrId("subcategories")
		if err != nil {
			log.Printf("catalog_list: %v", err)
			return e.String(http.StatusInternalServerError, "Catalog unavailable")
		}

		filter := "id != ''"
		params := map[string]any{}
		if catID := e.Request.URL.Query().Get("category"); catID != "" {
			filter = "category = {:categoryId}"
			params["categoryId"] = catID
		}

		records, err := app.FindRecordsByFilter(col, filter, "sort_order,name", 0, 0, params)
		if err != nil {
			log.Printf("catalog_list: query subcategories: %v", err)
			return e.String(http.StatusInternalServerError, "Catalog unavailable")
		}

		items := make([]SubcategoryItem, 0, len(records))
		for _, r := range records {
			items = append(items, SubcategoryItem{
				ID:         r.Id,
				Name:       r.GetString("name"),
				CategoryID: r.GetString("category"),
				SortOrder:  r.GetInt("sort_order"),
			})
		}
		return e.JSON(http.StatusOK, items)
	}
}

// HandleSectionList returns priced sections, optionally filtered by the
// "subcategory" query parameter.
func HandleSectionList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		col, err := app.FindCollectionByNameOrId("sections")
		if err != nil {
			log.Printf("catalog_list: %v", err)
			return e.String(http.StatusInternalServerError, "Catalog unavailable")
		}

		filter := "id != ''"
		params := map[string]any{}
		if subID := e.Request.URL.Query().Get("subcategory"); subID != "" {
			filter = "subcategory = {:subcategoryId}"
			params["subcategoryId"] = subID
		}

		records, err := app.FindRecordsByFilter(col, filter, "material", 0, 0, params)
		if err != nil {
			log.Printf("catalog_list: query sections: %v", err)
			return e.String(http.StatusInternalServerError, "Catalog unavailable")
		}

		items := make([]SectionItem, 0, len(records))
		for _, r := range records {
			items = append(items, SectionItem{
				ID:            r.Id,
				CategoryID:    r.GetString("category"),
				SubcategoryID: r.GetString("subcategory"),
				Material:      r.GetString("material"),
				Description:   r.GetString("description"),
				UnitType:      r.GetString("unit_type"),
				UnitPrice:     r.GetFloat("unit_price"),
			})
		}
		return e.JSON(http.StatusOK, items)
	}
}
