package memory

import (
	"testing"
	"time"

	"github.com/tidecart/internal/models"
	"github.com/tidecart/internal/repository"
)

func TestCatalogListOrderAndActiveFilter(t *testing.T) {
	repo := NewTrustedBadgeRepository(
		models.TrustedBadge{Title: "Fresh catch", IsActive: true, SortOrder: 1},
		models.TrustedBadge{Title: "Hidden", IsActive: false, SortOrder: 9},
		models.TrustedBadge{Title: "Cold chain", IsActive: true, SortOrder: 5},
		models.TrustedBadge{Title: "Same day", IsActive: true, SortOrder: 5},
	)

	rows, total, err := repo.List(repository.CatalogListFilter{OnlyActive: true})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 3 {
		t.Fatalf("total want 3 got %d", total)
	}
	want := []string{"Cold chain", "Same day", "Fresh catch"}
	for i, title := range want {
		if rows[i].Title != title {
			t.Fatalf("row %d want %s got %s", i, title, rows[i].Title)
		}
	}

	page, total, _ := repo.List(repository.CatalogListFilter{Page: 2, PageSize: 2})
	if total != 4 || len(page) != 2 {
		t.Fatalf("page 2 want 2 rows of 4 got %d of %d", len(page), total)
	}
}

func TestProductListByCategorySlug(t *testing.T) {
	categories := NewCategoryRepository(
		models.Category{Slug: "fish", Name: "Fish", IsActive: true},
		models.Category{Slug: "prawns", Name: "Prawns", IsActive: true},
	)
	products := NewProductRepository(categories,
		models.Product{CategoryID: 1, Slug: "seer", Name: "Seer Fish", IsActive: true, InStock: true},
		models.Product{CategoryID: 2, Slug: "tiger-prawn", Name: "Tiger Prawn", IsActive: true, InStock: false},
	)

	rows, total, err := products.List(repository.ProductListFilter{
		CatalogListFilter: repository.CatalogListFilter{OnlyActive: true},
		CategorySlug:      "prawns",
		WithCategory:      true,
	})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || rows[0].Slug != "tiger-prawn" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
	if rows[0].Category == nil || rows[0].Category.Slug != "prawns" {
		t.Fatalf("expected category attached")
	}

	inStock, _, _ := products.List(repository.ProductListFilter{InStockOnly: true})
	if len(inStock) != 1 || inStock[0].Slug != "seer" {
		t.Fatalf("in stock filter want seer got %+v", inStock)
	}

	count, _ := categories.CountProducts(1)
	if count != 1 {
		t.Fatalf("count products want 1 got %d", count)
	}
	if dup, _ := products.CountBySlug("seer", 0); dup != 1 {
		t.Fatalf("count by slug want 1 got %d", dup)
	}
	if dup, _ := products.CountBySlug("seer", 1); dup != 0 {
		t.Fatalf("count by slug excluding self want 0 got %d", dup)
	}
}

func TestDeliverySlotIncrementBookedRespectsCapacity(t *testing.T) {
	repo := NewDeliverySlotRepository(models.DeliverySlot{
		Display: "7-9 AM", Capacity: 1, Available: true, IsActive: true,
	})

	affected, err := repo.IncrementBooked(1)
	if err != nil || affected != 1 {
		t.Fatalf("first booking want 1 got %d err %v", affected, err)
	}
	affected, _ = repo.IncrementBooked(1)
	if affected != 0 {
		t.Fatalf("full slot should not be booked, got %d", affected)
	}
	slot, _ := repo.GetByID(1)
	if slot.IsSelectable(time.Now()) {
		t.Fatalf("full slot should not be selectable")
	}
}

func TestGetMissingReturnsNil(t *testing.T) {
	repo := NewFeaturedFishRepository()
	row, err := repo.GetByID(42)
	if err != nil || row != nil {
		t.Fatalf("missing row want nil,nil got %v,%v", row, err)
	}
}
