// internal/repository/product_repository.go
package repository

import (
	"context"
	"sort"

	"github.com/otakughor/backend/internal/models"
	"github.com/otakughor/backend/internal/store"
)

type ProductRepository struct {
	coll collection[models.Product]
}

func NewProductRepository(s store.Store) *ProductRepository {
	return &ProductRepository{coll: collection[models.Product]{store: s, name: CollectionProducts}}
}

type CategoryCount struct {
	Category   string  `json:"category"`
	Count      int     `json:"count"`
	TotalStock int     `json:"totalStock"`
	AvgPrice   float64 `json:"avgPrice"`
}

type ProductStats struct {
	TotalProducts     int             `json:"totalProducts"`
	TotalStock        int             `json:"totalStock"`
	AveragePrice      float64         `json:"averagePrice"`
	InventoryValue    float64         `json:"inventoryValue"`
	OutOfStock        int             `json:"outOfStock"`
	LowStock          int             `json:"lowStock"`
	Featured          int             `json:"featured"`
	Unavailable       int             `json:"unavailable"`
	Categories        []CategoryCount `json:"categories"`
	LowStockThreshold int             `json:"lowStockThreshold"`
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	product.ID = ""
	return r.coll.insert(ctx, product)
}

func (r *ProductRepository) CreateMany(ctx context.Context, products []models.Product) ([]models.Product, error) {
	docs := make([]store.Document, 0, len(products))
	for i := range products {
		products[i].ID = ""
		doc, err := store.ToDocument(&products[i])
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	stored, err := r.coll.store.InsertMany(ctx, CollectionProducts, docs)
	if err != nil {
		return nil, err
	}
	return store.DecodeAll[models.Product](stored)
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	return r.coll.findByID(ctx, id)
}

// List returns matching products in the requested order.
func (r *ProductRepository) List(ctx context.Context, filter store.Filter, sortField string, desc bool) ([]models.Product, error) {
	if sortField == "" {
		sortField = store.FieldCreatedAt
	}
	return r.coll.findSorted(ctx, filter, sortField, desc)
}

func (r *ProductRepository) Update(ctx context.Context, id string, patch store.Document) (*models.Product, error) {
	return r.coll.update(ctx, id, patch)
}

func (r *ProductRepository) UpdateStock(ctx context.Context, id string, stock int) (*models.Product, error) {
	return r.coll.update(ctx, id, store.Document{"stock": stock})
}

func (r *ProductRepository) Delete(ctx context.Context, id string) (*models.Product, error) {
	return r.coll.delete(ctx, id)
}

func (r *ProductRepository) Count(ctx context.Context, filter store.Filter) (int, error) {
	return r.coll.count(ctx, filter)
}

// Categories lists the distinct categories that have at least one product,
// alphabetically.
func (r *ProductRepository) Categories(ctx context.Context) ([]CategoryCount, error) {
	groups, err := r.coll.store.Aggregate(ctx, CollectionProducts,
		store.Group{By: "category", Fields: map[string]store.Accumulator{
			"count":    store.Count(),
			"stock":    store.Sum("stock"),
			"avgPrice": store.Avg("price"),
		}},
	)
	if err != nil {
		return nil, err
	}

	categories := make([]CategoryCount, 0, len(groups))
	for _, g := range groups {
		name, ok := g[store.FieldID].(string)
		if !ok || name == "" {
			continue
		}
		categories = append(categories, CategoryCount{
			Category:   name,
			Count:      int(number(g, "count")),
			TotalStock: int(number(g, "stock")),
			AvgPrice:   models.RoundMoney(number(g, "avgPrice")),
		})
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Category < categories[j].Category
	})
	return categories, nil
}

// Stats summarises the catalogue. A product is low on stock when
// 0 < stock <= lowStockThreshold.
func (r *ProductRepository) Stats(ctx context.Context, lowStockThreshold int) (*ProductStats, error) {
	totals, err := r.coll.store.Aggregate(ctx, CollectionProducts,
		store.Group{Fields: map[string]store.Accumulator{
			"count":    store.Count(),
			"stock":    store.Sum("stock"),
			"avgPrice": store.Avg("price"),
		}},
	)
	if err != nil {
		return nil, err
	}

	stats := &ProductStats{LowStockThreshold: lowStockThreshold}
	if len(totals) > 0 {
		stats.TotalProducts = int(number(totals[0], "count"))
		stats.TotalStock = int(number(totals[0], "stock"))
		stats.AveragePrice = models.RoundMoney(number(totals[0], "avgPrice"))
	}

	counters := []struct {
		target *int
		filter store.Filter
	}{
		{&stats.OutOfStock, store.Where(store.Lte("stock", 0))},
		{&stats.LowStock, store.Where(store.Gt("stock", 0), store.Lte("stock", lowStockThreshold))},
		{&stats.Featured, store.Where(store.Eq("featured", true))},
		{&stats.Unavailable, store.Where(store.Eq("available", false))},
	}
	for _, c := range counters {
		n, err := r.coll.count(ctx, c.filter)
		if err != nil {
			return nil, err
		}
		*c.target = n
	}

	products, err := r.coll.find(ctx, nil)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		stats.InventoryValue += p.Price * float64(p.Stock)
	}
	stats.InventoryValue = models.RoundMoney(stats.InventoryValue)

	if stats.Categories, err = r.Categories(ctx); err != nil {
		return nil, err
	}
	return stats, nil
}
