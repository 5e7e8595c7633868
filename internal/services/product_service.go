// internal/services/product_service.go
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/otakughor/backend/internal/models"
	"github.com/otakughor/backend/internal/repository"
	"github.com/otakughor/backend/internal/store"
	"github.com/otakughor/backend/internal/utils"
)

var productSortFields = []string{"name", "price", "stock", "category", "createdAt", "updatedAt"}

type ProductService struct {
	products      *repository.ProductRepository
	notifications *NotificationService
}

type CreateProductRequest struct {
	Name          string   `json:"name" validate:"required,max=200"`
	Description   string   `json:"description" validate:"max=5000"`
	Category      string   `json:"category" validate:"required,product_category"`
	Price         *float64 `json:"price" validate:"required,gte=0"`
	OriginalPrice *float64 `json:"originalPrice" validate:"omitempty,gte=0"`
	Stock         *int     `json:"stock" validate:"omitempty,gte=0"`
	Author        string   `json:"author" validate:"max=200"`
	Publisher     string   `json:"publisher" validate:"max=200"`
	PrintType     string   `json:"printType" validate:"max=50"`
	Volume        string   `json:"volume" validate:"max=50"`
	Language      string   `json:"language" validate:"max=50"`
	Genres        []string `json:"genres"`
	Tags          []string `json:"tags"`
	Image         string   `json:"image"`
	Images        []string `json:"images"`
	Available     *bool    `json:"available"`
	Featured      *bool    `json:"featured"`
}

type UpdateProductRequest struct {
	Name          *string   `json:"name" validate:"omitempty,min=1,max=200"`
	Description   *string   `json:"description" validate:"omitempty,max=5000"`
	Category      *string   `json:"category" validate:"omitempty,product_category"`
	Price         *float64  `json:"price" validate:"omitempty,gte=0"`
	OriginalPrice *float64  `json:"originalPrice" validate:"omitempty,gte=0"`
	Stock         *int      `json:"stock" validate:"omitempty,gte=0"`
	Author        *string   `json:"author" validate:"omitempty,max=200"`
	Publisher     *string   `json:"publisher" validate:"omitempty,max=200"`
	PrintType     *string   `json:"printType" validate:"omitempty,max=50"`
	Volume        *string   `json:"volume" validate:"omitempty,max=50"`
	Language      *string   `json:"language" validate:"omitempty,max=50"`
	Genres        *[]string `json:"genres"`
	Tags          *[]string `json:"tags"`
	Image         *string   `json:"image"`
	Images        *[]string `json:"images"`
	Available     *bool     `json:"available"`
	Featured      *bool     `json:"featured"`
}

type UpdateStockRequest struct {
	Stock     *int   `json:"stock" validate:"required,gte=0"`
	Operation string `json:"operation" validate:"omitempty,oneof=set add subtract"`
}

type ProductQuery struct {
	Params    utils.PaginationParams
	Category  string
	MinPrice  *float64
	MaxPrice  *float64
	InStock   *bool
	Featured  *bool
	Available *bool
}

func NewProductService(products *repository.ProductRepository, notifications *NotificationService) *ProductService {
	return &ProductService{
		products:      products,
		notifications: notifications,
	}
}

// checkCategoryRules enforces the book-only fields.
func checkCategoryRules(p *models.Product) error {
	var details []utils.ValidationError
	if p.Category.RequiresAuthor() && strings.TrimSpace(p.Author) == "" {
		details = append(details, utils.NewValidationError("author", "required",
			fmt.Sprintf("author is required for %s", p.Category)))
	}
	if p.Category.RequiresPrintType() && strings.TrimSpace(p.PrintType) == "" {
		details = append(details, utils.NewValidationError("printType", "required",
			fmt.Sprintf("printType is required for %s", p.Category)))
	}
	if len(details) > 0 {
		return invalid(details...)
	}
	return nil
}

func (s *ProductService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	product := &models.Product{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Category:    models.ProductCategory(req.Category),
		Price:       *req.Price,
		Author:      req.Author,
		Publisher:   req.Publisher,
		PrintType:   req.PrintType,
		Volume:      req.Volume,
		Language:    req.Language,
		Genres:      req.Genres,
		Tags:        req.Tags,
		Image:       req.Image,
		Images:      req.Images,
		Available:   true,
	}
	if req.OriginalPrice != nil {
		product.OriginalPrice = *req.OriginalPrice
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.Available != nil {
		product.Available = *req.Available
	}
	if req.Featured != nil {
		product.Featured = *req.Featured
	}

	if err := checkCategoryRules(product); err != nil {
		return nil, err
	}

	created, err := s.products.Create(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.notifications.ProductCreated(ctx, created)
	return created, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}
	return product, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id string, req *UpdateProductRequest) (*models.Product, error) {
	existing, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}

	patch := store.Document{}
	setIf := func(key string, present bool, value interface{}) {
		if present {
			patch[key] = value
		}
	}
	setIf("name", req.Name != nil, deref(req.Name))
	setIf("description", req.Description != nil, deref(req.Description))
	setIf("category", req.Category != nil, deref(req.Category))
	setIf("author", req.Author != nil, deref(req.Author))
	setIf("publisher", req.Publisher != nil, deref(req.Publisher))
	setIf("printType", req.PrintType != nil, deref(req.PrintType))
	setIf("volume", req.Volume != nil, deref(req.Volume))
	setIf("language", req.Language != nil, deref(req.Language))
	setIf("image", req.Image != nil, deref(req.Image))
	if req.Price != nil {
		patch["price"] = *req.Price
	}
	if req.OriginalPrice != nil {
		patch["originalPrice"] = *req.OriginalPrice
	}
	if req.Stock != nil {
		patch["stock"] = *req.Stock
	}
	if req.Genres != nil {
		patch["genres"] = *req.Genres
	}
	if req.Tags != nil {
		patch["tags"] = *req.Tags
	}
	if req.Images != nil {
		patch["images"] = *req.Images
	}
	if req.Available != nil {
		patch["available"] = *req.Available
	}
	if req.Featured != nil {
		patch["featured"] = *req.Featured
	}

	// Validate the merged result, not just the patch
	merged := *existing
	if err := mergeInto(&merged, patch); err != nil {
		return nil, err
	}
	if err := checkCategoryRules(&merged); err != nil {
		return nil, err
	}

	updated, err := s.products.Update(ctx, id, patch)
	if err != nil {
		return nil, notFound(err, "product")
	}

	if req.Stock != nil && updated.Stock != existing.Stock {
		s.notifications.StockChanged(ctx, updated, existing.Stock)
	}
	return updated, nil
}

func (s *ProductService) UpdateStock(ctx context.Context, id string, req *UpdateStockRequest) (*models.Product, error) {
	existing, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}

	stock := *req.Stock
	switch req.Operation {
	case "add":
		stock = existing.Stock + stock
	case "subtract":
		stock = existing.Stock - stock
	}
	if stock < 0 {
		return nil, invalid(utils.NewValidationError("stock", "gte", "stock cannot go below 0"))
	}

	updated, err := s.products.UpdateStock(ctx, id, stock)
	if err != nil {
		return nil, notFound(err, "product")
	}

	s.notifications.StockChanged(ctx, updated, existing.Stock)
	return updated, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id string) (*models.Product, error) {
	deleted, err := s.products.Delete(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}
	return deleted, nil
}

// ListProducts returns one page of matching products and the total number
// of matches.
func (s *ProductService) ListProducts(ctx context.Context, q ProductQuery) ([]models.Product, int, error) {
	filter := store.Filter{}
	if q.Category != "" {
		filter = filter.And(store.Eq("category", q.Category))
	}
	if q.MinPrice != nil {
		filter = filter.And(store.Gte("price", *q.MinPrice))
	}
	if q.MaxPrice != nil {
		filter = filter.And(store.Lte("price", *q.MaxPrice))
	}
	if q.Featured != nil {
		filter = filter.And(store.Eq("featured", *q.Featured))
	}
	if q.Available != nil {
		filter = filter.And(store.Eq("available", *q.Available))
	}
	if term := strings.TrimSpace(q.Params.Search); term != "" {
		filter = filter.And(store.Contains(term, productSearchFields...))
	}

	products, err := s.products.List(ctx, filter, q.Params.SortField(productSortFields), q.Params.Desc())
	if err != nil {
		return nil, 0, err
	}

	matched := products[:0]
	for _, p := range products {
		if q.InStock != nil && p.InStock() != *q.InStock {
			continue
		}
		matched = append(matched, p)
	}

	return utils.Paginate(matched, q.Params), len(matched), nil
}

var productSearchFields = []string{"name", "description", "author", "publisher", "category", "genres", "tags"}

func (s *ProductService) Categories(ctx context.Context) ([]repository.CategoryCount, error) {
	return s.products.Categories(ctx)
}

func (s *ProductService) Stats(ctx context.Context) (*repository.ProductStats, error) {
	return s.products.Stats(ctx, s.notifications.LowStockThreshold())
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// mergeInto applies a shallow patch to a typed value through its document
// form.
func mergeInto[T any](v *T, patch store.Document) error {
	doc, err := store.ToDocument(v)
	if err != nil {
		return err
	}
	for k, val := range patch {
		doc[k] = val
	}
	return store.Decode(doc, v)
}
