package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/safari_vendors/internal/events"
	"github.com/Skotchmaster/safari_vendors/internal/logging"
	"github.com/Skotchmaster/safari_vendors/internal/models"
	"github.com/Skotchmaster/safari_vendors/internal/repo"
	"github.com/Skotchmaster/safari_vendors/internal/search"
	"github.com/Skotchmaster/safari_vendors/internal/transport"
)

type CatalogService struct {
	Repo   *repo.GormRepo
	Search search.Engine
	Events events.Publisher
}

func productNotFound(err error) error {
	if repo.IsNotFound(err) {
		return fmt.Errorf("%w: Product not found", ErrNotFound)
	}
	return err
}

func validatePrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}
	if !p.Equal(p.Round(2)) {
		return fmt.Errorf("%w: price must have at most two decimal places", ErrValidation)
	}
	return nil
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.Repo.ListProducts(ctx)
}

func (s *CatalogService) ListProductsPage(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	return s.Repo.ListProductsPage(ctx, offset, limit)
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, productNotFound(err)
	}
	return p, nil
}

// CreateProduct stores a new product; a vendor caller becomes one of its listing vendors.
func (s *CatalogService) CreateProduct(ctx context.Context, caller Caller, req transport.CreateProductRequest) (*models.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if req.Price == nil {
		return nil, fmt.Errorf("%w: price is required", ErrValidation)
	}
	if err := validatePrice(*req.Price); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:     name,
		Category: strings.TrimSpace(req.Category),
		Price:    *req.Price,
		ImageURL: strings.TrimSpace(req.ImageURL),
	}

	var vendorID *uint
	if caller.Role == models.RoleVendor {
		vendorID = &caller.ID
	}
	if err := s.Repo.CreateProduct(ctx, product, vendorID); err != nil {
		return nil, err
	}

	s.index(ctx, product)
	events.Emit(ctx, s.Events, events.TopicProduct, fmt.Sprint(product.ID), events.Event{"type": "product_created", "product_id": product.ID})
	return product, nil
}

func (s *CatalogService) PatchProduct(ctx context.Context, id uint, req transport.PatchProductRequest) (*models.Product, error) {
	updates := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrValidation)
		}
		updates["name"] = name
	}
	if req.Price != nil {
		if err := validatePrice(*req.Price); err != nil {
			return nil, err
		}
		updates["price"] = *req.Price
	}
	if req.Category != nil {
		updates["category"] = strings.TrimSpace(*req.Category)
	}
	if req.ImageURL != nil {
		updates["image_url"] = strings.TrimSpace(*req.ImageURL)
	}

	product, err := s.Repo.UpdateProduct(ctx, id, updates)
	if err != nil {
		return nil, productNotFound(err)
	}

	if len(updates) > 0 {
		s.index(ctx, product)
		events.Emit(ctx, s.Events, events.TopicProduct, fmt.Sprint(id), events.Event{"type": "product_updated", "product_id": id})
	}
	return product, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return productNotFound(err)
	}

	if s.Search != nil {
		if err := s.Search.Delete(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_delete_error", "product_id", id, "error", err)
		}
	}
	events.Emit(ctx, s.Events, events.TopicProduct, fmt.Sprint(id), events.Event{"type": "product_deleted", "product_id": id})
	return nil
}

func (s *CatalogService) AddVendor(ctx context.Context, productID, vendorID uint) error {
	if err := s.Repo.AddProductVendor(ctx, productID, vendorID); err != nil {
		return productNotFound(err)
	}
	events.Emit(ctx, s.Events, events.TopicProduct, fmt.Sprint(productID), events.Event{"type": "vendor_listed", "product_id": productID, "vendor_id": vendorID})
	return nil
}

func (s *CatalogService) RemoveVendor(ctx context.Context, productID, vendorID uint) error {
	if err := s.Repo.RemoveProductVendor(ctx, productID, vendorID); err != nil {
		if repo.IsNotFound(err) {
			return fmt.Errorf("%w: vendor does not list this product", ErrNotFound)
		}
		return err
	}
	events.Emit(ctx, s.Events, events.TopicProduct, fmt.Sprint(productID), events.Event{"type": "vendor_unlisted", "product_id": productID, "vendor_id": vendorID})
	return nil
}

func (s *CatalogService) ListVendors(ctx context.Context, productID uint) ([]models.Vendor, error) {
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	return s.Repo.ListProductVendors(ctx, productID)
}

func (s *CatalogService) SearchProducts(ctx context.Context, q string, offset, limit int) (search.Results, error) {
	if strings.TrimSpace(q) == "" {
		return search.Results{}, fmt.Errorf("%w: q is required", ErrValidation)
	}
	return s.Search.Search(ctx, q, offset, limit)
}

func (s *CatalogService) index(ctx context.Context, p *models.Product) {
	if s.Search == nil {
		return
	}
	if err := s.Search.Index(ctx, p); err != nil {
		logging.FromContext(ctx).Warn("search_index_error", "product_id", p.ID, "error", err)
	}
}
