package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/safari_vendors/internal/models"
)

func (r *GormRepo) ListProducts(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	if err := r.DB.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *GormRepo) ListProductsPage(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	products := make([]models.Product, 0, limit)
	if err := r.DB.WithContext(ctx).Order("id").Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		return 0, nil, err
	}
	return total, products, nil
}

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct inserts the product and, when vendorID is non-nil, lists it under that vendor.
func (r *GormRepo) CreateProduct(ctx context.Context, product *models.Product, vendorID *uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(product).Error; err != nil {
			return err
		}
		if vendorID == nil {
			return nil
		}
		return tx.Create(&models.VendorProduct{VendorID: *vendorID, ProductID: product.ID}).Error
	})
}

func (r *GormRepo) UpdateProduct(ctx context.Context, id uint, updates map[string]any) (*models.Product, error) {
	var product models.Product
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, id).Error; err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&product).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&product, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes the product together with its reviews and every association row.
func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, id).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.CartProduct{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.VendorProduct{}).Error; err != nil {
			return err
		}
		return tx.Delete(&product).Error
	})
}

func (r *GormRepo) AddProductVendor(ctx context.Context, productID, vendorID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Select("id").First(&product, productID).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.VendorProduct{VendorID: vendorID, ProductID: productID}).Error
	})
}

func (r *GormRepo) RemoveProductVendor(ctx context.Context, productID, vendorID uint) error {
	res := r.DB.WithContext(ctx).
		Where("product_id = ? AND vendor_id = ?", productID, vendorID).
		Delete(&models.VendorProduct{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) ListProductVendors(ctx context.Context, productID uint) ([]models.Vendor, error) {
	vendors := []models.Vendor{}
	if err := r.DB.WithContext(ctx).
		Joins("JOIN vendor_products ON vendor_products.vendor_id = vendors.id").
		Where("vendor_products.product_id = ?", productID).
		Order("vendors.id").
		Find(&vendors).Error; err != nil {
		return nil, err
	}
	return vendors, nil
}

func (r *GormRepo) ProductHasVendor(ctx context.Context, productID, vendorID uint) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.VendorProduct{}).
		Where("product_id = ? AND vendor_id = ?", productID, vendorID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FirstProductVendor returns the earliest vendor listing the product, or gorm.ErrRecordNotFound.
func (r *GormRepo) FirstProductVendor(ctx context.Context, productID uint) (uint, error) {
	var link models.VendorProduct
	if err := r.DB.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at, vendor_id").
		First(&link).Error; err != nil {
		return 0, err
	}
	return link.VendorID, nil
}

// SearchProducts is a case-insensitive substring match over name and category.
func (r *GormRepo) SearchProducts(ctx context.Context, query string, offset, limit int) (int64, []models.Product, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	base := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("LOWER(name) LIKE ? OR LOWER(category) LIKE ?", pattern, pattern).
		Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	products := make([]models.Product, 0, limit)
	if err := base.Order("id").Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		return 0, nil, err
	}
	return total, products, nil
}
