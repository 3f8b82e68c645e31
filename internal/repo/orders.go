package repo

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/safari_vendors/internal/models"
)

func orderItems(db *gorm.DB) *gorm.DB {
	return db.Order("order_items.id")
}

func (r *GormRepo) ListOrdersByBuyer(ctx context.Context, buyerID uint) ([]models.Order, error) {
	orders := []models.Order{}
	if err := r.DB.WithContext(ctx).
		Preload("Items", orderItems).
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) ListOrdersByVendor(ctx context.Context, vendorID uint) ([]models.Order, error) {
	orders := []models.Order{}
	if err := r.DB.WithContext(ctx).
		Preload("Items", orderItems).
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Create(order).Error
}

// DeleteOrder removes the order only when buyerID owns it; otherwise gorm.ErrRecordNotFound.
func (r *GormRepo) DeleteOrder(ctx context.Context, id, buyerID uint) error {
	res := r.DB.WithContext(ctx).Where("id = ? AND buyer_id = ?", id, buyerID).Delete(&models.Order{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Checkout turns productIDs into pending orders for buyerID, one per vendor. A repeated id
// raises that line's quantity. Each product goes to its earliest listing vendor and order
// totals are computed from the current product prices. Orders come back in the order their
// vendors first appear in productIDs.
func (r *GormRepo) Checkout(ctx context.Context, buyerID uint, productIDs []uint) ([]models.Order, error) {
	ids, quantity := countIDs(productIDs)

	var orders []models.Order
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var products []models.Product
		if err := tx.Where("id IN ?", ids).Find(&products).Error; err != nil {
			return err
		}
		byID := make(map[uint]models.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}
		var missing []uint
		for _, id := range ids {
			if _, ok := byID[id]; !ok {
				missing = append(missing, id)
			}
		}
		if len(missing) > 0 {
			return &MissingProductsError{IDs: missing}
		}

		var links []models.VendorProduct
		if err := tx.Where("product_id IN ?", ids).Order("created_at, vendor_id").Find(&links).Error; err != nil {
			return err
		}
		vendorOf := make(map[uint]uint, len(ids))
		for _, l := range links {
			if _, ok := vendorOf[l.ProductID]; !ok {
				vendorOf[l.ProductID] = l.VendorID
			}
		}

		index := make(map[uint]int)
		var unlisted []uint
		for _, id := range ids {
			vendorID, ok := vendorOf[id]
			if !ok {
				unlisted = append(unlisted, id)
				continue
			}
			i, ok := index[vendorID]
			if !ok {
				i = len(orders)
				index[vendorID] = i
				orders = append(orders, models.Order{
					BuyerID:    buyerID,
					VendorID:   vendorID,
					TotalPrice: decimal.Zero,
					Status:     models.OrderStatusPending,
				})
			}
			price := byID[id].Price
			orders[i].Items = append(orders[i].Items, models.OrderItem{ProductID: id, Quantity: quantity[id], Price: price})
			orders[i].TotalPrice = orders[i].TotalPrice.Add(price.Mul(decimal.NewFromInt(int64(quantity[id]))))
		}
		if len(unlisted) > 0 {
			return &UnlistedProductsError{IDs: unlisted}
		}

		return tx.Create(&orders).Error
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func countIDs(productIDs []uint) ([]uint, map[uint]int) {
	quantity := make(map[uint]int, len(productIDs))
	ids := make([]uint, 0, len(productIDs))
	for _, id := range productIDs {
		if quantity[id] == 0 {
			ids = append(ids, id)
		}
		quantity[id]++
	}
	return ids, quantity
}
