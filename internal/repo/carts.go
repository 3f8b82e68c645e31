package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/safari_vendors/internal/models"
)

func preloadProducts(db *gorm.DB) *gorm.DB {
	return db.Order("products.id")
}

func (r *GormRepo) GetCart(ctx context.Context, buyerID uint) (*models.Cart, error) {
	var cart models.Cart
	if err := r.DB.WithContext(ctx).
		Preload("Products", preloadProducts).
		Where("buyer_id = ?", buyerID).
		First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *GormRepo) CreateCart(ctx context.Context, buyerID uint) (*models.Cart, error) {
	cart := models.Cart{BuyerID: buyerID, Products: []models.Product{}}
	if err := r.DB.WithContext(ctx).Omit("Products").Create(&cart).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return &cart, nil
}

// ReplaceCartProducts swaps the cart contents for exactly productIDs. The cart row is
// locked for the duration so concurrent replacements serialize.
func (r *GormRepo) ReplaceCartProducts(ctx context.Context, buyerID uint, productIDs []uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("buyer_id = ?", buyerID).
			First(&cart).Error; err != nil {
			return err
		}

		if len(productIDs) > 0 {
			var found []uint
			if err := tx.Model(&models.Product{}).Where("id IN ?", productIDs).Pluck("id", &found).Error; err != nil {
				return err
			}
			if missing := difference(productIDs, found); len(missing) > 0 {
				return &MissingProductsError{IDs: missing}
			}
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartProduct{}).Error; err != nil {
			return err
		}
		if len(productIDs) > 0 {
			rows := make([]models.CartProduct, 0, len(productIDs))
			for _, id := range productIDs {
				rows = append(rows, models.CartProduct{CartID: cart.ID, ProductID: id})
			}
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&cart).Update("updated_at", tx.NowFunc()).Error; err != nil {
			return err
		}
		return tx.Preload("Products", preloadProducts).First(&cart, cart.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *GormRepo) DeleteCart(ctx context.Context, buyerID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("buyer_id = ?", buyerID).
			First(&cart).Error; err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartProduct{}).Error; err != nil {
			return err
		}
		return tx.Delete(&cart).Error
	})
}

func difference(want, have []uint) []uint {
	seen := make(map[uint]struct{}, len(have))
	for _, id := range have {
		seen[id] = struct{}{}
	}
	var missing []uint
	for _, id := range want {
		if _, ok := seen[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
