package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/safari_vendors/internal/models"
)

func (r *GormRepo) CreateReview(ctx context.Context, review *models.Review) error {
	return r.DB.WithContext(ctx).Create(review).Error
}

func (r *GormRepo) GetReview(ctx context.Context, productID, reviewID uint) (*models.Review, error) {
	var review models.Review
	if err := r.DB.WithContext(ctx).
		Where("id = ? AND product_id = ?", reviewID, productID).
		First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *GormRepo) UpdateReview(ctx context.Context, review *models.Review, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(review).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(review, review.ID).Error
	})
}

func (r *GormRepo) DeleteReview(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Review{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) ListReviews(ctx context.Context, productID uint) ([]models.Review, error) {
	reviews := []models.Review{}
	if err := r.DB.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}
