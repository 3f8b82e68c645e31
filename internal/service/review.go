package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/safari_vendors/internal/events"
	"github.com/Skotchmaster/safari_vendors/internal/models"
	"github.com/Skotchmaster/safari_vendors/internal/repo"
	"github.com/Skotchmaster/safari_vendors/internal/transport"
)

const (
	MinRating = 1
	MaxRating = 5
)

var errVendorReview = fmt.Errorf("%w: Vendors cannot leave reviews!", ErrForbidden)

type ReviewService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

// CheckAuthor rejects callers that may never author reviews.
func CheckAuthor(caller Caller) error {
	if caller.Role != models.RoleBuyer {
		return errVendorReview
	}
	return nil
}

func validateRating(r int) error {
	if r < MinRating || r > MaxRating {
		return fmt.Errorf("%w: rating must be between %d and %d", ErrValidation, MinRating, MaxRating)
	}
	return nil
}

func (s *ReviewService) CreateReview(ctx context.Context, caller Caller, productID uint, req transport.CreateReviewRequest) (*models.Review, error) {
	if err := CheckAuthor(caller); err != nil {
		return nil, err
	}
	if req.Rating == nil {
		return nil, fmt.Errorf("%w: rating is required", ErrValidation)
	}
	if err := validateRating(*req.Rating); err != nil {
		return nil, err
	}

	if _, err := s.Repo.GetProduct(ctx, productID); err != nil {
		return nil, productNotFound(err)
	}

	vendorID, err := s.resolveVendor(ctx, productID, req.VendorID)
	if err != nil {
		return nil, err
	}

	review := &models.Review{
		ProductID: productID,
		VendorID:  vendorID,
		BuyerID:   caller.ID,
		Rating:    *req.Rating,
		Comment:   req.Comment,
	}
	if err := s.Repo.CreateReview(ctx, review); err != nil {
		return nil, err
	}

	events.Emit(ctx, s.Events, events.TopicReview, fmt.Sprint(review.ID), events.Event{
		"type":       "review_created",
		"review_id":  review.ID,
		"product_id": productID,
		"vendor_id":  vendorID,
		"rating":     review.Rating,
	})
	return review, nil
}

func (s *ReviewService) resolveVendor(ctx context.Context, productID uint, requested *uint) (uint, error) {
	if requested != nil {
		ok, err := s.Repo.ProductHasVendor(ctx, productID, *requested)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, fmt.Errorf("%w: vendor does not list this product", ErrValidation)
		}
		return *requested, nil
	}

	vendorID, err := s.Repo.FirstProductVendor(ctx, productID)
	if err != nil {
		if repo.IsNotFound(err) {
			return 0, fmt.Errorf("%w: product has no vendor to review", ErrValidation)
		}
		return 0, err
	}
	return vendorID, nil
}

func (s *ReviewService) ownReview(ctx context.Context, caller Caller, productID, reviewID uint) (*models.Review, error) {
	if err := CheckAuthor(caller); err != nil {
		return nil, err
	}
	review, err := s.Repo.GetReview(ctx, productID, reviewID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("%w: Review not found", ErrNotFound)
		}
		return nil, err
	}
	if review.BuyerID != caller.ID {
		return nil, fmt.Errorf("%w: you can only change your own reviews", ErrForbidden)
	}
	return review, nil
}

func (s *ReviewService) UpdateReview(ctx context.Context, caller Caller, productID, reviewID uint, req transport.PatchReviewRequest) (*models.Review, error) {
	review, err := s.ownReview(ctx, caller, productID, reviewID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Rating != nil {
		if err := validateRating(*req.Rating); err != nil {
			return nil, err
		}
		updates["rating"] = *req.Rating
	}
	if req.Comment != nil {
		updates["comment"] = *req.Comment
	}

	if err := s.Repo.UpdateReview(ctx, review, updates); err != nil {
		return nil, err
	}

	if len(updates) > 0 {
		events.Emit(ctx, s.Events, events.TopicReview, fmt.Sprint(review.ID), events.Event{"type": "review_updated", "review_id": review.ID, "product_id": productID})
	}
	return review, nil
}

func (s *ReviewService) DeleteReview(ctx context.Context, caller Caller, productID, reviewID uint) error {
	review, err := s.ownReview(ctx, caller, productID, reviewID)
	if err != nil {
		return err
	}
	if err := s.Repo.DeleteReview(ctx, review.ID); err != nil {
		if repo.IsNotFound(err) {
			return fmt.Errorf("%w: Review not found", ErrNotFound)
		}
		return err
	}
	events.Emit(ctx, s.Events, events.TopicReview, fmt.Sprint(review.ID), events.Event{"type": "review_deleted", "review_id": review.ID, "product_id": productID})
	return nil
}

func (s *ReviewService) ListReviews(ctx context.Context, productID uint) ([]models.Review, error) {
	if _, err := s.Repo.GetProduct(ctx, productID); err != nil {
		return nil, productNotFound(err)
	}
	return s.Repo.ListReviews(ctx, productID)
}
