package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/safari_vendors/internal/events"
	"github.com/Skotchmaster/safari_vendors/internal/models"
	"github.com/Skotchmaster/safari_vendors/internal/repo"
)

type CartService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func cartNotFound(err error) error {
	if repo.IsNotFound(err) {
		return fmt.Errorf("%w: Cart not found", ErrNotFound)
	}
	return err
}

func (s *CartService) GetCart(ctx context.Context, buyerID uint) (*models.Cart, error) {
	cart, err := s.Repo.GetCart(ctx, buyerID)
	if err != nil {
		return nil, cartNotFound(err)
	}
	return cart, nil
}

func (s *CartService) CreateCart(ctx context.Context, buyerID uint) (*models.Cart, error) {
	cart, err := s.Repo.CreateCart(ctx, buyerID)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, fmt.Errorf("%w: Cart already exists", ErrConflict)
		}
		return nil, err
	}
	events.Emit(ctx, s.Events, events.TopicCart, fmt.Sprint(buyerID), events.Event{"type": "cart_created", "cart_id": cart.ID, "buyer_id": buyerID})
	return cart, nil
}

// ReplaceContents sets the cart to exactly the given products. Repeated ids count once and
// any unknown id rejects the whole request.
func (s *CartService) ReplaceContents(ctx context.Context, buyerID uint, productIDs []uint) (*models.Cart, error) {
	if productIDs == nil {
		return nil, fmt.Errorf("%w: product_ids is required", ErrValidation)
	}

	ids := dedupe(productIDs)
	for _, id := range ids {
		if id == 0 {
			return nil, fmt.Errorf("%w: product ids must be positive", ErrValidation)
		}
	}

	cart, err := s.Repo.ReplaceCartProducts(ctx, buyerID, ids)
	if err != nil {
		var missing *repo.MissingProductsError
		if errors.As(err, &missing) {
			return nil, fmt.Errorf("%w: %s", ErrValidation, missing.Error())
		}
		return nil, cartNotFound(err)
	}

	events.Emit(ctx, s.Events, events.TopicCart, fmt.Sprint(buyerID), events.Event{"type": "cart_updated", "cart_id": cart.ID, "product_ids": ids})
	return cart, nil
}

func (s *CartService) DeleteCart(ctx context.Context, buyerID uint) error {
	if err := s.Repo.DeleteCart(ctx, buyerID); err != nil {
		return cartNotFound(err)
	}
	events.Emit(ctx, s.Events, events.TopicCart, fmt.Sprint(buyerID), events.Event{"type": "cart_deleted", "buyer_id": buyerID})
	return nil
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
