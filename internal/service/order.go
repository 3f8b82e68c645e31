package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/safari_vendors/internal/events"
	"github.com/Skotchmaster/safari_vendors/internal/models"
	"github.com/Skotchmaster/safari_vendors/internal/repo"
	"github.com/Skotchmaster/safari_vendors/internal/transport"
)

type OrderService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func (s *OrderService) ListOrders(ctx context.Context, buyerID uint) ([]models.Order, error) {
	return s.Repo.ListOrdersByBuyer(ctx, buyerID)
}

func (s *OrderService) ListVendorOrders(ctx context.Context, vendorID uint) ([]models.Order, error) {
	return s.Repo.ListOrdersByVendor(ctx, vendorID)
}

func (s *OrderService) CreateOrder(ctx context.Context, buyerID uint, req transport.CreateOrderRequest) (*models.Order, error) {
	if req.VendorID == 0 {
		return nil, fmt.Errorf("%w: vendor_id is required", ErrValidation)
	}
	if req.TotalPrice == nil {
		return nil, fmt.Errorf("%w: total_price is required", ErrValidation)
	}
	if err := validatePrice(*req.TotalPrice); err != nil {
		return nil, err
	}

	ok, err := s.Repo.VendorExists(ctx, req.VendorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: vendor does not exist", ErrValidation)
	}

	order := &models.Order{
		BuyerID:    buyerID,
		VendorID:   req.VendorID,
		TotalPrice: *req.TotalPrice,
		Status:     models.OrderStatusPending,
	}
	if err := s.Repo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	events.Emit(ctx, s.Events, events.TopicOrder, fmt.Sprint(order.ID), events.Event{
		"type":        "order_created",
		"order_id":    order.ID,
		"buyer_id":    buyerID,
		"vendor_id":   order.VendorID,
		"total_price": order.TotalPrice.StringFixed(2),
	})
	return order, nil
}

const msgInvalidProducts = "Some products are invalid."

// Checkout places pending orders for the listed products, one order per selling vendor.
func (s *OrderService) Checkout(ctx context.Context, buyerID uint, req transport.CheckoutRequest) ([]models.Order, error) {
	if len(req.ProductIDs) == 0 {
		return nil, fmt.Errorf("%w: A list of Product IDs is required.", ErrValidation)
	}
	for _, id := range req.ProductIDs {
		if id == 0 {
			return nil, fmt.Errorf("%w: %s", ErrValidation, msgInvalidProducts)
		}
	}

	orders, err := s.Repo.Checkout(ctx, buyerID, req.ProductIDs)
	if err != nil {
		var missing *repo.MissingProductsError
		if errors.As(err, &missing) {
			return nil, fmt.Errorf("%w: %s", ErrValidation, msgInvalidProducts)
		}
		var unlisted *repo.UnlistedProductsError
		if errors.As(err, &unlisted) {
			return nil, fmt.Errorf("%w: %s", ErrValidation, unlisted.Error())
		}
		return nil, err
	}

	for _, order := range orders {
		productIDs := make([]uint, 0, len(order.Items))
		for _, item := range order.Items {
			productIDs = append(productIDs, item.ProductID)
		}
		events.Emit(ctx, s.Events, events.TopicOrder, fmt.Sprint(order.ID), events.Event{
			"type":        "order_created",
			"order_id":    order.ID,
			"buyer_id":    buyerID,
			"vendor_id":   order.VendorID,
			"total_price": order.TotalPrice.StringFixed(2),
			"product_ids": productIDs,
		})
	}
	return orders, nil
}

// DeleteOrder removes an order owned by buyerID. Orders of other buyers look missing.
func (s *OrderService) DeleteOrder(ctx context.Context, buyerID, orderID uint) error {
	if err := s.Repo.DeleteOrder(ctx, orderID, buyerID); err != nil {
		if repo.IsNotFound(err) {
			return fmt.Errorf("%w: Order not found", ErrNotFound)
		}
		return err
	}
	events.Emit(ctx, s.Events, events.TopicOrder, fmt.Sprint(orderID), events.Event{"type": "order_deleted", "order_id": orderID, "buyer_id": buyerID})
	return nil
}
