// Package seed loads the demo marketplace: two buyers, two vendors, three products
// and their carts, orders and reviews.
package seed

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/safari_vendors/internal/db"
	"github.com/Skotchmaster/safari_vendors/internal/hash"
	"github.com/Skotchmaster/safari_vendors/internal/models"
)

type account struct {
	username, email, password string
}

var (
	buyers = []account{
		{"john_doe", "john@example.com", "password123"},
		{"jane_doe", "jane@example.com", "securepass456"},
	}
	vendors = []account{
		{"vendor_one", "vendor1@example.com", "vendorpass1"},
		{"vendor_two", "vendor2@example.com", "vendorpass2"},
	}
)

func comment(s string) *string { return &s }

// Run drops every table, recreates the schema and inserts the demo rows in one transaction.
func Run(ctx context.Context, gdb *gorm.DB) error {
	if err := db.Reset(gdb.WithContext(ctx)); err != nil {
		return err
	}

	return gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b := make([]*models.Buyer, len(buyers))
		for i, a := range buyers {
			pw, err := hash.HashPassword(a.password)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			b[i] = &models.Buyer{Username: a.username, Email: a.email, PasswordHash: pw}
		}
		if err := tx.Create(b).Error; err != nil {
			return fmt.Errorf("buyers: %w", err)
		}

		v := make([]*models.Vendor, len(vendors))
		for i, a := range vendors {
			pw, err := hash.HashPassword(a.password)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			v[i] = &models.Vendor{Username: a.username, Email: a.email, PasswordHash: pw}
		}
		if err := tx.Create(v).Error; err != nil {
			return fmt.Errorf("vendors: %w", err)
		}

		p := []*models.Product{
			{Name: "Coffee Mug", Category: "Home & Kitchen", Price: decimal.RequireFromString("12.99"), ImageURL: "http://example.com/mug.jpg"},
			{Name: "T-Shirt", Category: "Clothing", Price: decimal.RequireFromString("19.99"), ImageURL: "http://example.com/shirt.jpg"},
			{Name: "Smartphone", Category: "Electronics", Price: decimal.RequireFromString("499.99"), ImageURL: "http://example.com/phone.jpg"},
		}
		if err := tx.Create(p).Error; err != nil {
			return fmt.Errorf("products: %w", err)
		}

		listings := []models.VendorProduct{
			{VendorID: v[0].ID, ProductID: p[0].ID},
			{VendorID: v[0].ID, ProductID: p[1].ID},
			{VendorID: v[1].ID, ProductID: p[2].ID},
		}
		if err := tx.Create(&listings).Error; err != nil {
			return fmt.Errorf("vendor products: %w", err)
		}

		carts := []*models.Cart{{BuyerID: b[0].ID}, {BuyerID: b[1].ID}}
		if err := tx.Create(carts).Error; err != nil {
			return fmt.Errorf("carts: %w", err)
		}
		items := []models.CartProduct{
			{CartID: carts[0].ID, ProductID: p[0].ID},
			{CartID: carts[0].ID, ProductID: p[2].ID},
			{CartID: carts[1].ID, ProductID: p[1].ID},
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("cart products: %w", err)
		}

		orders := []*models.Order{
			{BuyerID: b[0].ID, VendorID: v[0].ID, TotalPrice: decimal.RequireFromString("32.98"), Status: models.OrderStatusCompleted, Items: []models.OrderItem{
				{ProductID: p[0].ID, Quantity: 1, Price: p[0].Price},
				{ProductID: p[1].ID, Quantity: 1, Price: p[1].Price},
			}},
			{BuyerID: b[1].ID, VendorID: v[1].ID, TotalPrice: decimal.RequireFromString("499.99"), Status: models.OrderStatusPending, Items: []models.OrderItem{
				{ProductID: p[2].ID, Quantity: 1, Price: p[2].Price},
			}},
		}
		if err := tx.Create(orders).Error; err != nil {
			return fmt.Errorf("orders: %w", err)
		}

		// each review is credited to a buyer whose cart holds the product
		reviews := []*models.Review{
			{ProductID: p[0].ID, VendorID: v[0].ID, BuyerID: b[0].ID, Rating: 5, Comment: comment("Great quality mug!")},
			{ProductID: p[1].ID, VendorID: v[0].ID, BuyerID: b[1].ID, Rating: 4, Comment: comment("Nice T-shirt!")},
			{ProductID: p[2].ID, VendorID: v[1].ID, BuyerID: b[0].ID, Rating: 3, Comment: comment("Phone is good, but a bit expensive.")},
		}
		if err := tx.Create(reviews).Error; err != nil {
			return fmt.Errorf("reviews: %w", err)
		}
		return nil
	})
}
