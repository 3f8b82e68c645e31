package seed

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/safari_vendors/internal/hash"
	"github.com/Skotchmaster/safari_vendors/internal/models"
	"github.com/Skotchmaster/safari_vendors/internal/repo"
	"github.com/Skotchmaster/safari_vendors/internal/testutil"
)

func TestMain(m *testing.M) {
	hash.Cost = bcrypt.MinCost
	os.Exit(m.Run())
}

func TestRun(t *testing.T) {
	gdb := testutil.NewDB(t)
	ctx := context.Background()
	testutil.CreateBuyer(t, gdb, "stale")

	require.NoError(t, Run(ctx, gdb))
	// a second run starts from scratch again
	require.NoError(t, Run(ctx, gdb))

	r := repo.New(gdb)

	var count int64
	require.NoError(t, gdb.Model(&models.Buyer{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)

	john, err := r.FindBuyerByEmail(ctx, "john@example.com")
	require.NoError(t, err)
	assert.True(t, hash.CheckPassword(john.PasswordHash, "password123"))

	v1, err := r.FindVendorByEmail(ctx, "vendor1@example.com")
	require.NoError(t, err)

	products, err := r.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "Coffee Mug", products[0].Name)
	assert.Equal(t, "499.99", products[2].Price.StringFixed(2))

	cart, err := r.GetCart(ctx, john.ID)
	require.NoError(t, err)
	require.Len(t, cart.Products, 2)
	assert.Equal(t, "Coffee Mug", cart.Products[0].Name)
	assert.Equal(t, "Smartphone", cart.Products[1].Name)

	orders, err := r.ListOrdersByVendor(ctx, v1.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, models.OrderStatusCompleted, orders[0].Status)
	assert.Equal(t, "32.98", orders[0].TotalPrice.StringFixed(2))
	require.Len(t, orders[0].Items, 2)
	assert.Equal(t, products[0].ID, orders[0].Items[0].ProductID)

	reviews, err := r.ListReviews(ctx, products[0].ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, 5, reviews[0].Rating)
	assert.Equal(t, v1.ID, reviews[0].VendorID)
}
