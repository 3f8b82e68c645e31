package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/safari_vendors/internal/models"
	"github.com/Skotchmaster/safari_vendors/internal/testutil"
	"github.com/Skotchmaster/safari_vendors/internal/transport"
)

func TestOrderService_Flow(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	john := testutil.CreateBuyer(t, f.db, "john_doe")
	jane := testutil.CreateBuyer(t, f.db, "jane_doe")
	v := testutil.CreateVendor(t, f.db, "vendor_one")

	_, err := f.order.CreateOrder(ctx, john.ID, transport.CreateOrderRequest{VendorID: 999, TotalPrice: dec("1")})
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "vendor does not exist", Detail(err))

	_, err = f.order.CreateOrder(ctx, john.ID, transport.CreateOrderRequest{VendorID: v.ID, TotalPrice: dec("-1")})
	require.ErrorIs(t, err, ErrValidation)

	_, err = f.order.CreateOrder(ctx, john.ID, transport.CreateOrderRequest{VendorID: v.ID})
	require.ErrorIs(t, err, ErrValidation)

	o, err := f.order.CreateOrder(ctx, john.ID, transport.CreateOrderRequest{VendorID: v.ID, TotalPrice: dec("32.98")})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, o.Status)

	list, err := f.order.ListOrders(ctx, john.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	vendorList, err := f.order.ListVendorOrders(ctx, v.ID)
	require.NoError(t, err)
	assert.Len(t, vendorList, 1)

	err = f.order.DeleteOrder(ctx, jane.ID, o.ID)
	require.ErrorIs(t, err, ErrNotFound, "other buyers' orders look missing")

	require.NoError(t, f.order.DeleteOrder(ctx, john.ID, o.ID))
	assert.Equal(t, []string{"order_created", "order_deleted"}, f.pub.types())
}

func TestOrderService_Checkout(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	john := testutil.CreateBuyer(t, f.db, "john_doe")
	v1 := testutil.CreateVendor(t, f.db, "vendor_one")
	v2 := testutil.CreateVendor(t, f.db, "vendor_two")
	mug := testutil.CreateProduct(t, f.db, "Coffee Mug", "12.99", v1.ID)
	phone := testutil.CreateProduct(t, f.db, "Smartphone", "499.99", v2.ID)
	orphan := testutil.CreateProduct(t, f.db, "Orphan", "1.00")

	cases := []struct {
		name string
		ids  []uint
		want string
	}{
		{name: "missing list", ids: nil, want: "A list of Product IDs is required."},
		{name: "empty list", ids: []uint{}, want: "A list of Product IDs is required."},
		{name: "zero id", ids: []uint{mug.ID, 0}, want: "Some products are invalid."},
		{name: "unknown id", ids: []uint{mug.ID, 9999}, want: "Some products are invalid."},
		{name: "no vendor", ids: []uint{orphan.ID}, want: fmt.Sprintf("no vendor sells product ids: %d", orphan.ID)},
	}
	for _, tc := range cases {
		_, err := f.order.Checkout(ctx, john.ID, transport.CheckoutRequest{ProductIDs: tc.ids})
		require.ErrorIs(t, err, ErrValidation, tc.name)
		assert.Equal(t, tc.want, Detail(err), tc.name)
	}
	assert.Empty(t, f.pub.types())

	orders, err := f.order.Checkout(ctx, john.ID, transport.CheckoutRequest{ProductIDs: []uint{mug.ID, phone.ID, mug.ID}})
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, v1.ID, orders[0].VendorID)
	assert.Equal(t, "25.98", orders[0].TotalPrice.StringFixed(2))
	assert.Equal(t, v2.ID, orders[1].VendorID)
	assert.Equal(t, []string{"order_created", "order_created"}, f.pub.types())

	list, err := f.order.ListOrders(ctx, john.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
