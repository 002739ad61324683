package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOrderRequest(t *testing.T) {
	c := NewCart("op-1")
	c.AddLine(CartLine{ProductID: 1, UnitPrice: 2000, DiscountPercent: 5, TaxRate: 8}, 3)
	c.AddLine(CartLine{ProductID: 2, UnitPrice: 750, TaxRate: 10}, 4)
	c.SetShippingFee(500)

	req := BuildOrderRequest(c, 42, ChannelDirect, "12 Ly Thuong Kiet", PaymentCredit, 100000, "urgent")

	assert.Equal(t, int64(42), req.CustomerID)
	assert.Equal(t, ChannelDirect, req.SalesChannel)
	assert.Equal(t, "12 Ly Thuong Kiet", req.DeliveryAddress)
	assert.Equal(t, int64(500), req.ShippingFee)
	assert.Equal(t, PaymentCredit, req.PaymentMethod)
	assert.Equal(t, int64(100000), req.PaidAmount)
	require.Len(t, req.Details, 2)
	assert.Equal(t, OrderDetail{ProductID: 1, Quantity: 3, UnitPrice: 2000, DiscountPercent: 5, TaxRate: 8}, req.Details[0])
	assert.Equal(t, OrderDetail{ProductID: 2, Quantity: 4, UnitPrice: 750, TaxRate: 10}, req.Details[1])

	// Building the payload leaves the cart intact.
	assert.Len(t, c.Lines, 2)
}

func TestBuildOrderRequest_EmptyCart(t *testing.T) {
	req := BuildOrderRequest(NewCart("op-1"), 42, ChannelOnline, "", PaymentCash, 0, "")
	assert.NotNil(t, req.Details)
	assert.Empty(t, req.Details)
}

func TestOrderRequest_WireFieldNames(t *testing.T) {
	req := OrderRequest{
		CustomerID:    7,
		SalesChannel:  ChannelDirect,
		PaymentMethod: PaymentCash,
		Details:       []OrderDetail{{ProductID: 1, Quantity: 2, UnitPrice: 100}},
	}

	raw, err := json.Marshal(req)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Contains(t, m, "customerId")
	assert.Contains(t, m, "salesChannel")
	assert.Contains(t, m, "paymentMethod")
	assert.Contains(t, m, "paidAmount")
	assert.Contains(t, m, "shippingFee")
	assert.NotContains(t, m, "deliveryAddress") // omitted when empty
	assert.NotContains(t, m, "notes")

	detail := m["details"].([]any)[0].(map[string]any)
	assert.Contains(t, detail, "productId")
	assert.Contains(t, detail, "unitPrice")
	assert.Contains(t, detail, "discountPercent")
	assert.Contains(t, detail, "taxRate")
}

func TestSalesChannel_Valid(t *testing.T) {
	assert.True(t, ChannelDirect.Valid())
	assert.True(t, ChannelOnline.Valid())
	assert.True(t, ChannelWholesale.Valid())
	assert.False(t, SalesChannel("phone").Valid())
}
