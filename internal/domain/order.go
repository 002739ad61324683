package domain

import "time"

// SalesChannel identifies where the order originated.
type SalesChannel string

const (
	ChannelDirect    SalesChannel = "direct"
	ChannelOnline    SalesChannel = "online"
	ChannelWholesale SalesChannel = "wholesale"
)

// Valid reports whether ch is a known sales channel.
func (ch SalesChannel) Valid() bool {
	switch ch {
	case ChannelDirect, ChannelOnline, ChannelWholesale:
		return true
	}
	return false
}

// OrderDetail is one line of the creation request sent to the order service.
type OrderDetail struct {
	ProductID       int64   `json:"productId"`
	Quantity        int64   `json:"quantity"`
	UnitPrice       int64   `json:"unitPrice"`
	DiscountPercent float64 `json:"discountPercent"`
	TaxRate         float64 `json:"taxRate"`
}

// OrderRequest is the creation payload for the external order service. Field
// names follow that service's contract.
type OrderRequest struct {
	CustomerID      int64         `json:"customerId"`
	SalesChannel    SalesChannel  `json:"salesChannel"`
	DeliveryAddress string        `json:"deliveryAddress,omitempty"`
	ShippingFee     int64         `json:"shippingFee"`
	PaymentMethod   PaymentMethod `json:"paymentMethod"`
	PaidAmount      int64         `json:"paidAmount"`
	Notes           string        `json:"notes,omitempty"`
	Details         []OrderDetail `json:"details"`
}

// BuildOrderRequest converts the cart into a creation payload. The cart
// itself stays untouched; the caller clears it after the order service
// accepts the request.
func BuildOrderRequest(cart *Cart, customerID int64, channel SalesChannel, deliveryAddress string, method PaymentMethod, paidAmount int64, notes string) OrderRequest {
	details := make([]OrderDetail, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		details = append(details, OrderDetail{
			ProductID:       l.ProductID,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			DiscountPercent: l.DiscountPercent,
			TaxRate:         l.TaxRate,
		})
	}
	return OrderRequest{
		CustomerID:      customerID,
		SalesChannel:    channel,
		DeliveryAddress: deliveryAddress,
		ShippingFee:     cart.ShippingFee,
		PaymentMethod:   method,
		PaidAmount:      paidAmount,
		Notes:           notes,
		Details:         details,
	}
}

// Submission is the locally persisted record of an accepted order request.
// The order service owns the order; this row is the operator-facing history.
type Submission struct {
	ID              string        `json:"id"`
	UserID          string        `json:"user_id"`
	CustomerID      int64         `json:"customer_id"`
	ExternalOrderID string        `json:"external_order_id,omitempty"`
	SalesChannel    SalesChannel  `json:"sales_channel"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
	PaidAmount      int64         `json:"paid_amount"`
	Subtotal        int64         `json:"subtotal"`
	Discount        int64         `json:"discount"`
	Tax             int64         `json:"tax"`
	Shipping        int64         `json:"shipping"`
	Total           int64         `json:"total"`
	SubmittedAt     time.Time     `json:"submitted_at"`
	Details         []OrderDetail `json:"details,omitempty"`
}
