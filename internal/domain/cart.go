// Package domain holds the sales-order model: the cart aggregator with its
// summary math, the customer credit decision, and the submission payload.
// All money amounts are int64 minor units (cents, dong). Percent fields are
// float64 in the range 0-100.
package domain

import "time"

// CartLine is one product entry in an order in progress.
type CartLine struct {
	ProductID       int64   `json:"product_id"`
	ProductName     string  `json:"product_name,omitempty"`
	SKU             string  `json:"sku,omitempty"`
	Quantity        int64   `json:"quantity"`
	UnitPrice       int64   `json:"unit_price"`
	DiscountPercent float64 `json:"discount_percent"`
	TaxRate         float64 `json:"tax_rate"`
}

// Cart is the order-in-progress for one operator session. Lines keep
// insertion order and are unique by product ID.
type Cart struct {
	UserID      string     `json:"user_id"`
	Lines       []CartLine `json:"lines"`
	ShippingFee int64      `json:"shipping_fee"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Summary is the derived order totals. It is never stored, always recomputed
// from the lines and shipping fee.
type Summary struct {
	Subtotal int64 `json:"subtotal"`
	Discount int64 `json:"discount"`
	Tax      int64 `json:"tax"`
	Shipping int64 `json:"shipping"`
	Total    int64 `json:"total"`
}

// NewCart returns an empty cart for the given operator.
func NewCart(userID string) *Cart {
	return &Cart{UserID: userID}
}

// lineIndex returns the index of the line for productID, or -1.
func (c *Cart) lineIndex(productID int64) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// AddLine merges quantity into an existing line for the same product, or
// appends a new line. It never fails.
func (c *Cart) AddLine(line CartLine, quantity int64) {
	if quantity <= 0 {
		quantity = 1
	}
	if i := c.lineIndex(line.ProductID); i >= 0 {
		c.Lines[i].Quantity += quantity
		return
	}
	line.Quantity = quantity
	c.Lines = append(c.Lines, line)
}

// RemoveLine deletes the line for productID. Absent lines are a no-op.
func (c *Cart) RemoveLine(productID int64) {
	if i := c.lineIndex(productID); i >= 0 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	}
}

// UpdateQuantity sets the line's quantity. A quantity of zero or below
// removes the line instead.
func (c *Cart) UpdateQuantity(productID, quantity int64) {
	if quantity <= 0 {
		c.RemoveLine(productID)
		return
	}
	if i := c.lineIndex(productID); i >= 0 {
		c.Lines[i].Quantity = quantity
	}
}

// UpdatePrice replaces the line's unit price. No-op if the line is absent.
func (c *Cart) UpdatePrice(productID, unitPrice int64) {
	if i := c.lineIndex(productID); i >= 0 {
		c.Lines[i].UnitPrice = unitPrice
	}
}

// UpdateDiscount replaces the line's discount percent. No-op if the line is
// absent. Range checks belong to the caller.
func (c *Cart) UpdateDiscount(productID int64, discountPercent float64) {
	if i := c.lineIndex(productID); i >= 0 {
		c.Lines[i].DiscountPercent = discountPercent
	}
}

// UpdateTax replaces the line's tax rate. No-op if the line is absent.
func (c *Cart) UpdateTax(productID int64, taxRate float64) {
	if i := c.lineIndex(productID); i >= 0 {
		c.Lines[i].TaxRate = taxRate
	}
}

// SetShippingFee replaces the flat shipping fee.
func (c *Cart) SetShippingFee(fee int64) {
	c.ShippingFee = fee
}

// Clear empties the lines and resets the shipping fee.
func (c *Cart) Clear() {
	c.Lines = nil
	c.ShippingFee = 0
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// ItemCount returns the summed quantity across lines.
func (c *Cart) ItemCount() int64 {
	var n int64
	for i := range c.Lines {
		n += c.Lines[i].Quantity
	}
	return n
}

// roundPercent applies pct (0-100) to an amount of minor units and rounds
// half away from zero. Amounts and percents stay well inside float64's exact
// integer range, so the same inputs always produce the same output.
func roundPercent(amount int64, pct float64) int64 {
	v := float64(amount) * pct / 100
	if v >= 0 {
		return int64(v + 0.5)
	}
	return int64(v - 0.5)
}

// Subtotal returns the line's raw amount before discount and tax.
func (l CartLine) Subtotal() int64 {
	return l.Quantity * l.UnitPrice
}

// DiscountAmount returns the discount applied to the raw subtotal, rounded
// to minor units.
func (l CartLine) DiscountAmount() int64 {
	return roundPercent(l.Subtotal(), l.DiscountPercent)
}

// TaxAmount returns the tax on the post-discount amount, rounded to minor
// units. Discount applies before tax; the order is a business rule and must
// not be swapped.
func (l CartLine) TaxAmount() int64 {
	return roundPercent(l.Subtotal()-l.DiscountAmount(), l.TaxRate)
}

// Summarize derives the order totals. Each line is rounded to minor units
// before summing, so the figures match what an invoice would print per line.
func (c *Cart) Summarize() Summary {
	s := Summary{Shipping: c.ShippingFee}
	for i := range c.Lines {
		l := c.Lines[i]
		s.Subtotal += l.Subtotal()
		s.Discount += l.DiscountAmount()
		s.Tax += l.TaxAmount()
	}
	s.Total = s.Subtotal - s.Discount + s.Tax + s.Shipping
	return s
}
