package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// Cart.AddLine Tests
// ============================================================================

func TestAddLine_NewProduct(t *testing.T) {
	c := NewCart("op-1")
	c.AddLine(CartLine{ProductID: 7, UnitPrice: 1500, TaxRate: 8}, 2)

	assert.Len(t, c.Lines, 1)
	assert.Equal(t, int64(7), c.Lines[0].ProductID)
	assert.Equal(t, int64(2), c.Lines[0].Quantity)
	assert.Equal(t, int64(1500), c.Lines[0].UnitPrice)
	assert.Equal(t, 8.0, c.Lines[0].TaxRate)
}

func TestAddLine_MergesByProductID(t *testing.T) {
	c := NewCart("op-1")
	c.AddLine(CartLine{ProductID: 7, UnitPrice: 1500}, 2)
	c.AddLine(CartLine{ProductID: 7, UnitPrice: 9999}, 3)

	assert.Len(t, c.Lines, 1)
	assert.Equal(t, int64(5), c.Lines[0].Quantity)
	// Merging keeps the original price; the second add only contributes quantity.
	assert.Equal(t, int64(1500), c.Lines[0].UnitPrice)
}

func TestAddLine_DefaultsQuantityToOne(t *testing.T) {
	c := NewCart("op-1")
	c.AddLine(CartLine{ProductID: 7}, 0)
	c.AddLine(CartLine{ProductID: 8}, -4)

	assert.Equal(t, int64(1), c.Lines[0].Quantity)
	assert.Equal(t, int64(1), c.Lines[1].Quantity)
}

func TestAddLine_PreservesInsertionOrder(t *testing.T) {
	c := NewCart("op-1")
	c.AddLine(CartLine{ProductID: 3}, 1)
	c.AddLine(CartLine{ProductID: 1}, 1)
	c.AddLine(CartLine{ProductID: 2}, 1)
	c.AddLine(CartLine{ProductID: 1}, 1)

	ids := []int64{c.Lines[0].ProductID, c.Lines[1].ProductID, c.Lines[2].ProductID}
	assert.Equal(t, []int64{3, 1, 2}, ids)
}

// ============================================================================
// Cart.RemoveLine / UpdateQuantity Tests
// ============================================================================

func TestRemoveLine_Idempotent(t *testing.T) {
	c := NewCart("op-1")
	c.AddLine(CartLine{ProductID: 7}, 1)
	c.AddLine(CartLine{ProductID: 8}, 1)

	c.RemoveLine(7)
	after := *c
	c.RemoveLine(7)

	assert.Equal(t, after.Lines, c.Lines)
	assert.Len(t, c.Lines, 1)
	assert.Equal(t, int64(8), c.Lines[0].ProductID)
}

func TestRemoveLine_AbsentIsNoOp(t *testing.T) {
	c := NewCart("op-1")
	c.RemoveLine(42)
	assert.True(t, c.IsEmpty())
}

func TestUpdateQuantity_Sets(t *testing.T) {
	c := NewCart("op-1")
	c.AddLine(CartLine{ProductID: 7}, 2)
	c.UpdateQuantity(7, 9)
	assert.Equal(t, int64(9), c.Lines[0].Quantity)
}

func TestUpdateQuantity_ZeroRemovesLine(t *testing.T) {
	c := NewCart("op-1")
	c.AddLine(CartLine{ProductID: 7}, 2)
	c.UpdateQuantity(7, 0)
	assert.True(t, c.IsEmpty())
}

func TestUpdateQuantity_NegativeRemovesLine(t *testing.T) {
	c := NewCart("op-1")
	c.AddLine(CartLine{ProductID: 7}, 2)
	c.UpdateQuantity(7, -5)
	assert.True(t, c.IsEmpty())
}

func TestUpdateQuantity_AbsentIsNoOp(t *testing.T) {
	c := NewCart("op-1")
	c.AddLine(CartLine{ProductID: 7}, 2)
	c.UpdateQuantity(99, 5)
	assert.Len(t, c.Lines, 1)
	assert.Equal(t, int64(2), c.Lines[0].Quantity)
}

// ============================================================================
// Field update Tests
// ============================================================================

func TestUpdatePrice(t *testing.T) {
	c := NewCart("op-1")
	c.AddLine(CartLine{ProductID: 7, UnitPrice: 1000}, 1)

	c.UpdatePrice(7, 1250)
	assert.Equal(t, int64(1250), c.Lines[0].UnitPrice)

	c.UpdatePrice(99, 5000) // absent, no-op
	assert.Len(t, c.Lines, 1)
}

func TestUpdateDiscount(t *testing.T) {
	c := NewCart("op-1")
	c.AddLine(CartLine{ProductID: 7}, 1)

	c.UpdateDiscount(7, 12.5)
	assert.Equal(t, 12.5, c.Lines[0].DiscountPercent)

	c.UpdateDiscount(99, 50)
	assert.Len(t, c.Lines, 1)
}

func TestUpdateTax(t *testing.T) {
	c := NewCart("op-1")
	c.AddLine(CartLine{ProductID: 7}, 1)

	c.UpdateTax(7, 10)
	assert.Equal(t, 10.0, c.Lines[0].TaxRate)
}

// ============================================================================
// Cart.Summarize Tests
// ============================================================================

func TestSummarize_DiscountBeforeTax(t *testing.T) {
	c := NewCart("op-1")
	c.AddLine(CartLine{ProductID: 7, UnitPrice: 100, DiscountPercent: 10, TaxRate: 10}, 10)

	s := c.Summarize()
	assert.Equal(t, int64(1000), s.Subtotal)
	assert.Equal(t, int64(100), s.Discount)
	// Tax applies after discount: (1000-100) * 10% = 90, not 100.
	assert.Equal(t, int64(90), s.Tax)
	assert.Equal(t, int64(990), s.Total)
}

func TestSummarize_MultipleLinesWithShipping(t *testing.T) {
	c := NewCart("op-1")
	c.AddLine(CartLine{ProductID: 1, UnitPrice: 2000, DiscountPercent: 5, TaxRate: 8}, 3)
	c.AddLine(CartLine{ProductID: 2, UnitPrice: 750, TaxRate: 10}, 4)
	c.SetShippingFee(500)

	s := c.Summarize()
	// Line 1: subtotal 6000, discount 300, tax round(5700*0.08)=456.
	// Line 2: subtotal 3000, discount 0, tax 300.
	assert.Equal(t, int64(9000), s.Subtotal)
	assert.Equal(t, int64(300), s.Discount)
	assert.Equal(t, int64(756), s.Tax)
	assert.Equal(t, int64(500), s.Shipping)
	assert.Equal(t, int64(9956), s.Total)
}

func TestSummarize_RoundsPerLine(t *testing.T) {
	c := NewCart("op-1")
	// Subtotal 333, 10% discount = 33.3 rounds to 33; tax 10% of 300 = 30.
	c.AddLine(CartLine{ProductID: 1, UnitPrice: 333, DiscountPercent: 10, TaxRate: 10}, 1)

	s := c.Summarize()
	assert.Equal(t, int64(33), s.Discount)
	assert.Equal(t, int64(30), s.Tax)
	assert.Equal(t, int64(330), s.Total)
}

func TestSummarize_Deterministic(t *testing.T) {
	c := NewCart("op-1")
	c.AddLine(CartLine{ProductID: 1, UnitPrice: 3333, DiscountPercent: 7.5, TaxRate: 8.25}, 13)
	c.AddLine(CartLine{ProductID: 2, UnitPrice: 199, DiscountPercent: 33.33, TaxRate: 5}, 7)
	c.SetShippingFee(250)

	first := c.Summarize()
	second := c.Summarize()
	assert.Equal(t, first, second)
}

func TestSummarize_EmptyCart(t *testing.T) {
	c := NewCart("op-1")
	s := c.Summarize()
	assert.Equal(t, Summary{}, s)
}

func TestClear_ResetsLinesAndShipping(t *testing.T) {
	c := NewCart("op-1")
	c.AddLine(CartLine{ProductID: 7, UnitPrice: 100}, 2)
	c.SetShippingFee(900)

	c.Clear()

	s := c.Summarize()
	assert.True(t, c.IsEmpty())
	assert.Equal(t, int64(0), s.Shipping)
	assert.Equal(t, int64(0), s.Total)
}

func TestItemCount(t *testing.T) {
	c := NewCart("op-1")
	assert.Equal(t, int64(0), c.ItemCount())

	c.AddLine(CartLine{ProductID: 1}, 2)
	c.AddLine(CartLine{ProductID: 2}, 3)
	assert.Equal(t, int64(5), c.ItemCount())
}

// ============================================================================
// roundPercent Tests
// ============================================================================

func TestRoundPercent(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		pct    float64
		want   int64
	}{
		{"exact", 1000, 10, 100},
		{"half rounds up", 50, 1, 1},      // 0.5 -> 1
		{"below half down", 33, 1, 0},     // 0.33 -> 0
		{"fraction up", 333, 10, 33},      // 33.3 -> 33
		{"fraction round", 335, 10, 34},   // 33.5 -> 34
		{"zero percent", 99999, 0, 0},
		{"full percent", 1234, 100, 1234},
		{"negative amount", -1000, 10, -100},
		{"negative half away", -50, 1, -1}, // -0.5 -> -1
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, roundPercent(tt.amount, tt.pct))
		})
	}
}
