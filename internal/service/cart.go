// Package service implements the sales-order business logic on top of the
// repositories, the upstream clients, and the event producer.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	apperrors "github.com/nguyenhoangkha03/salesdesk/pkg/errors"

	"github.com/nguyenhoangkha03/salesdesk/internal/client"
	"github.com/nguyenhoangkha03/salesdesk/internal/domain"
	"github.com/nguyenhoangkha03/salesdesk/internal/repository"
)

// Line count and amount ceilings to keep a single cart bounded.
const (
	MaxLinesPerCart    = 100
	MaxQuantityPerLine = 10_000
)

// ProductCatalog is the slice of the catalog client the cart service needs.
type ProductCatalog interface {
	GetProduct(ctx context.Context, productID int64) (*client.Product, error)
}

// CartEvents is the event surface the cart service publishes to.
type CartEvents interface {
	PublishCartUpdated(ctx context.Context, cart *domain.Cart) error
	PublishCartCleared(ctx context.Context, userID string) error
}

// AddLineInput holds the parameters for adding a product to the cart.
// UnitPrice and TaxRate override the catalog defaults when set.
type AddLineInput struct {
	ProductID int64    `json:"product_id" validate:"required,gt=0"`
	Quantity  int64    `json:"quantity" validate:"gte=0"`
	UnitPrice *int64   `json:"unit_price,omitempty" validate:"omitempty,gte=0"`
	TaxRate   *float64 `json:"tax_rate,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// UpdateLineInput carries the optional per-field line updates. Each set
// field is applied; unset fields are left alone.
type UpdateLineInput struct {
	Quantity        *int64   `json:"quantity,omitempty" validate:"omitempty,lte=10000"`
	UnitPrice       *int64   `json:"unit_price,omitempty" validate:"omitempty,gte=0"`
	DiscountPercent *float64 `json:"discount_percent,omitempty" validate:"omitempty,gte=0,lte=100"`
	TaxRate         *float64 `json:"tax_rate,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// CartService owns the cart lifecycle for operator sessions.
type CartService struct {
	repo            repository.CartRepository
	catalog         ProductCatalog
	events          CartEvents
	logger          *slog.Logger
	defaultShipping int64
}

// NewCartService creates the cart service.
func NewCartService(repo repository.CartRepository, catalog ProductCatalog, events CartEvents, logger *slog.Logger, defaultShipping int64) *CartService {
	return &CartService{
		repo:            repo,
		catalog:         catalog,
		events:          events,
		logger:          logger,
		defaultShipping: defaultShipping,
	}
}

func (s *CartService) newEmptyCart(userID string) *domain.Cart {
	cart := domain.NewCart(userID)
	cart.ShippingFee = s.defaultShipping
	return cart
}

// GetCart returns the operator's cart, or a fresh empty cart when none is
// stored. The empty cart is not persisted until the first mutation.
func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}

	cart, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.newEmptyCart(userID), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return cart, nil
}

// GetSummary derives the totals for the operator's cart.
func (s *CartService) GetSummary(ctx context.Context, userID string) (domain.Summary, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return domain.Summary{}, err
	}
	return cart.Summarize(), nil
}

// AddLine adds a product to the cart, seeding price and tax rate from the
// catalog unless the input overrides them. Adding an existing product
// increments its quantity.
func (s *CartService) AddLine(ctx context.Context, userID string, input AddLineInput) (*domain.Cart, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	if input.ProductID <= 0 {
		return nil, apperrors.InvalidInput("product id is required")
	}
	quantity := input.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	line := domain.CartLine{ProductID: input.ProductID}
	merging := false
	var existingQty int64
	for i := range cart.Lines {
		if cart.Lines[i].ProductID == input.ProductID {
			merging = true
			existingQty = cart.Lines[i].Quantity
			break
		}
	}
	// The cap holds for the resulting line, not just the increment.
	if existingQty+quantity > MaxQuantityPerLine {
		return nil, apperrors.InvalidInput(fmt.Sprintf("line quantity must not exceed %d", MaxQuantityPerLine))
	}

	if !merging {
		if len(cart.Lines) >= MaxLinesPerCart {
			return nil, apperrors.InvalidInput(fmt.Sprintf("cart must not contain more than %d lines", MaxLinesPerCart))
		}

		product, err := s.catalog.GetProduct(ctx, input.ProductID)
		if err != nil {
			return nil, err
		}
		line.ProductName = product.Name
		line.SKU = product.SKU
		line.UnitPrice = product.RetailPrice()
		line.TaxRate = product.DefaultTaxRate()
		if input.UnitPrice != nil {
			line.UnitPrice = *input.UnitPrice
		}
		if input.TaxRate != nil {
			line.TaxRate = *input.TaxRate
		}
	}

	cart.AddLine(line, quantity)

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	s.notifyUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "line added to cart",
		slog.String("user_id", userID),
		slog.Int64("product_id", input.ProductID),
		slog.Int64("quantity", quantity),
	)
	return cart, nil
}

// UpdateLine applies the set fields to the matching line. A quantity of zero
// or below removes the line. Updating an absent line is a silent no-op: the
// cart is returned unchanged and nothing is persisted.
func (s *CartService) UpdateLine(ctx context.Context, userID string, productID int64, input UpdateLineInput) (*domain.Cart, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}

	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	present := false
	for i := range cart.Lines {
		if cart.Lines[i].ProductID == productID {
			present = true
			break
		}
	}
	if !present {
		return cart, nil
	}

	if input.Quantity != nil {
		cart.UpdateQuantity(productID, *input.Quantity)
	}
	if input.UnitPrice != nil {
		cart.UpdatePrice(productID, *input.UnitPrice)
	}
	if input.DiscountPercent != nil {
		cart.UpdateDiscount(productID, *input.DiscountPercent)
	}
	if input.TaxRate != nil {
		cart.UpdateTax(productID, *input.TaxRate)
	}

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	s.notifyUpdated(ctx, cart)

	return cart, nil
}

// RemoveLine deletes the line for productID. Removing an absent line leaves
// the cart untouched and is not an error.
func (s *CartService) RemoveLine(ctx context.Context, userID string, productID int64) (*domain.Cart, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}

	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	before := len(cart.Lines)
	cart.RemoveLine(productID)
	if len(cart.Lines) == before {
		return cart, nil
	}

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	s.notifyUpdated(ctx, cart)

	return cart, nil
}

// SetShippingFee replaces the flat shipping fee on the cart.
func (s *CartService) SetShippingFee(ctx context.Context, userID string, fee int64) (*domain.Cart, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	if fee < 0 {
		return nil, apperrors.InvalidInput("shipping fee must not be negative")
	}

	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.SetShippingFee(fee)
	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	s.notifyUpdated(ctx, cart)

	return cart, nil
}

// ClearCart drops the stored cart. The next GetCart returns an empty cart
// with the default shipping fee.
func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	if userID == "" {
		return apperrors.InvalidInput("user id is required")
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}

	if err := s.events.PublishCartCleared(ctx, userID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

// notifyUpdated publishes cart.updated; publish failures are logged, never
// surfaced, so a broker outage cannot block cart edits.
func (s *CartService) notifyUpdated(ctx context.Context, cart *domain.Cart) {
	if err := s.events.PublishCartUpdated(ctx, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("user_id", cart.UserID),
			slog.String("error", err.Error()),
		)
	}
}
