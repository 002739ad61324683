// Package repository defines the persistence interfaces for carts and
// submission history.
package repository

import (
	"context"

	"github.com/nguyenhoangkha03/salesdesk/internal/domain"
)

// CartRepository defines cart persistence. One cart per operator.
type CartRepository interface {
	// Get retrieves the operator's cart. Returns a not-found error when no
	// cart exists.
	Get(ctx context.Context, userID string) (*domain.Cart, error)

	// Save persists the cart, overwriting any existing cart for the operator
	// and refreshing its TTL.
	Save(ctx context.Context, cart *domain.Cart) error

	// Delete removes the operator's cart. Deleting an absent cart is not an
	// error.
	Delete(ctx context.Context, userID string) error
}

// SubmissionRepository defines the insert-only submission history store.
type SubmissionRepository interface {
	// Create records an accepted order submission with its detail lines.
	Create(ctx context.Context, sub *domain.Submission) error

	// ListByUser returns the operator's submissions, newest first, plus the
	// total count for pagination.
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Submission, int64, error)

	// GetByID returns one submission with its detail lines. Operators only
	// see their own rows.
	GetByID(ctx context.Context, userID, id string) (*domain.Submission, error)
}
