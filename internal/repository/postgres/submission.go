// Package postgres implements the submission history store. Rows are
// insert-only: the external order service owns the order lifecycle, this
// table only records what was submitted and with which totals.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/nguyenhoangkha03/salesdesk/pkg/database"
	apperrors "github.com/nguyenhoangkha03/salesdesk/pkg/errors"

	"github.com/nguyenhoangkha03/salesdesk/internal/domain"
)

// SubmissionRepository implements repository.SubmissionRepository using
// PostgreSQL.
type SubmissionRepository struct {
	pool database.DBTX
}

// NewSubmissionRepository creates a PostgreSQL-backed submission repository.
func NewSubmissionRepository(pool database.DBTX) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

// Create inserts the submission and its detail lines atomically.
func (r *SubmissionRepository) Create(ctx context.Context, sub *domain.Submission) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	headerQuery := `
		INSERT INTO order_submissions (id, user_id, customer_id, external_order_id, sales_channel, payment_method, paid_amount, subtotal, discount, tax, shipping, total, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err = tx.Exec(ctx, headerQuery,
		sub.ID,
		sub.UserID,
		sub.CustomerID,
		sub.ExternalOrderID,
		sub.SalesChannel,
		sub.PaymentMethod,
		sub.PaidAmount,
		sub.Subtotal,
		sub.Discount,
		sub.Tax,
		sub.Shipping,
		sub.Total,
		sub.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}

	detailQuery := `
		INSERT INTO order_submission_details (submission_id, product_id, quantity, unit_price, discount_percent, tax_rate)
		VALUES ($1, $2, $3, $4, $5, $6)`

	for _, d := range sub.Details {
		_, err = tx.Exec(ctx, detailQuery,
			sub.ID,
			d.ProductID,
			d.Quantity,
			d.UnitPrice,
			d.DiscountPercent,
			d.TaxRate,
		)
		if err != nil {
			return fmt.Errorf("insert submission detail: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// ListByUser returns the operator's submissions newest first, without detail
// lines, plus the total row count for pagination.
func (r *SubmissionRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Submission, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT id, user_id, customer_id, external_order_id, sales_channel, payment_method, paid_amount, subtotal, discount, tax, shipping, total, submitted_at,
		       count(*) OVER() AS total_count
		FROM order_submissions
		WHERE user_id = $1
		ORDER BY submitted_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var total int64
	subs := make([]domain.Submission, 0)
	for rows.Next() {
		var s domain.Submission
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.CustomerID, &s.ExternalOrderID,
			&s.SalesChannel, &s.PaymentMethod, &s.PaidAmount,
			&s.Subtotal, &s.Discount, &s.Tax, &s.Shipping, &s.Total,
			&s.SubmittedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan submission: %w", err)
		}
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate submissions: %w", err)
	}

	return subs, total, nil
}

// GetByID returns one submission with its detail lines aggregated in a
// single query.
func (r *SubmissionRepository) GetByID(ctx context.Context, userID, id string) (*domain.Submission, error) {
	query := `
		SELECT
			s.id, s.user_id, s.customer_id, s.external_order_id, s.sales_channel,
			s.payment_method, s.paid_amount, s.subtotal, s.discount, s.tax,
			s.shipping, s.total, s.submitted_at,
			COALESCE(
				JSONB_AGG(
					JSONB_BUILD_OBJECT(
						'productId', d.product_id,
						'quantity', d.quantity,
						'unitPrice', d.unit_price,
						'discountPercent', d.discount_percent,
						'taxRate', d.tax_rate
					) ORDER BY d.id
				) FILTER (WHERE d.id IS NOT NULL),
				'[]'::jsonb
			) AS details
		FROM order_submissions s
		LEFT JOIN order_submission_details d ON s.id = d.submission_id
		WHERE s.id = $1 AND s.user_id = $2
		GROUP BY s.id, s.user_id, s.customer_id, s.external_order_id, s.sales_channel,
			s.payment_method, s.paid_amount, s.subtotal, s.discount, s.tax,
			s.shipping, s.total, s.submitted_at`

	var (
		s           domain.Submission
		detailsJSON []byte
	)
	err := r.pool.QueryRow(ctx, query, id, userID).Scan(
		&s.ID, &s.UserID, &s.CustomerID, &s.ExternalOrderID,
		&s.SalesChannel, &s.PaymentMethod, &s.PaidAmount,
		&s.Subtotal, &s.Discount, &s.Tax, &s.Shipping, &s.Total,
		&s.SubmittedAt, &detailsJSON,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("submission", id)
		}
		return nil, fmt.Errorf("scan submission: %w", err)
	}

	if len(detailsJSON) > 0 && string(detailsJSON) != "null" {
		if err := json.Unmarshal(detailsJSON, &s.Details); err != nil {
			return nil, fmt.Errorf("unmarshal submission details: %w", err)
		}
	}
	if s.Details == nil {
		s.Details = []domain.OrderDetail{}
	}

	return &s, nil
}
