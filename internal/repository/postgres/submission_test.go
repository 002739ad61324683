package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyenhoangkha03/salesdesk/pkg/database"
	apperrors "github.com/nguyenhoangkha03/salesdesk/pkg/errors"

	"github.com/nguyenhoangkha03/salesdesk/internal/domain"
)

func newTestRepo(t *testing.T) (*SubmissionRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	return NewSubmissionRepository(mock), mock
}

func sampleSubmission() *domain.Submission {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Submission{
		ID:              "sub-001",
		UserID:          "op-1",
		CustomerID:      42,
		ExternalOrderID: "ord-9001",
		SalesChannel:    domain.ChannelDirect,
		PaymentMethod:   domain.PaymentCredit,
		PaidAmount:      100000,
		Subtotal:        9000,
		Discount:        300,
		Tax:             756,
		Shipping:        500,
		Total:           9956,
		SubmittedAt:     now,
		Details: []domain.OrderDetail{
			{ProductID: 1, Quantity: 3, UnitPrice: 2000, DiscountPercent: 5, TaxRate: 8},
			{ProductID: 2, Quantity: 4, UnitPrice: 750, TaxRate: 10},
		},
	}
}

// --- Create ---

func TestSubmissionRepository_Create_Success(t *testing.T) {
	repo, mock := newTestRepo(t)

	sub := sampleSubmission()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO order_submissions").
		WithArgs(
			sub.ID, sub.UserID, sub.CustomerID, sub.ExternalOrderID,
			sub.SalesChannel, sub.PaymentMethod, sub.PaidAmount,
			sub.Subtotal, sub.Discount, sub.Tax, sub.Shipping, sub.Total,
			sub.SubmittedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	for _, d := range sub.Details {
		mock.ExpectExec("INSERT INTO order_submission_details").
			WithArgs(sub.ID, d.ProductID, d.Quantity, d.UnitPrice, d.DiscountPercent, d.TaxRate).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}
	mock.ExpectCommit()

	err := repo.Create(context.Background(), sub)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionRepository_Create_BeginError(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	err := repo.Create(context.Background(), sampleSubmission())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "begin transaction")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionRepository_Create_DetailInsertError(t *testing.T) {
	repo, mock := newTestRepo(t)

	sub := sampleSubmission()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO order_submissions").
		WithArgs(
			sub.ID, sub.UserID, sub.CustomerID, sub.ExternalOrderID,
			sub.SalesChannel, sub.PaymentMethod, sub.PaidAmount,
			sub.Subtotal, sub.Discount, sub.Tax, sub.Shipping, sub.Total,
			sub.SubmittedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO order_submission_details").
		WithArgs(sub.ID, sub.Details[0].ProductID, sub.Details[0].Quantity,
			sub.Details[0].UnitPrice, sub.Details[0].DiscountPercent, sub.Details[0].TaxRate).
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), sub)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insert submission detail")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// --- ListByUser ---

func TestSubmissionRepository_ListByUser(t *testing.T) {
	repo, mock := newTestRepo(t)

	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{
		"id", "user_id", "customer_id", "external_order_id", "sales_channel",
		"payment_method", "paid_amount", "subtotal", "discount", "tax",
		"shipping", "total", "submitted_at", "total_count",
	}).
		AddRow("sub-002", "op-1", int64(42), "ord-2", domain.ChannelOnline, domain.PaymentCash,
			int64(0), int64(500), int64(0), int64(50), int64(0), int64(550), now, int64(2)).
		AddRow("sub-001", "op-1", int64(42), "ord-1", domain.ChannelDirect, domain.PaymentCredit,
			int64(100), int64(900), int64(30), int64(70), int64(50), int64(990), now.Add(-time.Hour), int64(2))

	mock.ExpectQuery("FROM order_submissions").
		WithArgs("op-1", 20, 0).
		WillReturnRows(rows)

	subs, total, err := repo.ListByUser(context.Background(), "op-1", 0, -1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, subs, 2)
	assert.Equal(t, "sub-002", subs[0].ID)
	assert.Equal(t, domain.PaymentCredit, subs[1].PaymentMethod)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionRepository_ListByUser_Empty(t *testing.T) {
	repo, mock := newTestRepo(t)

	rows := pgxmock.NewRows([]string{
		"id", "user_id", "customer_id", "external_order_id", "sales_channel",
		"payment_method", "paid_amount", "subtotal", "discount", "tax",
		"shipping", "total", "submitted_at", "total_count",
	})

	mock.ExpectQuery("FROM order_submissions").
		WithArgs("nobody", 10, 0).
		WillReturnRows(rows)

	subs, total, err := repo.ListByUser(context.Background(), "nobody", 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, subs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionRepository_ListByUser_QueryError(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery("FROM order_submissions").
		WithArgs("op-1", 20, 0).
		WillReturnError(errors.New("connection reset"))

	_, _, err := repo.ListByUser(context.Background(), "op-1", 20, 0)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// --- GetByID ---

func TestSubmissionRepository_GetByID(t *testing.T) {
	repo, mock := newTestRepo(t)

	now := time.Now().UTC()
	detailsJSON := []byte(`[{"productId":1,"quantity":3,"unitPrice":2000,"discountPercent":5,"taxRate":8}]`)
	rows := pgxmock.NewRows([]string{
		"id", "user_id", "customer_id", "external_order_id", "sales_channel",
		"payment_method", "paid_amount", "subtotal", "discount", "tax",
		"shipping", "total", "submitted_at", "details",
	}).AddRow("sub-001", "op-1", int64(42), "ord-1", domain.ChannelDirect, domain.PaymentCredit,
		int64(100), int64(900), int64(30), int64(70), int64(50), int64(990), now, detailsJSON)

	mock.ExpectQuery("FROM order_submissions s").
		WithArgs("sub-001", "op-1").
		WillReturnRows(rows)

	sub, err := repo.GetByID(context.Background(), "op-1", "sub-001")
	require.NoError(t, err)
	assert.Equal(t, "sub-001", sub.ID)
	require.Len(t, sub.Details, 1)
	assert.Equal(t, domain.OrderDetail{ProductID: 1, Quantity: 3, UnitPrice: 2000, DiscountPercent: 5, TaxRate: 8}, sub.Details[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionRepository_GetByID_NoDetails(t *testing.T) {
	repo, mock := newTestRepo(t)

	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{
		"id", "user_id", "customer_id", "external_order_id", "sales_channel",
		"payment_method", "paid_amount", "subtotal", "discount", "tax",
		"shipping", "total", "submitted_at", "details",
	}).AddRow("sub-001", "op-1", int64(42), "", domain.ChannelDirect, domain.PaymentCash,
		int64(0), int64(0), int64(0), int64(0), int64(0), int64(0), now, []byte("[]"))

	mock.ExpectQuery("FROM order_submissions s").
		WithArgs("sub-001", "op-1").
		WillReturnRows(rows)

	sub, err := repo.GetByID(context.Background(), "op-1", "sub-001")
	require.NoError(t, err)
	assert.NotNil(t, sub.Details)
	assert.Empty(t, sub.Details)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery("FROM order_submissions s").
		WithArgs("missing", "op-1").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "op-1", "missing")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
