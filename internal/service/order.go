package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/nguyenhoangkha03/salesdesk/pkg/errors"

	"github.com/nguyenhoangkha03/salesdesk/internal/domain"
	"github.com/nguyenhoangkha03/salesdesk/internal/repository"
)

// CustomerDirectory is the slice of the customer client the order service
// needs.
type CustomerDirectory interface {
	GetCreditSnapshot(ctx context.Context, customerID int64) (domain.CreditSnapshot, error)
}

// OrderGateway submits creation requests to the external order service.
type OrderGateway interface {
	CreateOrder(ctx context.Context, order domain.OrderRequest) (string, error)
}

// OrderEvents is the event surface the order service publishes to.
type OrderEvents interface {
	PublishOrderSubmitted(ctx context.Context, sub *domain.Submission) error
}

// CreditCheckInput holds the parameters for a standalone credit check.
type CreditCheckInput struct {
	CustomerID    int64                `json:"customer_id" validate:"required,gt=0"`
	PaidAmount    int64                `json:"paid_amount" validate:"gte=0"`
	PaymentMethod domain.PaymentMethod `json:"payment_method" validate:"required,oneof=cash bank_transfer credit cod"`
}

// SubmitOrderInput holds the parameters for converting the cart into an
// order creation request.
type SubmitOrderInput struct {
	CustomerID      int64                `json:"customer_id" validate:"required,gt=0"`
	SalesChannel    domain.SalesChannel  `json:"sales_channel" validate:"required,oneof=direct online wholesale"`
	DeliveryAddress string               `json:"delivery_address,omitempty"`
	PaymentMethod   domain.PaymentMethod `json:"payment_method" validate:"required,oneof=cash bank_transfer credit cod"`
	PaidAmount      int64                `json:"paid_amount" validate:"gte=0"`
	Notes           string               `json:"notes,omitempty"`
}

// OrderService runs the credit gate and the submission flow.
type OrderService struct {
	carts       *CartService
	submissions repository.SubmissionRepository
	customers   CustomerDirectory
	orders      OrderGateway
	events      OrderEvents
	logger      *slog.Logger
}

// NewOrderService creates the order service.
func NewOrderService(carts *CartService, submissions repository.SubmissionRepository, customers CustomerDirectory, orders OrderGateway, events OrderEvents, logger *slog.Logger) *OrderService {
	return &OrderService{
		carts:       carts,
		submissions: submissions,
		customers:   customers,
		orders:      orders,
		events:      events,
		logger:      logger,
	}
}

// CheckCredit runs the credit-limit decision against the operator's current
// cart total. For non-credit payment methods the decision never exceeds.
func (s *OrderService) CheckCredit(ctx context.Context, userID string, input CreditCheckInput) (domain.CreditDecision, error) {
	if !input.PaymentMethod.Valid() {
		return domain.CreditDecision{}, apperrors.InvalidInput("unknown payment method")
	}

	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return domain.CreditDecision{}, err
	}
	total := cart.Summarize().Total

	snapshot, err := s.customers.GetCreditSnapshot(ctx, input.CustomerID)
	if err != nil {
		return domain.CreditDecision{}, err
	}

	return domain.CheckCredit(snapshot, total, input.PaidAmount, input.PaymentMethod), nil
}

// SubmitOrder converts the cart into a creation request, gates it on the
// credit check, forwards it to the order service, records the submission,
// and drops the cart. The cart survives any failure before the drop, so the
// operator can retry.
func (s *OrderService) SubmitOrder(ctx context.Context, userID string, input SubmitOrderInput) (*domain.Submission, error) {
	if !input.PaymentMethod.Valid() {
		return nil, apperrors.InvalidInput("unknown payment method")
	}
	if !input.SalesChannel.Valid() {
		return nil, apperrors.InvalidInput("unknown sales channel")
	}
	if input.PaidAmount < 0 {
		return nil, apperrors.InvalidInput("paid amount must not be negative")
	}

	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	summary := cart.Summarize()

	if input.PaymentMethod == domain.PaymentCredit {
		snapshot, err := s.customers.GetCreditSnapshot(ctx, input.CustomerID)
		if err != nil {
			return nil, err
		}
		decision := domain.CheckCredit(snapshot, summary.Total, input.PaidAmount, input.PaymentMethod)
		if decision.Exceeds {
			return nil, apperrors.CreditLimitExceeded(fmt.Sprintf(
				"order debt %d exceeds available credit %d", decision.DebtAmount, decision.AvailableCredit))
		}
	}

	orderReq := domain.BuildOrderRequest(cart, input.CustomerID, input.SalesChannel,
		input.DeliveryAddress, input.PaymentMethod, input.PaidAmount, input.Notes)

	externalID, err := s.orders.CreateOrder(ctx, orderReq)
	if err != nil {
		return nil, err
	}

	sub := &domain.Submission{
		ID:              uuid.NewString(),
		UserID:          userID,
		CustomerID:      input.CustomerID,
		ExternalOrderID: externalID,
		SalesChannel:    input.SalesChannel,
		PaymentMethod:   input.PaymentMethod,
		PaidAmount:      input.PaidAmount,
		Subtotal:        summary.Subtotal,
		Discount:        summary.Discount,
		Tax:             summary.Tax,
		Shipping:        summary.Shipping,
		Total:           summary.Total,
		SubmittedAt:     time.Now().UTC(),
		Details:         orderReq.Details,
	}

	if err := s.submissions.Create(ctx, sub); err != nil {
		// The order already exists upstream; losing the local history row is
		// preferable to double-submitting, so log and continue.
		s.logger.ErrorContext(ctx, "failed to record submission",
			slog.String("submission_id", sub.ID),
			slog.String("external_order_id", externalID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.carts.ClearCart(ctx, userID); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear cart after submit",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.events.PublishOrderSubmitted(ctx, sub); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.submitted event",
			slog.String("submission_id", sub.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order submitted",
		slog.String("user_id", userID),
		slog.String("submission_id", sub.ID),
		slog.String("external_order_id", externalID),
		slog.Int64("total", sub.Total),
	)
	return sub, nil
}

// ListSubmissions returns the operator's submission history, newest first.
func (s *OrderService) ListSubmissions(ctx context.Context, userID string, limit, offset int) ([]domain.Submission, int64, error) {
	if userID == "" {
		return nil, 0, apperrors.InvalidInput("user id is required")
	}
	return s.submissions.ListByUser(ctx, userID, limit, offset)
}

// GetSubmission returns one submission with its detail lines.
func (s *OrderService) GetSubmission(ctx context.Context, userID, id string) (*domain.Submission, error) {
	if userID == "" || id == "" {
		return nil, apperrors.InvalidInput("user id and submission id are required")
	}
	return s.submissions.GetByID(ctx, userID, id)
}
