// Package event publishes sales-order domain events to Kafka.
package event

import (
	"context"
	"fmt"
	"log/slog"

	pkgkafka "github.com/nguyenhoangkha03/salesdesk/pkg/kafka"
	"github.com/nguyenhoangkha03/salesdesk/pkg/logger"

	"github.com/nguyenhoangkha03/salesdesk/internal/domain"
)

// Kafka topics for sales-order events.
const (
	TopicCartUpdated    = "salesdesk.cart.updated"
	TopicCartCleared    = "salesdesk.cart.cleared"
	TopicOrderSubmitted = "salesdesk.order.submitted"
)

const (
	AggregateTypeCart       = "cart"
	AggregateTypeSubmission = "submission"
)

// Source identifier for events originating from this service.
const Source = "salesdesk"

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	UserID    string            `json:"user_id"`
	Lines     []domain.CartLine `json:"lines"`
	ItemCount int64             `json:"item_count"`
	Summary   domain.Summary    `json:"summary"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	UserID string `json:"user_id"`
}

// OrderSubmittedData is the payload for an order.submitted event.
type OrderSubmittedData struct {
	SubmissionID    string               `json:"submission_id"`
	ExternalOrderID string               `json:"external_order_id,omitempty"`
	UserID          string               `json:"user_id"`
	CustomerID      int64                `json:"customer_id"`
	PaymentMethod   domain.PaymentMethod `json:"payment_method"`
	Total           int64                `json:"total"`
}

// Producer publishes sales-order events.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates the event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{kafka: kafka, logger: logger}
}

// PublishCartUpdated publishes a cart.updated event carrying the cart lines
// and the freshly derived summary.
func (p *Producer) PublishCartUpdated(ctx context.Context, cart *domain.Cart) error {
	data := CartUpdatedData{
		UserID:    cart.UserID,
		Lines:     cart.Lines,
		ItemCount: cart.ItemCount(),
		Summary:   cart.Summarize(),
	}

	ev, err := pkgkafka.NewEvent(TopicCartUpdated, cart.UserID, AggregateTypeCart, Source, data)
	if err != nil {
		return fmt.Errorf("create cart.updated event: %w", err)
	}
	ev.WithCorrelationID(logger.CorrelationID(ctx))

	if err := p.kafka.Publish(ctx, TopicCartUpdated, ev); err != nil {
		return fmt.Errorf("publish cart.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("user_id", cart.UserID),
		slog.Int64("item_count", data.ItemCount),
	)
	return nil
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, userID string) error {
	ev, err := pkgkafka.NewEvent(TopicCartCleared, userID, AggregateTypeCart, Source, CartClearedData{UserID: userID})
	if err != nil {
		return fmt.Errorf("create cart.cleared event: %w", err)
	}
	ev.WithCorrelationID(logger.CorrelationID(ctx))

	if err := p.kafka.Publish(ctx, TopicCartCleared, ev); err != nil {
		return fmt.Errorf("publish cart.cleared event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.cleared event",
		slog.String("user_id", userID),
	)
	return nil
}

// PublishOrderSubmitted publishes an order.submitted event once the order
// service has accepted a creation request.
func (p *Producer) PublishOrderSubmitted(ctx context.Context, sub *domain.Submission) error {
	data := OrderSubmittedData{
		SubmissionID:    sub.ID,
		ExternalOrderID: sub.ExternalOrderID,
		UserID:          sub.UserID,
		CustomerID:      sub.CustomerID,
		PaymentMethod:   sub.PaymentMethod,
		Total:           sub.Total,
	}

	ev, err := pkgkafka.NewEvent(TopicOrderSubmitted, sub.ID, AggregateTypeSubmission, Source, data)
	if err != nil {
		return fmt.Errorf("create order.submitted event: %w", err)
	}
	ev.WithCorrelationID(logger.CorrelationID(ctx))

	if err := p.kafka.Publish(ctx, TopicOrderSubmitted, ev); err != nil {
		return fmt.Errorf("publish order.submitted event: %w", err)
	}

	p.logger.InfoContext(ctx, "published order.submitted event",
		slog.String("submission_id", sub.ID),
		slog.String("external_order_id", sub.ExternalOrderID),
	)
	return nil
}
