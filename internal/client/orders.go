package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	apperrors "github.com/nguyenhoangkha03/salesdesk/pkg/errors"

	"github.com/nguyenhoangkha03/salesdesk/internal/domain"
)

// OrderClient submits creation requests to the order service.
type OrderClient struct {
	doer    Doer
	baseURL string
}

// NewOrderClient creates an order service client.
func NewOrderClient(doer Doer, baseURL string) *OrderClient {
	return &OrderClient{doer: doer, baseURL: baseURL}
}

// CreateOrder posts the creation payload and returns the external order ID.
// The response shape varies across order service versions; either "orderId"
// or "id" is accepted and an empty ID is tolerated.
func (c *OrderClient) CreateOrder(ctx context.Context, order domain.OrderRequest) (string, error) {
	body, err := json.Marshal(order)
	if err != nil {
		return "", fmt.Errorf("marshal order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/orders", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.doer.Do(ctx, req)
	if err != nil {
		return "", apperrors.Upstream("order", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return "", apperrors.InvalidInput("order service rejected the request")
	case resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated:
		return "", apperrors.Upstream("order", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var payload struct {
		Data struct {
			OrderID string `json:"orderId"`
			ID      string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", apperrors.Upstream("order", fmt.Errorf("decode order response: %w", err))
	}

	if payload.Data.OrderID != "" {
		return payload.Data.OrderID, nil
	}
	return payload.Data.ID, nil
}
