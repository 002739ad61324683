package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	apperrors "github.com/nguyenhoangkha03/salesdesk/pkg/errors"

	"github.com/nguyenhoangkha03/salesdesk/internal/domain"
)

// CustomerClient reads credit standing from the customer directory.
type CustomerClient struct {
	doer    Doer
	baseURL string
}

// NewCustomerClient creates a customer directory client.
func NewCustomerClient(doer Doer, baseURL string) *CustomerClient {
	return &CustomerClient{doer: doer, baseURL: baseURL}
}

// GetCreditSnapshot fetches the customer's credit limit and current debt.
// Missing fields decode as zero, which makes the credit check conservative:
// no reported limit means no headroom.
func (c *CustomerClient) GetCreditSnapshot(ctx context.Context, customerID int64) (domain.CreditSnapshot, error) {
	url := fmt.Sprintf("%s/api/v1/customers/%d/credit", c.baseURL, customerID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.CreditSnapshot{}, fmt.Errorf("create credit request: %w", err)
	}

	resp, err := c.doer.Do(ctx, req)
	if err != nil {
		return domain.CreditSnapshot{}, apperrors.Upstream("customer", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.CreditSnapshot{}, apperrors.NotFound("customer", fmt.Sprintf("%d", customerID))
	case resp.StatusCode != http.StatusOK:
		return domain.CreditSnapshot{}, apperrors.Upstream("customer", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var payload struct {
		Data struct {
			CreditLimit *int64 `json:"creditLimit"`
			CurrentDebt *int64 `json:"currentDebt"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.CreditSnapshot{}, apperrors.Upstream("customer", fmt.Errorf("decode credit: %w", err))
	}

	snapshot := domain.CreditSnapshot{CustomerID: customerID}
	if payload.Data.CreditLimit != nil {
		snapshot.CreditLimit = *payload.Data.CreditLimit
	}
	if payload.Data.CurrentDebt != nil {
		snapshot.CurrentDebt = *payload.Data.CurrentDebt
	}
	return snapshot, nil
}
