package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	apperrors "github.com/nguyenhoangkha03/salesdesk/pkg/errors"
)

// Product is the catalog's view of a product. Price and tax rate are
// optional in the upstream contract; absent values stay nil and the caller
// chooses the default.
type Product struct {
	ID                 int64    `json:"id"`
	Name               string   `json:"name"`
	SKU                string   `json:"sku"`
	SellingPriceRetail *int64   `json:"sellingPriceRetail"`
	TaxRate            *float64 `json:"taxRate"`
}

// CatalogClient reads product defaults from the catalog service.
type CatalogClient struct {
	doer    Doer
	baseURL string
}

// NewCatalogClient creates a catalog client against the given base URL.
func NewCatalogClient(doer Doer, baseURL string) *CatalogClient {
	return &CatalogClient{doer: doer, baseURL: baseURL}
}

// GetProduct fetches one product. A 404 maps to a not-found error; other
// non-2xx statuses map to an upstream failure.
func (c *CatalogClient) GetProduct(ctx context.Context, productID int64) (*Product, error) {
	url := fmt.Sprintf("%s/api/v1/products/%d", c.baseURL, productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create product request: %w", err)
	}

	resp, err := c.doer.Do(ctx, req)
	if err != nil {
		return nil, apperrors.Upstream("catalog", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, apperrors.NotFound("product", fmt.Sprintf("%d", productID))
	case resp.StatusCode != http.StatusOK:
		return nil, apperrors.Upstream("catalog", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var payload struct {
		Data *Product `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperrors.Upstream("catalog", fmt.Errorf("decode product: %w", err))
	}
	if payload.Data == nil {
		return nil, apperrors.Upstream("catalog", fmt.Errorf("empty product payload"))
	}

	return payload.Data, nil
}

// RetailPrice returns the product's configured retail price, or 0 when the
// catalog did not report one.
func (p *Product) RetailPrice() int64 {
	if p.SellingPriceRetail == nil {
		return 0
	}
	return *p.SellingPriceRetail
}

// DefaultTaxRate returns the product's configured tax rate, or 0 when the
// catalog did not report one.
func (p *Product) DefaultTaxRate() float64 {
	if p.TaxRate == nil {
		return 0
	}
	return *p.TaxRate
}
