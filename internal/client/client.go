// Package client wraps the upstream collaborators: product catalog,
// customer directory, and the order service. Responses are decoded into
// typed contracts with optional fields; anything missing or malformed is
// treated as absent rather than propagated as untyped data.
package client

import (
	"context"
	"net/http"
)

// Doer executes HTTP requests. Both httpclient.Client and
// httpclient.BreakerClient satisfy this.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}
