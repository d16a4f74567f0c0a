// Package catalog resolves product references from the catalog service.
// Items added by product id pull their name and price from here.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/Mallowslabby/shopee/pkg/httpclient"
)

// Product is a catalog product. It satisfies domain.Buyable.
type Product struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// BuyableID returns the product id.
func (p *Product) BuyableID() string { return p.ID }

// BuyableName returns the display name.
func (p *Product) BuyableName() string { return p.Name }

// BuyablePrice returns the unit price.
func (p *Product) BuyablePrice() decimal.Decimal { return p.Price }

type productResponse struct {
	Data *Product `json:"data"`
}

// Client fetches products from the catalog service through a circuit-broken
// HTTP client.
type Client struct {
	http    *httpclient.CircuitBreakerClient
	baseURL string
	logger  *slog.Logger
}

// NewClient creates a catalog client for the given base URL.
func NewClient(baseURL string, cfg httpclient.Config, logger *slog.Logger) *Client {
	inner := httpclient.New(cfg)
	cb := httpclient.NewCircuitBreakerClient(inner, httpclient.DefaultCircuitBreakerConfig("catalog"), logger)

	return &Client{
		http:    cb,
		baseURL: baseURL,
		logger:  logger,
	}
}

// GetProduct fetches one product by id.
func (c *Client) GetProduct(ctx context.Context, productID string) (*Product, error) {
	u := fmt.Sprintf("%s/api/v1/products/%s", c.baseURL, url.PathEscape(productID))

	resp, err := c.http.Get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("fetch product %s: %w", productID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp)
	}

	var body productResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode product %s: %w", productID, err)
	}
	if body.Data == nil {
		return nil, fmt.Errorf("decode product %s: empty response", productID)
	}

	return body.Data, nil
}
