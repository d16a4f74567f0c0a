package catalog

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mallowslabby/shopee/pkg/errors"
	"github.com/Mallowslabby/shopee/pkg/httpclient"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGetProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/products/sku-1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"id":"sku-1","name":"Some item","price":"10.00"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, httpclient.DefaultConfig(), testLogger())

	product, err := client.GetProduct(context.Background(), "sku-1")
	require.NoError(t, err)
	assert.Equal(t, "sku-1", product.BuyableID())
	assert.Equal(t, "Some item", product.BuyableName())
	assert.True(t, product.BuyablePrice().Equal(decimal.NewFromFloat(10.00)))
}

func TestGetProductNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":"NOT_FOUND","message":"product not found"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, httpclient.DefaultConfig(), testLogger())

	_, err := client.GetProduct(context.Background(), "missing")
	assert.ErrorIs(t, err, errors.ErrNotFound)
}
