package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/expr-lang/expr"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/Mallowslabby/shopee/internal/catalog"
	"github.com/Mallowslabby/shopee/internal/domain"
	"github.com/Mallowslabby/shopee/internal/wishlist"
	apperrors "github.com/Mallowslabby/shopee/pkg/errors"
	"github.com/Mallowslabby/shopee/pkg/httputil"
	"github.com/Mallowslabby/shopee/pkg/validator"
)

// ManagerFactory builds a wishlist manager bound to one session.
type ManagerFactory func(sessionID string) *wishlist.Manager

// ProductSource resolves product ids into buyable references.
type ProductSource interface {
	GetProduct(ctx context.Context, productID string) (*catalog.Product, error)
}

// WishlistHandler handles HTTP requests for wishlist endpoints.
type WishlistHandler struct {
	factory ManagerFactory
	catalog ProductSource
	logger  *slog.Logger
}

// NewWishlistHandler creates a wishlist HTTP handler.
func NewWishlistHandler(factory ManagerFactory, catalog ProductSource, logger *slog.Logger) *WishlistHandler {
	return &WishlistHandler{
		factory: factory,
		catalog: catalog,
		logger:  logger,
	}
}

// manager builds the session's manager pointed at the requested instance
// (?instance= query parameter, default otherwise).
func (h *WishlistHandler) manager(r *http.Request) (*wishlist.Manager, error) {
	sid, ok := sessionIDFromContext(r.Context())
	if !ok {
		return nil, apperrors.InvalidInput("X-Session-ID header is required")
	}
	m := h.factory(sid)
	m.SetInstance(r.URL.Query().Get("instance"))
	return m, nil
}

// --- Request DTOs ---

// UpdateItemRequest is the JSON body for PUT /items/{rowId}. Qty alone
// replaces the quantity; any other field present turns the request into an
// attribute patch.
type UpdateItemRequest struct {
	Qty     *json.Number      `json:"qty"`
	ID      *string           `json:"id"`
	Name    *string           `json:"name"`
	Price   *json.Number      `json:"price"`
	Options map[string]string `json:"options"`
}

// SetTaxRequest is the JSON body for PUT /items/{rowId}/tax.
type SetTaxRequest struct {
	TaxRate json.Number `json:"tax_rate" validate:"required"`
}

// AssociateRequest is the JSON body for POST /items/{rowId}/associate.
type AssociateRequest struct {
	Type string `json:"type" validate:"required"`
	ID   string `json:"id" validate:"required"`
}

// StoreRequest is the JSON body for POST /store and /restore.
type StoreRequest struct {
	Identifier string `json:"identifier" validate:"required"`
}

// --- Response DTOs ---

// SummaryResponse is the GET / payload: content plus aggregates.
type SummaryResponse struct {
	Instance string          `json:"instance"`
	Items    *domain.Content `json:"items"`
	Count    decimal.Decimal `json:"count"`
	RowCount int             `json:"row_count"`
	Subtotal string          `json:"subtotal"`
	Tax      string          `json:"tax"`
	Total    string          `json:"total"`
}

// --- Handlers ---

// GetWishlist handles GET /api/v1/wishlist
func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	m, err := h.manager(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	h.writeSummary(w, r, m)
}

// DestroyWishlist handles DELETE /api/v1/wishlist
func (h *WishlistHandler) DestroyWishlist(w http.ResponseWriter, r *http.Request) {
	m, err := h.manager(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if err := m.Destroy(r.Context()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "destroyed"}})
}

// AddItems handles POST /api/v1/wishlist/items. The body is a single item
// record, an array of records (bulk add), or a product reference
// {"product_id": ..., "qty": ..., "options": ...} resolved through the
// catalog service.
func (h *WishlistHandler) AddItems(w http.ResponseWriter, r *http.Request) {
	m, err := h.manager(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("read request body: "+err.Error()), h.logger)
		return
	}

	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var records []map[string]any
		if err := decodeJSON(body, &records); err != nil {
			httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
			return
		}
		reqs := make([]wishlist.AddRequest, 0, len(records))
		for _, rec := range records {
			req, err := h.buildAddRequest(r, rec)
			if err != nil {
				httputil.WriteError(w, r, err, h.logger)
				return
			}
			reqs = append(reqs, req)
		}
		items, err := m.AddBatch(r.Context(), reqs)
		if err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
		httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: items})
		return
	}

	var rec map[string]any
	if err := decodeJSON(body, &rec); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
		return
	}
	req, err := h.buildAddRequest(r, rec)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	item, err := m.Add(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: item})
}

// buildAddRequest turns one decoded record into an AddRequest, resolving
// product references through the catalog.
func (h *WishlistHandler) buildAddRequest(r *http.Request, rec map[string]any) (wishlist.AddRequest, error) {
	productID, ok := rec["product_id"].(string)
	if !ok || productID == "" {
		return wishlist.AddRecord(rec), nil
	}

	product, err := h.catalog.GetProduct(r.Context(), productID)
	if err != nil {
		return wishlist.AddRequest{}, fmt.Errorf("resolve product %s: %w", productID, err)
	}

	qty := decimal.NewFromInt(1)
	if raw, ok := rec["qty"]; ok {
		if n, ok := raw.(json.Number); ok {
			if parsed, err := decimal.NewFromString(n.String()); err == nil {
				qty = parsed
			}
		}
	}

	options := domain.NewOptions()
	if raw, ok := rec["options"].(map[string]any); ok {
		m := make(map[string]string, len(raw))
		for k, v := range raw {
			if s, ok := v.(string); ok {
				m[k] = s
			}
		}
		options = domain.OptionsFromMap(m)
	}

	req := wishlist.AddBuyable(product, qty, options)
	req.Associate = &domain.ModelRef{Type: "product", ID: product.ID}
	return req, nil
}

// GetItem handles GET /api/v1/wishlist/items/{rowId}
func (h *WishlistHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	m, err := h.manager(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	item, err := m.Get(r.Context(), chi.URLParam(r, "rowId"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: item})
}

// UpdateItem handles PUT /api/v1/wishlist/items/{rowId}
func (h *WishlistHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	m, err := h.manager(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
		return
	}

	change, err := req.change()
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	item, err := m.Update(r.Context(), chi.URLParam(r, "rowId"), change)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if item == nil {
		// Quantity dropped to zero; the row is gone.
		httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "removed"}})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: item})
}

// change converts the request body into the manager's tagged change input.
func (req UpdateItemRequest) change() (wishlist.Change, error) {
	patch := map[string]any{}
	if req.ID != nil {
		patch["id"] = *req.ID
	}
	if req.Name != nil {
		patch["name"] = *req.Name
	}
	if req.Price != nil {
		patch["price"] = *req.Price
	}
	if req.Options != nil {
		patch["options"] = req.Options
	}

	if len(patch) == 0 {
		if req.Qty == nil {
			return wishlist.Change{}, apperrors.InvalidInput("request body must carry qty or item attributes")
		}
		qty, err := decimal.NewFromString(req.Qty.String())
		if err != nil {
			return wishlist.Change{}, apperrors.InvalidInput("invalid qty: " + req.Qty.String())
		}
		return wishlist.ChangeQty(qty), nil
	}

	if req.Qty != nil {
		patch["qty"] = *req.Qty
	}
	return wishlist.ChangePatch(patch), nil
}

// RemoveItem handles DELETE /api/v1/wishlist/items/{rowId}
func (h *WishlistHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	m, err := h.manager(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if err := m.Remove(r.Context(), chi.URLParam(r, "rowId")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "removed"}})
}

// SetTax handles PUT /api/v1/wishlist/items/{rowId}/tax
func (h *WishlistHandler) SetTax(w http.ResponseWriter, r *http.Request) {
	m, err := h.manager(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	var req SetTaxRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}
	rate, err := decimal.NewFromString(req.TaxRate.String())
	if err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid tax_rate: "+req.TaxRate.String()), h.logger)
		return
	}

	rowID := chi.URLParam(r, "rowId")
	if err := m.SetTax(r.Context(), rowID, rate); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	item, err := m.Get(r.Context(), rowID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: item})
}

// AssociateItem handles POST /api/v1/wishlist/items/{rowId}/associate
func (h *WishlistHandler) AssociateItem(w http.ResponseWriter, r *http.Request) {
	m, err := h.manager(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	var req AssociateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	rowID := chi.URLParam(r, "rowId")
	if err := m.Associate(r.Context(), rowID, domain.ModelRef{Type: req.Type, ID: req.ID}); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	item, err := m.Get(r.Context(), rowID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: item})
}

// SearchItems handles GET /api/v1/wishlist/search?q=<expression>. The q
// parameter is a boolean expression over the fields id, name, qty, price,
// taxRate and options, e.g. `name == "Some item" && options.color == "red"`.
func (h *WishlistHandler) SearchItems(w http.ResponseWriter, r *http.Request) {
	m, err := h.manager(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	q := r.URL.Query().Get("q")
	if q == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("q query parameter is required"), h.logger)
		return
	}

	program, err := expr.Compile(q, expr.AsBool())
	if err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid search expression: "+err.Error()), h.logger)
		return
	}

	var evalErr error
	found, err := m.Search(r.Context(), func(item *domain.Item) bool {
		if evalErr != nil {
			return false
		}
		out, err := expr.Run(program, searchEnv(item))
		if err != nil {
			evalErr = err
			return false
		}
		matched, _ := out.(bool)
		return matched
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if evalErr != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("search expression failed: "+evalErr.Error()), h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: found})
}

// searchEnv exposes an item's fields to the search expression.
func searchEnv(item *domain.Item) map[string]any {
	options := map[string]string{}
	for _, k := range item.Options.Keys() {
		v, _ := item.Options.Get(k)
		options[k] = v
	}
	return map[string]any{
		"rowId":   item.RowID,
		"id":      item.ID,
		"name":    item.Name,
		"qty":     item.Qty.InexactFloat64(),
		"price":   item.Price.InexactFloat64(),
		"taxRate": item.TaxRate.InexactFloat64(),
		"options": options,
	}
}

// StoreWishlist handles POST /api/v1/wishlist/store
func (h *WishlistHandler) StoreWishlist(w http.ResponseWriter, r *http.Request) {
	m, err := h.manager(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	var req StoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := m.Store(r.Context(), req.Identifier); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: map[string]string{"status": "stored", "identifier": req.Identifier}})
}

// RestoreWishlist handles POST /api/v1/wishlist/restore
func (h *WishlistHandler) RestoreWishlist(w http.ResponseWriter, r *http.Request) {
	m, err := h.manager(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	var req StoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := m.Restore(r.Context(), req.Identifier); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	h.writeSummary(w, r, m)
}

// writeSummary responds with the instance content and its aggregates.
func (h *WishlistHandler) writeSummary(w http.ResponseWriter, r *http.Request, m *wishlist.Manager) {
	ctx := r.Context()

	content, err := m.Content(ctx)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	subtotal, err := m.Subtotal(ctx, nil)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	tax, err := m.Tax(ctx, nil)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	total, err := m.Total(ctx, nil)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: SummaryResponse{
		Instance: m.CurrentInstance(),
		Items:    content,
		Count:    content.Count(),
		RowCount: content.Len(),
		Subtotal: subtotal,
		Tax:      tax,
		Total:    total,
	}})
}

// decodeJSON unmarshals with numbers kept as json.Number so quantities and
// prices survive without float rounding.
func decodeJSON(data []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected trailing data")
	}
	return nil
}
