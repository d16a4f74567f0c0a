// Package wishlist implements the per-session wishlist manager: add with
// merge-on-insert, identity-changing updates, aggregate queries, and
// store/restore against the durable table.
package wishlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/Mallowslabby/shopee/internal/domain"
	"github.com/Mallowslabby/shopee/internal/event"
	"github.com/Mallowslabby/shopee/internal/session"
	"github.com/Mallowslabby/shopee/internal/storage"
	apperrors "github.com/Mallowslabby/shopee/pkg/errors"
)

// DefaultInstance is the instance used when none is selected.
const DefaultInstance = "default"

const sessionKeyPrefix = "wishlist."

// Config carries the defaults the manager applies to new items and to
// formatted aggregate output.
type Config struct {
	DefaultTaxRate decimal.Decimal
	Format         domain.NumberFormat
}

// Manager orchestrates one session's wishlists. It holds the currently
// selected instance and is not safe for concurrent use; construct one per
// request.
type Manager struct {
	session   session.Store
	repo      storage.Repository
	notifier  event.Notifier
	registry  *ModelRegistry
	config    Config
	logger    *slog.Logger
	sessionID string
	instance  string
}

// NewManager creates a manager for one session, pointed at the default
// instance.
func NewManager(
	sess session.Store,
	repo storage.Repository,
	notifier event.Notifier,
	registry *ModelRegistry,
	cfg Config,
	logger *slog.Logger,
	sessionID string,
) *Manager {
	m := &Manager{
		session:   sess,
		repo:      repo,
		notifier:  notifier,
		registry:  registry,
		config:    cfg,
		logger:    logger,
		sessionID: sessionID,
	}
	m.SetInstance(DefaultInstance)
	return m
}

// SetInstance repoints the manager at the named instance. Empty selects the
// default.
func (m *Manager) SetInstance(instance string) {
	if instance == "" {
		instance = DefaultInstance
	}
	m.instance = instance
}

// CurrentInstance returns the selected instance name.
func (m *Manager) CurrentInstance() string {
	return m.instance
}

func (m *Manager) instanceKey() string {
	return sessionKeyPrefix + m.instance
}

// content loads the selected instance's store, empty when the session holds
// nothing for it.
func (m *Manager) content(ctx context.Context) (*domain.Content, error) {
	data, found, err := m.session.Get(ctx, m.instanceKey())
	if err != nil {
		return nil, fmt.Errorf("load wishlist content: %w", err)
	}
	if !found {
		return domain.NewContent(), nil
	}

	content := domain.NewContent()
	if err := json.Unmarshal(data, content); err != nil {
		return nil, fmt.Errorf("decode wishlist content: %w", err)
	}
	return content, nil
}

func (m *Manager) persist(ctx context.Context, content *domain.Content) error {
	data, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("encode wishlist content: %w", err)
	}
	if err := m.session.Put(ctx, m.instanceKey(), data); err != nil {
		return fmt.Errorf("persist wishlist content: %w", err)
	}
	return nil
}

// Add builds an item from the request and inserts it into the current
// instance. An existing row with the same identity absorbs the new quantity
// instead of creating a duplicate. Returns the post-merge item.
func (m *Manager) Add(ctx context.Context, req AddRequest) (*domain.Item, error) {
	item, err := req.build()
	if err != nil {
		return nil, err
	}
	if req.Associate != nil && !m.registry.Known(req.Associate.Type) {
		return nil, NewUnknownModelError(req.Associate.Type)
	}
	item.TaxRate = m.config.DefaultTaxRate

	content, err := m.content(ctx)
	if err != nil {
		return nil, err
	}

	if existing, ok := content.Get(item.RowID); ok {
		item.Qty = item.Qty.Add(existing.Qty)
	}
	content.Put(item)

	if err := m.persist(ctx, content); err != nil {
		return nil, err
	}

	m.logger.DebugContext(ctx, "wishlist item added",
		slog.String("session_id", m.sessionID),
		slog.String("instance", m.instance),
		slog.String("row_id", item.RowID),
		slog.String("qty", item.Qty.String()),
	)
	m.notifier.ItemAdded(ctx, m.sessionID, m.instance, item)

	return item, nil
}

// AddBatch adds each request independently and returns the resulting items
// in order.
func (m *Manager) AddBatch(ctx context.Context, reqs []AddRequest) ([]*domain.Item, error) {
	items := make([]*domain.Item, 0, len(reqs))
	for _, req := range reqs {
		item, err := m.Add(ctx, req)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Update applies a change to the row with the given ID. When the change
// shifts the item's identity, the old row is removed and a collision with an
// existing row merges quantities, mirroring the add-time policy. A resulting
// quantity of zero or less removes the row entirely; the returned item is nil
// in that case.
func (m *Manager) Update(ctx context.Context, rowID string, change Change) (*domain.Item, error) {
	content, err := m.content(ctx)
	if err != nil {
		return nil, err
	}

	existing, ok := content.Get(rowID)
	if !ok {
		return nil, NewInvalidRowIDError(rowID)
	}

	item := existing.Clone()
	if err := change.apply(item); err != nil {
		return nil, err
	}

	if rowID != item.RowID {
		content.Pull(rowID)
		if collided, ok := content.Get(item.RowID); ok {
			item.Qty = item.Qty.Add(collided.Qty)
		}
	}

	if item.Qty.LessThanOrEqual(decimal.Zero) {
		content.Pull(item.RowID)
		if err := m.persist(ctx, content); err != nil {
			return nil, err
		}
		m.logger.DebugContext(ctx, "wishlist item removed on zero quantity",
			slog.String("session_id", m.sessionID),
			slog.String("instance", m.instance),
			slog.String("row_id", item.RowID),
		)
		m.notifier.ItemRemoved(ctx, m.sessionID, m.instance, item)
		return nil, nil
	}

	content.Put(item)
	if err := m.persist(ctx, content); err != nil {
		return nil, err
	}

	m.logger.DebugContext(ctx, "wishlist item updated",
		slog.String("session_id", m.sessionID),
		slog.String("instance", m.instance),
		slog.String("row_id", item.RowID),
	)
	m.notifier.ItemUpdated(ctx, m.sessionID, m.instance, item)

	return item, nil
}

// Remove deletes the row with the given ID.
func (m *Manager) Remove(ctx context.Context, rowID string) error {
	content, err := m.content(ctx)
	if err != nil {
		return err
	}

	item, ok := content.Pull(rowID)
	if !ok {
		return NewInvalidRowIDError(rowID)
	}

	if err := m.persist(ctx, content); err != nil {
		return err
	}

	m.logger.DebugContext(ctx, "wishlist item removed",
		slog.String("session_id", m.sessionID),
		slog.String("instance", m.instance),
		slog.String("row_id", rowID),
	)
	m.notifier.ItemRemoved(ctx, m.sessionID, m.instance, item)

	return nil
}

// Get returns the row with the given ID.
func (m *Manager) Get(ctx context.Context, rowID string) (*domain.Item, error) {
	content, err := m.content(ctx)
	if err != nil {
		return nil, err
	}
	item, ok := content.Get(rowID)
	if !ok {
		return nil, NewInvalidRowIDError(rowID)
	}
	return item, nil
}

// Content returns the current instance's store.
func (m *Manager) Content(ctx context.Context) (*domain.Content, error) {
	return m.content(ctx)
}

// Destroy clears the current instance.
func (m *Manager) Destroy(ctx context.Context) error {
	if err := m.session.Remove(ctx, m.instanceKey()); err != nil {
		return fmt.Errorf("destroy wishlist: %w", err)
	}
	m.logger.DebugContext(ctx, "wishlist destroyed",
		slog.String("session_id", m.sessionID),
		slog.String("instance", m.instance),
	)
	return nil
}

// Count returns the sum of quantities over all rows.
func (m *Manager) Count(ctx context.Context) (decimal.Decimal, error) {
	content, err := m.content(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return content.Count(), nil
}

// RowCount returns the number of distinct rows.
func (m *Manager) RowCount(ctx context.Context) (int, error) {
	content, err := m.content(ctx)
	if err != nil {
		return 0, err
	}
	return content.Len(), nil
}

// SubtotalValue returns the numeric subtotal (Σ qty·price).
func (m *Manager) SubtotalValue(ctx context.Context) (decimal.Decimal, error) {
	content, err := m.content(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return content.Subtotal(), nil
}

// TaxValue returns the numeric tax total (Σ qty·price·rate/100).
func (m *Manager) TaxValue(ctx context.Context) (decimal.Decimal, error) {
	content, err := m.content(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return content.Tax(), nil
}

// TotalValue returns the numeric total (Σ qty·priceTax).
func (m *Manager) TotalValue(ctx context.Context) (decimal.Decimal, error) {
	content, err := m.content(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return content.Total(), nil
}

// Subtotal returns the formatted subtotal. Override fields left nil fall
// back to the configured format.
func (m *Manager) Subtotal(ctx context.Context, override *domain.FormatOverride) (string, error) {
	v, err := m.SubtotalValue(ctx)
	if err != nil {
		return "", err
	}
	return m.config.Format.With(override).Format(v), nil
}

// Tax returns the formatted tax total.
func (m *Manager) Tax(ctx context.Context, override *domain.FormatOverride) (string, error) {
	v, err := m.TaxValue(ctx)
	if err != nil {
		return "", err
	}
	return m.config.Format.With(override).Format(v), nil
}

// Total returns the formatted total.
func (m *Manager) Total(ctx context.Context, override *domain.FormatOverride) (string, error) {
	v, err := m.TotalValue(ctx)
	if err != nil {
		return "", err
	}
	return m.config.Format.With(override).Format(v), nil
}

// Search returns the rows matching the predicate, in store order. The store
// itself is unchanged.
func (m *Manager) Search(ctx context.Context, pred func(*domain.Item) bool) (*domain.Content, error) {
	content, err := m.content(ctx)
	if err != nil {
		return nil, err
	}
	return content.Filter(pred), nil
}

// Associate attaches an external model reference to the row. The reference
// type must be registered. No event is emitted.
func (m *Manager) Associate(ctx context.Context, rowID string, ref domain.ModelRef) error {
	if !m.registry.Known(ref.Type) {
		return NewUnknownModelError(ref.Type)
	}

	content, err := m.content(ctx)
	if err != nil {
		return err
	}
	item, ok := content.Get(rowID)
	if !ok {
		return NewInvalidRowIDError(rowID)
	}

	item.Associated = &ref
	content.Put(item)
	return m.persist(ctx, content)
}

// SetTax sets the row's tax rate. No event is emitted.
func (m *Manager) SetTax(ctx context.Context, rowID string, rate decimal.Decimal) error {
	content, err := m.content(ctx)
	if err != nil {
		return err
	}
	item, ok := content.Get(rowID)
	if !ok {
		return NewInvalidRowIDError(rowID)
	}

	item.TaxRate = rate
	content.Put(item)
	return m.persist(ctx, content)
}

// Store serializes the current instance's content into the durable table
// under the given identifier. An identifier that is already stored fails.
func (m *Manager) Store(ctx context.Context, identifier string) error {
	exists, err := m.repo.Exists(ctx, identifier)
	if err != nil {
		return fmt.Errorf("check stored wishlist: %w", err)
	}
	if exists {
		return NewAlreadyStoredError(identifier)
	}

	content, err := m.content(ctx)
	if err != nil {
		return err
	}
	data, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("encode wishlist content: %w", err)
	}

	if err := m.repo.Insert(ctx, &storage.StoredWishlist{
		Identifier: identifier,
		Instance:   m.instance,
		Content:    data,
	}); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			return NewAlreadyStoredError(identifier)
		}
		return err
	}

	m.logger.InfoContext(ctx, "wishlist stored",
		slog.String("session_id", m.sessionID),
		slog.String("instance", m.instance),
		slog.String("identifier", identifier),
	)
	m.notifier.Stored(ctx, m.sessionID, identifier, m.instance)

	return nil
}

// Restore merges a stored wishlist back into its original instance and
// consumes the durable record. A missing identifier is a no-op. Restored
// rows overwrite on identity collision rather than summing quantities, so a
// repeated restore cannot inflate counts. The instance selected before the
// call stays selected afterwards.
func (m *Manager) Restore(ctx context.Context, identifier string) error {
	rec, err := m.repo.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("find stored wishlist: %w", err)
	}

	stored := domain.NewContent()
	if err := json.Unmarshal(rec.Content, stored); err != nil {
		return fmt.Errorf("decode stored wishlist: %w", err)
	}

	prev := m.instance
	m.SetInstance(rec.Instance)
	defer m.SetInstance(prev)

	content, err := m.content(ctx)
	if err != nil {
		return err
	}
	for _, item := range stored.Items() {
		content.Put(item)
	}
	if err := m.persist(ctx, content); err != nil {
		return err
	}

	m.logger.InfoContext(ctx, "wishlist restored",
		slog.String("session_id", m.sessionID),
		slog.String("instance", rec.Instance),
		slog.String("identifier", identifier),
	)
	m.notifier.Restored(ctx, m.sessionID, identifier, rec.Instance)

	if err := m.repo.DeleteByIdentifier(ctx, identifier); err != nil {
		return fmt.Errorf("delete stored wishlist: %w", err)
	}

	return nil
}
