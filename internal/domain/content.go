package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Content is one instance's wishlist: an insertion-ordered mapping from row
// ID to item. At most one entry exists per row ID.
type Content struct {
	order []string
	items map[string]*Item
}

// NewContent returns an empty store.
func NewContent() *Content {
	return &Content{items: map[string]*Item{}}
}

// Put inserts the item under its row ID, replacing any existing entry.
// Replacement keeps the original position; new row IDs append.
func (c *Content) Put(item *Item) {
	if _, ok := c.items[item.RowID]; !ok {
		c.order = append(c.order, item.RowID)
	}
	c.items[item.RowID] = item
}

// Get returns the item for rowID and whether it is present.
func (c *Content) Get(rowID string) (*Item, bool) {
	item, ok := c.items[rowID]
	return item, ok
}

// Has reports whether rowID is present.
func (c *Content) Has(rowID string) bool {
	_, ok := c.items[rowID]
	return ok
}

// Pull removes and returns the item for rowID.
func (c *Content) Pull(rowID string) (*Item, bool) {
	item, ok := c.items[rowID]
	if !ok {
		return nil, false
	}
	delete(c.items, rowID)
	for i, id := range c.order {
		if id == rowID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return item, true
}

// Len returns the number of rows.
func (c *Content) Len() int {
	return len(c.order)
}

// Items returns the items in insertion order.
func (c *Content) Items() []*Item {
	out := make([]*Item, 0, len(c.order))
	for _, rowID := range c.order {
		out = append(out, c.items[rowID])
	}
	return out
}

// RowIDs returns the row IDs in insertion order.
func (c *Content) RowIDs() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Filter returns a new store holding the items matching the predicate, in
// store order. The receiver is unchanged.
func (c *Content) Filter(pred func(*Item) bool) *Content {
	out := NewContent()
	for _, rowID := range c.order {
		if item := c.items[rowID]; pred(item) {
			out.Put(item)
		}
	}
	return out
}

// Count sums the quantities of all rows.
func (c *Content) Count() decimal.Decimal {
	sum := decimal.Zero
	for _, rowID := range c.order {
		sum = sum.Add(c.items[rowID].Qty)
	}
	return sum
}

// Subtotal sums qty times price over all rows.
func (c *Content) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, rowID := range c.order {
		sum = sum.Add(c.items[rowID].Subtotal())
	}
	return sum
}

// Tax sums the tax over the full quantity of all rows.
func (c *Content) Tax() decimal.Decimal {
	sum := decimal.Zero
	for _, rowID := range c.order {
		sum = sum.Add(c.items[rowID].TaxTotal())
	}
	return sum
}

// Total sums qty times tax-inclusive price over all rows.
func (c *Content) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, rowID := range c.order {
		sum = sum.Add(c.items[rowID].Total())
	}
	return sum
}

// MarshalJSON encodes the store as an ordered array of items.
func (c *Content) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Items())
}

// UnmarshalJSON decodes an array of items, rebuilding order and index. A
// duplicate row ID in the document keeps only the last occurrence.
func (c *Content) UnmarshalJSON(data []byte) error {
	var items []*Item
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*c = *NewContent()
	for _, item := range items {
		c.Put(item)
	}
	return nil
}
