package wishlist

import (
	"github.com/shopspring/decimal"

	"github.com/Mallowslabby/shopee/internal/domain"
)

type addKind int

const (
	addBuyable addKind = iota
	addAttributes
	addRecord
)

// AddRequest is the tagged input for Manager.Add. Build one through
// AddBuyable, AddAttributes, or AddRecord.
type AddRequest struct {
	kind addKind

	buyable domain.Buyable

	id      string
	name    string
	price   decimal.Decimal
	qty     decimal.Decimal
	options domain.Options

	record map[string]any

	// Associate, when set, is attached to the built item. The type must be
	// registered with the manager's model registry.
	Associate *domain.ModelRef
}

// AddBuyable requests adding an item sourced from an external product
// reference.
func AddBuyable(b domain.Buyable, qty decimal.Decimal, options domain.Options) AddRequest {
	return AddRequest{kind: addBuyable, buyable: b, qty: qty, options: options}
}

// AddAttributes requests adding an item from flat attributes.
func AddAttributes(id, name string, qty, price decimal.Decimal, options domain.Options) AddRequest {
	return AddRequest{kind: addAttributes, id: id, name: name, qty: qty, price: price, options: options}
}

// AddRecord requests adding an item from a structured record with
// id/name/qty/price and an optional options mapping.
func AddRecord(rec map[string]any) AddRequest {
	return AddRequest{kind: addRecord, record: rec}
}

// build constructs and validates the item for this request.
func (r AddRequest) build() (*domain.Item, error) {
	var (
		item *domain.Item
		err  error
	)
	switch r.kind {
	case addBuyable:
		item, err = domain.FromBuyable(r.buyable, r.qty, r.options)
	case addRecord:
		item, err = domain.FromRecord(r.record)
	default:
		item, err = domain.NewItem(r.id, r.name, r.qty, r.price, r.options)
	}
	if err != nil {
		return nil, err
	}
	if r.Associate != nil {
		ref := *r.Associate
		item.Associated = &ref
	}
	return item, nil
}

type changeKind int

const (
	changeQty changeKind = iota
	changeBuyable
	changePatch
)

// Change is the tagged input for Manager.Update: a raw quantity, a buyable
// reference, or a partial attribute patch.
type Change struct {
	kind changeKind

	qty     decimal.Decimal
	buyable domain.Buyable
	patch   map[string]any
}

// ChangeQty replaces the item's quantity.
func ChangeQty(qty decimal.Decimal) Change {
	return Change{kind: changeQty, qty: qty}
}

// ChangeBuyable updates id, name and price from an external product
// reference and recomputes the row identity.
func ChangeBuyable(b domain.Buyable) Change {
	return Change{kind: changeBuyable, buyable: b}
}

// ChangePatch merges a partial attribute mapping (id, name, qty, price,
// options) into the item, recomputing identity when id or options change.
func ChangePatch(patch map[string]any) Change {
	return Change{kind: changePatch, patch: patch}
}

// apply mutates the item per the change and returns a validation error for
// malformed patch values.
func (c Change) apply(item *domain.Item) error {
	switch c.kind {
	case changeQty:
		item.Qty = c.qty
		return nil
	case changeBuyable:
		item.ID = c.buyable.BuyableID()
		item.Name = c.buyable.BuyableName()
		item.Price = c.buyable.BuyablePrice()
		item.RowID = domain.ComputeRowID(item.ID, item.Options)
		return nil
	default:
		return c.applyPatch(item)
	}
}

func (c Change) applyPatch(item *domain.Item) error {
	rec := map[string]any{
		"id":      item.ID,
		"name":    item.Name,
		"qty":     item.Qty,
		"price":   item.Price,
		"options": item.Options,
	}
	for k, v := range c.patch {
		rec[k] = v
	}

	next, err := domain.FromRecord(rec)
	if err != nil {
		return err
	}

	item.ID = next.ID
	item.Name = next.Name
	item.Qty = next.Qty
	item.Price = next.Price
	item.Options = next.Options
	item.RowID = next.RowID
	return nil
}
