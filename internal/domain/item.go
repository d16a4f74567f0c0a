package domain

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	apperrors "github.com/Mallowslabby/shopee/pkg/errors"
)

// Buyable is an external product reference that can seed a wishlist item.
type Buyable interface {
	BuyableID() string
	BuyableName() string
	BuyablePrice() decimal.Decimal
}

// ModelRef points at an external domain object associated with an item. The
// core never interprets it; Type must be registered with the manager's model
// registry before association.
type ModelRef struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Item is one wishlist entry. Its RowID is a content hash of (ID, Options)
// and is recomputed whenever either changes.
type Item struct {
	RowID      string
	ID         string
	Name       string
	Qty        decimal.Decimal
	Price      decimal.Decimal
	Options    Options
	TaxRate    decimal.Decimal
	Associated *ModelRef
}

// NewValidationError builds the construction failure for the first invalid
// field.
func NewValidationError(field string) *apperrors.AppError {
	return &apperrors.AppError{
		Code:    "VALIDATION_ERROR",
		Message: fmt.Sprintf("Please supply a valid %s.", field),
		Status:  http.StatusUnprocessableEntity,
		Err:     apperrors.ErrInvalidInput,
	}
}

// NewItem validates the flat attribute form and builds an item. Fields are
// checked in order: identifier, name, quantity, price. TaxRate starts at
// zero; the manager applies the configured default on add.
func NewItem(id, name string, qty, price decimal.Decimal, options Options) (*Item, error) {
	if id == "" {
		return nil, NewValidationError("identifier")
	}
	if name == "" {
		return nil, NewValidationError("name")
	}
	if price.IsNegative() {
		return nil, NewValidationError("price")
	}

	item := &Item{
		ID:      id,
		Name:    name,
		Qty:     qty,
		Price:   price,
		Options: options.Clone(),
	}
	item.RowID = ComputeRowID(item.ID, item.Options)
	return item, nil
}

// FromBuyable builds an item from an external product reference with a
// caller-supplied quantity and options.
func FromBuyable(b Buyable, qty decimal.Decimal, options Options) (*Item, error) {
	return NewItem(b.BuyableID(), b.BuyableName(), qty, b.BuyablePrice(), options)
}

// FromRecord builds an item from a structured record with id/name/qty/price
// and an optional options mapping. Unparseable quantity or price values fail
// validation the same way missing ones do.
func FromRecord(rec map[string]any) (*Item, error) {
	id, ok := scalarString(rec["id"])
	if !ok || id == "" {
		return nil, NewValidationError("identifier")
	}
	name, ok := scalarString(rec["name"])
	if !ok || name == "" {
		return nil, NewValidationError("name")
	}
	qty, ok := scalarDecimal(rec["qty"])
	if !ok {
		return nil, NewValidationError("quantity")
	}
	price, ok := scalarDecimal(rec["price"])
	if !ok {
		return nil, NewValidationError("price")
	}

	options := NewOptions()
	switch opts := rec["options"].(type) {
	case nil:
	case Options:
		options = opts.Clone()
	case map[string]string:
		options = OptionsFromMap(opts)
	case map[string]any:
		m := make(map[string]string, len(opts))
		for k, v := range opts {
			s, ok := scalarString(v)
			if !ok {
				return nil, NewValidationError("options")
			}
			m[k] = s
		}
		options = OptionsFromMap(m)
	default:
		return nil, NewValidationError("options")
	}

	return NewItem(id, name, qty, price, options)
}

func scalarString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case int:
		return strconv.Itoa(s), true
	case int64:
		return strconv.FormatInt(s, 10), true
	case float64:
		return decimal.NewFromFloat(s).String(), true
	case json.Number:
		return s.String(), true
	default:
		return "", false
	}
}

func scalarDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case float64:
		return decimal.NewFromFloat(n), true
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(n)
		return d, err == nil
	default:
		return decimal.Decimal{}, false
	}
}

// SetOption adds or replaces one option and recomputes the row identity.
func (i *Item) SetOption(key, value string) {
	i.Options.Set(key, value)
	i.RowID = ComputeRowID(i.ID, i.Options)
}

// PriceTax is the unit price including tax.
func (i *Item) PriceTax() decimal.Decimal {
	return i.Price.Add(i.Tax())
}

// Tax is the tax amount per unit.
func (i *Item) Tax() decimal.Decimal {
	return i.Price.Mul(i.TaxRate).Div(decimal.NewFromInt(100))
}

// TaxTotal is the tax amount over the full quantity.
func (i *Item) TaxTotal() decimal.Decimal {
	return i.Tax().Mul(i.Qty)
}

// Subtotal is quantity times unit price, excluding tax.
func (i *Item) Subtotal() decimal.Decimal {
	return i.Qty.Mul(i.Price)
}

// Total is quantity times unit price including tax.
func (i *Item) Total() decimal.Decimal {
	return i.Qty.Mul(i.PriceTax())
}

// PriceFormatted renders the unit price with the given format.
func (i *Item) PriceFormatted(f NumberFormat) string { return f.Format(i.Price) }

// PriceTaxFormatted renders the tax-inclusive unit price.
func (i *Item) PriceTaxFormatted(f NumberFormat) string { return f.Format(i.PriceTax()) }

// SubtotalFormatted renders the subtotal.
func (i *Item) SubtotalFormatted(f NumberFormat) string { return f.Format(i.Subtotal()) }

// TotalFormatted renders the total.
func (i *Item) TotalFormatted(f NumberFormat) string { return f.Format(i.Total()) }

// TaxFormatted renders the per-unit tax.
func (i *Item) TaxFormatted(f NumberFormat) string { return f.Format(i.Tax()) }

// TaxTotalFormatted renders the tax over the full quantity.
func (i *Item) TaxTotalFormatted(f NumberFormat) string { return f.Format(i.TaxTotal()) }

// Clone returns an independent copy of the item.
func (i *Item) Clone() *Item {
	c := *i
	c.Options = i.Options.Clone()
	if i.Associated != nil {
		ref := *i.Associated
		c.Associated = &ref
	}
	return &c
}

type itemJSON struct {
	RowID      string          `json:"rowId"`
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Qty        decimal.Decimal `json:"qty"`
	Price      decimal.Decimal `json:"price"`
	Options    Options         `json:"options"`
	TaxRate    decimal.Decimal `json:"taxRate"`
	Associated *ModelRef       `json:"associated,omitempty"`
	Tax        decimal.Decimal `json:"tax"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

// MarshalJSON encodes the item with its derived tax and subtotal values
// included for consumers.
func (i *Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(itemJSON{
		RowID:      i.RowID,
		ID:         i.ID,
		Name:       i.Name,
		Qty:        i.Qty,
		Price:      i.Price,
		Options:    i.Options,
		TaxRate:    i.TaxRate,
		Associated: i.Associated,
		Tax:        i.Tax(),
		Subtotal:   i.Subtotal(),
	})
}

// UnmarshalJSON decodes an item. Derived fields in the document are ignored;
// the row ID is recomputed from id and options so stored blobs cannot smuggle
// in a mismatched identity.
func (i *Item) UnmarshalJSON(data []byte) error {
	var doc itemJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	i.ID = doc.ID
	i.Name = doc.Name
	i.Qty = doc.Qty
	i.Price = doc.Price
	i.Options = doc.Options
	i.TaxRate = doc.TaxRate
	i.Associated = doc.Associated
	i.RowID = ComputeRowID(i.ID, i.Options)
	return nil
}
