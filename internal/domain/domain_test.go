package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func opts(pairs ...string) Options {
	o := NewOptions()
	for i := 0; i+1 < len(pairs); i += 2 {
		o.Set(pairs[i], pairs[i+1])
	}
	return o
}

func TestComputeRowID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		options Options
		want    string
	}{
		{"id 1 no options", "1", NewOptions(), "027c91341fd5cf4d2579b49c4b6a90da"},
		{"id 2 no options", "2", NewOptions(), "370d08585360f5c568b18d1f2e4ca1df"},
		{"red option", "1", opts("color", "red"), "ea65e0bdcd1967c4b3149e9e780177c0"},
		{"blue option", "1", opts("color", "blue"), "7e70a1e9aaadd18c72921a07aae5d011"},
		{"two options", "1", opts("size", "XL", "color", "red"), "07d5da5550494c62daf9993cf954303f"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeRowID(tt.id, tt.options))
		})
	}
}

func TestComputeRowIDOrderIndependent(t *testing.T) {
	a := opts("size", "XL", "color", "red")
	b := opts("color", "red", "size", "XL")

	assert.Equal(t, ComputeRowID("1", a), ComputeRowID("1", b))
	assert.Equal(t, ComputeRowID("1", a), ComputeRowID("1", a))
}

func TestComputeRowIDDistinguishes(t *testing.T) {
	base := ComputeRowID("1", opts("color", "red"))

	assert.NotEqual(t, base, ComputeRowID("2", opts("color", "red")))
	assert.NotEqual(t, base, ComputeRowID("1", opts("color", "blue")))
	assert.NotEqual(t, base, ComputeRowID("1", opts("colour", "red")))
	assert.NotEqual(t, base, ComputeRowID("1", NewOptions()))
}

func TestOptionsPreserveInsertionOrder(t *testing.T) {
	o := opts("size", "XL", "color", "red", "band", "leather")

	assert.Equal(t, []string{"size", "color", "band"}, o.Keys())

	data, err := json.Marshal(o)
	require.NoError(t, err)
	assert.Equal(t, `{"size":"XL","color":"red","band":"leather"}`, string(data))

	var back Options
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []string{"size", "color", "band"}, back.Keys())
	assert.True(t, o.Equal(back))
}

func TestOptionsEqualIgnoresOrder(t *testing.T) {
	a := opts("size", "XL", "color", "red")
	b := opts("color", "red", "size", "XL")

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(opts("size", "XL")))
	assert.False(t, a.Equal(opts("size", "XL", "color", "blue")))
}

func TestOptionsCloneIsIndependent(t *testing.T) {
	a := opts("color", "red")
	b := a.Clone()
	b.Set("color", "blue")

	v, _ := a.Get("color")
	assert.Equal(t, "red", v)
}

func TestNewItemValidationOrder(t *testing.T) {
	qty := decimal.NewFromInt(1)
	price := decimal.NewFromFloat(10.00)

	_, err := NewItem("", "", qty, price, NewOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "identifier")

	_, err = NewItem("1", "", qty, price, NewOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")

	_, err = NewItem("1", "Some item", qty, decimal.NewFromInt(-1), NewOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "price")
}

func TestFromRecord(t *testing.T) {
	item, err := FromRecord(map[string]any{
		"id":    1,
		"name":  "Some item",
		"qty":   2,
		"price": 10.00,
		"options": map[string]any{
			"size":  "XL",
			"color": "red",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "07d5da5550494c62daf9993cf954303f", item.RowID)
	assert.Equal(t, "1", item.ID)
	assert.True(t, item.Qty.Equal(decimal.NewFromInt(2)))
}

func TestFromRecordValidation(t *testing.T) {
	tests := []struct {
		name  string
		rec   map[string]any
		field string
	}{
		{"missing id", map[string]any{"name": "x", "qty": 1, "price": 1}, "identifier"},
		{"missing name", map[string]any{"id": "1", "qty": 1, "price": 1}, "name"},
		{"non-numeric qty", map[string]any{"id": "1", "name": "x", "qty": "lots", "price": 1}, "quantity"},
		{"non-numeric price", map[string]any{"id": "1", "name": "x", "qty": 1, "price": "cheap"}, "price"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromRecord(tt.rec)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestItemDerivedValues(t *testing.T) {
	item, err := NewItem("1", "Some item", decimal.NewFromInt(2), decimal.NewFromFloat(10.00), opts("size", "XL", "color", "red"))
	require.NoError(t, err)

	assert.Equal(t, "07d5da5550494c62daf9993cf954303f", item.RowID)
	assert.True(t, item.Subtotal().Equal(decimal.NewFromFloat(20.00)), "subtotal %s", item.Subtotal())
	assert.True(t, item.Tax().IsZero())
	assert.True(t, item.TaxTotal().IsZero())
	assert.True(t, item.Total().Equal(decimal.NewFromFloat(20.00)))
}

func TestItemTaxAt21Percent(t *testing.T) {
	item, err := NewItem("1", "First item", decimal.NewFromInt(1), decimal.NewFromFloat(10.00), NewOptions())
	require.NoError(t, err)
	item.TaxRate = decimal.NewFromInt(21)

	assert.True(t, item.Tax().Equal(decimal.NewFromFloat(2.10)), "tax %s", item.Tax())
	assert.True(t, item.PriceTax().Equal(decimal.NewFromFloat(12.10)))
	assert.True(t, item.Total().Equal(decimal.NewFromFloat(12.10)))
}

func TestSetOptionRecomputesRowID(t *testing.T) {
	item, err := NewItem("1", "Some item", decimal.NewFromInt(1), decimal.NewFromFloat(10.00), opts("color", "red"))
	require.NoError(t, err)
	assert.Equal(t, "ea65e0bdcd1967c4b3149e9e780177c0", item.RowID)

	item.SetOption("color", "blue")
	assert.Equal(t, "7e70a1e9aaadd18c72921a07aae5d011", item.RowID)
}

func TestNumberFormat(t *testing.T) {
	tests := []struct {
		name   string
		value  decimal.Decimal
		format NumberFormat
		want   string
	}{
		{"default", decimal.NewFromFloat(1234.5), DefaultNumberFormat(), "1,234.50"},
		{"european", decimal.NewFromFloat(6000.00), NumberFormat{Decimals: 2, Point: ",", Thousands: "."}, "6.000,00"},
		{"no decimals", decimal.NewFromFloat(1500.75), NumberFormat{Decimals: 0, Point: ".", Thousands: ","}, "1,501"},
		{"million", decimal.NewFromInt(1234567), DefaultNumberFormat(), "1,234,567.00"},
		{"small", decimal.NewFromFloat(9.99), DefaultNumberFormat(), "9.99"},
		{"negative", decimal.NewFromFloat(-1234.5), DefaultNumberFormat(), "-1,234.50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.format.Format(tt.value))
		})
	}
}

func TestFormatOverride(t *testing.T) {
	base := DefaultNumberFormat()
	point := ","
	thousands := "."

	merged := base.With(&FormatOverride{Point: &point, Thousands: &thousands})
	assert.Equal(t, "6.000,00", merged.Format(decimal.NewFromInt(6000)))

	assert.Equal(t, base, base.With(nil))
}

func TestContentPutMergeAndOrder(t *testing.T) {
	c := NewContent()

	first, err := NewItem("1", "First item", decimal.NewFromInt(1), decimal.NewFromFloat(10.00), NewOptions())
	require.NoError(t, err)
	second, err := NewItem("2", "Second item", decimal.NewFromInt(1), decimal.NewFromFloat(5.00), NewOptions())
	require.NoError(t, err)

	c.Put(first)
	c.Put(second)
	require.Equal(t, 2, c.Len())
	assert.Equal(t, []string{first.RowID, second.RowID}, c.RowIDs())

	// Replacing an existing row keeps its position.
	replacement := first.Clone()
	replacement.Qty = decimal.NewFromInt(5)
	c.Put(replacement)
	require.Equal(t, 2, c.Len())
	assert.Equal(t, []string{first.RowID, second.RowID}, c.RowIDs())

	got, ok := c.Get(first.RowID)
	require.True(t, ok)
	assert.True(t, got.Qty.Equal(decimal.NewFromInt(5)))
}

func TestContentPull(t *testing.T) {
	c := NewContent()
	item, err := NewItem("1", "First item", decimal.NewFromInt(1), decimal.NewFromFloat(10.00), NewOptions())
	require.NoError(t, err)
	c.Put(item)

	pulled, ok := c.Pull(item.RowID)
	require.True(t, ok)
	assert.Equal(t, item.RowID, pulled.RowID)
	assert.Equal(t, 0, c.Len())

	_, ok = c.Pull(item.RowID)
	assert.False(t, ok)
}

func TestContentAggregates(t *testing.T) {
	c := NewContent()

	first, err := NewItem("1", "First item", decimal.NewFromInt(1), decimal.NewFromFloat(10.00), NewOptions())
	require.NoError(t, err)
	first.TaxRate = decimal.NewFromInt(21)
	second, err := NewItem("2", "Second item", decimal.NewFromInt(1), decimal.NewFromFloat(10.00), NewOptions())
	require.NoError(t, err)
	second.TaxRate = decimal.NewFromInt(21)

	c.Put(first)
	c.Put(second)

	assert.True(t, c.Count().Equal(decimal.NewFromInt(2)))
	assert.True(t, c.Subtotal().Equal(decimal.NewFromFloat(20.00)))
	assert.True(t, c.Tax().Equal(decimal.NewFromFloat(4.20)), "tax %s", c.Tax())
	assert.True(t, c.Total().Equal(decimal.NewFromFloat(24.20)))
}

func TestContentFilterPreservesOrder(t *testing.T) {
	c := NewContent()
	for _, id := range []string{"1", "2", "3"} {
		item, err := NewItem(id, "Item "+id, decimal.NewFromInt(1), decimal.NewFromFloat(10.00), NewOptions())
		require.NoError(t, err)
		c.Put(item)
	}

	filtered := c.Filter(func(i *Item) bool { return i.ID != "2" })

	require.Equal(t, 2, filtered.Len())
	items := filtered.Items()
	assert.Equal(t, "1", items[0].ID)
	assert.Equal(t, "3", items[1].ID)
	assert.Equal(t, 3, c.Len())
}

func TestContentJSONRoundTrip(t *testing.T) {
	c := NewContent()

	first, err := NewItem("1", "Some item", decimal.NewFromInt(2), decimal.NewFromFloat(10.00), opts("size", "XL", "color", "red"))
	require.NoError(t, err)
	first.TaxRate = decimal.NewFromInt(21)
	first.Associated = &ModelRef{Type: "product", ID: "sku-1"}
	second, err := NewItem("2", "Second item", decimal.NewFromFloat(0.5), decimal.NewFromFloat(3.33), NewOptions())
	require.NoError(t, err)

	c.Put(first)
	c.Put(second)

	data, err := json.Marshal(c)
	require.NoError(t, err)

	var back Content
	require.NoError(t, json.Unmarshal(data, &back))

	require.Equal(t, 2, back.Len())
	assert.Equal(t, c.RowIDs(), back.RowIDs())

	got, ok := back.Get(first.RowID)
	require.True(t, ok)
	assert.Equal(t, "Some item", got.Name)
	assert.True(t, got.Qty.Equal(first.Qty))
	assert.True(t, got.TaxRate.Equal(first.TaxRate))
	require.NotNil(t, got.Associated)
	assert.Equal(t, "product", got.Associated.Type)
	assert.Equal(t, []string{"size", "color"}, got.Options.Keys())
}
