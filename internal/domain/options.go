package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Options is an ordered set of option attributes (size, color, ...) attached
// to a wishlist item. Insertion order is preserved for display and JSON
// encoding, but identity hashing is order-insensitive: two option sets with
// the same key/value pairs produce the same canonical form regardless of the
// order they were built in.
type Options struct {
	keys []string
	vals map[string]string
}

// NewOptions returns an empty option set.
func NewOptions() Options {
	return Options{vals: map[string]string{}}
}

// OptionsFromMap builds an option set from a plain map. Keys are inserted in
// sorted order since map iteration order is not stable.
func OptionsFromMap(m map[string]string) Options {
	o := NewOptions()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		o.Set(k, m[k])
	}
	return o
}

// Set adds or replaces an option value. A new key is appended to the
// insertion order.
func (o *Options) Set(key, value string) {
	if o.vals == nil {
		o.vals = map[string]string{}
	}
	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = value
}

// Get returns the value for key and whether it is present.
func (o Options) Get(key string) (string, bool) {
	v, ok := o.vals[key]
	return v, ok
}

// Len returns the number of options.
func (o Options) Len() int {
	return len(o.keys)
}

// Keys returns the option keys in insertion order.
func (o Options) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Equal reports whether both option sets hold the same key/value pairs,
// ignoring insertion order.
func (o Options) Equal(other Options) bool {
	if len(o.vals) != len(other.vals) {
		return false
	}
	for k, v := range o.vals {
		if ov, ok := other.vals[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (o Options) Clone() Options {
	c := Options{
		keys: make([]string, len(o.keys)),
		vals: make(map[string]string, len(o.vals)),
	}
	copy(c.keys, o.keys)
	for k, v := range o.vals {
		c.vals[k] = v
	}
	return c
}

// canonical returns the identity serialization of the option set: keys sorted
// lexicographically, encoded as a length-prefixed map literal. This encoding
// feeds the row ID hash, so it must never change once stored hashes exist.
func (o Options) canonical() string {
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	sort.Strings(keys)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "a:%d:{", len(keys))
	for _, k := range keys {
		v := o.vals[k]
		fmt.Fprintf(&buf, `s:%d:"%s";s:%d:"%s";`, len(k), k, len(v), v)
	}
	buf.WriteByte('}')
	return buf.String()
}

// MarshalJSON encodes the options as a JSON object in insertion order.
func (o Options) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(o.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, preserving the document's key order.
func (o *Options) UnmarshalJSON(data []byte) error {
	*o = NewOptions()
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("options: expected JSON object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("options: non-string key %v", keyTok)
		}
		var val string
		if err := dec.Decode(&val); err != nil {
			return fmt.Errorf("options: value for %q: %w", key, err)
		}
		o.Set(key, val)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
