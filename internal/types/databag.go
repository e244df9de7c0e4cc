package types

import (
	"encoding/json"
	"fmt"
	"iter"
	"maps"
	"slices"
)

// ValueKind is the closed set of payload types a DataBag can hold.
type ValueKind int

const (
	ValueBytes ValueKind = iota
	ValueInt
	ValueString
	ValueBool
)

var valueKindNames = []string{"bytes", "int", "string", "bool"}

func (k ValueKind) String() string {
	if k >= 0 && int(k) < len(valueKindNames) {
		return valueKindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k ValueKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ValueKind) UnmarshalText(text []byte) error {
	idx := slices.Index(valueKindNames, string(text))
	if idx < 0 {
		return fmt.Errorf("unknown value kind %q", text)
	}
	*k = ValueKind(idx)
	return nil
}

// Value is a single typed DataBag entry.
type Value struct {
	Bytes  []byte    `json:"bytes,omitempty"`
	String string    `json:"string,omitempty"`
	Int    int64     `json:"int,omitempty"`
	Kind   ValueKind `json:"kind"`
	Bool   bool      `json:"bool,omitempty"`
}

// DataBag is an opaque per-song store of format-specific values.
//
// Getters report absence through their second return value and never error,
// including when the stored value has a different kind.
type DataBag struct {
	values map[string]Value
}

func (d *DataBag) set(key string, v Value) {
	if d.values == nil {
		d.values = make(map[string]Value)
	}
	d.values[key] = v
}

// SetBytes stores a byte payload. The slice is retained, not copied.
func (d *DataBag) SetBytes(key string, b []byte) {
	d.set(key, Value{Kind: ValueBytes, Bytes: b})
}

// SetInt stores an integer payload.
func (d *DataBag) SetInt(key string, v int64) {
	d.set(key, Value{Kind: ValueInt, Int: v})
}

// SetString stores a string payload.
func (d *DataBag) SetString(key, v string) {
	d.set(key, Value{Kind: ValueString, String: v})
}

// SetBool stores a boolean payload.
func (d *DataBag) SetBool(key string, v bool) {
	d.set(key, Value{Kind: ValueBool, Bool: v})
}

// Get returns the raw value for key.
func (d *DataBag) Get(key string) (Value, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Bytes returns the byte payload stored under key.
func (d *DataBag) Bytes(key string) ([]byte, bool) {
	v, ok := d.values[key]
	if !ok || v.Kind != ValueBytes {
		return nil, false
	}
	return v.Bytes, true
}

// Int returns the integer payload stored under key.
func (d *DataBag) Int(key string) (int64, bool) {
	v, ok := d.values[key]
	if !ok || v.Kind != ValueInt {
		return 0, false
	}
	return v.Int, true
}

// String returns the string payload stored under key.
func (d *DataBag) String(key string) (string, bool) {
	v, ok := d.values[key]
	if !ok || v.Kind != ValueString {
		return "", false
	}
	return v.String, true
}

// Bool returns the boolean payload stored under key; absent reads as false.
func (d *DataBag) Bool(key string) bool {
	v, ok := d.values[key]
	return ok && v.Kind == ValueBool && v.Bool
}

// Has reports whether key is present.
func (d *DataBag) Has(key string) bool {
	_, ok := d.values[key]
	return ok
}

// Delete removes key.
func (d *DataBag) Delete(key string) {
	delete(d.values, key)
}

// Len returns the number of entries.
func (d *DataBag) Len() int {
	return len(d.values)
}

// All iterates entries in key order.
func (d *DataBag) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, key := range slices.Sorted(maps.Keys(d.values)) {
			if !yield(key, d.values[key]) {
				return
			}
		}
	}
}

// MarshalJSON encodes the bag as an object of typed values.
func (d DataBag) MarshalJSON() ([]byte, error) {
	if d.values == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(d.values)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *DataBag) UnmarshalJSON(data []byte) error {
	var values map[string]Value
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	d.values = values
	return nil
}
