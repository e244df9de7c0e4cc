package qb

import "fmt"

// ItemType tags the variant an Item holds.
type ItemType uint8

const (
	TypeStruct ItemType = iota + 1
	TypeArray
	TypeString
	TypeWideString
	TypeInteger
	TypeFloat
	TypeKeyRef
)

func (t ItemType) String() string {
	switch t {
	case TypeStruct:
		return "struct"
	case TypeArray:
		return "array"
	case TypeString:
		return "string"
	case TypeWideString:
		return "wstring"
	case TypeInteger:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeKeyRef:
		return "keyref"
	default:
		return fmt.Sprintf("type(%d)", uint8(t))
	}
}

// IsContainer reports whether items of this type own child items.
func (t ItemType) IsContainer() bool {
	return t == TypeStruct || t == TypeArray
}

// Item is one node of an item tree. Which value slice is populated depends
// on Type; a Struct or Array keeps its children in Items, in file order.
type Item struct {
	Format *PakFormat

	Items    []*Item
	Strings  []string
	Integers []int32
	Floats   []float32
	Keys     []Key

	Key   Key
	Type  ItemType
	Flags uint8
}

// NewStruct returns an empty struct item.
func NewStruct(key Key) *Item { return &Item{Type: TypeStruct, Key: key} }

// NewArray returns an empty array item.
func NewArray(key Key) *Item { return &Item{Type: TypeArray, Key: key} }

// NewString returns a string item.
func NewString(key Key, values ...string) *Item {
	return &Item{Type: TypeString, Key: key, Strings: values}
}

// NewWideString returns a wide string item.
func NewWideString(key Key, values ...string) *Item {
	return &Item{Type: TypeWideString, Key: key, Strings: values}
}

// NewInteger returns an integer item.
func NewInteger(key Key, values ...int32) *Item {
	return &Item{Type: TypeInteger, Key: key, Integers: values}
}

// NewFloat returns a float item.
func NewFloat(key Key, values ...float32) *Item {
	return &Item{Type: TypeFloat, Key: key, Floats: values}
}

// NewKeyRef returns a key reference item.
func NewKeyRef(key Key, values ...Key) *Item {
	return &Item{Type: TypeKeyRef, Key: key, Keys: values}
}

// Add appends child items and returns the receiver.
func (it *Item) Add(children ...*Item) *Item {
	for _, c := range children {
		if c.Format == nil {
			c.Format = it.Format
		}
	}
	it.Items = append(it.Items, children...)
	return it
}

// FindItem returns the first direct child whose key matches. When recursive
// is set and no direct child matches, nested structs and arrays are searched
// depth-first. It returns nil when nothing matches.
func (it *Item) FindItem(key Key, recursive bool) *Item {
	for _, c := range it.Items {
		if c.Key == key {
			return c
		}
	}
	if !recursive {
		return nil
	}
	for _, c := range it.Items {
		if !c.Type.IsContainer() {
			continue
		}
		if found := c.FindItem(key, true); found != nil {
			return found
		}
	}
	return nil
}

// Find returns the direct child matching the first present candidate key.
func (it *Item) Find(candidates ...Key) *Item {
	for _, k := range candidates {
		if found := it.FindItem(k, false); found != nil {
			return found
		}
	}
	return nil
}

// Integer returns the first integer value.
func (it *Item) Integer() (int32, bool) {
	if it == nil || it.Type != TypeInteger || len(it.Integers) == 0 {
		return 0, false
	}
	return it.Integers[0], true
}

// Float returns the first float value. Integer items convert.
func (it *Item) Float() (float32, bool) {
	if it == nil {
		return 0, false
	}
	switch {
	case it.Type == TypeFloat && len(it.Floats) > 0:
		return it.Floats[0], true
	case it.Type == TypeInteger && len(it.Integers) > 0:
		return float32(it.Integers[0]), true
	}
	return 0, false
}

// Text returns the first value of a string or wide string item.
func (it *Item) Text() (string, bool) {
	if it == nil || (it.Type != TypeString && it.Type != TypeWideString) || len(it.Strings) == 0 {
		return "", false
	}
	return it.Strings[0], true
}

// KeyRef returns the first key of a key reference item.
func (it *Item) KeyRef() (Key, bool) {
	if it == nil || it.Type != TypeKeyRef || len(it.Keys) == 0 {
		return 0, false
	}
	return it.Keys[0], true
}

// Resolve returns the item's text. Key references are looked up in strings;
// an unresolved reference yields "".
func (it *Item) Resolve(strings *StringList) string {
	if s, ok := it.Text(); ok {
		return s
	}
	if k, ok := it.KeyRef(); ok && strings != nil {
		s, _ := strings.Find(k)
		return s
	}
	return ""
}

// Clone returns a deep copy of the item.
func (it *Item) Clone() *Item {
	c := *it
	c.Strings = append([]string(nil), it.Strings...)
	c.Integers = append([]int32(nil), it.Integers...)
	c.Floats = append([]float32(nil), it.Floats...)
	c.Keys = append([]Key(nil), it.Keys...)
	c.Items = nil
	for _, child := range it.Items {
		c.Items = append(c.Items, child.Clone())
	}
	return &c
}

func (it *Item) len() int {
	switch it.Type {
	case TypeStruct, TypeArray:
		return len(it.Items)
	case TypeString, TypeWideString:
		return len(it.Strings)
	case TypeInteger:
		return len(it.Integers)
	case TypeFloat:
		return len(it.Floats)
	case TypeKeyRef:
		return len(it.Keys)
	}
	return 0
}
