// Package qb implements the hashed item tree used for Neversoft song
// metadata: 32-bit hashed keys, the item tree itself, its binary encoding
// and string tables that resolve key references to display text.
package qb

import (
	"fmt"
	"hash/crc32"
	"strings"
)

// Key is the 32-bit hash that addresses a field in an item tree.
// Keys compare by hash value only.
type Key uint32

// KeyOf hashes a field name. Names are case-insensitive.
func KeyOf(name string) Key {
	// The titles keep the CRC register without the final inversion.
	return Key(^crc32.ChecksumIEEE([]byte(strings.ToLower(name))))
}

func (k Key) String() string {
	return fmt.Sprintf("0x%08X", uint32(k))
}

// NamedKey pairs a key with the name it was derived from. The name is only
// used for diagnostics; equality must go through Key.
type NamedKey struct {
	Name string
	Key  Key
}

// Named returns the NamedKey for name.
func Named(name string) NamedKey {
	return NamedKey{Name: name, Key: KeyOf(name)}
}

func (n NamedKey) String() string {
	if n.Name == "" {
		return n.Key.String()
	}
	return fmt.Sprintf("%s(%s)", n.Name, n.Key)
}
