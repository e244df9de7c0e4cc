package qb

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"
)

// StringList maps keys to display strings, remembering insertion order.
// Lookups of unknown keys report absence rather than failing.
type StringList struct {
	values map[Key]string
	order  []Key
}

// NewStringList returns an empty list.
func NewStringList() *StringList {
	return &StringList{values: make(map[Key]string)}
}

// Add sets the string for key. Replacing an existing key keeps its position.
func (l *StringList) Add(key Key, value string) {
	if l.values == nil {
		l.values = make(map[Key]string)
	}
	if _, ok := l.values[key]; !ok {
		l.order = append(l.order, key)
	}
	l.values[key] = value
}

// AddName adds value under the hash of name.
func (l *StringList) AddName(name, value string) {
	l.Add(KeyOf(name), value)
}

// Merge adds every entry of other whose key is not already present.
func (l *StringList) Merge(other *StringList) {
	for k, v := range other.All() {
		if !l.Has(k) {
			l.Add(k, v)
		}
	}
}

// Find returns the string for key.
func (l *StringList) Find(key Key) (string, bool) {
	if l == nil {
		return "", false
	}
	s, ok := l.values[key]
	return s, ok
}

// Has reports whether key is present.
func (l *StringList) Has(key Key) bool {
	_, ok := l.Find(key)
	return ok
}

// Len returns the number of entries.
func (l *StringList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.order)
}

// All iterates entries in insertion order.
func (l *StringList) All() iter.Seq2[Key, string] {
	return func(yield func(Key, string) bool) {
		if l == nil {
			return
		}
		for _, k := range l.order {
			if !yield(k, l.values[k]) {
				return
			}
		}
	}
}

// ParseStringList reads a text string table. Each line holds a hex key and a
// quoted string:
//
//	0xD4C98794 "Song Title"
//
// Blank lines and lines starting with '#' are skipped. Unquoted text is
// taken verbatim.
func ParseStringList(r io.Reader) (*StringList, error) {
	l := NewStringList()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)

	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(strings.TrimPrefix(sc.Text(), "\uFEFF"))
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		keyText, value, _ := strings.Cut(text, " ")
		keyText = strings.TrimPrefix(strings.TrimPrefix(keyText, "0x"), "0X")
		k, err := strconv.ParseUint(keyText, 16, 32)
		if err != nil {
			return nil, fmt.Errorf("string table line %d: bad key %q: %w", line, keyText, err)
		}

		value = strings.TrimSpace(value)
		if unquoted, err := strconv.Unquote(value); err == nil {
			value = unquoted
		}
		l.Add(Key(k), value)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read string table: %w", err)
	}
	return l, nil
}

// WriteTo writes the list in the format read by ParseStringList.
func (l *StringList) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for k, v := range l.All() {
		n, err := fmt.Fprintf(w, "%s %s\n", k, strconv.Quote(v))
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
