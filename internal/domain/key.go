package domain

import (
	"fmt"
	"strings"
)

// keySeparator joins key fields in the textual form used on the command line.
const keySeparator = "|"

// Key is the identity tuple (title, author, year, genre).
// Two books with the same Key are indistinguishable to bulk operations.
type Key struct {
	Title  string
	Author string
	Year   string
	Genre  string
}

// String renders the key as "title|author|year|genre".
func (k Key) String() string {
	return strings.Join([]string{k.Title, k.Author, k.Year, k.Genre}, keySeparator)
}

// ParseKey parses "title|author|year" or "title|author|year|genre".
func ParseKey(s string) (Key, error) {
	parts := strings.Split(s, keySeparator)
	if len(parts) < 3 || len(parts) > 4 {
		return Key{}, fmt.Errorf("key %q must be title|author|year[|genre]", s)
	}
	k := Key{Title: parts[0], Author: parts[1], Year: parts[2]}
	if len(parts) == 4 {
		k.Genre = parts[3]
	}
	return k, nil
}

// KeySet is a set of identity tuples.
type KeySet map[Key]struct{}

// NewKeySet builds a set from keys.
func NewKeySet(keys ...Key) KeySet {
	s := make(KeySet, len(keys))
	for _, k := range keys {
		s.Add(k)
	}
	return s
}

// Add inserts k.
func (s KeySet) Add(k Key) {
	s[k] = struct{}{}
}

// Has reports whether k is in the set. A nil set holds nothing.
func (s KeySet) Has(k Key) bool {
	_, ok := s[k]
	return ok
}

// Len returns the number of distinct keys.
func (s KeySet) Len() int {
	return len(s)
}
