package kv

import (
	"fmt"
	"unicode/utf8"
)

// index tracks key order and per-entry byte sizes for quota accounting. It is
// shared by every backend and guarded by the owning store's mutex.
type index struct {
	keys  []string
	pos   map[string]int // key → position in keys
	sizes map[string]int // key → len(key)+len(value)
	used  int
	quota int // 0 = unlimited
}

func newIndex(quota int) *index {
	return &index{
		pos:   make(map[string]int),
		sizes: make(map[string]int),
		quota: quota,
	}
}

func entrySize(key, value string) int {
	return len(key) + len(value)
}

// checkUTF8 rejects entries that a text encoding would alter.
func checkUTF8(key, value string) error {
	if !utf8.ValidString(key) {
		return fmt.Errorf("kv: set %q: key: %w", key, ErrInvalidUTF8)
	}
	if !utf8.ValidString(value) {
		return fmt.Errorf("kv: set %q: value: %w", key, ErrInvalidUTF8)
	}
	return nil
}

// fits reports whether storing value under key stays within the quota.
// An overwrite only counts the growth over the existing entry.
func (x *index) fits(key, value string) bool {
	if x.quota <= 0 {
		return true
	}
	next := x.used - x.sizes[key] + entrySize(key, value)
	return next <= x.quota
}

// put records key with the given entry size, appending it if new.
func (x *index) put(key string, size int) {
	if _, ok := x.pos[key]; !ok {
		x.pos[key] = len(x.keys)
		x.keys = append(x.keys, key)
	}
	x.used += size - x.sizes[key]
	x.sizes[key] = size
}

func (x *index) keyAt(i int) (string, bool) {
	if i < 0 || i >= len(x.keys) {
		return "", false
	}
	return x.keys[i], true
}

func (x *index) reset() {
	x.keys = nil
	x.pos = make(map[string]int)
	x.sizes = make(map[string]int)
	x.used = 0
}
