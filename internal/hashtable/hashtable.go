package hashtable

import (
	"errors"
	"iter"

	"github.com/cespare/xxhash/v2"
)

// ErrNotFound is returned when a key has no entry in the table.
var ErrNotFound = errors.New("hashtable: key not found")

// Hasher maps a key to an unsigned hash value. The table reduces it
// modulo its bucket count.
type Hasher[K comparable] func(K) uint64

type entry[K comparable, V any] struct {
	key   K
	value V
}

// Table is a separate-chaining hash table with a fixed bucket array.
//
// Each bucket holds a small slice of entries that absorbs collisions.
// Lookups are O(1) on average and O(n) when every key lands in one bucket.
// The bucket count never changes after construction.
type Table[K comparable, V any] struct {
	buckets [][]entry[K, V]
	hash    Hasher[K]
	size    int
}

// New creates a table with the given bucket count. A count below 1 is
// raised to 1.
func New[K comparable, V any](buckets int, hash Hasher[K]) *Table[K, V] {
	if buckets < 1 {
		buckets = 1
	}
	return &Table[K, V]{
		buckets: make([][]entry[K, V], buckets),
		hash:    hash,
	}
}

func (t *Table[K, V]) index(key K) int {
	return int(t.hash(key) % uint64(len(t.buckets)))
}

// Put stores value under key, overwriting an existing entry.
func (t *Table[K, V]) Put(key K, value V) {
	i := t.index(key)
	for j := range t.buckets[i] {
		if t.buckets[i][j].key == key {
			t.buckets[i][j].value = value
			return
		}
	}
	t.buckets[i] = append(t.buckets[i], entry[K, V]{key: key, value: value})
	t.size++
}

// Get returns the value stored under key.
func (t *Table[K, V]) Get(key K) (V, bool) {
	i := t.index(key)
	for j := range t.buckets[i] {
		if t.buckets[i][j].key == key {
			return t.buckets[i][j].value, true
		}
	}
	var zero V
	return zero, false
}

// Contains reports whether key has an entry.
func (t *Table[K, V]) Contains(key K) bool {
	_, ok := t.Get(key)
	return ok
}

// Update applies fn to the stored value in place.
func (t *Table[K, V]) Update(key K, fn func(*V)) error {
	i := t.index(key)
	for j := range t.buckets[i] {
		if t.buckets[i][j].key == key {
			fn(&t.buckets[i][j].value)
			return nil
		}
	}
	return ErrNotFound
}

// Delete removes key and reports whether it was present.
func (t *Table[K, V]) Delete(key K) bool {
	i := t.index(key)
	chain := t.buckets[i]
	for j := range chain {
		if chain[j].key == key {
			t.buckets[i] = append(chain[:j], chain[j+1:]...)
			t.size--
			return true
		}
	}
	return false
}

// Len is the number of stored entries.
func (t *Table[K, V]) Len() int { return t.size }

// Buckets is the fixed bucket count chosen at construction.
func (t *Table[K, V]) Buckets() int { return len(t.buckets) }

// LoadFactor is the ratio of stored entries to buckets.
func (t *Table[K, V]) LoadFactor() float64 {
	return float64(t.size) / float64(len(t.buckets))
}

// All yields every entry in bucket order, then chain order.
// The order depends on the bucket count, not on insertion order.
func (t *Table[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, chain := range t.buckets {
			for _, e := range chain {
				if !yield(e.key, e.value) {
					return
				}
			}
		}
	}
}

// IntHash hashes non-negative integer ids to themselves so that
// consecutive ids spread across consecutive buckets.
func IntHash(k int) uint64 {
	if k < 0 {
		return uint64(-k)
	}
	return uint64(k)
}

// StringHash hashes string keys with xxhash.
func StringHash(k string) uint64 { return xxhash.Sum64String(k) }

// BucketsFor returns the smallest prime strictly greater than expected,
// which keeps the load factor just under one for a known entry count.
func BucketsFor(expected int) int {
	n := expected + 1
	if n < 2 {
		n = 2
	}
	for !isPrime(n) {
		n++
	}
	return n
}

func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	if n%2 == 0 {
		return n == 2
	}
	for d := 3; d*d <= n; d += 2 {
		if n%d == 0 {
			return false
		}
	}
	return true
}
