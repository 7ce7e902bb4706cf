package distance

import (
	"delivery-day-simulator/internal/domain"
	"delivery-day-simulator/internal/hashtable"
	"errors"
	"fmt"
	"slices"
)

type pair struct{ a, b string }

// pairKey orders the two names so (A,B) and (B,A) share one entry.
func pairKey(a, b string) pair {
	if b < a {
		a, b = b, a
	}
	return pair{a: a, b: b}
}

func hashPair(p pair) uint64 {
	return hashtable.StringHash(p.a + "\x00" + p.b)
}

// Table is a symmetric, fully populated distance lookup in miles.
// It is immutable after construction.
type Table struct {
	locations []string
	known     *hashtable.Table[string, struct{}]
	miles     *hashtable.Table[pair, float64]
}

// NewTable validates the entries once and builds the lookup.
// Every unordered pair of distinct locations must be present; an entry given
// in both directions must agree; self distances must be zero.
func NewTable(locations []string, entries []domain.DistanceEntry) (*Table, error) {
	if len(locations) == 0 {
		return nil, errors.New("distance table: no locations")
	}

	known := hashtable.New[string, struct{}](hashtable.BucketsFor(len(locations)), hashtable.StringHash)
	names := make([]string, 0, len(locations))
	for _, loc := range locations {
		if loc == "" {
			return nil, errors.New("distance table: empty location name")
		}
		if known.Contains(loc) {
			return nil, fmt.Errorf("distance table: duplicate location %q", loc)
		}
		known.Put(loc, struct{}{})
		names = append(names, loc)
	}

	nPairs := len(names) * (len(names) - 1) / 2
	miles := hashtable.New[pair, float64](hashtable.BucketsFor(nPairs), hashPair)

	for _, e := range entries {
		if !known.Contains(e.From) || !known.Contains(e.To) {
			return nil, fmt.Errorf("distance table: %w", &domain.LookupError{From: e.From, To: e.To})
		}
		if e.Miles < 0 {
			return nil, fmt.Errorf("distance table: negative distance %q -> %q: %v", e.From, e.To, e.Miles)
		}
		if e.From == e.To {
			if e.Miles != 0 {
				return nil, fmt.Errorf("distance table: self distance for %q is %v, want 0", e.From, e.Miles)
			}
			continue
		}

		k := pairKey(e.From, e.To)
		if prev, ok := miles.Get(k); ok && prev != e.Miles {
			return nil, fmt.Errorf(
				"distance table: asymmetric distance %q <-> %q: %v vs %v",
				e.From, e.To, prev, e.Miles,
			)
		}
		miles.Put(k, e.Miles)
	}

	if miles.Len() != nPairs {
		for i, a := range names {
			for _, b := range names[i+1:] {
				if !miles.Contains(pairKey(a, b)) {
					return nil, fmt.Errorf("distance table: missing distance %q <-> %q", a, b)
				}
			}
		}
	}

	return &Table{locations: names, known: known, miles: miles}, nil
}

// FromMatrix builds a table from a lower-triangular matrix where row i
// holds the distances from locations[i] to locations[0..i]. Full square
// rows are accepted too; the upper half must mirror the lower half.
func FromMatrix(locations []string, rows [][]float64) (*Table, error) {
	if len(rows) != len(locations) {
		return nil, fmt.Errorf("distance matrix: %d rows for %d locations", len(rows), len(locations))
	}

	entries := make([]domain.DistanceEntry, 0, len(locations)*len(locations))
	for i, row := range rows {
		if len(row) < i+1 {
			return nil, fmt.Errorf("distance matrix: row %d has %d values, want at least %d", i, len(row), i+1)
		}
		if len(row) > len(locations) {
			return nil, fmt.Errorf("distance matrix: row %d has %d values for %d locations", i, len(row), len(locations))
		}
		for j, m := range row {
			entries = append(entries, domain.DistanceEntry{From: locations[i], To: locations[j], Miles: m})
		}
	}

	return NewTable(locations, entries)
}

// Distance returns the miles between a and b.
func (t *Table) Distance(a, b string) (float64, error) {
	if !t.known.Contains(a) || !t.known.Contains(b) {
		return 0, &domain.LookupError{From: a, To: b}
	}
	if a == b {
		return 0, nil
	}
	m, ok := t.miles.Get(pairKey(a, b))
	if !ok {
		return 0, &domain.LookupError{From: a, To: b}
	}
	return m, nil
}

// Has reports whether the location is known.
func (t *Table) Has(loc string) bool { return t.known.Contains(loc) }

// Locations returns the known names in load order.
func (t *Table) Locations() []string { return slices.Clone(t.locations) }
