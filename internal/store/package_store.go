package store

import (
	"delivery-day-simulator/internal/domain"
	"delivery-day-simulator/internal/hashtable"
	"iter"
)

// PackageStore holds the day's packages keyed by package id in a
// hand-built chaining hash table. The bucket count is fixed at construction.
type PackageStore struct {
	table *hashtable.Table[int, domain.Package]
}

// NewPackageStore sizes the bucket array to the smallest prime above the
// expected package count.
func NewPackageStore(expected int) *PackageStore {
	return &PackageStore{
		table: hashtable.New[int, domain.Package](hashtable.BucketsFor(expected), hashtable.IntHash),
	}
}

// Insert stores the package, overwriting any entry with the same id.
func (s *PackageStore) Insert(pkg domain.Package) {
	s.table.Put(pkg.PackageID, pkg)
}

// Lookup returns a copy of the stored package.
func (s *PackageStore) Lookup(id int) (domain.Package, error) {
	pkg, ok := s.table.Get(id)
	if !ok {
		return domain.Package{}, &domain.KeyNotFoundError{PackageID: id}
	}
	return pkg, nil
}

// Update mutates the stored package in place.
func (s *PackageStore) Update(id int, fn func(*domain.Package)) error {
	if err := s.table.Update(id, fn); err != nil {
		return &domain.KeyNotFoundError{PackageID: id}
	}
	return nil
}

// All yields copies of every package in bucket order. The order is not
// insertion order and changes with the bucket count.
func (s *PackageStore) All() iter.Seq[domain.Package] {
	return func(yield func(domain.Package) bool) {
		for _, pkg := range s.table.All() {
			if !yield(pkg) {
				return
			}
		}
	}
}

func (s *PackageStore) Len() int { return s.table.Len() }

func (s *PackageStore) LoadFactor() float64 { return s.table.LoadFactor() }
