// Package catalog holds the read-only game catalog and the filter engine
// that narrows it by title search and genre.
//
// A Store is built once at startup and never mutated afterwards, so it is
// safe for concurrent readers without locking. Filtering is a pure function
// over a product slice and preserves catalog order.
package catalog

import (
	"errors"
	"fmt"
	"hash/fnv"
	"strconv"

	"github.com/tbourn/go-keynexus/internal/domain"
)

// ErrDuplicateID is returned by NewStore when two products share an id.
var ErrDuplicateID = errors.New("duplicate product id")

// Store is an immutable, ordered collection of products.
type Store struct {
	products []domain.Product
	byID     map[string]int
	version  string
}

// NewStore validates products and freezes them into a Store. The input order
// becomes the catalog order.
func NewStore(products []domain.Product) (*Store, error) {
	s := &Store{
		products: make([]domain.Product, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	h := fnv.New64a()
	for i, p := range products {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := s.byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, p.ID)
		}
		s.byID[p.ID] = i
		s.products[i] = p
		fmt.Fprintf(h, "%s|%s|%s|%d\n", p.ID, p.Title, p.Price.String(), p.Discount)
	}
	s.version = strconv.FormatUint(h.Sum64(), 36)
	return s, nil
}

// All returns the catalog in order. The returned slice is a copy.
func (s *Store) All() []domain.Product {
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Get looks a product up by id.
func (s *Store) Get(id string) (domain.Product, bool) {
	i, ok := s.byID[id]
	if !ok {
		return domain.Product{}, false
	}
	return s.products[i], true
}

// Len reports the number of products.
func (s *Store) Len() int { return len(s.products) }

// Version is a stable fingerprint of the catalog contents, suitable for ETags.
func (s *Store) Version() string { return s.version }

// Filter applies c to the whole catalog.
func (s *Store) Filter(c Criteria) []domain.Product {
	return Filter(s.products, c.Query, c.Genre)
}
