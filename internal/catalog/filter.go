package catalog

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/tbourn/go-keynexus/internal/domain"
)

// Criteria is the pair of predicates a shopper can set.
type Criteria struct {
	Query string
	Genre domain.Genre
}

// Active reports whether any predicate narrows the catalog. An inactive
// Criteria is the featured listing, as opposed to a search with no hits.
func (c Criteria) Active() bool {
	return c.Query != "" || !matchesAllGenres(c.Genre)
}

// Filter returns the products whose title contains query (case-insensitive)
// and whose genre matches genre. Catalog order is preserved and the result
// is never nil: an empty slice means nothing matched.
//
// An empty query matches every title; domain.GenreAll (or the zero Genre)
// matches every genre.
func Filter(products []domain.Product, query string, genre domain.Genre) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	folder := cases.Fold()
	needle := folder.String(query)
	for _, p := range products {
		if !matchesAllGenres(genre) && p.Genre != genre {
			continue
		}
		if needle != "" && !strings.Contains(folder.String(p.Title), needle) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ParseGenreSelector maps user input to a genre selector: "" and "all" (any
// case) select every genre, a known genre name selects that genre.
func ParseGenreSelector(s string) (domain.Genre, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, string(domain.GenreAll)) {
		return domain.GenreAll, nil
	}
	g, err := domain.ParseGenre(s)
	if err != nil {
		return "", fmt.Errorf("genre selector: %w", err)
	}
	return g, nil
}

func matchesAllGenres(g domain.Genre) bool {
	return g == "" || g == domain.GenreAll
}
