package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-keynexus/internal/catalog"
	"github.com/tbourn/go-keynexus/internal/domain"
	"github.com/tbourn/go-keynexus/internal/repo"
	"github.com/tbourn/go-keynexus/internal/utils"
)

// LoadCatalog writes seed into the products table (existing ids are kept),
// reads the table back in catalog order and builds the read-only store used
// for the rest of the process lifetime.
func LoadCatalog(ctx context.Context, db *gorm.DB, seed []domain.Product) (*catalog.Store, error) {
	ctx, span := otel.Tracer("services/Catalog").Start(ctx, "LoadCatalog",
		trace.WithAttributes(attribute.Int("seed.size", len(seed))),
	)
	defer span.End()

	inserted, err := repo.SeedProducts(ctx, db, seed)
	if err != nil {
		return nil, fmt.Errorf("seed catalog: %w", err)
	}
	products, err := repo.ListProducts(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	store, err := catalog.NewStore(products)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}

	ev := log.Info().Int64("inserted", inserted).Int("products", store.Len()).Str("version", store.Version())
	if st, err := repo.ProductStats(ctx, db); err == nil && st.Updated != nil {
		genres := zerolog.Dict()
		for g, n := range st.ByGenre {
			genres.Int64(string(g), n)
		}
		ev = ev.Int64("rows", st.Products).Dict("genres", genres).Time("updated_at", *st.Updated)
	}
	ev.Msg("catalog loaded")
	return store, nil
}

// BrowseResult is one page of a catalog listing. Filtered tells a search
// with no hits apart from the unfiltered featured listing.
type BrowseResult struct {
	Items    []domain.Product
	Total    int
	Page     int
	PageSize int
	Filtered bool
}

// Facets lists the closed value sets a storefront can filter or label by.
type Facets struct {
	Genres    []domain.Genre    `json:"genres"`
	Platforms []domain.Platform `json:"platforms"`
	Regions   []domain.Region   `json:"regions"`
}

// CatalogService serves read-only catalog queries.
type CatalogService struct {
	Store *catalog.Store

	DefaultPageSize int
	MaxPageSize     int
}

// Browse filters the catalog by c and returns the requested page.
func (s *CatalogService) Browse(ctx context.Context, c catalog.Criteria, page, pageSize int) BrowseResult {
	_, span := otel.Tracer("services/Catalog").Start(ctx, "Browse",
		trace.WithAttributes(
			attribute.String("query", c.Query),
			attribute.String("genre", string(c.Genre)),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	def := s.DefaultPageSize
	if def <= 0 {
		def = 20
	}
	all := s.Store.Filter(c)
	items, page, pageSize := utils.Page(all, page, pageSize, def, s.MaxPageSize)
	return BrowseResult{
		Items:    items,
		Total:    len(all),
		Page:     page,
		PageSize: pageSize,
		Filtered: c.Active(),
	}
}

// Get returns a product by id.
func (s *CatalogService) Get(ctx context.Context, id string) (domain.Product, error) {
	p, ok := s.Store.Get(id)
	if !ok {
		return domain.Product{}, ErrProductNotFound
	}
	return p, nil
}

// Facets returns the genre, platform and region value sets.
func (s *CatalogService) Facets() Facets {
	return Facets{
		Genres:    append([]domain.Genre(nil), domain.Genres...),
		Platforms: append([]domain.Platform(nil), domain.Platforms...),
		Regions:   append([]domain.Region(nil), domain.Regions...),
	}
}

// Version is the catalog fingerprint used for HTTP caching.
func (s *CatalogService) Version() string { return s.Store.Version() }
