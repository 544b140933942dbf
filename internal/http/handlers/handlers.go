// Package handlers provides HTTP handler implementations for the public API.
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses (including conditional responses
// and idempotent replays).
package handlers

import (
	"context"
	"math"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-keynexus/internal/cart"
	"github.com/tbourn/go-keynexus/internal/catalog"
	"github.com/tbourn/go-keynexus/internal/domain"
	"github.com/tbourn/go-keynexus/internal/scout"
	"github.com/tbourn/go-keynexus/internal/services"
	"github.com/tbourn/go-keynexus/internal/utils"
)

//
// Service contracts (context-aware)
//

// CatalogService serves read-only catalog queries.
type CatalogService interface {
	Browse(ctx context.Context, c catalog.Criteria, page, pageSize int) services.BrowseResult
	Get(ctx context.Context, id string) (domain.Product, error)
	Facets() services.Facets
	Version() string
}

// SessionService creates and ends shopper sessions.
type SessionService interface {
	Create(ctx context.Context) (*services.Session, error)
	Delete(id string) bool
}

// CartService applies cart operations to a session's cart.
type CartService interface {
	View(ctx context.Context, sessionID string) (cart.Snapshot, error)
	Add(ctx context.Context, sessionID, productID string) (cart.Snapshot, error)
	Adjust(ctx context.Context, sessionID, productID string, delta int) (cart.Snapshot, error)
	Remove(ctx context.Context, sessionID, productID string) (cart.Snapshot, error)
	Clear(ctx context.Context, sessionID string) (cart.Snapshot, error)
	SetOpen(ctx context.Context, sessionID string, open bool) (cart.Snapshot, error)
}

// ScoutService runs shopping-assistant turns.
type ScoutService interface {
	Send(ctx context.Context, sessionID, text string) (services.TranscriptEntry, error)
	Transcript(ctx context.Context, sessionID string) ([]services.TranscriptEntry, scout.State, error)
	AddRecommendation(ctx context.Context, sessionID string, index int) (cart.Snapshot, error)
}

// ReplayStore persists responses for Idempotency-Key replays. A nil store
// disables replay.
type ReplayStore interface {
	Lookup(ctx context.Context, sessionID, key string) ([]byte, bool)
	Save(ctx context.Context, sessionID, key string, status int, payload []byte)
}

//
// Handler wiring
//

// Handlers groups the storefront's HTTP endpoints.
type Handlers struct {
	catalog  CatalogService
	sessions SessionService
	cart     CartService
	scout    ScoutService
	replays  ReplayStore
}

// New constructs a Handlers instance bound to the given services.
func New(cat CatalogService, sessions SessionService, cartSvc CartService, scoutSvc ScoutService, replays ReplayStore) *Handlers {
	return &Handlers{catalog: cat, sessions: sessions, cart: cartSvc, scout: scoutSvc, replays: replays}
}

//
// Shared DTOs
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
}

func newPagination(page, pageSize, total int) Pagination {
	totalPages := (total + pageSize - 1) / pageSize
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

// clampPagination parses and bounds page and page_size query params.
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.IntParam(c.Query("page"), defaultPage, 1, math.MaxInt32)
	pageSize = utils.IntParam(c.Query("page_size"), defaultPageSize, 1, maxPageSize)
	return page, pageSize
}
