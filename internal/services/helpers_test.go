package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/tbourn/go-keynexus/internal/catalog"
	"github.com/tbourn/go-keynexus/internal/domain"
	"github.com/tbourn/go-keynexus/internal/scout"
)

func testProduct(id, title string, genre domain.Genre, price int64) domain.Product {
	return domain.Product{
		ID:            id,
		Title:         title,
		Price:         decimal.NewFromInt(price),
		OriginalPrice: decimal.NewFromInt(price),
		Platform:      domain.PlatformSteam,
		Genre:         genre,
		Region:        domain.RegionGlobal,
	}
}

func testStore(t *testing.T) *catalog.Store {
	t.Helper()
	st, err := catalog.NewStore([]domain.Product{
		testProduct("g1", "Nova Strike", domain.GenreAction, 10),
		testProduct("g2", "Star Quest", domain.GenreRPG, 20),
		testProduct("g3", "Nova Legends", domain.GenreRPG, 30),
	})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return st
}

// fakeClock is a manually advanced time source.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newStoreWithProvider(st *catalog.Store, p scout.Provider, ttl time.Duration, max int) *SessionStore {
	prompts := scout.NewPromptBuilder(st.All(), "")
	return NewSessionStore(func() *scout.Session {
		return scout.NewSession(p, prompts, scout.WithLogger(zerolog.Nop()))
	}, ttl, max)
}

func replyWith(text string) scout.Provider {
	return scout.ProviderFunc(func(context.Context, scout.Request) (string, error) { return text, nil })
}
