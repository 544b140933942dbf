package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tbourn/go-keynexus/internal/domain"
)

func TestNewStore_LookupsAndCopies(t *testing.T) {
	s, err := NewStore(sampleCatalog())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if s.Len() != 5 {
		t.Fatalf("Len = %d", s.Len())
	}
	p, ok := s.Get("g2")
	if !ok || p.Title != "Star Quest" {
		t.Fatalf("Get(g2) = %+v, %v", p, ok)
	}
	if _, ok := s.Get("nope"); ok {
		t.Fatalf("Get(nope) should miss")
	}

	all := s.All()
	all[0].Title = "changed"
	if p, _ := s.Get("g1"); p.Title != "Nova Strike" {
		t.Fatalf("All must return a copy")
	}

	got := s.Filter(Criteria{Query: "nova", Genre: domain.GenreStrategy})
	if len(got) != 1 || got[0].ID != "g3" {
		t.Fatalf("Store.Filter = %v", ids(got))
	}
}

func TestNewStore_Rejects(t *testing.T) {
	dup := append(sampleCatalog(), product("g1", "Again", domain.GenreRPG, 1))
	if _, err := NewStore(dup); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}

	bad := sampleCatalog()
	bad[2].Genre = "Puzzle"
	if _, err := NewStore(bad); !errors.Is(err, domain.ErrInvalidProduct) {
		t.Fatalf("expected ErrInvalidProduct, got %v", err)
	}
}

func TestVersion_StableAndContentSensitive(t *testing.T) {
	a, _ := NewStore(sampleCatalog())
	b, _ := NewStore(sampleCatalog())
	if a.Version() == "" || a.Version() != b.Version() {
		t.Fatalf("versions should match: %q vs %q", a.Version(), b.Version())
	}
	changed := sampleCatalog()
	changed[0].Title = "Nova Strike II"
	c, _ := NewStore(changed)
	if c.Version() == a.Version() {
		t.Fatalf("version should change with content")
	}
}

func TestDefaultSeed_IsValidCatalog(t *testing.T) {
	products, err := DefaultSeed()
	if err != nil {
		t.Fatalf("DefaultSeed: %v", err)
	}
	if len(products) < 10 {
		t.Fatalf("seed too small: %d", len(products))
	}
	for i, p := range products {
		if p.Position != i {
			t.Fatalf("position of %q = %d, want %d", p.ID, p.Position, i)
		}
	}
	s, err := NewStore(products)
	if err != nil {
		t.Fatalf("seed must form a valid store: %v", err)
	}
	if _, ok := s.Get("er1"); !ok {
		t.Fatalf("seed should contain er1")
	}
}

func TestLoadSeed_Errors(t *testing.T) {
	if _, err := LoadSeed(strings.NewReader("{not json")); err == nil {
		t.Fatalf("expected decode error")
	}
	if _, err := LoadSeed(strings.NewReader(`[{"id":"x","bogus":1}]`)); err == nil {
		t.Fatalf("unknown fields should be rejected")
	}
	if _, err := LoadSeedFile("/definitely/missing.json"); err == nil {
		t.Fatalf("expected file error")
	}
}

func TestLoadSeedFile_YAML(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "catalog.yml")
	doc := `
- id: x1
  title: Xeno Drift
  description: Arcade racing.
  price: 10.00
  original_price: 20.00
  discount: 50
  platform: Steam
  genre: Action
  region: Global
  release_year: 2024
`
	if err := os.WriteFile(good, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}
	products, err := LoadSeedFile(good)
	if err != nil {
		t.Fatalf("LoadSeedFile: %v", err)
	}
	if len(products) != 1 || products[0].ID != "x1" || products[0].Price.StringFixed(2) != "10.00" {
		t.Fatalf("products = %+v", products)
	}
	if err := products[0].Validate(); err != nil {
		t.Fatalf("yaml product invalid: %v", err)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("- id: x\n  bogus: 1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSeedFile(bad); err == nil {
		t.Fatal("unknown yaml fields should be rejected")
	}
}
