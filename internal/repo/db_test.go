package repo

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tbourn/go-keynexus/internal/domain"
)

func TestOpenSQLite_ErrorOnBadPath(t *testing.T) {
	base := t.TempDir()
	bad := filepath.Join(base, "does-not-exist", "app.db")

	db, err := OpenSQLite(bad)
	if err == nil || db != nil {
		t.Fatalf("expected error opening %q, got db=%v err=%v", bad, db, err)
	}

	lower := strings.ToLower(err.Error())
	if !(os.IsNotExist(err) ||
		strings.Contains(lower, "unable to open database file") ||
		strings.Contains(lower, "no such file or directory") ||
		strings.Contains(lower, "out of memory")) {
		t.Fatalf("unexpected error opening %q: %v", bad, err)
	}
}

func TestOpenSQLite_FileDatabase(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "keys.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB(): %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	for pragma, want := range map[string]string{
		"journal_mode": "wal",
		"synchronous":  "1",
		"foreign_keys": "1",
		"busy_timeout": "5000",
	} {
		var got string
		if err := db.Raw("PRAGMA " + pragma).Row().Scan(&got); err != nil {
			t.Fatalf("PRAGMA %s: %v", pragma, err)
		}
		if strings.ToLower(got) != want {
			t.Errorf("PRAGMA %s = %q, want %q", pragma, got, want)
		}
	}
	if n := sqlDB.Stats().MaxOpenConnections; n != maxOpenConns {
		t.Fatalf("MaxOpenConnections = %d, want %d", n, maxOpenConns)
	}

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	for _, tbl := range []any{&domain.Product{}, &domain.StoredReply{}} {
		if !db.Migrator().HasTable(tbl) {
			t.Fatalf("missing table for %T", tbl)
		}
	}

	p := sampleProduct("g1", 0)
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("insert product: %v", err)
	}
	var got domain.Product
	if err := db.First(&got, "id = ?", "g1").Error; err != nil {
		t.Fatalf("readback product: %v", err)
	}
	if !got.Price.Equal(p.Price) || got.Genre != p.Genre {
		t.Fatalf("readback mismatch: %+v", got)
	}
}

func TestPing(t *testing.T) {
	db, err := OpenSQLite("file:" + t.Name() + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	ctx := context.Background()
	if err := Ping(ctx, db); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	sqlDB, _ := db.DB()
	_ = sqlDB.Close()
	if err := Ping(ctx, db); err == nil {
		t.Fatal("Ping on a closed database should fail")
	}
}

func TestOpenSQLite_MemoryDSN(t *testing.T) {
	db, err := OpenSQLite("file:" + t.Name() + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("OpenSQLite(memory): %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	if !isMemoryDSN(":memory:") || isMemoryDSN("data/app.db") {
		t.Fatal("isMemoryDSN misclassified paths")
	}
}

func sampleProduct(id string, pos int) domain.Product {
	return domain.Product{
		ID:            id,
		Title:         "Game " + id,
		Price:         decimal.RequireFromString("20"),
		OriginalPrice: decimal.RequireFromString("40"),
		Discount:      50,
		Platform:      domain.PlatformSteam,
		Genre:         domain.GenreRPG,
		Region:        domain.RegionGlobal,
		Position:      pos,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
}

// Compile-time guard to ensure signature stability.
var _ func(string) (*gorm.DB, error) = OpenSQLite
