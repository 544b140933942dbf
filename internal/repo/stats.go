package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-keynexus/internal/domain"
)

// CatalogStats summarizes the persisted catalog.
type CatalogStats struct {
	Products int64
	ByGenre  map[domain.Genre]int64
	// Updated is the newest UpdatedAt, nil for an empty table.
	Updated *time.Time
}

// ProductStats counts products per genre and finds the latest update.
func ProductStats(ctx context.Context, db *gorm.DB) (CatalogStats, error) {
	var groups []struct {
		Genre domain.Genre
		N     int64
	}
	err := db.WithContext(ctx).Model(&domain.Product{}).
		Select("genre, COUNT(*) AS n").Group("genre").Scan(&groups).Error
	if err != nil {
		return CatalogStats{}, err
	}

	st := CatalogStats{ByGenre: make(map[domain.Genre]int64, len(groups))}
	for _, g := range groups {
		st.ByGenre[g.Genre] = g.N
		st.Products += g.N
	}
	if st.Products == 0 {
		return st, nil
	}

	// ORDER BY rather than MAX(): SQLite returns MAX(datetime) as TEXT.
	var latest struct{ UpdatedAt time.Time }
	err = db.WithContext(ctx).Model(&domain.Product{}).
		Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&latest).Error
	if err != nil {
		return CatalogStats{}, err
	}
	st.Updated = &latest.UpdatedAt
	return st, nil
}
