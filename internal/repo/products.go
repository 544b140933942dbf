// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository helpers for the catalog's
// products table. The table is write-once at startup; every read after that
// is served from the in-memory catalog store.
package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-keynexus/internal/domain"
)

// SeedProducts inserts products in one transaction, leaving rows whose id
// already exists untouched. It returns the number of rows actually inserted.
// Every product is validated first; nothing is written if any is invalid.
func SeedProducts(ctx context.Context, db *gorm.DB, products []domain.Product) (int64, error) {
	for i := range products {
		if err := products[i].Validate(); err != nil {
			return 0, err
		}
	}
	if len(products) == 0 {
		return 0, nil
	}

	var inserted int64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range products {
			p := products[i]
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&p)
			if res.Error != nil {
				return fmt.Errorf("seed product %q: %w", p.ID, res.Error)
			}
			inserted += res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// ListProducts returns every product in catalog order.
func ListProducts(ctx context.Context, db *gorm.DB) ([]domain.Product, error) {
	var out []domain.Product
	err := db.WithContext(ctx).
		Order("position ASC").
		Order("id ASC").
		Find(&out).Error
	return out, err
}

// GetProduct loads a single product by id or returns ErrNotFound.
func GetProduct(ctx context.Context, db *gorm.DB, id string) (*domain.Product, error) {
	var p domain.Product
	err := db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
