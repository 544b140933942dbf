package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-keynexus/internal/catalog"
	"github.com/tbourn/go-keynexus/internal/config"
	"github.com/tbourn/go-keynexus/internal/domain"
	"github.com/tbourn/go-keynexus/internal/repo"
	"github.com/tbourn/go-keynexus/internal/scout"
	"github.com/tbourn/go-keynexus/internal/services"
)

// openCatalog opens the database, migrates it and loads the catalog from
// CATALOG_PATH or the built-in seed.
func openCatalog(ctx context.Context, cfg config.Config) (*gorm.DB, *catalog.Store, error) {
	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}

	var seed []domain.Product
	if cfg.CatalogPath != "" {
		seed, err = catalog.LoadSeedFile(cfg.CatalogPath)
	} else {
		seed, err = catalog.DefaultSeed()
	}
	if err != nil {
		return nil, nil, err
	}

	store, err := services.LoadCatalog(ctx, db, seed)
	if err != nil {
		return nil, nil, err
	}
	return db, store, nil
}

// newProvider picks Gemini when configured and the offline keyword index
// otherwise.
func newProvider(ctx context.Context, cfg config.ScoutConfig, products []domain.Product) (scout.Provider, error) {
	if !cfg.UseGemini() {
		log.Info().Str("provider", "local").Msg("scout provider ready")
		return scout.NewIndexProvider(products), nil
	}
	p, err := scout.NewGeminiProvider(ctx, cfg.APIKey, cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("scout provider: %w", err)
	}
	log.Info().Str("provider", "gemini").Str("model", p.Model()).Msg("scout provider ready")
	return p, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
