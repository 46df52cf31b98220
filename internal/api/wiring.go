// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/taibuivan/libris/internal/core/author"
	"github.com/taibuivan/libris/internal/core/book"
	"github.com/taibuivan/libris/internal/core/circulation"
	"github.com/taibuivan/libris/internal/core/search"
	"github.com/taibuivan/libris/internal/core/user"
)

// # Storage Bindings

// Stores bundles the repositories of one storage backend.
type Stores struct {
	Authors     author.Repository
	Books       book.Repository
	Users       user.Repository
	Catalog     search.Catalog
	Circulation circulation.Store
}

// PostgresStores binds every repository to the pool.
func PostgresStores(pool *pgxpool.Pool) Stores {
	return Stores{
		Authors:     author.NewPostgresRepository(pool),
		Books:       book.NewPostgresRepository(pool),
		Users:       user.NewPostgresRepository(pool),
		Catalog:     search.NewPostgresCatalog(pool),
		Circulation: circulation.NewPostgresStore(pool),
	}
}

// SQLiteStores binds every repository to the embedded database.
func SQLiteStores(db *sqlx.DB) Stores {
	return Stores{
		Authors:     author.NewSQLiteRepository(db),
		Books:       book.NewSQLiteRepository(db),
		Users:       user.NewSQLiteRepository(db),
		Catalog:     search.NewSQLiteCatalog(db),
		Circulation: circulation.NewSQLiteStore(db),
	}
}

// # Domain Services

// Tuning carries the engine settings read from configuration.
type Tuning struct {
	SearchTolerance        float64
	CirculationMaxAttempts int
}

// Services holds the wired domain layer, shared by the HTTP server and librisctl.
type Services struct {
	Authors     *author.Service
	Books       *book.Service
	Users       *user.Service
	Search      *search.Engine
	Circulation *circulation.Engine
}

// NewServices wires the domain services over stores. cache may be nil, in
// which case filter results are not cached.
func NewServices(stores Stores, cache search.Cache, tuning Tuning, logger *slog.Logger) (*Services, error) {

	// A nil search.Cache must stay a nil book.Invalidator
	var invalidator book.Invalidator
	if cache != nil {
		invalidator = cache
	}

	searchEngine, err := search.NewEngine(stores.Catalog, cache, search.Config{Tolerance: tuning.SearchTolerance}, logger)
	if err != nil {
		return nil, err
	}

	authorService := author.NewService(stores.Authors, stores.Books, invalidator, logger)

	return &Services{
		Authors:     authorService,
		Books:       book.NewService(stores.Books, authorService, invalidator, logger),
		Users:       user.NewService(stores.Users, logger),
		Search:      searchEngine,
		Circulation: circulation.NewEngine(stores.Circulation, invalidator, circulation.DefaultConfig(tuning.CirculationMaxAttempts), logger),
	}, nil
}

// Handlers builds the HTTP handler set over the services.
func (services *Services) Handlers() Handlers {
	return Handlers{
		Author:      author.NewHandler(services.Authors),
		Book:        book.NewHandler(services.Books),
		Search:      search.NewHandler(services.Search),
		User:        user.NewHandler(services.Users),
		Circulation: circulation.NewHandler(services.Circulation),
	}
}
