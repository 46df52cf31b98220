// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/taibuivan/libris/internal/api"
	"github.com/taibuivan/libris/internal/core/search"
	"github.com/taibuivan/libris/internal/platform/config"
	"github.com/taibuivan/libris/internal/platform/constants"
	"github.com/taibuivan/libris/internal/platform/migration"
	pgstore "github.com/taibuivan/libris/internal/platform/postgres"
	redisstore "github.com/taibuivan/libris/internal/platform/redis"
	"github.com/taibuivan/libris/internal/platform/sqlite"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// cli carries the state shared by the subcommands of one invocation.
type cli struct {
	configFile string
	verbose    bool
	asJSON     bool

	settings *settings
	logger   *slog.Logger
	out      io.Writer

	services *api.Services
	closers  []func()
}

// execute runs one librisctl invocation and releases its connections.
func execute(args []string, stdout, stderr io.Writer) error {
	state := &cli{out: stdout}
	defer state.close()

	root := newRootCommand(state)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.Execute()
}

func newRootCommand(state *cli) *cobra.Command {

	root := &cobra.Command{
		Use:           "librisctl",
		Short:         "librisctl administers a Libris catalog",
		Version:       constants.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			state.out = cmd.OutOrStdout()

			level := slog.LevelWarn
			if state.verbose {
				level = slog.LevelDebug
			}
			state.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			resolved, err := loadSettings(state.configFile, cmd.Flags())
			if err != nil {
				return err
			}
			state.settings = resolved
			return nil
		},
	}

	root.PersistentFlags().StringVar(&state.configFile, "config", "", "config file (default: ./librisctl.yaml or ~/.libris/librisctl.yaml)")
	root.PersistentFlags().BoolVarP(&state.verbose, "verbose", "v", false, "log debug output to stderr")
	root.PersistentFlags().BoolVar(&state.asJSON, "json", false, "print results as JSON")
	registerFlags(root.PersistentFlags())

	root.AddCommand(
		newSeedCommand(state),
		newSearchCommand(state),
		newBorrowCommand(state),
		newReturnCommand(state),
		newTokenCommand(state),
	)
	return root
}

// open connects to the configured catalog and wires the domain services once.
func (state *cli) open(ctx context.Context) (*api.Services, error) {
	if state.services != nil {
		return state.services, nil
	}

	cfg := state.settings.serverConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var stores api.Stores
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, state.logger)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		state.closers = append(state.closers, pool.Close)

		if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, state.logger); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		stores = api.PostgresStores(pool)

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath, state.logger)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		state.closers = append(state.closers, func() { _ = db.Close() })
		stores = api.SQLiteStores(db)
	}

	var cache search.Cache
	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(ctx, cfg.RedisURL, state.logger)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		state.closers = append(state.closers, func() { _ = rdb.Close() })
		cache = search.NewRedisCache(rdb, cfg.SearchCacheTTL)
	}

	services, err := api.NewServices(stores, cache, api.Tuning{
		SearchTolerance:        cfg.SearchTolerance,
		CirculationMaxAttempts: cfg.CirculationMaxAttempts,
	}, state.logger)
	if err != nil {
		return nil, err
	}

	state.services = services
	return services, nil
}

func (state *cli) close() {
	for i := len(state.closers) - 1; i >= 0; i-- {
		state.closers[i]()
	}
	state.closers = nil
	state.services = nil
}

// printJSON writes value as indented JSON.
func (state *cli) printJSON(value any) error {
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(state.out, string(encoded))
	return err
}
