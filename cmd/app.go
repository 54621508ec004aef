// Package cmd implements the pft CLI: trade entry, reports, price backfill and the HTTP server.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/etnz/folio"
	"github.com/etnz/folio/cache"
	"github.com/etnz/folio/config"
	"github.com/etnz/folio/logger"
	"github.com/etnz/folio/store"
	"github.com/etnz/folio/yahoo"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&buyCmd{}, "trades")
	c.Register(&sellCmd{}, "trades")
	c.Register(&tradesCmd{}, "trades")
	c.Register(&positionsCmd{}, "trades")

	c.Register(&overviewCmd{}, "reports")
	c.Register(&cashCmd{}, "reports")
	c.Register(&performanceCmd{}, "reports")

	c.Register(&fetchCmd{}, "market data")
	c.Register(&serveCmd{}, "server")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "folio.yaml", "Path to the configuration file, FOLIO_* variables override it")
var userFlag = flag.String("user", "", "User owning the trades, defaults to app.user from the configuration")

// app is everything a command needs, opened from the configuration.
type app struct {
	cfg     config.Config
	log     *zap.Logger
	db      *store.DB
	store   *store.Store
	live    *yahoo.Client
	ledger  *folio.Ledger
	service *folio.Service
	caches  []*cache.Cache
}

// openApp loads the configuration and opens the database. It must be released with close.
func openApp() (*app, error) {
	_, err := os.Stat(*configFile)
	envOnly := errors.Is(err, fs.ErrNotExist)
	cfg, err := config.Load(*configFile, envOnly)
	if err != nil {
		return nil, fmt.Errorf("loading configuration %q: %w", *configFile, err)
	}
	if *userFlag != "" {
		cfg.App.User = *userFlag
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	c, err := cache.New(cfg.Cache.MaxCost, cfg.Cache.TTL)
	if err != nil {
		return nil, fmt.Errorf("creating cache: %w", err)
	}

	db, err := store.Open(cfg.DB)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := store.AutoMigrate(db); err != nil {
		store.Close(db)
		c.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	s := store.New(db.Gorm)

	// provider answers are cached for their own ttl, replays for the cache ttl
	providerCache, err := cache.New(cfg.Cache.MaxCost, cfg.Provider.CacheTTL)
	if err != nil {
		store.Close(db)
		c.Close()
		return nil, fmt.Errorf("creating provider cache: %w", err)
	}
	live := yahoo.New(
		yahoo.WithBaseURL(cfg.Provider.BaseURL),
		yahoo.WithTimeout(cfg.Provider.Timeout),
		yahoo.WithCache(providerCache),
		yahoo.WithLogger(log.Named("yahoo")),
	)

	service := folio.NewService(s, s,
		folio.WithLive(live),
		folio.WithCache(c),
		folio.WithLogger(log.Named("service")),
		folio.WithStartCash(cfg.App.StartCash),
		folio.WithCurrency(cfg.App.Currency),
	)
	return &app{
		cfg:     cfg,
		log:     log,
		db:      db,
		store:   s,
		live:    live,
		ledger:  folio.NewLedger(s, log.Named("ledger")),
		service: service,
		caches:  []*cache.Cache{c, providerCache},
	}, nil
}

func (a *app) close() {
	if err := store.Close(a.db); err != nil {
		a.log.Warn("closing database", zap.Error(err))
	}
	for _, c := range a.caches {
		c.Close()
	}
	a.log.Sync()
}

// open is the preamble of every command: it reports the failure itself.
func open() (*app, bool) {
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return nil, false
	}
	return a, true
}
