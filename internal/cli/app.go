package cli

import (
	"context"
	"errors"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/smokyabdulrahman/salah-times/internal/alarm"
	"github.com/smokyabdulrahman/salah-times/internal/api"
	"github.com/smokyabdulrahman/salah-times/internal/cache"
	"github.com/smokyabdulrahman/salah-times/internal/config"
	"github.com/smokyabdulrahman/salah-times/internal/engine"
	"github.com/smokyabdulrahman/salah-times/internal/hijri"
	"github.com/smokyabdulrahman/salah-times/internal/logger"
	"github.com/smokyabdulrahman/salah-times/internal/provider"
	"github.com/smokyabdulrahman/salah-times/internal/settings"
	"github.com/smokyabdulrahman/salah-times/internal/storage/sqlite"
)

// zoneName is the time zone every Moroccan schedule is published in.
const zoneName = "Africa/Casablanca"

// nowFunc is the clock of every command. Tests pin it.
var nowFunc = time.Now

// app bundles what a command needs: the database, the prayer times store,
// the provider chain and the settings built on top of them.
type app struct {
	cfg      config.Config
	db       *sqlite.Store
	store    cache.Store
	settings *settings.Service
	client   *api.Client
	chain    provider.Chain
	zone     *time.Location

	closers []func() error
}

// openApp opens the database and the configured cache backend.
func openApp(ctx context.Context, cfg config.Config) (*app, error) {
	path := cfg.DBPath
	if path == "" {
		p, err := sqlite.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		db:       db,
		settings: settings.NewService(db),
		client:   api.NewClient(),
		zone:     zone(),
		closers:  []func() error{db.Close},
	}

	store, err := a.openStore(ctx)
	if err != nil {
		a.close()
		return nil, err
	}
	a.store = store
	a.chain = buildChain(cfg, a.client)
	return a, nil
}

func (a *app) openStore(ctx context.Context) (cache.Store, error) {
	switch a.cfg.Store {
	case config.StoreFile:
		return cache.NewFileStore(a.cfg.CacheDir)
	case config.StoreRedis:
		if a.cfg.RedisAddr == "" {
			return nil, errors.New("store is redis but redis_addr is not set")
		}
		rs, err := cache.NewRedisStore(ctx, cache.RedisOptions{
			Addr:     a.cfg.RedisAddr,
			Password: a.cfg.RedisPassword,
			DB:       a.cfg.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rs.Close)
		return rs, nil
	default:
		return a.db, nil
	}
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Warn("close failed", "err", err)
		}
	}
	a.closers = nil
}

// buildChain returns the configured providers in order.
func buildChain(cfg config.Config, client *api.Client) provider.Chain {
	var chain provider.Chain
	for _, name := range cfg.ProviderNames() {
		switch name {
		case "yabiladi":
			chain = append(chain, provider.NewYabiladi())
		case "aladhan":
			al := provider.NewAladhan(client)
			al.Method = cfg.MethodOrDefault(api.MethodMorocco)
			chain = append(chain, al)
		case "offline":
			chain = append(chain, provider.Offline{})
		}
	}
	if len(chain) == 0 {
		chain = provider.Chain{provider.Offline{}}
	}
	return chain
}

func zone() *time.Location {
	loc, err := time.LoadLocation(zoneName)
	if err != nil {
		logger.Warn("time zone database unavailable, using local time", "zone", zoneName, "err", err)
		return time.Local
	}
	return loc
}

func (a *app) offline() bool {
	names := a.cfg.ProviderNames()
	return len(names) == 1 && names[0] == "offline"
}

// engine builds a schedule engine over the app. alarms may be nil.
func (a *app) engine(alarms *alarm.Scheduler) *engine.Engine {
	return engine.New(a.deps(alarms))
}

func (a *app) deps(alarms *alarm.Scheduler) engine.Deps {
	return engine.Deps{
		Provider:       a.chain,
		Store:          a.store,
		Settings:       a.settings,
		Alarms:         alarms,
		Tracker:        a.db,
		City:           a.cfg.City,
		Location:       a.zone,
		Now:            nowFunc,
		IncludeSunrise: a.cfg.IncludeSunrise,
	}
}

// hijri resolves Islamic dates through Al Adhan unless running offline.
func (a *app) hijri() *hijri.Service {
	if a.offline() {
		return hijri.NewService(nil)
	}
	return hijri.NewService(a.client)
}

// lang is the configured language, else the one stored in settings.
func (a *app) lang(ctx context.Context) string {
	if a.cfg.Language != "" {
		return a.cfg.Language
	}
	return a.settings.Language(ctx)
}

func (a *app) layout() string {
	if a.cfg.TimeFormat == "12h" {
		return "3:04 PM"
	}
	return "15:04"
}

// withApp opens the app for the duration of fn.
func withApp(ctx context.Context, fn func(*app) error) error {
	a, err := openApp(ctx, loadedConfig)
	if err != nil {
		return fmt.Errorf("opening data store: %w", err)
	}
	defer a.close()
	return fn(a)
}
