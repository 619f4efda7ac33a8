package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"marquee/internal/config"
	"marquee/internal/ingest"
	"marquee/internal/logging"
	"marquee/internal/overrides"
	"marquee/internal/pacer"
	"marquee/internal/store"
	"marquee/internal/tmdb"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// runtime bundles everything one import run needs. The file lock serializes
// runs against the shared database; callers must TryLock before writing.
type runtime struct {
	cfg   *config.Config
	store *store.Store
	deps  ingest.Deps
	lock  *flock.Flock
}

func (c *commandContext) newRuntime(mappingPath string) (*runtime, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	st, err := store.Open(cfg)
	if err != nil {
		return nil, err
	}

	provider, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	tables, err := overrides.Load(cfg.Overrides.Path)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	if err := tables.MergeMapping(mappingPath); err != nil {
		_ = st.Close()
		return nil, err
	}

	return &runtime{
		cfg:   cfg,
		store: st,
		lock:  flock.New(cfg.LockPath()),
		deps: ingest.Deps{
			Participants: st,
			Movies:       st,
			Picks:        st,
			Provider:     provider,
			Tables:       tables,
			Pacer: pacer.New(
				time.Duration(cfg.TMDB.RequestDelayMS)*time.Millisecond,
				time.Duration(cfg.TMDB.CooldownSeconds)*time.Second,
				cfg.TMDB.BurstSize,
			),
			Logger: logging.WithComponent(logger, "ingest"),
		},
	}, nil
}

func (r *runtime) acquireLock() error {
	ok, err := r.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire import lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another marquee import is already running (lock %s)", r.cfg.LockPath())
	}
	return nil
}

func (r *runtime) close() {
	_ = r.lock.Unlock()
	_ = r.store.Close()
}
