package cmd

import (
	"errors"
	"fmt"
	"strings"

	"backend-probe/core/backend"
	"backend-probe/core/config"
	"backend-probe/core/database"
	"backend-probe/core/storage"
	"backend-probe/feature/probe"

	"go.uber.org/zap"
)

var (
	roleFlag   string
	directFlag bool
	jsonFlag   bool
)

// loadConfig reads the environment once and applies the global flags on top.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if roleFlag != "" {
		cfg.Supabase.Role = roleFlag
	}
	return cfg, nil
}

// buildService wires the backend client chosen by --direct and the optional
// storage bucket into a probe service. The returned cleanup is never nil.
func buildService(cfg *config.Config, logg *zap.Logger) (*probe.Service, func(), error) {
	cleanup := func() {}

	var svc *probe.Service
	if directFlag {
		if !cfg.Database.Enabled() {
			return nil, cleanup, &backend.ConfigError{Key: "DATABASE_HOST", Reason: "not set (required with --direct)"}
		}
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, cleanup, fmt.Errorf("failed to connect to database: %w", err)
		}
		cleanup = func() { _ = database.Close(db) }
		svc = probe.NewService(database.NewClient(db, cfg.Probe.IDColumn), cfg.Probe, logg)
	} else {
		opened, err := probe.Open(cfg.Supabase.Credentials(), func(creds backend.Credentials) (backend.Client, error) {
			return backend.NewRESTClient(creds,
				backend.WithAccessToken(cfg.Supabase.AccessToken),
				backend.WithTimeout(cfg.Supabase.Timeout()),
			)
		}, cfg.Probe, logg)
		if err != nil {
			return nil, cleanup, err
		}
		svc = opened
	}

	if cfg.Storage.Enabled() {
		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("failed to create storage client: %w", err)
		}
		svc.WithStorage(store, cfg.Storage.Bucket)
	}

	return svc, cleanup, nil
}

// parseRow turns key=value pairs into a sample row.
func parseRow(pairs []string) (backend.Row, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	row := backend.Row{}
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --row %q, expected key=value", p)
		}
		row[k] = v
	}
	return row, nil
}

func asConfigError(err error) (*backend.ConfigError, bool) {
	var cfgErr *backend.ConfigError
	if errors.As(err, &cfgErr) {
		return cfgErr, true
	}
	return nil, false
}
