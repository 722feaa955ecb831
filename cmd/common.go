package cmd

import (
	"log/slog"

	"github.com/nikogura/folio/pkg/config"
	"github.com/nikogura/folio/pkg/logging"
	"github.com/nikogura/folio/pkg/store"
	"github.com/pkg/errors"
)

// loadConfig reads the config named by --config, raising the log level under --verbose.
func loadConfig() (cfg config.Config, logger *slog.Logger, err error) {
	cfg, err = config.Load(getConfigFile())
	if err != nil {
		err = errors.Wrap(err, "failed to load config")
		return cfg, logger, err
	}

	if getVerbose() {
		cfg.Log.Level = "debug"
	}
	logger = logging.New(cfg.Log)

	return cfg, logger, err
}

// openStore opens the configured backend and wraps it in a Store.
func openStore(cfg config.Config, logger *slog.Logger) (s *store.Store, err error) {
	var backend store.Backend
	backend, err = store.OpenBackend(cfg.Store.Driver, cfg.Store.Location())
	if err != nil {
		err = errors.Wrap(err, "failed to open store")
		return s, err
	}

	s = store.New(backend, store.WithLogger(logger))
	return s, err
}

func getOutputDir(flagValue, configValue string) (outDir string) {
	outDir = flagValue
	if outDir == "" {
		outDir = configValue
	}
	return outDir
}
