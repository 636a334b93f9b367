package cli

import (
	"os"

	"go.uber.org/zap"

	"github.com/causa-hse/causa/internal/config"
	"github.com/causa-hse/causa/internal/logging"
)

// newLogger is swapped in tests to observe the command logger.
var newLogger = logging.New

type runtime struct {
	projectRoot string
	cfg         config.ResolvedConfig
	log         *zap.Logger
}

// loadRuntime resolves config for the working directory and builds the
// logger it selects.
func loadRuntime() (runtime, error) {
	root, err := os.Getwd()
	if err != nil {
		root = ""
	}
	cfg, err := config.LoadConfig(root)
	if err != nil {
		return runtime{}, err
	}
	logger, err := newLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return runtime{}, err
	}
	return runtime{
		projectRoot: root,
		cfg:         cfg,
		log:         logging.Component(logger, "cli"),
	}, nil
}

// close flushes buffered log entries. Sync on a terminal stderr fails on
// some platforms, so its error is dropped.
func (rt runtime) close() {
	_ = rt.log.Sync()
}
