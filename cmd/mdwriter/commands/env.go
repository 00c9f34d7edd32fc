package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/strrl/mdwriter/internal/config"
	"github.com/strrl/mdwriter/internal/logging"
	"github.com/strrl/mdwriter/internal/recent"
	"go.uber.org/zap"
)

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	logLevel string
	noRecent bool
}

// env is what a command needs to run
type env struct {
	cfg    *config.Config
	log    *zap.Logger
	recent *recent.Store
}

func loadEnv(cmd *cobra.Command, opts *globalOptions, withRecent bool) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if cmd.Flags().Changed("no-recent") {
		cfg.NoRecent = opts.noRecent
	}

	if err := cfg.EnsureDataDir(); err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.FileConfig(cfg.LogFile, cfg.LogLevel, cfg.LogDev))
	if err != nil {
		// An unwritable log file only costs the log.
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: logging disabled: %v\n", err)
		logger = zap.NewNop()
	}

	e := &env{cfg: cfg, log: logger.With(zap.String("command", cmd.Name()))}

	if withRecent && !cfg.NoRecent {
		store, err := recent.Open(cfg.RecentDBPath())
		if err != nil {
			// The editor works without a history.
			e.log.Warn("recent documents unavailable", zap.Error(err))
		} else {
			e.recent = store
		}
	}

	return e, nil
}

func (e *env) Close() {
	if e.recent != nil {
		if err := e.recent.Close(); err != nil {
			e.log.Warn("failed to close recent documents", zap.Error(err))
		}
	}
	_ = e.log.Sync()
}
