package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"fulfill/internal/config"
	"fulfill/internal/logging"
	"fulfill/internal/queue"
	"fulfill/internal/services/picker"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	store *queue.Store
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

// ensureLogger builds the run logger: console output on stderr plus a
// per-invocation file in the log directory. Old log files are pruned here.
func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logFile := fmt.Sprintf("fulfill-%s.log", time.Now().UTC().Format("20060102T150405.000Z"))
		logger, err := logging.NewFromConfig(cfg, logFile)
		if err != nil {
			c.loggerErr = fmt.Errorf("init logger: %w", err)
			return
		}
		logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays,
			logging.RetentionTarget{
				Dir:     cfg.Paths.LogDir,
				Pattern: "fulfill-*.log",
				Exclude: []string{filepath.Join(cfg.Paths.LogDir, logFile)},
			},
		)
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) openStore() (*queue.Store, error) {
	if c.store != nil {
		return c.store, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := queue.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	c.store = store
	return store, nil
}

func (c *commandContext) close() {
	if c.store != nil {
		_ = c.store.Close()
		c.store = nil
	}
}

// resolveDir returns the directory a command operates on: the --dir flag,
// else a folder chosen in the terminal picker, else the configured main
// directory when no terminal is attached.
func (c *commandContext) resolveDir(ctx context.Context, dirFlag, prompt string) (string, error) {
	if dir := strings.TrimSpace(dirFlag); dir != "" {
		expanded, err := config.ExpandPath(dir)
		if err != nil {
			return "", fmt.Errorf("resolve directory: %w", err)
		}
		return expanded, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	dir, ok, err := picker.New(picker.WithStartDir(cfg.Paths.MainDir)).PickFolder(ctx, prompt)
	switch {
	case errors.Is(err, picker.ErrNoTerminal):
		return cfg.Paths.MainDir, nil
	case err != nil:
		return "", err
	case !ok:
		return "", errors.New("no folder selected")
	}
	return dir, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
