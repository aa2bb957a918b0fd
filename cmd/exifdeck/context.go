package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"exifdeck/internal/config"
	"exifdeck/internal/deps"
	"exifdeck/internal/jobstore"
	"exifdeck/internal/logging"
	"exifdeck/internal/services/exiftool"
	"exifdeck/internal/tagdict"
	"exifdeck/internal/templates"
)

type commandContext struct {
	configFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
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
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) log() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// exiftoolClient resolves the binary and builds a client from config. A
// missing binary fails here with services.ErrToolNotFound.
func (c *commandContext) exiftoolClient() (*exiftool.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.log()
	if err != nil {
		return nil, err
	}
	binary, err := deps.ResolveExiftool(cfg.Exiftool.Binary)
	if err != nil {
		return nil, err
	}
	return exiftool.New(binary,
		exiftool.WithTimeouts(cfg.ReadTimeout(), cfg.WriteTimeout()),
		exiftool.WithOverwriteOriginal(cfg.Exiftool.OverwriteOriginal),
		exiftool.WithExtraArgs(cfg.Exiftool.ExtraArgs),
		exiftool.WithLogger(logger),
	)
}

func (c *commandContext) templateStore() (*templates.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return templates.NewStore(cfg.Paths.TemplatesFile), nil
}

// validator loads the configured tag dictionary; nil when none is set.
func (c *commandContext) validator() (*tagdict.Dictionary, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Validation.TagDictionary == "" {
		return nil, nil
	}
	return tagdict.Load(cfg.Validation.TagDictionary)
}

func (c *commandContext) withJobStore(fn func(*jobstore.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := jobstore.Open(cfg.JobsDBPath())
	if err != nil {
		return fmt.Errorf("open job history: %w", err)
	}
	defer store.Close()
	return fn(store)
}

// pruneHistory drops finished jobs older than the configured retention.
func (c *commandContext) pruneHistory(ctx context.Context, store *jobstore.Store) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return
	}
	retention := cfg.HistoryRetention()
	if retention <= 0 {
		return
	}
	logger, _ := c.log()
	removed, err := store.Prune(ctx, time.Now().Add(-retention))
	if err != nil {
		logging.WarnWithContext(logger, "job history prune failed", "history_prune_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "delete "+store.Path()+" if the database is damaged"),
		)
		return
	}
	if removed > 0 && logger != nil {
		logger.Debug("pruned job history", logging.Int("removed", int(removed)))
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
