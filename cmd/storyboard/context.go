package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"

	"storyboard/internal/config"
	"storyboard/internal/logging"
	"storyboard/internal/services/gemini"
	"storyboard/internal/store"
	"storyboard/internal/workflow"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

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

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
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

// requireAPIKey guards commands that talk to the generation backend. Local
// commands (status, export, selection) work without a key.
func (c *commandContext) requireAPIKey() error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	return cfg.RequireAPIKey()
}

// withProject opens the store, loads the project controller, runs fn, and
// tears everything down. An exclusive flock serializes commands so two
// invocations never interleave snapshot writes.
func (c *commandContext) withProject(ctx context.Context, fn func(ctx context.Context, ctrl *workflow.Controller) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return err
	}

	lock := flock.New(filepath.Join(cfg.Paths.LogDir, "storyboard.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire project lock: %w", err)
	}
	if !ok {
		return errors.New("another storyboard command is already running against this project")
	}
	defer func() {
		_ = lock.Unlock()
	}()

	st, err := store.Open(cfg)
	if err != nil {
		return fmt.Errorf("open project store: %w", err)
	}
	defer st.Close()

	gateway := gemini.NewClient(gemini.Config{
		APIKey:         cfg.Gemini.APIKey,
		BaseURL:        cfg.Gemini.BaseURL,
		TextModel:      cfg.Gemini.TextModel,
		ImageModel:     cfg.Gemini.ImageModel,
		TimeoutSeconds: cfg.Gemini.TimeoutSeconds,
	})

	ctrl := workflow.Load(ctx, cfg.Workflow.ProjectID, st, gateway, logger)
	return fn(ctx, ctrl)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
