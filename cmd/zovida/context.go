package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"zovida/internal/api"
	"zovida/internal/appointments"
	"zovida/internal/assistant"
	"zovida/internal/config"
	"zovida/internal/history"
	"zovida/internal/localdb"
	"zovida/internal/logging"
	"zovida/internal/notifications"
	"zovida/internal/reminders"
	"zovida/internal/scan"
	"zovida/internal/session"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	appOnce sync.Once
	app     *app
	appErr  error
}

// app bundles the wired stores a command needs. Everything hangs off the
// shared local database and the loaded config.
type app struct {
	cfg          *config.Config
	logger       *slog.Logger
	db           *sql.DB
	session      *session.Store
	client       *api.Client
	history      *history.Store
	reminders    *reminders.Store
	appointments *appointments.Store
	scan         *scan.Store
	notifier     notifications.Service
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

func (c *commandContext) ensureApp() (*app, error) {
	c.appOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.appErr = err
			return
		}

		logger, err := logging.New(logging.Options{
			Level:       cfg.Logging.Level,
			Format:      cfg.Logging.Format,
			OutputPaths: []string{"stderr"},
		})
		if err != nil {
			c.appErr = fmt.Errorf("initialize logging: %w", err)
			return
		}

		db, err := localdb.Open(cfg)
		if err != nil {
			c.appErr = fmt.Errorf("open local database: %w", err)
			return
		}

		sess := session.NewStore(cfg.SessionPath(), logger)
		client := api.NewClient(cfg.Backend.BaseURL, time.Duration(cfg.Backend.RequestTimeout)*time.Second)

		hist, err := history.NewStore(db, logger)
		if err != nil {
			c.appErr = err
			return
		}
		rem, err := reminders.NewStore(db, client, sess, logger)
		if err != nil {
			c.appErr = err
			return
		}
		appts, err := appointments.NewStore(db, logger)
		if err != nil {
			c.appErr = err
			return
		}

		c.app = &app{
			cfg:          cfg,
			logger:       logger,
			db:           db,
			session:      sess,
			client:       client,
			history:      hist,
			reminders:    rem,
			appointments: appts,
			scan:         scan.NewStore(client, sess, hist, cfg.Backend.AnonymousUserID, logger),
			notifier:     notifications.NewService(cfg),
		}
	})
	return c.app, c.appErr
}

func (c *commandContext) withApp(fn func(*app) error) error {
	a, err := c.ensureApp()
	if err != nil {
		return err
	}
	return fn(a)
}

// assistantClient builds an assistant client from the loaded config.
func (a *app) assistantClient() (*assistant.Client, error) {
	if strings.TrimSpace(a.cfg.Assistant.APIKey) == "" {
		return nil, fmt.Errorf("assistant api key not configured (set assistant.api_key or %s)", config.AssistantAPIKeyEnv)
	}
	return assistant.NewClient(assistant.Config{
		APIKey:         a.cfg.Assistant.APIKey,
		BaseURL:        a.cfg.Assistant.BaseURL,
		Model:          a.cfg.Assistant.Model,
		Referer:        a.cfg.Assistant.Referer,
		Title:          a.cfg.Assistant.Title,
		TimeoutSeconds: a.cfg.Assistant.TimeoutSeconds,
	}), nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
