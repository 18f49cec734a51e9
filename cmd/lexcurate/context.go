package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"lexcurate/internal/cognates"
	"lexcurate/internal/config"
	"lexcurate/internal/conceptgraph"
	"lexcurate/internal/dataset"
	"lexcurate/internal/logging"
	"lexcurate/internal/review"
	"lexcurate/internal/tablestore"
)

// errReported marks failures whose details were already written to stdout.
var errReported = errors.New("problems reported")

type commandContext struct {
	configFlag   *string
	metadataFlag *string
	jsonFlag     *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	runID string
}

func newCommandContext(configFlag, metadataFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		metadataFlag: metadataFlag,
		jsonFlag:     jsonFlag,
		runID:        uuid.NewString(),
	}
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
		if c.metadataFlag != nil && strings.TrimSpace(*c.metadataFlag) != "" {
			expanded, err := config.ExpandPath(strings.TrimSpace(*c.metadataFlag))
			if err != nil {
				c.configErr = err
				return
			}
			cfg.Paths.Metadata = expanded
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
		logger, err := logging.NewFromConfig(cfg, c.runID)
		if err != nil {
			c.loggerErr = err
			return
		}
		logging.PruneLogs(cfg, logger)
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// JSONMode reports whether --json was given.
func (c *commandContext) JSONMode() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// session is one loaded dataset, locked for writing when mutable.
type session struct {
	cfg    *config.Config
	store  *tablestore.Store
	ds     *dataset.Dataset
	lock   *tablestore.Lock
	logger *slog.Logger
	ctx    context.Context
}

// openDataset loads the configured dataset. Mutating commands pass
// mutable=true and hold the dataset lock until the session is closed.
func (c *commandContext) openDataset(cmd *cobra.Command, operation string, mutable bool) (*session, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Paths.Metadata == "" {
		return nil, fmt.Errorf("no dataset configured: pass --metadata, set paths.metadata, or export %s", config.MetadataEnv)
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	ctx := logging.WithOperation(logging.WithRunID(cmd.Context(), c.runID), operation)
	logger = logging.WithContext(ctx, logger)

	store, err := tablestore.Open(cfg.Paths.Metadata, tablestore.Options{
		BackupSuffix: cfg.Storage.BackupSuffix,
		Logger:       logger,
	})
	if err != nil {
		return nil, err
	}
	var lock *tablestore.Lock
	if mutable {
		if lock, err = store.Lock(); err != nil {
			return nil, err
		}
	}
	scope, err := cognates.ParseScope(cfg.Cognates.IDScope)
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}
	ds, err := dataset.Load(store, dataset.Options{Scope: scope, Placeholders: cfg.Cognates.Placeholders})
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}
	logger.Debug("dataset loaded",
		logging.String("metadata", cfg.Paths.Metadata),
		logging.Int("forms", ds.Forms.Len()),
		logging.Int("judgements", ds.Judgements.Len()),
		logging.Int("cognatesets", ds.CognateSets.Len()),
	)
	return &session{cfg: cfg, store: store, ds: ds, lock: lock, logger: logger, ctx: ctx}, nil
}

// save writes the named tables and flushes the store.
func (s *session) save(tables ...string) error {
	if err := s.ds.Save(s.store, tables...); err != nil {
		return err
	}
	return s.store.Flush()
}

func (s *session) close() {
	if err := s.lock.Unlock(); err != nil {
		s.logger.Warn("release dataset lock", logging.Error(err))
	}
}

// conceptGraph binds the configured relatedness graph to the dataset's
// concepts. Without a configured graph every concept is unmapped.
func (s *session) conceptGraph() (*conceptgraph.Concepts, error) {
	var g *conceptgraph.Graph
	if s.cfg.Paths.ConceptGraph != "" {
		loaded, err := conceptgraph.Load(s.cfg.Paths.ConceptGraph)
		if err != nil {
			return nil, err
		}
		g = loaded
		s.logger.Debug("concept graph loaded", logging.Int("nodes", g.Len()))
	}
	return conceptgraph.Bind(g, s.ds.Concepts), nil
}

// recordFlags stores review flags raised by this run.
func (c *commandContext) recordFlags(s *session, flags []review.Flag) error {
	if len(flags) == 0 {
		return nil
	}
	store, err := review.Open(s.ctx, s.cfg.Paths.StateDir)
	if err != nil {
		return err
	}
	defer store.Close()
	if _, err := store.Add(s.ctx, c.runID, s.cfg.Paths.Metadata, flags...); err != nil {
		return err
	}
	logging.WarnWithContext(s.logger, "flags raised for manual review", "review_flags",
		logging.Int("flags", len(flags)),
		logging.String(logging.FieldErrorHint, "run lexcurate review list"),
		logging.String(logging.FieldImpact, "records kept unchanged until reviewed"),
	)
	return nil
}

// withReview opens the review store for review subcommands.
func (c *commandContext) withReview(cmd *cobra.Command, fn func(context.Context, *review.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := review.Open(cmd.Context(), cfg.Paths.StateDir)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(cmd.Context(), store)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
