// Package container provides dependency injection for the sms-ledger application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"

	"fjacquet/sms-ledger/internal/banks"
	"fjacquet/sms-ledger/internal/categorizer"
	"fjacquet/sms-ledger/internal/config"
	"fjacquet/sms-ledger/internal/database"
	"fjacquet/sms-ledger/internal/ingest"
	"fjacquet/sms-ledger/internal/ledger"
	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/smsparser"
	"fjacquet/sms-ledger/internal/source"
	"fjacquet/sms-ledger/internal/store"
	"fjacquet/sms-ledger/internal/tracking"
)

// Container holds all application dependencies and provides methods to access them.
// It is immutable after creation; Close releases the database, the ingest
// worker and any live subscription.
type Container struct {
	logger      logging.Logger
	config      *config.Config
	store       *store.RuleStore
	registry    *banks.Registry
	parser      *smsparser.Parser
	categorizer *categorizer.Categorizer
	db          *database.DB
	pipeline    *ingest.Pipeline
	worker      *ingest.Worker
	source      source.Source
	tracking    *tracking.Manager
	ledger      *ledger.Service
}

// NewContainer creates and wires all application dependencies with the
// logger described by cfg.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, config.ConfigureLoggingFromConfig(cfg))
}

// NewContainerWithLogger wires the dependencies around an existing logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	logger = logging.OrDefault(logger)

	ruleStore, registry, parser, cat := NewParsing(cfg, logger)

	src, err := source.New(source.Type(cfg.Source.Type), cfg.Source.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create message source: %w", err)
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pipeline := ingest.NewPipeline(db, parser, cat, ingest.Options{
		Policy:           ingest.UnparseablePolicy(cfg.Ingest.UnparseablePolicy),
		MaxParseAttempts: cfg.Ingest.MaxParseAttempts,
	}, logger)
	worker := ingest.NewWorker(pipeline, cfg.Ingest.QueueSize, logger)
	manager := tracking.NewManager(src, worker, cfg.Ingest.BacklogLimit, logger)

	logger.Debug("Container initialized",
		logging.F(logging.FieldSource, cfg.Source.Type),
		logging.F("database", cfg.Database.Path),
		logging.F("bank_senders", len(registry.Senders())))

	return &Container{
		logger:      logger,
		config:      cfg,
		store:       ruleStore,
		registry:    registry,
		parser:      parser,
		categorizer: cat,
		db:          db,
		pipeline:    pipeline,
		worker:      worker,
		source:      src,
		tracking:    manager,
		ledger:      ledger.NewService(db, logger),
	}, nil
}

// NewParsing builds the database-free part of the graph: the rule store,
// the bank registry extended from banks.yaml, the SMS parser and the
// categorizer extended from categories.yaml.
func NewParsing(cfg *config.Config, logger logging.Logger) (*store.RuleStore, *banks.Registry, *smsparser.Parser, *categorizer.Categorizer) {
	logger = logging.OrDefault(logger)
	ruleStore := store.NewRuleStore(cfg.Categories.File, cfg.Banks.File, logger)

	registry := banks.DefaultRegistry()
	extraBanks, err := ruleStore.LoadBanks()
	if err != nil {
		logger.WithError(err).Warn("Failed to load bank senders, using built-in senders")
	} else if len(extraBanks) > 0 {
		registry = registry.With(extraBanks...)
		logger.Debug("Loaded extra bank senders", logging.F(logging.FieldCount, len(extraBanks)))
	}

	return ruleStore, registry, smsparser.NewParser(registry, logger), categorizer.NewCategorizer(ruleStore, logger)
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the rule file store.
func (c *Container) GetStore() *store.RuleStore {
	return c.store
}

// GetBankRegistry returns the built-in bank senders plus those from banks.yaml.
func (c *Container) GetBankRegistry() *banks.Registry {
	return c.registry
}

// GetParser returns the SMS parser.
func (c *Container) GetParser() *smsparser.Parser {
	return c.parser
}

// GetCategorizer returns the container's categorizer instance.
func (c *Container) GetCategorizer() *categorizer.Categorizer {
	return c.categorizer
}

// GetDatabase returns the persistence store.
func (c *Container) GetDatabase() *database.DB {
	return c.db
}

// GetIngester returns the serialized ingest worker.
func (c *Container) GetIngester() *ingest.Worker {
	return c.worker
}

// GetSource returns the configured message source.
func (c *Container) GetSource() source.Source {
	return c.source
}

// GetTracking returns the lifecycle manager of the live subscription.
func (c *Container) GetTracking() *tracking.Manager {
	return c.tracking
}

// GetLedger returns the manual entry and dashboard service.
func (c *Container) GetLedger() *ledger.Service {
	return c.ledger
}

// Close stops tracking, drains the ingest worker and closes the database.
func (c *Container) Close() error {
	c.tracking.Stop()
	if err := c.worker.Close(); err != nil {
		c.logger.WithError(err).Warn("Failed to stop ingest worker")
	}
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	c.logger.Debug("Container closed")
	return nil
}
