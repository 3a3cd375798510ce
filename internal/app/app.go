// Package app wires the chat pipeline from configuration. Every binary under
// cmd builds its Agent here so they all behave the same.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/MrJamesThe3rd/finnychat/internal/agent"
	"github.com/MrJamesThe3rd/finnychat/internal/config"
	"github.com/MrJamesThe3rd/finnychat/internal/database"
	"github.com/MrJamesThe3rd/finnychat/internal/executor"
	"github.com/MrJamesThe3rd/finnychat/internal/intent"
	"github.com/MrJamesThe3rd/finnychat/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/finnychat/internal/ledger/store"
	"github.com/MrJamesThe3rd/finnychat/internal/llm"
	"github.com/MrJamesThe3rd/finnychat/internal/memory/inmemory"
	"github.com/MrJamesThe3rd/finnychat/internal/statement"
	"github.com/MrJamesThe3rd/finnychat/internal/synth"
)

type App struct {
	Config *config.Config
	DB     *sql.DB
	Agent  *agent.Agent
}

type options struct {
	db        *sql.DB
	completer llm.Completer
	now       func() time.Time
	logger    *slog.Logger
}

type Option func(*options)

// WithDB reuses an open database instead of connecting from the config.
func WithDB(db *sql.DB) Option {
	return func(o *options) { o.db = db }
}

// WithCompleter replaces the Gemini client, mostly for tests.
func WithCompleter(c llm.Completer) Option {
	return func(o *options) { o.completer = c }
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := options{now: time.Now, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	db := o.db
	if db == nil {
		var err error

		db, err = database.New(cfg.DB.Driver, cfg.ConnectionString())
		if err != nil {
			return nil, err
		}
	}

	if cfg.DB.Driver == config.DriverSQLite {
		if err := database.EnsureSQLiteSchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
	}

	completer := o.completer
	if completer == nil && cfg.LLM.APIKey != "" {
		g, err := llm.NewGemini(ctx, cfg.LLM.APIKey, cfg.LLM.Model)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("creating gemini client: %w", err)
		}

		completer = g
	}

	var classifier intent.Classifier = intent.Heuristic{}
	if cfg.LLM.Classifier == "llm" {
		if completer == nil {
			db.Close()
			return nil, fmt.Errorf("INTENT_CLASSIFIER=llm requires GEMINI_API_KEY")
		}

		classifier = intent.NewLLM(completer, cfg.LLM.Timeout, o.logger)
	}

	var strategies []synth.Strategy

	if cfg.Agent.PatternsEnabled {
		strategies = append(strategies, synth.NewPattern(synth.PatternConfig{
			AmountCeiling:   cfg.Agent.AmountCeiling,
			ExpenseFallback: cfg.Agent.ExpenseFallback,
			IncomeFallback:  cfg.Agent.IncomeFallback,
			Now:             o.now,
		}))
	}

	if completer != nil {
		strategies = append(strategies, synth.NewGenerative(completer, cfg.LLM.Timeout, o.now))
	}

	if len(strategies) == 0 {
		o.logger.Warn("no synthesis strategy enabled, every command will be rejected")
	}

	dialect := statement.DialectFor(cfg.DB.Driver)

	var memOpts []inmemory.Option
	if cfg.Agent.MemoryLimit > 0 {
		memOpts = append(memOpts, inmemory.WithLimit(cfg.Agent.MemoryLimit))
	}

	a := agent.New(
		classifier,
		ledger.NewService(ledgerStore.New(db, dialect)),
		synth.New(o.logger, strategies...),
		executor.New(db, dialect, o.logger),
		inmemory.NewStore(memOpts...),
		o.logger,
	)

	return &App{Config: cfg, DB: db, Agent: a}, nil
}

// Seed gives the owner the default category set if it has none of those names yet.
func (a *App) Seed(ctx context.Context, ownerID int64) error {
	return database.SeedCategories(ctx, a.DB, a.Config.DB.Driver, ownerID)
}

func (a *App) Close() error {
	return a.DB.Close()
}
