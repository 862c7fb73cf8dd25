package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/maestrohq/maestro/pkg/command"
	"github.com/maestrohq/maestro/pkg/config"
	"github.com/maestrohq/maestro/pkg/handler"
	"github.com/maestrohq/maestro/pkg/handlers"
	"github.com/maestrohq/maestro/pkg/logger"
	"github.com/maestrohq/maestro/pkg/persona"
	"github.com/maestrohq/maestro/pkg/router"
	"github.com/maestrohq/maestro/pkg/store"
	"github.com/maestrohq/maestro/pkg/workspace"
)

// app bundles everything a CLI command needs at runtime.
type app struct {
	cfg      *config.Config
	engine   *router.Engine
	registry *handler.Registry
	selector *persona.Selector
	sandbox  *workspace.Sandbox
	store    *store.Store
	watcher  *workspace.Watcher
}

// newApp wires the full engine from configuration: storage, registry,
// dispatcher, selector, and the builtin handlers.
func newApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	applyLogging(cfg)

	// An empty database path disables persistence: personas live in an
	// ephemeral store and command history is discarded.
	dbPath := cfg.Storage.DatabasePath
	persistent := dbPath != ""
	if persistent {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	} else {
		dbPath = ":memory:"
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	if err := st.Seed(context.Background()); err != nil {
		st.Close()
		return nil, err
	}

	sandbox, err := workspace.NewSandbox(cfg.Workspace.Path, cfg.Workspace.Restrict)
	if err != nil {
		st.Close()
		return nil, err
	}

	registry := handler.NewRegistry()
	dispatcher := router.NewDispatcher(registry, router.Options{
		MaxConcurrent:  cfg.Routing.MaxConcurrentCommands,
		DefaultTimeout: time.Duration(cfg.Routing.DefaultTimeoutMs) * time.Millisecond,
		RatePerMinute:  cfg.Routing.RatePerMinute,
	})
	var history handlers.HistoryReader = st
	if persistent {
		dispatcher.SetHistoryRecorder(st)
	} else {
		dispatcher.SetHistoryRecorder(store.NullHistory{})
		history = store.NullHistory{}
	}

	selector := persona.NewSelector(st, persona.Weights{
		TechnologyMatch: cfg.Selection.WeightTechnology,
		ExpertiseLevel:  cfg.Selection.WeightExpertise,
		PastPerformance: cfg.Selection.WeightPerformance,
		UserPreference:  cfg.Selection.WeightPreference,
		ProjectType:     cfg.Selection.WeightProjectType,
		TimeOfDay:       cfg.Selection.WeightTimeOfDay,
	}, persona.SelectorOptions{
		MinConfidence:   cfg.Selection.MinConfidence,
		Strategy:        persona.Strategy(cfg.Selection.Strategy),
		MaxCandidates:   cfg.Selection.MaxCandidates,
		FallbackEnabled: cfg.Selection.FallbackEnabled,
		FallbackID:      cfg.Selection.FallbackPersonaID,
	})

	engine := router.NewEngine(registry, dispatcher)
	engine.SetSelector(selector)

	var watcher *workspace.Watcher
	if cfg.Workspace.Watch {
		watcher, err = workspace.NewWatcher(sandbox)
		if err != nil {
			logger.WarnCF("main", "Workspace watcher unavailable",
				map[string]any{"error": err.Error()})
		} else {
			go watcher.Run(context.Background())
		}
	}

	if err := handlers.RegisterBuiltins(&handlers.Runtime{
		Registry:   registry,
		Dispatcher: dispatcher,
		Sandbox:    sandbox,
		Selector:   selector,
		History:    history,
		Watcher:    watcher,
		Version:    formatVersion(),
	}); err != nil {
		if watcher != nil {
			watcher.Close()
		}
		st.Close()
		return nil, err
	}

	return &app{
		cfg:      cfg,
		engine:   engine,
		registry: registry,
		selector: selector,
		sandbox:  sandbox,
		store:    st,
		watcher:  watcher,
	}, nil
}

func (a *app) close() {
	if a.watcher != nil {
		a.watcher.Close()
	}
	if a.store != nil {
		a.store.Close()
	}
}

// executionContext builds the per-invocation context from the inspected
// workspace and flags.
func (a *app) executionContext(sessionID, userID, level string) command.ExecutionContext {
	project := a.sandbox.Inspect(&command.Project{
		Name: filepath.Base(a.sandbox.Root),
	})

	execCtx := command.ExecutionContext{
		SessionID:  sessionID,
		Project:    project,
		WorkingDir: a.sandbox.Root,
		Timestamp:  time.Now(),
	}
	if userID != "" {
		execCtx.User = &command.User{
			ID:              userID,
			ExperienceLevel: command.ExperienceLevel(level),
		}
	}
	return execCtx
}

func applyLogging(cfg *config.Config) {
	switch cfg.Logging.Level {
	case "debug":
		logger.SetLevel(logger.DEBUG)
	case "warn":
		logger.SetLevel(logger.WARN)
	case "error":
		logger.SetLevel(logger.ERROR)
	default:
		logger.SetLevel(logger.INFO)
	}
	if cfg.Logging.File != "" {
		if err := logger.EnableFileLogging(cfg.Logging.File); err != nil {
			logger.WarnCF("main", "File logging unavailable",
				map[string]any{"error": err.Error()})
		}
	}
}
