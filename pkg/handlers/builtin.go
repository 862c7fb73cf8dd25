// Package handlers provides the builtin command handlers: help, version,
// status, analyze, persona, history, and echo. Handler bodies produce
// structured text; the interesting logic lives in the engines they consult.
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/maestrohq/maestro/pkg/command"
	"github.com/maestrohq/maestro/pkg/handler"
	"github.com/maestrohq/maestro/pkg/persona"
	"github.com/maestrohq/maestro/pkg/router"
	"github.com/maestrohq/maestro/pkg/store"
	"github.com/maestrohq/maestro/pkg/workspace"
)

// HistoryReader is the slice of the store the history handler needs.
type HistoryReader interface {
	CommandHistory(ctx context.Context, sessionID string) ([]store.HistoryEntry, error)
}

// Runtime gives builtin handlers access to engine internals. Fields may be
// nil; handlers degrade to a short notice instead of failing.
type Runtime struct {
	Registry   *handler.Registry
	Dispatcher *router.Dispatcher
	Sandbox    *workspace.Sandbox
	Selector   *persona.Selector
	History    HistoryReader
	Watcher    *workspace.Watcher
	Version    string
}

// RegisterBuiltins registers every builtin handler into rt.Registry.
func RegisterBuiltins(rt *Runtime) error {
	builtins := []handler.Handler{
		&helpHandler{rt: rt},
		&versionHandler{rt: rt},
		&statusHandler{rt: rt},
		&analyzeHandler{rt: rt},
		&personaHandler{rt: rt},
		&historyHandler{rt: rt},
		&echoHandler{},
	}
	for _, h := range builtins {
		if err := rt.Registry.Register(h); err != nil {
			return fmt.Errorf("register builtin %s: %w", h.Name(), err)
		}
	}
	return nil
}

// base carries the boilerplate every builtin shares.
type base struct{}

func (base) CanHandle(command.ParsedCommand) bool { return true }
func (base) Parameters() []handler.Parameter      { return nil }
func (base) Aliases() []string                    { return nil }

type helpHandler struct {
	base
	rt *Runtime
}

func (h *helpHandler) Name() string        { return "help" }
func (h *helpHandler) Aliases() []string   { return []string{"h", "?"} }
func (h *helpHandler) Description() string { return "List available commands" }

func (h *helpHandler) Execute(_ context.Context, _ *command.Command) (*command.Result, error) {
	var b strings.Builder
	b.WriteString("Available commands:\n")
	for _, registered := range h.rt.Registry.Handlers() {
		b.WriteString(fmt.Sprintf("  %-10s %s", registered.Name(), registered.Description()))
		if aliases := registered.Aliases(); len(aliases) > 0 {
			b.WriteString(fmt.Sprintf(" (aliases: %s)", strings.Join(aliases, ", ")))
		}
		b.WriteString("\n")
	}
	return command.TextResult(b.String()), nil
}

type versionHandler struct {
	base
	rt *Runtime
}

func (h *versionHandler) Name() string        { return "version" }
func (h *versionHandler) Description() string { return "Show maestro version" }

func (h *versionHandler) Execute(_ context.Context, _ *command.Command) (*command.Result, error) {
	v := h.rt.Version
	if v == "" {
		v = "dev"
	}
	return command.TextResult("maestro " + v), nil
}

type statusHandler struct {
	base
	rt *Runtime
}

func (h *statusHandler) Name() string        { return "status" }
func (h *statusHandler) Description() string { return "Show dispatcher status" }

func (h *statusHandler) Execute(_ context.Context, _ *command.Command) (*command.Result, error) {
	if h.rt.Dispatcher == nil {
		return command.TextResult("dispatcher not available"), nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "in-flight commands: %d\n", h.rt.Dispatcher.InFlight())
	fmt.Fprintf(&b, "registered handlers: %d\n", len(h.rt.Registry.Names()))
	if h.rt.Watcher != nil {
		fmt.Fprintf(&b, "workspace changes observed: %d\n", h.rt.Watcher.Changes())
	}
	return command.TextResult(b.String()), nil
}

type echoHandler struct {
	base
}

func (h *echoHandler) Name() string        { return "echo" }
func (h *echoHandler) Aliases() []string   { return []string{"say"} }
func (h *echoHandler) Description() string { return "Echo a message back" }

func (h *echoHandler) Parameters() []handler.Parameter {
	return []handler.Parameter{
		{Name: "message", Type: handler.TypeString, Required: true, Description: "Text to echo"},
	}
}

func (h *echoHandler) Execute(_ context.Context, cmd *command.Command) (*command.Result, error) {
	if opt, ok := cmd.Options["message"]; ok {
		return command.TextResult(opt.String()), nil
	}
	return command.TextResult(strings.Join(cmd.Arguments, " ")), nil
}
